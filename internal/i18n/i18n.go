// Package i18n resolves the request language and renders client visible
// strings in English (the default) or Japanese.
package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	LangParam      = "lang"
	LangCookieName = "crp_lang"
)

var (
	supported = []language.Tag{language.English, language.Japanese}
	matcher   = language.NewMatcher(supported)
	messages  = mustBuildCatalog()
)

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range map[language.Tag]map[string]string{
		language.English:  english,
		language.Japanese: japanese,
	} {
		for key, msg := range msgs {
			if err := b.SetString(tag, key, msg); err != nil {
				panic("i18n: " + key + ": " + err.Error())
			}
		}
	}
	return b
}

func Supported() []language.Tag { return supported }

func Default() language.Tag { return language.English }

// Match maps any requested tag onto a supported one.
func Match(tags ...language.Tag) language.Tag {
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default()
	}
	return supported[idx]
}

func ParseTag(v string) (language.Tag, bool) {
	tag, err := language.Parse(strings.TrimSpace(v))
	if err != nil {
		return Default(), false
	}
	return Match(tag), true
}

// ResolveTag checks the lang query param, then the lang cookie, then
// Accept-Language. The bool reports whether the query param chose the tag
// and should be persisted.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return Default(), false
	}
	if v := r.URL.Query().Get(LangParam); v != "" {
		if tag, ok := ParseTag(v); ok {
			return tag, true
		}
	}
	if c, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := ParseTag(c.Value); ok {
			return tag, false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return Match(tags...), false
		}
	}
	return Default(), false
}

func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

func Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(messages))
}

// For returns the printer for the request's language.
func For(r *http.Request) *message.Printer {
	tag, _ := ResolveTag(r)
	return Printer(tag)
}

// ActivityLabel renders the display label of an activity type, falling back
// to the raw type for unknown values.
func ActivityLabel(p *message.Printer, activityType string) string {
	key := ActivityLabelKey(activityType)
	if out := p.Sprintf(key); out != key {
		return out
	}
	return activityType
}

// RelativeTime renders how long ago t was, relative to now.
func RelativeTime(p *message.Printer, t, now time.Time) string {
	d := now.Sub(t)
	seconds := int(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	switch {
	case seconds < 60:
		return p.Sprintf(MsgTimeJustNow)
	case minutes < 60:
		return p.Sprintf(MsgTimeMinutesAgo, minutes)
	case hours < 24:
		return p.Sprintf(MsgTimeHoursAgo, hours)
	case days < 7:
		return p.Sprintf(MsgTimeDaysAgo, days)
	case days/7 < 4:
		return p.Sprintf(MsgTimeWeeksAgo, days/7)
	case days/30 < 12:
		return p.Sprintf(MsgTimeMonthsAgo, days/30)
	default:
		return p.Sprintf(MsgTimeYearsAgo, days/30/12)
	}
}
