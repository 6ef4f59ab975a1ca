package handler

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sandeepkv93/codereview-portal/internal/http/middleware"
	"github.com/sandeepkv93/codereview-portal/internal/i18n"
	"github.com/sandeepkv93/codereview-portal/internal/service"
)

const pageLayout = `<!DOCTYPE html>
<html lang="{{.Lang}}">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{block "content" .}}{{end}}
</body>
</html>`

var pageTemplates = map[string]*template.Template{
	"home":      mustPage(`{{define "content"}}<nav><a href="/dashboard">{{.Nav.Dashboard}}</a> <a href="/contact">{{.Nav.Contact}}</a></nav>{{end}}`),
	"signin":    mustPage(`{{define "content"}}{{if .Error}}<p role="alert">{{.Error}}</p>{{end}}<a href="{{.SignInURL}}">{{.Action}}</a>{{end}}`),
	"dashboard": mustPage(`{{define "content"}}{{if .User}}<p>{{.User}}</p>{{end}}{{if .Items}}<ul>{{range .Items}}<li><strong>{{.Label}}</strong> {{.Target}} <time datetime="{{.At}}">{{.Ago}}</time></li>{{end}}</ul>{{else}}<p>{{.Empty}}</p>{{end}}{{end}}`),
	"contact":   mustPage(`{{define "content"}}<form method="post" action="/api/contact"><input name="name"><input name="email" type="email"><input name="subject"><textarea name="message"></textarea><button type="submit">{{.Title}}</button></form>{{end}}`),
}

func mustPage(content string) *template.Template {
	t := template.Must(template.New("layout").Parse(pageLayout))
	return template.Must(t.Parse(content))
}

type pageNav struct {
	Dashboard string
	Contact   string
}

type activityItem struct {
	Label  string
	Target string
	At     string
	Ago    string
}

// PageHandler renders the minimal server-side pages behind the route guard.
type PageHandler struct {
	activities service.ActivityServiceInterface
	now        func() time.Time
}

func NewPageHandler(activities service.ActivityServiceInterface) *PageHandler {
	return &PageHandler{activities: activities, now: time.Now}
}

func (h *PageHandler) Home(w http.ResponseWriter, r *http.Request) {
	p, tag := h.printer(w, r)
	h.render(w, r, "home", map[string]any{
		"Lang":  tag.String(),
		"Title": p.Sprintf(i18n.MsgPageHomeTitle),
		"Nav":   pageNav{Dashboard: p.Sprintf(i18n.MsgPageDashboardTitle), Contact: p.Sprintf(i18n.MsgPageContactTitle)},
	})
}

func (h *PageHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	p, tag := h.printer(w, r)
	q := url.Values{}
	if cb := r.URL.Query().Get("callbackUrl"); cb != "" {
		q.Set("callbackUrl", cb)
	}
	signInURL := "/api/auth/signin/google"
	if len(q) > 0 {
		signInURL += "?" + q.Encode()
	}
	errMsg := ""
	if r.URL.Query().Get("error") != "" {
		errMsg = p.Sprintf(i18n.MsgSignInFailed)
	}
	h.render(w, r, "signin", map[string]any{
		"Lang":      tag.String(),
		"Title":     p.Sprintf(i18n.MsgPageSignInTitle),
		"Action":    p.Sprintf(i18n.MsgPageSignInGoogle),
		"SignInURL": signInURL,
		"Error":     errMsg,
	})
}

func (h *PageHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	p, tag := h.printer(w, r)
	data := map[string]any{
		"Lang":  tag.String(),
		"Title": p.Sprintf(i18n.MsgPageDashboardTitle),
		"Empty": p.Sprintf(i18n.MsgPageDashboardEmpty),
	}
	if s, ok := middleware.SessionFromContext(r.Context()); ok {
		data["User"] = s.Claims.Email
		list, err := h.activities.ListRecent(r.Context(), s.Claims.Email, service.DefaultActivityLimit)
		if err != nil {
			slog.WarnContext(r.Context(), "dashboard activities unavailable", "error", err)
		} else {
			now := h.now()
			items := make([]activityItem, 0, len(list.Activities))
			for _, a := range list.Activities {
				at, _ := time.Parse(service.ISOMillis, a.CreatedAt)
				items = append(items, activityItem{
					Label:  i18n.ActivityLabel(p, a.Type),
					Target: a.TargetName,
					At:     a.CreatedAt,
					Ago:    i18n.RelativeTime(p, at, now),
				})
			}
			data["Items"] = items
		}
	}
	h.render(w, r, "dashboard", data)
}

func (h *PageHandler) Contact(w http.ResponseWriter, r *http.Request) {
	p, tag := h.printer(w, r)
	h.render(w, r, "contact", map[string]any{
		"Lang":  tag.String(),
		"Title": p.Sprintf(i18n.MsgPageContactTitle),
	})
}

// printer resolves the page language and persists an explicit ?lang= choice.
func (h *PageHandler) printer(w http.ResponseWriter, r *http.Request) (*message.Printer, language.Tag) {
	tag, fromQuery := i18n.ResolveTag(r)
	if fromQuery {
		i18n.SetLanguageCookie(w, tag)
	}
	return i18n.Printer(tag), tag
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, name string, data map[string]any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := pageTemplates[name].Execute(w, data); err != nil {
		slog.ErrorContext(r.Context(), "page render failed", "page", name, "error", err)
	}
}
