package security

import "strings"

// NormalizeRedirect decides where to send the browser after sign-in.
// URLs already on baseURL pass unchanged, root-relative paths are joined to
// baseURL, and anything else lands on baseURL+fallbackPath.
func NormalizeRedirect(target, baseURL, fallbackPath string) string {
	baseURL = strings.TrimRight(baseURL, "/")
	if fallbackPath == "" {
		fallbackPath = "/dashboard"
	}
	switch {
	case target == "":
	case sameOrigin(target, baseURL):
		return target
	case strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.HasPrefix(target, "/\\"):
		return baseURL + target
	}
	return baseURL + fallbackPath
}

// sameOrigin requires the character after the origin to end it, so
// https://app.example.com.evil.net does not pass for https://app.example.com.
func sameOrigin(target, baseURL string) bool {
	if !strings.HasPrefix(target, baseURL) {
		return false
	}
	rest := target[len(baseURL):]
	return rest == "" || strings.ContainsRune("/?#", rune(rest[0]))
}
