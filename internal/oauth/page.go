package oauth

import (
	"html/template"
	"net/http"
	"net/url"
)

// Completion is the single message a popup posts to its opener.
type Completion struct {
	Type        string `json:"type"`
	AccessToken string `json:"accessToken"`
	IDToken     string `json:"idToken,omitempty"`
	User        any    `json:"user"`
}

// Completion message types.
const (
	TypeGitHubSuccess = "github-auth-success"
	TypeAuth0Callback = "auth0-callback"
)

// The script context JSON-encodes the payload, so markup in user fields cannot break out.
var completionPage = template.Must(template.New("completion").Parse(`<!doctype html><html><head><meta charset="utf-8" /></head><body><script>try{window.opener && window.opener.postMessage({{.}}, window.location.origin);}catch(e){}window.close();</script></body></html>`))

var errorPage = template.Must(template.New("error").Parse(`<!doctype html><html><head><meta charset="utf-8" /></head><body><h2>{{.Title}}</h2>{{if .Detail}}<pre>{{.Detail}}</pre>{{end}}</body></html>`))

// RenderCompletion writes the popup page that notifies the opener and closes itself.
func RenderCompletion(w http.ResponseWriter, c Completion) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	return completionPage.Execute(w, c)
}

// RenderError writes a diagnostics page for the popup.
func RenderError(w http.ResponseWriter, status int, title, detail string) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	return errorPage.Execute(w, struct {
		Title  string
		Detail string
	}{title, detail})
}

func queryParam(raw, name string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Query().Get(name)
}
