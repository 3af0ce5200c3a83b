package api

import (
	"html/template"
	"log/slog"
	"net/http"
)

// promptHTML is the sign-in/sign-out prompt: a header and a link to the
// provider authorization URL.
const promptHTML = `<!DOCTYPE html>
<html>
<head><title>{{.Header}}</title></head>
<body>
  <div class="prompt {{.Color}}">
    <h1>{{.Header}}</h1>
    <p><a href="{{.SignInURL}}">Sign in with Google</a></p>
  </div>
</body>
</html>`

// forwardHTML is served on the provider callback. The access token arrives
// in the URL fragment, which never reaches the server, so this page's only
// job is client-side: re-submit the fragment contents as ordinary query
// parameters to the token-capture endpoint.
const forwardHTML = `<!DOCTYPE html>
<html>
<head><title>Signing in</title></head>
<body>
  <script>
    var fragment = window.location.hash.substring(1);
    window.location.replace({{.CatchTokenURL}} + "?" + fragment);
  </script>
  <noscript>JavaScript is required to complete sign-in.</noscript>
</body>
</html>`

var (
	promptTmpl  = template.Must(template.New("prompt").Parse(promptHTML))
	forwardTmpl = template.Must(template.New("forward").Parse(forwardHTML))
)

type promptData struct {
	Header    string
	Color     string
	SignInURL string
}

func renderPrompt(w http.ResponseWriter, status int, data promptData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := promptTmpl.Execute(w, data); err != nil {
		slog.Error("rendering prompt template", "error", err)
	}
}

func renderForward(w http.ResponseWriter, catchTokenURL string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := forwardTmpl.Execute(w, map[string]string{"CatchTokenURL": catchTokenURL}); err != nil {
		slog.Error("rendering forward template", "error", err)
	}
}
