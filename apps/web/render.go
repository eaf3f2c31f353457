package webapp

import (
	"html/template"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/adrsy6394/SkillSpring/core/auth"
	"github.com/adrsy6394/SkillSpring/core/user"
)

// The front ends are server-rendered; pages stay intentionally bare.
var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
{{- if .Refresh}}
<meta http-equiv="refresh" content="1">
{{- end}}
<title>{{.Title}} | SkillSpring</title>
</head>
<body>
<h1>{{.Title}}</h1>
{{- range .Errors}}
<p class="error">{{.}}</p>
{{- end}}
{{.Body}}
</body>
</html>
`))

type page struct {
	Title   string
	Body    template.HTML
	Errors  []string
	Refresh bool
}

func renderPage(ctx echo.Context, code int, p page) error {
	ctx.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	ctx.Response().WriteHeader(code)
	return pageTmpl.Execute(ctx.Response(), p)
}

func (s *server) renderHome(ctx echo.Context, snap auth.Snapshot) error {
	dep := s.opts.Deployment
	body := `<p>Browse the course catalog.</p>`
	if snap.SessionPresent() {
		body = `<p>Signed in as ` + template.HTMLEscapeString(snap.Session.Email) + `.</p>
<form method="post" action="/logout"><button type="submit">Sign out</button></form>`
	} else if dep.PublicHome {
		body += `<p><a href="` + template.HTMLEscapeString(s.dispatcher.LoginRedirect("")) + `">Sign in</a></p>`
	}
	return renderPage(ctx, http.StatusOK, page{Title: dep.Name, Body: template.HTML(body)})
}

// renderLoading is the WAIT page: the role is still being resolved, so
// the page refreshes itself until the guard can decide.
func (s *server) renderLoading(ctx echo.Context) error {
	return renderPage(ctx, http.StatusOK, page{
		Title:   "Signing you in",
		Body:    template.HTML(`<p>Hold on while we check your account&hellip;</p>`),
		Refresh: true,
	})
}

func (s *server) renderLogin(ctx echo.Context, returnPath string, errs []string) error {
	body := `<form method="post" action="/login">
<input type="hidden" name="redirect" value="` + template.HTMLEscapeString(returnPath) + `">
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<button type="submit">Sign in</button>
</form>
<p><a href="/signup">Create an account</a></p>`
	return renderPage(ctx, http.StatusOK, page{Title: "Sign in", Body: template.HTML(body), Errors: errs})
}

func (s *server) renderSignup(ctx echo.Context, errs []string) error {
	body := `<form method="post" action="/signup">
<label>Full name <input type="text" name="full_name" required></label>
<label>Email <input type="email" name="email" required></label>
<label>Password <input type="password" name="password" required></label>
<label>Confirm password <input type="password" name="password_confirm" required></label>
<label>I want to
<select name="role">
<option value="` + string(user.RoleStudent) + `">Learn</option>
<option value="` + string(user.RoleInstructor) + `">Teach</option>
</select>
</label>
<button type="submit">Sign up</button>
</form>`
	return renderPage(ctx, http.StatusOK, page{Title: "Sign up", Body: template.HTML(body), Errors: errs})
}
