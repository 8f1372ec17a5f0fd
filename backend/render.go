package backend

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/wansing/blog/core"
	"github.com/wansing/blog/util"
	"gitlab.com/golang-commonmark/markdown"
	"golang.org/x/text/language"
)

const teaserLength = 300

// entries are written by administrators, so they may contain raw HTML
var entryParser = markdown.New(markdown.HTML(true), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

var commentParser = markdown.New(markdown.HTML(false), markdown.Linkify(true), markdown.Typographer(true), markdown.MaxNesting(10))

var langMatcher = language.NewMatcher([]language.Tag{
	language.AmericanEnglish, // default
	language.German,
})

var monthNamesDe = strings.NewReplacer(
	"January", "Januar",
	"February", "Februar",
	"March", "März",
	"May", "Mai",
	"June", "Juni",
	"July", "Juli",
	"October", "Oktober",
	"December", "Dezember",
)

// page is the data of every template.
type page struct {
	*core.Session
	Errors   []string // popped from the session
	Data     interface{}
	Prefix   string // with trailing slash
	language language.Tag
}

func (p *page) FormatDateTime(ts int64) string {
	b, _ := p.language.Base()
	switch b.String() {
	case "de":
		return monthNamesDe.Replace(time.Unix(ts, 0).Format("2. January 2006 15:04 Uhr"))
	default:
		return time.Unix(ts, 0).Format("January 2, 2006 3:04 PM")
	}
}

var templates = map[string]*template.Template{
	"login":      loginTmpl,
	"entries":    entriesTmpl,
	"entry":      entryTmpl,
	"entry-form": entryFormTmpl,
}

// render pops the error messages from the session and executes a template.
func (srv *server) render(w http.ResponseWriter, r *http.Request, name string, data interface{}) {

	t, ok := templates[name]
	if !ok {
		log.Printf("unknown template %s", name)
		srv.write(w, r, core.Status(http.StatusInternalServerError))
		return
	}

	var ctx = r.Context()

	var p = &page{
		Session: &core.Session{
			Authorized:    srv.sessions.GetBool(ctx, core.KeyAuthorized),
			Administrator: srv.sessions.GetBool(ctx, core.KeyAdministrator),
			UserID:        srv.sessions.GetInt(ctx, core.KeyUserID),
		},
		Data:   data,
		Prefix: srv.prefix + "/",
	}
	p.Errors, _ = srv.sessions.Pop(ctx, core.KeyErrors).([]string)
	srv.sessions.Put(ctx, core.KeyErrors, []string{})
	p.language, _ = language.MatchStrings(langMatcher, r.Header.Get("Accept-Language"))

	// execute into a buffer, so a template error doesn't result in half a page
	var buf = &bytes.Buffer{}
	if err := t.Execute(buf, p); err != nil {
		log.Printf("error executing template %s: %v", name, err)
		srv.write(w, r, core.Status(http.StatusInternalServerError))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

func tmpl(text string) *template.Template {
	t := template.Must(layoutTmpl.Clone())
	t = template.Must(t.Parse(`{{ define "content" }}` + text + `{{ end }}`))
	return t
}

var layoutTmpl = template.Must(template.New("layout").Funcs(
	template.FuncMap{
		"CommentHTML": func(content string) template.HTML {
			return template.HTML(commentParser.RenderToString([]byte(content)))
		},
		"EntryHTML": func(content string) template.HTML {
			return template.HTML(entryParser.RenderToString([]byte(content)))
		},
		"Teaser": func(content string) string {
			return util.Teaser(entryParser.RenderToString([]byte(content)), teaserLength)
		},
	},
).Parse(`<!DOCTYPE html>
<html>
	<head>
		<base href="{{ .Prefix }}">
		<meta charset="utf-8">
		<meta name="viewport" content="width=device-width, initial-scale=1, shrink-to-fit=no">
		<link rel="stylesheet" type="text/css" href="static/bootstrap-4.4.1.min.css">
		<title>Blog</title>
	</head>
	<body>
		<nav class="navbar navbar-expand-md bg-light">
			<ul class="navbar-nav">
				<li class="nav-item">
					<a class="nav-link" href="entries">Entries</a>
				</li>
				{{ if .LoggedIn }}
					<li class="nav-item">
						<form method="post" action="logout">
							<button type="submit" class="btn btn-link nav-link">Logout</button>
						</form>
					</li>
				{{ else }}
					<li class="nav-item">
						<a class="nav-link" href="login">Login</a>
					</li>
				{{ end }}
			</ul>
		</nav>
		<div class="container pt-3">
			{{ range .Errors }}
				<div class="alert alert-danger mt-3" role="alert">{{ . }}</div>
			{{ end }}
			{{ template "content" . }}
		</div>
	</body>
</html>`))
