package ui

import (
	"html/template"
	"io"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/MrSnakeDoc/timemark/internal/coordinator"
	"github.com/MrSnakeDoc/timemark/internal/domain"
)

// notePolicy lets line breaks through and nothing else.
var notePolicy = bluemonday.NewPolicy().AllowElements("br")

var popupTmpl = template.Must(template.New("popup").Funcs(template.FuncMap{
	"clock":    domain.FormatTime,
	"note":     noteHTML,
	"dot":      statusDot,
	"playback": func(b domain.Bookmark) string { return b.PlaybackURL() },
	"hidden":   func(v coordinator.View) int { return v.Total - len(v.Bookmarks) },
}).Parse(`<!doctype html>
<html><head><meta charset="utf-8"><title>timemark</title></head>
<body>
<p class="status {{.Status.Kind}}">{{dot .Status.Kind}} {{.Status.Text}}</p>
{{- with .Media}}{{if .Valid}}
<section class="media">
<h1>{{.Platform.Icon}} {{.Title}}</h1>
<p>{{if .IsPlaying}}▶{{else}}⏸{{end}} {{clock .CurrentTime}}{{if gt .Duration 0}} / {{clock .Duration}}{{end}}</p>
</section>
{{- end}}{{end}}
{{- if .SaveError}}
<p class="error">{{.SaveError}}</p>
{{- end}}
<h2>Recent bookmarks ({{.Total}})</h2>
{{- if .Bookmarks}}
<ol>
{{- range .Bookmarks}}
<li><a href="{{playback .}}">{{.Platform.Icon}} {{.TimestampDisplay}} {{.Title}}</a>{{if .Note}}<p class="note">{{note .Note}}</p>{{end}}</li>
{{- end}}
</ol>
{{- if gt (hidden .) 0}}
<p>… and {{hidden .}} more</p>
{{- end}}
{{- else}}
<p>No bookmarks yet</p>
{{- end}}
{{- if .ListError}}
<p class="error">{{.ListError}}</p>
{{- end}}
</body></html>
`))

// RenderHTML writes the popup as an HTML page. Stored text is escaped;
// note line breaks become <br>.
func RenderHTML(w io.Writer, v coordinator.View) error {
	return popupTmpl.Execute(w, v)
}

func noteHTML(s string) template.HTML {
	escaped := template.HTMLEscapeString(s)
	escaped = strings.ReplaceAll(escaped, "\r\n", "\n")
	return template.HTML(notePolicy.Sanitize(strings.ReplaceAll(escaped, "\n", "<br>")))
}
