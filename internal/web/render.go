package web

import (
	"embed"
	"html/template"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yatube/yatube/internal/auth"
	"github.com/yatube/yatube/internal/models"
	"github.com/yatube/yatube/internal/pagination"
)

//go:embed templates
var templateFS embed.FS

// loadTemplates parses every page and partial under templates/. Page
// templates are addressed by the names they define, e.g. "posts/index.html".
func loadTemplates(mediaURL func(string) string) (*template.Template, error) {
	funcs := template.FuncMap{
		"media":    mediaURL,
		"truncate": models.Truncate,
		"date": func(t time.Time) string {
			return t.Format("2 January 2006")
		},
		"linebreaks": linebreaks,
		"pageURL": func(number int) string {
			return "?" + pagination.QueryParam + "=" + strconv.Itoa(number)
		},
	}
	return template.New("").Funcs(funcs).ParseFS(templateFS,
		"templates/*.html",
		"templates/*/*.html",
	)
}

// linebreaks escapes text and turns newlines into <br>
func linebreaks(text string) template.HTML {
	escaped := template.HTMLEscapeString(text)
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// render writes the named page with the request-wide context merged in
func (r *Router) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["user"] = auth.CurrentUser(c)
	data["request_path"] = c.Request.URL.Path
	if msg := r.popFlash(c); msg != "" {
		data["flash"] = msg
	}
	c.HTML(status, name, data)
}
