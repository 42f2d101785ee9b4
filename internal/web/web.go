// Package web embeds the page templates and static assets.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"github.com/vulcanent/vulcanweb/internal/content"
	"github.com/vulcanent/vulcanweb/internal/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page names accepted by the renderer
const (
	PageIndex    = "index"
	PageTeam     = "team"
	PageNews     = "news"
	PageProducts = "products"
	PageContact  = "contact"
	PageError    = "error"
)

var pages = []string{PageIndex, PageTeam, PageNews, PageProducts, PageContact, PageError}

// PageData is passed to every template
type PageData struct {
	Title     string
	Active    string
	CSRFToken string
	Flashes   []utils.Flash
	Site      *content.Site
	Year      int

	// Error page only
	Status    int
	Message   string
	RequestID string
}

// Renderer holds one template set per page, each parsed together with the
// base layout so pages cannot clobber each other's "content" block.
type Renderer struct {
	templates map[string]*template.Template
}

var _ render.HTMLRender = (*Renderer)(nil)

// NewRenderer parses all embedded page templates
func NewRenderer() (*Renderer, error) {
	r := &Renderer{templates: make(map[string]*template.Template, len(pages))}
	for _, page := range pages {
		tmpl, err := template.New(page).ParseFS(templateFS, "templates/base.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		r.templates[page] = tmpl
	}
	return r, nil
}

// Instance implements render.HTMLRender
func (r *Renderer) Instance(name string, data any) render.Render {
	tmpl, ok := r.templates[strings.TrimSuffix(name, ".html")]
	if !ok {
		return render.Data{
			ContentType: "text/plain; charset=utf-8",
			Data:        []byte("unknown page: " + name),
		}
	}
	return render.HTML{Template: tmpl, Name: "base", Data: data}
}

// StaticFS returns the embedded static directory
func StaticFS() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic("failed to open embedded static filesystem: " + err.Error())
	}
	return sub
}

// StaticHandler serves embedded assets below prefix with an hour of browser caching
func StaticHandler(prefix string) gin.HandlerFunc {
	fileServer := http.StripPrefix(prefix, http.FileServer(http.FS(StaticFS())))

	return func(c *gin.Context) {
		path := strings.TrimPrefix(c.Request.URL.Path, prefix)
		if path == "" || path == "/" || strings.HasSuffix(path, "/") {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}

		c.Header("Cache-Control", "public, max-age=3600")
		fileServer.ServeHTTP(c.Writer, c.Request)
	}
}
