package admin

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = []string{"index", "list", "form", "details", "login", "error"}

// templateSet holds one template per page, each combined with the layout
type templateSet struct {
	pages map[string]*template.Template
}

func mustParseTemplates() *templateSet {
	set := &templateSet{pages: map[string]*template.Template{}}
	for _, page := range pages {
		set.pages[page] = template.Must(
			template.New("layout.html").ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html"),
		)
	}
	return set
}

// layoutData is shared by every page
type layoutData struct {
	Title       string
	AdminTitle  string
	BasePath    string
	Nav         []navItem
	AuthEnabled bool
}

type navItem struct {
	Name   string
	Icon   string
	URL    string
	Active bool
}

func (a *Admin) layout(title string, active *ModelView) layoutData {
	nav := make([]navItem, 0, len(a.views))
	for _, v := range a.views {
		nav = append(nav, navItem{
			Name:   v.NamePlural,
			Icon:   v.Icon,
			URL:    a.listURL(v),
			Active: v == active,
		})
	}
	return layoutData{
		Title:       title,
		AdminTitle:  a.title,
		BasePath:    a.basePath,
		Nav:         nav,
		AuthEnabled: a.auth != nil,
	}
}

func (a *Admin) render(c *gin.Context, status int, page string, data any) {
	c.Render(status, render.HTML{
		Template: a.templates.pages[page],
		Name:     "layout",
		Data:     data,
	})
}

type errorPage struct {
	layoutData
	Status  int
	Message string
	BackURL string
}

// renderError logs err and renders the error page with the mapped status
func (a *Admin) renderError(c *gin.Context, v *ModelView, err error) {
	status := statusForError(err)
	entry := log.WithError(err).WithField("path", c.Request.URL.Path)
	if status >= 500 {
		entry.Error("Admin request failed")
	} else {
		entry.Debug("Admin request rejected")
	}

	page := errorPage{
		layoutData: a.layout(a.title, v),
		Status:     status,
		Message:    messageForError(err),
		BackURL:    a.basePath + "/",
	}
	if v != nil {
		page.BackURL = a.listURL(v)
	}
	a.render(c, status, "error", page)
}
