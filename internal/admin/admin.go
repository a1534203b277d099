package admin

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel aligns the package logger with the application level
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// Options configures an Admin
type Options struct {
	// Title is shown in the header and the page titles, "Admin" by default
	Title string
	// BasePath is where the screens are mounted, "/admin" by default
	BasePath string
	// Auth guards every screen but login when set
	Auth AuthProvider
}

// Admin serves generated list, create, edit, delete and details screens for
// the registered views.
type Admin struct {
	db         *gorm.DB
	title      string
	basePath   string
	auth       AuthProvider
	views      []*ModelView
	byIdentity map[string]*ModelView
	templates  *templateSet
}

// New creates an Admin over db
func New(db *gorm.DB, opts Options) *Admin {
	title := opts.Title
	if title == "" {
		title = "Admin"
	}
	basePath := "/" + strings.Trim(opts.BasePath, "/")
	if basePath == "/" {
		basePath = "/admin"
	}
	if pa, ok := opts.Auth.(*PasswordAuth); ok {
		pa.CookiePath = basePath
	}
	return &Admin{
		db:         db,
		title:      title,
		basePath:   basePath,
		auth:       opts.Auth,
		byIdentity: map[string]*ModelView{},
		templates:  mustParseTemplates(),
	}
}

// AddView validates and registers a view
func (a *Admin) AddView(v *ModelView) error {
	if err := v.Validate(); err != nil {
		return err
	}
	if _, exists := a.byIdentity[v.Identity]; exists {
		return fmt.Errorf("view %s already registered", v.Identity)
	}
	a.views = append(a.views, v)
	a.byIdentity[v.Identity] = v
	log.WithFields(logrus.Fields{
		"identity": v.Identity,
		"columns":  v.ColumnList,
		"filters":  len(v.Filters),
	}).Debug("Admin view registered")
	return nil
}

// Views returns the registered views in registration order
func (a *Admin) Views() []*ModelView {
	return a.views
}

// BasePath is the mount point of the screens
func (a *Admin) BasePath() string {
	return a.basePath
}

// Mount registers the admin routes on router
func (a *Admin) Mount(router gin.IRouter) {
	group := router.Group(a.basePath)

	if a.auth != nil {
		group.GET("/login", a.loginPage)
		group.POST("/login", a.login)
		group.GET("/logout", a.logout)
	}

	screens := group.Group("")
	screens.Use(a.requireAuth())
	{
		screens.GET("/", a.index)
		screens.GET("/:identity/list", a.list)
		screens.GET("/:identity/export/:format", a.export)
		screens.GET("/:identity/create", a.createForm)
		screens.POST("/:identity/create", a.create)
		screens.GET("/:identity/edit/:pk", a.editForm)
		screens.POST("/:identity/edit/:pk", a.edit)
		screens.GET("/:identity/details/:pk", a.details)
		screens.POST("/:identity/delete", a.delete)
		screens.DELETE("/:identity/delete", a.delete)
	}
}

func (a *Admin) listURL(v *ModelView) string {
	return a.basePath + "/" + v.Identity + "/list"
}

func (a *Admin) createURL(v *ModelView) string {
	return a.basePath + "/" + v.Identity + "/create"
}

func (a *Admin) editURL(v *ModelView, pk string) string {
	return a.basePath + "/" + v.Identity + "/edit/" + pk
}

func (a *Admin) detailsURL(v *ModelView, pk string) string {
	return a.basePath + "/" + v.Identity + "/details/" + pk
}

func (a *Admin) deleteURL(v *ModelView) string {
	return a.basePath + "/" + v.Identity + "/delete"
}

func (a *Admin) exportURL(v *ModelView) string {
	return a.basePath + "/" + v.Identity + "/export/csv"
}
