package admin

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/metrics"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type columnHeader struct {
	Label   string
	SortURL string
	Sorted  bool
	Desc    bool
}

type listRow struct {
	PK         string
	Cells      []string
	DetailsURL string
	EditURL    string
}

type filterLink struct {
	Label  string
	URL    string
	Active bool
}

type filterBox struct {
	Title    string
	Options  []filterLink
	Active   bool
	ClearURL string
}

type listPage struct {
	layoutData
	View              *ModelView
	Headers           []columnHeader
	Rows              []listRow
	Pagination        pagination
	Filters           []filterBox
	Searchable        bool
	Search            string
	SearchPlaceholder string
	ListURL           string
	CreateURL         string
	DeleteURL         string
	ExportURL         string
}

type selectOption struct {
	Value    string
	Label    string
	Selected bool
}

type formField struct {
	Name      string
	Label     string
	InputType string
	Value     string
	Checked   bool
	Required  bool
	Options   []selectOption
	Error     string
}

type formPage struct {
	layoutData
	View      *ModelView
	Heading   string
	Action    string
	CancelURL string
	Error     string
	Fields    []formField
}

type detailRow struct {
	Label string
	Value string
}

type detailsPage struct {
	layoutData
	View      *ModelView
	PK        string
	Rows      []detailRow
	ListURL   string
	EditURL   string
	DeleteURL string
}

type loginPage struct {
	layoutData
	Next  string
	Error string
}

// session scopes the storage session to the request
func (a *Admin) session(c *gin.Context) *gorm.DB {
	return a.db.WithContext(c.Request.Context())
}

// viewFor resolves the :identity parameter and checks that the operation is
// enabled on the view
func (a *Admin) viewFor(c *gin.Context, permitted func(*ModelView) bool) (*ModelView, bool) {
	v, ok := a.byIdentity[c.Param("identity")]
	if !ok {
		a.renderError(c, nil, ErrNotFound)
		return nil, false
	}
	if permitted != nil && !permitted(v) {
		a.renderError(c, v, ErrForbidden)
		return nil, false
	}
	return v, true
}

func canList(*ModelView) bool          { return true }
func canCreate(v *ModelView) bool      { return v.CanCreate }
func canEdit(v *ModelView) bool        { return v.CanEdit }
func canDelete(v *ModelView) bool      { return v.CanDelete }
func canViewDetails(v *ModelView) bool { return v.CanViewDetails }
func canExport(v *ModelView) bool      { return v.CanExport }

func (a *Admin) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if a.auth == nil || a.auth.Authenticate(c) {
			c.Next()
			return
		}
		c.Redirect(http.StatusFound, a.basePath+"/login?next="+url.QueryEscape(c.Request.URL.RequestURI()))
		c.Abort()
	}
}

func (a *Admin) loginPage(c *gin.Context) {
	a.render(c, http.StatusOK, "login", loginPage{
		layoutData: a.layout("Login | "+a.title, nil),
		Next:       c.Query("next"),
	})
}

func (a *Admin) login(c *gin.Context) {
	ok, err := a.auth.Login(c)
	if err != nil {
		a.renderError(c, nil, err)
		return
	}
	if !ok {
		log.WithField("username", c.PostForm("username")).Warn("Admin login failed")
		a.render(c, http.StatusUnauthorized, "login", loginPage{
			layoutData: a.layout("Login | "+a.title, nil),
			Next:       c.PostForm("next"),
			Error:      "Invalid credentials.",
		})
		return
	}

	// Only follow redirects that stay inside the admin
	next := c.PostForm("next")
	if !strings.HasPrefix(next, a.basePath+"/") || strings.HasPrefix(next, "//") {
		next = a.basePath + "/"
	}
	c.Redirect(http.StatusSeeOther, next)
}

func (a *Admin) logout(c *gin.Context) {
	a.auth.Logout(c)
	c.Redirect(http.StatusFound, a.basePath+"/login")
}

func (a *Admin) index(c *gin.Context) {
	a.render(c, http.StatusOK, "index", a.layout(a.title, nil))
}

func (a *Admin) list(c *gin.Context) {
	v, ok := a.viewFor(c, canList)
	if !ok {
		return
	}
	db := a.session(c)
	p := parseListParams(v, c.Request.URL.Query())

	rows, count, err := v.listRows(db, &p)
	if err != nil {
		a.renderError(c, v, err)
		return
	}
	labels, err := a.relationLabels(db, v, v.ColumnList)
	if err != nil {
		a.renderError(c, v, err)
		return
	}

	listURL := a.listURL(v)
	page := listPage{
		layoutData:        a.layout(v.NamePlural+" | "+a.title, v),
		View:              v,
		Pagination:        newPagination(v, p, count, listURL),
		Searchable:        len(v.SearchableColumns) > 0,
		Search:            p.Search,
		SearchPlaceholder: a.searchPlaceholder(v),
		ListURL:           listURL,
		CreateURL:         a.createURL(v),
		DeleteURL:         a.deleteURL(v),
		ExportURL:         a.exportURL(v) + "?" + p.values().Encode(),
	}

	for _, col := range v.ColumnList {
		f := v.Field(col)
		header := columnHeader{Label: f.Label}
		if v.sortable(col) {
			sp := p.clone()
			sp.Page = 1
			sp.SortBy = col
			sp.SortDesc = p.SortBy == col && !p.SortDesc
			header.SortURL = listURL + "?" + sp.values().Encode()
			header.Sorted = p.SortBy == col
			header.Desc = p.SortDesc
		}
		page.Headers = append(page.Headers, header)
	}

	for _, row := range rows {
		pk := formatValue(row[v.PrimaryKey])
		lr := listRow{PK: pk}
		for _, col := range v.ColumnList {
			lr.Cells = append(lr.Cells, displayValue(*v.Field(col), row[col], labels))
		}
		if v.CanViewDetails {
			lr.DetailsURL = a.detailsURL(v, pk)
		}
		if v.CanEdit {
			lr.EditURL = a.editURL(v, pk)
		}
		page.Rows = append(page.Rows, lr)
	}

	for _, f := range v.Filters {
		options, err := f.Lookups(db, v.NewModel())
		if err != nil {
			a.renderError(c, v, err)
			return
		}
		current, active := p.Filters[f.Param()]
		box := filterBox{Title: f.Title(), Active: active}
		for _, o := range options {
			fp := p.clone()
			fp.Page = 1
			fp.Filters[f.Param()] = o.Value
			box.Options = append(box.Options, filterLink{
				Label:  o.Label,
				URL:    listURL + "?" + fp.values().Encode(),
				Active: active && current == o.Value,
			})
		}
		cp := p.clone()
		cp.Page = 1
		delete(cp.Filters, f.Param())
		box.ClearURL = listURL + "?" + cp.values().Encode()
		page.Filters = append(page.Filters, box)
	}

	a.render(c, http.StatusOK, "list", page)
}

func (a *Admin) export(c *gin.Context) {
	v, ok := a.viewFor(c, canExport)
	if !ok {
		return
	}
	if c.Param("format") != "csv" {
		a.renderError(c, v, ErrNotFound)
		return
	}
	db := a.session(c)
	p := parseListParams(v, c.Request.URL.Query())

	query, err := v.filteredQuery(db, p)
	if err != nil {
		a.renderError(c, v, err)
		return
	}
	var rows []map[string]any
	err = query.Order(clause.OrderByColumn{Column: clause.Column{Name: p.SortBy}, Desc: p.SortDesc}).Find(&rows).Error
	if err != nil {
		a.renderError(c, v, err)
		return
	}
	labels, err := a.relationLabels(db, v, v.ColumnList)
	if err != nil {
		a.renderError(c, v, err)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", v.Identity))
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	header := make([]string, 0, len(v.ColumnList))
	for _, col := range v.ColumnList {
		header = append(header, v.Field(col).Label)
	}
	_ = w.Write(header)
	for _, row := range rows {
		record := make([]string, 0, len(v.ColumnList))
		for _, col := range v.ColumnList {
			record = append(record, displayValue(*v.Field(col), row[col], labels))
		}
		_ = w.Write(record)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.WithError(err).WithField("identity", v.Identity).Error("CSV export failed")
	}
}

func (a *Admin) createForm(c *gin.Context) {
	v, ok := a.viewFor(c, canCreate)
	if !ok {
		return
	}
	a.renderForm(c, http.StatusOK, v, "", formValues{Raw: map[string]string{}}, "")
}

func (a *Admin) create(c *gin.Context) {
	v, ok := a.viewFor(c, canCreate)
	if !ok {
		return
	}
	form := parseForm(v.FormFields(), c.GetPostForm)
	if !form.valid() {
		a.renderForm(c, http.StatusBadRequest, v, "", form, "")
		return
	}

	v.stampTimes(form.Values, true)
	if err := a.session(c).Model(v.NewModel()).Create(form.Values).Error; err != nil {
		a.renderWriteError(c, v, "", form, err)
		return
	}

	metrics.AdminActionsTotal.WithLabelValues(v.Identity, "create").Inc()
	log.WithFields(logrus.Fields{"identity": v.Identity}).Info("Admin record created")
	c.Redirect(http.StatusSeeOther, a.listURL(v))
}

func (a *Admin) editForm(c *gin.Context) {
	v, ok := a.viewFor(c, canEdit)
	if !ok {
		return
	}
	pk := c.Param("pk")
	row, err := v.getRow(a.session(c), pk)
	if err != nil {
		a.renderError(c, v, err)
		return
	}

	form := formValues{Raw: map[string]string{}}
	for _, f := range v.FormFields() {
		if f.Type == FieldBoolean {
			if truthy(row[f.Name]) {
				form.Raw[f.Name] = "on"
			}
			continue
		}
		form.Raw[f.Name] = formatValue(row[f.Name])
	}
	a.renderForm(c, http.StatusOK, v, pk, form, "")
}

func (a *Admin) edit(c *gin.Context) {
	v, ok := a.viewFor(c, canEdit)
	if !ok {
		return
	}
	pk := c.Param("pk")
	db := a.session(c)
	if _, err := v.getRow(db, pk); err != nil {
		a.renderError(c, v, err)
		return
	}

	form := parseForm(v.FormFields(), c.GetPostForm)
	if !form.valid() {
		a.renderForm(c, http.StatusBadRequest, v, pk, form, "")
		return
	}

	v.stampTimes(form.Values, false)
	err := db.Model(v.NewModel()).
		Where(clause.Eq{Column: clause.Column{Name: v.PrimaryKey}, Value: pk}).
		Updates(form.Values).Error
	if err != nil {
		a.renderWriteError(c, v, pk, form, err)
		return
	}

	metrics.AdminActionsTotal.WithLabelValues(v.Identity, "edit").Inc()
	log.WithFields(logrus.Fields{"identity": v.Identity, "pk": pk}).Info("Admin record updated")
	c.Redirect(http.StatusSeeOther, a.listURL(v))
}

func (a *Admin) details(c *gin.Context) {
	v, ok := a.viewFor(c, canViewDetails)
	if !ok {
		return
	}
	pk := c.Param("pk")
	db := a.session(c)
	row, err := v.getRow(db, pk)
	if err != nil {
		a.renderError(c, v, err)
		return
	}
	names := make([]string, 0, len(v.Fields))
	for _, f := range v.Fields {
		names = append(names, f.Name)
	}
	labels, err := a.relationLabels(db, v, names)
	if err != nil {
		a.renderError(c, v, err)
		return
	}

	page := detailsPage{
		layoutData: a.layout(v.Name+" | "+a.title, v),
		View:       v,
		PK:         pk,
		ListURL:    a.listURL(v),
		DeleteURL:  a.deleteURL(v),
	}
	if v.CanEdit {
		page.EditURL = a.editURL(v, pk)
	}
	for _, f := range v.Fields {
		page.Rows = append(page.Rows, detailRow{Label: f.Label, Value: displayValue(f, row[f.Name], labels)})
	}
	a.render(c, http.StatusOK, "details", page)
}

func (a *Admin) delete(c *gin.Context) {
	v, ok := a.viewFor(c, canDelete)
	if !ok {
		return
	}
	raw := c.PostForm("pks")
	if raw == "" {
		raw = c.Query("pks")
	}
	var pks []string
	for _, pk := range strings.Split(raw, ",") {
		if pk = strings.TrimSpace(pk); pk != "" {
			pks = append(pks, pk)
		}
	}
	if len(pks) == 0 {
		a.renderError(c, v, fmt.Errorf("%w: no records selected", ErrInvalidFilter))
		return
	}

	err := a.session(c).Transaction(func(tx *gorm.DB) error {
		for _, pk := range pks {
			result := tx.Where(clause.Eq{Column: clause.Column{Name: v.PrimaryKey}, Value: pk}).Delete(v.NewModel())
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return ErrNotFound
			}
		}
		return nil
	})
	if err != nil {
		a.renderError(c, v, err)
		return
	}

	metrics.AdminActionsTotal.WithLabelValues(v.Identity, "delete").Add(float64(len(pks)))
	log.WithFields(logrus.Fields{"identity": v.Identity, "pks": pks}).Info("Admin records deleted")

	if c.Request.Method == http.MethodDelete {
		c.String(http.StatusOK, a.listURL(v))
		return
	}
	c.Redirect(http.StatusSeeOther, a.listURL(v))
}

// renderWriteError re-renders the form for constraint violations and falls
// back to the error page otherwise
func (a *Admin) renderWriteError(c *gin.Context, v *ModelView, pk string, form formValues, err error) {
	status := statusForError(err)
	if status != http.StatusConflict {
		a.renderError(c, v, err)
		return
	}
	log.WithError(err).WithField("identity", v.Identity).Debug("Admin write rejected by storage")
	a.renderForm(c, status, v, pk, form, messageForError(err))
}

// renderForm renders the create form, or the edit form when pk is set
func (a *Admin) renderForm(c *gin.Context, status int, v *ModelView, pk string, form formValues, message string) {
	db := a.session(c)
	page := formPage{
		View:      v,
		CancelURL: a.listURL(v),
		Error:     message,
	}
	if pk == "" {
		page.layoutData = a.layout("Create "+v.Name+" | "+a.title, v)
		page.Heading = "New " + v.Name
		page.Action = a.createURL(v)
	} else {
		page.layoutData = a.layout("Edit "+v.Name+" | "+a.title, v)
		page.Heading = "Edit " + v.Name + ": " + pk
		page.Action = a.editURL(v, pk)
	}

	for _, f := range v.FormFields() {
		raw := form.Raw[f.Name]
		field := formField{
			Name:      f.Name,
			Label:     f.Label,
			InputType: v.inputType(f),
			Value:     raw,
			Required:  f.Required,
			Error:     form.Errors[f.Name],
		}
		switch f.Type {
		case FieldBoolean:
			field.Checked = checkboxOn(raw)
		case FieldForeignKey:
			options, err := relationOptions(db, f.Relation)
			if err != nil {
				a.renderError(c, v, err)
				return
			}
			for _, o := range options {
				field.Options = append(field.Options, selectOption{Value: o.Value, Label: o.Label, Selected: o.Value == raw})
			}
		}
		page.Fields = append(page.Fields, field)
	}
	a.render(c, status, "form", page)
}

// relationLabels loads value→label maps for the foreign key fields among names
func (a *Admin) relationLabels(db *gorm.DB, v *ModelView, names []string) (map[string]map[string]string, error) {
	labels := map[string]map[string]string{}
	for _, name := range names {
		f := v.Field(name)
		if f == nil || f.Type != FieldForeignKey {
			continue
		}
		options, err := relationOptions(db, f.Relation)
		if err != nil {
			return nil, err
		}
		byValue := make(map[string]string, len(options))
		for _, o := range options {
			byValue[o.Value] = o.Label
		}
		labels[name] = byValue
	}
	return labels, nil
}

func (a *Admin) searchPlaceholder(v *ModelView) string {
	names := make([]string, 0, len(v.SearchableColumns))
	for _, col := range v.SearchableColumns {
		names = append(names, v.Field(col).Label)
	}
	return strings.Join(names, ", ")
}

// displayValue renders a cell according to its field type
func displayValue(f Field, value any, labels map[string]map[string]string) string {
	switch f.Type {
	case FieldBoolean:
		if truthy(value) {
			return "Yes"
		}
		return "No"
	case FieldForeignKey:
		raw := formatValue(value)
		if label, ok := labels[f.Name][raw]; ok {
			return label
		}
		return raw
	default:
		return formatValue(value)
	}
}
