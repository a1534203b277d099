package admin

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/models"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/testutil"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var testSiteRelation = Relation{Table: "sites", ValueColumn: "id", LabelColumn: "name"}

func testUserView() *ModelView {
	return &ModelView{
		Identity:   "user",
		Name:       "User",
		NamePlural: "Users",
		NewModel:   func() any { return &models.User{} },
		Fields: []Field{
			{Name: "id", Label: "ID", Type: FieldInteger, ReadOnly: true},
			{Name: "name", Label: "Name", Required: true, Rules: "max=255"},
			{Name: "email", Label: "Email", Required: true, Rules: "email"},
			{Name: "is_admin", Label: "Is Admin", Type: FieldBoolean},
			{Name: "site_id", Label: "Site", Type: FieldForeignKey, Relation: &testSiteRelation},
			{Name: "created_at", Label: "Created At", ReadOnly: true},
			{Name: "updated_at", Label: "Updated At", ReadOnly: true},
		},
		ColumnList:        []string{"id", "name", "email", "is_admin", "site_id"},
		SearchableColumns: []string{"name", "email"},
		SortableColumns:   []string{"id", "name", "email"},
		Filters: []Filter{
			BooleanFilter{Column: "is_admin", Label: "Is Admin"},
			StringValuesFilter{Column: "name", Label: "Name"},
			ForeignKeyFilter{Column: "site_id", Label: "Site", Relation: testSiteRelation},
		},
		CanCreate:      true,
		CanEdit:        true,
		CanDelete:      true,
		CanViewDetails: true,
		CanExport:      true,
	}
}

func testSiteView() *ModelView {
	return &ModelView{
		Identity: "site",
		Name:     "Site",
		NewModel: func() any { return &models.Site{} },
		Fields: []Field{
			{Name: "id", Label: "ID", Type: FieldInteger, ReadOnly: true},
			{Name: "name", Label: "Name", Required: true},
		},
		CanDelete:      true,
		CanViewDetails: true,
	}
}

func setupAdmin(t *testing.T, opts Options) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.OpenInMemoryDB(t)

	a := New(db, opts)
	require.NoError(t, a.AddView(testUserView()))
	require.NoError(t, a.AddView(testSiteView()))

	router := gin.New()
	a.Mount(router)
	return router, db
}

func perform(router http.Handler, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func parseHTML(t *testing.T, w *httptest.ResponseRecorder) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	return doc
}

func footer(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(".card-footer p").First().Text())
}

func seedUsers(t *testing.T, db *gorm.DB, users ...models.User) {
	t.Helper()
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}
}

func TestIndexListsViews(t *testing.T) {
	router, _ := setupAdmin(t, Options{})

	w := perform(router, http.MethodGet, "/admin/", nil)
	require.Equal(t, http.StatusOK, w.Code)

	doc := parseHTML(t, w)
	assert.Contains(t, doc.Find("title").Text(), "Admin")
	assert.Equal(t, 2, doc.Find(".list-group-item").Length())
	href, _ := doc.Find(".list-group-item").First().Attr("href")
	assert.Equal(t, "/admin/user/list", href)
}

func TestListEmptyState(t *testing.T) {
	router, _ := setupAdmin(t, Options{})

	w := perform(router, http.MethodGet, "/admin/user/list", nil)
	require.Equal(t, http.StatusOK, w.Code)

	doc := parseHTML(t, w)
	assert.Equal(t, "Showing 1 to 0 of 0 items", footer(doc))
	assert.Equal(t, 0, doc.Find("tbody tr").Length())

	for _, query := range []string{"?page=2", "?page=1000000000000000000", "?page=9&search=nobody"} {
		w := perform(router, http.MethodGet, "/admin/user/list"+query, nil)
		require.Equal(t, http.StatusOK, w.Code, query)
		assert.Equal(t, "Showing 1 to 0 of 0 items", footer(parseHTML(t, w)), query)
	}
}

func TestListShowsRows(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	seedUsers(t, db, models.User{Name: "Test User", Email: "test@example.com"})

	w := perform(router, http.MethodGet, "/admin/user/list", nil)
	require.Equal(t, http.StatusOK, w.Code)

	doc := parseHTML(t, w)
	assert.Equal(t, "Showing 1 to 1 of 1 items", footer(doc))
	cells := doc.Find("tbody tr").First().Find("td").Map(func(_ int, s *goquery.Selection) string {
		return strings.TrimSpace(s.Text())
	})
	require.Len(t, cells, 6)
	assert.Equal(t, []string{"1", "Test User", "test@example.com", "No", ""}, cells[1:])
}

func TestListPagination(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	for i := 0; i < 12; i++ {
		seedUsers(t, db, models.User{Name: "User", Email: "user" + string(rune('a'+i)) + "@example.com"})
	}

	testCases := []struct {
		name     string
		query    string
		expected string
		rows     int
	}{
		{name: "first page", query: "", expected: "Showing 1 to 10 of 12 items", rows: 10},
		{name: "second page", query: "?page=2", expected: "Showing 11 to 12 of 12 items", rows: 2},
		{name: "past the last page", query: "?page=9", expected: "Showing 11 to 12 of 12 items", rows: 2},
		{name: "larger page size", query: "?page_size=25", expected: "Showing 1 to 12 of 12 items", rows: 12},
		{name: "page size not offered", query: "?page_size=7", expected: "Showing 1 to 10 of 12 items", rows: 10},
		{name: "page beyond int range", query: "?page=1000000000000000000", expected: "Showing 1 to 10 of 12 items", rows: 10},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			w := perform(router, http.MethodGet, "/admin/user/list"+tt.query, nil)
			require.Equal(t, http.StatusOK, w.Code)
			doc := parseHTML(t, w)
			assert.Equal(t, tt.expected, footer(doc))
			assert.Equal(t, tt.rows, doc.Find("tbody tr").Length())
		})
	}
}

func TestListSearchAndSort(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	seedUsers(t, db,
		models.User{Name: "Alice", Email: "alice@example.com"},
		models.User{Name: "Bob", Email: "bob@example.com"},
		models.User{Name: "Carol", Email: "carol@corp.test"},
	)

	w := perform(router, http.MethodGet, "/admin/user/list?search=ALICE", nil)
	doc := parseHTML(t, w)
	assert.Equal(t, "Showing 1 to 1 of 1 items", footer(doc))
	assert.Contains(t, doc.Find("tbody").Text(), "alice@example.com")

	w = perform(router, http.MethodGet, "/admin/user/list?search=example.com", nil)
	assert.Equal(t, "Showing 1 to 2 of 2 items", footer(parseHTML(t, w)))

	w = perform(router, http.MethodGet, "/admin/user/list?sort_by=name&sort=desc", nil)
	doc = parseHTML(t, w)
	assert.Equal(t, "Carol", strings.TrimSpace(doc.Find("tbody tr").First().Find("td").Eq(2).Text()))
}

func TestListSearchMatchesWildcardsLiterally(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	seedUsers(t, db,
		models.User{Name: "Alice", Email: "alice@example.com"},
		models.User{Name: "Bob_Admin", Email: "bob@example.com"},
		models.User{Name: "100% Carol", Email: "carol@example.com"},
	)

	testCases := []struct {
		search   string
		expected string
	}{
		{search: "%", expected: "Showing 1 to 1 of 1 items"},
		{search: "_", expected: "Showing 1 to 1 of 1 items"},
		{search: "b_a", expected: "Showing 1 to 1 of 1 items"},
		{search: "a_i", expected: "Showing 1 to 0 of 0 items"},
		{search: `\`, expected: "Showing 1 to 0 of 0 items"},
	}
	for _, tt := range testCases {
		w := perform(router, http.MethodGet, "/admin/user/list?search="+url.QueryEscape(tt.search), nil)
		require.Equal(t, http.StatusOK, w.Code, tt.search)
		assert.Equal(t, tt.expected, footer(parseHTML(t, w)), tt.search)
	}
}

func TestListSortDescending(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	seedUsers(t, db,
		models.User{Name: "Alice", Email: "alice@example.com"},
		models.User{Name: "Carol", Email: "carol@example.com"},
		models.User{Name: "Bob", Email: "bob@example.com"},
	)

	w := perform(router, http.MethodGet, "/admin/user/list?sort_by=name&sort=desc", nil)
	doc := parseHTML(t, w)
	assert.Equal(t, "Carol", strings.TrimSpace(doc.Find("tbody tr").First().Find("td").Eq(2).Text()))
}

func TestListFilters(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	site := models.Site{Name: "Main"}
	require.NoError(t, db.Create(&site).Error)
	seedUsers(t, db,
		models.User{Name: "Alice", Email: "alice@example.com", IsAdmin: true, SiteID: &site.ID},
		models.User{Name: "Bob", Email: "bob@example.com"},
	)

	t.Run("boolean", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/admin/user/list?is_admin=true", nil)
		doc := parseHTML(t, w)
		assert.Equal(t, "Showing 1 to 1 of 1 items", footer(doc))
		assert.Contains(t, doc.Find("tbody").Text(), "Alice")
	})

	t.Run("string values", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/admin/user/list?name=Bob", nil)
		doc := parseHTML(t, w)
		assert.Equal(t, "Showing 1 to 1 of 1 items", footer(doc))
		assert.Contains(t, doc.Find("tbody").Text(), "bob@example.com")
	})

	t.Run("foreign key shows label", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/admin/user/list?site_id=1", nil)
		doc := parseHTML(t, w)
		assert.Equal(t, "Showing 1 to 1 of 1 items", footer(doc))
		assert.Contains(t, doc.Find("tbody").Text(), "Main")
	})

	t.Run("filter options are listed", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/admin/user/list", nil)
		text := parseHTML(t, w).Find(".border-start").Text()
		for _, label := range []string{"Is Admin", "Yes", "No", "Alice", "Bob", "Main"} {
			assert.Contains(t, text, label)
		}
	})

	t.Run("malformed value", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/admin/user/list?is_admin=maybe", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateUser(t *testing.T) {
	router, db := setupAdmin(t, Options{})

	w := perform(router, http.MethodGet, "/admin/user/create", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parseHTML(t, w)
	assert.Equal(t, 1, doc.Find(`input[name="name"]`).Length())
	assert.Equal(t, 0, doc.Find(`input[name="id"]`).Length())

	w = perform(router, http.MethodPost, "/admin/user/create", url.Values{
		"name":     {"Test User"},
		"email":    {"test@example.com"},
		"is_admin": {"on"},
		"site_id":  {""},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/user/list", w.Header().Get("Location"))

	var user models.User
	require.NoError(t, db.Where("email = ?", "test@example.com").First(&user).Error)
	assert.Equal(t, "Test User", user.Name)
	assert.True(t, user.IsAdmin)
	assert.Nil(t, user.SiteID)
	assert.False(t, user.CreatedAt.IsZero())
}

func TestCreateValidation(t *testing.T) {
	router, db := setupAdmin(t, Options{})

	w := perform(router, http.MethodPost, "/admin/user/create", url.Values{
		"name":  {""},
		"email": {"not-an-email"},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	doc := parseHTML(t, w)
	feedback := doc.Find(".invalid-feedback").Text()
	assert.Contains(t, feedback, "Name is required")
	assert.Contains(t, feedback, "Email must be a valid email")

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestCreateDuplicateEmail(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	seedUsers(t, db, models.User{Name: "Test User", Email: "test@example.com"})

	w := perform(router, http.MethodPost, "/admin/user/create", url.Values{
		"name":  {"Other"},
		"email": {"test@example.com"},
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, parseHTML(t, w).Find(".alert-danger").Text(), "already exists")

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCreateWithUnknownSite(t *testing.T) {
	router, _ := setupAdmin(t, Options{})

	w := perform(router, http.MethodPost, "/admin/user/create", url.Values{
		"name":    {"Test User"},
		"email":   {"test@example.com"},
		"site_id": {"42"},
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestEditUser(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	site := models.Site{Name: "Main"}
	require.NoError(t, db.Create(&site).Error)
	seedUsers(t, db, models.User{Name: "Test User", Email: "test@example.com", IsAdmin: true})

	w := perform(router, http.MethodGet, "/admin/user/edit/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parseHTML(t, w)
	value, _ := doc.Find(`input[name="email"]`).Attr("value")
	assert.Equal(t, "test@example.com", value)
	_, checked := doc.Find(`input[name="is_admin"]`).Attr("checked")
	assert.True(t, checked)
	assert.Equal(t, "Main", doc.Find(`select[name="site_id"] option[value="1"]`).Text())

	// is_admin is omitted, as an unchecked checkbox would be
	w = perform(router, http.MethodPost, "/admin/user/edit/1", url.Values{
		"name":    {"Renamed"},
		"email":   {"test@example.com"},
		"site_id": {"1"},
	})
	require.Equal(t, http.StatusSeeOther, w.Code)

	var user models.User
	require.NoError(t, db.First(&user, 1).Error)
	assert.Equal(t, "Renamed", user.Name)
	assert.False(t, user.IsAdmin)
	require.NotNil(t, user.SiteID)
	assert.Equal(t, site.ID, *user.SiteID)
}

func TestEditKeepsUntouchedSite(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	site := models.Site{Name: "Main"}
	require.NoError(t, db.Create(&site).Error)
	seedUsers(t, db, models.User{Name: "Ann", Email: "ann@example.com", SiteID: &site.ID})

	w := perform(router, http.MethodGet, "/admin/user/edit/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := parseHTML(t, w)
	selected, _ := doc.Find(`select[name="site_id"] option[selected]`).Attr("value")
	assert.Equal(t, "1", selected)

	// Submit the form back as rendered, changing only the name
	form := url.Values{"name": {"Ann B"}, "site_id": {selected}}
	email, _ := doc.Find(`input[name="email"]`).Attr("value")
	form.Set("email", email)
	w = perform(router, http.MethodPost, "/admin/user/edit/1", form)
	require.Equal(t, http.StatusSeeOther, w.Code)

	var user models.User
	require.NoError(t, db.First(&user, 1).Error)
	assert.Equal(t, "Ann B", user.Name)
	require.NotNil(t, user.SiteID)
	assert.Equal(t, site.ID, *user.SiteID)
}

func TestFormatValueDereferencesPointers(t *testing.T) {
	id := uint(7)
	name := "Main"
	var missing *uint

	assert.Equal(t, "7", formatValue(&id))
	assert.Equal(t, "Main", formatValue(&name))
	assert.Equal(t, "", formatValue(missing))
	assert.Equal(t, "", formatValue(nil))

	admin := true
	assert.True(t, truthy(&admin))
	assert.False(t, truthy((*bool)(nil)))
}

func TestEditUnknownRecord(t *testing.T) {
	router, _ := setupAdmin(t, Options{})

	w := perform(router, http.MethodGet, "/admin/user/edit/99", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodPost, "/admin/user/edit/99", url.Values{"name": {"x"}, "email": {"x@example.com"}})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDetails(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	site := models.Site{Name: "Main"}
	require.NoError(t, db.Create(&site).Error)
	seedUsers(t, db, models.User{Name: "Test User", Email: "test@example.com", IsAdmin: true, SiteID: &site.ID})

	w := perform(router, http.MethodGet, "/admin/user/details/1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	values := map[string]string{}
	parseHTML(t, w).Find("tbody tr").Each(func(_ int, s *goquery.Selection) {
		values[s.Find("td").Eq(0).Text()] = s.Find("td").Eq(1).Text()
	})
	assert.Equal(t, "Test User", values["Name"])
	assert.Equal(t, "Yes", values["Is Admin"])
	assert.Equal(t, "Main", values["Site"])

	w = perform(router, http.MethodGet, "/admin/user/details/2", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDelete(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	seedUsers(t, db,
		models.User{Name: "Alice", Email: "alice@example.com"},
		models.User{Name: "Bob", Email: "bob@example.com"},
		models.User{Name: "Carol", Email: "carol@example.com"},
	)

	w := perform(router, http.MethodPost, "/admin/user/delete", url.Values{"pks": {"1"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/admin/user/list", w.Header().Get("Location"))

	w = perform(router, http.MethodDelete, "/admin/user/delete?pks=2,3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/admin/user/list", w.Body.String())

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Zero(t, count)

	w = perform(router, http.MethodPost, "/admin/user/delete", url.Values{"pks": {"1"}})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = perform(router, http.MethodPost, "/admin/user/delete", url.Values{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteReferencedSite(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	site := models.Site{Name: "Main"}
	require.NoError(t, db.Create(&site).Error)
	seedUsers(t, db, models.User{Name: "Test User", Email: "test@example.com", SiteID: &site.ID})

	w := perform(router, http.MethodPost, "/admin/site/delete", url.Values{"pks": {"1"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	var count int64
	db.Model(&models.Site{}).Count(&count)
	assert.Equal(t, int64(1), count)

	w = perform(router, http.MethodGet, "/admin/site/list", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDisabledOperations(t *testing.T) {
	router, _ := setupAdmin(t, Options{})

	for _, target := range []string{"/admin/site/create", "/admin/site/edit/1", "/admin/site/export/csv"} {
		w := perform(router, http.MethodGet, target, nil)
		assert.Equal(t, http.StatusForbidden, w.Code, target)
	}

	w := perform(router, http.MethodGet, "/admin/site/list", nil)
	doc := parseHTML(t, w)
	assert.Equal(t, 0, doc.Find(`a[href="/admin/site/create"]`).Length())
}

func TestUnknownIdentity(t *testing.T) {
	router, _ := setupAdmin(t, Options{})

	w := perform(router, http.MethodGet, "/admin/pizza/list", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportCSV(t *testing.T) {
	router, db := setupAdmin(t, Options{})
	site := models.Site{Name: "Main"}
	require.NoError(t, db.Create(&site).Error)
	seedUsers(t, db,
		models.User{Name: "Alice", Email: "alice@example.com", IsAdmin: true, SiteID: &site.ID},
		models.User{Name: "Bob", Email: "bob@example.com"},
	)

	w := perform(router, http.MethodGet, "/admin/user/export/csv?is_admin=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))

	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Name,Email,Is Admin,Site", lines[0])
	assert.Equal(t, "1,Alice,alice@example.com,Yes,Main", lines[1])

	w = perform(router, http.MethodGet, "/admin/user/export/csv?sort_by=id", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lines = strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "2,Bob,bob@example.com,No,", lines[2])

	w = perform(router, http.MethodGet, "/admin/user/export/xlsx", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddViewRejectsDuplicates(t *testing.T) {
	a := New(testutil.OpenInMemoryDB(t), Options{})
	require.NoError(t, a.AddView(testUserView()))
	assert.Error(t, a.AddView(testUserView()))
	assert.Len(t, a.Views(), 1)
	assert.Equal(t, "/admin", a.BasePath())
}

func TestPasswordAuth(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	router, _ := setupAdmin(t, Options{Auth: NewPasswordAuth("admin", string(hash), "test-secret")})

	t.Run("redirects to login", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/admin/user/list", nil)
		require.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/admin/login?next=%2Fadmin%2Fuser%2Flist", w.Header().Get("Location"))
	})

	t.Run("rejects bad credentials", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/admin/login", url.Values{
			"username": {"admin"},
			"password": {"wrong"},
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, parseHTML(t, w).Find(".alert-danger").Text(), "Invalid credentials")
	})

	t.Run("forged cookie", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/admin/", nil, &http.Cookie{Name: sessionCookie, Value: "not-a-token"})
		assert.Equal(t, http.StatusFound, w.Code)
	})

	t.Run("login grants access", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/admin/login", url.Values{
			"username": {"admin"},
			"password": {"s3cret"},
			"next":     {"/admin/user/list"},
		})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/user/list", w.Header().Get("Location"))

		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, sessionCookie, cookies[0].Name)

		w = perform(router, http.MethodGet, "/admin/user/list", nil, cookies[0])
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("open redirect is ignored", func(t *testing.T) {
		w := perform(router, http.MethodPost, "/admin/login", url.Values{
			"username": {"admin"},
			"password": {"s3cret"},
			"next":     {"https://evil.example/"},
		})
		require.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/admin/", w.Header().Get("Location"))
	})

	t.Run("logout clears the session", func(t *testing.T) {
		w := perform(router, http.MethodGet, "/admin/logout", nil)
		require.Equal(t, http.StatusFound, w.Code)
		cookies := w.Result().Cookies()
		require.NotEmpty(t, cookies)
		assert.Equal(t, "", cookies[0].Value)
		assert.True(t, cookies[0].MaxAge < 0)
	})
}
