package admin

import (
	"fmt"
	"math"
	"net/url"
	"reflect"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listParams are the list screen inputs read from the query string
type listParams struct {
	Page     int
	PageSize int
	Search   string
	SortBy   string
	SortDesc bool
	Filters  map[string]string
}

// maxPage keeps (page-1)*page_size inside an int for every offered page size
const maxPage = math.MaxInt32

func parseListParams(v *ModelView, q url.Values) listParams {
	p := listParams{
		Page:     1,
		PageSize: v.PageSize,
		Search:   strings.TrimSpace(q.Get("search")),
		SortBy:   v.DefaultSort,
		SortDesc: v.DefaultSortDesc,
		Filters:  map[string]string{},
	}
	if n, err := strconv.Atoi(q.Get("page")); err == nil && n > 0 && n <= maxPage {
		p.Page = n
	}
	if n, err := strconv.Atoi(q.Get("page_size")); err == nil && v.pageSizeAllowed(n) {
		p.PageSize = n
	}
	if col := q.Get("sort_by"); col != "" && v.sortable(col) {
		p.SortBy = col
		p.SortDesc = q.Get("sort") == "desc"
	}
	for _, f := range v.Filters {
		if value := q.Get(f.Param()); value != "" {
			p.Filters[f.Param()] = value
		}
	}
	return p
}

// clone copies p so filter links can vary one parameter
func (p listParams) clone() listParams {
	c := p
	c.Filters = make(map[string]string, len(p.Filters))
	for k, v := range p.Filters {
		c.Filters[k] = v
	}
	return c
}

// values rebuilds the query string, used for pagination and filter links
func (p listParams) values() url.Values {
	q := url.Values{}
	if p.Page > 1 {
		q.Set("page", strconv.Itoa(p.Page))
	}
	q.Set("page_size", strconv.Itoa(p.PageSize))
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	q.Set("sort_by", p.SortBy)
	if p.SortDesc {
		q.Set("sort", "desc")
	} else {
		q.Set("sort", "asc")
	}
	for k, v := range p.Filters {
		q.Set(k, v)
	}
	return q
}

// filteredQuery builds the list query with search and filters but without
// ordering or paging, so it can be counted and exported.
func (v *ModelView) filteredQuery(db *gorm.DB, p listParams) (*gorm.DB, error) {
	var query *gorm.DB
	if v.ListQuery != nil {
		query = v.ListQuery(db)
	} else {
		query = db.Model(v.NewModel())
	}

	if p.Search != "" && len(v.SearchableColumns) > 0 {
		term := "%" + likeEscaper.Replace(strings.ToLower(p.Search)) + "%"
		conds := make([]string, 0, len(v.SearchableColumns))
		args := make([]any, 0, len(v.SearchableColumns))
		for _, col := range v.SearchableColumns {
			conds = append(conds, fmt.Sprintf(`LOWER(%s) LIKE ? ESCAPE '\'`, quoteColumn(db, col)))
			args = append(args, term)
		}
		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	for _, f := range v.Filters {
		value, ok := p.Filters[f.Param()]
		if !ok {
			continue
		}
		var err error
		if query, err = f.Apply(query, value); err != nil {
			return nil, err
		}
	}
	return query, nil
}

// listRows returns one page of rows and the total number of matching rows
func (v *ModelView) listRows(db *gorm.DB, p *listParams) ([]map[string]any, int64, error) {
	countQuery, err := v.filteredQuery(db, *p)
	if err != nil {
		return nil, 0, err
	}
	var count int64
	if err := countQuery.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	// An empty result stays on page 1, past the last page shows the last page
	if count == 0 {
		p.Page = 1
	} else {
		lastPage := int((count + int64(p.PageSize) - 1) / int64(p.PageSize))
		if p.Page > lastPage {
			p.Page = lastPage
		}
	}

	query, err := v.filteredQuery(db, *p)
	if err != nil {
		return nil, 0, err
	}
	var rows []map[string]any
	err = query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: p.SortBy}, Desc: p.SortDesc}).
		Limit(p.PageSize).
		Offset((p.Page - 1) * p.PageSize).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

// getRow loads one row by primary key
func (v *ModelView) getRow(db *gorm.DB, pk string) (map[string]any, error) {
	row := map[string]any{}
	err := db.Model(v.NewModel()).
		Where(clause.Eq{Column: clause.Column{Name: v.PrimaryKey}, Value: pk}).
		Take(&row).Error
	if err != nil {
		return nil, err
	}
	if len(row) == 0 {
		return nil, ErrNotFound
	}
	return row, nil
}

// likeEscaper makes LIKE wildcards in a search term match literally
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func quoteColumn(db *gorm.DB, column string) string {
	var b strings.Builder
	db.Statement.QuoteTo(&b, column)
	return b.String()
}

// pagination holds everything the list footer renders
type pagination struct {
	Page     int
	PageSize int
	Count    int64
	Start    int64
	End      int64
	PrevURL  string
	NextURL  string
	Sizes    []pageSizeLink
}

type pageSizeLink struct {
	Size   int
	URL    string
	Active bool
}

// newPagination computes the "Showing {Start} to {End} of {Count} items"
// bounds. An empty table reads "Showing 1 to 0 of 0 items".
func newPagination(v *ModelView, p listParams, count int64, listURL string) pagination {
	pg := pagination{
		Page:     p.Page,
		PageSize: p.PageSize,
		Count:    count,
		Start:    int64((p.Page-1)*p.PageSize) + 1,
		End:      min(int64(p.Page*p.PageSize), count),
	}
	if p.Page > 1 {
		prev := p
		prev.Page = p.Page - 1
		pg.PrevURL = listURL + "?" + prev.values().Encode()
	}
	if int64(p.Page*p.PageSize) < count {
		next := p
		next.Page = p.Page + 1
		pg.NextURL = listURL + "?" + next.values().Encode()
	}
	for _, size := range v.PageSizeOptions {
		sp := p
		sp.Page = 1
		sp.PageSize = size
		pg.Sizes = append(pg.Sizes, pageSizeLink{
			Size:   size,
			URL:    listURL + "?" + sp.values().Encode(),
			Active: size == p.PageSize,
		})
	}
	return pg
}

// formatValue renders a scanned column value as text. Rows scanned through a
// model carry its field types, so nullable columns arrive as pointers.
func formatValue(value any) string {
	switch v := indirect(value).(type) {
	case nil:
		return ""
	case []byte:
		return string(v)
	case string:
		return v
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	default:
		return fmt.Sprint(v)
	}
}

// indirect dereferences pointers, nil pointers read as nil
func indirect(value any) any {
	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

// truthy reads booleans stored as bool, integer or text
func truthy(value any) bool {
	switch v := indirect(value).(type) {
	case bool:
		return v
	case int64:
		return v != 0
	case int:
		return v != 0
	case nil:
		return false
	default:
		b, err := strconv.ParseBool(formatValue(v))
		return err == nil && b
	}
}
