package admin

import (
	"fmt"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Query parameters used by the list screen itself
var reservedParams = map[string]bool{
	"page": true, "page_size": true, "search": true, "sort_by": true, "sort": true,
}

// Option is one selectable value of a filter or a foreign key input
type Option struct {
	Value string
	Label string
}

// Filter narrows the rows of a list screen through one query parameter
type Filter interface {
	// Param is the query parameter carrying the selected value
	Param() string
	Title() string
	// Lookups lists the selectable values. model is the view's model.
	Lookups(db *gorm.DB, model any) ([]Option, error)
	// Apply adds the predicate for value to the list query
	Apply(query *gorm.DB, value string) (*gorm.DB, error)
}

// BooleanFilter filters a boolean column on true or false
type BooleanFilter struct {
	Column string
	Label  string
}

func (f BooleanFilter) Param() string { return f.Column }

func (f BooleanFilter) Title() string { return titleOr(f.Label, f.Column) }

func (f BooleanFilter) Lookups(*gorm.DB, any) ([]Option, error) {
	return []Option{{Value: "true", Label: "Yes"}, {Value: "false", Label: "No"}}, nil
}

func (f BooleanFilter) Apply(query *gorm.DB, value string) (*gorm.DB, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be true or false", ErrInvalidFilter, f.Column)
	}
	return query.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: b}), nil
}

// StringValuesFilter filters a text column on one of an enumerated set of
// values. When Values is empty the distinct values stored in the column are
// offered.
type StringValuesFilter struct {
	Column string
	Label  string
	Values []Option
}

func (f StringValuesFilter) Param() string { return f.Column }

func (f StringValuesFilter) Title() string { return titleOr(f.Label, f.Column) }

func (f StringValuesFilter) Lookups(db *gorm.DB, model any) ([]Option, error) {
	if len(f.Values) > 0 {
		return f.Values, nil
	}
	var values []string
	err := db.Model(model).
		Distinct(f.Column).
		Order(clause.OrderByColumn{Column: clause.Column{Name: f.Column}}).
		Pluck(f.Column, &values).Error
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(values))
	for _, v := range values {
		options = append(options, Option{Value: v, Label: v})
	}
	return options, nil
}

func (f StringValuesFilter) Apply(query *gorm.DB, value string) (*gorm.DB, error) {
	if len(f.Values) > 0 && !containsOption(f.Values, value) {
		return nil, fmt.Errorf("%w: unknown %s value %q", ErrInvalidFilter, f.Column, value)
	}
	return query.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: value}), nil
}

// ForeignKeyFilter filters a foreign key column on one referenced row
type ForeignKeyFilter struct {
	Column   string
	Label    string
	Relation Relation
}

func (f ForeignKeyFilter) Param() string { return f.Column }

func (f ForeignKeyFilter) Title() string { return titleOr(f.Label, f.Column) }

func (f ForeignKeyFilter) Lookups(db *gorm.DB, _ any) ([]Option, error) {
	return relationOptions(db, &f.Relation)
}

func (f ForeignKeyFilter) Apply(query *gorm.DB, value string) (*gorm.DB, error) {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an id", ErrInvalidFilter, f.Column)
	}
	return query.Where(clause.Eq{Column: clause.Column{Name: f.Column}, Value: id}), nil
}

// relationOptions loads the rows a foreign key may reference
func relationOptions(db *gorm.DB, rel *Relation) ([]Option, error) {
	valueColumn := rel.ValueColumn
	if valueColumn == "" {
		valueColumn = "id"
	}
	var rows []map[string]any
	err := db.Table(rel.Table).
		Select([]string{valueColumn, rel.LabelColumn}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: valueColumn}}).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	options := make([]Option, 0, len(rows))
	for _, row := range rows {
		options = append(options, Option{
			Value: formatValue(row[valueColumn]),
			Label: formatValue(row[rel.LabelColumn]),
		})
	}
	return options, nil
}

func containsOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func titleOr(label, column string) string {
	if label != "" {
		return label
	}
	return column
}
