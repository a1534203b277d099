package admin

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"
)

// FieldType tags how a column is parsed from forms and rendered in tables
type FieldType int

const (
	FieldString FieldType = iota
	FieldInteger
	FieldBoolean
	FieldForeignKey
)

// Relation points a foreign key column at the table it references
type Relation struct {
	Table       string
	ValueColumn string // defaults to "id"
	LabelColumn string
}

// Field declares one column of a model: its label, type and constraints.
// Rules holds go-playground/validator tags applied to the submitted value.
type Field struct {
	Name      string
	Label     string
	Type      FieldType
	Required  bool
	Rules     string
	ReadOnly  bool // shown on details and lists, never in forms
	InputType string
	Relation  *Relation
}

// ModelView binds a model to the admin screens. Views are configured once at
// startup and only read afterwards.
type ModelView struct {
	Identity   string
	Name       string
	NamePlural string
	Icon       string

	// NewModel returns a fresh pointer to the gorm model, e.g. &models.User{}
	NewModel   func() any
	PrimaryKey string
	Fields     []Field

	ColumnList        []string
	SearchableColumns []string
	SortableColumns   []string
	DefaultSort       string
	DefaultSortDesc   bool
	Filters           []Filter

	CanCreate      bool
	CanEdit        bool
	CanDelete      bool
	CanViewDetails bool
	CanExport      bool

	PageSize        int
	PageSizeOptions []int

	// ListQuery replaces the default list query, it must select from the
	// view's model.
	ListQuery func(db *gorm.DB) *gorm.DB
}

var identityPattern = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// Validate checks the view configuration and fills in defaults
func (v *ModelView) Validate() error {
	if !identityPattern.MatchString(v.Identity) {
		return fmt.Errorf("invalid view identity %q", v.Identity)
	}
	if v.NewModel == nil {
		return errors.New("view " + v.Identity + ": NewModel is required")
	}
	if len(v.Fields) == 0 {
		return errors.New("view " + v.Identity + ": at least one field is required")
	}
	if v.Name == "" {
		v.Name = v.Identity
	}
	if v.NamePlural == "" {
		v.NamePlural = v.Name + "s"
	}
	if v.PrimaryKey == "" {
		v.PrimaryKey = "id"
	}
	if v.PageSize <= 0 {
		v.PageSize = 10
	}
	if len(v.PageSizeOptions) == 0 {
		v.PageSizeOptions = []int{10, 25, 50, 100}
	}
	if v.DefaultSort == "" {
		v.DefaultSort = v.PrimaryKey
	}

	for i := range v.Fields {
		f := &v.Fields[i]
		if f.Label == "" {
			f.Label = f.Name
		}
		if f.Type == FieldForeignKey {
			if f.Relation == nil || f.Relation.Table == "" || f.Relation.LabelColumn == "" {
				return fmt.Errorf("view %s: foreign key field %s needs a relation", v.Identity, f.Name)
			}
			if f.Relation.ValueColumn == "" {
				f.Relation.ValueColumn = "id"
			}
		}
	}

	if len(v.ColumnList) == 0 {
		for _, f := range v.Fields {
			v.ColumnList = append(v.ColumnList, f.Name)
		}
	}
	for _, group := range [][]string{v.ColumnList, v.SearchableColumns, v.SortableColumns, {v.DefaultSort}} {
		for _, name := range group {
			if v.Field(name) == nil {
				return fmt.Errorf("view %s: unknown column %s", v.Identity, name)
			}
		}
	}

	seen := map[string]bool{}
	for _, f := range v.Filters {
		param := f.Param()
		if seen[param] || reservedParams[param] {
			return fmt.Errorf("view %s: filter parameter %s already in use", v.Identity, param)
		}
		seen[param] = true
	}
	return nil
}

// Field returns the declared field with the given column name
func (v *ModelView) Field(name string) *Field {
	for i := range v.Fields {
		if v.Fields[i].Name == name {
			return &v.Fields[i]
		}
	}
	return nil
}

// FormFields are the fields editable through create and edit
func (v *ModelView) FormFields() []Field {
	fields := make([]Field, 0, len(v.Fields))
	for _, f := range v.Fields {
		if !f.ReadOnly {
			fields = append(fields, f)
		}
	}
	return fields
}

// stampTimes fills the declared created_at and updated_at columns, which map
// based writes leave alone
func (v *ModelView) stampTimes(values map[string]any, creating bool) {
	now := time.Now()
	if creating && v.Field("created_at") != nil {
		values["created_at"] = now
	}
	if v.Field("updated_at") != nil {
		values["updated_at"] = now
	}
}

func (v *ModelView) sortable(column string) bool {
	for _, c := range v.SortableColumns {
		if c == column {
			return true
		}
	}
	return column == v.DefaultSort
}

func (v *ModelView) pageSizeAllowed(size int) bool {
	for _, s := range v.PageSizeOptions {
		if s == size {
			return true
		}
	}
	return false
}

func (v *ModelView) inputType(f Field) string {
	if f.InputType != "" {
		return f.InputType
	}
	switch f.Type {
	case FieldInteger:
		return "number"
	case FieldBoolean:
		return "checkbox"
	case FieldForeignKey:
		return "select"
	default:
		return "text"
	}
}
