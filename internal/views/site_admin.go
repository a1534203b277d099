package views

import (
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/admin"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/models"
)

// SiteAdmin exposes sites with every operation enabled
func SiteAdmin() *admin.ModelView {
	return &admin.ModelView{
		Identity:   "site",
		Name:       "Site",
		NamePlural: "Sites",
		Icon:       "fa-solid fa-globe",
		NewModel:   func() any { return &models.Site{} },
		Fields: []admin.Field{
			{Name: "id", Label: "ID", Type: admin.FieldInteger, ReadOnly: true},
			{Name: "name", Label: "Name", Required: true, Rules: "max=255"},
			{Name: "created_at", Label: "Created At", ReadOnly: true},
			{Name: "updated_at", Label: "Updated At", ReadOnly: true},
		},
		ColumnList:        []string{"id", "name"},
		SearchableColumns: []string{"name"},
		SortableColumns:   []string{"id", "name"},
		CanCreate:         true,
		CanEdit:           true,
		CanDelete:         true,
		CanViewDetails:    true,
		CanExport:         true,
	}
}
