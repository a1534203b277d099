package views

import (
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/admin"
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/models"
	"gorm.io/gorm"
)

var siteRelation = admin.Relation{Table: "sites", ValueColumn: "id", LabelColumn: "name"}

// UserAdmin exposes users with every operation enabled
func UserAdmin() *admin.ModelView {
	return &admin.ModelView{
		Identity:   "user",
		Name:       "User",
		NamePlural: "Users",
		Icon:       "fa-solid fa-user",
		NewModel:   func() any { return &models.User{} },
		Fields: []admin.Field{
			{Name: "id", Label: "ID", Type: admin.FieldInteger, ReadOnly: true},
			{Name: "name", Label: "Name", Required: true, Rules: "max=255"},
			{Name: "email", Label: "Email", Required: true, Rules: "email", InputType: "email"},
			{Name: "is_admin", Label: "Is Admin", Type: admin.FieldBoolean},
			{Name: "site_id", Label: "Site", Type: admin.FieldForeignKey, Relation: &siteRelation},
			{Name: "created_at", Label: "Created At", ReadOnly: true},
			{Name: "updated_at", Label: "Updated At", ReadOnly: true},
		},
		ColumnList:        []string{"id", "name", "email", "is_admin", "site_id"},
		SearchableColumns: []string{"name", "email"},
		SortableColumns:   []string{"id", "name", "email"},
		Filters: []admin.Filter{
			admin.BooleanFilter{Column: "is_admin", Label: "Is Admin"},
			admin.StringValuesFilter{Column: "name", Label: "Name"},
			admin.ForeignKeyFilter{Column: "site_id", Label: "Site", Relation: siteRelation},
		},
		CanCreate:      true,
		CanEdit:        true,
		CanDelete:      true,
		CanViewDetails: true,
		CanExport:      true,
		ListQuery:      listUsers,
	}
}

// listUsers selects every user, the same rows the default list query reads
func listUsers(db *gorm.DB) *gorm.DB {
	return db.Model(&models.User{})
}
