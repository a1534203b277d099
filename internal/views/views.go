// Package views declares how each model is exposed on the admin screens.
package views

import (
	"github.com/franciscosanchezn/gin-sqladmin-demo/internal/admin"
)

// Register adds every view of the application to a
func Register(a *admin.Admin) error {
	for _, v := range []*admin.ModelView{UserAdmin(), SiteAdmin()} {
		if err := a.AddView(v); err != nil {
			return err
		}
	}
	return nil
}
