package db

import (
	"context"

	"gorm.io/gorm"
)

const (
	SettingAdminID   = "app.current_admin_id"
	SettingAdminRole = "app.current_admin_role"
)

// AdminContext identifies the admin whose request is being served.
type AdminContext struct {
	AdminID string
	Role    string
}

type adminCtxKey struct{}

// WithAdminContext stores the acting admin on ctx for later transactions.
func WithAdminContext(ctx context.Context, admin AdminContext) context.Context {
	return context.WithValue(ctx, adminCtxKey{}, admin)
}

// AdminContextFrom returns the acting admin stored on ctx, if any.
func AdminContextFrom(ctx context.Context) (AdminContext, bool) {
	if ctx == nil {
		return AdminContext{}, false
	}
	admin, ok := ctx.Value(adminCtxKey{}).(AdminContext)
	if !ok || admin.AdminID == "" {
		return AdminContext{}, false
	}
	return admin, true
}

type sessionSetting struct {
	Name  string
	Value string
}

func sessionSettings(ctx context.Context) []sessionSetting {
	admin, ok := AdminContextFrom(ctx)
	if !ok {
		return nil
	}
	return []sessionSetting{
		{Name: SettingAdminID, Value: admin.AdminID},
		{Name: SettingAdminRole, Value: admin.Role},
	}
}

// applySessionContext binds the settings with is_local = true so they vanish
// at COMMIT/ROLLBACK and never leak to another request sharing the pool.
func applySessionContext(ctx context.Context, tx *gorm.DB) error {
	for _, setting := range sessionSettings(ctx) {
		if err := tx.Exec("SELECT set_config(?, ?, true)", setting.Name, setting.Value).Error; err != nil {
			return err
		}
	}
	return nil
}
