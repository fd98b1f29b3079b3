package app

import (
	"context"
	"strings"

	"droneDispatch/internal/logx"
	"droneDispatch/models"
)

type adminStore interface {
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, username, role string) (*models.User, error)
	UpdateRoleByUsername(ctx context.Context, username, role string) error
}

// ensureAdmin makes sure username exists with the admin role. An empty name is a no-op.
func ensureAdmin(ctx context.Context, users adminStore, username string, logger logx.Logger) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil
	}
	admin := models.NewAdmin(username)
	u, err := users.GetByUsername(ctx, admin.Username)
	if err != nil {
		return err
	}
	switch {
	case u == nil:
		if _, err := users.Create(ctx, admin.Username, admin.Role); err != nil {
			return err
		}
		logger.Info("admin user created", logx.String("username", admin.Username))
	case u.Role != models.RoleAdmin:
		if err := users.UpdateRoleByUsername(ctx, admin.Username, admin.Role); err != nil {
			return err
		}
		logger.Info("user promoted to admin", logx.String("username", admin.Username))
	}
	return nil
}
