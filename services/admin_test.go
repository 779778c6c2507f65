package services

import (
	"context"
	"testing"

	"shop-telegram/models"
)

func TestRoleConstants(t *testing.T) {
	if models.RoleUser != "user" || models.RoleAdmin != "admin" || models.RoleSAdmin != "sadmin" {
		t.Error("role constants should match the admins.role values")
	}
	if models.BroadcastNone != "none" || models.BroadcastCopy != "copy" || models.BroadcastForward != "forward" {
		t.Error("broadcast constants should match the admins.broadcasting values")
	}
}

func TestRoleForSuperAdmin(t *testing.T) {
	// The configured super admin resolves without a DB round trip, with or
	// without an admins row.
	if got := RoleFor(context.Background(), 777, 777); got != models.RoleSAdmin {
		t.Errorf("RoleFor(super admin) = %q, want %q", got, models.RoleSAdmin)
	}
}
