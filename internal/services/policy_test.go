package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		role    Role
		action  Action
		allowed bool
	}{
		{RoleAdmin, ActionDelete, true},
		{RoleSeller, ActionDelete, true},
		{RoleTenant, ActionDelete, false},
		{RoleAdmin, ActionRestore, true},
		{RoleSeller, ActionRestore, true},
		{RoleTenant, ActionRestore, false},
		{RoleAdmin, ActionApprove, true},
		{RoleTenant, ActionApprove, false},
		{Role(""), ActionDelete, false},
		{Role("superuser"), ActionDelete, false},
		{RoleAdmin, Action("inquiry:unknown"), false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, Authorize(tc.role, tc.action),
			"role %q action %q", tc.role, tc.action)
	}
}
