package models

import (
	"regexp"
	"testing"
)

func TestNewUserID(t *testing.T) {
	tests := []struct {
		role   string
		prefix string
	}{
		{RoleSuperAdmin, "SUP_"},
		{RoleAdmin, "ADM_"},
		{RoleParent, "PAR_"},
		{RoleStudent, "STU_"},
		{"student", "STU_"},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			id := NewUserID(tt.role)
			re := regexp.MustCompile("^" + tt.prefix + "[0-9a-f]{19}$")
			if !re.MatchString(id) {
				t.Errorf("NewUserID(%q) = %q, want %s<19 hex>", tt.role, id, tt.prefix)
			}
		})
	}

	if NewUserID(RoleStudent) == NewUserID(RoleStudent) {
		t.Error("expected distinct ids")
	}
}
