package policy

import (
	"errors"
	"strings"
	"testing"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
)

func TestFilter(t *testing.T) {
	tests := []struct {
		name     string
		scope    Scope
		entity   Entity
		contains string
		args     int
	}{
		{"landlord properties", New("L1", models.RoleLandlord), Properties, "p.landlord_id = ?", 1},
		{"tenant properties", New("T1", models.RoleTenant), Properties, "tenancies WHERE tenant_id = ?", 1},
		{"tenant documents", New("T1", models.RoleTenant), Documents, "d.uploaded_by = ?", 2},
		{"provider maintenance", New("S1", models.RoleServiceProvider), Maintenance, "m.assigned_to = ?", 1},
		{"provider invoices denied", New("S1", models.RoleServiceProvider), Invoices, "1 = 0", 0},
		{"anonymous denied", Scope{}, Properties, "1 = 0", 0},
	}

	aliases := map[Entity]string{Properties: "p", Documents: "d", Maintenance: "m", Invoices: "i"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.scope.Filter(tt.entity, aliases[tt.entity])
			if !strings.Contains(c.SQL, tt.contains) {
				t.Errorf("SQL = %q, want it to contain %q", c.SQL, tt.contains)
			}
			if len(c.Args) != tt.args {
				t.Errorf("args = %d, want %d", len(c.Args), tt.args)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	s := New("L1", models.RoleLandlord)
	if err := s.Require(models.RoleLandlord); err != nil {
		t.Errorf("Require(landlord) = %v, want nil", err)
	}
	if err := s.Require(models.RoleTenant, models.RoleServiceProvider); !errors.Is(err, ErrForbidden) {
		t.Errorf("Require(tenant) = %v, want ErrForbidden", err)
	}
}
