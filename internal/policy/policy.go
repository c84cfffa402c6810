// Package policy centralizes role-based row visibility. Every list or detail
// fetch in the store consults a Scope instead of re-deriving ownership rules.
package policy

import (
	"errors"
	"fmt"

	"github.com/Ioioiog/dashboardly-framework-sub001/internal/models"
)

// ErrForbidden is returned when a scope lacks the capability for an action.
var ErrForbidden = errors.New("forbidden")

// Entity names a table whose rows are visible per role.
type Entity int

const (
	Properties Entity = iota
	Tenancies
	Maintenance
	Documents
	Invoices
	Payments
	UtilityBills
	UtilityProviders
	Conversations
)

// Clause is a SQL predicate with its positional arguments.
type Clause struct {
	SQL  string
	Args []any
}

var deny = Clause{SQL: "1 = 0"}

// Scope is the capability of one authenticated user.
type Scope struct {
	UserID string
	Role   models.Role
}

// New returns a scope for the given user.
func New(userID string, role models.Role) Scope {
	return Scope{UserID: userID, Role: role}
}

const (
	landlordProperties = "SELECT id FROM properties WHERE landlord_id = ?"
	tenantProperties   = "SELECT property_id FROM tenancies WHERE tenant_id = ? AND status = 'active'"
	assignedProperties = "SELECT property_id FROM maintenance_requests WHERE assigned_to = ?"
)

// Filter returns the predicate restricting entity rows to what the scope may see.
// alias is the table alias used in the caller's query.
func (s Scope) Filter(entity Entity, alias string) Clause {
	if s.UserID == "" {
		return deny
	}
	col := func(name string) string { return alias + "." + name }
	one := func(sql string) Clause { return Clause{SQL: sql, Args: []any{s.UserID}} }

	switch s.Role {
	case models.RoleLandlord:
		switch entity {
		case Properties:
			return one(col("landlord_id") + " = ?")
		case Tenancies, Maintenance, Documents, UtilityBills:
			return one(col("property_id") + " IN (" + landlordProperties + ")")
		case Invoices, UtilityProviders, Conversations:
			return one(col("landlord_id") + " = ?")
		case Payments:
			return one(col("invoice_id") + " IN (SELECT id FROM invoices WHERE landlord_id = ?)")
		}
	case models.RoleTenant:
		switch entity {
		case Properties:
			return one(col("id") + " IN (" + tenantProperties + ")")
		case Tenancies, Maintenance, Invoices, Payments, Conversations:
			return one(col("tenant_id") + " = ?")
		case Documents:
			return Clause{
				SQL:  "(" + col("tenant_id") + " = ? OR " + col("uploaded_by") + " = ?)",
				Args: []any{s.UserID, s.UserID},
			}
		case UtilityBills:
			return one(col("property_id") + " IN (" + tenantProperties + ")")
		}
	case models.RoleServiceProvider:
		switch entity {
		case Properties:
			return one(col("id") + " IN (" + assignedProperties + ")")
		case Maintenance:
			return one(col("assigned_to") + " = ?")
		}
	}
	return deny
}

// Require returns ErrForbidden unless the scope has one of roles.
func (s Scope) Require(roles ...models.Role) error {
	for _, r := range roles {
		if s.Role == r {
			return nil
		}
	}
	return fmt.Errorf("%w: role %q cannot perform this action", ErrForbidden, s.Role)
}
