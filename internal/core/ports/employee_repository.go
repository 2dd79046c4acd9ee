package ports

import (
	"context"

	"github.com/staffdir/employee-directory/internal/core/domain"
)

// ListEmployeesFilter carries the optional list filters. Empty fields match all.
type ListEmployeesFilter struct {
	Search     string // case-insensitive partial match on name, email or role
	Department string // exact department name
	Status     string // exact status
}

// EmployeeRepository defines persistence operations for employees.
//
// Implementations report domain.ErrInvalidID for identifiers that are not
// well-formed keys, domain.ErrEmployeeNotFound for absent records and
// domain.ErrDuplicateEmail when the email uniqueness constraint is violated.
type EmployeeRepository interface {
	// List returns matching employees, most recently created first.
	List(ctx context.Context, filter ListEmployeesFilter) ([]*domain.Employee, error)
	FindByID(ctx context.Context, id string) (*domain.Employee, error)
	// Create assigns the identifier and stores e. CreatedAt/UpdatedAt must be set by the caller.
	Create(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	// Update overwrites the mutable fields of the record identified by e.ID
	// and returns the stored result.
	Update(ctx context.Context, e *domain.Employee) (*domain.Employee, error)
	Delete(ctx context.Context, id string) error
}
