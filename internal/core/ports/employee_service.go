package ports

import (
	"context"

	"github.com/staffdir/employee-directory/internal/core/domain"
)

// EmployeeInput is the raw candidate payload passed from the transport layer.
// Values are kept as received (untrimmed strings) so the validation layer can
// report on them; Salary holds the literal text of a JSON number or string.
type EmployeeInput struct {
	Name        string
	Email       string
	Phone       string
	Role        string
	Department  string
	Salary      string
	JoiningDate string // optional: YYYY-MM-DD or RFC 3339
	Status      string // optional: Active or Inactive
}

// CreateEmployeeResult is returned by the service after creating an employee.
type CreateEmployeeResult struct {
	Employee *domain.Employee
	// Replayed is true when the Idempotency-Key matched an earlier create.
	Replayed bool
}

// EmployeeService defines use-case operations for employees.
type EmployeeService interface {
	ListEmployees(ctx context.Context, filter ListEmployeesFilter) ([]*domain.Employee, error)
	GetEmployee(ctx context.Context, id string) (*domain.Employee, error)
	CreateEmployee(ctx context.Context, input EmployeeInput, idempotencyKey string) (*CreateEmployeeResult, error)
	UpdateEmployee(ctx context.Context, id string, input EmployeeInput) (*domain.Employee, error)
	DeleteEmployee(ctx context.Context, id string) error
}
