package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/staffdir/employee-directory/internal/core/domain"
)

// Envelope is the response wrapper shared by every endpoint, errors included.
type Envelope struct {
	Success bool               `json:"success"`
	Count   *int               `json:"count,omitempty"`
	Data    any                `json:"data,omitempty"`
	Message string             `json:"message,omitempty"`
	Errors  []domain.Violation `json:"errors,omitempty"`
}

// rawField accepts any JSON scalar so that type problems surface as field
// violations instead of bind failures. Strings are unquoted, null becomes
// empty, numbers are rewritten in plain decimal notation and booleans keep
// their literal text. Objects and arrays are rejected.
type rawField string

var errNotScalar = errors.New("expected a JSON scalar")

func (f *rawField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0:
		*f = ""
		return nil
	case b[0] == '{' || b[0] == '[':
		return errNotScalar
	case bytes.Equal(b, []byte("null")):
		*f = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = rawField(s)
		return nil
	case b[0] == '-' || (b[0] >= '0' && b[0] <= '9'):
		*f = rawField(decimalText(string(b)))
		return nil
	}
	*f = rawField(b)
	return nil
}

// decimalText formats a JSON number literal without an exponent, so 1.5e3
// becomes 1500. Literals that do not fit a float64 are returned unchanged.
func decimalText(lit string) string {
	n, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return lit
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// --- Request / Response types ---

type employeeRequest struct {
	Name       rawField `json:"name"        swaggertype:"string" example:"Ann Lee"`
	Email      rawField `json:"email"       swaggertype:"string" example:"ann@co.com"`
	Phone      rawField `json:"phone"       swaggertype:"string" example:"555-0100"`
	Role       rawField `json:"role"        swaggertype:"string" example:"Engineer"`
	Department rawField `json:"department"  swaggertype:"string" example:"Engineering"`
	// JSON number, or a string of digits with an optional sign and decimal point.
	Salary rawField `json:"salary"      swaggertype:"number" example:"50000"`
	// Calendar date or RFC 3339 timestamp; a timestamp keeps the day written in its own offset.
	JoiningDate rawField `json:"joiningDate" swaggertype:"string" example:"2025-07-01"`
	Status      rawField `json:"status"      swaggertype:"string" enums:"Active,Inactive"`
}

type listEmployeesQuery struct {
	Search     string `query:"search"`
	Department string `query:"department"`
	Status     string `query:"status" validate:"omitempty,oneof=Active Inactive"`
}

type employeeResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Role        string    `json:"role"`
	Department  string    `json:"department"`
	Salary      float64   `json:"salary"`
	JoiningDate time.Time `json:"joiningDate"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Swagger-only response shapes.

type employeeEnvelope struct {
	Success bool             `json:"success" example:"true"`
	Message string           `json:"message,omitempty" example:"Employee created successfully"`
	Data    employeeResponse `json:"data"`
}

type employeeListEnvelope struct {
	Success bool               `json:"success" example:"true"`
	Count   int                `json:"count" example:"1"`
	Data    []employeeResponse `json:"data"`
}

type departmentListEnvelope struct {
	Success bool     `json:"success" example:"true"`
	Count   int      `json:"count" example:"8"`
	Data    []string `json:"data"`
}

type errorEnvelope struct {
	Success bool               `json:"success" example:"false"`
	Message string             `json:"message,omitempty" example:"Employee not found"`
	Errors  []domain.Violation `json:"errors,omitempty"`
}
