package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// EmployeeStatus represents the employment state of an employee.
type EmployeeStatus string

const (
	StatusActive   EmployeeStatus = "Active"
	StatusInactive EmployeeStatus = "Inactive"
)

// IsValid reports whether s is one of the known statuses.
func (s EmployeeStatus) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

// MinNameLength is the minimum number of characters in a trimmed name.
const MinNameLength = 2

// EmailPattern is the accepted shape of an employee email address.
var EmailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)

// Departments is the list of recognized department names offered to clients.
// It is a suggestion only; the API accepts any non-empty department.
var Departments = []string{
	"Engineering",
	"Marketing",
	"Sales",
	"HR",
	"Finance",
	"Operations",
	"Design",
	"Support",
}

var ErrEmployeeNotFound = errors.New("employee not found")
var ErrDuplicateEmail = errors.New("email already exists")
var ErrInvalidID = errors.New("invalid id format")
var ErrInvalidRecord = errors.New("employee record violates schema")
var ErrRequestInProgress = errors.New("a create with this idempotency key is in progress")

// Employee is the single resource managed by the directory.
type Employee struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Role        string         `json:"role"`
	Department  string         `json:"department"`
	Salary      float64        `json:"salary"`
	JoiningDate time.Time      `json:"joiningDate"`
	Status      EmployeeStatus `json:"status"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Valid reports whether e is a record that may be persisted as-is.
// It is the storage-side integrity check and does not depend on how the
// record was built.
func (e *Employee) Valid() bool {
	if e == nil || e.ID == "" {
		return false
	}
	if utf8.RuneCountInString(strings.TrimSpace(e.Name)) < MinNameLength {
		return false
	}
	if !EmailPattern.MatchString(e.Email) {
		return false
	}
	for _, s := range []string{e.Phone, e.Role, e.Department} {
		if strings.TrimSpace(s) == "" {
			return false
		}
	}
	if e.Salary < 0 {
		return false
	}
	if !e.Status.IsValid() {
		return false
	}
	return !e.JoiningDate.IsZero() && !e.CreatedAt.IsZero() && !e.UpdatedAt.IsZero()
}

// DateOnly truncates t to midnight UTC of the same calendar day.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
