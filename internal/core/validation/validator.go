// Package validation checks candidate employee payloads against the field
// rules of the directory and normalizes accepted ones into domain records.
//
// Rules are declared as go-playground/validator struct tags. Every field is
// evaluated, at most one violation is reported per field, and violations keep
// struct field order.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/staffdir/employee-directory/internal/core/domain"
	"github.com/staffdir/employee-directory/internal/core/ports"
)

const (
	tagEmail        = "employee_email"
	tagDecimal      = "decimal_number"
	tagNonNegative  = "nonnegative"
	tagCalendarDate = "calendar_date"
)

// employeeRules mirrors ports.EmployeeInput after trimming.
type employeeRules struct {
	Name        string `json:"name"        validate:"required,min=2"`
	Email       string `json:"email"       validate:"required,employee_email"`
	Phone       string `json:"phone"       validate:"required"`
	Role        string `json:"role"        validate:"required"`
	Department  string `json:"department"  validate:"required"`
	Salary      string `json:"salary"      validate:"required,decimal_number,nonnegative"`
	JoiningDate string `json:"joiningDate" validate:"omitempty,calendar_date"`
	Status      string `json:"status"      validate:"omitempty,oneof=Active Inactive"`
}

// messages holds the user-facing text for each field/tag pair.
var messages = map[string]string{
	"name.required":                  "Name is required",
	"name.min":                       "Name must be at least 2 characters",
	"email.required":                 "Email is required",
	"email." + tagEmail:              "Valid email is required",
	"phone.required":                 "Phone number is required",
	"role.required":                  "Role is required",
	"department.required":            "Department is required",
	"salary.required":                "Salary is required",
	"salary." + tagDecimal:           "Salary must be a number",
	"salary." + tagNonNegative:       "Salary cannot be negative",
	"joiningDate." + tagCalendarDate: "Joining date must be a valid date",
	"status.oneof":                   "Status must be Active or Inactive",
}

// Validator wraps a configured go-playground validator instance.
// It is safe for concurrent use.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator with the employee rules registered.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "query"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	mustRegister(v, tagEmail, func(fl validator.FieldLevel) bool {
		return domain.EmailPattern.MatchString(fl.Field().String())
	})
	mustRegister(v, tagDecimal, func(fl validator.FieldLevel) bool {
		_, err := parseAmount(fl.Field().String())
		return err == nil
	})
	mustRegister(v, tagNonNegative, func(fl validator.FieldLevel) bool {
		f, err := parseAmount(fl.Field().String())
		return err == nil && f >= 0
	})
	mustRegister(v, tagCalendarDate, func(fl validator.FieldLevel) bool {
		_, err := parseDate(fl.Field().String())
		return err == nil
	})

	return &Validator{v: v}
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("validation: register %q: %v", tag, err))
	}
}

// Result is the outcome of validating one candidate record: either Record is
// set and Violations is empty, or Record is nil and Violations lists every
// failing field.
type Result struct {
	Record     *domain.Employee
	Violations []domain.Violation
}

// OK reports whether the candidate was accepted.
func (r Result) OK() bool {
	return len(r.Violations) == 0
}

// Err returns a *domain.ValidationError for rejected candidates and nil otherwise.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return &domain.ValidationError{Violations: r.Violations}
}

// Employee validates in and, when accepted, returns the normalized record.
// Only the caller-supplied fields are filled: ID, timestamps and defaults for
// omitted JoiningDate/Status are left zero for the persistence layer.
func (v *Validator) Employee(in ports.EmployeeInput) Result {
	rules := employeeRules{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		Phone:       strings.TrimSpace(in.Phone),
		Role:        strings.TrimSpace(in.Role),
		Department:  strings.TrimSpace(in.Department),
		Salary:      strings.TrimSpace(in.Salary),
		JoiningDate: strings.TrimSpace(in.JoiningDate),
		Status:      strings.TrimSpace(in.Status),
	}

	if err := v.v.Struct(rules); err != nil {
		return Result{Violations: violations(err)}
	}

	salary, _ := parseAmount(rules.Salary)
	record := &domain.Employee{
		Name:       rules.Name,
		Email:      rules.Email,
		Phone:      rules.Phone,
		Role:       rules.Role,
		Department: rules.Department,
		Salary:     salary,
		Status:     domain.EmployeeStatus(rules.Status),
	}
	if rules.JoiningDate != "" {
		record.JoiningDate, _ = parseDate(rules.JoiningDate)
	}
	return Result{Record: record}
}

// Struct validates any tagged struct (e.g. query parameters) and returns a
// *domain.ValidationError when it fails.
func (v *Validator) Struct(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	return &domain.ValidationError{Violations: violations(err)}
}

func violations(err error) []domain.Violation {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []domain.Violation{{Message: err.Error()}}
	}
	out := make([]domain.Violation, 0, len(ve))
	for _, fe := range ve {
		out = append(out, domain.Violation{Field: fe.Field(), Message: message(fe)})
	}
	return out
}

// message converts a single FieldError into a human-readable message.
func message(fe validator.FieldError) string {
	if msg, ok := messages[fe.Field()+"."+fe.Tag()]; ok {
		return msg
	}
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// decimalPattern is the accepted salary grammar: an optional sign, digits and
// at most one decimal point that must be followed by a digit.
var decimalPattern = regexp.MustCompile(`^[+-]?([0-9]*[.])?[0-9]+$`)

func parseAmount(s string) (float64, error) {
	if !decimalPattern.MatchString(s) {
		return 0, fmt.Errorf("amount %q is not a decimal number", s)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return f, nil
}

// parseDate accepts a calendar date (2006-01-02) or an RFC 3339 timestamp and
// returns midnight UTC of the calendar day written by the client. A timestamp
// offset never moves the date.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}
