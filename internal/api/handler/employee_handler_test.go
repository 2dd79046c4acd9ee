package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/staffdir/employee-directory/internal/core/domain"
	"github.com/staffdir/employee-directory/internal/core/ports"
)

type stubEmployeeService struct {
	listFn   func(ctx context.Context, filter ports.ListEmployeesFilter) ([]*domain.Employee, error)
	getFn    func(ctx context.Context, id string) (*domain.Employee, error)
	createFn func(ctx context.Context, input ports.EmployeeInput, key string) (*ports.CreateEmployeeResult, error)
	updateFn func(ctx context.Context, id string, input ports.EmployeeInput) (*domain.Employee, error)
	deleteFn func(ctx context.Context, id string) error
}

func (s *stubEmployeeService) ListEmployees(ctx context.Context, filter ports.ListEmployeesFilter) ([]*domain.Employee, error) {
	return s.listFn(ctx, filter)
}

func (s *stubEmployeeService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	return s.getFn(ctx, id)
}

func (s *stubEmployeeService) CreateEmployee(ctx context.Context, input ports.EmployeeInput, key string) (*ports.CreateEmployeeResult, error) {
	return s.createFn(ctx, input, key)
}

func (s *stubEmployeeService) UpdateEmployee(ctx context.Context, id string, input ports.EmployeeInput) (*domain.Employee, error) {
	return s.updateFn(ctx, id, input)
}

func (s *stubEmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func annLee() *domain.Employee {
	ts := time.Date(2025, 7, 1, 14, 30, 15, 123000000, time.UTC)
	return &domain.Employee{
		ID:          "507f1f77bcf86cd799439011",
		Name:        "Ann Lee",
		Email:       "ann@co.com",
		Phone:       "555-0100",
		Role:        "Engineer",
		Department:  "Engineering",
		Salary:      50000,
		JoiningDate: time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC),
		Status:      domain.StatusActive,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator(nil)
	return e
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestEmployeeHandler_Create_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		createFn: func(ctx context.Context, in ports.EmployeeInput, key string) (*ports.CreateEmployeeResult, error) {
			if in.Name != "Ann Lee" || in.Salary != "50000" || in.Status != "" {
				t.Fatalf("unexpected input: %+v", in)
			}
			if key != "" {
				t.Fatalf("expected no idempotency key, got %q", key)
			}
			return &ports.CreateEmployeeResult{Employee: annLee()}, nil
		},
	}
	h := NewEmployeeHandler(stub)

	body := strings.NewReader(`{"name":"Ann Lee","email":"ann@co.com","phone":"555-0100","role":"Engineer","department":"Engineering","salary":50000}`)
	req := httptest.NewRequest(http.MethodPost, "/employees", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	resp := decode(t, rec)
	if resp["success"] != true || resp["message"] != "Employee created successfully" {
		t.Fatalf("unexpected envelope: %+v", resp)
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object")
	}
	if data["id"] != "507f1f77bcf86cd799439011" || data["status"] != "Active" || data["joiningDate"] != "2025-07-01T00:00:00Z" {
		t.Fatalf("unexpected employee payload: %+v", data)
	}
	if _, ok := resp["count"]; ok {
		t.Error("count must be omitted outside of lists")
	}
}

func TestEmployeeHandler_Create_SalaryTypesKeptAsText(t *testing.T) {
	cases := map[string]string{
		`{"salary":"50000"}`: "50000",
		`{"salary":1.5e3}`:   "1500",
		`{"salary":-12.50}`:  "-12.5",
		`{"salary":null}`:    "",
		`{"salary":true}`:    "true",
		`{}`:                 "",
	}

	for body, want := range cases {
		e := newTestEcho()
		stub := &stubEmployeeService{
			createFn: func(ctx context.Context, in ports.EmployeeInput, key string) (*ports.CreateEmployeeResult, error) {
				if in.Salary != want {
					t.Errorf("body %s: want salary %q, got %q", body, want, in.Salary)
				}
				return nil, &domain.ValidationError{Violations: []domain.Violation{{Field: "name", Message: "Name is required"}}}
			},
		}

		req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		c := e.NewContext(req, httptest.NewRecorder())

		var ve *domain.ValidationError
		if err := NewEmployeeHandler(stub).Create(c); !errors.As(err, &ve) {
			t.Errorf("body %s: expected validation error to be returned, got %v", body, err)
		}
	}
}

func TestEmployeeHandler_Create_PassesIdempotencyKey(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		createFn: func(ctx context.Context, in ports.EmployeeInput, key string) (*ports.CreateEmployeeResult, error) {
			if key != "key-abc-123" {
				t.Fatalf("expected idempotency key, got %q", key)
			}
			return &ports.CreateEmployeeResult{Employee: annLee(), Replayed: true}, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"name":"Ann Lee"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("Idempotency-Key", "key-abc-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewEmployeeHandler(stub).Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("replays must keep status 201, got %d", rec.Code)
	}
	if rec.Header().Get("Idempotent-Replayed") != "true" {
		t.Error("expected Idempotent-Replayed header on replay")
	}
}

func TestEmployeeHandler_Create_MalformedJSON(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		createFn: func(ctx context.Context, in ports.EmployeeInput, key string) (*ports.CreateEmployeeResult, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(`{"name":`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := NewEmployeeHandler(stub).Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest || he.Message != "invalid payload" {
		t.Fatalf("expected 400 invalid payload, got %v", err)
	}
}

func TestEmployeeHandler_Get_PassesIDAndReturnsErrors(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		getFn: func(ctx context.Context, id string) (*domain.Employee, error) {
			if id != "missing" {
				t.Fatalf("unexpected id %q", id)
			}
			return nil, domain.ErrEmployeeNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/employees/missing", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/employees/:id")
	c.SetParamNames("id")
	c.SetParamValues("missing")

	if err := NewEmployeeHandler(stub).Get(c); !errors.Is(err, domain.ErrEmployeeNotFound) {
		t.Fatalf("expected ErrEmployeeNotFound, got %v", err)
	}
}

func TestEmployeeHandler_List_FiltersAndCount(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		listFn: func(ctx context.Context, f ports.ListEmployeesFilter) ([]*domain.Employee, error) {
			if f.Search != "ann" || f.Department != "Engineering" || f.Status != "Active" {
				t.Fatalf("unexpected filter: %+v", f)
			}
			return []*domain.Employee{annLee()}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/employees?search=ann&department=Engineering&status=Active", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewEmployeeHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	if resp["count"] != float64(1) {
		t.Fatalf("expected count 1, got %v", resp["count"])
	}
	if list, ok := resp["data"].([]any); !ok || len(list) != 1 {
		t.Fatalf("expected one employee, got %v", resp["data"])
	}
}

func TestEmployeeHandler_List_EmptyRendersZeroAndArray(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		listFn: func(ctx context.Context, f ports.ListEmployeesFilter) ([]*domain.Employee, error) {
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/employees", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewEmployeeHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"count":0`) || !strings.Contains(rec.Body.String(), `"data":[]`) {
		t.Fatalf("expected count 0 and empty array, got %s", rec.Body.String())
	}
}

func TestEmployeeHandler_List_InvalidStatus(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		listFn: func(ctx context.Context, f ports.ListEmployeesFilter) ([]*domain.Employee, error) {
			t.Fatalf("service must not be called")
			return nil, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/employees?status=Retired", nil)
	c := e.NewContext(req, httptest.NewRecorder())

	var ve *domain.ValidationError
	if err := NewEmployeeHandler(stub).List(c); !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Violations[0].Field != "status" {
		t.Errorf("unexpected violation: %+v", ve.Violations[0])
	}
}

func TestEmployeeHandler_Update_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		updateFn: func(ctx context.Context, id string, in ports.EmployeeInput) (*domain.Employee, error) {
			if id != "507f1f77bcf86cd799439011" || in.Role != "Staff Engineer" {
				t.Fatalf("unexpected args: %s %+v", id, in)
			}
			updated := annLee()
			updated.Role = in.Role
			return updated, nil
		},
	}

	req := httptest.NewRequest(http.MethodPut, "/employees/507f1f77bcf86cd799439011", strings.NewReader(`{"role":"Staff Engineer"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/employees/:id")
	c.SetParamNames("id")
	c.SetParamValues("507f1f77bcf86cd799439011")

	if err := NewEmployeeHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	if resp["message"] != "Employee updated successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	if data := resp["data"].(map[string]any); data["role"] != "Staff Engineer" {
		t.Fatalf("unexpected data: %+v", data)
	}
}

func TestEmployeeHandler_Delete_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		deleteFn: func(ctx context.Context, id string) error { return nil },
	}

	req := httptest.NewRequest(http.MethodDelete, "/employees/507f1f77bcf86cd799439011", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("507f1f77bcf86cd799439011")

	if err := NewEmployeeHandler(stub).Delete(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	if resp["message"] != "Employee deleted successfully" {
		t.Fatalf("unexpected message: %v", resp["message"])
	}
	if data, ok := resp["data"].(map[string]any); !ok || len(data) != 0 {
		t.Fatalf("expected empty data object, got %v", resp["data"])
	}
}

func TestEmployeeHandler_Departments(t *testing.T) {
	e := newTestEcho()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/departments", nil), rec)

	if err := NewEmployeeHandler(&stubEmployeeService{}).Departments(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	resp := decode(t, rec)
	if resp["count"] != float64(len(domain.Departments)) {
		t.Fatalf("unexpected count: %v", resp["count"])
	}
	if list := resp["data"].([]any); list[0] != "Engineering" {
		t.Fatalf("unexpected first department: %v", list[0])
	}
}

func TestRawField_Unmarshal(t *testing.T) {
	var req employeeRequest
	body := `{"name":"  Ann ","salary":-12.50,"status":null,"joiningDate":"2025-07-01"}`
	if err := json.Unmarshal([]byte(body), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if req.Name != "  Ann " {
		t.Errorf("strings must be kept verbatim, got %q", req.Name)
	}
	if req.Salary != "-12.5" {
		t.Errorf("numbers must be rendered as plain decimals, got %q", req.Salary)
	}
	if req.Status != "" {
		t.Errorf("null must become empty, got %q", req.Status)
	}
	if req.JoiningDate != "2025-07-01" {
		t.Errorf("unexpected joiningDate %q", req.JoiningDate)
	}
}

func TestRawField_UnmarshalNumbers(t *testing.T) {
	cases := map[string]string{
		`1e5`:     "100000",
		`0`:       "0",
		`-0.25`:   "-0.25",
		`1e400`:   "1e400",
		`true`:    "true",
		` "5." `:  "5.",
		`"0x1p4"`: "0x1p4",
	}
	for in, want := range cases {
		var f rawField
		if err := f.UnmarshalJSON([]byte(in)); err != nil {
			t.Errorf("%s: unexpected error %v", in, err)
			continue
		}
		if string(f) != want {
			t.Errorf("%s: want %q, got %q", in, want, f)
		}
	}
}

func TestRawField_RejectsObjectsAndArrays(t *testing.T) {
	for _, body := range []string{
		`{"name":{"first":"Ann"}}`,
		`{"phone":["x"]}`,
		`{"salary":[]}`,
		`{"status":{}}`,
	} {
		var req employeeRequest
		if err := json.Unmarshal([]byte(body), &req); err == nil {
			t.Errorf("%s: expected an error, got %+v", body, req)
		}
	}
}

func TestEmployeeHandler_Create_NonScalarFieldIsBadRequest(t *testing.T) {
	e := newTestEcho()
	stub := &stubEmployeeService{
		createFn: func(ctx context.Context, in ports.EmployeeInput, key string) (*ports.CreateEmployeeResult, error) {
			t.Fatalf("service must not be called, got %+v", in)
			return nil, nil
		},
	}

	body := `{"name":{"first":"Ann"},"email":"ann@co.com","phone":["x"],"role":"Engineer","department":"Engineering","salary":50000}`
	req := httptest.NewRequest(http.MethodPost, "/employees", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := NewEmployeeHandler(stub).Create(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest || he.Message != "invalid payload" {
		t.Fatalf("expected 400 invalid payload, got %v", err)
	}
}
