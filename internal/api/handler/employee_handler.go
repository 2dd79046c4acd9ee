package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/staffdir/employee-directory/internal/api/metrics"
	"github.com/staffdir/employee-directory/internal/core/domain"
	"github.com/staffdir/employee-directory/internal/core/ports"
)

const (
	headerIdempotencyKey = "Idempotency-Key"
	headerReplayed       = "Idempotent-Replayed"
)

// EmployeeHandler handles HTTP requests for employee operations.
// Errors are returned to the central error handler, which renders them.
type EmployeeHandler struct {
	service ports.EmployeeService
}

func NewEmployeeHandler(service ports.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// List handles GET /employees.
//
// @Summary      List employees
// @Description  Returns every employee, most recently created first.
// @Tags         employees
// @Produce      json
// @Param        search      query     string  false  "Case-insensitive match on name, email or role"
// @Param        department  query     string  false  "Exact department"
// @Param        status      query     string  false  "Active or Inactive"
// @Success      200         {object}  employeeListEnvelope
// @Failure      400         {object}  errorEnvelope
// @Failure      500         {object}  errorEnvelope
// @Router       /employees [get]
func (h *EmployeeHandler) List(c echo.Context) error {
	var q listEmployeesQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	employees, err := h.service.ListEmployees(c.Request().Context(), ports.ListEmployeesFilter{
		Search:     q.Search,
		Department: q.Department,
		Status:     q.Status,
	})
	if err != nil {
		return err
	}

	data := toEmployeeResponses(employees)
	count := len(data)
	return c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

// Get handles GET /employees/:id.
//
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  employeeEnvelope
// @Failure      400  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Failure      500  {object}  errorEnvelope
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) Get(c echo.Context) error {
	e, err := h.service.GetEmployee(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: toEmployeeResponse(e)})
}

// Create handles POST /employees.
//
// @Summary      Create an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string           false  "Replays the original response for a repeated key"
// @Param        body             body      employeeRequest  true   "Employee fields"
// @Success      201              {object}  employeeEnvelope
// @Failure      400              {object}  errorEnvelope
// @Failure      409              {object}  errorEnvelope
// @Failure      500              {object}  errorEnvelope
// @Router       /employees [post]
func (h *EmployeeHandler) Create(c echo.Context) error {
	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result, err := h.service.CreateEmployee(
		c.Request().Context(),
		toEmployeeInput(req),
		c.Request().Header.Get(headerIdempotencyKey),
	)
	if err != nil {
		observeViolations(err)
		return err
	}

	if result.Replayed {
		metrics.IdempotentReplaysTotal.Inc()
		c.Response().Header().Set(headerReplayed, "true")
	} else {
		metrics.EmployeesCreatedTotal.WithLabelValues(result.Employee.Department).Inc()
	}

	return c.JSON(http.StatusCreated, Envelope{
		Success: true,
		Message: "Employee created successfully",
		Data:    toEmployeeResponse(result.Employee),
	})
}

// Update handles PUT /employees/:id.
//
// @Summary      Update an employee
// @Description  Replaces every editable field. Omitted status and joiningDate keep their stored values.
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id    path      string           true  "Employee id"
// @Param        body  body      employeeRequest  true  "Employee fields"
// @Success      200   {object}  employeeEnvelope
// @Failure      400   {object}  errorEnvelope
// @Failure      404   {object}  errorEnvelope
// @Failure      500   {object}  errorEnvelope
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) Update(c echo.Context) error {
	var req employeeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	e, err := h.service.UpdateEmployee(c.Request().Context(), c.Param("id"), toEmployeeInput(req))
	if err != nil {
		observeViolations(err)
		return err
	}

	metrics.EmployeesUpdatedTotal.Inc()
	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "Employee updated successfully",
		Data:    toEmployeeResponse(e),
	})
}

// Delete handles DELETE /employees/:id.
//
// @Summary      Delete an employee
// @Tags         employees
// @Produce      json
// @Param        id   path      string  true  "Employee id"
// @Success      200  {object}  Envelope
// @Failure      400  {object}  errorEnvelope
// @Failure      404  {object}  errorEnvelope
// @Failure      500  {object}  errorEnvelope
// @Router       /employees/{id} [delete]
func (h *EmployeeHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteEmployee(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.EmployeesDeletedTotal.Inc()
	return c.JSON(http.StatusOK, Envelope{
		Success: true,
		Message: "Employee deleted successfully",
		Data:    struct{}{},
	})
}

// Departments handles GET /departments.
//
// @Summary      List recognized departments
// @Description  Suggestion list for clients; any non-empty department is accepted.
// @Tags         employees
// @Produce      json
// @Success      200  {object}  departmentListEnvelope
// @Router       /departments [get]
func (h *EmployeeHandler) Departments(c echo.Context) error {
	data := append([]string(nil), domain.Departments...)
	count := len(data)
	return c.JSON(http.StatusOK, Envelope{Success: true, Count: &count, Data: data})
}

func observeViolations(err error) {
	var ve *domain.ValidationError
	if !errors.As(err, &ve) {
		return
	}
	for _, v := range ve.Violations {
		metrics.EmployeeValidationFailuresTotal.WithLabelValues(v.Field).Inc()
	}
}
