package handler

import (
	"github.com/staffdir/employee-directory/internal/core/domain"
	"github.com/staffdir/employee-directory/internal/core/ports"
)

func toEmployeeInput(req employeeRequest) ports.EmployeeInput {
	return ports.EmployeeInput{
		Name:        string(req.Name),
		Email:       string(req.Email),
		Phone:       string(req.Phone),
		Role:        string(req.Role),
		Department:  string(req.Department),
		Salary:      string(req.Salary),
		JoiningDate: string(req.JoiningDate),
		Status:      string(req.Status),
	}
}

func toEmployeeResponse(e *domain.Employee) employeeResponse {
	return employeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Phone:       e.Phone,
		Role:        e.Role,
		Department:  e.Department,
		Salary:      e.Salary,
		JoiningDate: e.JoiningDate,
		Status:      string(e.Status),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func toEmployeeResponses(list []*domain.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEmployeeResponse(e))
	}
	return out
}
