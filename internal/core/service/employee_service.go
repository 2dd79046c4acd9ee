package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/staffdir/employee-directory/internal/core/domain"
	"github.com/staffdir/employee-directory/internal/core/ports"
	"github.com/staffdir/employee-directory/internal/core/validation"
)

type EmployeeService struct {
	repo      ports.EmployeeRepository
	validator *validation.Validator
	idem      ports.IdempotencyStore
	logger    zerolog.Logger
	now       func() time.Time
}

// NewEmployeeService wires the employee use cases. idem may be nil, in which
// case Idempotency-Key headers are ignored.
func NewEmployeeService(
	repo ports.EmployeeRepository,
	v *validation.Validator,
	idem ports.IdempotencyStore,
	logger zerolog.Logger,
) *EmployeeService {
	if v == nil {
		v = validation.New()
	}
	return &EmployeeService{
		repo:      repo,
		validator: v,
		idem:      idem,
		logger:    logger,
		now:       time.Now,
	}
}

// timestamp returns the current instant at storage precision.
func (s *EmployeeService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *EmployeeService) ListEmployees(ctx context.Context, filter ports.ListEmployeesFilter) ([]*domain.Employee, error) {
	employees, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	if employees == nil {
		employees = []*domain.Employee{}
	}
	return employees, nil
}

func (s *EmployeeService) GetEmployee(ctx context.Context, id string) (*domain.Employee, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get employee: %w", err)
	}
	return e, nil
}

// CreateEmployee validates input and stores a new employee. When an
// idempotency key is given and already maps to a live record, that record is
// returned with Replayed set and nothing is written. A key held by a create
// still in flight yields domain.ErrRequestInProgress.
func (s *EmployeeService) CreateEmployee(ctx context.Context, input ports.EmployeeInput, idempotencyKey string) (*ports.CreateEmployeeResult, error) {
	res := s.validator.Employee(input)
	if !res.OK() {
		return nil, res.Err()
	}

	claimed, existing, err := s.claim(ctx, idempotencyKey)
	if err != nil {
		return nil, fmt.Errorf("create employee: %w", err)
	}
	if existing != nil {
		return &ports.CreateEmployeeResult{Employee: existing, Replayed: true}, nil
	}

	now := s.timestamp()
	record := res.Record
	if record.Status == "" {
		record.Status = domain.StatusActive
	}
	if record.JoiningDate.IsZero() {
		record.JoiningDate = domain.DateOnly(now)
	}
	record.CreatedAt = now
	record.UpdatedAt = now

	created, err := s.repo.Create(ctx, record)
	if err != nil {
		if claimed {
			s.release(ctx, idempotencyKey)
		}
		if !errors.Is(err, domain.ErrDuplicateEmail) {
			s.logger.Error().Err(err).Str("email", record.Email).Msg("failed to create employee")
		}
		return nil, fmt.Errorf("create employee: %w", err)
	}

	if claimed {
		if err := s.idem.Remember(ctx, idempotencyKey, created.ID); err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", idempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.logger.Info().Str("employee_id", created.ID).Str("department", created.Department).Msg("employee created")
	return &ports.CreateEmployeeResult{Employee: created}, nil
}

// claim reserves key for this create. It reports true when the caller must
// Remember or release the key, or returns the employee previously created
// under key for a replay. A store that cannot be reached lets the create
// proceed unguarded.
func (s *EmployeeService) claim(ctx context.Context, key string) (bool, *domain.Employee, error) {
	if key == "" || s.idem == nil {
		return false, nil, nil
	}

	// A second pass follows a stale key whose record was deleted or whose
	// claim expired between Claim and Lookup.
	for range 2 {
		ok, err := s.idem.Claim(ctx, key)
		if err != nil {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency claim failed, creating anyway")
			return false, nil, nil
		}
		if ok {
			return true, nil, nil
		}

		id, err := s.idem.Lookup(ctx, key)
		switch {
		case errors.Is(err, domain.ErrRequestInProgress):
			return false, nil, err
		case err != nil:
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotency lookup failed, creating anyway")
			return false, nil, nil
		case id == "":
			continue
		}

		existing, err := s.repo.FindByID(ctx, id)
		if err == nil {
			s.logger.Info().Str("idempotency_key", key).Str("employee_id", existing.ID).Msg("idempotent replay")
			return false, existing, nil
		}
		if !errors.Is(err, domain.ErrEmployeeNotFound) {
			s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("idempotent record lookup failed, creating anyway")
			return false, nil, nil
		}
		s.release(ctx, key)
	}

	s.logger.Warn().Str("idempotency_key", key).Msg("idempotency key kept changing, creating anyway")
	return false, nil, nil
}

func (s *EmployeeService) release(ctx context.Context, key string) {
	if err := s.idem.Release(ctx, key); err != nil {
		s.logger.Warn().Err(err).Str("idempotency_key", key).Msg("failed to release idempotency key")
	}
}

// UpdateEmployee replaces the caller-editable fields of the employee with id.
// Omitted status and joining date keep their stored values; CreatedAt is
// preserved and UpdatedAt advances.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id string, input ports.EmployeeInput) (*domain.Employee, error) {
	res := s.validator.Employee(input)
	if !res.OK() {
		return nil, res.Err()
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}

	record := res.Record
	record.ID = current.ID
	if record.Status == "" {
		record.Status = current.Status
	}
	if record.JoiningDate.IsZero() {
		record.JoiningDate = current.JoiningDate
	}
	record.CreatedAt = current.CreatedAt
	record.UpdatedAt = s.timestamp()
	if record.UpdatedAt.Before(record.CreatedAt) {
		record.UpdatedAt = record.CreatedAt
	}

	updated, err := s.repo.Update(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("update employee: %w", err)
	}

	s.logger.Info().Str("employee_id", updated.ID).Msg("employee updated")
	return updated, nil
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete employee: %w", err)
	}
	s.logger.Info().Str("employee_id", id).Msg("employee deleted")
	return nil
}
