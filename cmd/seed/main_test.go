package main

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/brianvoe/gofakeit"
	"github.com/rs/zerolog"

	"github.com/staffdir/employee-directory/internal/core/domain"
	"github.com/staffdir/employee-directory/internal/core/ports"
	"github.com/staffdir/employee-directory/internal/core/validation"
)

func TestFakeEmployee_PassesValidation(t *testing.T) {
	gofakeit.Seed(42)
	v := validation.New()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		in := fakeEmployee("ab12cd34", i, 15)
		if res := v.Employee(in); !res.OK() {
			t.Fatalf("record %d rejected: %+v (%+v)", i, res.Violations, in)
		}
		if seen[in.Email] {
			t.Fatalf("duplicate email %q", in.Email)
		}
		seen[in.Email] = true
	}
}

func TestEmailPart(t *testing.T) {
	cases := map[string]string{"Ann": "ann", "O'Brien": "obrien", "José": "jos", "---": "x"}
	for in, want := range cases {
		if got := emailPart(in); got != want {
			t.Errorf("emailPart(%q): want %q, got %q", in, want, got)
		}
	}
}

type countingService struct {
	ports.EmployeeService
	mu      sync.Mutex
	calls   int
	failOn  int
	failErr error
}

func (s *countingService) CreateEmployee(_ context.Context, in ports.EmployeeInput, _ string) (*ports.CreateEmployeeResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls == s.failOn {
		return nil, s.failErr
	}
	return &ports.CreateEmployeeResult{Employee: &domain.Employee{Email: in.Email}}, nil
}

func TestSeed_SkipsDuplicates(t *testing.T) {
	svc := &countingService{failOn: 3, failErr: domain.ErrDuplicateEmail}

	err := seed(context.Background(), svc, seedOptions{Count: 10, Concurrency: 4, Seed: 7}, zerolog.Nop())
	if err != nil {
		t.Fatalf("duplicates must be skipped, got %v", err)
	}
	if svc.calls != 10 {
		t.Errorf("expected 10 create calls, got %d", svc.calls)
	}
}

func TestSeed_StopsOnFailure(t *testing.T) {
	boom := errors.New("mongo down")
	svc := &countingService{failOn: 1, failErr: boom}

	err := seed(context.Background(), svc, seedOptions{Count: 5, Concurrency: 1, Seed: 7}, zerolog.Nop())
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped failure, got %v", err)
	}
}
