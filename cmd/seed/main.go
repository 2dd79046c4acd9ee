// Command seed fills the employee directory with fake employees for demos and
// local development. Records go through the same validation and persistence
// path as the API.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/brianvoe/gofakeit"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/staffdir/employee-directory/internal/core/domain"
	"github.com/staffdir/employee-directory/internal/core/ports"
	"github.com/staffdir/employee-directory/internal/core/service"
	"github.com/staffdir/employee-directory/internal/core/validation"
	"github.com/staffdir/employee-directory/internal/infrastructure/db/mongo"
	"github.com/staffdir/employee-directory/internal/pkg/config"
	"github.com/staffdir/employee-directory/pkg/logger"
)

type seedOptions struct {
	Count       int
	Concurrency int
	Seed        int64
	Inactive    int
}

var opts seedOptions

var rootCmd = &cobra.Command{
	Use:   "seed [flags]",
	Short: "Populate the employee directory with fake employees.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), opts)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().IntVarP(&opts.Count, "count", "n", 50, "Number of employees to create")
	rootCmd.Flags().IntVarP(&opts.Concurrency, "concurrency", "c", 8, "Maximum concurrent inserts")
	rootCmd.Flags().Int64Var(&opts.Seed, "seed", 0, "Random seed (0 uses the current time)")
	rootCmd.Flags().IntVar(&opts.Inactive, "inactive-percent", 15, "Share of employees created as Inactive")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, o seedOptions) error {
	if o.Count <= 0 {
		return fmt.Errorf("count must be positive, got %d", o.Count)
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}

	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "employee-directory-seed",
	})

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  "employee-directory-seed",
		Timeout:  cfg.Mongo.Timeout,
	})
	if err != nil {
		return err
	}
	defer client.Disconnect(context.Background())

	repo := mongo.NewEmployeeRepository(db)
	if err := repo.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("ensure indexes: %w", err)
	}

	svc := service.NewEmployeeService(repo, validation.New(), nil, zerolog.Nop())
	return seed(ctx, svc, o, log)
}

// seed creates o.Count fake employees through svc with at most o.Concurrency
// inserts in flight. Email collisions are counted and skipped.
func seed(ctx context.Context, svc ports.EmployeeService, o seedOptions, log zerolog.Logger) error {
	seedValue := o.Seed
	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}
	gofakeit.Seed(seedValue)

	runID := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]

	// gofakeit's global source is not safe for concurrent use.
	inputs := make([]ports.EmployeeInput, o.Count)
	for i := range inputs {
		inputs[i] = fakeEmployee(runID, i, o.Inactive)
	}

	var created, skipped atomic.Int64
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Concurrency)
	for _, in := range inputs {
		g.Go(func() error {
			_, err := svc.CreateEmployee(gctx, in, "")
			switch {
			case err == nil:
				created.Add(1)
				return nil
			case errors.Is(err, domain.ErrDuplicateEmail):
				skipped.Add(1)
				return nil
			default:
				return fmt.Errorf("create %s: %w", in.Email, err)
			}
		})
	}

	err := g.Wait()
	log.Info().
		Str("run_id", runID).
		Int64("seed", seedValue).
		Int64("created", created.Load()).
		Int64("skipped", skipped.Load()).
		Dur("elapsed", time.Since(start)).
		Msg("seed finished")
	return err
}

// fakeEmployee builds a candidate record that passes validation. The run id
// and index keep emails unique across runs.
func fakeEmployee(runID string, i, inactivePercent int) ports.EmployeeInput {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()

	status := domain.StatusActive
	if gofakeit.Number(1, 100) <= inactivePercent {
		status = domain.StatusInactive
	}

	joined := gofakeit.DateRange(time.Now().AddDate(-10, 0, 0), time.Now())

	return ports.EmployeeInput{
		Name:        first + " " + last,
		Email:       fmt.Sprintf("%s.%s.%s%d@example.com", emailPart(first), emailPart(last), runID, i),
		Phone:       gofakeit.Phone(),
		Role:        gofakeit.JobTitle(),
		Department:  domain.Departments[gofakeit.Number(0, len(domain.Departments)-1)],
		Salary:      fmt.Sprintf("%d", gofakeit.Number(30, 180)*1000),
		JoiningDate: joined.UTC().Format(time.DateOnly),
		Status:      string(status),
	}
}

// emailPart lowercases s and keeps only ASCII letters and digits.
func emailPart(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "x"
	}
	return b.String()
}
