//go:build integration

package repository_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"service-cleaning-booking/internal/repository"
)

var (
	tcPool *pgxpool.Pool
	tcDSN  string
)

func TestMain(m *testing.M) {
	os.Exit(runWithPostgres(m))
}

// runWithPostgres starts a throwaway postgres, applies the schema and runs
// the suite against it.
func runWithPostgres(m *testing.M) int {
	ctx := context.Background()

	pg, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("booking_test"),
		postgres.WithUsername("booking"),
		postgres.WithPassword("booking"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		log.Printf("start postgres container: %v", err)
		return 1
	}
	defer func() {
		if err := pg.Terminate(ctx); err != nil {
			log.Printf("terminate postgres container: %v", err)
		}
	}()

	tcDSN, err = pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		log.Printf("container connection string: %v", err)
		return 1
	}
	tcPool, err = repository.NewPool(ctx, tcDSN)
	if err != nil {
		log.Printf("connect to container: %v", err)
		return 1
	}
	defer tcPool.Close()

	if err := repository.Migrate(ctx, tcPool); err != nil {
		log.Printf("migrate: %v", err)
		return 1
	}
	return m.Run()
}

// seedBooking inserts a pending booking and returns its id.
func seedBooking(t *testing.T, ctx context.Context) int64 {
	t.Helper()

	var id int64
	err := tcPool.QueryRow(ctx, `
		INSERT INTO bookings (customer_name, customer_email, service_type, preferred_date)
		VALUES ('Jane Doe', 'jane@example.com', 'deep_clean', '2025-06-01')
		RETURNING id
	`).Scan(&id)
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	return id
}

// seedStaff inserts a staff member with the given status and returns its id.
func seedStaff(t *testing.T, ctx context.Context, status string) int64 {
	t.Helper()

	var id int64
	err := tcPool.QueryRow(ctx, `
		INSERT INTO staff (name, email, status)
		VALUES ('Cleaner', 'cleaner-' || gen_random_uuid()::text || '@example.com', $1)
		RETURNING id
	`, status).Scan(&id)
	if err != nil {
		t.Fatalf("seed staff: %v", err)
	}
	return id
}

// seedTeam inserts an active team with the given members and returns its id.
func seedTeam(t *testing.T, ctx context.Context, members ...int64) int64 {
	t.Helper()

	var id int64
	if err := tcPool.QueryRow(ctx, `INSERT INTO teams (name) VALUES ('Crew') RETURNING id`).Scan(&id); err != nil {
		t.Fatalf("seed team: %v", err)
	}
	for _, m := range members {
		if _, err := tcPool.Exec(ctx, `INSERT INTO team_members (team_id, staff_id) VALUES ($1, $2)`, id, m); err != nil {
			t.Fatalf("seed team member: %v", err)
		}
	}
	return id
}
