//go:build integration

package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"service-cleaning-booking/internal/repository"
)

func TestNewPool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		dsn     string
		wantErr string
	}{
		{name: "container", dsn: tcDSN},
		{name: "malformed dsn", dsn: "not-a-valid-dsn", wantErr: "parse dsn"},
		{name: "unreachable", dsn: "postgres://u:p@127.0.0.1:65000/db?sslmode=disable", wantErr: "ping"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			pool, err := repository.NewPool(ctx, tt.dsn)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				require.Nil(t, pool)
				return
			}
			require.NoError(t, err)
			t.Cleanup(pool.Close)

			var app string
			require.NoError(t, pool.QueryRow(ctx, `SHOW application_name`).Scan(&app))
			require.Equal(t, "service-cleaning-booking", app)
		})
	}
}

func TestMigrate_ConcurrentRunsSucceed(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var g errgroup.Group
	for range 3 {
		g.Go(func() error { return repository.Migrate(ctx, tcPool) })
	}
	require.NoError(t, g.Wait())
}
