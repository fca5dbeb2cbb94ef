package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/lychee-technology/rowgroup"
)

// TestFromPostgres_AgainstRealContainer exercises FromPostgres against an
// actual Postgres instance, the same testcontainers-go-driven setup the
// original module's internal/e2e_harness used for its Postgres-backed E2E
// suite. It needs a Docker daemon, so it is skipped when -short is passed
// or when the container cannot be started.
func TestFromPostgres_AgainstRealContainer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed test in -short mode")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_PASSWORD": "password",
			"POSTGRES_USER":     "postgres",
			"POSTGRES_DB":       "postgres",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Skipf("docker unavailable, skipping: %v", err)
	}
	defer container.Terminate(ctx)

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mapped, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://postgres:password@%s:%s/postgres?sslmode=disable", host, mapped.Port())
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(ctx, `CREATE TABLE metrics (time BIGINT, region TEXT, counter DOUBLE PRECISION)`)
	require.NoError(t, err)
	_, err = pool.Exec(ctx, `INSERT INTO metrics VALUES (1, 'west', 100), (2, 'east', 200)`)
	require.NoError(t, err)

	schema := map[string]ColumnSchema{
		"time":    {Role: rowgroup.ColumnRoleTime},
		"region":  {Role: rowgroup.ColumnRoleTag},
		"counter": {Role: rowgroup.ColumnRoleField, Numeric: true},
	}
	group, err := FromPostgres(ctx, pool, "metrics", schema, rowgroup.DefaultEngineConfig())
	require.NoError(t, err)
	require.Equal(t, 2, group.Rows())
}
