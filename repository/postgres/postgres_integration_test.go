//go:build integration

package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fastygo/gac-shell/domain"
	pgInfra "github.com/fastygo/gac-shell/internal/infrastructure/postgres"
	"github.com/fastygo/gac-shell/repository"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("gac"),
		tcpostgres.WithUsername("gac"),
		tcpostgres.WithPassword("gac"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start postgres container: %v\n", err)
		return 1
	}
	defer func() {
		if err := container.Terminate(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "failed to terminate postgres container: %v\n", err)
		}
	}()

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get connection string: %v\n", err)
		return 1
	}
	if err := pgInfra.Migrate(dsn, "../../assets/migrations", nil); err != nil {
		fmt.Fprintf(os.Stderr, "failed to migrate: %v\n", err)
		return 1
	}

	testPool, err = pgxpool.New(ctx, dsn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		return 1
	}
	defer testPool.Close()

	return m.Run()
}

func truncate(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		if _, err := testPool.Exec(context.Background(), "TRUNCATE users, work_orders"); err != nil {
			t.Logf("failed to truncate tables: %v", err)
		}
	})
}

func TestWorkOrderRepositoryLifecycle(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := NewWorkOrderRepository(testPool)

	created, err := repo.Create(ctx, &domain.WorkOrder{ID: "os-1", Title: "Trocar rolamento"})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPendente, created.Status)

	_, err = repo.Create(ctx, &domain.WorkOrder{ID: "os-1", Title: "dup"})
	assert.True(t, domain.IsDomainError(err, domain.ErrCodeConflict))

	_, err = repo.Create(ctx, &domain.WorkOrder{ID: "os-2", Title: "Lubrificar", Status: domain.StatusEmAndamento})
	require.NoError(t, err)

	updated, err := repo.UpdateStatus(ctx, "os-1", domain.StatusConcluida)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConcluida, updated.Status)

	_, err = repo.UpdateStatus(ctx, "missing", domain.StatusConcluida)
	assert.ErrorIs(t, err, domain.ErrWorkOrderNotFound)

	all, err := repo.List(ctx, repository.WorkOrderFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 1, domain.CountPending(all))

	done, err := repo.List(ctx, repository.WorkOrderFilter{Status: domain.StatusConcluida})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, "os-1", done[0].ID)

	require.NoError(t, repo.Delete(ctx, "os-1"))
	assert.ErrorIs(t, repo.Delete(ctx, "os-1"), domain.ErrWorkOrderNotFound)
}

func TestWorkOrderRepositoryEmptyList(t *testing.T) {
	truncate(t)
	orders, err := NewWorkOrderRepository(testPool).List(context.Background(), repository.WorkOrderFilter{})
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestUserRepositoryUpsert(t *testing.T) {
	truncate(t)
	ctx := context.Background()
	repo := NewUserRepository(testPool)

	require.NoError(t, repo.Upsert(ctx, &domain.User{ID: "ana", FullName: "Ana", Role: "gestor", Status: "active"}))
	require.NoError(t, repo.Upsert(ctx, &domain.User{ID: "ana", FullName: "Ana Souza", Email: "ana@gac.local", Role: "gestor", Status: "active"}))

	user, err := repo.GetByID(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", user.FullName)
	assert.Equal(t, "ana@gac.local", user.Email)

	_, err = repo.GetByID(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}
