package handler

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/usecase/shell"
)

type stubAuth struct {
	user *domain.User
	err  error
}

func (s stubAuth) Me(context.Context) (*domain.User, error) { return s.user, s.err }

type stubQuery struct {
	orders []domain.WorkOrder
	err    error
	block  chan struct{}
}

func (s stubQuery) List(ctx context.Context) ([]domain.WorkOrder, error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.orders, s.err
}

func get(uri string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI(uri)
	return &ctx
}

func newShellHandler(auth shell.Authenticator, query shell.WorkOrderQuery, budget time.Duration) *ShellHandler {
	factory := shell.NewFactory(shell.DefaultCatalog(nil), auth, query)
	return NewShellHandler(factory, nil, nil, budget)
}

func TestShellPageRendersResolvedState(t *testing.T) {
	h := newShellHandler(
		stubAuth{user: &domain.User{FullName: "Ana Souza", Email: "ana@gac.local"}},
		stubQuery{orders: []domain.WorkOrder{
			{ID: "1", Status: domain.StatusPendente},
			{ID: "2", Status: domain.StatusEmAndamento},
			{ID: "3", Status: domain.StatusConcluida},
		}},
		time.Second,
	)

	ctx := get("/OrdensServico")
	h.Page(ctx)

	body := string(ctx.Response.Body())
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Header.ContentType()), "text/html")
	assert.Contains(t, body, "<title>Ordens de Serviço | GAC - Gestão de Ativos</title>")
	assert.Contains(t, body, "2 OS Pendentes")
	assert.Contains(t, body, "Ana Souza")
	assert.Contains(t, body, `<a href="/OrdensServico" class="nav-item active" aria-current="page">`)
}

func TestShellPageDegradesSilently(t *testing.T) {
	h := newShellHandler(
		stubAuth{err: domain.ErrUnauthorized},
		stubQuery{err: errors.New("db down")},
		time.Second,
	)

	ctx := get("/Ativos")
	h.Page(ctx)

	body := string(ctx.Response.Body())
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, body, "Usuário")
	assert.Contains(t, body, "Sistema GAC")
	assert.NotContains(t, body, "Pendentes")
}

func TestShellPageRendersWithinBudget(t *testing.T) {
	block := make(chan struct{})
	defer close(block)
	h := newShellHandler(stubAuth{}, stubQuery{block: block}, 20*time.Millisecond)

	start := time.Now()
	ctx := get("/Dashboard")
	h.Page(ctx)

	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.NotContains(t, string(ctx.Response.Body()), "pending-badge")
}

func TestShellPageSidebarTrigger(t *testing.T) {
	h := newShellHandler(nil, nil, 0)

	closed := get("/Dashboard")
	h.Page(closed)
	assert.Contains(t, string(closed.Response.Body()), `data-collapsed="true"`)

	open := get("/Dashboard?sidebar=open")
	h.Page(open)
	assert.Contains(t, string(open.Response.Body()), `data-collapsed="false"`)
}

func TestShellStateJSON(t *testing.T) {
	h := newShellHandler(nil, stubQuery{orders: []domain.WorkOrder{{ID: "1", Status: domain.StatusPendente}}}, time.Second)

	ctx := get("/api/v1/shell?path=/Inventario")
	h.State(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var envelope struct {
		Status string      `json:"status"`
		Data   shell.State `json:"data"`
	}
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &envelope))
	assert.Equal(t, "success", envelope.Status)
	assert.Equal(t, "/Inventario", envelope.Data.ActiveRoute)
	assert.Equal(t, 1, envelope.Data.PendingCount)
	assert.True(t, envelope.Data.Collapsed)
	assert.Equal(t, domain.DefaultDisplayName, envelope.Data.User.FullName)
	require.Len(t, envelope.Data.Menu, 9)
	assert.True(t, envelope.Data.Menu[5].Active)
}

func TestShellStateRequiresPath(t *testing.T) {
	h := newShellHandler(nil, nil, 0)
	ctx := get("/api/v1/shell")
	h.State(ctx)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}
