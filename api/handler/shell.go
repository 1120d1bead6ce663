package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/gac-shell/api/view"
	"github.com/fastygo/gac-shell/internal/metrics"
	"github.com/fastygo/gac-shell/pkg/httpcontext"
	"github.com/fastygo/gac-shell/pkg/routes"
	"github.com/fastygo/gac-shell/usecase/shell"
)

// ShellHandler serves console pages inside the shell. Each request gets its own
// shell which is given up to the render budget to resolve the session and the
// work order list before it is rendered with whatever it has.
type ShellHandler struct {
	baseHandler
	factory *shell.Factory
	budget  time.Duration
}

func NewShellHandler(factory *shell.Factory, adapter *httpcontext.Adapter, logger *zap.Logger, budget time.Duration) *ShellHandler {
	return &ShellHandler{
		baseHandler: newBaseHandler(adapter, logger),
		factory:     factory,
		budget:      budget,
	}
}

// @Summary Console page
// @Tags shell
// @Router /{page} [get]
func (h *ShellHandler) Page(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state := h.compose(stdCtx, path, sidebarOpen(ctx.QueryArgs()))

	title := routes.PageName(path)
	if entry, ok := state.ActiveEntry(); ok {
		title = entry.Title
	}

	loc := view.Printer()
	page := view.Document(loc, title, view.Layout(state, routes.PageName(path), view.Placeholder(loc, title)))

	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetStatusCode(http.StatusOK)
	if err := page.Render(stdCtx, ctx); err != nil {
		h.log(stdCtx).Error("shell render failed", zap.String("path", path), zap.Error(err))
		ctx.ResetBody()
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}
	metrics.ShellRenders.WithLabelValues("html").Inc()
}

// @Summary Composed shell state
// @Tags shell
// @Router /api/v1/shell [get]
func (h *ShellHandler) State(ctx *fasthttp.RequestCtx) {
	args := ctx.QueryArgs()
	path := string(args.Peek("path"))
	if path == "" {
		h.respondInvalid(ctx, "missing path")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	state := h.compose(stdCtx, path, sidebarOpen(args))
	metrics.ShellRenders.WithLabelValues("json").Inc()
	h.respondSuccess(ctx, http.StatusOK, state)
}

// Index sends visitors to the first console page.
func (h *ShellHandler) Index(ctx *fasthttp.RequestCtx) {
	catalog := h.factory.Catalog()
	if catalog.Len() == 0 {
		ctx.SetStatusCode(http.StatusNotFound)
		return
	}
	ctx.Redirect(catalog.At(0).Route, http.StatusFound)
}

func (h *ShellHandler) compose(ctx context.Context, path string, open bool) shell.State {
	sh := h.factory.New(path)
	if open {
		sh.ToggleCollapsed()
	}

	sh.Mount(ctx)
	defer sh.Unmount()

	if h.budget > 0 {
		budgetCtx, cancel := context.WithTimeout(ctx, h.budget)
		settled := sh.Settle(budgetCtx)
		cancel()
		if !settled {
			h.log(ctx).Debug("shell rendered before settling",
				zap.String("path", path),
				zap.Stringer("session", sh.SessionPhase()),
				zap.Stringer("work_orders", sh.EntitiesPhase()),
			)
		}
	}

	metrics.ShellSignalSettled.WithLabelValues("session", sh.SessionPhase().String()).Inc()
	metrics.ShellSignalSettled.WithLabelValues("work_orders", sh.EntitiesPhase().String()).Inc()
	return sh.State()
}

func sidebarOpen(args *fasthttp.Args) bool {
	return string(args.Peek(view.SidebarParam)) == view.SidebarOpen
}
