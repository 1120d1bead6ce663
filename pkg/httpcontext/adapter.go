package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/gac-shell/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"

	keyIdentity Key = "identity"
)

// Identity is the authenticated caller as established by the token middleware.
type Identity struct {
	UserID    string
	SessionID string
}

func (i Identity) IsZero() bool {
	return i.UserID == "" && i.SessionID == ""
}

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
}

// NewAdapter constructs a new Adapter using the provided timeout.
func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{
		timeout: timeout,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with
// request metadata and the caller identity, when one was set.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := getRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	if id, ok := IdentityFromRequest(ctx); ok {
		stdCtx = WithIdentity(stdCtx, id)
	}

	return stdCtx, cancel
}

// SetIdentity records the caller on the fasthttp request.
func SetIdentity(ctx *fasthttp.RequestCtx, id Identity) {
	ctx.SetUserValue(string(keyIdentity), id)
}

// IdentityFromRequest returns the identity recorded by SetIdentity.
func IdentityFromRequest(ctx *fasthttp.RequestCtx) (Identity, bool) {
	if ctx == nil {
		return Identity{}, false
	}
	id, ok := ctx.UserValue(string(keyIdentity)).(Identity)
	return id, ok && !id.IsZero()
}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, keyIdentity, id)
}

// IdentityFrom returns the identity carried by ctx, or the zero Identity.
func IdentityFrom(ctx context.Context) Identity {
	if ctx == nil {
		return Identity{}
	}
	id, _ := ctx.Value(keyIdentity).(Identity)
	return id
}

func getRequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID"))); header != "" {
		return header
	}
	return uuid.NewString()
}
