package httpcontext

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/gac-shell/pkg/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestAttachCarriesRequestMetadata(t *testing.T) {
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set("X-Request-ID", "req-1")
	rc.Request.Header.SetUserAgent("probe/1.0")
	SetIdentity(&rc, Identity{UserID: "u1", SessionID: "s1"})

	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()

	assert.Equal(t, "req-1", string(rc.Response.Header.Peek("X-Request-ID")))
	assert.Equal(t, "probe/1.0", ctx.Value(KeyUserAgent))
	assert.Equal(t, Identity{UserID: "u1", SessionID: "s1"}, IdentityFrom(ctx))

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, 100*time.Millisecond)

	core, logs := observer.New(zap.InfoLevel)
	appLogger.WithRequestID(ctx, zap.New(core)).Info("hello")
	assert.Equal(t, "req-1", logs.All()[0].ContextMap()["request_id"])
}

func TestAttachGeneratesRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	ctx, cancel := NewAdapter(0).Attach(&rc)
	defer cancel()

	assert.NotEmpty(t, string(rc.Response.Header.Peek("X-Request-ID")))
	assert.True(t, IdentityFrom(ctx).IsZero())
}
