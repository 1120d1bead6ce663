package middleware

import (
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/gac-shell/api/transport"
	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/pkg/httpcontext"
	"github.com/fastygo/gac-shell/pkg/token"
)

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// JWTAuth rejects requests without a valid console token.
func JWTAuth(signer *token.Signer, cookie string, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			if !authenticate(ctx, signer, cookie, logger) {
				unauthorized(ctx)
				return
			}
			next(ctx)
		}
	}
}

// OptionalJWT records the caller when a valid token is present and lets every request
// through. Console pages use it so an anonymous visitor still gets the shell.
func OptionalJWT(signer *token.Signer, cookie string, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			authenticate(ctx, signer, cookie, logger)
			next(ctx)
		}
	}
}

func authenticate(ctx *fasthttp.RequestCtx, signer *token.Signer, cookie string, logger *zap.Logger) bool {
	raw := extractToken(ctx, cookie)
	if raw == "" {
		return false
	}
	claims, err := signer.Parse(raw)
	if err != nil {
		logger.Warn("invalid jwt token", zap.Error(err))
		return false
	}
	httpcontext.SetIdentity(ctx, httpcontext.Identity{
		UserID:    claims.UserID,
		SessionID: claims.SessionID,
	})
	return true
}

func extractToken(ctx *fasthttp.RequestCtx, cookie string) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookie != "" {
		return string(ctx.Request.Header.Cookie(cookie))
	}
	return ""
}

func unauthorized(ctx *fasthttp.RequestCtx) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusUnauthorized)
	ctx.SetBodyString(transport.NewError(string(domain.ErrCodeUnauthorized), "unauthorized", nil).String())
}
