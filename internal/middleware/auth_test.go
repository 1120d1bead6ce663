package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/gac-shell/pkg/httpcontext"
	"github.com/fastygo/gac-shell/pkg/token"
)

func capture(seen *httpcontext.Identity, called *bool) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		*called = true
		*seen, _ = httpcontext.IdentityFromRequest(ctx)
	}
}

func signed(t *testing.T, s *token.Signer) string {
	t.Helper()
	raw, err := s.Sign("u1", "s1", time.Now().Add(time.Hour))
	require.NoError(t, err)
	return raw
}

func TestJWTAuthAcceptsBearer(t *testing.T) {
	s := token.NewSigner("secret", "gac")
	var seen httpcontext.Identity
	var called bool

	var rc fasthttp.RequestCtx
	rc.Request.Header.Set("Authorization", "Bearer "+signed(t, s))
	JWTAuth(s, "gac_token", nil)(capture(&seen, &called))(&rc)

	assert.True(t, called)
	assert.Equal(t, httpcontext.Identity{UserID: "u1", SessionID: "s1"}, seen)
}

func TestJWTAuthAcceptsCookie(t *testing.T) {
	s := token.NewSigner("secret", "gac")
	var seen httpcontext.Identity
	var called bool

	var rc fasthttp.RequestCtx
	rc.Request.Header.SetCookie("gac_token", signed(t, s))
	JWTAuth(s, "gac_token", nil)(capture(&seen, &called))(&rc)

	assert.True(t, called)
	assert.Equal(t, "s1", seen.SessionID)
}

func TestJWTAuthRejects(t *testing.T) {
	s := token.NewSigner("secret", "gac")
	var seen httpcontext.Identity
	var called bool

	var rc fasthttp.RequestCtx
	JWTAuth(s, "gac_token", nil)(capture(&seen, &called))(&rc)
	assert.False(t, called)
	assert.Equal(t, fasthttp.StatusUnauthorized, rc.Response.StatusCode())
	assert.Contains(t, string(rc.Response.Body()), "UNAUTHORIZED")

	var forged fasthttp.RequestCtx
	forged.Request.Header.Set("Authorization", "Bearer "+signed(t, token.NewSigner("other", "gac")))
	JWTAuth(s, "gac_token", nil)(capture(&seen, &called))(&forged)
	assert.False(t, called)
}

func TestOptionalJWTPassesAnonymous(t *testing.T) {
	s := token.NewSigner("secret", "gac")
	var seen httpcontext.Identity
	var called bool

	var rc fasthttp.RequestCtx
	rc.Request.Header.Set("Authorization", "Bearer not-a-token")
	OptionalJWT(s, "gac_token", nil)(capture(&seen, &called))(&rc)

	assert.True(t, called)
	assert.True(t, seen.IsZero())
	assert.Equal(t, fasthttp.StatusOK, rc.Response.StatusCode())
}
