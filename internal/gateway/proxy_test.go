package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/corpdesk/corpdesk/internal/tokens"
	"github.com/corpdesk/corpdesk/pkg/middleware"
)

func newGatewayRouter(t *testing.T, issuer *tokens.Issuer, upstream string) *gin.Engine {
	t.Helper()
	g := New(issuer)
	r := gin.New()
	r.Any("/api/*path", g.Authenticate(), g.Proxy(upstream))
	return r
}

// captureUpstream records the headers of the forwarded request.
func captureUpstream(t *testing.T, got *http.Header) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGateway_RejectsMissingHeader(t *testing.T) {
	issuer := tokens.NewIssuer("gateway-test-secret-32-bytes-aaaa", time.Minute)
	var got http.Header
	srv := captureUpstream(t, &got)
	r := newGatewayRouter(t, issuer, srv.URL)

	req := httptest.NewRequest("GET", "/api/thing", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "error")
	require.Equal(t, float64(401), body["status"])
}

func TestGateway_RejectsNonBearer(t *testing.T) {
	issuer := tokens.NewIssuer("gateway-test-secret-32-bytes-aaaa", time.Minute)
	var got http.Header
	srv := captureUpstream(t, &got)
	r := newGatewayRouter(t, issuer, srv.URL)

	req := httptest.NewRequest("GET", "/api/thing", nil)
	req.Header.Set("Authorization", "Basic dXNlcjpwdw==")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGateway_RejectsExpiredToken(t *testing.T) {
	expired := tokens.NewIssuer("gateway-test-secret-32-bytes-aaaa", -time.Minute)
	raw, err := expired.Mint("u-1", "john.doe", "john@example.com", nil)
	require.NoError(t, err)

	issuer := tokens.NewIssuer("gateway-test-secret-32-bytes-aaaa", time.Minute)
	var got http.Header
	srv := captureUpstream(t, &got)
	r := newGatewayRouter(t, issuer, srv.URL)

	req := httptest.NewRequest("GET", "/api/thing", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Contains(t, body, "error")
	require.Equal(t, float64(401), body["status"])
}

func TestGateway_ForwardsTrustHeaders(t *testing.T) {
	issuer := tokens.NewIssuer("gateway-test-secret-32-bytes-aaaa", time.Minute)
	raw, err := issuer.Mint("u-1", "john.doe", "john@example.com", []string{"USER", "HR"})
	require.NoError(t, err)

	var got http.Header
	srv := captureUpstream(t, &got)
	r := newGatewayRouter(t, issuer, srv.URL)

	// ReverseProxy needs a cancelable request context; httptest.ResponseRecorder
	// does not implement http.CloseNotifier.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest("GET", "/api/thing", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+raw)
	// spoofed inbound trust header must be replaced with verified claims
	req.Header.Set(middleware.HeaderUserID, "attacker")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "u-1", got.Get(middleware.HeaderUserID))
	require.Equal(t, "john.doe", got.Get(middleware.HeaderUsername))
	require.Equal(t, "john@example.com", got.Get(middleware.HeaderUserEmail))
	require.Equal(t, "USER,HR", got.Get(middleware.HeaderUserRoles))
	// the cryptographic proof is consumed at the edge
	require.Empty(t, got.Get("Authorization"))
}

func TestGateway_EmptyRolesForwardEmptyHeader(t *testing.T) {
	issuer := tokens.NewIssuer("gateway-test-secret-32-bytes-aaaa", time.Minute)
	raw, err := issuer.Mint("u-1", "john.doe", "john@example.com", nil)
	require.NoError(t, err)

	var got http.Header
	srv := captureUpstream(t, &got)
	r := newGatewayRouter(t, issuer, srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req := httptest.NewRequest("GET", "/api/thing", nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	vals, present := got[http.CanonicalHeaderKey(middleware.HeaderUserRoles)]
	require.True(t, present)
	require.Equal(t, []string{""}, vals)
}
