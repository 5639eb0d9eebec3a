package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/corpdesk/corpdesk/internal/tokens"
	"github.com/corpdesk/corpdesk/pkg/logger"
	"github.com/corpdesk/corpdesk/pkg/metrics"
	"github.com/corpdesk/corpdesk/pkg/middleware"
)

// claimsKey is the gin context key carrying verified claims between
// Authenticate and Proxy.
const claimsKey = "gateway_claims"

// Gateway is the edge trust boundary: it verifies the bearer token once and
// converts the proven identity into trust headers for internal services. The
// cryptographic proof is consumed here; nothing downstream re-verifies.
type Gateway struct {
	issuer *tokens.Issuer
}

func New(issuer *tokens.Issuer) *Gateway {
	return &Gateway{issuer: issuer}
}

// Authenticate fails closed: any missing, malformed, expired, or forged token
// is a 401 and the request never reaches an internal service.
func (g *Gateway) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			reject(c, "missing Authorization header")
			return
		}
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || token == "" {
			reject(c, "invalid Authorization header")
			return
		}
		claims, err := g.issuer.Verify(token)
		if err != nil {
			metrics.TokenVerifications.WithLabelValues("rejected").Inc()
			reject(c, err.Error())
			return
		}
		metrics.TokenVerifications.WithLabelValues("verified").Inc()
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func reject(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg, "status": http.StatusUnauthorized})
}

// Proxy forwards the request to target. The Authorization header and any
// inbound copies of the trust headers are always stripped; when Authenticate
// ran earlier on the chain, exactly the four trust headers are injected from
// the verified claims.
func (g *Gateway) Proxy(target string) gin.HandlerFunc {
	u, err := url.Parse(target)
	if err != nil {
		logger.Fatalf("gateway: invalid upstream url %q: %v", target, err)
	}
	proxy := httputil.NewSingleHostReverseProxy(u)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		logger.Errorf("gateway: upstream %s unreachable: %v", u.Host, err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"upstream unavailable","status":502}`))
	}

	return func(c *gin.Context) {
		h := c.Request.Header
		// the proof stops here; clients cannot smuggle trust headers through
		h.Del("Authorization")
		h.Del(middleware.HeaderUserID)
		h.Del(middleware.HeaderUsername)
		h.Del(middleware.HeaderUserEmail)
		h.Del(middleware.HeaderUserRoles)

		if v, ok := c.Get(claimsKey); ok {
			claims := v.(*tokens.Claims)
			h.Set(middleware.HeaderUserID, claims.UserID)
			h.Set(middleware.HeaderUsername, claims.Username)
			h.Set(middleware.HeaderUserEmail, claims.Email)
			h.Set(middleware.HeaderUserRoles, strings.Join(claims.Roles, ","))
		}

		proxy.ServeHTTP(c.Writer, c.Request)
	}
}
