package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/corpdesk/corpdesk/internal/models"
	"github.com/corpdesk/corpdesk/internal/sessions"
	"github.com/corpdesk/corpdesk/internal/tokens"
	"github.com/corpdesk/corpdesk/internal/users"
	"github.com/corpdesk/corpdesk/pkg/logger"
	"github.com/corpdesk/corpdesk/pkg/metrics"
)

// invalidRefreshMsg covers unknown, expired, and already-revoked refresh
// tokens alike, so responses do not reveal whether a session ever existed.
const invalidRefreshMsg = "Invalid refresh token"

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type registerRequest struct {
	Username  string `json:"username" binding:"required"`
	Email     string `json:"email" binding:"required"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type validateRequest struct {
	Token string `json:"token" binding:"required"`
}

type logoutAllRequest struct {
	UserID string `json:"userId" binding:"required"`
}

// authResponse is the shared success shape of login, register, and refresh.
type authResponse struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	TokenType    string   `json:"tokenType"`
	UserID       string   `json:"userId"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Roles        []string `json:"roles"`
}

type sessionView struct {
	Token      string    `json:"token"`
	DeviceInfo string    `json:"deviceInfo"`
	CreatedAt  time.Time `json:"createdAt"`
	LastUsed   time.Time `json:"lastUsed"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	usersSvc    *users.Service
	sessionsSvc *sessions.Service
	issuer      *tokens.Issuer
}

func NewAuthHandler(u *users.Service, s *sessions.Service, issuer *tokens.Issuer) *AuthHandler {
	return &AuthHandler{usersSvc: u, sessionsSvc: s, issuer: issuer}
}

// Register routes on the auth surface
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
	rg.POST("/register", h.RegisterUser)
	rg.POST("/refresh", h.Refresh)
	rg.POST("/validate", h.Validate)
	rg.POST("/logout", h.Logout)
	rg.POST("/logout-all", h.LogoutAll)
	rg.GET("/sessions/:userId", h.Sessions)
}

// deviceInfo derives a free-text device description from request metadata.
func deviceInfo(c *gin.Context) string {
	ua := c.Request.UserAgent()
	if ua == "" {
		ua = "unknown"
	}
	return ua + " (" + c.ClientIP() + ")"
}

func (h *AuthHandler) issuePair(c *gin.Context, u *models.User) {
	access, err := h.issuer.Mint(u.ID, u.Username, u.Email, u.Roles)
	if err != nil {
		logger.Errorf("auth: minting access token failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	refresh, err := h.sessionsSvc.Create(c.Request.Context(), u.ID, u.Username, deviceInfo(c))
	if err != nil {
		logger.Errorf("auth: creating session failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, authResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		UserID:       u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Roles:        u.Roles,
	})
}

// Login authenticates username + password and issues a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.usersSvc.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, users.ErrInvalidCredentials) {
			metrics.LoginAttempts.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Errorf("auth: login lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "login failed"})
		return
	}
	metrics.LoginAttempts.WithLabelValues("accepted").Inc()
	h.issuePair(c, u)
}

// RegisterUser creates a new identity and issues a token pair.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	u, err := h.usersSvc.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrUsernameTaken),
			errors.Is(err, users.ErrEmailTaken),
			errors.Is(err, users.ErrMissingField):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Errorf("auth: register failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "registration failed"})
		}
		return
	}
	h.issuePair(c, u)
}

// Refresh rotates the presented refresh token and returns a fresh pair. The
// old token is invalidated in the same atomic step that issues its successor.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	old, newID, err := h.sessionsSvc.Rotate(c.Request.Context(), req.RefreshToken, deviceInfo(c))
	if err != nil {
		if errors.Is(err, sessions.ErrNotFound) {
			metrics.SessionRotations.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusBadRequest, gin.H{"error": invalidRefreshMsg})
			return
		}
		logger.Errorf("auth: refresh rotation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	u, err := h.usersSvc.GetByID(c.Request.Context(), old.UserID)
	if err != nil || u == nil {
		logger.Errorf("auth: user lookup for refresh failed (user %s): %v", old.UserID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "refresh failed"})
		return
	}
	access, err := h.issuer.Mint(u.ID, u.Username, u.Email, u.Roles)
	if err != nil {
		logger.Errorf("auth: minting access token failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create access token"})
		return
	}
	metrics.SessionRotations.WithLabelValues("rotated").Inc()
	c.JSON(http.StatusOK, authResponse{
		AccessToken:  access,
		RefreshToken: newID,
		TokenType:    "Bearer",
		UserID:       u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Roles:        u.Roles,
	})
}

// Validate checks an access token without side effects.
func (h *AuthHandler) Validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}
	claims, err := h.issuer.Verify(req.Token)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"valid": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": true, "username": claims.Username, "roles": claims.Roles})
}

// Logout revokes the presented refresh token. The paired access token stays
// valid until natural expiry; only refresh tokens are revocable.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	existed, err := h.sessionsSvc.Revoke(c.Request.Context(), req.RefreshToken)
	if err != nil {
		logger.Errorf("auth: logout failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	if !existed {
		c.JSON(http.StatusBadRequest, gin.H{"error": invalidRefreshMsg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// LogoutAll revokes every session of the user (logout from all devices).
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	var req logoutAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	count, err := h.sessionsSvc.RevokeAll(c.Request.Context(), req.UserID)
	if err != nil {
		logger.Errorf("auth: logout-all failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	logger.Infof("auth: revoked %d sessions for user %s", count, req.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "logged out from all devices"})
}

// Sessions enumerates the user's active refresh sessions.
func (h *AuthHandler) Sessions(c *gin.Context) {
	userID := c.Param("userId")
	list, err := h.sessionsSvc.ListActive(c.Request.Context(), userID)
	if err != nil {
		logger.Errorf("auth: session listing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "session listing failed"})
		return
	}
	views := make([]sessionView, 0, len(list))
	for _, s := range list {
		views = append(views, sessionView{
			Token:      s.ID,
			DeviceInfo: s.DeviceInfo,
			CreatedAt:  s.CreatedAt,
			LastUsed:   s.LastUsedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": views})
}
