package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/corpdesk/corpdesk/internal/authz"
	"github.com/corpdesk/corpdesk/internal/directory"
	"github.com/corpdesk/corpdesk/internal/directory/repository"
	"github.com/corpdesk/corpdesk/pkg/logger"
	"github.com/corpdesk/corpdesk/pkg/middleware"
)

// Handler serves the management/ownership views of the employee directory.
type Handler struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Handler {
	return &Handler{repo: repo}
}

// Register wires the directory routes. All of them require an authenticated
// identity; the trust filter must already be installed on the engine.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/team", middleware.RequireAuth(), h.Team)
	rg.GET("/employees/:id/access", middleware.RequireAuth(), h.AccessLevel)
}

// Team lists every employee the caller manages, through either the direct
// report edge or a department headship, each counted once.
func (h *Handler) Team(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)

	g, err := h.repo.Snapshot(c.Request.Context())
	if err != nil {
		logger.Errorf("directory: snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "directory unavailable"})
		return
	}
	managed := authz.AllManagedEmployees(g, id.UserID)

	team := make([]directory.Employee, 0, len(managed))
	for userID := range managed {
		e, err := h.repo.Get(c.Request.Context(), userID)
		if err != nil {
			logger.Errorf("directory: load employee %s: %v", userID, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "directory unavailable"})
			return
		}
		if e != nil {
			team = append(team, *e)
		}
	}
	c.JSON(http.StatusOK, gin.H{"team": team})
}

// AccessLevel reports the tier of detail the caller may see about the target:
// FULL for HR, MANAGER for self or managed employees, PUBLIC otherwise.
func (h *Handler) AccessLevel(c *gin.Context) {
	id, _ := middleware.IdentityFrom(c)
	targetID := c.Param("id")

	g, err := h.repo.Snapshot(c.Request.Context())
	if err != nil {
		logger.Errorf("directory: snapshot failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "directory unavailable"})
		return
	}
	level := authz.ResolveAccessLevel(g, id.UserID, targetID, id.HasRole("HR"))
	c.JSON(http.StatusOK, gin.H{"requesterId": id.UserID, "targetId": targetID, "accessLevel": level})
}
