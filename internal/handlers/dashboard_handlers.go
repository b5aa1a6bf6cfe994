package handlers

import (
	"log"
	"net/http"

	"societyhub/internal/common"
	"societyhub/internal/models"
	"societyhub/internal/services"

	"github.com/labstack/echo/v4"
)

// DashboardHandlers serves the role-specific home views
type DashboardHandlers struct {
	dashboardService services.DashboardService
}

// NewDashboardHandlers creates a new dashboard handlers instance
func NewDashboardHandlers(dashboardService services.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

// GetDashboard routes the caller to the dashboard for their role. The switch
// is exhaustive over the Role enum; an unknown role means a corrupted token
// or user row and is treated as a server error, never a silent fallback.
func (h *DashboardHandlers) GetDashboard(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	role, ok := common.GetRoleFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	switch role {
	case models.RoleAdmin:
		snapshot, err := h.dashboardService.AdminDashboard(ctx)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"role":      role,
			"dashboard": snapshot,
		})
	case models.RoleOwner:
		snapshot, err := h.dashboardService.OwnerDashboard(ctx, userID)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"role":      role,
			"dashboard": snapshot,
		})
	case models.RoleTenant:
		home, err := h.dashboardService.TenantDashboard(ctx, userID)
		if err != nil {
			return common.RespondError(c, err)
		}
		return c.JSON(http.StatusOK, map[string]interface{}{
			"role":      role,
			"dashboard": home,
		})
	default:
		log.Printf("ERROR: user %s carries unknown role %q", userID, role)
		return common.SendServerError(c, "Unknown account role")
	}
}
