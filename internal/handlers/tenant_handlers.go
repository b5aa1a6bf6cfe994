package handlers

import (
	"net/http"

	"societyhub/internal/common"
	"societyhub/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers handles an owner's tenant and tenancy management. Every
// operation is scoped to the calling owner; the service rejects tenancies
// that belong to another owner's flats.
type TenantHandlers struct {
	tenancyService services.TenancyService
}

// NewTenantHandlers creates a new tenant handlers instance
func NewTenantHandlers(tenancyService services.TenancyService) *TenantHandlers {
	return &TenantHandlers{tenancyService: tenancyService}
}

// ListTenantsRequest represents query parameters for listing tenancies
type ListTenantsRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListTenants lists the calling owner's tenancies with tenant and flat details
func (h *TenantHandlers) ListTenants(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListTenantsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	tenancies, err := h.tenancyService.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tenancies": tenancies,
		"limit":     limit,
		"offset":    offset,
	})
}

// CreateTenant provisions a tenant account and its tenancy in one of the
// caller's flats, then emails the generated credentials
func (h *TenantHandlers) CreateTenant(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var input services.TenancyInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	summary, err := h.tenancyService.Create(ctx, ownerID, input)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, summary)
}

// GetTenant handles getting one of the caller's tenancies by ID
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	summary, err := h.tenancyService.GetByID(ctx, ownerID, tenancyID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// UpdateTenant updates the rent or dates of one of the caller's tenancies
func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var input services.TenancyUpdateInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	tenancy, err := h.tenancyService.Update(ctx, ownerID, tenancyID, input)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, tenancy)
}

// UpdateTenantStatusRequest represents the activate/deactivate payload
type UpdateTenantStatusRequest struct {
	Active *bool `json:"active"`
}

// UpdateTenantStatus activates or deactivates a tenancy together with the
// tenant's login
func (h *TenantHandlers) UpdateTenantStatus(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req UpdateTenantStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.Active == nil {
		return common.SendClientError(c, "active is required")
	}

	if err := h.tenancyService.SetActive(ctx, ownerID, tenancyID, *req.Active); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Tenant status updated",
		"active":  *req.Active,
	})
}

// DeleteTenant removes a tenancy and its tenant account
func (h *TenantHandlers) DeleteTenant(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	tenancyID, err := common.ValidateUUID(c.Param("id"), "tenancy ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.tenancyService.Delete(ctx, ownerID, tenancyID); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Tenant deleted successfully",
	})
}
