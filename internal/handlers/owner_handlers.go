package handlers

import (
	"net/http"

	"societyhub/internal/common"
	"societyhub/internal/services"

	"github.com/labstack/echo/v4"
)

// OwnerHandlers handles the admin's owner account management
type OwnerHandlers struct {
	ownerService services.OwnerService
}

// NewOwnerHandlers creates a new owner handlers instance
func NewOwnerHandlers(ownerService services.OwnerService) *OwnerHandlers {
	return &OwnerHandlers{ownerService: ownerService}
}

// ListOwnersRequest represents query parameters for listing owners
type ListOwnersRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListOwners handles getting a paginated list of owner accounts
func (h *OwnerHandlers) ListOwners(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListOwnersRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	owners, err := h.ownerService.List(ctx, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"owners": owners,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateOwner provisions a new owner account and emails the credentials
func (h *OwnerHandlers) CreateOwner(c echo.Context) error {
	ctx := c.Request().Context()

	var input services.OwnerInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	owner, err := h.ownerService.Create(ctx, input)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, owner)
}

// GetOwner handles getting owner details by ID
func (h *OwnerHandlers) GetOwner(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, err := common.ValidateUUID(c.Param("id"), "owner ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	owner, err := h.ownerService.GetByID(ctx, ownerID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, owner)
}

// UpdateOwner handles updating an owner's profile fields
func (h *OwnerHandlers) UpdateOwner(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, err := common.ValidateUUID(c.Param("id"), "owner ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var input services.OwnerInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	owner, err := h.ownerService.Update(ctx, ownerID, input)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, owner)
}

// UpdateOwnerStatusRequest represents the activate/deactivate payload
type UpdateOwnerStatusRequest struct {
	Active *bool `json:"active"`
}

// UpdateOwnerStatus activates or deactivates an owner account
func (h *OwnerHandlers) UpdateOwnerStatus(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, err := common.ValidateUUID(c.Param("id"), "owner ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req UpdateOwnerStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.Active == nil {
		return common.SendClientError(c, "active is required")
	}

	if err := h.ownerService.SetActive(ctx, ownerID, *req.Active); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Owner status updated",
		"active":  *req.Active,
	})
}

// DeleteOwner handles deleting an owner account
func (h *OwnerHandlers) DeleteOwner(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, err := common.ValidateUUID(c.Param("id"), "owner ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.ownerService.Delete(ctx, ownerID); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Owner deleted successfully",
	})
}
