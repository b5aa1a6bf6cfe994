package handlers

import (
	"net/http"

	"societyhub/internal/common"
	"societyhub/internal/models"
	"societyhub/internal/services"

	"github.com/labstack/echo/v4"
)

// SocietyHandlers handles society-related HTTP requests
type SocietyHandlers struct {
	societyService services.SocietyService
}

// NewSocietyHandlers creates a new society handlers instance
func NewSocietyHandlers(societyService services.SocietyService) *SocietyHandlers {
	return &SocietyHandlers{societyService: societyService}
}

// ListSocietiesRequest represents query parameters for listing societies
type ListSocietiesRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// ListSocieties handles getting a paginated list of societies
func (h *SocietyHandlers) ListSocieties(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListSocietiesRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	societies, err := h.societyService.List(ctx, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"societies": societies,
		"limit":     limit,
		"offset":    offset,
	})
}

// CreateSocietyRequest represents the society creation request payload
type CreateSocietyRequest struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

// CreateSociety handles creating a new society
func (h *SocietyHandlers) CreateSociety(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateSocietyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	society := &models.Society{
		Name:    req.Name,
		Address: req.Address,
	}

	if err := h.societyService.Create(ctx, society); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, society)
}

// GetSociety handles getting society details by ID
func (h *SocietyHandlers) GetSociety(c echo.Context) error {
	ctx := c.Request().Context()

	societyID, err := common.ValidateUUID(c.Param("id"), "society ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	society, err := h.societyService.GetByID(ctx, societyID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, society)
}

// UpdateSocietyRequest represents the society update request payload
type UpdateSocietyRequest struct {
	Name    *string `json:"name"`
	Address *string `json:"address"`
}

// UpdateSociety handles updating society details
func (h *SocietyHandlers) UpdateSociety(c echo.Context) error {
	ctx := c.Request().Context()

	societyID, err := common.ValidateUUID(c.Param("id"), "society ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req UpdateSocietyRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	society, err := h.societyService.GetByID(ctx, societyID)
	if err != nil {
		return common.RespondError(c, err)
	}

	if req.Name != nil {
		society.Name = *req.Name
	}
	if req.Address != nil {
		society.Address = *req.Address
	}

	if err := h.societyService.Update(ctx, society); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, society)
}

// DeleteSociety handles deleting a society without flats
func (h *SocietyHandlers) DeleteSociety(c echo.Context) error {
	ctx := c.Request().Context()

	societyID, err := common.ValidateUUID(c.Param("id"), "society ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.societyService.Delete(ctx, societyID); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Society deleted successfully",
	})
}
