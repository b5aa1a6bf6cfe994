package handlers

import (
	"errors"
	"net/http"

	"societyhub/internal/common"
	"societyhub/internal/models"
	"societyhub/internal/repositories"
	"societyhub/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// FlatHandlers handles flat-related HTTP requests for all three roles:
// admin CRUD, the owner's flat listing, and the tenant's residence view.
type FlatHandlers struct {
	flatService      services.FlatService
	tenancyRepo      repositories.TenancyRepository
	dashboardService services.DashboardService
}

// NewFlatHandlers creates a new flat handlers instance
func NewFlatHandlers(flatService services.FlatService, tenancyRepo repositories.TenancyRepository, dashboardService services.DashboardService) *FlatHandlers {
	return &FlatHandlers{
		flatService:      flatService,
		tenancyRepo:      tenancyRepo,
		dashboardService: dashboardService,
	}
}

// ListFlatsRequest represents query parameters for listing flats
type ListFlatsRequest struct {
	SocietyID string `query:"society_id"`
	Limit     int    `query:"limit"`
	Offset    int    `query:"offset"`
}

// ListFlats handles getting a paginated list of flats, optionally scoped
// to a single society
func (h *FlatHandlers) ListFlats(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListFlatsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var flats []*models.Flat
	if req.SocietyID != "" {
		societyID, err := common.ValidateUUID(req.SocietyID, "society ID")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		flats, err = h.flatService.ListBySociety(ctx, societyID, limit, offset)
		if err != nil {
			return common.RespondError(c, err)
		}
	} else {
		flats, err = h.flatService.List(ctx, limit, offset)
		if err != nil {
			return common.RespondError(c, err)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"flats":  flats,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateFlatRequest represents the flat creation request payload
type CreateFlatRequest struct {
	SocietyID uuid.UUID  `json:"society_id" validate:"required"`
	Number    string     `json:"number" validate:"required"`
	OwnerID   *uuid.UUID `json:"owner_id"`
}

// CreateFlat handles creating a new flat inside a society
func (h *FlatHandlers) CreateFlat(c echo.Context) error {
	ctx := c.Request().Context()

	var req CreateFlatRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.SocietyID == uuid.Nil {
		return common.SendClientError(c, "society_id is required")
	}

	flat := &models.Flat{
		SocietyID: req.SocietyID,
		Number:    req.Number,
		OwnerID:   req.OwnerID,
	}

	if err := h.flatService.Create(ctx, flat); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, flat)
}

// GetFlat handles getting flat details by ID
func (h *FlatHandlers) GetFlat(c echo.Context) error {
	ctx := c.Request().Context()

	flatID, err := common.ValidateUUID(c.Param("id"), "flat ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	flat, err := h.flatService.GetByID(ctx, flatID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, flat)
}

// UpdateFlatRequest represents the flat update request payload. ClearOwner
// unassigns the current owner; it wins over OwnerID when both are sent.
type UpdateFlatRequest struct {
	SocietyID  *uuid.UUID `json:"society_id"`
	Number     *string    `json:"number"`
	OwnerID    *uuid.UUID `json:"owner_id"`
	ClearOwner bool       `json:"clear_owner"`
}

// UpdateFlat handles updating flat details and owner assignment
func (h *FlatHandlers) UpdateFlat(c echo.Context) error {
	ctx := c.Request().Context()

	flatID, err := common.ValidateUUID(c.Param("id"), "flat ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req UpdateFlatRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	flat, err := h.flatService.GetByID(ctx, flatID)
	if err != nil {
		return common.RespondError(c, err)
	}

	if req.SocietyID != nil {
		flat.SocietyID = *req.SocietyID
	}
	if req.Number != nil {
		flat.Number = *req.Number
	}
	if req.ClearOwner {
		flat.OwnerID = nil
	} else if req.OwnerID != nil {
		flat.OwnerID = req.OwnerID
	}

	if err := h.flatService.Update(ctx, flat); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, flat)
}

// DeleteFlat handles deleting a flat with no tenancies or bills
func (h *FlatHandlers) DeleteFlat(c echo.Context) error {
	ctx := c.Request().Context()

	flatID, err := common.ValidateUUID(c.Param("id"), "flat ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.flatService.Delete(ctx, flatID); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Flat deleted successfully",
	})
}

// OwnerFlatView pairs a flat with its active tenancy, nil when vacant
type OwnerFlatView struct {
	Flat          *models.Flat    `json:"flat"`
	ActiveTenancy *models.Tenancy `json:"active_tenancy"`
}

// ListOwnerFlats lists the calling owner's flats with their active tenancies
func (h *FlatHandlers) ListOwnerFlats(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	flats, err := h.flatService.ListByOwner(ctx, ownerID)
	if err != nil {
		return common.RespondError(c, err)
	}

	views := make([]*OwnerFlatView, 0, len(flats))
	for _, flat := range flats {
		view := &OwnerFlatView{Flat: flat}
		tenancy, err := h.tenancyRepo.GetActiveByFlat(ctx, flat.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return common.SendServerError(c, "Failed to load tenancies")
		}
		if tenancy != nil {
			view.ActiveTenancy = tenancy
		}
		views = append(views, view)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"flats": views,
	})
}

// GetTenantFlat shows the calling tenant their residence: the tenancy, the
// flat, its society, and the owner's contact details
func (h *FlatHandlers) GetTenantFlat(c echo.Context) error {
	ctx := c.Request().Context()

	tenantID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	home, err := h.dashboardService.TenantDashboard(ctx, tenantID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"tenancy": home.Tenancy,
		"flat":    home.Flat,
		"society": home.Society,
		"owner":   home.Owner,
	})
}
