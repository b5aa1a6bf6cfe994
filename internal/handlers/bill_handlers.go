package handlers

import (
	"net/http"

	"societyhub/internal/common"
	"societyhub/internal/models"
	"societyhub/internal/services"

	"github.com/labstack/echo/v4"
)

// BillHandlers handles maintenance bill HTTP requests: the admin's billing
// desk plus the owner-facing listings and receipt downloads.
type BillHandlers struct {
	billingService services.BillingService
}

// NewBillHandlers creates a new bill handlers instance
func NewBillHandlers(billingService services.BillingService) *BillHandlers {
	return &BillHandlers{billingService: billingService}
}

// ListBillsRequest represents query parameters for listing bills
type ListBillsRequest struct {
	Status string `query:"status"`
	FlatID string `query:"flat_id"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListBills handles the admin's bill listing, newest period first, with
// optional status and flat filters
func (h *BillHandlers) ListBills(c echo.Context) error {
	ctx := c.Request().Context()

	var req ListBillsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var status *models.BillStatus
	if req.Status != "" {
		parsed, err := models.ParseBillStatus(req.Status)
		if err != nil {
			return common.SendClientError(c, "status must be PAID or UNPAID")
		}
		status = &parsed
	}

	var bills []*models.MaintenanceBill
	if req.FlatID != "" {
		flatID, err := common.ValidateUUID(req.FlatID, "flat ID")
		if err != nil {
			return common.SendClientError(c, err.Error())
		}
		bills, err = h.billingService.ListByFlat(ctx, flatID, limit, offset)
		if err != nil {
			return common.RespondError(c, err)
		}
		if status != nil {
			filtered := make([]*models.MaintenanceBill, 0, len(bills))
			for _, bill := range bills {
				if bill.Status == *status {
					filtered = append(filtered, bill)
				}
			}
			bills = filtered
		}
	} else {
		bills, err = h.billingService.List(ctx, status, limit, offset)
		if err != nil {
			return common.RespondError(c, err)
		}
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"bills":  bills,
		"limit":  limit,
		"offset": offset,
	})
}

// CreateBill raises a maintenance bill for an owned flat
func (h *BillHandlers) CreateBill(c echo.Context) error {
	ctx := c.Request().Context()

	var input services.BillInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	bill, err := h.billingService.Generate(ctx, input)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, bill)
}

// GetBill handles getting bill details by ID
func (h *BillHandlers) GetBill(c echo.Context) error {
	ctx := c.Request().Context()

	billID, err := common.ValidateUUID(c.Param("id"), "bill ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	bill, err := h.billingService.GetByID(ctx, billID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, bill)
}

// UpdateBill corrects the period or amount of an existing bill
func (h *BillHandlers) UpdateBill(c echo.Context) error {
	ctx := c.Request().Context()

	billID, err := common.ValidateUUID(c.Param("id"), "bill ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var input services.BillUpdateInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	bill, err := h.billingService.Update(ctx, billID, input)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, bill)
}

// DeleteBill handles deleting a bill and its stored receipt
func (h *BillHandlers) DeleteBill(c echo.Context) error {
	ctx := c.Request().Context()

	billID, err := common.ValidateUUID(c.Param("id"), "bill ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.billingService.Delete(ctx, billID); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Bill deleted successfully",
	})
}

// PayBill marks a bill as paid. Paying an already paid bill is a no-op.
func (h *BillHandlers) PayBill(c echo.Context) error {
	ctx := c.Request().Context()

	billID, err := common.ValidateUUID(c.Param("id"), "bill ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	bill, err := h.billingService.MarkPaid(ctx, billID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, bill)
}

// UpdateBillStatusRequest represents the status override payload
type UpdateBillStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UpdateBillStatus sets a bill to PAID or UNPAID, covering corrections in
// either direction
func (h *BillHandlers) UpdateBillStatus(c echo.Context) error {
	ctx := c.Request().Context()

	billID, err := common.ValidateUUID(c.Param("id"), "bill ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req UpdateBillStatusRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	status, err := models.ParseBillStatus(req.Status)
	if err != nil {
		return common.SendClientError(c, "status must be PAID or UNPAID")
	}

	bill, err := h.billingService.SetStatus(ctx, billID, status)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, bill)
}

// GenerateReceipt renders and stores the payment receipt PDF for a paid bill
func (h *BillHandlers) GenerateReceipt(c echo.Context) error {
	ctx := c.Request().Context()

	billID, err := common.ValidateUUID(c.Param("id"), "bill ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	bill, err := h.billingService.GenerateReceipt(ctx, billID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message":        "Receipt generated",
		"receipt_object": bill.ReceiptObject,
	})
}

// GetReceiptURL returns a short-lived download link for a bill's receipt.
// Allowed for the admin, the flat's owner, and the flat's active tenant.
func (h *BillHandlers) GetReceiptURL(c echo.Context) error {
	ctx := c.Request().Context()

	callerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	role, ok := common.GetRoleFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	billID, err := common.ValidateUUID(c.Param("id"), "bill ID")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	url, err := h.billingService.ReceiptURL(ctx, callerID, role, billID)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"url": url,
	})
}

// ListOwnerBillsRequest represents query parameters for the owner's listing
type ListOwnerBillsRequest struct {
	Status string `query:"status"`
	Limit  int    `query:"limit"`
	Offset int    `query:"offset"`
}

// ListOwnerBills lists bills across the calling owner's flats with an
// optional status filter
func (h *BillHandlers) ListOwnerBills(c echo.Context) error {
	ctx := c.Request().Context()

	ownerID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req ListOwnerBillsRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid query parameters")
	}

	limit, offset, err := common.ValidatePaginationParams(req.Limit, req.Offset)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var status *models.BillStatus
	if req.Status != "" {
		parsed, err := models.ParseBillStatus(req.Status)
		if err != nil {
			return common.SendClientError(c, "status must be PAID or UNPAID")
		}
		status = &parsed
	}

	bills, err := h.billingService.ListForOwner(ctx, ownerID, status, limit, offset)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"bills":  bills,
		"limit":  limit,
		"offset": offset,
	})
}
