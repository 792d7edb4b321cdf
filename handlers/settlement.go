package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	bookingRepo "charterdesk/database/repository/booking"
	"charterdesk/models"
	"charterdesk/services/settlement"
	"charterdesk/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SettlementHandler exposes the settlement engine to the dashboard.
type SettlementHandler struct {
	Svc    settlement.SettlementService
	Logger *zap.Logger
}

func NewSettlementHandler(svc settlement.SettlementService, logger *zap.Logger) *SettlementHandler {
	return &SettlementHandler{Svc: svc, Logger: logger}
}

// ListBookings answers the working set for the payment tracking table.
func (h *SettlementHandler) ListBookings(c *gin.Context) {
	params := settlement.QueryParams{
		Search:         c.Query("search"),
		BoatCompany:    c.Query("boat_company"),
		PaymentStatus:  settlement.PaymentStatus(c.Query("payment_status")),
		TransferOnly:   c.Query("transfer_only") == "true",
		IncludeSpecial: c.Query("include_special") == "true",
		SortDesc:       c.Query("order") == "desc",
	}

	if v := c.Query("trip_from"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid trip_from", err.Error())
			return
		}
		params.TripFrom = &t
	}
	if v := c.Query("trip_to"); v != "" {
		t, err := parseDateParam(v)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid trip_to", err.Error())
			return
		}
		params.TripTo = &t
	}
	if v := c.Query("priority"); v != "" {
		p, ok := models.ParsePriority(v)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "invalid priority", v)
			return
		}
		params.Priority = &p
	}
	if v := c.Query("due_within_days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			utils.JSONError(c, http.StatusBadRequest, "invalid due_within_days", v)
			return
		}
		params.DueWithinDays = &n
	}
	if v := c.Query("sort"); v != "" {
		key, ok := settlement.ParseSortKey(v)
		if !ok {
			utils.JSONError(c, http.StatusBadRequest, "invalid sort key", v)
			return
		}
		params.Sort = key
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			params.Page = n
		}
	}

	result := h.Svc.QueryBookings(params)
	c.JSON(http.StatusOK, result)
}

// GetBooking answers one booking with its derived attributes.
func (h *SettlementHandler) GetBooking(c *gin.Context) {
	view, err := h.Svc.GetBooking(c.Param("id"))
	if err != nil {
		h.respondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SetAmount records an owner payment amount on an unsigned slot.
func (h *SettlementHandler) SetAmount(c *gin.Context) {
	slot, ok := models.ParseSlotKey(c.Param("slot"))
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid slot", c.Param("slot"))
		return
	}

	var input struct {
		Amount models.Money `json:"amount"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Svc.SetAmount(c.Param("id"), slot, input.Amount); err != nil {
		h.respondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "amount recorded"})
}

// Sign irreversibly locks a slot. The confirmation prompt is a UI concern;
// once this endpoint is hit the operation is treated as final.
func (h *SettlementHandler) Sign(c *gin.Context) {
	slot, ok := models.ParseSlotKey(c.Param("slot"))
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid slot", c.Param("slot"))
		return
	}

	var input struct {
		Signature string `json:"signature"`
		PaidBy    string `json:"paid_by"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Svc.Sign(c.Param("id"), slot, input.Signature, input.PaidBy); err != nil {
		h.respondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed"})
}

// SetClientPayment toggles a client installment's received flag.
func (h *SettlementHandler) SetClientPayment(c *gin.Context) {
	slot, ok := models.ParseClientSlotKey(c.Param("slot"))
	if !ok {
		utils.JSONError(c, http.StatusBadRequest, "invalid client slot", c.Param("slot"))
		return
	}

	var input struct {
		Received bool `json:"received"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	if err := h.Svc.SetClientPaymentReceived(c.Param("id"), slot, input.Received); err != nil {
		h.respondMutationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "client payment updated"})
}

// Alerts answers the prioritized alert feed.
func (h *SettlementHandler) Alerts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"alerts": h.Svc.Alerts()})
}

// Export answers the flat per-booking rows the external spreadsheet dump reads.
func (h *SettlementHandler) Export(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"rows": h.Svc.ExportRows()})
}

// respondMutationError maps engine error kinds onto user-facing notices.
// None of them are fatal; the slot state remains whatever the last confirmed
// snapshot showed.
func (h *SettlementHandler) respondMutationError(c *gin.Context, err error) {
	var locked *settlement.LockedSlotError
	var validation *settlement.ValidationError
	var stale *settlement.StaleSnapshotError
	var writeFailure *settlement.WriteFailureError

	switch {
	case errors.As(err, &locked):
		utils.JSONError(c, http.StatusConflict, "slot is signed and locked", locked.Error())
	case errors.As(err, &validation):
		utils.JSONError(c, http.StatusBadRequest, "invalid request", validation.Error())
	case errors.As(err, &stale):
		utils.JSONError(c, http.StatusConflict, "slot was signed concurrently", stale.Error())
	case errors.As(err, &writeFailure):
		if errors.Is(err, bookingRepo.ErrNotFound) {
			utils.JSONError(c, http.StatusNotFound, "booking not found", writeFailure.Error())
			return
		}
		utils.JSONError(c, http.StatusBadGateway, "store write failed, please retry", writeFailure.Error())
	default:
		h.Logger.Error("unexpected settlement error", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
	}
}

func parseDateParam(v string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, v)
}
