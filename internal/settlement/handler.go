package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roomieconnect/ledger/pkg/response"
)

// Handler handles HTTP requests for settlement operations
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Record)
	r.Get("/group/{groupId}", h.ListByGroup)
	r.Get("/transactions/group/{groupId}", h.ListTransactions)

	// Payment provider webhook. Deliveries may repeat; replays are no-ops.
	r.Post("/provider/events", h.ProviderEvent)

	return r
}

func writeSettlementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrSameParty),
		errors.Is(err, ErrInvalidAmount),
		errors.Is(err, ErrMissingRef),
		errors.Is(err, ErrMissingParties),
		errors.Is(err, ErrUnknownEventType):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, "Failed to process settlement")
	}
}

// Record handles POST /settlements
// @Summary      Record a manual settlement
// @Description  Record a completed transfer between two members
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body RecordSettlementRequest true "Settlement request"
// @Success      201 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements [post]
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordSettlementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.RecordManual(r.Context(), &req)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, result.ToResponse())
}

// ProviderEvent handles POST /settlements/provider/events
// @Summary      Apply a payment provider webhook event
// @Description  Confirmations create a settlement once per external reference; failures mark it failed. Replays return 200 without side effects.
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body ProviderEventRequest true "Provider event"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements/provider/events [post]
func (h *Handler) ProviderEvent(w http.ResponseWriter, r *http.Request) {
	var event ProviderEventRequest
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	result, err := h.service.ApplyProviderEvent(r.Context(), &event)
	if err != nil {
		writeSettlementError(w, err)
		return
	}
	if result == nil {
		// Failure event for a reference never confirmed.
		response.JSON(w, http.StatusOK, map[string]string{"external_ref": event.ExternalRef, "status": "ignored"})
		return
	}

	response.JSON(w, http.StatusOK, result.ToResponse())
}

// ListByGroup handles GET /settlements/group/{groupId}
// @Summary      List a group's settlements
// @Description  Get all settlements recorded in a group, newest first
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements/group/{groupId} [get]
func (h *Handler) ListByGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	settlements, err := h.service.ListByGroupID(r.Context(), groupID)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	responses := make([]*SettlementResponse, 0, len(settlements))
	for _, s := range settlements {
		responses = append(responses, s.ToResponse())
	}

	response.JSONWithMeta(w, http.StatusOK, responses, &response.Meta{Total: len(responses)})
}

// ListTransactions handles GET /settlements/transactions/group/{groupId}
// @Summary      List a group's provider transactions
// @Description  Get the provider-originated settlements of a group, tagged with their origin
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /settlements/transactions/group/{groupId} [get]
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	settlements, err := h.service.ListByGroupID(r.Context(), groupID)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	responses := make([]*SettlementResponse, 0, len(settlements))
	for _, s := range settlements {
		if s.Provider() == "manual" {
			continue
		}
		responses = append(responses, s.ToResponse())
	}

	response.JSONWithMeta(w, http.StatusOK, responses, &response.Meta{Total: len(responses)})
}
