package balance

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/roomieconnect/ledger/internal/money"
	"github.com/roomieconnect/ledger/pkg/middleware"
	"github.com/roomieconnect/ledger/pkg/response"
)

// Handler handles HTTP requests for balance views
type Handler struct {
	service *Service
}

// NewHandler creates a new balance handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for balance endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/group/{groupId}", h.GroupBalances)
	r.Get("/friends", h.FriendBalances)
	r.Get("/net", h.NetBalance)

	return r
}

// MemberBalanceResponse represents one member's net position in a group
type MemberBalanceResponse struct {
	UserID   int64       `json:"user_id"`
	Name     string      `json:"name"`
	NetCents money.Cents `json:"net_cents"`
	Net      string      `json:"net"` // dollars, for display
}

// FriendBalanceResponse represents the net position against one counterparty
type FriendBalanceResponse struct {
	UserID   int64       `json:"user_id"`
	Name     string      `json:"name"`
	NetCents money.Cents `json:"net_cents"`
	Net      string      `json:"net"` // dollars, for display
}

// NetBalanceResponse represents the signed net between two users
type NetBalanceResponse struct {
	UserA    int64       `json:"user_a"`
	UserB    int64       `json:"user_b"`
	NetCents money.Cents `json:"net_cents"` // positive: user_b owes user_a
	Net      string      `json:"net"`
}

// GroupBalances handles GET /balances/group/{groupId}
// @Summary      Get a group's balances
// @Description  Net position of every member, zero balances included
// @Tags         balances
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]MemberBalanceResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /balances/group/{groupId} [get]
func (h *Handler) GroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	balances, err := h.service.GroupNetBalances(r.Context(), groupID)
	if err != nil {
		response.InternalError(w, "Failed to resolve balances")
		return
	}

	responses := make([]*MemberBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, &MemberBalanceResponse{
			UserID:   b.UserID,
			Name:     b.Name,
			NetCents: b.Net,
			Net:      b.Net.String(),
		})
	}

	response.JSON(w, http.StatusOK, responses)
}

// FriendBalances handles GET /balances/friends
// @Summary      Get the caller's friend balances
// @Description  Net position per counterparty across shared groups and groupless settlements, largest first
// @Tags         balances
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]FriendBalanceResponse}
// @Failure      401 {object} response.APIResponse
// @Router       /balances/friends [get]
func (h *Handler) FriendBalances(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing user identity")
		return
	}

	balances, err := h.service.FriendBalances(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to resolve balances")
		return
	}

	responses := make([]*FriendBalanceResponse, 0, len(balances))
	for _, b := range balances {
		responses = append(responses, &FriendBalanceResponse{
			UserID:   b.UserID,
			Name:     b.Name,
			NetCents: b.Net,
			Net:      b.Net.String(),
		})
	}

	response.JSON(w, http.StatusOK, responses)
}

// NetBalance handles GET /balances/net?user_a=&user_b=&group_ids=1,2
// @Summary      Get the net balance between two users
// @Description  Signed net over the given groups (default: every shared group) plus groupless settlements; positive means user_b owes user_a
// @Tags         balances
// @Produce      json
// @Param        user_a query int true "First user ID"
// @Param        user_b query int true "Second user ID"
// @Param        group_ids query string false "Comma-separated group IDs"
// @Success      200 {object} response.APIResponse{data=NetBalanceResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /balances/net [get]
func (h *Handler) NetBalance(w http.ResponseWriter, r *http.Request) {
	userA, errA := strconv.ParseInt(r.URL.Query().Get("user_a"), 10, 64)
	userB, errB := strconv.ParseInt(r.URL.Query().Get("user_b"), 10, 64)
	if errA != nil || errB != nil {
		response.BadRequest(w, "user_a and user_b are required")
		return
	}

	groupIDs, err := parseGroupIDs(r.URL.Query().Get("group_ids"))
	if err != nil {
		response.BadRequest(w, "Invalid group_ids")
		return
	}

	net, err := h.service.NetBalance(r.Context(), groupIDs, userA, userB)
	if err != nil {
		if errors.Is(err, ErrSameUser) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to resolve balance")
		return
	}

	response.JSON(w, http.StatusOK, &NetBalanceResponse{
		UserA:    userA,
		UserB:    userB,
		NetCents: net,
		Net:      net.String(),
	})
}

func parseGroupIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
