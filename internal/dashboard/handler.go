package dashboard

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/roomieconnect/ledger/pkg/response"
)

// Handler handles HTTP requests for dashboard views
type Handler struct {
	service *Service
}

// NewHandler creates a new dashboard handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for dashboard endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/user/{userId}", h.UserSummary)

	return r
}

// UserSummary handles GET /dashboard/user/{userId}
// @Summary      Get a user's dashboard
// @Description  Monthly and all-time spend from the user's split shares, six-month series, top groups and recent activity
// @Tags         dashboard
// @Produce      json
// @Param        userId path int true "User ID"
// @Success      200 {object} response.APIResponse{data=Summary}
// @Failure      400 {object} response.APIResponse
// @Router       /dashboard/user/{userId} [get]
func (h *Handler) UserSummary(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.ParseInt(chi.URLParam(r, "userId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	summary, err := h.service.UserSummary(r.Context(), userID)
	if err != nil {
		response.InternalError(w, "Failed to load dashboard")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}
