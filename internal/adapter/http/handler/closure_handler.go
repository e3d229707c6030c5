package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/druiz/poscaja/internal/adapter/http/dto"
	"github.com/druiz/poscaja/internal/adapter/http/middleware"
	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/infrastructure/metrics"
	"github.com/druiz/poscaja/internal/usecase"
)

const dateLayout = "2006-01-02"

// ClosureHandler handles cash-closure HTTP requests.
type ClosureHandler struct {
	registrarUC *usecase.RegistrarUseCase
	metrics     *metrics.Metrics
}

// NewClosureHandler creates a new ClosureHandler. m may be nil.
func NewClosureHandler(registrarUC *usecase.RegistrarUseCase, m *metrics.Metrics) *ClosureHandler {
	return &ClosureHandler{registrarUC: registrarUC, metrics: m}
}

// Status reports whether a date is closed for a scope. user_id defaults
// to the authenticated user for the personal scope.
func (h *ClosureHandler) Status(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	dateParam := r.URL.Query().Get("date")
	date, err := time.Parse(dateLayout, dateParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", "expected YYYY-MM-DD")
		return
	}

	scope := domain.ClosureScope(r.URL.Query().Get("scope"))

	userID := r.URL.Query().Get("user_id")
	if userID == "" && scope == domain.ScopePersonal {
		userID = user.ID
	}

	closed, err := h.registrarUC.IsDateClosed(r.Context(), domain.ClosureKey{
		Date:   date,
		Scope:  scope,
		UserID: userID,
	})
	if err != nil {
		respondError(w, "failed to check closure status", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClosedStatusResponse{
		Date:   date.Format(dateLayout),
		Scope:  string(scope),
		Closed: closed,
	})
}

// Create records a cash closure owned by the authenticated user.
func (h *ClosureHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.CreateClosureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid closure request", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(user.ID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	record, err := h.registrarUC.CreateClosure(r.Context(), input)
	if err != nil {
		if h.metrics != nil && errors.Is(err, domain.ErrDuplicateClosure) {
			h.metrics.DuplicateClosures.WithLabelValues(req.Scope).Inc()
		}

		respondError(w, "failed to create closure", err)

		return
	}

	if h.metrics != nil {
		h.metrics.ClosuresCreated.WithLabelValues(string(record.Scope)).Inc()
		h.metrics.ClosureDifference.Observe(record.Difference.InexactFloat64())
	}

	writeJSON(w, http.StatusCreated, dto.ClosureFromDomain(record))
}

// List lists closures within an inclusive date range.
func (h *ClosureHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	from, err := time.Parse(dateLayout, r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date", "expected YYYY-MM-DD")
		return
	}

	to, err := time.Parse(dateLayout, r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date", "expected YYYY-MM-DD")
		return
	}

	input := usecase.ListClosuresInput{
		From:    from,
		To:      to,
		ActorID: user.ID,
		ViewAll: user.Role.CanViewAllClosures(),
		Limit:   parseIntQuery(r, "limit", 50),
		Offset:  parseIntQuery(r, "offset", 0),
	}

	if s := r.URL.Query().Get("scope"); s != "" {
		scope := domain.ClosureScope(s)
		input.Scope = &scope
	}

	if u := r.URL.Query().Get("user_id"); u != "" {
		input.UserID = &u
	}

	views, err := h.registrarUC.ListClosures(r.Context(), input)
	if err != nil {
		respondError(w, "failed to list closures", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ClosuresFromDomain(views))
}
