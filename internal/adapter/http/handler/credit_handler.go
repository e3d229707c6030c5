package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/druiz/poscaja/internal/adapter/http/dto"
	"github.com/druiz/poscaja/internal/adapter/http/middleware"
	"github.com/druiz/poscaja/internal/domain"
	"github.com/druiz/poscaja/internal/infrastructure/metrics"
	"github.com/druiz/poscaja/internal/usecase"
)

// CreditHandler handles credit-ledger HTTP requests.
type CreditHandler struct {
	ledgerUC *usecase.LedgerUseCase
	metrics  *metrics.Metrics
}

// NewCreditHandler creates a new CreditHandler. m may be nil.
func NewCreditHandler(ledgerUC *usecase.LedgerUseCase, m *metrics.Metrics) *CreditHandler {
	return &CreditHandler{ledgerUC: ledgerUC, metrics: m}
}

// GetOutstanding returns the customer's pending credit with totals.
func (h *CreditHandler) GetOutstanding(w http.ResponseWriter, r *http.Request) {
	customerID := chi.URLParam(r, "customerID")
	if customerID == "" {
		writeError(w, http.StatusBadRequest, "missing customer ID", "")
		return
	}

	view, err := h.ledgerUC.GetOutstandingCredit(r.Context(), customerID)
	if err != nil {
		respondError(w, "failed to get outstanding credit", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditFromDomain(view))
}

// RegisterPayment records a payment against a credit.
func (h *CreditHandler) RegisterPayment(w http.ResponseWriter, r *http.Request) {
	creditID := chi.URLParam(r, "creditID")
	if creditID == "" {
		writeError(w, http.StatusBadRequest, "missing credit ID", "")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "")
		return
	}

	var req dto.RegisterPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payment request", err.Error())
		return
	}

	result, err := h.ledgerUC.RegisterPayment(r.Context(), req.ToUseCaseInput(creditID, user.ID))
	if err != nil {
		if h.metrics != nil && errors.Is(err, domain.ErrOverpayment) {
			h.metrics.OverpaymentRejections.Inc()
		}

		respondError(w, "failed to register payment", err)

		return
	}

	if h.metrics != nil {
		h.metrics.PaymentsRecorded.Inc()
		h.metrics.PaymentAmount.Observe(req.Amount.InexactFloat64())

		if result.RemainingBalance.IsZero() {
			h.metrics.CreditsSettled.Inc()
		}
	}

	writeJSON(w, http.StatusCreated, dto.PaymentResultResponse{
		PaymentID:        result.PaymentID,
		TotalPaid:        result.TotalPaid,
		RemainingBalance: result.RemainingBalance,
	})
}

// ListPayments lists recorded payments, optionally filtered by
// customer name.
func (h *CreditHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListPaymentsInput{
		Search: r.URL.Query().Get("search"),
		Limit:  parseIntQuery(r, "limit", 50),
		Offset: parseIntQuery(r, "offset", 0),
	}

	views, err := h.ledgerUC.ListPayments(r.Context(), input)
	if err != nil {
		respondError(w, "failed to list payments", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.PaymentsFromDomain(views))
}
