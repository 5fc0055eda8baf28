/*
handlers.go - HTTP API handlers for the ledger engine

PURPOSE:
  Exposes the engine's operation contract over REST. Handles HTTP
  request/response, JSON serialization, and delegates every decision to
  the engine.

ENDPOINTS:
  Accounts:
    POST   /api/accounts                        Create account
    GET    /api/accounts/{id}                   Current state
    POST   /api/accounts/{id}/deposit           Deposit
    GET    /api/accounts/{id}/balance           Point-in-time balance
    GET    /api/accounts/{id}/transactions      Transaction log

  Payments:
    POST   /api/accounts/{id}/payments          Pay (schedules cashback)
    GET    /api/accounts/{id}/payments/{ref}    Payment status

  System:
    POST   /api/transfers                       Transfer between accounts
    POST   /api/merges                          Merge donor into survivor
    GET    /api/spenders                        Top spenders ranking
    GET    /api/healthz                         Liveness

ERROR HANDLING:
  Engine rejections map to HTTP status:
  - 400: Malformed request (bad JSON, missing timestamp)
  - 404: Account or payment not found
  - 409: Duplicate account id, rejected merge
  - 422: Insufficient funds, self transfer, negative amount

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/warp/ledger-engine/ledger"
)

// =============================================================================
// HANDLER
// =============================================================================

// Handler holds the engine behind the HTTP surface.
type Handler struct {
	Engine *ledger.Engine
}

// NewHandler creates a new handler around an engine.
func NewHandler(engine *ledger.Engine) *Handler {
	return &Handler{Engine: engine}
}

// =============================================================================
// ACCOUNT HANDLERS
// =============================================================================

// CreateAccount creates a new account.
func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.AccountID == "" {
		writeError(w, http.StatusBadRequest, "account_id is required", nil)
		return
	}

	if !h.Engine.CreateAccount(ledger.Time(req.Timestamp), ledger.AccountID(req.AccountID)) {
		writeError(w, http.StatusConflict, "Account already exists", nil)
		return
	}

	writeJSON(w, http.StatusCreated, AccountDTO{
		ID:        req.AccountID,
		Balance:   0,
		CreatedAt: req.Timestamp,
	})
}

// GetAccount returns the current state of an active account.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	now, ok := queryTime(w, r, "timestamp")
	if !ok {
		return
	}

	snap, err := h.Engine.Account(now, ledger.AccountID(id))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, AccountDTO{
		ID:        string(snap.ID),
		Balance:   snap.Balance,
		CreatedAt: int64(snap.CreatedAt),
	})
}

// Deposit adds funds to an account.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req DepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusUnprocessableEntity, "Amount must be non-negative", nil)
		return
	}

	balance, err := h.Engine.Deposit(ledger.Time(req.Timestamp), ledger.AccountID(id), req.Amount)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceDTO{AccountID: id, Balance: balance})
}

// GetBalance reconstructs a balance as of a past logical timestamp.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	now, ok := queryTime(w, r, "timestamp")
	if !ok {
		return
	}
	asOf, ok := queryTime(w, r, "as_of")
	if !ok {
		return
	}

	balance, err := h.Engine.BalanceAt(now, ledger.AccountID(id), asOf)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceDTO{AccountID: id, Balance: balance, AsOf: int64(asOf)})
}

// GetTransactions returns an active account's log in log order.
func (h *Handler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	now, ok := queryTime(w, r, "timestamp")
	if !ok {
		return
	}

	txs, err := h.Engine.Transactions(now, ledger.AccountID(id))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionDTOs(txs))
}

// =============================================================================
// TRANSFER / MERGE HANDLERS
// =============================================================================

// Transfer moves funds between two accounts.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusUnprocessableEntity, "Amount must be non-negative", nil)
		return
	}

	balance, err := h.Engine.Transfer(
		ledger.Time(req.Timestamp),
		ledger.AccountID(req.SourceID),
		ledger.AccountID(req.TargetID),
		req.Amount,
	)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, BalanceDTO{AccountID: req.SourceID, Balance: balance})
}

// Merge merges the donor account into the survivor.
func (h *Handler) Merge(w http.ResponseWriter, r *http.Request) {
	var req MergeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ok := h.Engine.MergeAccounts(
		ledger.Time(req.Timestamp),
		ledger.AccountID(req.SurvivorID),
		ledger.AccountID(req.DonorID),
	)
	if !ok {
		writeError(w, http.StatusConflict, "Merge rejected", nil)
		return
	}

	writeJSON(w, http.StatusOK, MergeDTO{
		SurvivorID: req.SurvivorID,
		DonorID:    req.DonorID,
		MergedAt:   req.Timestamp,
	})
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// Pay withdraws funds and schedules a cashback refund.
func (h *Handler) Pay(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Amount < 0 {
		writeError(w, http.StatusUnprocessableEntity, "Amount must be non-negative", nil)
		return
	}

	ref, err := h.Engine.Pay(ledger.Time(req.Timestamp), ledger.AccountID(id), req.Amount)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, PaymentDTO{AccountID: id, Ref: string(ref)})
}

// GetPaymentStatus reports whether a payment's cashback has landed.
func (h *Handler) GetPaymentStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ref := chi.URLParam(r, "ref")
	now, ok := queryTime(w, r, "timestamp")
	if !ok {
		return
	}

	status, err := h.Engine.PaymentStatus(now, ledger.AccountID(id), ledger.PaymentRef(ref))
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PaymentDTO{AccountID: id, Ref: ref, Status: string(status)})
}

// =============================================================================
// RANKING / SYSTEM HANDLERS
// =============================================================================

// TopSpenders returns the highest-spending active accounts.
func (h *Handler) TopSpenders(w http.ResponseWriter, r *http.Request) {
	now, ok := queryTime(w, r, "timestamp")
	if !ok {
		return
	}
	n := 10
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeError(w, http.StatusBadRequest, "n must be a non-negative integer", err)
			return
		}
		n = parsed
	}

	writeJSON(w, http.StatusOK, SpendersDTO{Spenders: h.Engine.TopSpenders(now, n)})
}

// Healthz is the liveness probe.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

func queryTime(w http.ResponseWriter, r *http.Request, name string) (ledger.Time, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		writeError(w, http.StatusBadRequest, name+" query parameter is required", nil)
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, name+" must be an integer timestamp", err)
		return 0, false
	}
	return ledger.Time(v), true
}

func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case ledger.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Not found", err)
	case ledger.IsRejected(err):
		writeError(w, http.StatusUnprocessableEntity, "Rejected", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
