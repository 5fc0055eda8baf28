/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the
  engine's domain model from the external contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

TIMESTAMPS:
  Every request carries the caller's logical timestamp. The engine never
  consults wall-clock time; ordering is entirely the caller's.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import "github.com/warp/ledger-engine/ledger"

// =============================================================================
// REQUEST TYPES
// =============================================================================

// CreateAccountRequest creates an account at a logical timestamp.
type CreateAccountRequest struct {
	Timestamp int64  `json:"timestamp"`
	AccountID string `json:"account_id"`
}

// DepositRequest adds funds to an account.
type DepositRequest struct {
	Timestamp int64 `json:"timestamp"`
	Amount    int64 `json:"amount"`
}

// TransferRequest moves funds between two accounts.
type TransferRequest struct {
	Timestamp int64  `json:"timestamp"`
	SourceID  string `json:"source_id"`
	TargetID  string `json:"target_id"`
	Amount    int64  `json:"amount"`
}

// PayRequest withdraws funds and schedules cashback.
type PayRequest struct {
	Timestamp int64 `json:"timestamp"`
	Amount    int64 `json:"amount"`
}

// MergeRequest merges the donor account into the survivor.
type MergeRequest struct {
	Timestamp  int64  `json:"timestamp"`
	SurvivorID string `json:"survivor_id"`
	DonorID    string `json:"donor_id"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// AccountDTO represents an active account.
type AccountDTO struct {
	ID        string `json:"id"`
	Balance   int64  `json:"balance"`
	CreatedAt int64  `json:"created_at"`
}

// BalanceDTO is the result of a balance-affecting operation or query.
type BalanceDTO struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	AsOf      int64  `json:"as_of,omitempty"`
}

// PaymentDTO describes a payment and its cashback progress.
type PaymentDTO struct {
	AccountID string `json:"account_id"`
	Ref       string `json:"ref"`
	Status    string `json:"status,omitempty"`
}

// MergeDTO is the result of a merge.
type MergeDTO struct {
	SurvivorID string `json:"survivor_id"`
	DonorID    string `json:"donor_id"`
	MergedAt   int64  `json:"merged_at"`
}

// SpendersDTO lists the ranking in "id(total)" form.
type SpendersDTO struct {
	Spenders []string `json:"spenders"`
}

// TransactionDTO represents one ledger record.
type TransactionDTO struct {
	ID         string `json:"id"`
	Timestamp  int64  `json:"timestamp"`
	Kind       string `json:"kind"`
	Amount     int64  `json:"amount"`
	PaymentRef string `json:"payment_ref,omitempty"`
	Deposited  bool   `json:"deposited,omitempty"`
	MergedFrom string `json:"merged_from,omitempty"`
	MergedAt   int64  `json:"merged_at,omitempty"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toTransactionDTO(tx ledger.Transaction) TransactionDTO {
	dto := TransactionDTO{
		ID:         tx.ID,
		Timestamp:  int64(tx.Timestamp),
		Kind:       string(tx.Kind),
		Amount:     tx.Amount,
		PaymentRef: string(tx.PaymentRef),
		Deposited:  tx.Deposited,
	}
	if tx.Provenance != nil {
		dto.MergedFrom = string(tx.Provenance.From)
		dto.MergedAt = int64(tx.Provenance.MergedAt)
	}
	return dto
}

func toTransactionDTOs(txs []ledger.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	return dtos
}
