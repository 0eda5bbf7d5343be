package handler

import (
	"time"

	"github.com/banking-records-ledger/internal/banking"
	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/banking-records-ledger/internal/domain/profile"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest represents a request to open an account
type CreateAccountRequest struct {
	Name           string          `json:"name" binding:"required"`
	NIC            string          `json:"nic" binding:"required"`
	DateOfBirth    string          `json:"date_of_birth" binding:"required"`
	Phone          string          `json:"phone" binding:"required"`
	Email          string          `json:"email" binding:"required"`
	Address        string          `json:"address" binding:"required"`
	Gender         string          `json:"gender" binding:"required"`
	AccountType    string          `json:"account_type" binding:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// UpdateProfileRequest changes one profile field
type UpdateProfileRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value" binding:"required"`
}

// DeactivateRequest must carry confirm=true to take effect
type DeactivateRequest struct {
	Reason  string `json:"reason" binding:"required"`
	Confirm bool   `json:"confirm"`
}

// AmountRequest is the body of deposit and withdraw
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	FromAccount string          `json:"from_account" binding:"required"`
	ToAccount   string          `json:"to_account" binding:"required"`
	Amount      decimal.Decimal `json:"amount"`
}

// SubmitCommandRequest queues a command for the asynchronous processor.
// CommandID doubles as the idempotency key.
type SubmitCommandRequest struct {
	CommandID     string          `json:"command_id,omitempty" binding:"omitempty,uuid"`
	Type          string          `json:"type" binding:"required,oneof=DEPOSIT WITHDRAWAL TRANSFER APPLY_INTEREST"`
	AccountNumber string          `json:"account_number,omitempty"`
	TargetAccount string          `json:"target_account,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// SearchParams represents the query of the customer search endpoint
type SearchParams struct {
	Field string `form:"field" binding:"required,oneof=nic phone"`
	Value string `form:"value" binding:"required"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=20" binding:"min=1,max=100"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	AccountNumber string `json:"account_number"`
	OwnerName     string `json:"owner_name"`
	Balance       string `json:"balance"`
}

// ProfileResponse represents a customer profile in API responses
type ProfileResponse struct {
	AccountNumber string `json:"account_number"`
	Name          string `json:"name"`
	NIC           string `json:"nic"`
	DateOfBirth   string `json:"date_of_birth"`
	Phone         string `json:"phone"`
	Email         string `json:"email"`
	Address       string `json:"address"`
	Gender        string `json:"gender"`
	AccountType   string `json:"account_type"`
	Status        string `json:"status"`
}

// CreateAccountResponse carries the initial login, shown once
type CreateAccountResponse struct {
	Account  AccountResponse `json:"account"`
	Profile  ProfileResponse `json:"profile"`
	Username string          `json:"username"`
	Password string          `json:"password"`
}

type StatusChangeResponse struct {
	AccountNumber string `json:"account_number"`
	Status        string `json:"status"`
	Changed       bool   `json:"changed"`
}

// TransactionResponse represents a transaction record in API responses
type TransactionResponse struct {
	AccountNumber string `json:"account_number"`
	Kind          string `json:"kind"`
	Counterparty  string `json:"counterparty,omitempty"`
	Amount        string `json:"amount"`
	Timestamp     string `json:"timestamp"`
}

type TransferResponse struct {
	From      AccountResponse `json:"from"`
	To        AccountResponse `json:"to"`
	Amount    string          `json:"amount"`
	Timestamp string          `json:"timestamp"`
}

type InterestEntryResponse struct {
	AccountNumber  string `json:"account_number"`
	Date           string `json:"date"`
	InterestAmount string `json:"interest_amount"`
	RatePercent    string `json:"rate_percent"`
}

type InterestRunResponse struct {
	Applied []InterestEntryResponse `json:"applied"`
	Skipped int                     `json:"skipped"`
}

// CommandResponse reports a queued or handled command
type CommandResponse struct {
	CommandID  string `json:"command_id"`
	Status     string `json:"status"`
	Reason     string `json:"reason,omitempty"`
	RecordedAt string `json:"recorded_at,omitempty"`
}

const commandStatusPending = "PENDING"

func mapAccountToResponse(a *account.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: a.Number,
		OwnerName:     a.OwnerName,
		Balance:       a.Balance.StringFixed(2),
	}
}

func mapProfileToResponse(p *profile.Profile) ProfileResponse {
	return ProfileResponse{
		AccountNumber: p.AccountNumber,
		Name:          p.Name,
		NIC:           p.NIC,
		DateOfBirth:   p.DateOfBirth,
		Phone:         p.Phone,
		Email:         p.Email,
		Address:       p.Address,
		Gender:        p.Gender,
		AccountType:   string(p.AccountType),
		Status:        string(p.Status),
	}
}

func mapCreatedToResponse(created *banking.CreatedAccount) CreateAccountResponse {
	return CreateAccountResponse{
		Account:  mapAccountToResponse(created.Account),
		Profile:  mapProfileToResponse(created.Profile),
		Username: created.Username,
		Password: created.Password,
	}
}

func mapTransactionToResponse(tx *ledger.TransactionRecord) TransactionResponse {
	counterparty, _ := tx.Kind.Counterparty()
	return TransactionResponse{
		AccountNumber: tx.AccountNumber,
		Kind:          string(tx.Kind),
		Counterparty:  counterparty,
		Amount:        tx.Amount.StringFixed(2),
		Timestamp:     tx.Timestamp.Format(ledger.TimestampLayout),
	}
}

func mapInterestEntryToResponse(e *ledger.InterestEntry) InterestEntryResponse {
	return InterestEntryResponse{
		AccountNumber:  e.AccountNumber,
		Date:           e.Date.Format(ledger.DateLayout),
		InterestAmount: e.InterestAmount.StringFixed(2),
		RatePercent:    e.RatePercent.StringFixed(2) + "%",
	}
}

func mapOutcomeToResponse(o *shared.CommandOutcome) CommandResponse {
	return CommandResponse{
		CommandID:  o.CommandID.String(),
		Status:     string(o.Status),
		Reason:     o.Reason,
		RecordedAt: o.RecordedAt.Format(time.RFC3339),
	}
}
