package handler

import (
	"context"
	"log/slog"

	"github.com/banking-records-ledger/internal/api_gateway/service"
	"github.com/banking-records-ledger/internal/domain/account"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AccountHandler handles HTTP requests for balance operations on one account
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Balance returns the current balance of an account
func (h *AccountHandler) Balance(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	acc, err := h.accountService.CheckBalance(c.Request.Context(), caller, c.Param("number"))
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}

func (h *AccountHandler) Deposit(c *gin.Context) {
	h.move(c, h.accountService.Deposit)
}

func (h *AccountHandler) Withdraw(c *gin.Context) {
	h.move(c, h.accountService.Withdraw)
}

type moveFunc func(ctx context.Context, caller credential.Caller, accountNumber string, amount decimal.Decimal) (*account.Account, error)

func (h *AccountHandler) move(c *gin.Context, fn moveFunc) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	acc, err := fn(c.Request.Context(), caller, c.Param("number"), req.Amount)
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, mapAccountToResponse(acc))
}
