package handler

import (
	"log/slog"
	"net/http"

	"github.com/banking-records-ledger/internal/api_gateway/service"
	"github.com/gin-gonic/gin"
)

// TransactionHandler handles HTTP requests for the transaction history
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// ListByAccount returns one page of an account's transactions in stored order
func (h *TransactionHandler) ListByAccount(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Warn("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	records, err := h.transactionService.QueryByAccount(c.Request.Context(), caller, c.Param("number"))
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}

	total := len(records)
	start := min((pagination.Page-1)*pagination.PerPage, total)
	end := min(start+pagination.PerPage, total)

	response := make([]TransactionResponse, 0, end-start)
	for _, tx := range records[start:end] {
		response = append(response, mapTransactionToResponse(tx))
	}
	RespondWithPaginatedData(c, http.StatusOK, response, pagination.Page, pagination.PerPage, total)
}
