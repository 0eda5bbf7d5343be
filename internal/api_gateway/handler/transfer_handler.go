package handler

import (
	"log/slog"

	"github.com/banking-records-ledger/internal/api_gateway/service"
	"github.com/banking-records-ledger/internal/domain/ledger"
	"github.com/gin-gonic/gin"
)

// TransferHandler handles HTTP requests moving money between accounts
type TransferHandler struct {
	transferService service.TransferService
	logger          *slog.Logger
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(logger *slog.Logger, transferService service.TransferService) *TransferHandler {
	return &TransferHandler{
		transferService: transferService,
		logger:          logger,
	}
}

func (h *TransferHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.transferService.Transfer(c.Request.Context(), caller, req.FromAccount, req.ToAccount, req.Amount)
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}

	RespondOK(c, TransferResponse{
		From:      mapAccountToResponse(result.From),
		To:        mapAccountToResponse(result.To),
		Amount:    result.Amount.StringFixed(2),
		Timestamp: result.Timestamp.Format(ledger.TimestampLayout),
	})
}
