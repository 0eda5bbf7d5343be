package handler

import (
	"log/slog"
	"time"

	"github.com/banking-records-ledger/internal/api_gateway/middleware"
	"github.com/banking-records-ledger/internal/api_gateway/service"
	"github.com/banking-records-ledger/internal/domain/credential"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CommandHandler queues ledger commands for the transaction processor
type CommandHandler struct {
	commandService service.CommandService
	logger         *slog.Logger
	now            func() time.Time
}

// NewCommandHandler creates a new command handler
func NewCommandHandler(logger *slog.Logger, commandService service.CommandService) *CommandHandler {
	return &CommandHandler{
		commandService: commandService,
		logger:         logger,
		now:            time.Now,
	}
}

// Submit authorizes and publishes a command. A command id that was already
// handled returns the recorded outcome instead of publishing again.
func (h *CommandHandler) Submit(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req SubmitCommandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	commandID := uuid.New()
	if req.CommandID != "" {
		commandID = uuid.MustParse(req.CommandID)
	}
	cmd := &shared.CommandRequest{
		CommandID:     commandID,
		Type:          shared.CommandType(req.Type),
		AccountNumber: req.AccountNumber,
		TargetAccount: req.TargetAccount,
		Amount:        req.Amount,
		CorrelationID: middleware.GetCorrelationID(c),
		Timestamp:     h.now().UTC(),
	}

	if err := cmd.Validate(); err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}
	if err := authorizeCommand(caller, cmd); err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}

	outcome, err := h.commandService.Submit(c.Request.Context(), cmd)
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}
	if outcome != nil {
		RespondOK(c, mapOutcomeToResponse(outcome))
		return
	}

	RespondAccepted(c, CommandResponse{
		CommandID: commandID.String(),
		Status:    commandStatusPending,
	})
}

// Get reports the outcome of a command, PENDING until the processor records one
func (h *CommandHandler) Get(c *gin.Context) {
	if _, ok := requireCaller(c); !ok {
		return
	}

	commandID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondBadRequest(c, "Invalid command ID")
		return
	}

	outcome, err := h.commandService.GetOutcome(c.Request.Context(), commandID)
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}
	if outcome == nil {
		RespondOK(c, CommandResponse{CommandID: commandID.String(), Status: commandStatusPending})
		return
	}
	RespondOK(c, mapOutcomeToResponse(outcome))
}

// authorizeCommand applies the same access rules as the synchronous endpoints.
// The processor runs accepted commands with full rights.
func authorizeCommand(caller credential.Caller, cmd *shared.CommandRequest) error {
	if cmd.Type == shared.CommandTypeApplyInterest {
		return caller.AuthorizeAdmin("apply interest")
	}
	return caller.AuthorizeAccount(cmd.AccountNumber)
}
