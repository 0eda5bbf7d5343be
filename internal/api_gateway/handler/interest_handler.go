package handler

import (
	"log/slog"

	"github.com/banking-records-ledger/internal/api_gateway/service"
	"github.com/gin-gonic/gin"
)

// InterestHandler handles HTTP requests for monthly interest
type InterestHandler struct {
	interestService service.InterestService
	logger          *slog.Logger
}

// NewInterestHandler creates a new interest handler
func NewInterestHandler(logger *slog.Logger, interestService service.InterestService) *InterestHandler {
	return &InterestHandler{
		interestService: interestService,
		logger:          logger,
	}
}

// Apply credits this month's interest to every eligible account not yet credited
func (h *InterestHandler) Apply(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	run, err := h.interestService.Apply(c.Request.Context(), caller)
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}

	response := InterestRunResponse{
		Applied: make([]InterestEntryResponse, 0, len(run.Applied)),
		Skipped: run.Skipped,
	}
	for _, e := range run.Applied {
		response.Applied = append(response.Applied, mapInterestEntryToResponse(e))
	}
	RespondOK(c, response)
}

func (h *InterestHandler) History(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	entries, err := h.interestService.History(c.Request.Context(), caller)
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}

	response := make([]InterestEntryResponse, 0, len(entries))
	for _, e := range entries {
		response = append(response, mapInterestEntryToResponse(e))
	}
	RespondOK(c, response)
}
