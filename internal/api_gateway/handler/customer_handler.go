package handler

import (
	"log/slog"

	"github.com/banking-records-ledger/internal/api_gateway/service"
	"github.com/banking-records-ledger/internal/domain/profile"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles HTTP requests for account holders and their lifecycle
type CustomerHandler struct {
	customerService service.CustomerService
	logger          *slog.Logger
}

// NewCustomerHandler creates a new customer handler
func NewCustomerHandler(logger *slog.Logger, customerService service.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// Create opens an account with its profile and initial login
func (h *CustomerHandler) Create(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	details := profile.Details{
		Name:        req.Name,
		NIC:         req.NIC,
		DateOfBirth: req.DateOfBirth,
		Phone:       req.Phone,
		Email:       req.Email,
		Address:     req.Address,
		Gender:      req.Gender,
		AccountType: profile.AccountType(req.AccountType),
	}
	created, err := h.customerService.Create(c.Request.Context(), caller, details, req.OpeningBalance)
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}

	h.logger.Info("Account opened", "account_number", created.Account.Number)
	RespondCreated(c, mapCreatedToResponse(created))
}

// Get returns the profile of an account
func (h *CustomerHandler) Get(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	p, err := h.customerService.Find(c.Request.Context(), caller, c.Param("number"))
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, mapProfileToResponse(p))
}

// Update changes one profile field. Unknown fields leave the profile untouched.
func (h *CustomerHandler) Update(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	p, err := h.customerService.Update(c.Request.Context(), caller, c.Param("number"), req.Field, req.Value)
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, mapProfileToResponse(p))
}

func (h *CustomerHandler) Deactivate(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var req DeactivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	number := c.Param("number")
	changed, err := h.customerService.Deactivate(c.Request.Context(), caller, number, req.Reason, req.Confirm)
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, StatusChangeResponse{
		AccountNumber: number,
		Status:        string(profile.StatusInactive),
		Changed:       changed,
	})
}

func (h *CustomerHandler) Restore(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	number := c.Param("number")
	changed, err := h.customerService.Restore(c.Request.Context(), caller, number)
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}
	RespondOK(c, StatusChangeResponse{
		AccountNumber: number,
		Status:        string(profile.StatusActive),
		Changed:       changed,
	})
}

// Search finds profiles by NIC or phone
func (h *CustomerHandler) Search(c *gin.Context) {
	caller, ok := requireCaller(c)
	if !ok {
		return
	}

	var params SearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid search parameters: "+err.Error())
		return
	}

	matches, err := h.customerService.Search(c.Request.Context(), caller, params.Field, params.Value)
	if err != nil {
		RespondWithServiceError(c, h.logger, err)
		return
	}

	response := make([]ProfileResponse, 0, len(matches))
	for _, p := range matches {
		response = append(response, mapProfileToResponse(p))
	}
	RespondOK(c, response)
}
