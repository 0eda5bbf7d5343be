package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/banking-records-ledger/internal/api_gateway/middleware"
	"github.com/banking-records-ledger/internal/domain/record"
	"github.com/banking-records-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// RespondWithServiceError maps the ledger error taxonomy onto HTTP statuses
func RespondWithServiceError(c *gin.Context, logger *slog.Logger, err error) {
	var auditErr *shared.AuditIncompleteError
	var malformed record.ErrMalformedTable

	switch {
	case errors.As(err, &auditErr):
		logger.Error("Operation committed without audit records",
			"operation", auditErr.Operation,
			"error", err,
			"correlation_id", middleware.GetCorrelationID(c))
		RespondInternalError(c)
	case errors.As(err, &malformed):
		logger.Error("Table needs repair before it can be rewritten", "table", malformed.Table, "lines", malformed.Lines)
		RespondWithError(c, http.StatusInternalServerError, "MALFORMED_TABLE", err.Error())
	case errors.Is(err, shared.ErrAccessDenied):
		RespondWithError(c, http.StatusForbidden, "ACCESS_DENIED", err.Error())
	case errors.Is(err, shared.ErrNotFound):
		RespondWithError(c, http.StatusNotFound, "NOT_FOUND", err.Error())
	case errors.Is(err, shared.ErrAccountInactive):
		RespondWithError(c, http.StatusConflict, "ACCOUNT_INACTIVE", err.Error())
	case errors.Is(err, shared.ErrInsufficientFunds):
		RespondWithError(c, http.StatusConflict, "INSUFFICIENT_FUNDS", err.Error())
	case errors.Is(err, shared.ErrSameAccount):
		RespondWithError(c, http.StatusBadRequest, "SAME_ACCOUNT", err.Error())
	case errors.Is(err, shared.ErrValidation):
		RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", err.Error())
	default:
		logger.Error("Request failed", "error", err, "path", c.Request.URL.Path)
		RespondInternalError(c)
	}
}
