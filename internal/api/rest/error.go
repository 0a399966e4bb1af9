package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/structfi/bondledger/internal/api/shared/errors"
	"github.com/structfi/bondledger/internal/domain"
	"github.com/structfi/bondledger/internal/logger"
)

// errorResponse represents a standardized error response
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail contains error information
type errorDetail struct {
	Code    apierrors.ErrorCode `json:"code"`
	Message string              `json:"message"`
	Details string              `json:"details,omitempty"`
}

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, code apierrors.ErrorCode, message string, details ...string) {
	response := errorResponse{
		Error: errorDetail{
			Code:    code,
			Message: message,
		},
	}

	if len(details) > 0 {
		response.Error.Details = details[0]
	}

	c.JSON(statusCode, response)
}

// respondBadRequest sends a 400 Bad Request response
func respondBadRequest(c *gin.Context, message string, details ...string) {
	respondWithError(c, http.StatusBadRequest, apierrors.ErrCodeBadRequest, message, details...)
}

// respondValidationError sends a 400 Bad Request with validation error
func respondValidationError(c *gin.Context, details string) {
	respondWithError(c, http.StatusBadRequest, apierrors.ErrCodeValidationFailed, "Validation failed", details)
}

// respondInternalError sends a 500 Internal Server Error response and logs the error
func respondInternalError(c *gin.Context, err error, message string, fields ...zap.Field) {
	logger.Error(err, fields...)
	respondWithError(c, http.StatusInternalServerError, apierrors.ErrCodeInternalError, message)
}

// respondDomainError maps a ledger error to its HTTP form: authorization
// failures map to 403, missing entities to 404, violated preconditions to
// 422, malformed input to 400 and broken accounting invariants to 500.
func respondDomainError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		respondWithError(c, http.StatusForbidden, apierrors.ErrCodeForbidden, message, err.Error())
	case errors.Is(err, domain.ErrClassNotFound), errors.Is(err, domain.ErrNonceNotFound):
		respondWithError(c, http.StatusNotFound, apierrors.ErrCodeNotFound, message, err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrMaxSupplyExceeded),
		errors.Is(err, domain.ErrNotMatured),
		errors.Is(err, domain.ErrNotRedeemable),
		errors.Is(err, domain.ErrNothingToClaim),
		errors.Is(err, domain.ErrZeroSupply),
		errors.Is(err, domain.ErrAssetMismatch):
		respondWithError(c, http.StatusUnprocessableEntity, apierrors.ErrCodeUnprocessable, message, err.Error())
	case errors.Is(err, domain.ErrZeroAmount),
		errors.Is(err, domain.ErrZeroDeposit),
		errors.Is(err, domain.ErrMaxSupplyZero),
		errors.Is(err, domain.ErrSelfApproval),
		errors.Is(err, domain.ErrInvalidAsset),
		errors.Is(err, domain.ErrInvalidAddress):
		respondWithError(c, http.StatusBadRequest, apierrors.ErrCodeBadRequest, message, err.Error())
	default:
		respondInternalError(c, err, message)
	}
}
