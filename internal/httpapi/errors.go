package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"questpet/internal/engine"
)

const (
	CodeInvalidRequest    = "invalid_request"
	CodeNotFound          = "not_found"
	CodeNotPending        = "not_pending"
	CodeAlreadyOwned      = "already_owned"
	CodeNotOwned          = "not_owned"
	CodeInsufficientCoins = "insufficient_coins"
	CodeInternal          = "internal"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func abortWith(c *gin.Context, status int, code string, msg string) {
	c.AbortWithStatusJSON(status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
}

func badRequest(c *gin.Context, msg string) {
	abortWith(c, http.StatusBadRequest, CodeInvalidRequest, msg)
}

// writeError maps engine errors onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	var coins engine.InsufficientCoinsError
	switch {
	case errors.Is(err, engine.ErrInvalidInput):
		badRequest(c, err.Error())
	case errors.Is(err, engine.ErrTaskNotFound), errors.Is(err, engine.ErrCharacterNotFound):
		abortWith(c, http.StatusNotFound, CodeNotFound, err.Error())
	case errors.Is(err, engine.ErrTaskNotPending):
		abortWith(c, http.StatusConflict, CodeNotPending, err.Error())
	case errors.Is(err, engine.ErrCharacterOwned):
		abortWith(c, http.StatusConflict, CodeAlreadyOwned, err.Error())
	case errors.Is(err, engine.ErrCharacterNotOwned):
		abortWith(c, http.StatusConflict, CodeNotOwned, err.Error())
	case errors.As(err, &coins):
		abortWith(c, http.StatusPaymentRequired, CodeInsufficientCoins, err.Error())
	default:
		_ = c.Error(err)
		abortWith(c, http.StatusInternalServerError, CodeInternal, "internal error")
	}
}
