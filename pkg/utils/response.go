package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "fulfillment-system/pkg/errors"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int, total ...uint64) error {
	response := &HTTPResponse{Status: true, Message: message, Body: body}
	if len(total) > 0 {
		response.Body = map[string]interface{}{"list": body, "total_count": total[0]}
	}
	return ctx.JSON(code, response)
}

// ErrorResponse maps domain and transport errors to HTTP statuses. Caller
// mistakes come back as 4xx, environment issues as 5xx.
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("http error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		response := map[string]interface{}{"status": false, "message": httpErr.Message}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed check '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "validation error: " + strings.Join(msgs, "; "),
		})
	}

	var fieldErrs *apperrors.ValidationError
	if errors.As(err, &fieldErrs) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]interface{}{
			"status":  false,
			"message": "validation error",
			"body":    map[string]interface{}{"fields": fieldErrs.Fields},
		})
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrNotFound), errors.Is(err, apperrors.ErrShipmentNotFound):
		code = http.StatusNotFound
	case errors.Is(err, apperrors.ErrInvalidTransition),
		errors.Is(err, apperrors.ErrCrossShipmentScan),
		errors.Is(err, apperrors.ErrVerificationIncomplete),
		errors.Is(err, apperrors.ErrShipmentClosed),
		errors.Is(err, apperrors.ErrNoShipmentSelected):
		code = http.StatusConflict
	case errors.Is(err, apperrors.ErrBadRequest), errors.Is(err, apperrors.ErrCommentRequired):
		code = http.StatusBadRequest
	}

	var invalidInput *apperrors.InvalidInputError
	if errors.As(err, &invalidInput) {
		code = http.StatusBadRequest
	}

	if code == http.StatusInternalServerError {
		logger.Error("unexpected error", zap.Error(err))
		return c.JSON(code, map[string]interface{}{"status": false, "message": "internal server error"})
	}
	return c.JSON(code, map[string]interface{}{"status": false, "message": err.Error()})
}
