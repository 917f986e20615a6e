package handlers

import (
	"errors"
	"net/http"
	"projecthub/internal/services"
	"projecthub/internal/utils"
	helpers "projecthub/internal/utils/helpers"

	"go.uber.org/zap"
)

// writeServiceError переводит доменные ошибки в HTTP со стабильным кодом.
// Всё, что не распознано — 500 без деталей, подробности только в логах.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTokenNotFound),
		errors.Is(err, services.ErrProjectNotFound):
		helpers.Error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, services.ErrTokenInvalid),
		errors.Is(err, utils.ErrMalformedPayload):
		helpers.Error(w, http.StatusBadRequest, "invalid_token", err.Error())
	case errors.Is(err, services.ErrTokenExpired):
		helpers.Error(w, http.StatusBadRequest, "token_expired", err.Error())
	case errors.Is(err, services.ErrForbidden):
		helpers.Error(w, http.StatusForbidden, "forbidden", err.Error())
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrPasswordTooShort):
		helpers.Error(w, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		helpers.Error(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		log.Error("Внутренняя ошибка", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "internal", "внутренняя ошибка сервера")
	}
}
