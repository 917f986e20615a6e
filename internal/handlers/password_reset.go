package handlers

import (
	"encoding/json"
	"net/http"
	"projecthub/internal/logger"
	"projecthub/internal/services"
	helpers "projecthub/internal/utils/helpers"
	"strings"

	"go.uber.org/zap"
)

type PasswordResetHandler struct {
	svc *services.PasswordResetService
}

func NewPasswordResetHandler(svc *services.PasswordResetService) *PasswordResetHandler {
	return &PasswordResetHandler{svc: svc}
}

type resetRequestBody struct {
	Email string `json:"email"`
}

type resetCompleteBody struct {
	Email      string `json:"email"`
	ResetToken string `json:"resetToken"`
	Password   string `json:"password"`
	TokenID    int64  `json:"tokenId"`
}

// RequestReset godoc
// @Summary Запрос восстановления пароля
// @Description Выпускает одноразовый секрет и отправляет письмо со ссылкой вида /reset/<payload>.
// @Tags password
// @Accept json
// @Produce json
// @Param input body resetRequestBody true "Email пользователя"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/reset/request [post]
func (h *PasswordResetHandler) RequestReset(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req resetRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		log.Warn("Невалидный payload в RequestReset")
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Невалидный JSON")
		return
	}

	if err := h.svc.RequestReset(r.Context(), req.Email); err != nil {
		log.Warn("Сбой при запросе восстановления пароля", zap.String("email_masked", maskEmail(req.Email)), zap.Error(err))
		writeServiceError(w, log, err)
		return
	}

	log.Info("Запрошено восстановление пароля", zap.String("email_masked", maskEmail(req.Email)))
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Письмо со ссылкой для сброса пароля отправлено"})
}

// CompleteReset godoc
// @Summary Завершение сброса пароля
// @Description Сверяет секрет из письма с записью токена и устанавливает новый пароль. Токен одноразовый.
// @Tags password
// @Accept json
// @Produce json
// @Param input body resetCompleteBody true "Email, секрет, id токена и новый пароль"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/reset/complete [post]
func (h *PasswordResetHandler) CompleteReset(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req resetCompleteBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil ||
		strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.ResetToken) == "" {
		log.Warn("Невалидный payload в CompleteReset")
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Невалидный JSON")
		return
	}

	if err := h.svc.CompleteReset(r.Context(), req.Email, req.ResetToken, req.TokenID, req.Password); err != nil {
		log.Warn("Не удалось завершить сброс пароля", zap.Int64("token_id", req.TokenID), zap.Error(err))
		writeServiceError(w, log, err)
		return
	}

	log.Info("Пароль успешно сброшен", zap.Int64("token_id", req.TokenID))
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Пароль успешно сброшен"})
}

// maskEmail прячет локальную часть адреса в логах.
func maskEmail(email string) string {
	at := strings.Index(email, "@")
	if at <= 1 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}
