package handlers

import (
	"encoding/json"
	"net/http"
	"projecthub/internal/config"
	"projecthub/internal/logger"
	"projecthub/internal/middleware"
	"projecthub/internal/services"
	"projecthub/internal/utils"
	helpers "projecthub/internal/utils/helpers"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         string `json:"role"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login godoc
// @Summary Авторизация пользователя
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Данные для входа"
// @Success 200 {object} loginResponse
// @Failure 401 {string} string "Неверный логин или пароль"
// @Router /api/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Ошибка декодирования JSON в Login", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Невалидный JSON")
		return
	}
	log.Info("Попытка входа", zap.String("username", req.Username))

	cfg, _ := config.LoadConfig()
	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	refreshTTL, _ := time.ParseDuration(cfg.RefreshTokenTTL)

	access, refresh, user, err := h.authService.LoginUser(
		r.Context(),
		req.Username,
		req.Password,
		cfg.JWTSecret,
		accessTTL,
		refreshTTL,
	)
	if err != nil {
		log.Warn("Ошибка входа пользователя", zap.String("username", req.Username), zap.Error(err))
		writeServiceError(w, log, err)
		return
	}

	log.Info("Вход выполнен", zap.String("username", req.Username), zap.String("role", user.Role))
	resp := loginResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		ID:           user.ID,
		Username:     user.Username,
		Email:        user.Email,
		Role:         user.Role,
	}

	helpers.JSON(w, http.StatusOK, resp)
}

// Refresh godoc
// @Summary Обновление access-токена по refresh-токену
// @Tags auth
// @Accept json
// @Produce json
// @Param input body refreshRequest true "Refresh-токен"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "Неверный или просроченный токен"
// @Router /api/refresh [post]
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		log.Warn("Невалидный payload в Refresh")
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Невалидный JSON")
		return
	}

	cfg, _ := config.LoadConfig()

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(req.RefreshToken, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		log.Warn("Refresh: неверный или просроченный токен", zap.Error(err))
		helpers.Error(w, http.StatusUnauthorized, "unauthorized", "Неверный или просроченный токен")
		return
	}

	tokenType, _ := claims["token_type"].(string)
	userIDf, ok1 := claims["user_id"].(float64)
	role, ok2 := claims["role"].(string)
	if tokenType != "refresh" || !ok1 || !ok2 {
		log.Warn("Refresh: недопустимый payload", zap.Any("claims", claims))
		helpers.Error(w, http.StatusUnauthorized, "unauthorized", "Недопустимый payload")
		return
	}
	userID := int(userIDf)

	valid, err := h.authService.ValidateRefreshToken(r.Context(), userID, req.RefreshToken)
	if err != nil || !valid {
		log.Warn("Refresh: токен не зарегистрирован", zap.Int("user_id", userID))
		helpers.Error(w, http.StatusUnauthorized, "unauthorized", "Неверный или просроченный токен")
		return
	}

	accessTTL, _ := time.ParseDuration(cfg.AccessTokenTTL)
	access, err := utils.GenerateToken(cfg.JWTSecret, userID, role, accessTTL, "access")
	if err != nil {
		log.Error("Refresh: ошибка генерации access-токена", zap.Error(err))
		writeServiceError(w, log, err)
		return
	}

	log.Info("Access-токен обновлён", zap.Int("user_id", userID))
	helpers.JSON(w, http.StatusOK, map[string]string{"access_token": access})
}

// Logout godoc
// @Summary Выход: отзыв refresh-токена
// @Tags auth
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body refreshRequest true "Refresh-токен"
// @Success 200 {object} map[string]string
// @Failure 401 {string} string "Нет доступа"
// @Router /api/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized", "Нет доступа")
		return
	}

	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		log.Warn("Невалидный payload в Logout", zap.Int("user_id", userID))
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Невалидный JSON")
		return
	}

	if err := h.authService.Logout(r.Context(), userID, req.RefreshToken); err != nil {
		writeServiceError(w, log, err)
		return
	}

	log.Info("Выход выполнен", zap.Int("user_id", userID))
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Вы вышли из системы"})
}
