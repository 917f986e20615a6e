package handlers

import (
	"encoding/json"
	"net/http"
	"projecthub/internal/logger"
	"projecthub/internal/models"
	"projecthub/internal/services"
	helpers "projecthub/internal/utils/helpers"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// UserHandler — административный CRUD пользователей; маршруты закрыты
// ролью admin на уровне роутера.
type UserHandler struct {
	authService *services.AuthService
}

func NewUserHandler(authService *services.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type createUserRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// GetUsers godoc
// @Summary Список пользователей
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.User
// @Failure 403 {string} string "Доступ запрещён"
// @Router /api/admin/users [get]
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	users, err := h.authService.GetUsers(r.Context())
	if err != nil {
		log.Error("Ошибка получения пользователей", zap.Error(err))
		writeServiceError(w, log, err)
		return
	}

	helpers.JSON(w, http.StatusOK, users)
}

// GetUserByID godoc
// @Summary Получить пользователя по id
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} models.User
// @Failure 404 {object} map[string]string
// @Router /api/admin/users/{id} [get]
func (h *UserHandler) GetUserByID(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Некорректный id")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	helpers.JSON(w, http.StatusOK, user)
}

// CreateUser godoc
// @Summary Создать пользователя
// @Description Пароль сохраняется только в виде bcrypt-хеша.
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body createUserRequest true "Данные пользователя"
// @Success 201 {object} models.User
// @Failure 400 {object} map[string]string
// @Router /api/admin/users [post]
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("Невалидный JSON при создании пользователя", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Невалидный JSON")
		return
	}

	user := &models.User{
		Username: req.Username,
		Email:    req.Email,
		Role:     req.Role,
	}

	if err := h.authService.RegisterUser(r.Context(), user, req.Password); err != nil {
		log.Warn("Ошибка создания пользователя", zap.Error(err))
		writeServiceError(w, log, err)
		return
	}

	log.Info("Пользователь создан", zap.Int("user_id", user.ID), zap.String("role", user.Role))
	helpers.JSON(w, http.StatusCreated, user)
}

// UpdateUser godoc
// @Summary Обновить пользователя
// @Tags users
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path int true "ID пользователя"
// @Param input body models.UpdateUserRequest true "Изменяемые поля"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/admin/users/{id} [put]
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Некорректный id")
		return
	}

	var input models.UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Warn("Невалидный JSON при обновлении пользователя", zap.Error(err), zap.Int("user_id", id))
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Невалидный JSON")
		return
	}

	if err := h.authService.UpdateUser(r.Context(), id, &input); err != nil {
		log.Warn("Ошибка обновления пользователя", zap.Error(err), zap.Int("user_id", id))
		writeServiceError(w, log, err)
		return
	}

	log.Info("Пользователь обновлён", zap.Int("user_id", id))
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Пользователь обновлён"})
}

// DeleteUser godoc
// @Summary Удалить пользователя
// @Tags users
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "ID пользователя"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/admin/users/{id} [delete]
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil || id <= 0 {
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Некорректный id")
		return
	}

	if err := h.authService.DeleteUser(r.Context(), id); err != nil {
		log.Warn("Ошибка удаления пользователя", zap.Error(err), zap.Int("user_id", id))
		writeServiceError(w, log, err)
		return
	}

	log.Info("Пользователь удалён", zap.Int("user_id", id))
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Пользователь удалён"})
}
