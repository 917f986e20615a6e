package handlers

import (
	"encoding/json"
	"net/http"
	"projecthub/internal/logger"
	"projecthub/internal/middleware"
	"projecthub/internal/models"
	"projecthub/internal/services"
	helpers "projecthub/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type ProjectHandler struct {
	svc *services.ProjectService
}

func NewProjectHandler(svc *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// caller достаёт проверенную личность из контекста (положена JWTAuth).
func caller(r *http.Request) (int, string, bool) {
	userID, ok1 := middleware.UserIDFromContext(r.Context())
	role, ok2 := middleware.RoleFromContext(r.Context())
	return userID, role, ok1 && ok2
}

// List godoc
// @Summary Список проектов
// @Description Администратор видит все проекты, обычный пользователь — только свои.
// @Tags projects
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.Project
// @Failure 401 {object} map[string]string
// @Router /api/projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, role, ok := caller(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized", "Нет доступа")
		return
	}

	projects, err := h.svc.List(r.Context(), userID, role)
	if err != nil {
		log.Error("Ошибка получения списка проектов", zap.Error(err))
		writeServiceError(w, log, err)
		return
	}

	log.Info("Список проектов получен", zap.Int("count", len(projects)))
	helpers.JSON(w, http.StatusOK, projects)
}

// Get godoc
// @Summary Получить проект по id
// @Tags projects
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID проекта"
// @Success 200 {object} models.Project
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, role, ok := caller(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized", "Нет доступа")
		return
	}

	id := mux.Vars(r)["id"]
	project, err := h.svc.Get(r.Context(), userID, role, id)
	if err != nil {
		writeServiceError(w, log, err)
		return
	}

	helpers.JSON(w, http.StatusOK, project)
}

// Create godoc
// @Summary Создать проект
// @Description Владельцем записывается вызывающий пользователь.
// @Tags projects
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.Project true "Данные проекта"
// @Success 201 {object} models.Project
// @Failure 400 {object} map[string]string
// @Router /api/projects [post]
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, role, ok := caller(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized", "Нет доступа")
		return
	}

	var project models.Project
	if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
		log.Warn("Невалидный JSON при создании проекта", zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Невалидный JSON")
		return
	}

	if err := h.svc.Create(r.Context(), userID, role, &project); err != nil {
		log.Warn("Ошибка создания проекта", zap.Error(err))
		writeServiceError(w, log, err)
		return
	}

	log.Info("Проект создан", zap.String("project_id", project.ID))
	helpers.JSON(w, http.StatusCreated, project)
}

// Update godoc
// @Summary Обновить проект
// @Description Обычный пользователь может менять только свои проекты, администратор — любые.
// @Tags projects
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID проекта"
// @Param input body models.UpdateProjectRequest true "Изменяемые поля"
// @Success 200 {object} models.Project
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/projects/{id} [put]
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	userID, role, ok := caller(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized", "Нет доступа")
		return
	}

	id := mux.Vars(r)["id"]

	var input models.UpdateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		log.Warn("Невалидный JSON при обновлении проекта", zap.Error(err), zap.String("project_id", id))
		helpers.Error(w, http.StatusBadRequest, "validation_error", "Невалидный JSON")
		return
	}

	project, err := h.svc.Update(r.Context(), userID, role, id, &input)
	if err != nil {
		log.Warn("Ошибка обновления проекта", zap.Error(err), zap.String("project_id", id))
		writeServiceError(w, log, err)
		return
	}

	log.Info("Проект обновлён", zap.String("project_id", id))
	helpers.JSON(w, http.StatusOK, project)
}

// Delete godoc
// @Summary Удалить проект
// @Description Доступно только администратору.
// @Tags projects
// @Security ApiKeyAuth
// @Produce json
// @Param id path string true "ID проекта"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	log := logger.WithCtx(r.Context())

	_, role, ok := caller(r)
	if !ok {
		helpers.Error(w, http.StatusUnauthorized, "unauthorized", "Нет доступа")
		return
	}

	id := mux.Vars(r)["id"]
	if err := h.svc.Delete(r.Context(), role, id); err != nil {
		log.Warn("Ошибка удаления проекта", zap.Error(err), zap.String("project_id", id))
		writeServiceError(w, log, err)
		return
	}

	log.Info("Проект удалён", zap.String("project_id", id))
	helpers.JSON(w, http.StatusOK, map[string]string{"message": "Проект удалён"})
}
