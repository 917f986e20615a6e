package services

import (
	"context"
	"errors"
	"fmt"
	"projecthub/internal/logger"
	"projecthub/internal/models"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrProjectNotFound = errors.New("проект не найден")
	ErrForbidden       = errors.New("доступ запрещён")
)

// ProjectService держит все правила доступа к проектам: роль и владение
// проверяются здесь, до обращения к хранилищу на запись.
//
// Роль × операция:
//
//	admin — создание, чтение всех, обновление любых, удаление;
//	user  — создание (владелец — он сам), чтение и обновление только своих,
//	        удаление запрещено.
type ProjectService struct {
	repo ProjectRepo
}

type ProjectRepo interface {
	Create(ctx context.Context, p *models.Project) error
	GetByID(ctx context.Context, id string) (*models.Project, error)
	List(ctx context.Context, createdBy string) ([]*models.Project, error)
	UpdateFields(ctx context.Context, id string, input *models.UpdateProjectRequest, employeesTotal *int) error
	Delete(ctx context.Context, id string) (bool, error)
}

func NewProjectService(repo ProjectRepo) *ProjectService {
	return &ProjectService{repo: repo}
}

const RoleAdmin = "admin"

// CallerKey — представление id пользователя в поле created_by проекта.
func CallerKey(callerID int) string {
	return strconv.Itoa(callerID)
}

// List: для роли user фильтр created_by уходит прямо в запрос выборки,
// а не накладывается на уже прочитанный список.
func (s *ProjectService) List(ctx context.Context, callerID int, callerRole string) ([]*models.Project, error) {
	scope := ""
	if callerRole != RoleAdmin {
		scope = CallerKey(callerID)
	}
	return s.repo.List(ctx, scope)
}

func (s *ProjectService) Get(ctx context.Context, callerID int, callerRole string, id string) (*models.Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrProjectNotFound
	}
	if callerRole != RoleAdmin && project.CreatedBy != CallerKey(callerID) {
		logger.Log.Warn("Доступ к чужому проекту запрещён",
			zap.String("project_id", id),
			zap.Int("caller_id", callerID),
		)
		return nil, ErrForbidden
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, callerID int, callerRole string, p *models.Project) error {
	if err := validateProject(p); err != nil {
		return err
	}

	p.ID = uuid.New().String()
	// владелец — всегда вызывающий
	p.CreatedBy = CallerKey(callerID)
	p.EmployeesTotal = p.EmployeesMale + p.EmployeesFemale

	logger.Log.Info("Создание проекта (service)",
		zap.String("company", p.CompanyName),
		zap.Int("caller_id", callerID),
		zap.String("role", callerRole),
	)
	return s.repo.Create(ctx, p)
}

// Update сперва читает цель: отсутствие — NotFound, чужой проект для роли
// user — Forbidden, и только потом выполняется запись.
func (s *ProjectService) Update(ctx context.Context, callerID int, callerRole string, id string, input *models.UpdateProjectRequest) (*models.Project, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrProjectNotFound
	}

	if callerRole != RoleAdmin && existing.CreatedBy != CallerKey(callerID) {
		logger.Log.Warn("Попытка обновить чужой проект",
			zap.String("project_id", id),
			zap.Int("caller_id", callerID),
		)
		return nil, ErrForbidden
	}

	if err := validateProjectUpdate(input); err != nil {
		return nil, err
	}

	// employees_total пересчитывается, если меняется любая из составляющих
	var employeesTotal *int
	if input.EmployeesMale != nil || input.EmployeesFemale != nil {
		male := existing.EmployeesMale
		female := existing.EmployeesFemale
		if input.EmployeesMale != nil {
			male = *input.EmployeesMale
		}
		if input.EmployeesFemale != nil {
			female = *input.EmployeesFemale
		}
		total := male + female
		employeesTotal = &total
	}

	if err := s.repo.UpdateFields(ctx, id, input, employeesTotal); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete разрешён только администратору.
func (s *ProjectService) Delete(ctx context.Context, callerRole string, id string) error {
	if callerRole != RoleAdmin {
		logger.Log.Warn("Удаление проекта запрещено для роли", zap.String("role", callerRole), zap.String("project_id", id))
		return ErrForbidden
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrProjectNotFound
	}
	return nil
}

func validateProject(p *models.Project) error {
	required := map[string]string{
		"company_name":   p.CompanyName,
		"sector":         p.Sector,
		"region":         p.Region,
		"zone":           p.Zone,
		"owner":          p.Owner,
		"contact_person": p.ContactPerson,
		"project_status": p.ProjectStatus,
		"clinic":         p.Clinic,
	}
	var missing []string
	for field, value := range required {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: отсутствуют обязательные поля: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if p.EmployeesMale < 0 || p.EmployeesFemale < 0 {
		return fmt.Errorf("%w: число сотрудников не может быть отрицательным", ErrValidation)
	}
	return nil
}

func validateProjectUpdate(input *models.UpdateProjectRequest) error {
	check := map[string]*string{
		"company_name":   input.CompanyName,
		"sector":         input.Sector,
		"region":         input.Region,
		"zone":           input.Zone,
		"owner":          input.Owner,
		"contact_person": input.ContactPerson,
		"project_status": input.ProjectStatus,
		"clinic":         input.Clinic,
	}
	for field, value := range check {
		if value != nil && strings.TrimSpace(*value) == "" {
			return fmt.Errorf("%w: поле %s не может быть пустым", ErrValidation, field)
		}
	}
	if (input.EmployeesMale != nil && *input.EmployeesMale < 0) ||
		(input.EmployeesFemale != nil && *input.EmployeesFemale < 0) {
		return fmt.Errorf("%w: число сотрудников не может быть отрицательным", ErrValidation)
	}
	return nil
}
