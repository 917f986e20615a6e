package repository

import (
	"context"
	"fmt"
	"projecthub/internal/logger"
	"projecthub/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type ProjectRepository struct {
	db *pgxpool.Pool
}

func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id, company_name, sector, region, zone, owner, contact_person,
	company_email, project_status, clinic, employees_male, employees_female,
	employees_total, created_by, created_at, updated_at`

func scanProject(row interface{ Scan(...interface{}) error }) (*models.Project, error) {
	var p models.Project
	err := row.Scan(
		&p.ID,
		&p.CompanyName,
		&p.Sector,
		&p.Region,
		&p.Zone,
		&p.Owner,
		&p.ContactPerson,
		&p.CompanyEmail,
		&p.ProjectStatus,
		&p.Clinic,
		&p.EmployeesMale,
		&p.EmployeesFemale,
		&p.EmployeesTotal,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p *models.Project) error {
	logger.Log.Info("Создание проекта (repo)", zap.String("company", p.CompanyName), zap.String("created_by", p.CreatedBy))
	query := `
	INSERT INTO projects (id, company_name, sector, region, zone, owner, contact_person,
		company_email, project_status, clinic, employees_male, employees_female,
		employees_total, created_by)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	RETURNING created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		p.ID,
		p.CompanyName,
		p.Sector,
		p.Region,
		p.Zone,
		p.Owner,
		p.ContactPerson,
		p.CompanyEmail,
		p.ProjectStatus,
		p.Clinic,
		p.EmployeesMale,
		p.EmployeesFemale,
		p.EmployeesTotal,
		p.CreatedBy,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		logger.Log.Error("Ошибка создания проекта (repo)", zap.Error(err))
	}
	return err
}

func (r *ProjectRepository) GetByID(ctx context.Context, id string) (*models.Project, error) {
	logger.Log.Debug("Получение проекта по ID (repo)", zap.String("project_id", id))
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = $1`
	return scanProject(r.db.QueryRow(ctx, query, id))
}

// List возвращает проекты, свежие первыми. Непустой createdBy попадает прямо
// в запрос — фильтр владения строится на уровне выборки, а не после неё.
func (r *ProjectRepository) List(ctx context.Context, createdBy string) ([]*models.Project, error) {
	logger.Log.Debug("Список проектов (repo)", zap.String("created_by", createdBy))
	query := `SELECT ` + projectColumns + ` FROM projects`
	args := []interface{}{}
	if createdBy != "" {
		query += ` WHERE created_by = $1`
		args = append(args, createdBy)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка получения проектов (repo)", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var projects []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			logger.Log.Error("Ошибка сканирования проекта (repo)", zap.Error(err))
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *ProjectRepository) UpdateFields(ctx context.Context, id string, input *models.UpdateProjectRequest, employeesTotal *int) error {
	logger.Log.Info("Обновление проекта (repo)", zap.String("project_id", id))
	query := `UPDATE projects SET`
	args := []interface{}{}
	argNum := 1

	add := func(column string, value interface{}) {
		query += fmt.Sprintf(" %s = $%d,", column, argNum)
		args = append(args, value)
		argNum++
	}

	if input.CompanyName != nil {
		add("company_name", *input.CompanyName)
	}
	if input.Sector != nil {
		add("sector", *input.Sector)
	}
	if input.Region != nil {
		add("region", *input.Region)
	}
	if input.Zone != nil {
		add("zone", *input.Zone)
	}
	if input.Owner != nil {
		add("owner", *input.Owner)
	}
	if input.ContactPerson != nil {
		add("contact_person", *input.ContactPerson)
	}
	if input.CompanyEmail != nil {
		add("company_email", *input.CompanyEmail)
	}
	if input.ProjectStatus != nil {
		add("project_status", *input.ProjectStatus)
	}
	if input.Clinic != nil {
		add("clinic", *input.Clinic)
	}
	if input.EmployeesMale != nil {
		add("employees_male", *input.EmployeesMale)
	}
	if input.EmployeesFemale != nil {
		add("employees_female", *input.EmployeesFemale)
	}
	if employeesTotal != nil {
		add("employees_total", *employeesTotal)
	}

	if len(args) == 0 {
		logger.Log.Warn("Нет полей для обновления проекта (repo)", zap.String("project_id", id))
		return nil // ничего не обновляем
	}

	query += fmt.Sprintf(" updated_at = now() WHERE id = $%d", argNum)
	args = append(args, id)

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Log.Error("Ошибка обновления проекта (repo)", zap.Error(err), zap.String("project_id", id))
	}
	return err
}

func (r *ProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	logger.Log.Info("Удаление проекта (repo)", zap.String("project_id", id))
	cmd, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		logger.Log.Error("Ошибка удаления проекта (repo)", zap.Error(err), zap.String("project_id", id))
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

func (r *ProjectRepository) CountProjects(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count)
	return count, err
}
