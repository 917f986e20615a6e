package services

import (
	"context"
	"errors"
	"projecthub/internal/models"
	"testing"
)

// Мок-хранилище проектов (заглушка)
type mockProjectRepo struct {
	projects map[string]*models.Project
}

func newMockProjectRepo() *mockProjectRepo {
	return &mockProjectRepo{projects: make(map[string]*models.Project)}
}

func (m *mockProjectRepo) Create(_ context.Context, p *models.Project) error {
	m.projects[p.ID] = p
	return nil
}

func (m *mockProjectRepo) GetByID(_ context.Context, id string) (*models.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *p
	return &copied, nil
}

func (m *mockProjectRepo) List(_ context.Context, createdBy string) ([]*models.Project, error) {
	var out []*models.Project
	for _, p := range m.projects {
		if createdBy != "" && p.CreatedBy != createdBy {
			continue
		}
		copied := *p
		out = append(out, &copied)
	}
	return out, nil
}

func (m *mockProjectRepo) UpdateFields(_ context.Context, id string, input *models.UpdateProjectRequest, employeesTotal *int) error {
	p, ok := m.projects[id]
	if !ok {
		return errors.New("not found")
	}
	if input.CompanyName != nil {
		p.CompanyName = *input.CompanyName
	}
	if input.Sector != nil {
		p.Sector = *input.Sector
	}
	if input.ProjectStatus != nil {
		p.ProjectStatus = *input.ProjectStatus
	}
	if input.EmployeesMale != nil {
		p.EmployeesMale = *input.EmployeesMale
	}
	if input.EmployeesFemale != nil {
		p.EmployeesFemale = *input.EmployeesFemale
	}
	if employeesTotal != nil {
		p.EmployeesTotal = *employeesTotal
	}
	return nil
}

func (m *mockProjectRepo) Delete(_ context.Context, id string) (bool, error) {
	if _, ok := m.projects[id]; !ok {
		return false, nil
	}
	delete(m.projects, id)
	return true, nil
}

func validProject() *models.Project {
	return &models.Project{
		CompanyName:     "Habesha Foods",
		Sector:          "Manufacturing",
		Region:          "Addis Ababa",
		Zone:            "Bole",
		Owner:           "Abebe Kebede",
		ContactPerson:   "Abebe Kebede",
		CompanyEmail:    "info@habesha.example",
		ProjectStatus:   "Functional",
		Clinic:          "Available",
		EmployeesMale:   10,
		EmployeesFemale: 15,
	}
}

func TestProjectCreate_OwnerForced(t *testing.T) {
	repo := newMockProjectRepo()
	service := NewProjectService(repo)

	p := validProject()
	p.CreatedBy = "999" // подделка владельца в теле запроса
	if err := service.Create(context.Background(), 5, "user", p); err != nil {
		t.Fatalf("ошибка создания проекта: %v", err)
	}

	if p.CreatedBy != "5" {
		t.Errorf("владелец должен быть вызывающим, а не из тела: %q", p.CreatedBy)
	}
	if p.EmployeesTotal != 25 {
		t.Errorf("employees_total не пересчитан: %d", p.EmployeesTotal)
	}
	if p.ID == "" {
		t.Error("id проекта не присвоен")
	}
}

func TestProjectCreate_Validation(t *testing.T) {
	repo := newMockProjectRepo()
	service := NewProjectService(repo)

	p := validProject()
	p.CompanyName = "  "
	err := service.Create(context.Background(), 5, "user", p)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидался ErrValidation для пустого company_name, получили: %v", err)
	}

	p = validProject()
	p.EmployeesMale = -1
	err = service.Create(context.Background(), 5, "user", p)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидался ErrValidation для отрицательных сотрудников, получили: %v", err)
	}
}

func TestProjectList_ScopedByRole(t *testing.T) {
	repo := newMockProjectRepo()
	service := NewProjectService(repo)

	mine := validProject()
	if err := service.Create(context.Background(), 5, "user", mine); err != nil {
		t.Fatalf("ошибка создания: %v", err)
	}
	foreign := validProject()
	if err := service.Create(context.Background(), 6, "user", foreign); err != nil {
		t.Fatalf("ошибка создания: %v", err)
	}

	own, err := service.List(context.Background(), 5, "user")
	if err != nil {
		t.Fatalf("ошибка списка: %v", err)
	}
	if len(own) != 1 || own[0].CreatedBy != "5" {
		t.Errorf("роль user должна видеть только свои проекты, получено: %d", len(own))
	}

	all, err := service.List(context.Background(), 1, "admin")
	if err != nil {
		t.Fatalf("ошибка списка: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("admin должен видеть все проекты, получено: %d", len(all))
	}
}

func TestProjectGet_ForeignForbidden(t *testing.T) {
	repo := newMockProjectRepo()
	service := NewProjectService(repo)

	p := validProject()
	if err := service.Create(context.Background(), 6, "user", p); err != nil {
		t.Fatalf("ошибка создания: %v", err)
	}

	if _, err := service.Get(context.Background(), 5, "user", p.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("чтение чужого проекта должно давать ErrForbidden, получили: %v", err)
	}
	if _, err := service.Get(context.Background(), 1, "admin", p.ID); err != nil {
		t.Fatalf("admin должен читать любой проект: %v", err)
	}
	if _, err := service.Get(context.Background(), 5, "user", "no-such-id"); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("ожидался ErrProjectNotFound, получили: %v", err)
	}
}

func TestProjectUpdate_Gate(t *testing.T) {
	repo := newMockProjectRepo()
	service := NewProjectService(repo)

	p := validProject()
	if err := service.Create(context.Background(), 5, "user", p); err != nil {
		t.Fatalf("ошибка создания: %v", err)
	}

	name := "New Name"
	if _, err := service.Update(context.Background(), 6, "user", p.ID, &models.UpdateProjectRequest{CompanyName: &name}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("обновление чужого проекта должно давать ErrForbidden, получили: %v", err)
	}

	if _, err := service.Update(context.Background(), 5, "user", "no-such-id", &models.UpdateProjectRequest{CompanyName: &name}); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("ожидался ErrProjectNotFound, получили: %v", err)
	}

	female := 20
	updated, err := service.Update(context.Background(), 5, "user", p.ID, &models.UpdateProjectRequest{
		CompanyName:     &name,
		EmployeesFemale: &female,
	})
	if err != nil {
		t.Fatalf("ошибка обновления своего проекта: %v", err)
	}
	if updated.CompanyName != "New Name" {
		t.Errorf("имя не обновилось: %q", updated.CompanyName)
	}
	if updated.EmployeesTotal != 30 {
		t.Errorf("employees_total не пересчитан при обновлении: %d", updated.EmployeesTotal)
	}
}

func TestProjectDelete_AdminOnly(t *testing.T) {
	repo := newMockProjectRepo()
	service := NewProjectService(repo)

	p := validProject()
	if err := service.Create(context.Background(), 5, "user", p); err != nil {
		t.Fatalf("ошибка создания: %v", err)
	}

	// владелец с ролью user удалять не может
	if err := service.Delete(context.Background(), "user", p.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("удаление ролью user должно давать ErrForbidden, получили: %v", err)
	}
	if _, ok := repo.projects[p.ID]; !ok {
		t.Fatal("проект не должен удаляться при отказе")
	}

	if err := service.Delete(context.Background(), "admin", p.ID); err != nil {
		t.Fatalf("admin не смог удалить проект: %v", err)
	}
	if err := service.Delete(context.Background(), "admin", p.ID); !errors.Is(err, ErrProjectNotFound) {
		t.Fatalf("повторное удаление должно давать ErrProjectNotFound, получили: %v", err)
	}
}
