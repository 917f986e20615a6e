package models

import "time"

// Project — запись реестра проектов. created_by хранит id создателя как
// непрозрачную строку (без внешнего ключа) и используется только проверками доступа.
type Project struct {
	ID              string    `json:"id"`
	CompanyName     string    `json:"company_name"`
	Sector          string    `json:"sector"`
	Region          string    `json:"region"`
	Zone            string    `json:"zone"`
	Owner           string    `json:"owner"`
	ContactPerson   string    `json:"contact_person"`
	CompanyEmail    string    `json:"company_email"`
	ProjectStatus   string    `json:"project_status"`
	Clinic          string    `json:"clinic"`
	EmployeesMale   int       `json:"employees_male"`
	EmployeesFemale int       `json:"employees_female"`
	EmployeesTotal  int       `json:"employees_total"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type UpdateProjectRequest struct {
	CompanyName     *string `json:"company_name,omitempty"`
	Sector          *string `json:"sector,omitempty"`
	Region          *string `json:"region,omitempty"`
	Zone            *string `json:"zone,omitempty"`
	Owner           *string `json:"owner,omitempty"`
	ContactPerson   *string `json:"contact_person,omitempty"`
	CompanyEmail    *string `json:"company_email,omitempty"`
	ProjectStatus   *string `json:"project_status,omitempty"`
	Clinic          *string `json:"clinic,omitempty"`
	EmployeesMale   *int    `json:"employees_male,omitempty"`
	EmployeesFemale *int    `json:"employees_female,omitempty"`
}
