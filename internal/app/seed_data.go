package app

import (
	"projecthub/internal/models"

	"github.com/google/uuid"
)

func sampleProjects(createdBy string) []*models.Project {
	base := []*models.Project{
		{
			CompanyName:     "Habesha Textiles PLC",
			Sector:          "Textile & Garments",
			Region:          "Amhara",
			Zone:            "North Shewa",
			Owner:           "Habesha Group",
			ContactPerson:   "Abebe Kebede",
			CompanyEmail:    "contact@habeshatextiles.et",
			ProjectStatus:   "Functional",
			Clinic:          "Available",
			EmployeesMale:   120,
			EmployeesFemale: 210,
		},
		{
			CompanyName:     "Rift Valley Agro Industries",
			Sector:          "Agro-processing",
			Region:          "Oromia",
			Zone:            "East Shewa",
			Owner:           "Rift Valley Holdings",
			ContactPerson:   "Chaltu Bekele",
			CompanyEmail:    "info@riftvalleyagro.et",
			ProjectStatus:   "In Progress",
			Clinic:          "Unavailable",
			EmployeesMale:   45,
			EmployeesFemale: 38,
		},
		{
			CompanyName:     "Addis Medical Supplies",
			Sector:          "Health",
			Region:          "Addis Ababa",
			Zone:            "Bole",
			Owner:           "AMS Partners",
			ContactPerson:   "Selam Tesfaye",
			CompanyEmail:    "office@addismedical.et",
			ProjectStatus:   "Functional",
			Clinic:          "Available",
			EmployeesMale:   30,
			EmployeesFemale: 52,
		},
	}

	for _, p := range base {
		p.ID = uuid.New().String()
		p.CreatedBy = createdBy
		p.EmployeesTotal = p.EmployeesMale + p.EmployeesFemale
	}
	return base
}
