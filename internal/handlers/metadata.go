package handlers

import (
	"net/http"
	helpers "projecthub/internal/utils/helpers"
)

// MetadataHandler отдаёт фиксированные справочники для форм.
type MetadataHandler struct{}

func NewMetadataHandler() *MetadataHandler {
	return &MetadataHandler{}
}

type metadataResponse struct {
	Regions         []string `json:"regions"`
	Sectors         []string `json:"sectors"`
	ProjectStatuses []string `json:"project_statuses"`
	ClinicOptions   []string `json:"clinic_options"`
}

var metadata = metadataResponse{
	Regions: []string{
		"Addis Ababa", "Afar", "Amhara", "Benishangul-Gumuz", "Dire Dawa",
		"Gambela", "Harari", "Oromia", "Sidama", "SNNP", "Somali", "Tigray",
		"Southwest", "Central Ethiopia",
	},
	Sectors: []string{
		"Health", "Industry", "Agriculture", "Agro-processing",
		"Food & Beverage", "Construction & Engineering",
		"Chemicals & Detergents", "Textile & Garments",
		"Multi-sectoral", "Minerals",
	},
	ProjectStatuses: []string{"In Progress", "Functional", "Terminated"},
	ClinicOptions:   []string{"Available", "Unavailable"},
}

// Get godoc
// @Summary Справочники регионов, секторов и статусов
// @Tags metadata
// @Produce json
// @Success 200 {object} metadataResponse
// @Router /api/metadata [get]
func (h *MetadataHandler) Get(w http.ResponseWriter, r *http.Request) {
	helpers.JSON(w, http.StatusOK, metadata)
}
