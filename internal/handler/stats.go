package handler

import (
	"net/http"
)

// GetStatistiques agrège les compteurs affichés sur le tableau de bord.
func (h *Handler) GetStatistiques(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	inseminations, err := h.repository.GetAllInseminations()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	lactations, err := h.repository.GetAllLactations()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	semences, err := h.repository.GetAllSemences()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	var dosesEnStock int64
	for _, sem := range semences {
		dosesEnStock += int64(sem.QuantiteDoses)
	}

	var laitKgMoyen float64
	if len(lactations) > 0 {
		var totalLait float64
		for _, lac := range lactations {
			totalLait += lac.LaitKg
		}
		laitKgMoyen = totalLait / float64(len(lactations))
	}

	stats := struct {
		Utilisateurs  int     `json:"utilisateurs"`
		Inseminations int     `json:"inseminations"`
		Lactations    int     `json:"lactations"`
		Semences      int     `json:"semences"`
		DosesEnStock  int64   `json:"doses_en_stock"`
		LaitKgMoyen   float64 `json:"lait_kg_moyen"`
	}{
		Utilisateurs:  len(users),
		Inseminations: len(inseminations),
		Lactations:    len(lactations),
		Semences:      len(semences),
		DosesEnStock:  dosesEnStock,
		LaitKgMoyen:   laitKgMoyen,
	}

	h.successResponse(w, r, "statistiques récupérées", stats)
}
