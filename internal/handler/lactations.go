package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
	"github.com/cnag-dev/gestion-elevage/backend/internal/query"
	"github.com/cnag-dev/gestion-elevage/backend/internal/repository"
	"github.com/cnag-dev/gestion-elevage/backend/internal/validation"
)

var lactationSchema = query.Schema[*domain.Lactation]{
	"nni": query.Contains(func(l *domain.Lactation) string { return l.NNI }),
	"numero_lactation": query.Exact(func(l *domain.Lactation) string {
		return strconv.FormatInt(int64(l.NumeroLactation), 10)
	}),
	"date_controle": query.SameDay(func(l *domain.Lactation) time.Time { return l.DateControle }),
}

type lactationResponse struct {
	*domain.Lactation
	Avertissements validation.Issues `json:"avertissements,omitempty"`
}

func (h *Handler) GetAllLactations(w http.ResponseWriter, r *http.Request) {
	params, err := h.pagination(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	lactations, err := h.repository.GetAllLactations()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	page, err := query.Run(lactations, lactationSchema, filterValues(r, "nni", "numero_lactation", "date_controle"), params)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "liste des contrôles laitiers récupérée", page)
}

func (h *Handler) CreateLactation(w http.ResponseWriter, r *http.Request) {
	var lac domain.Lactation
	if err := h.readJSON(r, &lac); err != nil {
		h.badRequest(w, r, err)
		return
	}

	issues := h.lactations.Validate(lac)
	if bloquantes := issues.Bloquantes(); len(bloquantes) > 0 {
		h.validationFailed(w, r, bloquantes)
		return
	}

	if err := h.repository.CreateLactation(&lac); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "contrôle laitier enregistré", lactationResponse{
		Lactation:      &lac,
		Avertissements: issues.Avertissements(),
	})
}

func (h *Handler) GetLactation(w http.ResponseWriter, r *http.Request) {
	lac := r.Context().Value(LactationCtx).(*domain.Lactation)
	h.successResponse(w, r, "contrôle laitier récupéré", lac)
}

func (h *Handler) UpdateLactation(w http.ResponseWriter, r *http.Request) {
	lac := r.Context().Value(LactationCtx).(*domain.Lactation)

	var req struct {
		NNI             *string    `json:"nni"`
		DateControle    *time.Time `json:"date_controle"`
		NumeroLactation *int32     `json:"numero_lactation"`
		LaitKg          *float64   `json:"lait_kg"`
		MGKg            *float64   `json:"mg_kg"`
		TauxMG          *float64   `json:"taux_mg"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.NNI != nil {
		lac.NNI = *req.NNI
	}
	if req.DateControle != nil {
		lac.DateControle = *req.DateControle
	}
	if req.NumeroLactation != nil {
		lac.NumeroLactation = *req.NumeroLactation
	}
	if req.LaitKg != nil {
		lac.LaitKg = *req.LaitKg
	}
	if req.MGKg != nil {
		lac.MGKg = *req.MGKg
	}
	if req.TauxMG != nil {
		lac.TauxMG = *req.TauxMG
	}

	issues := h.lactations.Validate(*lac)
	if bloquantes := issues.Bloquantes(); len(bloquantes) > 0 {
		h.validationFailed(w, r, bloquantes)
		return
	}

	if err := h.repository.UpdateLactation(lac); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.errorResponse(w, r, "échec de la mise à jour, veuillez réessayer")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "contrôle laitier mis à jour", lactationResponse{
		Lactation:      lac,
		Avertissements: issues.Avertissements(),
	})
}

func (h *Handler) DeleteLactation(w http.ResponseWriter, r *http.Request) {
	lac := r.Context().Value(LactationCtx).(*domain.Lactation)

	if err := h.repository.DeleteLactation(lac.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.errorResponse(w, r, "contrôle laitier introuvable")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "contrôle laitier supprimé", nil)
}
