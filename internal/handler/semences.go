package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
	"github.com/cnag-dev/gestion-elevage/backend/internal/query"
	"github.com/cnag-dev/gestion-elevage/backend/internal/repository"
	"github.com/cnag-dev/gestion-elevage/backend/internal/validation"
	"github.com/google/uuid"
)

var semenceSchema = query.Schema[*domain.Semence]{
	"nom_taureau":     query.Contains(func(s *domain.Semence) string { return s.NomTaureau }),
	"race":            query.Exact(func(s *domain.Semence) string { return string(s.Race) }),
	"code_taureau":    query.Exact(func(s *domain.Semence) string { return s.CodeTaureau }),
	"date_production": query.SameDay(func(s *domain.Semence) time.Time { return s.DateProduction }),
}

type semenceResponse struct {
	*domain.Semence
	Avertissements validation.Issues `json:"avertissements,omitempty"`
}

func (h *Handler) GetAllSemences(w http.ResponseWriter, r *http.Request) {
	params, err := h.pagination(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	semences, err := h.repository.GetAllSemences()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	page, err := query.Run(semences, semenceSchema, filterValues(r, "nom_taureau", "race", "code_taureau", "date_production"), params)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "liste des lots de semence récupérée", page)
}

func (h *Handler) CreateSemence(w http.ResponseWriter, r *http.Request) {
	var sem domain.Semence
	if err := h.readJSON(r, &sem); err != nil {
		h.badRequest(w, r, err)
		return
	}

	issues := h.semences.Validate(sem)
	if bloquantes := issues.Bloquantes(); len(bloquantes) > 0 {
		h.validationFailed(w, r, bloquantes)
		return
	}

	// Le numéro de lot est attribué par le serveur
	sem.NumeroLot = uuid.NewString()

	if err := h.repository.CreateSemence(&sem); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateCodeTaureau):
			h.errorResponse(w, r, "code taureau déjà utilisé")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "lot de semence enregistré", semenceResponse{
		Semence:        &sem,
		Avertissements: issues.Avertissements(),
	})
}

func (h *Handler) GetSemence(w http.ResponseWriter, r *http.Request) {
	sem := r.Context().Value(SemenceCtx).(*domain.Semence)
	h.successResponse(w, r, "lot de semence récupéré", sem)
}

func (h *Handler) UpdateSemence(w http.ResponseWriter, r *http.Request) {
	sem := r.Context().Value(SemenceCtx).(*domain.Semence)

	var req struct {
		CodeTaureau    *string    `json:"code_taureau"`
		NomTaureau     *string    `json:"nom_taureau"`
		Race           *string    `json:"race"`
		DateProduction *time.Time `json:"date_production"`
		QuantiteDoses  *int32     `json:"quantite_doses"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.CodeTaureau != nil {
		sem.CodeTaureau = *req.CodeTaureau
	}
	if req.NomTaureau != nil {
		sem.NomTaureau = *req.NomTaureau
	}
	if req.Race != nil {
		sem.Race = domain.Race(*req.Race)
	}
	if req.DateProduction != nil {
		sem.DateProduction = *req.DateProduction
	}
	if req.QuantiteDoses != nil {
		sem.QuantiteDoses = *req.QuantiteDoses
	}

	issues := h.semences.Validate(*sem)
	if bloquantes := issues.Bloquantes(); len(bloquantes) > 0 {
		h.validationFailed(w, r, bloquantes)
		return
	}

	if err := h.repository.UpdateSemence(sem); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateCodeTaureau):
			h.errorResponse(w, r, "code taureau déjà utilisé")
		case errors.Is(err, repository.ErrNotFound):
			h.errorResponse(w, r, "échec de la mise à jour, veuillez réessayer")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "lot de semence mis à jour", semenceResponse{
		Semence:        sem,
		Avertissements: issues.Avertissements(),
	})
}

func (h *Handler) DeleteSemence(w http.ResponseWriter, r *http.Request) {
	sem := r.Context().Value(SemenceCtx).(*domain.Semence)

	if err := h.repository.DeleteSemence(sem.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.errorResponse(w, r, "lot de semence introuvable")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "lot de semence supprimé", nil)
}
