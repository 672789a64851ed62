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

var inseminationSchema = query.Schema[*domain.Insemination]{
	"nni": query.Contains(func(i *domain.Insemination) string { return i.NNI }),
	"inseminateur_id": query.Exact(func(i *domain.Insemination) string {
		return strconv.FormatInt(i.InseminateurID, 10)
	}),
	"date_insemination": query.SameDay(func(i *domain.Insemination) time.Time { return i.DateInsemination }),
}

// inseminationResponse accompagne l'acte enregistré de ses éventuels
// avertissements : valeurs atypiques acceptées mais signalées à l'opérateur.
type inseminationResponse struct {
	*domain.Insemination
	Avertissements validation.Issues `json:"avertissements,omitempty"`
}

func (h *Handler) GetAllInseminations(w http.ResponseWriter, r *http.Request) {
	params, err := h.pagination(r)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	inseminations, err := h.repository.GetAllInseminations()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	page, err := query.Run(inseminations, inseminationSchema, filterValues(r, "nni", "inseminateur_id", "date_insemination"), params)
	if err != nil {
		h.errorResponse(w, r, err.Error())
		return
	}

	h.successResponse(w, r, "liste des inséminations récupérée", page)
}

func (h *Handler) CreateInsemination(w http.ResponseWriter, r *http.Request) {
	var ins domain.Insemination
	if err := h.readJSON(r, &ins); err != nil {
		h.badRequest(w, r, err)
		return
	}

	issues := h.inseminations.Validate(ins)
	if bloquantes := issues.Bloquantes(); len(bloquantes) > 0 {
		h.validationFailed(w, r, bloquantes)
		return
	}

	if err := h.repository.CreateInsemination(&ins); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "insémination enregistrée", inseminationResponse{
		Insemination:   &ins,
		Avertissements: issues.Avertissements(),
	})
}

func (h *Handler) GetInsemination(w http.ResponseWriter, r *http.Request) {
	ins := r.Context().Value(InseminationCtx).(*domain.Insemination)
	h.successResponse(w, r, "insémination récupérée", ins)
}

func (h *Handler) UpdateInsemination(w http.ResponseWriter, r *http.Request) {
	ins := r.Context().Value(InseminationCtx).(*domain.Insemination)

	var req struct {
		NNI                *string    `json:"nni"`
		DateInsemination   *time.Time `json:"date_insemination"`
		InseminateurID     *int64     `json:"inseminateur_id"`
		ResponsableLocalID *int64     `json:"responsable_local_id"`
		SemenceID          *int64     `json:"semence_id"`
		Observations       *string    `json:"observations"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.NNI != nil {
		ins.NNI = *req.NNI
	}
	if req.DateInsemination != nil {
		ins.DateInsemination = *req.DateInsemination
	}
	if req.InseminateurID != nil {
		ins.InseminateurID = *req.InseminateurID
	}
	if req.ResponsableLocalID != nil {
		ins.ResponsableLocalID = *req.ResponsableLocalID
	}
	if req.SemenceID != nil {
		ins.SemenceID = *req.SemenceID
	}
	if req.Observations != nil {
		ins.Observations = *req.Observations
	}

	// L'enregistrement fusionné repasse par la validation complète
	issues := h.inseminations.Validate(*ins)
	if bloquantes := issues.Bloquantes(); len(bloquantes) > 0 {
		h.validationFailed(w, r, bloquantes)
		return
	}

	if err := h.repository.UpdateInsemination(ins); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.errorResponse(w, r, "échec de la mise à jour, veuillez réessayer")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "insémination mise à jour", inseminationResponse{
		Insemination:   ins,
		Avertissements: issues.Avertissements(),
	})
}

func (h *Handler) DeleteInsemination(w http.ResponseWriter, r *http.Request) {
	ins := r.Context().Value(InseminationCtx).(*domain.Insemination)

	if err := h.repository.DeleteInsemination(ins.ID); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			h.errorResponse(w, r, "insémination introuvable")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "insémination supprimée", nil)
}
