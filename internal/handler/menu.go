package handler

import (
	"net/http"

	"github.com/cnag-dev/gestion-elevage/backend/internal/authz"
	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
)

// GetMenu renvoie les entrées de navigation accessibles au rôle porté par le
// jeton, dans l'ordre du menu maître. Un rôle inconnu obtient un menu vide.
func (h *Handler) GetMenu(w http.ResponseWriter, r *http.Request) {
	role := r.Context().Value(RoleCtxKey).(domain.Role)
	h.successResponse(w, r, "menu récupéré", authz.MenuFor(role))
}
