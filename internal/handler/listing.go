package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/cnag-dev/gestion-elevage/backend/internal/query"
)

var errPaginationInvalide = errors.New("paramètres de pagination invalides : page et limit doivent être des entiers supérieurs ou égaux à 1")

// pagination lit page et limit dans la query string. Valeurs par défaut de
// la configuration, limit plafonné, et rejet de tout ce qui n'est pas un
// entier supérieur ou égal à 1.
func (h *Handler) pagination(r *http.Request) (query.Params, error) {
	params := query.Params{
		Page:  1,
		Limit: h.config.Pagination.DefaultLimit,
	}

	if raw := r.URL.Query().Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return query.Params{}, errPaginationInvalide
		}
		params.Page = page
	}

	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return query.Params{}, errPaginationInvalide
		}
		params.Limit = limit
	}

	if params.Limit > h.config.Pagination.MaxLimit {
		params.Limit = h.config.Pagination.MaxLimit
	}

	return params, nil
}

// filterValues extrait les critères de filtrage déclarés pour l'entité. Une
// valeur vide vaut absence de filtre.
func filterValues(r *http.Request, keys ...string) map[string]string {
	criteria := make(map[string]string, len(keys))
	for _, key := range keys {
		if value := r.URL.Query().Get(key); value != "" {
			criteria[key] = value
		}
	}
	return criteria
}
