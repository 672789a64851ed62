// Package query applique le même schéma filtre + pagination à toutes les
// collections du domaine : filtres conjonctifs (sous-chaîne insensible à la
// casse, égalité stricte ou même jour calendaire selon le champ), puis
// découpage en pages sur l'ensemble filtré.
package query

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrPageInvalide   = errors.New("le paramètre page doit être supérieur ou égal à 1")
	ErrLimiteInvalide = errors.New("le paramètre limit doit être supérieur ou égal à 1")
)

type Params struct {
	Page  int
	Limit int
}

// Page est l'enveloppe renvoyée par les endpoints de liste. Total et
// TotalPages portent toujours sur l'ensemble filtré, pas sur la collection
// d'origine ni sur la tranche renvoyée.
type Page[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// Field est le prédicat de filtrage d'un champ. Les prédicats sont purs :
// l'ordre d'évaluation des filtres ne change pas l'ensemble retenu.
type Field[T any] struct {
	match func(record T, value string) bool
}

// Schema associe chaque nom de champ filtrable à son prédicat.
type Schema[T any] map[string]Field[T]

// Contains filtre par sous-chaîne insensible à la casse (champs libres).
func Contains[T any](get func(T) string) Field[T] {
	return Field[T]{match: func(record T, value string) bool {
		return strings.Contains(strings.ToLower(get(record)), strings.ToLower(value))
	}}
}

// Exact filtre par égalité stricte (champs énumérés : rôle, race, statut).
func Exact[T any](get func(T) string) Field[T] {
	return Field[T]{match: func(record T, value string) bool {
		return get(record) == value
	}}
}

// SameDay filtre par jour calendaire : la date du champ et la valeur du
// filtre sont toutes deux ramenées en UTC avant comparaison. Une valeur de
// filtre qui n'est pas une date ne retient aucun enregistrement.
func SameDay[T any](get func(T) time.Time) Field[T] {
	return Field[T]{match: func(record T, value string) bool {
		wanted, ok := parseDay(value)
		if !ok {
			return false
		}
		return sameCalendarDay(get(record), wanted)
	}}
}

func parseDay(value string) (time.Time, bool) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// Run filtre records selon criteria puis pagine le résultat. Les critères
// vides ou absents du schéma ne contraignent rien. Une page au-delà de la
// dernière renvoie une tranche vide mais conserve le total réel, pour que
// l'appelant puisse détecter le dépassement.
func Run[T any](records []T, schema Schema[T], criteria map[string]string, p Params) (Page[T], error) {
	if p.Page < 1 {
		return Page[T]{}, ErrPageInvalide
	}
	if p.Limit < 1 {
		return Page[T]{}, ErrLimiteInvalide
	}

	filtered := make([]T, 0, len(records))
	for _, record := range records {
		if matchesAll(record, schema, criteria) {
			filtered = append(filtered, record)
		}
	}

	total := len(filtered)
	totalPages := (total + p.Limit - 1) / p.Limit

	start := (p.Page - 1) * p.Limit
	end := start + p.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Data:       filtered[start:end],
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: totalPages,
	}, nil
}

func matchesAll[T any](record T, schema Schema[T], criteria map[string]string) bool {
	for name, value := range criteria {
		if value == "" {
			continue
		}
		field, ok := schema[name]
		if !ok {
			// clé inconnue : traitée comme absente
			continue
		}
		if !field.match(record, value) {
			return false
		}
	}
	return true
}
