// Package validation exécute d'abord les règles par champ (tags validator,
// messages traduits en français), puis les règles croisées déclarées pour
// l'entité. Une règle croisée qui lit un champ déjà en échec est sautée pour
// ne pas empiler des anomalies redondantes. L'exécution ne s'arrête jamais à
// la première anomalie : l'appelant reçoit l'ensemble complet en une passe.
package validation

import (
	"errors"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type Severity string

const (
	// Bloquante empêche l'enregistrement.
	Bloquante Severity = "bloquante"
	// Avertissement est renvoyé à l'appelant mais n'empêche pas
	// l'enregistrement (l'opérateur peut saisir une valeur atypique).
	Avertissement Severity = "avertissement"
)

type Issue struct {
	Field    string   `json:"field"`
	Message  string   `json:"message"`
	Severity Severity `json:"gravite"`
}

type Issues []Issue

// Bloquantes renvoie les anomalies qui doivent rejeter l'écriture.
func (is Issues) Bloquantes() Issues {
	out := Issues{}
	for _, issue := range is {
		if issue.Severity == Bloquante {
			out = append(out, issue)
		}
	}
	return out
}

// Avertissements renvoie les anomalies consultatives.
func (is Issues) Avertissements() Issues {
	out := Issues{}
	for _, issue := range is {
		if issue.Severity == Avertissement {
			out = append(out, issue)
		}
	}
	return out
}

// CrossRule est une règle de cohérence entre plusieurs champs d'un même
// enregistrement. Fields liste les champs lus (noms JSON), Target le champ
// auquel l'anomalie est rattachée. Check renvoie le message d'anomalie, ou
// une chaîne vide si la règle passe.
type CrossRule[T any] struct {
	Fields   []string
	Target   string
	Severity Severity
	Check    func(record T) string
}

func (r CrossRule[T]) referencesFailed(failed map[string]struct{}) bool {
	for _, field := range r.Fields {
		if _, ok := failed[field]; ok {
			return true
		}
	}
	return false
}

// Engine valide une entité : tags validator puis règles croisées. Les jeux
// de règles sont figés au démarrage ; Validate est pur et réentrant.
type Engine[T any] struct {
	validate *validator.Validate
	trans    ut.Translator
	rules    []CrossRule[T]
}

func NewEngine[T any](validate *validator.Validate, trans ut.Translator, rules []CrossRule[T]) *Engine[T] {
	return &Engine[T]{
		validate: validate,
		trans:    trans,
		rules:    rules,
	}
}

// Validate ne modifie jamais record et renvoie zéro anomalie quand
// l'enregistrement est acceptable.
func (e *Engine[T]) Validate(record T) Issues {
	issues := Issues{}
	failed := map[string]struct{}{}

	if err := e.validate.Struct(record); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				issues = append(issues, Issue{
					Field:    fe.Field(),
					Message:  fe.Translate(e.trans),
					Severity: Bloquante,
				})
				failed[fe.Field()] = struct{}{}
			}
		} else {
			issues = append(issues, Issue{
				Field:    "",
				Message:  "enregistrement invalide",
				Severity: Bloquante,
			})
			return issues
		}
	}

	for _, rule := range e.rules {
		if rule.referencesFailed(failed) {
			continue
		}
		if msg := rule.Check(record); msg != "" {
			issues = append(issues, Issue{
				Field:    rule.Target,
				Message:  msg,
				Severity: rule.Severity,
			})
		}
	}

	return issues
}
