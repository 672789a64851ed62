package validation

import (
	"fmt"
	"math"
	"time"
)

// Distinct impose que deux identifiants de rôles distincts ne portent pas la
// même valeur. Bloquante, rattachée à target.
func Distinct[T any](target string, reads []string, ids func(T) (int64, int64), message string) CrossRule[T] {
	return CrossRule[T]{
		Fields:   reads,
		Target:   target,
		Severity: Bloquante,
		Check: func(record T) string {
			a, b := ids(record)
			if a == b {
				return message
			}
			return ""
		},
	}
}

// DerivedTolerance compare une valeur saisie à la valeur recalculée à partir
// d'autres champs : l'écart absolu doit rester inférieur ou égal à tolerance
// (la borne passe). Avertissement seulement, pour laisser l'opérateur forcer
// une saisie atypique.
func DerivedTolerance[T any](target string, reads []string, tolerance float64, values func(T) (saisie, calculee float64)) CrossRule[T] {
	return CrossRule[T]{
		Fields:   reads,
		Target:   target,
		Severity: Avertissement,
		Check: func(record T) string {
			saisie, calculee := values(record)
			if math.Abs(saisie-calculee) > tolerance {
				return fmt.Sprintf("le taux saisi (%.2f %%) s'écarte de plus de %.1f point(s) du taux calculé (%.2f %%)", saisie, tolerance, calculee)
			}
			return ""
		},
	}
}

// TemporalBounds impose qu'une date ne soit ni dans le futur ni antérieure à
// la fenêtre rétrospective configurée. Bloquante.
func TemporalBounds[T any](target string, maxYears int, date func(T) time.Time, now func() time.Time) CrossRule[T] {
	return CrossRule[T]{
		Fields:   []string{target},
		Target:   target,
		Severity: Bloquante,
		Check: func(record T) string {
			d := date(record)
			n := now()
			if d.After(n) {
				return "la date ne peut pas être dans le futur"
			}
			if d.Before(n.AddDate(-maxYears, 0, 0)) {
				return fmt.Sprintf("la date ne peut pas remonter à plus de %d ans", maxYears)
			}
			return ""
		},
	}
}

// PlausibleRange signale une quantité hors de sa plage plausible, plage qui
// peut dépendre d'un autre champ de l'enregistrement. Avertissement.
func PlausibleRange[T any](target string, reads []string, observe func(T) (valeur, min, max float64)) CrossRule[T] {
	return CrossRule[T]{
		Fields:   reads,
		Target:   target,
		Severity: Avertissement,
		Check: func(record T) string {
			v, lo, hi := observe(record)
			if v < lo || v > hi {
				return fmt.Sprintf("valeur %.1f hors de la plage plausible [%.1f, %.1f]", v, lo, hi)
			}
			return ""
		},
	}
}
