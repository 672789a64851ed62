package validation

import (
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
)

// Jeux de règles croisées par entité. Les noms de champs référencés sont les
// tags JSON des structs du domaine. Ces jeux sont construits une fois au
// démarrage avec les paramètres de configuration.

func InseminationRules(maxYears int, now func() time.Time) []CrossRule[domain.Insemination] {
	return []CrossRule[domain.Insemination]{
		Distinct(
			"responsable_local_id",
			[]string{"inseminateur_id", "responsable_local_id"},
			func(i domain.Insemination) (int64, int64) { return i.InseminateurID, i.ResponsableLocalID },
			"le responsable local doit différer de l'inséminateur",
		),
		TemporalBounds(
			"date_insemination",
			maxYears,
			func(i domain.Insemination) time.Time { return i.DateInsemination },
			now,
		),
	}
}

func LactationRules(toleranceTauxMG float64, maxYears int, now func() time.Time) []CrossRule[domain.Lactation] {
	return []CrossRule[domain.Lactation]{
		TemporalBounds(
			"date_controle",
			maxYears,
			func(l domain.Lactation) time.Time { return l.DateControle },
			now,
		),
		DerivedTolerance(
			"taux_mg",
			[]string{"lait_kg", "mg_kg", "taux_mg"},
			toleranceTauxMG,
			func(l domain.Lactation) (float64, float64) {
				return l.TauxMG, l.MGKg / l.LaitKg * 100
			},
		),
		PlausibleRange(
			"lait_kg",
			[]string{"lait_kg", "numero_lactation"},
			func(l domain.Lactation) (float64, float64, float64) {
				lo, hi := plageLaitKg(l.NumeroLactation)
				return l.LaitKg, lo, hi
			},
		),
	}
}

func SemenceRules(maxYears int, now func() time.Time) []CrossRule[domain.Semence] {
	return []CrossRule[domain.Semence]{
		TemporalBounds(
			"date_production",
			maxYears,
			func(s domain.Semence) time.Time { return s.DateProduction },
			now,
		),
	}
}

// plageLaitKg est la plage de production journalière plausible (kg de lait
// au contrôle) selon le rang de lactation : une primipare produit moins
// qu'une multipare.
func plageLaitKg(rang int32) (float64, float64) {
	switch {
	case rang <= 1:
		return 4, 35
	case rang == 2:
		return 5, 45
	default:
		return 5, 50
	}
}
