package query

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type animal struct {
	NNI          string
	Race         string
	DateControle time.Time
}

var animalSchema = Schema[animal]{
	"nni":           Contains(func(a animal) string { return a.NNI }),
	"race":          Exact(func(a animal) string { return a.Race }),
	"date_controle": SameDay(func(a animal) time.Time { return a.DateControle }),
}

func makeAnimals(n int) []animal {
	animals := make([]animal, 0, n)
	for i := 0; i < n; i++ {
		animals = append(animals, animal{
			NNI:          "FR00000000" + strconv.Itoa(10+i),
			Race:         "HOLSTEIN",
			DateControle: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC).AddDate(0, 0, i),
		})
	}
	return animals
}

func TestRunPagination(t *testing.T) {
	animals := makeAnimals(23)

	t.Run("découpage en pages", func(t *testing.T) {
		page, err := Run(animals, animalSchema, nil, Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, page.Data, 10)
		assert.Equal(t, 23, page.Total)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("dernière page incomplète", func(t *testing.T) {
		page, err := Run(animals, animalSchema, nil, Params{Page: 3, Limit: 10})
		require.NoError(t, err)
		assert.Len(t, page.Data, 3)
		assert.Equal(t, 23, page.Total)
	})

	t.Run("page au-delà de la dernière", func(t *testing.T) {
		page, err := Run(animals, animalSchema, nil, Params{Page: 4, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, page.Data)
		// Les totaux restent ceux de l'ensemble filtré
		assert.Equal(t, 23, page.Total)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("la tranche ne dépasse jamais limit", func(t *testing.T) {
		for p := 1; p <= 5; p++ {
			page, err := Run(animals, animalSchema, nil, Params{Page: p, Limit: 7})
			require.NoError(t, err)
			assert.LessOrEqual(t, len(page.Data), 7)
		}
	})

	t.Run("paramètres invalides", func(t *testing.T) {
		_, err := Run(animals, animalSchema, nil, Params{Page: 0, Limit: 10})
		assert.ErrorIs(t, err, ErrPageInvalide)

		_, err = Run(animals, animalSchema, nil, Params{Page: 1, Limit: 0})
		assert.ErrorIs(t, err, ErrLimiteInvalide)
	})

	t.Run("collection vide", func(t *testing.T) {
		page, err := Run(nil, animalSchema, nil, Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Empty(t, page.Data)
		assert.Equal(t, 0, page.Total)
		assert.Equal(t, 0, page.TotalPages)
	})
}

func TestRunFilters(t *testing.T) {
	animals := []animal{
		{NNI: "FR1234567890", Race: "HOLSTEIN", DateControle: time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)},
		{NNI: "FR1234500000", Race: "NORMANDE", DateControle: time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC)},
		{NNI: "FR9876543210", Race: "HOLSTEIN", DateControle: time.Date(2025, 3, 2, 0, 15, 0, 0, time.UTC)},
	}

	t.Run("sous-chaîne insensible à la casse", func(t *testing.T) {
		page, err := Run(animals, animalSchema, map[string]string{"nni": "fr12345"}, Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)
	})

	t.Run("égalité stricte", func(t *testing.T) {
		page, err := Run(animals, animalSchema, map[string]string{"race": "HOLSTEIN"}, Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total)

		// Pas de correspondance partielle sur un champ énuméré
		page, err = Run(animals, animalSchema, map[string]string{"race": "HOLST"}, Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 0, page.Total)
	})

	t.Run("même jour calendaire en UTC", func(t *testing.T) {
		page, err := Run(animals, animalSchema, map[string]string{"date_controle": "2025-03-01"}, Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		// 23h30 UTC reste le 1er mars, 00h15 UTC du lendemain n'en est plus
		assert.Equal(t, 2, page.Total)
	})

	t.Run("date au format RFC3339", func(t *testing.T) {
		page, err := Run(animals, animalSchema, map[string]string{"date_controle": "2025-03-02T10:00:00Z"}, Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	})

	t.Run("valeur de date inexploitable", func(t *testing.T) {
		page, err := Run(animals, animalSchema, map[string]string{"date_controle": "hier"}, Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 0, page.Total)
	})

	t.Run("filtres conjonctifs", func(t *testing.T) {
		page, err := Run(animals, animalSchema, map[string]string{
			"nni":  "FR12345",
			"race": "HOLSTEIN",
		}, Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	})

	t.Run("clé inconnue et valeur vide ignorées", func(t *testing.T) {
		page, err := Run(animals, animalSchema, map[string]string{
			"statut": "actif",
			"race":   "",
		}, Params{Page: 1, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 3, page.Total)
	})
}
