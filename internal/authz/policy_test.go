package authz

import (
	"testing"

	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestIsAllowed(t *testing.T) {
	testCases := []struct {
		name    string
		role    domain.Role
		route   string
		allowed bool
	}{
		{"administrateur accède aux utilisateurs", domain.RoleAdministrateur, RouteUtilisateurs, true},
		{"administrateur accède aux statistiques", domain.RoleAdministrateur, RouteStatistiques, true},
		{"inséminateur accède aux inséminations", domain.RoleInseminateur, RouteInseminations, true},
		{"inséminateur accède aux semences", domain.RoleInseminateur, RouteSemences, true},
		{"inséminateur n'accède pas aux utilisateurs", domain.RoleInseminateur, RouteUtilisateurs, false},
		{"inséminateur n'accède pas aux lactations", domain.RoleInseminateur, RouteLactations, false},
		{"identificateur accède aux inséminations", domain.RoleIdentificateur, RouteInseminations, true},
		{"identificateur n'accède pas aux semences", domain.RoleIdentificateur, RouteSemences, false},
		{"contrôleur laitier accède aux lactations", domain.RoleControleurLaitier, RouteLactations, true},
		{"contrôleur laitier n'accède pas aux inséminations", domain.RoleControleurLaitier, RouteInseminations, false},
		{"responsable local accède aux statistiques", domain.RoleResponsableLocal, RouteStatistiques, true},
		{"responsable local n'accède pas aux utilisateurs", domain.RoleResponsableLocal, RouteUtilisateurs, false},
		{"éleveur accède à l'accueil", domain.RoleEleveur, RouteAccueil, true},
		{"éleveur n'accède qu'à l'accueil", domain.RoleEleveur, RouteStatistiques, false},
		{"rôle inconnu n'accède à rien", domain.Role("VETERINAIRE"), RouteAccueil, false},
		{"route inconnue refusée", domain.RoleAdministrateur, "/exports", false},
		{"préfixe de route insuffisant", domain.RoleEleveur, "/inseminations", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, IsAllowed(tc.role, tc.route))
		})
	}
}

func TestMenuFor(t *testing.T) {
	t.Run("administrateur voit tout le menu", func(t *testing.T) {
		menu := MenuFor(domain.RoleAdministrateur)
		assert.Len(t, menu, 6)
	})

	t.Run("le menu respecte l'ordre du menu maître", func(t *testing.T) {
		menu := MenuFor(domain.RoleResponsableLocal)

		paths := make([]string, 0, len(menu))
		for _, entry := range menu {
			paths = append(paths, entry.Path)
		}
		assert.Equal(t, []string{RouteAccueil, RouteInseminations, RouteSemences, RouteLactations, RouteStatistiques}, paths)
	})

	t.Run("inséminateur voit inséminations et semences mais pas utilisateurs", func(t *testing.T) {
		menu := MenuFor(domain.RoleInseminateur)

		paths := make([]string, 0, len(menu))
		for _, entry := range menu {
			paths = append(paths, entry.Path)
		}
		assert.Contains(t, paths, RouteInseminations)
		assert.Contains(t, paths, RouteSemences)
		assert.NotContains(t, paths, RouteUtilisateurs)
	})

	t.Run("rôle inconnu obtient un menu vide", func(t *testing.T) {
		menu := MenuFor(domain.Role("VETERINAIRE"))
		assert.Empty(t, menu)
	})

	t.Run("chaque entrée porte un libellé et une icône", func(t *testing.T) {
		for _, entry := range MenuFor(domain.RoleAdministrateur) {
			assert.NotEmpty(t, entry.Label)
			assert.NotEmpty(t, entry.Icon)
		}
	})
}
