package authz

import (
	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
)

// RouteDescriptor décrit une entrée du menu de navigation.
type RouteDescriptor struct {
	Path  string `json:"chemin"`
	Label string `json:"libelle"`
	Icon  string `json:"icone"`
}

const (
	RouteAccueil       = "/"
	RouteUtilisateurs  = "/utilisateurs"
	RouteInseminations = "/inseminations"
	RouteSemences      = "/semences"
	RouteLactations    = "/lactations"
	RouteStatistiques  = "/statistiques"
)

// masterMenu est la liste ordonnée de toutes les entrées possibles. MenuFor
// filtre cette liste sans jamais la réordonner.
var masterMenu = []RouteDescriptor{
	{Path: RouteAccueil, Label: "Accueil", Icon: "home"},
	{Path: RouteUtilisateurs, Label: "Utilisateurs", Icon: "users"},
	{Path: RouteInseminations, Label: "Inséminations", Icon: "syringe"},
	{Path: RouteSemences, Label: "Stock de semences", Icon: "archive"},
	{Path: RouteLactations, Label: "Contrôles laitiers", Icon: "droplet"},
	{Path: RouteStatistiques, Label: "Statistiques", Icon: "bar-chart"},
}

// routesByRole est l'unique table de permissions : le garde de routes et le
// menu de navigation la consomment tous les deux. Chaque rôle garde au moins
// l'accueil.
var routesByRole = map[domain.Role][]string{
	domain.RoleAdministrateur:    {RouteAccueil, RouteUtilisateurs, RouteInseminations, RouteSemences, RouteLactations, RouteStatistiques},
	domain.RoleInseminateur:      {RouteAccueil, RouteInseminations, RouteSemences},
	domain.RoleIdentificateur:    {RouteAccueil, RouteInseminations},
	domain.RoleControleurLaitier: {RouteAccueil, RouteLactations},
	domain.RoleResponsableLocal:  {RouteAccueil, RouteInseminations, RouteSemences, RouteLactations, RouteStatistiques},
	domain.RoleEleveur:           {RouteAccueil},
}

var allowedRoutes = buildIndex()

func buildIndex() map[domain.Role]map[string]struct{} {
	idx := make(map[domain.Role]map[string]struct{}, len(routesByRole))
	for role, routes := range routesByRole {
		set := make(map[string]struct{}, len(routes))
		for _, route := range routes {
			set[route] = struct{}{}
		}
		idx[role] = set
	}
	return idx
}

// IsAllowed est l'appartenance exacte à la table : un rôle absent n'a accès
// à aucune route.
func IsAllowed(role domain.Role, route string) bool {
	set, ok := allowedRoutes[role]
	if !ok {
		return false
	}
	_, ok = set[route]
	return ok
}

// MenuFor renvoie les entrées du menu maître accessibles au rôle, dans
// l'ordre du menu maître. Un rôle inconnu obtient un menu vide.
func MenuFor(role domain.Role) []RouteDescriptor {
	menu := make([]RouteDescriptor, 0, len(masterMenu))
	for _, entry := range masterMenu {
		if IsAllowed(role, entry.Path) {
			menu = append(menu, entry)
		}
	}
	return menu
}
