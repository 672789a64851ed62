// Package seed peuple un Store avec un jeu de démonstration cohérent :
// un utilisateur par rôle métier, des lots de semence, puis des actes qui
// référencent ces enregistrements.
package seed

import (
	"log/slog"
	"math/rand"

	"github.com/cnag-dev/gestion-elevage/backend/internal/config"
	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
	"github.com/cnag-dev/gestion-elevage/backend/internal/repository"
	"github.com/cnag-dev/gestion-elevage/backend/internal/utils"
)

func SeedDemoData(repo repository.Store, cfg *config.Config) {
	// Un utilisateur par rôle, pour pouvoir tester chaque menu
	usersByRole := map[domain.Role]*domain.User{}
	for _, role := range []domain.Role{
		domain.RoleInseminateur,
		domain.RoleIdentificateur,
		domain.RoleControleurLaitier,
		domain.RoleResponsableLocal,
		domain.RoleEleveur,
	} {
		user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
		if err != nil {
			slog.Error("impossible de générer l'utilisateur de démonstration", "role", role, "error", err)
			return
		}
		user.Role = role

		if err := repo.CreateUser(user); err != nil {
			slog.Error("impossible d'insérer l'utilisateur de démonstration", "role", role, "error", err)
			return
		}
		usersByRole[role] = user
	}
	slog.Info("utilisateurs de démonstration insérés", "count", len(usersByRole))

	// Lots de semence
	semences := make([]*domain.Semence, 0, 8)
	for i := 0; i < 8; i++ {
		sem := utils.GenerateRandomSemence()
		if err := repo.CreateSemence(sem); err != nil {
			slog.Error("impossible d'insérer le lot de semence", "error", err)
			continue
		}
		semences = append(semences, sem)
	}
	slog.Info("lots de semence insérés", "count", len(semences))

	if len(semences) == 0 {
		slog.Error("aucun lot de semence inséré, abandon des actes")
		return
	}

	// Inséminations rattachées aux utilisateurs et lots ci-dessus
	inseminateur := usersByRole[domain.RoleInseminateur]
	responsable := usersByRole[domain.RoleResponsableLocal]

	insCount := 0
	for i := 0; i < 20; i++ {
		sem := semences[rand.Intn(len(semences))]
		ins := utils.GenerateRandomInsemination(inseminateur.ID, responsable.ID, sem.ID)
		if err := repo.CreateInsemination(ins); err != nil {
			slog.Error("impossible d'insérer l'insémination", "error", err)
			continue
		}
		insCount++
	}
	slog.Info("inséminations insérées", "count", insCount)

	// Contrôles laitiers
	lacCount := 0
	for i := 0; i < 20; i++ {
		lac := utils.GenerateRandomLactation()
		if err := repo.CreateLactation(lac); err != nil {
			slog.Error("impossible d'insérer le contrôle laitier", "error", err)
			continue
		}
		lacCount++
	}
	slog.Info("contrôles laitiers insérés", "count", lacCount)
}
