package main

import (
	"context"
	"database/sql"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/config"
	"github.com/cnag-dev/gestion-elevage/backend/internal/repository"
	"github.com/cnag-dev/gestion-elevage/backend/internal/seed"
	"github.com/cnag-dev/gestion-elevage/backend/internal/utils"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func main() {
	var op int
	var n int
	var dryRun bool

	flag.IntVar(&op, "op", 0, "opération à exécuter (1 : insérer des utilisateurs aléatoires, 2 : insérer des lots de semence aléatoires, 3 : insérer le jeu de démonstration complet)")
	flag.IntVar(&n, "n", 5, "nombre d'enregistrements à insérer")
	flag.BoolVar(&dryRun, "dry-run", false, "utiliser un store en mémoire au lieu de la base de données")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Lire la configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("impossible de lire la configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	var repo repository.Store

	if dryRun {
		repo = repository.NewMemory()
	} else {
		// Créer le pool de connexions
		dbpool, err := sql.Open("pgx", cfg.Database.DSN)
		if err != nil {
			logger.Error("impossible de créer le pool de connexions", "error", err)
			return
		}
		defer dbpool.Close()

		dbpool.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		dbpool.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		dbpool.SetConnMaxIdleTime(time.Duration(cfg.Database.MaxIdleTime) * time.Second)

		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Database.ConnectTimeout)*time.Second)
		defer cancel()

		// sql.Open ne fait que créer l'objet pool, il faut pinguer explicitement
		if err := dbpool.PingContext(ctx); err != nil {
			logger.Error("impossible de se connecter à la base de données", "error", err)
			return
		}

		repo = repository.NewRepository(cfg, dbpool)
	}

	switch op {
	case 0:
		slog.Error("aucune opération spécifiée")
	case 1:
		if n <= 0 {
			slog.Error("veuillez indiquer un nombre d'utilisateurs valide")
			return
		}
		cnt := n
		for i := 0; i < n; i++ {
			user, err := utils.GenerateRandomUser(cfg.Seed.User.Password, cfg.Email.UserDomain)
			if err != nil {
				slog.Error("impossible de générer un utilisateur aléatoire", slog.String("error", err.Error()))
				continue
			}

			if err := repo.CreateUser(user); err != nil {
				slog.Error("impossible d'insérer l'utilisateur", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("utilisateurs insérés", slog.Int("count", n-cnt))
	case 2:
		if n <= 0 {
			slog.Error("veuillez indiquer un nombre de lots valide")
			return
		}
		cnt := n
		for i := 0; i < n; i++ {
			sem := utils.GenerateRandomSemence()
			if err := repo.CreateSemence(sem); err != nil {
				slog.Error("impossible d'insérer le lot de semence", slog.String("error", err.Error()))
				continue
			}

			cnt--
		}

		slog.Info("lots de semence insérés", slog.Int("count", n-cnt))
	case 3:
		seed.SeedDemoData(repo, cfg)
	default:
		slog.Error("opération inconnue")
	}
}
