package repository

import (
	"database/sql"
	"errors"

	"github.com/cnag-dev/gestion-elevage/backend/internal/config"
	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
)

// Erreurs sentinelles communes aux deux implémentations du Store. Les
// handlers ne voient jamais d'erreur brute du moteur de stockage : les
// violations de contrainte et les absences sont traduites ici.
var (
	ErrNotFound             = errors.New("enregistrement introuvable")
	ErrDuplicateUsername    = errors.New("nom d'utilisateur déjà utilisé")
	ErrDuplicateEmail       = errors.New("adresse e-mail déjà utilisée")
	ErrDuplicateCodeTaureau = errors.New("code taureau déjà utilisé")
)

// Store est le contrat de persistance du cœur : listes en ordre d'insertion,
// accès par identifiant, écritures individuellement atomiques. L'attribution
// des identifiants et l'horodatage de création sont de la responsabilité du
// Store, pas de ses appelants.
type Store interface {
	GetAllUsers() ([]*domain.User, error)
	GetUserByID(id int64) (*domain.User, error)
	GetUserByUsername(username string) (*domain.User, error)
	CreateUser(user *domain.User) error
	UpdateUser(user *domain.User) error
	DeleteUser(id int64) error
	CheckEmailIfExists(email string) (bool, error)

	GetAllInseminations() ([]*domain.Insemination, error)
	GetInseminationByID(id int64) (*domain.Insemination, error)
	CreateInsemination(ins *domain.Insemination) error
	UpdateInsemination(ins *domain.Insemination) error
	DeleteInsemination(id int64) error

	GetAllLactations() ([]*domain.Lactation, error)
	GetLactationByID(id int64) (*domain.Lactation, error)
	CreateLactation(lac *domain.Lactation) error
	UpdateLactation(lac *domain.Lactation) error
	DeleteLactation(id int64) error

	GetAllSemences() ([]*domain.Semence, error)
	GetSemenceByID(id int64) (*domain.Semence, error)
	CreateSemence(sem *domain.Semence) error
	UpdateSemence(sem *domain.Semence) error
	DeleteSemence(id int64) error
}

// Repository est l'implémentation PostgreSQL du Store.
type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}
