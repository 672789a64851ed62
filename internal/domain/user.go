package domain

import (
	"time"
)

type Role string

const (
	RoleAdministrateur    Role = "ADMINISTRATEUR"
	RoleInseminateur      Role = "INSEMINATEUR"
	RoleIdentificateur    Role = "IDENTIFICATEUR"
	RoleControleurLaitier Role = "CONTROLEUR_LAITIER"
	RoleResponsableLocal  Role = "RESPONSABLE_LOCAL"
	RoleEleveur           Role = "ELEVEUR"
)

type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"nom_utilisateur"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"nom_complet"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"est_actif"`
	CreatedAt    time.Time `json:"created_at"`
	Version      int32     `json:"-"`
}
