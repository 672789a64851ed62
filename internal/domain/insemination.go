package domain

import (
	"time"
)

// Insemination est un acte d'insémination artificielle enregistré sur un
// animal identifié par son NNI (numéro national d'identification).
type Insemination struct {
	ID                 int64     `json:"id"`
	NNI                string    `json:"nni" validate:"required,nni"`
	DateInsemination   time.Time `json:"date_insemination" validate:"required"`
	InseminateurID     int64     `json:"inseminateur_id" validate:"required,gt=0"`
	ResponsableLocalID int64     `json:"responsable_local_id" validate:"required,gt=0"`
	SemenceID          int64     `json:"semence_id" validate:"required,gt=0"`
	Observations       string    `json:"observations" validate:"max=500"`
	CreatedAt          time.Time `json:"created_at"`
	Version            int32     `json:"-"`
}
