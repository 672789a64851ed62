package domain

import (
	"time"
)

// Lactation est un contrôle laitier : quantités mesurées sur une période de
// contrôle pour une lactation donnée (NumeroLactation est le rang de la
// lactation dans la carrière de l'animal, 1 pour une primipare).
type Lactation struct {
	ID              int64     `json:"id"`
	NNI             string    `json:"nni" validate:"required,nni"`
	DateControle    time.Time `json:"date_controle" validate:"required"`
	NumeroLactation int32     `json:"numero_lactation" validate:"required,gte=1,lte=15"`
	LaitKg          float64   `json:"lait_kg" validate:"required,gt=0"`
	MGKg            float64   `json:"mg_kg" validate:"required,gt=0"`
	TauxMG          float64   `json:"taux_mg" validate:"required,gt=0,lte=100"`
	CreatedAt       time.Time `json:"created_at"`
	Version         int32     `json:"-"`
}
