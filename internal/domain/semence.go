package domain

import (
	"time"
)

type Race string

const (
	RaceHolstein     Race = "HOLSTEIN"
	RaceMontbeliarde Race = "MONTBELIARDE"
	RaceNormande     Race = "NORMANDE"
	RaceTarentaise   Race = "TARENTAISE"
	RaceBruneAtlas   Race = "BRUNE_DE_L_ATLAS"
)

// Semence est un lot de doses de semence en stock pour un taureau donné.
type Semence struct {
	ID             int64     `json:"id"`
	CodeTaureau    string    `json:"code_taureau" validate:"required,uppercase,min=2,max=16"`
	NomTaureau     string    `json:"nom_taureau" validate:"required"`
	Race           Race      `json:"race" validate:"required,oneof=HOLSTEIN MONTBELIARDE NORMANDE TARENTAISE BRUNE_DE_L_ATLAS"`
	NumeroLot      string    `json:"numero_lot"`
	DateProduction time.Time `json:"date_production" validate:"required"`
	QuantiteDoses  int32     `json:"quantite_doses" validate:"gte=0"`
	CreatedAt      time.Time `json:"created_at"`
	Version        int32     `json:"-"`
}
