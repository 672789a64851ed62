package authz

import (
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
)

// Claims est la charge utile décodée d'un jeton porteur.
type Claims struct {
	Sub       string
	Email     string
	Role      domain.Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenPayload struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// Extract décode le segment central d'un jeton à trois segments et en tire
// les claims. Aucune vérification de signature n'est faite ici : elle relève
// du middleware d'authentification, qui doit avoir validé l'intégrité du
// jeton avant d'appeler Extract. Toute erreur de décodage, ainsi qu'une
// expiration absente ou passée, rend le porteur non authentifié (ok=false).
//
// Un rôle inconnu est extrait tel quel : c'est ensuite la table des
// permissions qui lui refusera toutes les routes.
func Extract(token string) (*Claims, bool) {
	payload := &tokenPayload{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, payload); err != nil {
		return nil, false
	}

	// exp doit exister et être strictement dans le futur
	if payload.ExpiresAt == nil || !payload.ExpiresAt.After(time.Now()) {
		return nil, false
	}

	claims := &Claims{
		Sub:       payload.Subject,
		Email:     payload.Email,
		Role:      domain.Role(payload.Role),
		ExpiresAt: payload.ExpiresAt.Time,
	}
	if payload.IssuedAt != nil {
		claims.IssuedAt = payload.IssuedAt.Time
	}

	return claims, true
}
