package authz

import (
	"testing"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	ss, err := token.SignedString([]byte("secret-de-test"))
	require.NoError(t, err)
	return ss
}

func TestExtract(t *testing.T) {
	t.Run("jeton valide", func(t *testing.T) {
		issuedAt := time.Now().Add(-time.Minute)
		ss := signedToken(t, jwt.MapClaims{
			"sub":   "42",
			"email": "karim.benali@example.com",
			"role":  "INSEMINATEUR",
			"iat":   issuedAt.Unix(),
			"exp":   time.Now().Add(time.Hour).Unix(),
		})

		claims, ok := Extract(ss)
		require.True(t, ok)
		assert.Equal(t, "42", claims.Sub)
		assert.Equal(t, "karim.benali@example.com", claims.Email)
		assert.Equal(t, domain.RoleInseminateur, claims.Role)
		assert.WithinDuration(t, issuedAt, claims.IssuedAt, time.Second)
	})

	t.Run("la signature n'est pas vérifiée ici", func(t *testing.T) {
		// Extract décode la charge utile sans contrôler la signature : c'est
		// le middleware d'authentification qui la vérifie en amont.
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  "7",
			"role": "ELEVEUR",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		ss, err := token.SignedString([]byte("une-autre-clef"))
		require.NoError(t, err)

		claims, ok := Extract(ss)
		require.True(t, ok)
		assert.Equal(t, domain.RoleEleveur, claims.Role)
	})

	t.Run("jeton expiré", func(t *testing.T) {
		ss := signedToken(t, jwt.MapClaims{
			"sub":  "42",
			"role": "ADMINISTRATEUR",
			"exp":  time.Now().Add(-time.Minute).Unix(),
		})

		_, ok := Extract(ss)
		assert.False(t, ok)
	})

	t.Run("expiration absente", func(t *testing.T) {
		ss := signedToken(t, jwt.MapClaims{
			"sub":  "42",
			"role": "ADMINISTRATEUR",
		})

		_, ok := Extract(ss)
		assert.False(t, ok)
	})

	t.Run("jeton malformé", func(t *testing.T) {
		_, ok := Extract("pas.un.jeton")
		assert.False(t, ok)

		_, ok = Extract("")
		assert.False(t, ok)
	})

	t.Run("rôle inconnu extrait tel quel", func(t *testing.T) {
		// Le refus d'un rôle inconnu relève de la table de permissions, pas
		// de l'extraction.
		ss := signedToken(t, jwt.MapClaims{
			"sub":  "42",
			"role": "VETERINAIRE",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})

		claims, ok := Extract(ss)
		require.True(t, ok)
		assert.Equal(t, domain.Role("VETERINAIRE"), claims.Role)
		assert.False(t, IsAllowed(claims.Role, RouteAccueil))
	})
}
