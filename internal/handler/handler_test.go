package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/config"
	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
	"github.com/cnag-dev/gestion-elevage/backend/internal/repository"
	"github.com/cnag-dev/gestion-elevage/backend/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "secret-de-test"

func newTestConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Environment = "development"
	cfg.JWT.Secret = testJWTSecret
	cfg.JWT.Expiration = 3600
	cfg.InitialAdmin.Username = "admin"
	cfg.Pagination.DefaultLimit = 10
	cfg.Pagination.MaxLimit = 100
	cfg.Validation.ToleranceTauxMG = 0.5
	cfg.Validation.FenetreRetrospective = 10
	return cfg
}

func newTestHandler(t *testing.T) (*Handler, *repository.Memory) {
	t.Helper()

	repo := repository.NewMemory()
	h, err := NewHandler(newTestConfig(), repo, nil, nil)
	require.NoError(t, err)
	h.RegisterRoutes()
	return h, repo
}

func tokenFor(t *testing.T, userID int64, role domain.Role) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(userID, 10),
		},
	})
	ss, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return ss
}

func doRequest(t *testing.T, h *Handler, method, target, token string, body any) *Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := &Response{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp))
	return resp
}

func decodeData(t *testing.T, resp *Response, v any) {
	t.Helper()

	raw, err := json.Marshal(resp.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, v))
}

func TestAuthMiddleware(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("requête sans jeton", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/menu", "", nil)
		assert.False(t, resp.Success)
		assert.Equal(t, "utilisateur non authentifié", resp.Message)
	})

	t.Run("signature invalide", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
			Role: string(domain.RoleAdministrateur),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Subject:   "1",
			},
		})
		ss, err := token.SignedString([]byte("mauvaise-clef"))
		require.NoError(t, err)

		resp := doRequest(t, h, http.MethodGet, "/menu", ss, nil)
		assert.False(t, resp.Success)
		assert.Equal(t, "jeton invalide", resp.Message)
	})

	t.Run("jeton expiré", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
			Role: string(domain.RoleAdministrateur),
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
				Subject:   "1",
			},
		})
		ss, err := token.SignedString([]byte(testJWTSecret))
		require.NoError(t, err)

		resp := doRequest(t, h, http.MethodGet, "/menu", ss, nil)
		assert.False(t, resp.Success)
		assert.Equal(t, "jeton invalide ou expiré", resp.Message)
	})

	t.Run("jeton en cookie accepté", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/menu", nil)
		req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: tokenFor(t, 1, domain.RoleEleveur)})

		rec := httptest.NewRecorder()
		h.Mux.ServeHTTP(rec, req)

		resp := &Response{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), resp))
		assert.True(t, resp.Success)
	})
}

func TestGetMenu(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("menu de l'inséminateur", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/menu", tokenFor(t, 1, domain.RoleInseminateur), nil)
		require.True(t, resp.Success)

		var menu []struct {
			Chemin  string `json:"chemin"`
			Libelle string `json:"libelle"`
		}
		decodeData(t, resp, &menu)

		paths := make([]string, 0, len(menu))
		for _, entry := range menu {
			paths = append(paths, entry.Chemin)
		}
		assert.Equal(t, []string{"/", "/inseminations", "/semences"}, paths)
	})

	t.Run("rôle inconnu obtient un menu vide", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/menu", tokenFor(t, 1, domain.Role("VETERINAIRE")), nil)
		require.True(t, resp.Success)

		var menu []any
		decodeData(t, resp, &menu)
		assert.Empty(t, menu)
	})
}

func TestRequireRoute(t *testing.T) {
	h, _ := newTestHandler(t)

	t.Run("accès refusé hors permissions", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/utilisateurs/", tokenFor(t, 1, domain.RoleInseminateur), nil)
		assert.False(t, resp.Success)
		assert.Equal(t, "accès refusé", resp.Message)

		resp = doRequest(t, h, http.MethodGet, "/lactations/", tokenFor(t, 1, domain.RoleInseminateur), nil)
		assert.False(t, resp.Success)
		assert.Equal(t, "accès refusé", resp.Message)
	})

	t.Run("rôle inconnu refusé partout", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/inseminations/", tokenFor(t, 1, domain.Role("VETERINAIRE")), nil)
		assert.False(t, resp.Success)
		assert.Equal(t, "accès refusé", resp.Message)
	})

	t.Run("accès autorisé dans les permissions", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/lactations/", tokenFor(t, 1, domain.RoleControleurLaitier), nil)
		assert.True(t, resp.Success)
	})
}

func TestLogin(t *testing.T) {
	h, repo := newTestHandler(t)

	passwordHash, err := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &domain.User{
		Username:     "kbenali",
		PasswordHash: string(passwordHash),
		FullName:     "Karim Benali",
		Email:        "kbenali@example.com",
		Role:         domain.RoleInseminateur,
	}
	require.NoError(t, repo.CreateUser(user))

	t.Run("identifiants valides", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodPost, "/auth/login", "", map[string]string{
			"nom_utilisateur": "kbenali",
			"mot_de_passe":    "secret",
		})
		require.True(t, resp.Success)

		var data struct {
			Utilisateur domain.User `json:"utilisateur"`
			Jeton       string      `json:"jeton"`
		}
		decodeData(t, resp, &data)
		assert.Equal(t, "kbenali", data.Utilisateur.Username)
		assert.NotEmpty(t, data.Jeton)

		// Le jeton émis doit ouvrir les routes du rôle
		listResp := doRequest(t, h, http.MethodGet, "/inseminations/", data.Jeton, nil)
		assert.True(t, listResp.Success)
	})

	t.Run("mot de passe incorrect", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodPost, "/auth/login", "", map[string]string{
			"nom_utilisateur": "kbenali",
			"mot_de_passe":    "mauvais",
		})
		assert.False(t, resp.Success)
		assert.Equal(t, "nom d'utilisateur inconnu ou mot de passe incorrect", resp.Message)
	})

	t.Run("utilisateur inconnu", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodPost, "/auth/login", "", map[string]string{
			"nom_utilisateur": "inconnu",
			"mot_de_passe":    "secret",
		})
		assert.False(t, resp.Success)
		assert.Equal(t, "nom d'utilisateur inconnu ou mot de passe incorrect", resp.Message)
	})

	t.Run("compte désactivé", func(t *testing.T) {
		disabled := &domain.User{
			Username:     "inactif",
			PasswordHash: user.PasswordHash,
			Email:        "inactif@example.com",
			Role:         domain.RoleEleveur,
		}
		require.NoError(t, repo.CreateUser(disabled))
		disabled.IsActive = false
		require.NoError(t, repo.UpdateUser(disabled))

		resp := doRequest(t, h, http.MethodPost, "/auth/login", "", map[string]string{
			"nom_utilisateur": "inactif",
			"mot_de_passe":    "secret",
		})
		assert.False(t, resp.Success)
		assert.Equal(t, "compte désactivé", resp.Message)
	})
}

func TestListInseminations(t *testing.T) {
	h, repo := newTestHandler(t)
	admin := tokenFor(t, 1, domain.RoleAdministrateur)

	for i := 0; i < 23; i++ {
		ins := &domain.Insemination{
			NNI:                fmt.Sprintf("FR00000000%02d", i),
			DateInsemination:   time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC).AddDate(0, 0, i%3),
			InseminateurID:     int64(i%2 + 1),
			ResponsableLocalID: 9,
			SemenceID:          1,
		}
		require.NoError(t, repo.CreateInsemination(ins))
	}

	type pageData struct {
		Data       []domain.Insemination `json:"data"`
		Total      int                   `json:"total"`
		Page       int                   `json:"page"`
		Limit      int                   `json:"limit"`
		TotalPages int                   `json:"totalPages"`
	}

	t.Run("pagination par défaut", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/inseminations/", admin, nil)
		require.True(t, resp.Success)

		var page pageData
		decodeData(t, resp, &page)
		assert.Len(t, page.Data, 10)
		assert.Equal(t, 23, page.Total)
		assert.Equal(t, 3, page.TotalPages)
	})

	t.Run("page au-delà de la dernière", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/inseminations/?page=4", admin, nil)
		require.True(t, resp.Success)

		var page pageData
		decodeData(t, resp, &page)
		assert.Empty(t, page.Data)
		assert.Equal(t, 23, page.Total)
	})

	t.Run("filtre par inséminateur", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/inseminations/?inseminateur_id=1&limit=50", admin, nil)
		require.True(t, resp.Success)

		var page pageData
		decodeData(t, resp, &page)
		assert.Equal(t, 12, page.Total)
		for _, ins := range page.Data {
			assert.EqualValues(t, 1, ins.InseminateurID)
		}
	})

	t.Run("filtre par jour calendaire", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/inseminations/?date_insemination=2025-03-02&limit=50", admin, nil)
		require.True(t, resp.Success)

		var page pageData
		decodeData(t, resp, &page)
		assert.Equal(t, 8, page.Total)
	})

	t.Run("pagination invalide", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/inseminations/?page=abc", admin, nil)
		assert.False(t, resp.Success)
	})

	t.Run("limit plafonné par la configuration", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/inseminations/?limit=5000", admin, nil)
		require.True(t, resp.Success)

		var page pageData
		decodeData(t, resp, &page)
		assert.Equal(t, 100, page.Limit)
	})
}

func TestCreateInsemination(t *testing.T) {
	h, repo := newTestHandler(t)
	token := tokenFor(t, 1, domain.RoleInseminateur)

	valid := map[string]any{
		"nni":                  "FR1234567890",
		"date_insemination":    time.Now().AddDate(0, -1, 0).Format(time.RFC3339),
		"inseminateur_id":      2,
		"responsable_local_id": 5,
		"semence_id":           9,
	}

	t.Run("création valide", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodPost, "/inseminations/", token, valid)
		require.True(t, resp.Success)

		all, err := repo.GetAllInseminations()
		require.NoError(t, err)
		require.Len(t, all, 1)
		assert.Equal(t, "FR1234567890", all[0].NNI)
	})

	t.Run("responsable identique à l'inséminateur", func(t *testing.T) {
		body := map[string]any{}
		for k, v := range valid {
			body[k] = v
		}
		body["responsable_local_id"] = body["inseminateur_id"]

		resp := doRequest(t, h, http.MethodPost, "/inseminations/", token, body)
		assert.False(t, resp.Success)
		assert.Equal(t, "échec de la validation", resp.Message)

		var issues validation.Issues
		decodeData(t, resp, &issues)
		require.Len(t, issues, 1)
		assert.Equal(t, "responsable_local_id", issues[0].Field)
		assert.Equal(t, validation.Bloquante, issues[0].Severity)
	})

	t.Run("rien n'est écrit en cas d'anomalie bloquante", func(t *testing.T) {
		before, err := repo.GetAllInseminations()
		require.NoError(t, err)

		body := map[string]any{}
		for k, v := range valid {
			body[k] = v
		}
		body["nni"] = "FR123"

		resp := doRequest(t, h, http.MethodPost, "/inseminations/", token, body)
		assert.False(t, resp.Success)

		after, err := repo.GetAllInseminations()
		require.NoError(t, err)
		assert.Len(t, after, len(before))
	})
}

func TestCreateLactation(t *testing.T) {
	h, repo := newTestHandler(t)
	token := tokenFor(t, 1, domain.RoleControleurLaitier)

	t.Run("avertissement sans blocage", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodPost, "/lactations/", token, map[string]any{
			"nni":              "FR1234567890",
			"date_controle":    time.Now().AddDate(0, -1, 0).Format(time.RFC3339),
			"numero_lactation": 2,
			"lait_kg":          25,
			"mg_kg":            1,
			"taux_mg":          5, // calculé : 4 %, écart supérieur à la tolérance
		})
		require.True(t, resp.Success)

		var data struct {
			domain.Lactation
			Avertissements validation.Issues `json:"avertissements"`
		}
		decodeData(t, resp, &data)
		require.Len(t, data.Avertissements, 1)
		assert.Equal(t, "taux_mg", data.Avertissements[0].Field)
		assert.Equal(t, validation.Avertissement, data.Avertissements[0].Severity)

		// L'enregistrement est bien écrit malgré l'avertissement
		all, err := repo.GetAllLactations()
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("date future bloquante", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodPost, "/lactations/", token, map[string]any{
			"nni":              "FR1234567890",
			"date_controle":    time.Now().AddDate(0, 0, 2).Format(time.RFC3339),
			"numero_lactation": 2,
			"lait_kg":          25,
			"mg_kg":            1,
			"taux_mg":          4,
		})
		assert.False(t, resp.Success)
		assert.Equal(t, "échec de la validation", resp.Message)
	})
}

func TestSemences(t *testing.T) {
	h, repo := newTestHandler(t)
	token := tokenFor(t, 1, domain.RoleAdministrateur)

	body := map[string]any{
		"code_taureau":    "HB4521",
		"nom_taureau":     "Hercule",
		"race":            "HOLSTEIN",
		"date_production": time.Now().AddDate(0, -6, 0).Format(time.RFC3339),
		"quantite_doses":  40,
	}

	t.Run("le numéro de lot est attribué par le serveur", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodPost, "/semences/", token, body)
		require.True(t, resp.Success)

		var data domain.Semence
		decodeData(t, resp, &data)
		assert.NotEmpty(t, data.NumeroLot)
	})

	t.Run("code taureau en doublon", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodPost, "/semences/", token, body)
		assert.False(t, resp.Success)
		assert.Equal(t, "code taureau déjà utilisé", resp.Message)
	})

	t.Run("suppression puis accès", func(t *testing.T) {
		all, err := repo.GetAllSemences()
		require.NoError(t, err)
		require.Len(t, all, 1)
		id := all[0].ID

		resp := doRequest(t, h, http.MethodDelete, fmt.Sprintf("/semences/%d/", id), token, nil)
		assert.True(t, resp.Success)

		resp = doRequest(t, h, http.MethodGet, fmt.Sprintf("/semences/%d/", id), token, nil)
		assert.False(t, resp.Success)
		assert.Equal(t, "lot de semence introuvable", resp.Message)
	})
}

func TestUsersEndpoints(t *testing.T) {
	h, repo := newTestHandler(t)
	token := tokenFor(t, 1, domain.RoleAdministrateur)

	require.NoError(t, repo.CreateUser(&domain.User{Username: "admin", Email: "admin@example.com", FullName: "Administrateur", Role: domain.RoleAdministrateur}))
	require.NoError(t, repo.CreateUser(&domain.User{Username: "kbenali", Email: "kbenali@example.com", FullName: "Karim Benali", Role: domain.RoleInseminateur}))

	t.Run("filtrage par rôle", func(t *testing.T) {
		resp := doRequest(t, h, http.MethodGet, "/utilisateurs/?role=INSEMINATEUR", token, nil)
		require.True(t, resp.Success)

		var page struct {
			Data  []domain.User `json:"data"`
			Total int           `json:"total"`
		}
		decodeData(t, resp, &page)
		require.Equal(t, 1, page.Total)
		assert.Equal(t, "kbenali", page.Data[0].Username)
	})

	t.Run("administrateur initial protégé", func(t *testing.T) {
		admin, err := repo.GetUserByUsername("admin")
		require.NoError(t, err)

		resp := doRequest(t, h, http.MethodDelete, fmt.Sprintf("/utilisateurs/%d/", admin.ID), token, nil)
		assert.False(t, resp.Success)
		assert.Equal(t, "opération interdite sur l'administrateur initial", resp.Message)
	})

	t.Run("mise à jour partielle", func(t *testing.T) {
		user, err := repo.GetUserByUsername("kbenali")
		require.NoError(t, err)

		resp := doRequest(t, h, http.MethodPatch, fmt.Sprintf("/utilisateurs/%d/", user.ID), token, map[string]any{
			"est_actif": false,
		})
		require.True(t, resp.Success)

		updated, err := repo.GetUserByUsername("kbenali")
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
		// Les champs non fournis restent inchangés
		assert.Equal(t, "Karim Benali", updated.FullName)
	})
}
