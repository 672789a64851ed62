package utils

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/cnag-dev/gestion-elevage/backend/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

var commonFirstNames = []string{
	"Ahmed", "Karim", "Rachid", "Youssef", "Mehdi", "Omar", "Hassan", "Said",
	"Fatima", "Khadija", "Amina", "Nadia", "Samira", "Leila", "Salma", "Imane",
	"Pierre", "Jean", "Luc", "Marie", "Sophie", "Claire", "Antoine", "Julien",
}
var commonLastNames = []string{
	"Benali", "El Amrani", "Bouchard", "Tazi", "Berrada", "Alaoui", "Chafik",
	"Martin", "Bernard", "Dubois", "Durand", "Moreau", "Laurent", "Lefebvre",
}

func GenerateRandomFullName() string {
	first := commonFirstNames[rand.Intn(len(commonFirstNames))]
	last := commonLastNames[rand.Intn(len(commonLastNames))]
	return first + " " + last
}

var roles = []domain.Role{
	domain.RoleInseminateur,
	domain.RoleIdentificateur,
	domain.RoleControleurLaitier,
	domain.RoleResponsableLocal,
	domain.RoleEleveur,
}

func GenerateRandomRole() domain.Role {
	return roles[rand.Intn(len(roles))]
}

var digits = "0123456789"

// GenerateUsernameFromFullName dérive un identifiant de connexion à partir du
// nom complet : minuscules, sans espaces ni apostrophes, suivi de chiffres.
func GenerateUsernameFromFullName(fullName string) string {
	username := strings.ToLower(fullName)
	username = strings.NewReplacer(" ", "", "'", "", "-", "").Replace(username)

	digitsLength := rand.Intn(3) + 1
	for i := 0; i < digitsLength; i++ {
		username += string(digits[rand.Intn(len(digits))])
	}

	return username
}

func GenerateRandomUser(password string, emailDomainName string) (*domain.User, error) {
	fullName := GenerateRandomFullName()
	username := GenerateUsernameFromFullName(fullName)
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(passwordHash),
		FullName:     fullName,
		Email:        username + "@" + emailDomainName,
		Role:         GenerateRandomRole(),
	}

	return user, nil
}

// GenerateRandomNNI produit un numéro national d'identification plausible :
// FR suivi de 10 chiffres.
func GenerateRandomNNI() string {
	nni := "FR"
	for i := 0; i < 10; i++ {
		nni += string(digits[rand.Intn(len(digits))])
	}
	return nni
}

func GenerateRandomOTP() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*")

func GenerateRandomPassword(length int) string {
	random_password := make([]rune, length)
	for i := range random_password {
		random_password[i] = letters[rand.Intn(len(letters))]
	}
	return string(random_password)
}

var uppercaseLetters = []rune("ABCDEFGHIJKLMNOPQRSTUVWXYZ")

// GenerateRandomCodeTaureau produit un code taureau de la forme 2 lettres
// majuscules + 4 chiffres.
func GenerateRandomCodeTaureau() string {
	code := make([]rune, 6)
	for i := range code {
		if i < 2 {
			code[i] = uppercaseLetters[rand.Intn(len(uppercaseLetters))]
		} else {
			code[i] = rune(digits[rand.Intn(len(digits))])
		}
	}
	return string(code)
}

var races = []domain.Race{
	domain.RaceHolstein,
	domain.RaceMontbeliarde,
	domain.RaceNormande,
	domain.RaceTarentaise,
	domain.RaceBruneAtlas,
}

var bullNames = []string{
	"Hercule", "Sultan", "Tonnerre", "Goliath", "Baron", "Caid", "Mistral",
	"Pacha", "Bismark", "Atlas", "Neptune", "Vulcain",
}

func GenerateRandomSemence() *domain.Semence {
	return &domain.Semence{
		CodeTaureau:    GenerateRandomCodeTaureau(),
		NomTaureau:     bullNames[rand.Intn(len(bullNames))],
		Race:           races[rand.Intn(len(races))],
		DateProduction: time.Now().AddDate(0, -rand.Intn(24), -rand.Intn(28)),
		QuantiteDoses:  int32(rand.Intn(200)),
	}
}

func GenerateRandomInsemination(inseminateurID, responsableLocalID, semenceID int64) *domain.Insemination {
	return &domain.Insemination{
		NNI:                GenerateRandomNNI(),
		DateInsemination:   time.Now().AddDate(0, -rand.Intn(12), -rand.Intn(28)),
		InseminateurID:     inseminateurID,
		ResponsableLocalID: responsableLocalID,
		SemenceID:          semenceID,
	}
}

func GenerateRandomLactation() *domain.Lactation {
	// Rang de lactation 1 à 6, quantités dans les plages usuelles
	rang := int32(rand.Intn(6) + 1)
	laitKg := 8 + rand.Float64()*30
	tauxMG := 3 + rand.Float64()*2 // 3 % à 5 %
	mgKg := laitKg * tauxMG / 100

	return &domain.Lactation{
		NNI:             GenerateRandomNNI(),
		DateControle:    time.Now().AddDate(0, -rand.Intn(12), -rand.Intn(28)),
		NumeroLactation: rang,
		LaitKg:          laitKg,
		MGKg:            mgKg,
		TauxMG:          tauxMG,
	}
}
