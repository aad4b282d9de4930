package security

import (
	"log"
	"os"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/AlphaDevs01/controleProducao/internal/repository"
	"github.com/AlphaDevs01/controleProducao/pkg/models"
)

var jwtSecret []byte

func init() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		// main may not have loaded the .env file yet when this package
		// initializes, so try once more here.
		if err := godotenv.Load(); err == nil {
			secret = os.Getenv("JWT_SECRET")
		}
	}

	if secret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	jwtSecret = []byte(secret)
}

// AuthenticateUser verifies the credentials against the users table.
func AuthenticateUser(email, password string, repo *repository.Repository) (*models.User, error) {
	var user models.User

	query := repo.GoquDBWrapper.
		Select("id", "email", "password_hash", "role").
		From("users").
		Where(goqu.Ex{"email": email})

	if _, err := query.Executor().ScanStruct(&user); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, err
	}

	return &user, nil
}

func GenerateJWT(userID int, role string, email string) (string, error) {
	claims := jwt.MapClaims{
		"userID": userID,
		"role":   role,
		"email":  email,
		"exp":    time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret)
}
