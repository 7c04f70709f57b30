package auth

import (
	"errors"
	"strings"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrNoMatch cobre tanto email desconhecido quanto senha errada. O chamador
// não consegue distinguir os dois casos, o que evita enumeração de usuários.
var ErrNoMatch = errors.New("credenciais inválidas")

// UserStore é o que o Authenticator precisa do banco. Em produção é o
// gormUserStore; nos testes, um fake em memória.
type UserStore interface {
	FindByEmail(email string) (*models.User, error)
}

type Authenticator struct {
	store UserStore
}

func NewAuthenticator(store UserStore) *Authenticator {
	return &Authenticator{store: store}
}

// Authenticate valida o par email/senha. A comparação é sempre via bcrypt
// (tempo constante sobre o hash); nunca comparar senha em texto puro.
func (a *Authenticator) Authenticate(email, password string) (*models.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrNoMatch
	}

	user, err := a.store.FindByEmail(email)
	if err != nil {
		return nil, ErrNoMatch
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrNoMatch
	}

	return user, nil
}

type gormUserStore struct {
	db *gorm.DB
}

func NewGormUserStore(db *gorm.DB) UserStore {
	return &gormUserStore{db: db}
}

func (s *gormUserStore) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
