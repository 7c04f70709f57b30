package auth

import (
	"errors"
	"testing"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	users map[string]*models.User
}

func (s *fakeUserStore) FindByEmail(email string) (*models.User, error) {
	user, ok := s.users[email]
	if !ok {
		return nil, errors.New("registro não encontrado")
	}
	return user, nil
}

func storeWith(t *testing.T, email, password string) *fakeUserStore {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeUserStore{users: map[string]*models.User{
		email: {ID: 1, Email: email, Name: "Teste", PasswordHash: string(hash), Role: models.RoleUser},
	}}
}

func TestAuthenticateSuccess(t *testing.T) {
	store := storeWith(t, "veterinario@petclinic.com", "vet2025")
	authn := NewAuthenticator(store)

	user, err := authn.Authenticate("veterinario@petclinic.com", "vet2025")
	require.NoError(t, err)
	require.Equal(t, uint(1), user.ID)
}

func TestAuthenticateNormalizesEmail(t *testing.T) {
	store := storeWith(t, "veterinario@petclinic.com", "vet2025")
	authn := NewAuthenticator(store)

	user, err := authn.Authenticate("  Veterinario@PetClinic.com ", "vet2025")
	require.NoError(t, err)
	require.Equal(t, uint(1), user.ID)
}

// Email desconhecido e senha errada precisam ser indistinguíveis para o
// chamador; qualquer diferença permitiria enumerar usuários cadastrados.
func TestAuthenticateUniformFailure(t *testing.T) {
	store := storeWith(t, "veterinario@petclinic.com", "vet2025")
	authn := NewAuthenticator(store)

	_, errUnknown := authn.Authenticate("ninguem@example.com", "vet2025")
	_, errWrongPass := authn.Authenticate("veterinario@petclinic.com", "senha-errada")

	require.ErrorIs(t, errUnknown, ErrNoMatch)
	require.ErrorIs(t, errWrongPass, ErrNoMatch)
	require.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

func TestAuthenticateEmptyInputs(t *testing.T) {
	store := storeWith(t, "veterinario@petclinic.com", "vet2025")
	authn := NewAuthenticator(store)

	_, err := authn.Authenticate("", "vet2025")
	require.ErrorIs(t, err, ErrNoMatch)

	_, err = authn.Authenticate("veterinario@petclinic.com", "")
	require.ErrorIs(t, err, ErrNoMatch)
}
