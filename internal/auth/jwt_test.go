package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = strings.Repeat("s", 32)

func testUser() *models.User {
	companyID := uint(7)
	branchID := uint(3)
	return &models.User{
		ID:        42,
		UUID:      "7f9c4e9a-0000-0000-0000-000000000042",
		Email:     "veterinario@petclinic.com",
		Role:      models.RoleAdmin,
		CompanyID: &companyID,
		BranchID:  &branchID,
	}
}

func TestGenerateAndParseToken(t *testing.T) {
	user := testUser()

	token, err := GenerateToken(testSecret, user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, user.UUID, claims.UserUUID)
	require.Equal(t, user.Email, claims.Email)
	require.Equal(t, models.RoleAdmin, claims.Role)
	require.NotNil(t, claims.CompanyID)
	require.Equal(t, uint(7), *claims.CompanyID)
	require.NotNil(t, claims.BranchID)
	require.Equal(t, uint(3), *claims.BranchID)
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)

	_, err = ParseToken(strings.Repeat("o", 32), token)
	require.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	// Token emitido no passado, já vencido
	claims := &Claims{
		UserID: 42,
		Email:  "veterinario@petclinic.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-25 * time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	require.Error(t, err)
}

func TestParseTokenMalformed(t *testing.T) {
	_, err := ParseToken(testSecret, "isto-nao-e-um-jwt")
	require.Error(t, err)
}

func TestParseTokenRejectsOtherSigningMethod(t *testing.T) {
	// alg "none" não pode passar
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{UserID: 42}).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, token)
	require.Error(t, err)
}

func TestTokenExpiryIs24h(t *testing.T) {
	token, err := GenerateToken(testSecret, testUser())
	require.NoError(t, err)

	claims, err := ParseToken(testSecret, token)
	require.NoError(t, err)

	ttl := time.Until(claims.ExpiresAt.Time)
	require.InDelta(t, TokenTTL.Seconds(), ttl.Seconds(), 60)
}
