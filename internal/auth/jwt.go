package auth

import (
	"time"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL: não existe revogação; a troca de papel/empresa de um usuário
// só vale depois que o token expira e é reemitido.
const TokenTTL = 24 * time.Hour

type Claims struct {
	UserID    uint            `json:"user_id"`
	UserUUID  string          `json:"uuid"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	CompanyID *uint           `json:"company_id"`
	BranchID  *uint           `json:"branch_id"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User) (string, error) {
	claims := &Claims{
		UserID:    user.ID,
		UserUUID:  user.UUID,
		Email:     user.Email,
		Role:      user.Role,
		CompanyID: user.CompanyID,
		BranchID:  user.BranchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken valida assinatura e expiração. Qualquer falha (token malformado,
// assinatura errada, expirado) retorna erro sem detalhar o motivo ao chamador.
func ParseToken(secret, tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, jwt.ErrTokenUnverifiable
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, jwt.ErrTokenUnverifiable
	}
	return claims, nil
}
