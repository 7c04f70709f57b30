package auth

import (
	"fmt"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Scope é o recorte de tenant derivado das claims verificadas. Toda
// consulta/mutação de dados de negócio passa por ele.
type Scope struct {
	UserID    uint
	Role      models.UserRole
	CompanyID uint
	BranchID  uint
}

// ScopeFromCtx resolve empresa e filial do chamador.
//   - role "user": filial vem sempre do token.
//   - role "admin": pode escolher outra filial da PRÓPRIA empresa via
//     ?branch_id= (ou usa a do token se omitido). Empresa nunca é
//     sobrescrevível por ninguém.
func ScopeFromCtx(c *fiber.Ctx) (Scope, error) {
	var s Scope

	userID, ok := c.Locals(CtxUserIDKey).(uint)
	if !ok {
		return s, fiber.NewError(fiber.StatusForbidden, "Não foi possível identificar o usuário")
	}
	role, ok := c.Locals(CtxUserRoleKey).(models.UserRole)
	if !ok {
		return s, fiber.NewError(fiber.StatusForbidden, "Não foi possível identificar o papel do usuário")
	}

	companyPtr, _ := c.Locals(CtxCompanyIDKey).(*uint)
	if companyPtr == nil {
		return s, fiber.NewError(fiber.StatusForbidden, "Usuário sem empresa vinculada")
	}

	branchPtr, _ := c.Locals(CtxBranchIDKey).(*uint)

	s.UserID = userID
	s.Role = role
	s.CompanyID = *companyPtr

	if role == models.RoleAdmin {
		if bidStr := c.Query("branch_id"); bidStr != "" {
			var bid uint
			if _, err := fmt.Sscan(bidStr, &bid); err != nil || bid == 0 {
				return s, fiber.NewError(fiber.StatusBadRequest, "branch_id inválido")
			}
			ok, err := branchInCompany(bid, s.CompanyID)
			if err != nil {
				return s, fiber.NewError(fiber.StatusInternalServerError, "Não foi possível validar a filial")
			}
			if !ok {
				return s, fiber.NewError(fiber.StatusForbidden, "Filial não pertence à sua empresa")
			}
			s.BranchID = bid
			return s, nil
		}
	}

	if branchPtr == nil {
		return s, fiber.NewError(fiber.StatusForbidden, "Usuário sem filial vinculada")
	}
	s.BranchID = *branchPtr
	return s, nil
}

// branchInCompany confere se a filial pedida pertence mesmo à empresa do
// chamador. Variável para os testes trocarem por um fake.
var branchInCompany = func(branchID, companyID uint) (bool, error) {
	var count int64
	err := database.DB.Model(&models.Branch{}).
		Where("id = ? AND company_id = ?", branchID, companyID).
		Count(&count).Error
	return count > 0, err
}

// Scoped aplica o filtro de tenant. Consulta sem esse filtro é defeito.
func Scoped(db *gorm.DB, s Scope) *gorm.DB {
	return db.Where("company_id = ? AND branch_id = ?", s.CompanyID, s.BranchID)
}
