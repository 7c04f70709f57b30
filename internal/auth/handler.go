package auth

import (
	"strings"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/config"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/dberr"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Password         string `json:"password"`
	BusinessCategory string `json:"business_category"`
}

type CreateCompanyRequest struct {
	Name             string `json:"name"`
	BusinessCategory string `json:"business_category"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	BranchName       string `json:"branch_name"` // nome da matriz (opcional)
}

type CreateBranchRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address"`
	IsMain  bool   `json:"is_main"`
}

func userPayload(user *models.User) fiber.Map {
	return fiber.Map{
		"id":                user.ID,
		"uuid":              user.UUID,
		"name":              user.Name,
		"email":             user.Email,
		"role":              user.Role,
		"company_id":        user.CompanyID,
		"branch_id":         user.BranchID,
		"business_category": user.BusinessCategory,
	}
}

// POST /api/auth/uuid-login
// Email desconhecido e senha errada produzem exatamente a mesma resposta.
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if strings.TrimSpace(body.Email) == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email e senha são obrigatórios")
		}

		authn := NewAuthenticator(NewGormUserStore(database.DB))
		user, err := authn.Authenticate(body.Email, body.Password)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Credenciais inválidas")
		}

		token, err := GenerateToken(cfg.JWTSecret, user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o token")
		}

		return c.JSON(fiber.Map{
			"user":    userPayload(user),
			"token":   token,
			"success": true,
		})
	}
}

// POST /api/auth/register
func RegisterHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Name = strings.TrimSpace(body.Name)

		if body.Name == "" || body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome, email e senha são obrigatórios")
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível processar a senha")
		}

		user := models.User{
			UUID:             uuid.NewString(),
			Name:             body.Name,
			Email:            body.Email,
			PasswordHash:     string(hash),
			Role:             models.RoleUser,
			BusinessCategory: strings.TrimSpace(body.BusinessCategory),
		}

		if err := database.DB.Create(&user).Error; err != nil {
			return dberr.Translate(err, "Usuário não encontrado")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o token")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"user":    userPayload(&user),
			"token":   token,
			"success": true,
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido ou expirado")
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}

		resp := fiber.Map{"user": userPayload(&user)}

		if user.BranchID != nil {
			var branch models.Branch
			if err := database.DB.First(&branch, *user.BranchID).Error; err == nil {
				resp["branch"] = fiber.Map{
					"id":      branch.ID,
					"name":    branch.Name,
					"code":    branch.Code,
					"address": branch.Address,
					"is_main": branch.IsMain,
				}
			}
		}

		return c.JSON(resp)
	}
}

// POST /api/auth/companies
// Quem cria a empresa vira admin dela e fica vinculado à matriz.
func CreateCompanyHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, ok := c.Locals(CtxUserIDKey).(uint)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "Token inválido ou expirado")
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Usuário não encontrado")
		}
		if user.CompanyID != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Usuário já pertence a uma empresa")
		}

		var body CreateCompanyRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" || strings.TrimSpace(body.BusinessCategory) == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome e categoria do negócio são obrigatórios")
		}

		company := models.Company{
			UUID:             uuid.NewString(),
			Name:             body.Name,
			BusinessCategory: strings.TrimSpace(body.BusinessCategory),
			Email:            strings.TrimSpace(body.Email),
			Phone:            strings.TrimSpace(body.Phone),
			CreatedBy:        user.ID,
		}

		branchName := strings.TrimSpace(body.BranchName)
		if branchName == "" {
			branchName = "Matriz"
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&company).Error; err != nil {
				return err
			}

			branch := models.Branch{
				CompanyID: company.ID,
				Name:      branchName,
				IsMain:    true,
			}
			if err := tx.Create(&branch).Error; err != nil {
				return err
			}

			user.CompanyID = &company.ID
			user.BranchID = &branch.ID
			user.Role = models.RoleAdmin
			if user.BusinessCategory == "" {
				user.BusinessCategory = company.BusinessCategory
			}
			return tx.Save(&user).Error
		})
		if err != nil {
			return dberr.Translate(err, "Empresa não encontrada")
		}

		// O vínculo novo só entra no token na próxima emissão; devolvemos um
		// token reemitido para o cliente não ficar com claims defasadas.
		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível gerar o token")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"company": fiber.Map{
				"id":                company.ID,
				"uuid":              company.UUID,
				"name":              company.Name,
				"business_category": company.BusinessCategory,
			},
			"user":    userPayload(&user),
			"token":   token,
			"success": true,
		})
	}
}

// POST /api/auth/branches
func CreateBranchHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		companyPtr, _ := c.Locals(CtxCompanyIDKey).(*uint)
		if companyPtr == nil {
			return fiber.NewError(fiber.StatusForbidden, "Usuário sem empresa vinculada")
		}

		var body CreateBranchRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome da filial é obrigatório")
		}

		branch := models.Branch{
			CompanyID: *companyPtr,
			Name:      body.Name,
			Code:      strings.TrimSpace(body.Code),
			Address:   strings.TrimSpace(body.Address),
			IsMain:    body.IsMain,
		}

		if err := database.DB.Create(&branch).Error; err != nil {
			return dberr.Translate(err, "Filial não encontrada")
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":         branch.ID,
			"company_id": branch.CompanyID,
			"name":       branch.Name,
			"code":       branch.Code,
			"address":    branch.Address,
			"is_main":    branch.IsMain,
		})
	}
}
