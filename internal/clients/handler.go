package clients

import (
	"strings"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/auth"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/dberr"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ClientResponse struct {
	ID       uint   `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"`
	Notes    string `json:"notes"`
}

type CreateClientRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Document string `json:"document"` // CPF/CNPJ, opcional
	Notes    string `json:"notes"`
}

type UpdateClientRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Phone    *string `json:"phone"`
	Document *string `json:"document"`
	Notes    *string `json:"notes"`
}

func toResponse(cl models.Client) ClientResponse {
	return ClientResponse{
		ID:       cl.ID,
		Name:     cl.Name,
		Email:    cl.Email,
		Phone:    cl.Phone,
		Document: cl.Document,
		Notes:    cl.Notes,
	}
}

// GET /api/clients?search=joao
func ListClientsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		dbq := auth.Scoped(database.DB.Model(&models.Client{}), scope)
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			dbq = dbq.Where("name ILIKE ? OR email ILIKE ?", "%"+search+"%", "%"+search+"%")
		}

		var list []models.Client
		if err := dbq.Order("name asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os clientes")
		}

		res := make([]ClientResponse, 0, len(list))
		for _, cl := range list {
			res = append(res, toResponse(cl))
		}
		return c.JSON(res)
	}
}

// POST /api/clients
func CreateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome do cliente é obrigatório")
		}

		cl := models.Client{
			CompanyID: scope.CompanyID,
			BranchID:  scope.BranchID,
			Name:      body.Name,
			Email:     strings.TrimSpace(strings.ToLower(body.Email)),
			Phone:     strings.TrimSpace(body.Phone),
			Document:  strings.TrimSpace(body.Document),
			Notes:     strings.TrimSpace(body.Notes),
		}

		if err := database.DB.Create(&cl).Error; err != nil {
			return dberr.Translate(err, "Cliente não encontrado")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(cl))
	}
}

// PUT /api/clients/:id
func UpdateClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var cl models.Client
		if err := auth.Scoped(database.DB, scope).First(&cl, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente não encontrado")
		}

		var body UpdateClientRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome do cliente não pode ser vazio")
			}
			cl.Name = name
		}
		if body.Email != nil {
			cl.Email = strings.TrimSpace(strings.ToLower(*body.Email))
		}
		if body.Phone != nil {
			cl.Phone = strings.TrimSpace(*body.Phone)
		}
		if body.Document != nil {
			cl.Document = strings.TrimSpace(*body.Document)
		}
		if body.Notes != nil {
			cl.Notes = strings.TrimSpace(*body.Notes)
		}

		if err := database.DB.Save(&cl).Error; err != nil {
			return dberr.Translate(err, "Cliente não encontrado")
		}

		return c.JSON(toResponse(cl))
	}
}

// DELETE /api/clients/:id
func DeleteClientHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var cl models.Client
		if err := auth.Scoped(database.DB, scope).First(&cl, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Cliente não encontrado")
		}

		if err := database.DB.Delete(&cl).Error; err != nil {
			return dberr.Translate(err, "Cliente não encontrado")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
