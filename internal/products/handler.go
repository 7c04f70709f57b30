package products

import (
	"strings"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/audit"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/auth"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/dberr"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID          uint    `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"min_stock"`
	Barcode     string  `json:"barcode"`
	Active      bool    `json:"active"`
}

type CreateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	MinStock    int     `json:"min_stock"`
	Barcode     string  `json:"barcode"` // Opcional
}

type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Stock       *int     `json:"stock"`
	MinStock    *int     `json:"min_stock"`
	Barcode     *string  `json:"barcode"`
	Active      *bool    `json:"active"`
}

func toResponse(p models.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		Barcode:     p.Barcode,
		Active:      p.Active,
	}
}

// GET /api/products?search=racao&low_stock=true
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		dbq := auth.Scoped(database.DB.Model(&models.Product{}), scope)

		if search := strings.TrimSpace(c.Query("search")); search != "" {
			dbq = dbq.Where("name ILIKE ?", "%"+search+"%")
		}
		if c.Query("low_stock") == "true" {
			dbq = dbq.Where("stock <= min_stock")
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os produtos")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, toResponse(p))
		}
		return c.JSON(res)
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Nome do produto é obrigatório")
		}
		if body.Price < 0 || body.Stock < 0 || body.MinStock < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Preço e estoque não podem ser negativos")
		}

		p := models.Product{
			CompanyID:   scope.CompanyID,
			BranchID:    scope.BranchID,
			Name:        body.Name,
			Description: strings.TrimSpace(body.Description),
			Price:       body.Price,
			Stock:       body.Stock,
			MinStock:    body.MinStock,
			Barcode:     strings.TrimSpace(body.Barcode),
			Active:      true,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return dberr.Translate(err, "Produto não encontrado")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			BranchID:    &p.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: "Produto criado: " + p.Name,
			After:       toResponse(p),
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(p))
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var p models.Product
		if err := auth.Scoped(database.DB, scope).First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}
		before := toResponse(p)

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Nome do produto não pode ser vazio")
			}
			p.Name = name
		}
		if body.Description != nil {
			p.Description = strings.TrimSpace(*body.Description)
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Preço não pode ser negativo")
			}
			p.Price = *body.Price
		}
		if body.Stock != nil {
			if *body.Stock < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Estoque não pode ser negativo")
			}
			p.Stock = *body.Stock
		}
		if body.MinStock != nil {
			p.MinStock = *body.MinStock
		}
		if body.Barcode != nil {
			p.Barcode = strings.TrimSpace(*body.Barcode)
		}
		if body.Active != nil {
			p.Active = *body.Active
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return dberr.Translate(err, "Produto não encontrado")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			BranchID:    &p.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: "Produto atualizado: " + p.Name,
			Before:      before,
			After:       toResponse(p),
		})

		return c.JSON(toResponse(p))
	}
}

// DELETE /api/products/:id
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var p models.Product
		if err := auth.Scoped(database.DB, scope).First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return dberr.Translate(err, "Produto não encontrado")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			BranchID:    &p.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionDelete,
			Description: "Produto removido: " + p.Name,
			Before:      toResponse(p),
		})

		return c.SendStatus(fiber.StatusNoContent)
	}
}
