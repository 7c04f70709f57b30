package sales

import (
	"fmt"
	"time"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/audit"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/auth"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/cache"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/dberr"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/validate"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateSaleRequest struct {
	ProductID     uint                 `json:"product_id"`
	ClientID      *uint                `json:"client_id"` // venda balcão pode omitir
	Quantity      int                  `json:"quantity"`
	UnitPrice     *float64             `json:"unit_price"` // omitido = preço atual do produto
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	SaleDate      *string              `json:"sale_date"` // "2025-08-30", vazio = hoje
}

type SaleResponse struct {
	ID            uint                 `json:"id"`
	BranchID      uint                 `json:"branch_id"`
	ProductID     uint                 `json:"product_id"`
	ClientID      *uint                `json:"client_id"`
	SellerID      uint                 `json:"seller_id"`
	Quantity      int                  `json:"quantity"`
	UnitPrice     float64              `json:"unit_price"`
	Total         float64              `json:"total"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	SaleDate      string               `json:"sale_date"`
}

func toResponse(s models.Sale) SaleResponse {
	return SaleResponse{
		ID:            s.ID,
		BranchID:      s.BranchID,
		ProductID:     s.ProductID,
		ClientID:      s.ClientID,
		SellerID:      s.SellerID,
		Quantity:      s.Quantity,
		UnitPrice:     s.UnitPrice,
		Total:         s.Total,
		PaymentMethod: s.PaymentMethod,
		SaleDate:      s.SaleDate.Format("2006-01-02"),
	}
}

// ensureStock barra a venda que deixaria o estoque negativo.
func ensureStock(available, requested int) error {
	if available < requested {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Estoque insuficiente: disponível %d", available))
	}
	return nil
}

// POST /api/sales
func CreateSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateSaleRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id é obrigatório")
		}
		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantidade deve ser maior que zero")
		}
		switch body.PaymentMethod {
		case models.PaymentCash, models.PaymentCard, models.PaymentPix:
			// ok
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Forma de pagamento inválida (dinheiro|cartao|pix)")
		}

		// Pré-checagem de referências: devolve TODAS as violações de uma vez,
		// em vez do erro cru de constraint do Postgres.
		refs := []validate.Ref{
			{Field: "product_id", Model: &models.Product{}, ID: body.ProductID, CompanyID: scope.CompanyID},
			{Field: "seller_id", Model: &models.User{}, ID: scope.UserID, CompanyID: scope.CompanyID},
		}
		if body.ClientID != nil {
			refs = append(refs, validate.Ref{Field: "client_id", Model: &models.Client{}, ID: *body.ClientID, CompanyID: scope.CompanyID})
		}
		violations, err := validate.CheckRefs(validate.GormExists(database.DB), refs...)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível validar as referências")
		}
		if len(violations) > 0 {
			return validate.RefsError(c, violations)
		}

		var saleDate time.Time
		if body.SaleDate == nil || *body.SaleDate == "" {
			now := time.Now()
			saleDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		} else {
			d, err := time.Parse("2006-01-02", *body.SaleDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data inválida, use YYYY-MM-DD")
			}
			saleDate = d
		}

		var sale models.Sale
		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var product models.Product
			if err := auth.Scoped(tx, scope).First(&product, "id = ?", body.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado")
			}

			if err := ensureStock(product.Stock, body.Quantity); err != nil {
				return err
			}

			unitPrice := product.Price
			if body.UnitPrice != nil {
				if *body.UnitPrice < 0 {
					return fiber.NewError(fiber.StatusBadRequest, "Preço unitário não pode ser negativo")
				}
				unitPrice = *body.UnitPrice
			}

			sale = models.Sale{
				CompanyID:     scope.CompanyID,
				BranchID:      scope.BranchID,
				ProductID:     product.ID,
				ClientID:      body.ClientID,
				SellerID:      scope.UserID,
				Quantity:      body.Quantity,
				UnitPrice:     unitPrice,
				Total:         unitPrice * float64(body.Quantity),
				PaymentMethod: body.PaymentMethod,
				SaleDate:      saleDate,
			}
			if err := tx.Create(&sale).Error; err != nil {
				return err
			}

			product.Stock -= body.Quantity
			return tx.Save(&product).Error
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return dberr.Translate(txErr, "Venda não encontrada")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			BranchID:    &sale.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Venda registrada: %s - R$ %.2f", sale.PaymentMethod, sale.Total),
			After:       toResponse(sale),
		})

		cache.InvalidateReports(c.Context(), scope.CompanyID, scope.BranchID)

		return c.Status(fiber.StatusCreated).JSON(toResponse(sale))
	}
}

// GET /api/sales?from=2025-08-01&to=2025-08-31&payment_method=pix
func ListSalesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		dbq := auth.Scoped(database.DB.Model(&models.Sale{}), scope)

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'from' inválida")
			}
			dbq = dbq.Where("sale_date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'to' inválida")
			}
			dbq = dbq.Where("sale_date <= ?", to)
		}
		if pm := c.Query("payment_method"); pm != "" {
			dbq = dbq.Where("payment_method = ?", pm)
		}

		var sales []models.Sale
		if err := dbq.Order("sale_date asc, id asc").Find(&sales).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as vendas")
		}

		res := make([]SaleResponse, 0, len(sales))
		for _, s := range sales {
			res = append(res, toResponse(s))
		}
		return c.JSON(res)
	}
}

// DELETE /api/sales/:id
// Estorna o estoque do produto ao remover a venda.
func DeleteSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var sale models.Sale
		if err := auth.Scoped(database.DB, scope).First(&sale, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Venda não encontrada")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var product models.Product
			if err := tx.First(&product, sale.ProductID).Error; err == nil {
				product.Stock += sale.Quantity
				if err := tx.Save(&product).Error; err != nil {
					return err
				}
			}
			return tx.Delete(&sale).Error
		})
		if txErr != nil {
			return dberr.Translate(txErr, "Venda não encontrada")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			BranchID:    &sale.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "sale",
			EntityID:    sale.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Venda removida: R$ %.2f", sale.Total),
			Before:      toResponse(sale),
		})

		cache.InvalidateReports(c.Context(), scope.CompanyID, scope.BranchID)

		return c.SendStatus(fiber.StatusNoContent)
	}
}
