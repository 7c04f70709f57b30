package transfers

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

type CreateTransferRequest struct {
	ProductID    uint `json:"product_id"`
	FromBranchID uint `json:"from_branch_id"`
	ToBranchID   uint `json:"to_branch_id"`
	Quantity     int  `json:"quantity"`
}

type TransferResponse struct {
	ID           uint                  `json:"id"`
	ProductID    uint                  `json:"product_id"`
	FromBranchID uint                  `json:"from_branch_id"`
	ToBranchID   uint                  `json:"to_branch_id"`
	Quantity     int                   `json:"quantity"`
	Status       models.TransferStatus `json:"status"`
	CompletedAt  *string               `json:"completed_at"`
}

func toResponse(t models.Transfer) TransferResponse {
	resp := TransferResponse{
		ID:           t.ID,
		ProductID:    t.ProductID,
		FromBranchID: t.FromBranchID,
		ToBranchID:   t.ToBranchID,
		Quantity:     t.Quantity,
		Status:       t.Status,
	}
	if t.CompletedAt != nil {
		s := t.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}

// GET /api/transfers?status=pendente
// Transferência é da empresa inteira, não de uma filial só.
func ListTransfersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.Transfer{}).Where("company_id = ?", scope.CompanyID)
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var list []models.Transfer
		if err := dbq.Order("created_at desc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar as transferências")
		}

		res := make([]TransferResponse, 0, len(list))
		for _, t := range list {
			res = append(res, toResponse(t))
		}
		return c.JSON(res)
	}
}

// POST /api/transfers
func CreateTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateTransferRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Quantidade deve ser maior que zero")
		}
		if body.FromBranchID == body.ToBranchID {
			return fiber.NewError(fiber.StatusBadRequest, "Filial de origem e destino devem ser diferentes")
		}

		violations, err := validate.CheckRefs(validate.GormExists(database.DB),
			validate.Ref{Field: "product_id", Model: &models.Product{}, ID: body.ProductID, CompanyID: scope.CompanyID},
			validate.Ref{Field: "from_branch_id", Model: &models.Branch{}, ID: body.FromBranchID, CompanyID: scope.CompanyID},
			validate.Ref{Field: "to_branch_id", Model: &models.Branch{}, ID: body.ToBranchID, CompanyID: scope.CompanyID},
		)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível validar as referências")
		}
		if len(violations) > 0 {
			return validate.RefsError(c, violations)
		}

		t := models.Transfer{
			CompanyID:    scope.CompanyID,
			ProductID:    body.ProductID,
			FromBranchID: body.FromBranchID,
			ToBranchID:   body.ToBranchID,
			Quantity:     body.Quantity,
			Status:       models.TransferPending,
			RequestedBy:  scope.UserID,
		}

		if err := database.DB.Create(&t).Error; err != nil {
			return dberr.Translate(err, "Transferência não encontrada")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "transfer",
			EntityID:    t.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Transferência solicitada: produto %d, %d un.", t.ProductID, t.Quantity),
			After:       toResponse(t),
		})

		return c.Status(fiber.StatusCreated).JSON(toResponse(t))
	}
}

// ensureSourceStock barra a conclusão que deixaria o estoque da origem negativo.
func ensureSourceStock(available, requested int) error {
	if available < requested {
		return fiber.NewError(fiber.StatusBadRequest,
			fmt.Sprintf("Estoque insuficiente na origem: disponível %d", available))
	}
	return nil
}

// POST /api/transfers/:id/complete
// Ajusta o estoque das duas filiais numa única transação. O produto da
// filial de destino é casado pelo nome; se não existir, é criado lá.
func CompleteTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var t models.Transfer
		if err := database.DB.Where("company_id = ?", scope.CompanyID).First(&t, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Transferência não encontrada")
		}

		if t.Status != models.TransferPending {
			return fiber.NewError(fiber.StatusBadRequest, "Transferência não está pendente")
		}

		txErr := database.DB.Transaction(func(tx *gorm.DB) error {
			var source models.Product
			if err := tx.Where("company_id = ? AND branch_id = ?", t.CompanyID, t.FromBranchID).
				First(&source, "id = ?", t.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusNotFound, "Produto não encontrado na filial de origem")
			}

			if err := ensureSourceStock(source.Stock, t.Quantity); err != nil {
				return err
			}

			source.Stock -= t.Quantity
			if err := tx.Save(&source).Error; err != nil {
				return err
			}

			var dest models.Product
			err := tx.Where("company_id = ? AND branch_id = ? AND name = ?",
				t.CompanyID, t.ToBranchID, source.Name).First(&dest).Error
			if err == gorm.ErrRecordNotFound {
				dest = models.Product{
					CompanyID:   t.CompanyID,
					BranchID:    t.ToBranchID,
					Name:        source.Name,
					Description: source.Description,
					Price:       source.Price,
					Stock:       t.Quantity,
					MinStock:    source.MinStock,
					Barcode:     source.Barcode,
					Active:      true,
				}
				if err := tx.Create(&dest).Error; err != nil {
					return err
				}
			} else if err != nil {
				return err
			} else {
				dest.Stock += t.Quantity
				if err := tx.Save(&dest).Error; err != nil {
					return err
				}
			}

			now := time.Now()
			t.Status = models.TransferDone
			t.CompletedAt = &now
			return tx.Save(&t).Error
		})
		if txErr != nil {
			if fe, ok := txErr.(*fiber.Error); ok {
				return fe
			}
			return dberr.Translate(txErr, "Transferência não encontrada")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "transfer",
			EntityID:    t.ID,
			Action:      models.AuditActionUpdate,
			Description: "Transferência concluída",
			After:       toResponse(t),
		})

		cache.InvalidateReports(c.Context(), scope.CompanyID, t.FromBranchID)
		cache.InvalidateReports(c.Context(), scope.CompanyID, t.ToBranchID)

		return c.JSON(toResponse(t))
	}
}

// POST /api/transfers/:id/cancel
func CancelTransferHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var t models.Transfer
		if err := database.DB.Where("company_id = ?", scope.CompanyID).First(&t, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Transferência não encontrada")
		}

		if t.Status != models.TransferPending {
			return fiber.NewError(fiber.StatusBadRequest, "Transferência não está pendente")
		}
		before := toResponse(t)

		t.Status = models.TransferCanceled
		if err := database.DB.Save(&t).Error; err != nil {
			return dberr.Translate(err, "Transferência não encontrada")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "transfer",
			EntityID:    t.ID,
			Action:      models.AuditActionUpdate,
			Description: "Transferência cancelada",
			Before:      before,
			After:       toResponse(t),
		})

		return c.JSON(toResponse(t))
	}
}
