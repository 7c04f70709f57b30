package financial

import (
	"fmt"
	"strings"
	"time"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/audit"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/auth"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/cache"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/dberr"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateEntryRequest struct {
	Kind        models.EntryKind `json:"kind"` // entrada | saida
	Amount      float64          `json:"amount"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	DueDate     string           `json:"due_date"` // "2025-08-30"
	Paid        bool             `json:"paid"`     // já nasce pago
}

type UpdateEntryRequest struct {
	Amount      *float64 `json:"amount"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
	DueDate     *string  `json:"due_date"`
}

type EntryResponse struct {
	ID          uint               `json:"id"`
	Kind        models.EntryKind   `json:"kind"`
	Amount      float64            `json:"amount"`
	Description string             `json:"description"`
	Category    string             `json:"category"`
	Status      models.EntryStatus `json:"status"`
	DueDate     string             `json:"due_date"`
	PaidAt      *string            `json:"paid_at"`
}

func toResponse(e models.FinancialEntry) EntryResponse {
	resp := EntryResponse{
		ID:          e.ID,
		Kind:        e.Kind,
		Amount:      e.Amount,
		Description: e.Description,
		Category:    e.Category,
		Status:      e.Status,
		DueDate:     e.DueDate.Format("2006-01-02"),
	}
	if e.PaidAt != nil {
		s := e.PaidAt.Format(time.RFC3339)
		resp.PaidAt = &s
	}
	return resp
}

// GET /api/financial?kind=saida&status=pendente&from=...&to=...
func ListEntriesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		dbq := auth.Scoped(database.DB.Model(&models.FinancialEntry{}), scope)

		if kind := c.Query("kind"); kind != "" {
			dbq = dbq.Where("kind = ?", kind)
		}
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'from' inválida")
			}
			dbq = dbq.Where("due_date >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'to' inválida")
			}
			dbq = dbq.Where("due_date <= ?", to)
		}

		var entries []models.FinancialEntry
		if err := dbq.Order("due_date asc, id asc").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os lançamentos")
		}

		res := make([]EntryResponse, 0, len(entries))
		for _, e := range entries {
			res = append(res, toResponse(e))
		}
		return c.JSON(res)
	}
}

// POST /api/financial
func CreateEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Kind != models.EntryIncome && body.Kind != models.EntryExpense {
			return fiber.NewError(fiber.StatusBadRequest, "Tipo inválido (entrada|saida)")
		}
		if body.Amount <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Valor deve ser maior que zero")
		}

		dueDate, err := time.Parse("2006-01-02", body.DueDate)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Data de vencimento inválida, use YYYY-MM-DD")
		}

		e := models.FinancialEntry{
			CompanyID:   scope.CompanyID,
			BranchID:    scope.BranchID,
			Kind:        body.Kind,
			Amount:      body.Amount,
			Description: strings.TrimSpace(body.Description),
			Category:    strings.TrimSpace(body.Category),
			Status:      models.EntryPending,
			DueDate:     dueDate,
			CreatedBy:   scope.UserID,
		}
		if body.Paid {
			now := time.Now()
			e.Status = models.EntryPaid
			e.PaidAt = &now
		}

		if err := database.DB.Create(&e).Error; err != nil {
			return dberr.Translate(err, "Lançamento não encontrado")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			BranchID:    &e.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "financial_entry",
			EntityID:    e.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Lançamento criado: %s R$ %.2f", e.Kind, e.Amount),
			After:       toResponse(e),
		})

		cache.InvalidateReports(c.Context(), scope.CompanyID, scope.BranchID)

		return c.Status(fiber.StatusCreated).JSON(toResponse(e))
	}
}

// PUT /api/financial/:id
func UpdateEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var e models.FinancialEntry
		if err := auth.Scoped(database.DB, scope).First(&e, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lançamento não encontrado")
		}
		before := toResponse(e)

		var body UpdateEntryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Amount != nil {
			if *body.Amount <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Valor deve ser maior que zero")
			}
			e.Amount = *body.Amount
		}
		if body.Description != nil {
			e.Description = strings.TrimSpace(*body.Description)
		}
		if body.Category != nil {
			e.Category = strings.TrimSpace(*body.Category)
		}
		if body.DueDate != nil {
			d, err := time.Parse("2006-01-02", *body.DueDate)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data de vencimento inválida")
			}
			e.DueDate = d
		}

		if err := database.DB.Save(&e).Error; err != nil {
			return dberr.Translate(err, "Lançamento não encontrado")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			BranchID:    &e.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "financial_entry",
			EntityID:    e.ID,
			Action:      models.AuditActionUpdate,
			Description: "Lançamento atualizado",
			Before:      before,
			After:       toResponse(e),
		})

		cache.InvalidateReports(c.Context(), scope.CompanyID, scope.BranchID)

		return c.JSON(toResponse(e))
	}
}

// POST /api/financial/:id/pay
func PayEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var e models.FinancialEntry
		if err := auth.Scoped(database.DB, scope).First(&e, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lançamento não encontrado")
		}

		if e.Status == models.EntryPaid {
			return fiber.NewError(fiber.StatusBadRequest, "Lançamento já está pago")
		}
		before := toResponse(e)

		now := time.Now()
		e.Status = models.EntryPaid
		e.PaidAt = &now

		if err := database.DB.Save(&e).Error; err != nil {
			return dberr.Translate(err, "Lançamento não encontrado")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			BranchID:    &e.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "financial_entry",
			EntityID:    e.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Lançamento pago: %s R$ %.2f", e.Kind, e.Amount),
			Before:      before,
			After:       toResponse(e),
		})

		cache.InvalidateReports(c.Context(), scope.CompanyID, scope.BranchID)

		return c.JSON(toResponse(e))
	}
}

// DELETE /api/financial/:id
func DeleteEntryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var e models.FinancialEntry
		if err := auth.Scoped(database.DB, scope).First(&e, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Lançamento não encontrado")
		}

		if err := database.DB.Delete(&e).Error; err != nil {
			return dberr.Translate(err, "Lançamento não encontrado")
		}

		userID, userName := audit.Actor(c)
		_ = audit.WriteLog(audit.LogOptions{
			CompanyID:   scope.CompanyID,
			BranchID:    &e.BranchID,
			UserID:      userID,
			UserName:    userName,
			EntityType:  "financial_entry",
			EntityID:    e.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Lançamento removido: %s R$ %.2f", e.Kind, e.Amount),
			Before:      toResponse(e),
		})

		cache.InvalidateReports(c.Context(), scope.CompanyID, scope.BranchID)

		return c.SendStatus(fiber.StatusNoContent)
	}
}
