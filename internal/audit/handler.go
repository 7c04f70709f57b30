package audit

import (
	"time"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/auth"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/audit-logs?entity_type=sale&from=2025-08-01&to=2025-08-31
// Somente admin; sempre restrito à empresa do chamador.
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		dbq := database.DB.Model(&models.AuditLog{}).
			Where("company_id = ?", scope.CompanyID)

		if et := c.Query("entity_type"); et != "" {
			dbq = dbq.Where("entity_type = ?", et)
		}
		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'from' inválida, use YYYY-MM-DD")
			}
			dbq = dbq.Where("created_at >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'to' inválida, use YYYY-MM-DD")
			}
			dbq = dbq.Where("created_at < ?", to.AddDate(0, 0, 1))
		}

		var logs []models.AuditLog
		if err := dbq.Order("created_at DESC").Limit(200).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os registros de auditoria")
		}

		return c.JSON(logs)
	}
}

// Actor resolve quem está fazendo a mutação, para gravação no log.
func Actor(c *fiber.Ctx) (uint, string) {
	userID, ok := c.Locals(auth.CtxUserIDKey).(uint)
	if !ok {
		return 0, ""
	}

	var user models.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		return userID, ""
	}
	return userID, user.Name
}
