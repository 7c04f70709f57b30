package appointments

import (
	"strings"
	"time"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/auth"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/dberr"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CreateAppointmentRequest struct {
	ClientID *uint  `json:"client_id"`
	Title    string `json:"title"`
	Service  string `json:"service"`
	StartsAt string `json:"starts_at"` // RFC3339
	EndsAt   string `json:"ends_at"`
	Notes    string `json:"notes"`
}

type UpdateAppointmentRequest struct {
	Title    *string `json:"title"`
	Service  *string `json:"service"`
	StartsAt *string `json:"starts_at"`
	EndsAt   *string `json:"ends_at"`
	Status   *string `json:"status"`
	Notes    *string `json:"notes"`
}

type AppointmentResponse struct {
	ID       uint                     `json:"id"`
	ClientID *uint                    `json:"client_id"`
	Title    string                   `json:"title"`
	Service  string                   `json:"service"`
	StartsAt string                   `json:"starts_at"`
	EndsAt   string                   `json:"ends_at"`
	Status   models.AppointmentStatus `json:"status"`
	Notes    string                   `json:"notes"`
}

func toResponse(a models.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:       a.ID,
		ClientID: a.ClientID,
		Title:    a.Title,
		Service:  a.Service,
		StartsAt: a.StartsAt.Format(time.RFC3339),
		EndsAt:   a.EndsAt.Format(time.RFC3339),
		Status:   a.Status,
		Notes:    a.Notes,
	}
}

// GET /api/appointments?from=2025-08-01&to=2025-08-31&status=agendado
func ListAppointmentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		dbq := auth.Scoped(database.DB.Model(&models.Appointment{}), scope)

		if fromStr := c.Query("from"); fromStr != "" {
			from, err := time.Parse("2006-01-02", fromStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'from' inválida")
			}
			dbq = dbq.Where("starts_at >= ?", from)
		}
		if toStr := c.Query("to"); toStr != "" {
			to, err := time.Parse("2006-01-02", toStr)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "Data 'to' inválida")
			}
			dbq = dbq.Where("starts_at < ?", to.AddDate(0, 0, 1))
		}
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}

		var list []models.Appointment
		if err := dbq.Order("starts_at asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível listar os agendamentos")
		}

		res := make([]AppointmentResponse, 0, len(list))
		for _, a := range list {
			res = append(res, toResponse(a))
		}
		return c.JSON(res)
	}
}

// POST /api/appointments
func CreateAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		var body CreateAppointmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		body.Title = strings.TrimSpace(body.Title)
		if body.Title == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Título é obrigatório")
		}

		startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "starts_at inválido, use RFC3339")
		}
		endsAt, err := time.Parse(time.RFC3339, body.EndsAt)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "ends_at inválido, use RFC3339")
		}
		if !endsAt.After(startsAt) {
			return fiber.NewError(fiber.StatusBadRequest, "ends_at deve ser depois de starts_at")
		}

		if body.ClientID != nil {
			violations, err := validate.CheckRefs(validate.GormExists(database.DB),
				validate.Ref{Field: "client_id", Model: &models.Client{}, ID: *body.ClientID, CompanyID: scope.CompanyID})
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível validar as referências")
			}
			if len(violations) > 0 {
				return validate.RefsError(c, violations)
			}
		}

		a := models.Appointment{
			CompanyID: scope.CompanyID,
			BranchID:  scope.BranchID,
			ClientID:  body.ClientID,
			Title:     body.Title,
			Service:   strings.TrimSpace(body.Service),
			StartsAt:  startsAt,
			EndsAt:    endsAt,
			Status:    models.AppointmentScheduled,
			Notes:     strings.TrimSpace(body.Notes),
		}

		if err := database.DB.Create(&a).Error; err != nil {
			return dberr.Translate(err, "Agendamento não encontrado")
		}

		return c.Status(fiber.StatusCreated).JSON(toResponse(a))
	}
}

// PUT /api/appointments/:id
// agendado → concluido|cancelado; concluido e cancelado são terminais.
func UpdateAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var a models.Appointment
		if err := auth.Scoped(database.DB, scope).First(&a, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Agendamento não encontrado")
		}

		var body UpdateAppointmentRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Corpo da requisição inválido")
		}

		if body.Status != nil {
			next := models.AppointmentStatus(*body.Status)
			switch next {
			case models.AppointmentScheduled, models.AppointmentDone, models.AppointmentCanceled:
				// ok
			default:
				return fiber.NewError(fiber.StatusBadRequest, "Status inválido (agendado|concluido|cancelado)")
			}
			if a.Status != models.AppointmentScheduled && next != a.Status {
				return fiber.NewError(fiber.StatusBadRequest, "Agendamento concluído ou cancelado não pode mudar de status")
			}
			a.Status = next
		}

		if body.Title != nil {
			title := strings.TrimSpace(*body.Title)
			if title == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Título não pode ser vazio")
			}
			a.Title = title
		}
		if body.Service != nil {
			a.Service = strings.TrimSpace(*body.Service)
		}
		if body.Notes != nil {
			a.Notes = strings.TrimSpace(*body.Notes)
		}
		if body.StartsAt != nil {
			t, err := time.Parse(time.RFC3339, *body.StartsAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "starts_at inválido, use RFC3339")
			}
			a.StartsAt = t
		}
		if body.EndsAt != nil {
			t, err := time.Parse(time.RFC3339, *body.EndsAt)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "ends_at inválido, use RFC3339")
			}
			a.EndsAt = t
		}
		if !a.EndsAt.After(a.StartsAt) {
			return fiber.NewError(fiber.StatusBadRequest, "ends_at deve ser depois de starts_at")
		}

		if err := database.DB.Save(&a).Error; err != nil {
			return dberr.Translate(err, "Agendamento não encontrado")
		}

		return c.JSON(toResponse(a))
	}
}

// DELETE /api/appointments/:id
func DeleteAppointmentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		id := c.Params("id")

		var a models.Appointment
		if err := auth.Scoped(database.DB, scope).First(&a, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Agendamento não encontrado")
		}

		if err := database.DB.Delete(&a).Error; err != nil {
			return dberr.Translate(err, "Agendamento não encontrado")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}
