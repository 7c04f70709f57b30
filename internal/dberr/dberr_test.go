package dberr

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestTranslateRecordNotFound(t *testing.T) {
	err := Translate(gorm.ErrRecordNotFound, "Produto não encontrado")

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusNotFound, fe.Code)
	require.Equal(t, "Produto não encontrado", fe.Message)
}

func TestTranslateUnknownErrorIsGeneric(t *testing.T) {
	err := Translate(errors.New("connection refused"), "x")

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusInternalServerError, fe.Code)
	// Texto cru do banco nunca vaza para o cliente
	require.NotContains(t, fe.Message, "connection refused")
}

func translateApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if handled, herr := Handle(c, err); handled {
				return herr
			}
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{"error": e.Message})
			}
			return c.SendStatus(fiber.StatusInternalServerError)
		},
	})
}

type storePayload struct {
	Error      string `json:"error"`
	Constraint string `json:"constraint"`
	Hint       string `json:"hint"`
}

func doTranslate(t *testing.T, pgErr *pgconn.PgError) (int, storePayload) {
	t.Helper()
	app := translateApp()
	app.Post("/x", func(c *fiber.Ctx) error {
		return Translate(pgErr, "não encontrado")
	})

	resp, err := app.Test(httptest.NewRequest("POST", "/x", nil))
	require.NoError(t, err)

	var payload storePayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	return resp.StatusCode, payload
}

func TestTranslateUniqueViolation(t *testing.T) {
	status, payload := doTranslate(t, &pgconn.PgError{
		Code:           "23505",
		ConstraintName: "idx_users_email",
		Message:        `duplicate key value violates unique constraint "idx_users_email"`,
	})

	require.Equal(t, fiber.StatusConflict, status)
	require.Equal(t, "idx_users_email", payload.Constraint)
	// A mensagem é a nossa, não a do Postgres
	require.NotContains(t, payload.Error, "duplicate key")
	require.NotEmpty(t, payload.Hint)
}

func TestTranslateForeignKeyViolation(t *testing.T) {
	status, payload := doTranslate(t, &pgconn.PgError{
		Code:           "23503",
		ConstraintName: "fk_sales_product",
	})

	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "fk_sales_product", payload.Constraint)
}

func TestTranslateNotNullViolation(t *testing.T) {
	status, payload := doTranslate(t, &pgconn.PgError{
		Code:       "23502",
		ColumnName: "company_id",
	})

	require.Equal(t, fiber.StatusBadRequest, status)
	require.Equal(t, "company_id", payload.Constraint)
}
