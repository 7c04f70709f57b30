package validate

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

type fakeTable struct{ name string }

func fakeExists(present map[string]map[uint]bool) ExistsFunc {
	return func(model any, id, companyID uint) (bool, error) {
		table := model.(*fakeTable).name
		return present[table][id], nil
	}
}

func TestCheckRefsAllPresent(t *testing.T) {
	exists := fakeExists(map[string]map[uint]bool{
		"products": {1: true},
		"clients":  {2: true},
	})

	violations, err := CheckRefs(exists,
		Ref{Field: "product_id", Model: &fakeTable{"products"}, ID: 1},
		Ref{Field: "client_id", Model: &fakeTable{"clients"}, ID: 2},
	)
	require.NoError(t, err)
	require.Empty(t, violations)
}

// Todas as violações voltam de uma vez, não só a primeira.
func TestCheckRefsReportsEveryViolation(t *testing.T) {
	exists := fakeExists(map[string]map[uint]bool{
		"products": {},
		"clients":  {},
	})

	violations, err := CheckRefs(exists,
		Ref{Field: "product_id", Model: &fakeTable{"products"}, ID: 10},
		Ref{Field: "client_id", Model: &fakeTable{"clients"}, ID: 20},
	)
	require.NoError(t, err)
	require.Len(t, violations, 2)
	require.Equal(t, "product_id", violations[0].Field)
	require.Equal(t, uint(10), violations[0].ID)
	require.Equal(t, "client_id", violations[1].Field)
	require.Equal(t, uint(20), violations[1].ID)
}

func TestCheckRefsSkipsOptionalZeroID(t *testing.T) {
	exists := fakeExists(map[string]map[uint]bool{})

	violations, err := CheckRefs(exists,
		Ref{Field: "client_id", Model: &fakeTable{"clients"}, ID: 0},
	)
	require.NoError(t, err)
	require.Empty(t, violations)
}

func TestRefsErrorPayload(t *testing.T) {
	app := fiber.New()
	app.Post("/venda", func(c *fiber.Ctx) error {
		return RefsError(c, []Violation{
			{Field: "client_id", ID: 99, Message: "Registro referenciado não existe: client_id"},
		})
	})

	req := httptest.NewRequest("POST", "/venda", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var payload struct {
		Error      string      `json:"error"`
		Violations []Violation `json:"violations"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	require.Equal(t, "Referências inválidas", payload.Error)
	require.Len(t, payload.Violations, 1)
	require.Equal(t, "client_id", payload.Violations[0].Field)
	require.Equal(t, uint(99), payload.Violations[0].ID)
}
