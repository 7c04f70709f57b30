package transfers

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// A conclusão da transferência não pode deixar o estoque da origem negativo.
func TestEnsureSourceStockRejectsOverdraw(t *testing.T) {
	err := ensureSourceStock(4, 10)
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusBadRequest, fe.Code)
	require.Equal(t, "Estoque insuficiente na origem: disponível 4", fe.Message)
}

func TestEnsureSourceStockAllowsExactAmount(t *testing.T) {
	require.NoError(t, ensureSourceStock(10, 10))
	require.NoError(t, ensureSourceStock(10, 3))
}
