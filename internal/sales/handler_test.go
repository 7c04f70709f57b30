package sales

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
)

// Venda nunca pode deixar o estoque negativo: quantidade acima do disponível
// é barrada com 400 antes de qualquer escrita.
func TestEnsureStockRejectsOverdraw(t *testing.T) {
	err := ensureStock(2, 3)
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusBadRequest, fe.Code)
	require.Equal(t, "Estoque insuficiente: disponível 2", fe.Message)
}

func TestEnsureStockAllowsExactAndPartial(t *testing.T) {
	require.NoError(t, ensureStock(5, 5))
	require.NoError(t, ensureStock(5, 1))
}

func TestEnsureStockRejectsWhenEmpty(t *testing.T) {
	err := ensureStock(0, 1)
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	require.Equal(t, fiber.StatusBadRequest, fe.Code)
}
