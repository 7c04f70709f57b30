package financial

import (
	"fmt"
	"time"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/auth"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/cache"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MethodRevenue struct {
	Method models.PaymentMethod `json:"method"`
	Total  float64              `json:"total"`
}

type ExpenseByCategory struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type RevenueBlock struct {
	Items []MethodRevenue `json:"items"`
	Total float64         `json:"total"`
}

type ExpenseBlock struct {
	Items []ExpenseByCategory `json:"items"`
	Total float64             `json:"total"`
}

type MonthlySummaryResponse struct {
	BranchID    uint         `json:"branch_id"`
	Year        int          `json:"year"`
	Month       int          `json:"month"`
	Sales       RevenueBlock `json:"sales"`
	OtherIncome float64      `json:"other_income"` // lançamentos de entrada pagos
	Expenses    ExpenseBlock `json:"expenses"`     // lançamentos de saída pagos, por categoria
	NetResult   float64      `json:"net_result"`
}

const summaryTTL = 5 * time.Minute

// GET /api/financial/summary/monthly?year=2025&month=8[&branch_id=2]
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		yearStr := c.Query("year")
		monthStr := c.Query("month")
		if yearStr == "" || monthStr == "" {
			return fiber.NewError(fiber.StatusBadRequest, "year e month são obrigatórios")
		}

		var year, month int
		if _, err := fmt.Sscan(yearStr, &year); err != nil || year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year inválido")
		}
		if _, err := fmt.Sscan(monthStr, &month); err != nil || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month inválido")
		}

		cacheKey := cache.ReportKey(scope.CompanyID, scope.BranchID, "summary", year, month)
		var cached MonthlySummaryResponse
		if cache.Get(c.Context(), cacheKey, &cached) {
			return c.JSON(cached)
		}

		loc := time.Now().Location()
		firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		lastDay := firstDay.AddDate(0, 1, -1)

		// 1) Vendas por forma de pagamento
		type revRow struct {
			Method string  `gorm:"column:payment_method"`
			Total  float64 `gorm:"column:total"`
		}
		var revRows []revRow

		if err := auth.Scoped(database.DB.Model(&models.Sale{}), scope).
			Select("payment_method, SUM(total) as total").
			Where("sale_date >= ? AND sale_date <= ?", firstDay, lastDay).
			Group("payment_method").
			Scan(&revRows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular as vendas")
		}

		salesBlock := RevenueBlock{Items: make([]MethodRevenue, 0, len(revRows))}
		for _, r := range revRows {
			salesBlock.Items = append(salesBlock.Items, MethodRevenue{
				Method: models.PaymentMethod(r.Method),
				Total:  r.Total,
			})
			salesBlock.Total += r.Total
		}

		// 2) Outras entradas pagas no período
		var otherIncome float64
		if err := auth.Scoped(database.DB.Model(&models.FinancialEntry{}), scope).
			Select("COALESCE(SUM(amount), 0)").
			Where("kind = ? AND status = ? AND due_date >= ? AND due_date <= ?",
				models.EntryIncome, models.EntryPaid, firstDay, lastDay).
			Scan(&otherIncome).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular as entradas")
		}

		// 3) Saídas pagas por categoria (regime de caixa dos dois lados:
		// pendente não entra nem na receita nem na despesa)
		type expRow struct {
			Category string  `gorm:"column:category"`
			Total    float64 `gorm:"column:total"`
		}
		var expRows []expRow

		if err := auth.Scoped(database.DB.Model(&models.FinancialEntry{}), scope).
			Select("category, SUM(amount) as total").
			Where("kind = ? AND status = ? AND due_date >= ? AND due_date <= ?",
				models.EntryExpense, models.EntryPaid, firstDay, lastDay).
			Group("category").
			Scan(&expRows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível calcular as saídas")
		}

		expenseBlock := ExpenseBlock{Items: make([]ExpenseByCategory, 0, len(expRows))}
		for _, r := range expRows {
			expenseBlock.Items = append(expenseBlock.Items, ExpenseByCategory{
				Category: r.Category,
				Total:    r.Total,
			})
			expenseBlock.Total += r.Total
		}

		resp := MonthlySummaryResponse{
			BranchID:    scope.BranchID,
			Year:        year,
			Month:       month,
			Sales:       salesBlock,
			OtherIncome: otherIncome,
			Expenses:    expenseBlock,
			NetResult:   salesBlock.Total + otherIncome - expenseBlock.Total,
		}

		cache.Set(c.Context(), cacheKey, resp, summaryTTL)

		return c.JSON(resp)
	}
}
