package dashboard

import (
	"fmt"
	"sort"
	"time"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/auth"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/cache"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/gofiber/fiber/v2"
)

type SalesChartPoint struct {
	Label    string  `json:"label"` // dia / início da semana / início do mês
	Dinheiro float64 `json:"dinheiro"`
	Cartao   float64 `json:"cartao"`
	Pix      float64 `json:"pix"`
	Total    float64 `json:"total"`
}

type SalesChartGrandTotals struct {
	Dinheiro float64 `json:"dinheiro"`
	Cartao   float64 `json:"cartao"`
	Pix      float64 `json:"pix"`
	Total    float64 `json:"total"`
}

type SalesChartResponse struct {
	BranchID    uint                  `json:"branch_id"`
	Period      string                `json:"period"` // daily | weekly | monthly
	From        string                `json:"from"`
	To          string                `json:"to"`
	Points      []SalesChartPoint     `json:"points"`
	GrandTotals SalesChartGrandTotals `json:"grand_totals"`
}

const chartTTL = 5 * time.Minute

// GET /api/dashboard/sales-chart?period=daily&count=7[&branch_id=2]
func SalesChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		scope, err := auth.ScopeFromCtx(c)
		if err != nil {
			return err
		}

		period := c.Query("period", "daily") // daily | weekly | monthly
		countStr := c.Query("count", "")

		var count int
		if countStr == "" {
			switch period {
			case "weekly":
				count = 8
			case "monthly":
				count = 12
			default:
				period = "daily"
				count = 7
			}
		} else {
			if _, err := fmt.Sscan(countStr, &count); err != nil || count <= 0 {
				return fiber.NewError(fiber.StatusBadRequest, "count inválido")
			}
		}

		cacheKey := cache.ReportKey(scope.CompanyID, scope.BranchID, "chart", period, count)
		var cached SalesChartResponse
		if cache.Get(c.Context(), cacheKey, &cached) {
			return c.JSON(cached)
		}

		now := time.Now()
		loc := now.Location()
		end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
		var start time.Time

		switch period {
		case "weekly":
			start = end.AddDate(0, 0, -7*(count-1))
		case "monthly":
			end = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
			start = end.AddDate(0, -(count - 1), 0)
		default:
			period = "daily"
			start = end.AddDate(0, 0, -(count - 1))
		}

		type row struct {
			Bucket time.Time `gorm:"column:bucket"`
			Method string    `gorm:"column:payment_method"`
			Total  float64   `gorm:"column:total"`
		}
		var rows []row

		var sql string
		switch period {
		case "weekly":
			sql = `
				SELECT date_trunc('week', sale_date)::date AS bucket,
					   payment_method,
					   SUM(total) AS total
				FROM sales
				WHERE company_id = ? AND branch_id = ? AND sale_date >= ? AND sale_date <= ?
				GROUP BY bucket, payment_method
				ORDER BY bucket ASC;
			`
		case "monthly":
			sql = `
				SELECT date_trunc('month', sale_date)::date AS bucket,
					   payment_method,
					   SUM(total) AS total
				FROM sales
				WHERE company_id = ? AND branch_id = ? AND sale_date >= ? AND sale_date <= ?
				GROUP BY bucket, payment_method
				ORDER BY bucket ASC;
			`
			end = start.AddDate(0, count, 0).AddDate(0, 0, -1)
		default:
			sql = `
				SELECT sale_date::date AS bucket,
					   payment_method,
					   SUM(total) AS total
				FROM sales
				WHERE company_id = ? AND branch_id = ? AND sale_date >= ? AND sale_date <= ?
				GROUP BY bucket, payment_method
				ORDER BY bucket ASC;
			`
		}

		if err := database.DB.Raw(sql, scope.CompanyID, scope.BranchID, start, end).Scan(&rows).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Não foi possível agregar os dados")
		}

		type bucketAgg struct {
			Bucket   time.Time
			Dinheiro float64
			Cartao   float64
			Pix      float64
		}

		buckets := make(map[time.Time]*bucketAgg)
		for _, r := range rows {
			agg, ok := buckets[r.Bucket]
			if !ok {
				agg = &bucketAgg{Bucket: r.Bucket}
				buckets[r.Bucket] = agg
			}
			switch r.Method {
			case string(models.PaymentCash):
				agg.Dinheiro += r.Total
			case string(models.PaymentCard):
				agg.Cartao += r.Total
			case string(models.PaymentPix):
				agg.Pix += r.Total
			}
		}

		ordered := make([]bucketAgg, 0, len(buckets))
		for _, v := range buckets {
			ordered = append(ordered, *v)
		}
		sort.Slice(ordered, func(i, j int) bool {
			return ordered[i].Bucket.Before(ordered[j].Bucket)
		})

		points := make([]SalesChartPoint, 0, len(ordered))
		grand := SalesChartGrandTotals{}

		for _, b := range ordered {
			total := b.Dinheiro + b.Cartao + b.Pix
			points = append(points, SalesChartPoint{
				Label:    b.Bucket.Format("2006-01-02"),
				Dinheiro: b.Dinheiro,
				Cartao:   b.Cartao,
				Pix:      b.Pix,
				Total:    total,
			})
			grand.Dinheiro += b.Dinheiro
			grand.Cartao += b.Cartao
			grand.Pix += b.Pix
			grand.Total += total
		}

		resp := SalesChartResponse{
			BranchID:    scope.BranchID,
			Period:      period,
			From:        start.Format("2006-01-02"),
			To:          end.Format("2006-01-02"),
			Points:      points,
			GrandTotals: grand,
		}

		cache.Set(c.Context(), cacheKey, resp, chartTTL)

		return c.JSON(resp)
	}
}
