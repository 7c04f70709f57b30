package validate

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Violation descreve uma referência quebrada num insert/update: qual campo,
// qual id e uma mensagem pronta para o cliente.
type Violation struct {
	Field   string `json:"field"`
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

// Ref é uma chave estrangeira a conferir antes do insert. Model é o struct
// GORM alvo (ex: &models.Product{}).
type Ref struct {
	Field string
	Model any
	ID    uint
	// Filtro extra de tenant; referência de outra empresa conta como inexistente.
	CompanyID uint
}

// ExistsFunc responde se o registro referenciado existe. Em produção é
// GormExists; nos testes, um mapa.
type ExistsFunc func(model any, id, companyID uint) (bool, error)

func GormExists(db *gorm.DB) ExistsFunc {
	return func(model any, id, companyID uint) (bool, error) {
		var count int64
		q := db.Model(model).Where("id = ?", id)
		if companyID != 0 {
			q = q.Where("company_id = ?", companyID)
		}
		if err := q.Count(&count).Error; err != nil {
			return false, err
		}
		return count > 0, nil
	}
}

// CheckRefs confere todas as referências e devolve TODAS as violações de uma
// vez, em vez de parar na primeira ou deixar o banco estourar constraint.
func CheckRefs(exists ExistsFunc, refs ...Ref) ([]Violation, error) {
	var violations []Violation
	for _, ref := range refs {
		if ref.ID == 0 {
			continue // referência opcional não informada
		}
		ok, err := exists(ref.Model, ref.ID, ref.CompanyID)
		if err != nil {
			return nil, err
		}
		if !ok {
			violations = append(violations, Violation{
				Field:   ref.Field,
				ID:      ref.ID,
				Message: "Registro referenciado não existe: " + ref.Field,
			})
		}
	}
	return violations, nil
}

// RefsError monta a resposta 400 com a lista completa de violações.
func RefsError(c *fiber.Ctx, violations []Violation) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":      "Referências inválidas",
		"violations": violations,
	})
}
