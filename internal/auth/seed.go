package auth

import (
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedDemo cria o tenant de demonstração (clínica pet) quando SEED_DEMO=true.
// Idempotente: se o usuário demo já existe não faz nada.
func SeedDemo(db *gorm.DB) {
	const demoEmail = "veterinario@petclinic.com"

	var count int64
	db.Model(&models.User{}).Where("email = ?", demoEmail).Count(&count)
	if count > 0 {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("vet2025"), bcrypt.DefaultCost)
	if err != nil {
		log.Warnf("Seed demo: falha ao gerar hash: %v", err)
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		user := models.User{
			UUID:             uuid.NewString(),
			Name:             "Veterinário Demo",
			Email:            demoEmail,
			PasswordHash:     string(hash),
			Role:             models.RoleAdmin,
			BusinessCategory: "pet",
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		company := models.Company{
			UUID:             uuid.NewString(),
			Name:             "Clínica Pet Demo",
			BusinessCategory: "pet",
			Email:            demoEmail,
			CreatedBy:        user.ID,
		}
		if err := tx.Create(&company).Error; err != nil {
			return err
		}

		branch := models.Branch{
			CompanyID: company.ID,
			Name:      "Matriz",
			Code:      "MTZ",
			IsMain:    true,
		}
		if err := tx.Create(&branch).Error; err != nil {
			return err
		}

		user.CompanyID = &company.ID
		user.BranchID = &branch.ID
		return tx.Save(&user).Error
	})
	if err != nil {
		log.Warnf("Seed demo: %v", err)
		return
	}
	log.Info("Tenant de demonstração criado (veterinario@petclinic.com).")
}
