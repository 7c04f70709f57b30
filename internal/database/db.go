package database

import (
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/config"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco: %v", err)
	}

	// Migração manual: bases antigas guardavam categoria só no usuário.
	// Empresas criadas antes da coluna recebem a categoria do criador.
	if DB.Migrator().HasTable(&models.Company{}) {
		if !DB.Migrator().HasColumn(&models.Company{}, "business_category") {
			log.Info("Adicionando coluna companies.business_category...")
			if err := DB.Exec("ALTER TABLE companies ADD COLUMN business_category VARCHAR(50)").Error; err != nil {
				log.Warnf("Erro ao adicionar business_category (pode já existir): %v", err)
			}
			DB.Exec(`
				UPDATE companies c SET business_category = u.business_category
				FROM users u
				WHERE c.business_category IS NULL AND u.id = c.created_by
			`)
			DB.Exec("UPDATE companies SET business_category = 'outros' WHERE business_category IS NULL")
			if err := DB.Exec("ALTER TABLE companies ALTER COLUMN business_category SET NOT NULL").Error; err != nil {
				log.Warnf("Erro ao tornar business_category NOT NULL: %v", err)
			}
		}
	}

	err = DB.AutoMigrate(
		&models.Company{},
		&models.Branch{},
		&models.User{},
		&models.Client{},
		&models.Product{},
		&models.Sale{},
		&models.Appointment{},
		&models.FinancialEntry{},
		&models.Transfer{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("Erro no AutoMigrate: %v", err)
	}

	log.Info("Conexão com o banco ok. Migração concluída.")
}
