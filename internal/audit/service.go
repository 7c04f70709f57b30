package audit

import (
	"encoding/json"
	"fmt"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/database"
	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"
)

type LogOptions struct {
	CompanyID   uint
	BranchID    *uint
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// persist grava o registro no banco; variável para os testes capturarem a
// entrada sem Postgres.
var persist = func(entry *models.AuditLog) error {
	return database.DB.Create(entry).Error
}

func WriteLog(opts LogOptions) error {
	// Para jsonb do Postgres, string vazia não serve: usar "null" literal
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	entry := models.AuditLog{
		CompanyID:   opts.CompanyID,
		BranchID:    opts.BranchID,
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := persist(&entry); err != nil {
		return fmt.Errorf("falha ao gravar audit log: %w", err)
	}

	return nil
}
