package audit

import (
	"encoding/json"
	"testing"

	"github.com/MeVito12/Excluvia-Dashboard-sub002/internal/models"

	"github.com/stretchr/testify/require"
)

func capturePersist(t *testing.T) *models.AuditLog {
	t.Helper()
	orig := persist
	t.Cleanup(func() { persist = orig })

	var got models.AuditLog
	persist = func(entry *models.AuditLog) error {
		got = *entry
		return nil
	}
	return &got
}

func TestWriteLogSerializesBeforeAndAfter(t *testing.T) {
	got := capturePersist(t)

	branchID := uint(3)
	type snapshot struct {
		Status string `json:"status"`
	}

	err := WriteLog(LogOptions{
		CompanyID:   7,
		BranchID:    &branchID,
		UserID:      11,
		UserName:    "Maria",
		EntityType:  "financial_entry",
		EntityID:    42,
		Action:      models.AuditActionUpdate,
		Description: "Lançamento pago",
		Before:      snapshot{Status: "pendente"},
		After:       snapshot{Status: "pago"},
	})
	require.NoError(t, err)

	require.Equal(t, uint(7), got.CompanyID)
	require.Equal(t, &branchID, got.BranchID)
	require.Equal(t, uint(11), got.UserID)
	require.Equal(t, "financial_entry", got.EntityType)
	require.Equal(t, uint(42), got.EntityID)
	require.Equal(t, models.AuditActionUpdate, got.Action)

	var before, after snapshot
	require.NoError(t, json.Unmarshal([]byte(got.BeforeData), &before))
	require.NoError(t, json.Unmarshal([]byte(got.AfterData), &after))
	require.Equal(t, "pendente", before.Status)
	require.Equal(t, "pago", after.Status)
}

// Snapshot ausente vira "null" literal, que o jsonb do Postgres aceita.
func TestWriteLogWithoutSnapshotsWritesNull(t *testing.T) {
	got := capturePersist(t)

	err := WriteLog(LogOptions{
		CompanyID:  7,
		UserID:     11,
		EntityType: "transfer",
		EntityID:   5,
		Action:     models.AuditActionCreate,
	})
	require.NoError(t, err)

	require.Equal(t, "null", got.BeforeData)
	require.Equal(t, "null", got.AfterData)
}
