package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReportKey(t *testing.T) {
	require.Equal(t, "report:7:3", ReportKey(7, 3))
	require.Equal(t, "report:7:3:summary:2025:8", ReportKey(7, 3, "summary", 2025, 8))
	require.Equal(t, "report:7:3:chart:daily:7", ReportKey(7, 3, "chart", "daily", 7))
}

func TestDisabledCacheIsNoop(t *testing.T) {
	Client = nil
	require.False(t, Enabled())

	var dest int
	require.False(t, Get(context.Background(), "report:1:1:x", &dest))
	// Set e invalidação não devem explodir com o cache desligado
	Set(context.Background(), "report:1:1:x", 42, 0)
	InvalidateReports(context.Background(), 1, 1)
}
