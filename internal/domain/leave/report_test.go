package leave

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderStatisticsPDF(t *testing.T) {
	stats := Summarize([]Summary{
		{Status: StatusApproved, LeaveType: TypeAnnual, CreatedAt: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)},
	}, 2025)
	stats.Overview.TotalEmployees = 4

	var buf bytes.Buffer
	require.NoError(t, RenderStatisticsPDF(&buf, stats, time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
