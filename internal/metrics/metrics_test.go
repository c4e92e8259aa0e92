package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAreExposed(t *testing.T) {
	before := testutil.ToFloat64(ReportsSubmitted.WithLabelValues("payments", "bank"))
	ReportsSubmitted.WithLabelValues("payments", "bank").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(ReportsSubmitted.WithLabelValues("payments", "bank")))

	SessionsCommitted.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "posrecon_reports_submitted_total"))
	assert.True(t, strings.Contains(string(body), "posrecon_ledger_sessions_committed_total"))
}
