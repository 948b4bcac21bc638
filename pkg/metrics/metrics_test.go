package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Observe(t *testing.T) {
	m := New()

	m.Observe("openai", OutcomeDone, 2*time.Second)
	m.Observe("openai", OutcomeAborted, time.Second)
	m.Observe("", OutcomeAborted, time.Millisecond)

	assert.InDelta(t, 1, testutil.ToFloat64(m.Invocations.WithLabelValues("openai", "done")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Invocations.WithLabelValues("openai", "aborted")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.Invocations.WithLabelValues("unknown", "aborted")), 0)
	assert.Equal(t, 2, testutil.CollectAndCount(m.Duration))
}

func TestMetrics_Fragment(t *testing.T) {
	m := New()
	for range 3 {
		m.Fragment("gemini")
	}
	assert.InDelta(t, 3, testutil.ToFloat64(m.Fragments.WithLabelValues("gemini")), 0)
}

func TestMetrics_WriteToTextfile(t *testing.T) {
	m := New()
	m.Observe("gemini", OutcomeDone, time.Second)

	path := filepath.Join(t.TempDir(), "persona.prom")
	require.NoError(t, m.WriteToTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `persona_run_invocations_total{outcome="done",provider="gemini"} 1`)
}
