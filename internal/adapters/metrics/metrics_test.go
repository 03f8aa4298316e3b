package metrics_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mcsmith/internal/adapters/metrics"
	"go.trai.ch/mcsmith/internal/core/domain"
)

func TestCollector_WriteTextfile(t *testing.T) {
	c := metrics.New()

	c.ObserveArtifact(domain.StagePlugins, domain.OutcomeFetched)
	c.ObserveArtifact(domain.StagePlugins, domain.OutcomeReused)
	c.ObserveArtifact(domain.StagePlugins, domain.OutcomeReused)
	c.ObserveStage(domain.StagePlugins, domain.VertexStatusCompleted, 1500*time.Millisecond)
	c.ObserveStage(domain.StageMods, domain.VertexStatusSkipped, 0)

	path := filepath.Join(t.TempDir(), "mcsmith.prom")
	require.NoError(t, c.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, `mcsmith_artifacts_total{outcome="fetched",stage="plugins"} 1`)
	assert.Contains(t, text, `mcsmith_artifacts_total{outcome="reused",stage="plugins"} 2`)
	assert.Contains(t, text, `mcsmith_stage_duration_seconds_sum{stage="plugins"} 1.5`)
	assert.Contains(t, text, `mcsmith_stages_total{stage="mods",status="skipped"} 1`)
	assert.NotContains(t, text, `mcsmith_stage_duration_seconds_count{stage="mods"}`)
}

func TestCollector_WriteTextfileFailure(t *testing.T) {
	c := metrics.New()

	err := c.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "mcsmith.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), domain.ErrMetricsWriteFailed.Error())
}
