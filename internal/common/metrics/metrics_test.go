package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestJobTimer(t *testing.T) {
	ok := StartJob("metrics-test-ok")
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsActive.WithLabelValues("metrics-test-ok")))
	ok.Done("")
	assert.Equal(t, 0.0, testutil.ToFloat64(WorkerJobsActive.WithLabelValues("metrics-test-ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("metrics-test-ok")))

	StartJob("metrics-test-fail").Done("PROFILE_NOT_FOUND")
	assert.Equal(t, 1.0, testutil.ToFloat64(WorkerJobsFailed.WithLabelValues("metrics-test-fail", "PROFILE_NOT_FOUND")))
	assert.Equal(t, 0.0, testutil.ToFloat64(WorkerJobsCompleted.WithLabelValues("metrics-test-fail")))
}

func TestRecordScores(t *testing.T) {
	before := testutil.ToFloat64(EligibilityScores.WithLabelValues("metrics-test"))
	RecordScores("metrics-test", 3)
	RecordScores("metrics-test", 0)
	assert.Equal(t, before+3, testutil.ToFloat64(EligibilityScores.WithLabelValues("metrics-test")))
}
