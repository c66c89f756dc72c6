package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordSolve("ok", "exp", 0.01, 9, 0)
	r.RecordSolve("overflow", "exp", 0.2, 2010, 1762)
	r.RecordSolve("invalid", "exp", 0, 0, 0)
	r.RecordCacheLookup(true)
	r.RecordCacheLookup(false)
	r.RecordCacheLookup(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.solves.WithLabelValues("invalid")))
	assert.Equal(t, 2019.0, testutil.ToFloat64(r.tableCells))
	assert.Equal(t, 1762.0, testutil.ToFloat64(r.overflowCells))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheLookups.WithLabelValues("miss")))
}
