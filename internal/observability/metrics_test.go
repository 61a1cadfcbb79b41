package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestRecorder(t *testing.T) (Recorder, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	r, err := NewRecorder(provider.Meter("test"))
	require.NoError(t, err)
	return r, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Sum[int64] {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Sum[int64]{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				out[m.Name] = sum
			}
		}
	}
	return out
}

func valueWith(sum metricdata.Sum[int64], key, val string) int64 {
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == val {
			return dp.Value
		}
	}
	return -1
}

func TestRecorder_Files(t *testing.T) {
	r, reader := newTestRecorder(t)
	ctx := context.Background()

	r.RecordFile(ctx, FileLoaded)
	r.RecordFile(ctx, FileLoaded)
	r.RecordFile(ctx, FileValidation)
	r.RecordDeliveries(ctx, 240)
	r.RecordDeliveries(ctx, 0)

	sums := collect(t, reader)
	files := sums["cricbase.ingest.files"]
	assert.EqualValues(t, 2, valueWith(files, "outcome", "loaded"))
	assert.EqualValues(t, 1, valueWith(files, "outcome", "validation"))

	deliveries := sums["cricbase.ingest.deliveries"]
	require.Len(t, deliveries.DataPoints, 1)
	assert.EqualValues(t, 240, deliveries.DataPoints[0].Value)
}

func TestRecorder_Reconcile(t *testing.T) {
	r, reader := newTestRecorder(t)
	r.RecordReconcile(context.Background(), 10, 2, 1)

	rec := collect(t, reader)["cricbase.reconcile.records"]
	assert.EqualValues(t, 10, valueWith(rec, "partition", "exact"))
	assert.EqualValues(t, 2, valueWith(rec, "partition", "missing"))
	assert.EqualValues(t, 1, valueWith(rec, "partition", "disagreeing"))
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	assert.NotPanics(t, func() {
		r.RecordFile(context.Background(), FileError)
		r.RecordReconcile(context.Background(), 1, 1, 1)
	})
}
