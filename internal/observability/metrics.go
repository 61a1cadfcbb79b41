package observability

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// FileOutcome 单个事件文件的处理结果
type FileOutcome string

const (
	FileLoaded     FileOutcome = "loaded"
	FileValidation FileOutcome = "validation"
	FileIntegrity  FileOutcome = "integrity"
	FileReference  FileOutcome = "reference"
	FileMalformed  FileOutcome = "malformed"
	FileError      FileOutcome = "error"
)

// Recorder 入库与对账的计数指标
type Recorder interface {
	RecordFile(ctx context.Context, outcome FileOutcome)
	RecordDeliveries(ctx context.Context, n int)
	RecordReconcile(ctx context.Context, exact, missing, disagreeing int)
}

type otelRecorder struct {
	files      metric.Int64Counter
	deliveries metric.Int64Counter
	reconcile  metric.Int64Counter
}

// NewRecorder 在给定 meter 上创建指标
func NewRecorder(meter metric.Meter) (Recorder, error) {
	files, err := meter.Int64Counter("cricbase.ingest.files",
		metric.WithDescription("按结果统计的事件文件数"),
	)
	if err != nil {
		return nil, err
	}
	deliveries, err := meter.Int64Counter("cricbase.ingest.deliveries",
		metric.WithDescription("写入的投球数"),
	)
	if err != nil {
		return nil, err
	}
	reconcile, err := meter.Int64Counter("cricbase.reconcile.records",
		metric.WithDescription("对账各分区的记录数"),
	)
	if err != nil {
		return nil, err
	}
	return &otelRecorder{files: files, deliveries: deliveries, reconcile: reconcile}, nil
}

// NewOtelRecorder 使用全局 MeterProvider；初始化失败时退化为 NoopRecorder
func NewOtelRecorder(logger *logrus.Logger) Recorder {
	r, err := NewRecorder(otel.Meter("cricbase"))
	if err != nil {
		logger.WithError(err).Warn("指标初始化失败，使用空实现")
		return NoopRecorder{}
	}
	return r
}

func (r *otelRecorder) RecordFile(ctx context.Context, outcome FileOutcome) {
	r.files.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", string(outcome))))
}

func (r *otelRecorder) RecordDeliveries(ctx context.Context, n int) {
	if n > 0 {
		r.deliveries.Add(ctx, int64(n))
	}
}

func (r *otelRecorder) RecordReconcile(ctx context.Context, exact, missing, disagreeing int) {
	r.reconcile.Add(ctx, int64(exact), metric.WithAttributes(attribute.String("partition", "exact")))
	r.reconcile.Add(ctx, int64(missing), metric.WithAttributes(attribute.String("partition", "missing")))
	r.reconcile.Add(ctx, int64(disagreeing), metric.WithAttributes(attribute.String("partition", "disagreeing")))
}

// NoopRecorder 不记录任何指标
type NoopRecorder struct{}

func (NoopRecorder) RecordFile(context.Context, FileOutcome)         {}
func (NoopRecorder) RecordDeliveries(context.Context, int)           {}
func (NoopRecorder) RecordReconcile(context.Context, int, int, int) {}
