package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

var (
	// API 请求计数器
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "path", "status"},
	)

	// API 请求响应时间
	apiRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// 表单创建数
	formsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "forms_created_total",
			Help: "Total number of forms created",
		},
	)

	// 表单操作数
	formOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "form_operations_total",
			Help: "Total number of form operations",
		},
		[]string{"operation"}, // update, delete, add_field, update_field, remove_field, search
	)

	// 字段级读改写的 CAS 冲突数
	fieldUpdateConflictsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "field_update_conflicts_total",
			Help: "Total number of revision conflicts during field updates",
		},
	)

	// PDF 上传数
	pdfUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pdf_uploads_total",
			Help: "Total number of PDF uploads",
		},
		[]string{"result"}, // accepted, rejected
	)

	// 数据库连接数
	databaseConnectionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_active",
			Help: "Number of active database connections",
		},
	)

	databaseConnectionsIdle = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "database_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

var registerOnce sync.Once

// Register 注册所有指标收集器
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			apiRequestsTotal,
			apiRequestDuration,
			formsCreatedTotal,
			formOperationsTotal,
			fieldUpdateConflictsTotal,
			pdfUploadsTotal,
			databaseConnectionsActive,
			databaseConnectionsIdle,
		)
	})
}

// RecordAPIRequest 记录一次 API 请求
func RecordAPIRequest(method, path string, status int, durationSeconds float64) {
	apiRequestsTotal.WithLabelValues(method, path, httpStatusLabel(status)).Inc()
	apiRequestDuration.WithLabelValues(method, path).Observe(durationSeconds)
}

// RecordFormCreated 记录一次表单创建
func RecordFormCreated() {
	formsCreatedTotal.Inc()
}

// RecordFormOperation 记录一次表单操作
func RecordFormOperation(operation string) {
	formOperationsTotal.WithLabelValues(operation).Inc()
}

// RecordFieldUpdateConflict 记录一次字段更新 CAS 冲突
func RecordFieldUpdateConflict() {
	fieldUpdateConflictsTotal.Inc()
}

// RecordPDFUpload 记录一次 PDF 上传结果
func RecordPDFUpload(accepted bool) {
	if accepted {
		pdfUploadsTotal.WithLabelValues("accepted").Inc()
	} else {
		pdfUploadsTotal.WithLabelValues("rejected").Inc()
	}
}

// UpdateDatabaseMetrics 刷新数据库连接池指标
func UpdateDatabaseMetrics(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	stats := sqlDB.Stats()
	databaseConnectionsActive.Set(float64(stats.InUse))
	databaseConnectionsIdle.Set(float64(stats.Idle))
}

// Handler 返回 Prometheus 指标的 HTTP 处理器
func Handler() http.Handler {
	return promhttp.Handler()
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
