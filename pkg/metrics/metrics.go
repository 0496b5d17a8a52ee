package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор метрик сервиса
type Metrics struct {
	// HTTP
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// База данных
	DBQueriesTotal    *prometheus.CounterVec
	DBQueryDuration   *prometheus.HistogramVec
	DBOpenConnections *prometheus.GaugeVec
	DBInUse           *prometheus.GaugeVec
	DBIdle            *prometheus.GaugeVec
	DBWaitCount       *prometheus.GaugeVec

	// Бизнес-метрики
	BillsGenerated        *prometheus.CounterVec
	CapacityChanges       *prometheus.CounterVec
	BackingsReplaced      *prometheus.CounterVec
	NotificationsSent     *prometheus.CounterVec
	BookingsCreated       *prometheus.CounterVec
	PaymentsRecordedTotal *prometheus.CounterVec
}

// New создает метрики и регистрирует их в глобальном реестре Prometheus
func New(serviceName string) *Metrics {
	return NewWithRegisterer(serviceName, prometheus.DefaultRegisterer)
}

// NewWithRegisterer создает метрики и регистрирует их в указанном реестре
func NewWithRegisterer(serviceName string, reg prometheus.Registerer) *Metrics {
	labels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests",
			ConstLabels: labels,
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "http_request_duration_seconds",
			Help:        "HTTP request duration in seconds",
			ConstLabels: labels,
			Buckets:     prometheus.DefBuckets,
		}, []string{"method", "route"}),

		DBQueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "db_queries_total",
			Help:        "Total number of database queries",
			ConstLabels: labels,
		}, []string{"operation", "status"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "db_query_duration_seconds",
			Help:        "Database query duration in seconds",
			ConstLabels: labels,
			Buckets:     []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"operation"}),
		DBOpenConnections: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_open_connections",
			Help:        "Number of established database connections",
			ConstLabels: labels,
		}, []string{"db"}),
		DBInUse: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_in_use_connections",
			Help:        "Number of database connections currently in use",
			ConstLabels: labels,
		}, []string{"db"}),
		DBIdle: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_idle_connections",
			Help:        "Number of idle database connections",
			ConstLabels: labels,
		}, []string{"db"}),
		DBWaitCount: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name:        "db_wait_count",
			Help:        "Total number of connections waited for",
			ConstLabels: labels,
		}, []string{"db"}),

		BillsGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bills_generated_total",
			Help:        "Number of generated bills by mode (persist, preview)",
			ConstLabels: labels,
		}, []string{"mode"}),
		CapacityChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "capacity_changes_total",
			Help:        "Number of capacity change commands by outcome",
			ConstLabels: labels,
		}, []string{"outcome"}),
		BackingsReplaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "backings_replaced_total",
			Help:        "Number of backing replacements by action (deleted, ended, created)",
			ConstLabels: labels,
		}, []string{"action"}),
		NotificationsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "notifications_sent_total",
			Help:        "Number of sent notifications by kind and status",
			ConstLabels: labels,
		}, []string{"kind", "status"}),
		BookingsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "bookings_created_total",
			Help:        "Number of created bookings by status",
			ConstLabels: labels,
		}, []string{"status"}),
		PaymentsRecordedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "payments_recorded_total",
			Help:        "Number of recorded payments by kind (payment, refund)",
			ConstLabels: labels,
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.DBQueriesTotal,
		m.DBQueryDuration,
		m.DBOpenConnections,
		m.DBInUse,
		m.DBIdle,
		m.DBWaitCount,
		m.BillsGenerated,
		m.CapacityChanges,
		m.BackingsReplaced,
		m.NotificationsSent,
		m.BookingsCreated,
		m.PaymentsRecordedTotal,
	)

	return m
}

// IncBillsGenerated увеличивает счетчик сгенерированных счетов
// Безопасен для nil (метрики выключены)
func (m *Metrics) IncBillsGenerated(mode string) {
	if m == nil {
		return
	}
	m.BillsGenerated.WithLabelValues(mode).Inc()
}

// IncCapacityChange учитывает результат команды изменения вместимости
func (m *Metrics) IncCapacityChange(outcome string) {
	if m == nil {
		return
	}
	m.CapacityChanges.WithLabelValues(outcome).Inc()
}

// AddBackingsReplaced учитывает операции над поддержками комнат
func (m *Metrics) AddBackingsReplaced(action string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.BackingsReplaced.WithLabelValues(action).Add(float64(n))
}

// IncNotification учитывает отправленное уведомление
func (m *Metrics) IncNotification(kind, status string) {
	if m == nil {
		return
	}
	m.NotificationsSent.WithLabelValues(kind, status).Inc()
}

// IncBookingsCreated учитывает созданное бронирование
func (m *Metrics) IncBookingsCreated(status string) {
	if m == nil {
		return
	}
	m.BookingsCreated.WithLabelValues(status).Inc()
}

// IncPaymentRecorded учитывает записанный платёж или возврат
func (m *Metrics) IncPaymentRecorded(kind string) {
	if m == nil {
		return
	}
	m.PaymentsRecordedTotal.WithLabelValues(kind).Inc()
}
