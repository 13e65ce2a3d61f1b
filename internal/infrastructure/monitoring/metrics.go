package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type BusinessMetrics struct {
	CustomersCreatedTotal   prometheus.Counter
	CustomersDeletedTotal   prometheus.Counter
	PaymentsRecordedTotal   *prometheus.CounterVec
	RemindersGeneratedTotal *prometheus.CounterVec
	ImportRowsTotal         *prometheus.CounterVec
	ReminderJobDuration     prometheus.Histogram
}

var Business = BusinessMetrics{
	CustomersCreatedTotal: promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rotrack_customers_created_total",
			Help: "Total number of customers created.",
		},
	),
	CustomersDeletedTotal: promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rotrack_customers_deleted_total",
			Help: "Total number of customers deleted.",
		},
	),
	PaymentsRecordedTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rotrack_payments_recorded_total",
			Help: "Total number of monthly payment records updated, by resulting status.",
		},
		[]string{"status"},
	),
	RemindersGeneratedTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rotrack_reminders_generated_total",
			Help: "Total number of consolidated daily reminders generated, by type.",
		},
		[]string{"type"},
	),
	ImportRowsTotal: promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rotrack_import_rows_total",
			Help: "Total number of bulk import rows processed, by outcome.",
		},
		[]string{"outcome"},
	),
	ReminderJobDuration: promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rotrack_reminder_job_duration_seconds",
			Help:    "Duration of the daily reminder generation job.",
			Buckets: prometheus.DefBuckets,
		},
	),
}

func RecordCustomerCreated() {
	Business.CustomersCreatedTotal.Inc()
}

func RecordCustomerDeleted() {
	Business.CustomersDeletedTotal.Inc()
}

func RecordPayment(status string) {
	Business.PaymentsRecordedTotal.WithLabelValues(status).Inc()
}

func RecordReminder(reminderType string) {
	Business.RemindersGeneratedTotal.WithLabelValues(reminderType).Inc()
}

func RecordImportRow(outcome string) {
	Business.ImportRowsTotal.WithLabelValues(outcome).Inc()
}
