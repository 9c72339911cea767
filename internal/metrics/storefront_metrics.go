package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// StorefrontMetrics содержит метрики витрины.
type StorefrontMetrics struct {
	// Запросы к оптовому бэкенду
	backendRequests *prometheus.CounterVec
	backendDuration *prometheus.HistogramVec

	// Полные обходы каталога в режиме поиска
	catalogScans     prometheus.Counter
	catalogScanPages prometheus.Histogram

	// Бизнес-счётчики
	ordersPlaced   prometheus.Counter
	exportFailures prometheus.Counter

	// Gauge активных сессий
	activeSessions prometheus.Gauge
}

// NewStorefrontMetrics создаёт и регистрирует метрики в default registerer.
func NewStorefrontMetrics() *StorefrontMetrics {
	return newStorefrontMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newStorefrontMetricsWithRegisterer(registerer prometheus.Registerer) *StorefrontMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &StorefrontMetrics{
		backendRequests: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "storefront_backend_requests_total",
			Help: "Total number of requests issued to the wholesale backend",
		}, []string{"endpoint", "outcome"}),
		backendDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "storefront_backend_request_duration_seconds",
			Help:    "Duration of wholesale backend requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		catalogScans: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_catalog_scans_total",
			Help: "Total number of full catalog scans performed by search mode",
		}),
		catalogScanPages: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "storefront_catalog_scan_pages",
			Help:    "Number of backend pages fetched per full catalog scan",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		}),
		ordersPlaced: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_orders_placed_total",
			Help: "Total number of orders successfully submitted to the backend",
		}),
		exportFailures: registerCounter(registerer, prometheus.CounterOpts{
			Name: "storefront_export_failures_total",
			Help: "Total number of failed order export attempts",
		}),
		activeSessions: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "storefront_active_sessions",
			Help: "Number of currently persisted storefront sessions",
		}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}

// RecordBackendRequest учитывает один запрос к бэкенду.
// outcome: "ok", "backend_error" или "network_error".
func (m *StorefrontMetrics) RecordBackendRequest(endpoint, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.backendRequests.WithLabelValues(endpoint, outcome).Inc()
	m.backendDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordCatalogScan учитывает полный обход каталога и число обойдённых страниц.
func (m *StorefrontMetrics) RecordCatalogScan(pages int) {
	if m == nil {
		return
	}
	m.catalogScans.Inc()
	m.catalogScanPages.Observe(float64(pages))
}

// RecordOrderPlaced увеличивает счётчик успешно оформленных заказов.
func (m *StorefrontMetrics) RecordOrderPlaced() {
	if m == nil {
		return
	}
	m.ordersPlaced.Inc()
}

// RecordExportFailure увеличивает счётчик неудачных экспортов.
func (m *StorefrontMetrics) RecordExportFailure() {
	if m == nil {
		return
	}
	m.exportFailures.Inc()
}

// RecordSessionOpened/RecordSessionClosed двигают gauge активных сессий.
func (m *StorefrontMetrics) RecordSessionOpened() {
	if m == nil {
		return
	}
	m.activeSessions.Inc()
}

func (m *StorefrontMetrics) RecordSessionClosed() {
	if m == nil {
		return
	}
	m.activeSessions.Dec()
}
