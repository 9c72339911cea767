package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNewStorefrontMetrics_RegistersCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := newStorefrontMetricsWithRegisterer(registry)

	m.RecordBackendRequest("/Products", "ok", 120*time.Millisecond)
	m.RecordCatalogScan(3)
	m.RecordOrderPlaced()
	m.RecordExportFailure()
	m.RecordSessionOpened()
	m.RecordSessionClosed()

	families, err := registry.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Fatal("expected registered metric families")
	}

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"storefront_backend_requests_total",
		"storefront_catalog_scans_total",
		"storefront_orders_placed_total",
		"storefront_active_sessions",
	} {
		if !names[want] {
			t.Errorf("metric %s not registered", want)
		}
	}
}

func TestNewStorefrontMetrics_DoubleRegistrationReusesCollectors(t *testing.T) {
	registry := prometheus.NewRegistry()
	first := newStorefrontMetricsWithRegisterer(registry)
	second := newStorefrontMetricsWithRegisterer(registry)

	if first.catalogScans != second.catalogScans {
		t.Error("expected already-registered counter to be reused")
	}
}

func TestStorefrontMetrics_NilReceiverIsNoop(t *testing.T) {
	// Метрики опциональны: nil-получатель не должен паниковать.
	var m *StorefrontMetrics
	m.RecordBackendRequest("/Orders", "network_error", time.Second)
	m.RecordCatalogScan(1)
	m.RecordOrderPlaced()
	m.RecordExportFailure()
	m.RecordSessionOpened()
	m.RecordSessionClosed()
}
