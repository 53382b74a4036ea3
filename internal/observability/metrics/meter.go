// Copyright 2026 The LexDesk Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Config holds metrics configuration
type Config struct {
	Enabled bool
}

// Meter wraps OpenTelemetry meter
type Meter struct {
	meter metric.Meter
}

// New creates a new meter instance from the global meter provider.
func New(ctx context.Context, cfg Config, serviceName string) (*Meter, error) {
	if !cfg.Enabled {
		return &Meter{meter: otel.Meter("noop")}, nil
	}
	return &Meter{meter: otel.Meter(serviceName)}, nil
}

// GetMeter returns the underlying meter
func (m *Meter) GetMeter() metric.Meter {
	return m.meter
}

// StoreInstruments are the instruments recorded by the tenant query router.
type StoreInstruments struct {
	queries  metric.Int64Counter
	failures metric.Int64Counter
	duration metric.Float64Histogram
	handles  metric.Int64UpDownCounter
}

// NewStoreInstruments registers the tenant store instruments on m.
func NewStoreInstruments(m *Meter) (*StoreInstruments, error) {
	queries, err := m.meter.Int64Counter("lexdesk.tenant.queries",
		metric.WithDescription("Queries routed to tenant schemas"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter lexdesk.tenant.queries: %w", err)
	}

	failures, err := m.meter.Int64Counter("lexdesk.tenant.query_failures",
		metric.WithDescription("Tenant queries that returned a driver error"))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter lexdesk.tenant.query_failures: %w", err)
	}

	duration, err := m.meter.Float64Histogram("lexdesk.tenant.query_duration",
		metric.WithDescription("Tenant query latency"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram lexdesk.tenant.query_duration: %w", err)
	}

	handles, err := m.meter.Int64UpDownCounter("lexdesk.tenant.open_handles",
		metric.WithDescription("Tenant connection handles held by the registry"))
	if err != nil {
		return nil, fmt.Errorf("failed to create up/down counter lexdesk.tenant.open_handles: %w", err)
	}

	return &StoreInstruments{
		queries:  queries,
		failures: failures,
		duration: duration,
		handles:  handles,
	}, nil
}

// RecordQuery records one routed query.
func (s *StoreInstruments) RecordQuery(ctx context.Context, schema string, ms float64, failed bool) {
	if s == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("tenant.schema", schema))
	s.queries.Add(ctx, 1, attrs)
	s.duration.Record(ctx, ms, attrs)
	if failed {
		s.failures.Add(ctx, 1, attrs)
	}
}

// HandleOpened and HandleClosed track the registry size.
func (s *StoreInstruments) HandleOpened(ctx context.Context) {
	if s != nil {
		s.handles.Add(ctx, 1)
	}
}

func (s *StoreInstruments) HandleClosed(ctx context.Context) {
	if s != nil {
		s.handles.Add(ctx, -1)
	}
}
