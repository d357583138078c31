// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Emberworks

// Package telemetry exposes Prometheus metrics for the relay process.
package telemetry

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics is the collection of all relay metrics, registered on a
// private registry so tests can construct it repeatedly.
type Metrics struct {
	registry *prometheus.Registry

	WireMessages *prometheus.CounterVec
	ParseErrors  prometheus.Counter
	Sends        *prometheus.CounterVec
	SendFailures prometheus.Counter
	QueueItems   *prometheus.CounterVec
	Connected    prometheus.Gauge
}

// NewMetrics creates and registers all collectors.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.WireMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocotte_wire_messages_total",
			Help: "Inbound wire messages by kind",
		},
		[]string{"kind"},
	)

	m.ParseErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cocotte_wire_parse_errors_total",
			Help: "Inbound messages that failed classification or framing",
		},
	)

	m.Sends = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocotte_sends_total",
			Help: "Outbound wire messages by kind",
		},
		[]string{"kind"},
	)

	m.SendFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cocotte_send_failures_total",
			Help: "Outbound writes that failed at the transport",
		},
	)

	m.QueueItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cocotte_queue_items_total",
			Help: "Finished queue items by result",
		},
		[]string{"result"},
	)

	m.Connected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "cocotte_connected",
			Help: "1 when the cooker link is up",
		},
	)

	m.registry.MustRegister(
		m.WireMessages, m.ParseErrors, m.Sends, m.SendFailures,
		m.QueueItems, m.Connected,
	)
	return m
}

// Handler serves the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
