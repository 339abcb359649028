// Package datadog implements a DogStatsD backend for the metrics package.
//
// Unlike the Pushgateway backend, DogStatsD metrics are fire-and-forget UDP
// datagrams handled by a local Datadog agent, so each counter and timing call
// is sent immediately and Flush only drains the client's buffer.
package datadog

import (
	"fmt"
	"time"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/KennielTorres/londonbikesETL/internal/metrics"
)

// Backend is a DogStatsD metrics backend.
type Backend struct {
	client *statsd.Client
}

// NewBackend connects to a DogStatsD agent, typically at 127.0.0.1:8125.
func NewBackend(addr string, globalTags []string) (*Backend, error) {
	if addr == "" {
		addr = "127.0.0.1:8125"
	}
	client, err := statsd.New(addr, statsd.WithTags(globalTags))
	if err != nil {
		return nil, fmt.Errorf("datadog: connect %s: %w", addr, err)
	}
	return &Backend{client: client}, nil
}

func (b *Backend) IncCounter(name string, delta float64, labels metrics.Labels) {
	if b.client == nil {
		return
	}
	_ = b.client.Count(name, int64(delta), labelsToTags(labels), 1)
}

func (b *Backend) ObserveHistogram(name string, value float64, labels metrics.Labels) {
	if b.client == nil {
		return
	}
	// Durations arrive in seconds; DogStatsD timings are milliseconds.
	if name == "load_step_duration_seconds" {
		d := time.Duration(value * float64(time.Second))
		_ = b.client.Timing(name, d, labelsToTags(labels), 1)
		return
	}
	_ = b.client.Histogram(name, value, labelsToTags(labels), 1)
}

// Flush drains the client's buffer so nothing is lost when the process exits.
func (b *Backend) Flush() error {
	if b.client == nil {
		return nil
	}
	return b.client.Flush()
}

// Close flushes and tears down the UDP connection.
func (b *Backend) Close() error {
	if b.client == nil {
		return nil
	}
	return b.client.Close()
}

func labelsToTags(labels metrics.Labels) []string {
	if len(labels) == 0 {
		return nil
	}
	tags := make([]string, 0, len(labels))
	for k, v := range labels {
		tags = append(tags, k+":"+v)
	}
	return tags
}
