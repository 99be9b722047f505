// Package metrics collects per-check statistics from connectivity runs.
//
// Events are sent over a buffered channel and processed by a dedicated
// goroutine, so emitting never blocks a running check:
//
//	collector := metrics.NewCollector(64, logger)
//	collector.Start(ctx)
//
//	collector.EventChannel() <- metrics.MetricEvent{
//		Type:       metrics.EventCheckCompleted,
//		Check:      "Hub status over HTTP",
//		Duration:   150 * time.Millisecond,
//		StatusCode: 200,
//		Passed:     true,
//	}
//
//	cancel()
//	<-collector.Done()
//	snapshot := collector.Snapshot()
//
// On shutdown the collector drains the events still buffered before Done is
// closed.
package metrics
