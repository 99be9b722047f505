package metrics

import (
	"sort"
	"sync"
	"time"
)

const maxSamples = 1000

type Metrics struct {
	mutex         sync.RWMutex
	started       map[string]int64
	passed        map[string]int64
	failed        map[string]int64
	responseTimes map[string][]time.Duration
	statusCodes   map[string]map[int]int64
	startTime     time.Time
}

type Snapshot struct {
	TotalRuns   int64                   `json:"total_runs"`
	TotalPassed int64                   `json:"total_passed"`
	TotalFailed int64                   `json:"total_failed"`
	Uptime      time.Duration           `json:"uptime"`
	Checks      map[string]CheckMetrics `json:"checks"`
}

type CheckMetrics struct {
	Started     int64         `json:"started"`
	Passed      int64         `json:"passed"`
	Failed      int64         `json:"failed"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

func (m *Metrics) IncrementStarted(check string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.started[check]++
}

// RecordCompletion stores the duration and result of one check run. A zero
// status code means no response was received and is not counted.
func (m *Metrics) RecordCompletion(check string, duration time.Duration, statusCode int, passed bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if passed {
		m.passed[check]++
	} else {
		m.failed[check]++
	}

	m.responseTimes[check] = append(m.responseTimes[check], duration)
	if len(m.responseTimes[check]) > maxSamples {
		m.responseTimes[check] = m.responseTimes[check][1:]
	}

	if statusCode == 0 {
		return
	}
	if m.statusCodes[check] == nil {
		m.statusCodes[check] = make(map[int]int64)
	}
	m.statusCodes[check][statusCode]++
}

func (m *Metrics) Snapshot() Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime: time.Since(m.startTime),
		Checks: make(map[string]CheckMetrics),
	}

	allChecks := make(map[string]bool)
	for check := range m.started {
		allChecks[check] = true
	}
	for check := range m.passed {
		allChecks[check] = true
	}
	for check := range m.failed {
		allChecks[check] = true
	}

	for check := range allChecks {
		snap.TotalPassed += m.passed[check]
		snap.TotalFailed += m.failed[check]

		cm := CheckMetrics{
			Started:     m.started[check],
			Passed:      m.passed[check],
			Failed:      m.failed[check],
			StatusCodes: copyCodes(m.statusCodes[check]),
		}

		durations := m.responseTimes[check]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			cm.AvgResponse = average(sorted)
			cm.P50Response = percentile(sorted, 0.50)
			cm.P95Response = percentile(sorted, 0.95)
			cm.P99Response = percentile(sorted, 0.99)
		}

		snap.Checks[check] = cm
	}
	snap.TotalRuns = snap.TotalPassed + snap.TotalFailed

	return snap
}

func NewMetrics() *Metrics {
	return &Metrics{
		started:       make(map[string]int64),
		passed:        make(map[string]int64),
		failed:        make(map[string]int64),
		responseTimes: make(map[string][]time.Duration),
		statusCodes:   make(map[string]map[int]int64),
		startTime:     time.Now(),
	}
}

func copyCodes(codes map[int]int64) map[int]int64 {
	out := make(map[int]int64, len(codes))
	for code, n := range codes {
		out[code] = n
	}
	return out
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
