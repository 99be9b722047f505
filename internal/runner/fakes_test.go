package runner_test

import (
	"context"
	"sync"
	"time"

	"github.com/angeloszaimis/netcheck/internal/probe"
	"github.com/angeloszaimis/netcheck/internal/report"
	"github.com/angeloszaimis/netcheck/internal/request"
)

type response struct {
	status int
	err    string
	delay  time.Duration
}

// fakeExecutor answers by check description and classifies like the real
// executor does.
type fakeExecutor struct {
	mutex       sync.Mutex
	responses   map[string]response
	descriptors map[string]request.Descriptor
}

func newFakeExecutor(responses map[string]response) *fakeExecutor {
	return &fakeExecutor{
		responses:   responses,
		descriptors: make(map[string]request.Descriptor),
	}
}

func (f *fakeExecutor) Execute(ctx context.Context, desc request.Descriptor, transport request.Transport, description string, success probe.StatusSet) probe.Outcome {
	f.mutex.Lock()
	f.descriptors[description] = desc
	res := f.responses[description]
	f.mutex.Unlock()

	time.Sleep(res.delay)

	outcome := probe.Outcome{Description: description, Result: probe.Failed}
	if res.err != "" {
		outcome.Error = res.err
		return outcome
	}

	outcome.StatusCode = res.status
	if success.Contains(res.status) {
		outcome.Result = probe.Passed
	}
	return outcome
}

func (f *fakeExecutor) descriptor(description string) request.Descriptor {
	f.mutex.Lock()
	defer f.mutex.Unlock()
	return f.descriptors[description]
}

type reportCall struct {
	topic         string
	table         report.Table
	correlationID string
}

type recordingReporter struct {
	mutex sync.Mutex
	calls []reportCall
	trace *[]string
}

func (r *recordingReporter) Report(ctx context.Context, topic string, table report.Table, correlationID string) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.calls = append(r.calls, reportCall{topic: topic, table: table, correlationID: correlationID})
	if r.trace != nil {
		*r.trace = append(*r.trace, "report")
	}
}
