package campaign

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/medreach/medreach/internal/domain/patient"
)

// Options configures a dispatch run.
type Options struct {
	// Concurrency bounds the number of in-flight sends. Zero or negative
	// selects the number of available CPUs.
	Concurrency int
	// SendTimeout limits one send. Zero means no per-send deadline. A send
	// exceeding the deadline is recorded as failed with reason "timeout".
	SendTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.NumCPU()
	}
	return o
}

// Skip and failure reasons recorded on attempts.
const (
	ReasonNoChannel = "no deliverable channel"
	ReasonCancelled = "run cancelled"
	ReasonTimeout   = "timeout"
)

// Orchestrator runs the dispatch half of a campaign: it fans a selected
// patient set out to a bounded pool of sender workers and collects exactly one
// attempt per input patient, in input order.
type Orchestrator struct {
	sender Sender
	opts   Options
}

func NewOrchestrator(sender Sender, opts Options) *Orchestrator {
	return &Orchestrator{sender: sender, opts: opts.withDefaults()}
}

// Dispatch delivers to every selected patient and returns one attempt per
// input, index-aligned with the input regardless of completion order.
//
// Patients with no deliverable channel are recorded as skipped without a
// sender call. One patient's failure never aborts the batch. When ctx is
// cancelled, sends already in flight run to completion and patients not yet
// started are recorded as skipped.
func (o *Orchestrator) Dispatch(ctx context.Context, selected []Selection) []Attempt {
	return o.DispatchN(ctx, selected, 0)
}

// DispatchN is Dispatch with a per-run in-flight bound. Non-positive values
// fall back to the configured bound.
func (o *Orchestrator) DispatchN(ctx context.Context, selected []Selection, concurrency int) []Attempt {
	if concurrency <= 0 {
		concurrency = o.opts.Concurrency
	}
	attempts := make([]Attempt, len(selected))

	type job struct {
		idx     int
		channel Channel
		body    string
	}
	var jobs []job

	for i, sel := range selected {
		ch, body := Route(sel.Patient, sel.Message)
		if ch == ChannelNone {
			attempts[i] = newAttempt(sel, ChannelNone, body, StatusSkipped, ReasonNoChannel)
			continue
		}
		jobs = append(jobs, job{idx: i, channel: ch, body: body})
	}

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	skipFrom := func(i int) {
		for _, rest := range jobs[i:] {
			attempts[rest.idx] = newAttempt(selected[rest.idx], rest.channel, rest.body, StatusSkipped, ReasonCancelled)
		}
	}

submit:
	for i, j := range jobs {
		// A select alone is not enough: with a free semaphore slot and a
		// cancelled context both cases are ready and the choice is random.
		// Check cancellation first so no send starts after the run is aborted.
		if ctx.Err() != nil {
			skipFrom(i)
			break
		}
		select {
		case <-ctx.Done():
			skipFrom(i)
			break submit
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(j job) {
			defer wg.Done()
			defer func() { <-sem }()
			// Each worker owns exactly one result slot; no two workers ever
			// write the same index.
			attempts[j.idx] = o.send(ctx, selected[j.idx], j.channel, j.body)
		}(j)
	}
	wg.Wait()

	return attempts
}

func (o *Orchestrator) send(ctx context.Context, sel Selection, ch Channel, body string) Attempt {
	// A send already issued must not be interrupted by run cancellation; the
	// delivery state would be ambiguous. Only the per-send deadline applies.
	sendCtx := context.WithoutCancel(ctx)
	cancel := func() {}
	if o.opts.SendTimeout > 0 {
		sendCtx, cancel = context.WithTimeout(sendCtx, o.opts.SendTimeout)
	}
	defer cancel()

	var err error
	switch ch {
	case ChannelSMS:
		err = o.sender.SendSMS(sendCtx, patient.StrVal(sel.Patient.PhoneNumber), body)
	case ChannelEmail:
		err = o.sender.SendEmail(sendCtx, patient.StrVal(sel.Patient.Email), sel.MatchedLabel, body)
	}

	if err != nil {
		reason := err.Error()
		if errors.Is(err, context.DeadlineExceeded) {
			reason = ReasonTimeout
		}
		return newAttempt(sel, ch, body, StatusFailed, reason)
	}
	return newAttempt(sel, ch, body, StatusSent, "")
}

func newAttempt(sel Selection, ch Channel, body string, status Status, reason string) Attempt {
	return Attempt{
		ID:            uuid.New(),
		PatientID:     sel.Patient.ID,
		PatientName:   sel.Patient.Name,
		Channel:       ch,
		Message:       body,
		Criteria:      sel.MatchedLabel,
		Status:        status,
		FailureReason: reason,
		Timestamp:     time.Now().UTC(),
	}
}
