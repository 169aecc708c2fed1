package campaign

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Sender delivers a single message over a concrete channel. The orchestrator
// treats it as an opaque collaborator: it records whatever outcome the sender
// reports and never retries within a run.
type Sender interface {
	SendSMS(ctx context.Context, to, body string) error
	SendEmail(ctx context.Context, to, subject, body string) error
}

// ---------------------------------------------------------------------------
// Log sender
// ---------------------------------------------------------------------------

// LogSender writes every send to the log instead of a gateway. Used in
// development mode when no gateway is configured.
type LogSender struct {
	logger zerolog.Logger
}

func NewLogSender(logger zerolog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) SendSMS(_ context.Context, to, body string) error {
	s.logger.Info().Str("channel", "sms").Str("to", to).Str("body", body).Msg("send")
	return nil
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, body string) error {
	s.logger.Info().Str("channel", "email").Str("to", to).Str("subject", subject).Str("body", body).Msg("send")
	return nil
}

// ---------------------------------------------------------------------------
// Gateway sender
// ---------------------------------------------------------------------------

// GatewaySender posts each message as JSON to an external delivery gateway.
// The gateway owns carrier and SMTP specifics; a non-2xx response is a send
// failure.
type GatewaySender struct {
	url    string
	client *http.Client
}

func NewGatewaySender(url string) *GatewaySender {
	return &GatewaySender{
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type gatewayMessage struct {
	Channel string `json:"channel"`
	To      string `json:"to"`
	Subject string `json:"subject,omitempty"`
	Body    string `json:"body"`
}

func (s *GatewaySender) SendSMS(ctx context.Context, to, body string) error {
	return s.post(ctx, gatewayMessage{Channel: "sms", To: to, Body: body})
}

func (s *GatewaySender) SendEmail(ctx context.Context, to, subject, body string) error {
	return s.post(ctx, gatewayMessage{Channel: "email", To: to, Subject: subject, Body: body})
}

func (s *GatewaySender) post(ctx context.Context, msg gatewayMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode gateway message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock sender (test double)
// ---------------------------------------------------------------------------

// SendCall records a single delivery handed to the MockSender.
type SendCall struct {
	Channel Channel
	To      string
	Subject string
	Body    string
}

// MockSender is a call-recording test double. It optionally fails every send,
// delays to simulate slow gateways, and tracks the maximum number of sends it
// ever observed in flight at once.
type MockSender struct {
	mu          sync.Mutex
	calls       []SendCall
	inFlight    int
	maxInFlight int

	ShouldFail bool
	FailError  string
	Delay      time.Duration
}

func (m *MockSender) SendSMS(ctx context.Context, to, body string) error {
	return m.send(ctx, SendCall{Channel: ChannelSMS, To: to, Body: body})
}

func (m *MockSender) SendEmail(ctx context.Context, to, subject, body string) error {
	return m.send(ctx, SendCall{Channel: ChannelEmail, To: to, Subject: subject, Body: body})
}

func (m *MockSender) send(ctx context.Context, call SendCall) error {
	m.mu.Lock()
	m.calls = append(m.calls, call)
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.ShouldFail {
		return errors.New(m.FailError)
	}
	return nil
}

// Calls returns a copy of all recorded sends.
func (m *MockSender) Calls() []SendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SendCall, len(m.calls))
	copy(out, m.calls)
	return out
}

// MaxInFlight reports the peak number of concurrent sends observed.
func (m *MockSender) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}
