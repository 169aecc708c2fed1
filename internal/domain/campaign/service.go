package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medreach/medreach/internal/domain/patient"
)

// PatientSource supplies the registry snapshot an outreach run reads. The
// snapshot is treated as read-only.
type PatientSource interface {
	All(ctx context.Context) ([]*patient.Patient, error)
}

// Service composes the outreach engine: search, target selection, dispatch,
// and the attempt log.
type Service struct {
	patients PatientSource
	attempts AttemptRepository
	orch     *Orchestrator
	rules    []Criteria
	now      func() time.Time
}

func NewService(patients PatientSource, attempts AttemptRepository, sender Sender, opts Options) *Service {
	return &Service{
		patients: patients,
		attempts: attempts,
		orch:     NewOrchestrator(sender, opts),
		rules:    DefaultRules(),
		now:      time.Now,
	}
}

// SetClock fixes the reference date used for age computation, so that runs and
// tests are deterministic.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// SetRules replaces the default campaign rule set.
func (s *Service) SetRules(rules []Criteria) { s.rules = rules }

// Rules returns the configured campaign rule set.
func (s *Service) Rules() []Criteria { return s.rules }

// DefaultRules is the rule set active when no explicit criteria are supplied.
func DefaultRules() []Criteria {
	min60 := 60
	min40, max59 := 40, 59
	return []Criteria{
		{
			Label:   "age 60+ annual checkup",
			Message: "Dear {{name}}, you are due for your annual checkup. Please contact us to schedule an appointment.",
			Query:   SearchQuery{MinAge: &min60},
		},
		{
			Label:   "age 40-59 screening reminder",
			Message: "Dear {{name}}, a routine health screening is recommended for your age group.",
			Query:   SearchQuery{MinAge: &min40, MaxAge: &max59},
		},
	}
}

// Search filters the registry snapshot on structured query fields only.
// Re-running with the same snapshot and query yields identical output.
func (s *Service) Search(ctx context.Context, q SearchQuery) ([]*patient.Patient, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	snapshot, err := s.patients.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patient snapshot: %w", err)
	}

	asOf := s.now()
	matched := []*patient.Patient{}
	for _, p := range snapshot {
		if q.Matches(p, asOf) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// Filter selects the targets of the given rules, one rule at a time, keeping
// snapshot order within each rule. Empty rules fall back to the configured
// default set.
func (s *Service) Filter(ctx context.Context, rules []Criteria) ([]Selection, error) {
	for _, r := range rules {
		if err := r.Query.Validate(); err != nil {
			return nil, fmt.Errorf("invalid criteria %q: %w", r.Label, err)
		}
	}
	if len(rules) == 0 {
		rules = s.rules
	}
	snapshot, err := s.patients.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load patient snapshot: %w", err)
	}

	asOf := s.now()
	selected := []Selection{}
	for _, r := range rules {
		selected = append(selected, Select(snapshot, r, asOf)...)
	}
	return selected, nil
}

// RunOptions carries per-run overrides for one campaign dispatch.
type RunOptions struct {
	// Concurrency overrides the configured in-flight bound when positive.
	Concurrency int
}

// SendCampaign selects targets for the given rules, renders each message for
// its patient, dispatches, records the attempt log, and returns the report.
// A recording failure does not void the report: the report is returned
// alongside the error.
func (s *Service) SendCampaign(ctx context.Context, rules []Criteria) (*Report, error) {
	return s.SendCampaignWith(ctx, rules, RunOptions{})
}

// SendCampaignWith is SendCampaign with per-run overrides.
func (s *Service) SendCampaignWith(ctx context.Context, rules []Criteria, run RunOptions) (*Report, error) {
	selected, err := s.Filter(ctx, rules)
	if err != nil {
		return nil, err
	}

	for i := range selected {
		selected[i].Message = Render(selected[i].Message, templateData(selected[i].Patient))
	}

	attempts := s.orch.DispatchN(ctx, selected, run.Concurrency)
	report := BuildReport(attempts)

	if s.attempts != nil {
		// The log is written even when the run was cancelled mid-flight.
		recordCtx := context.WithoutCancel(ctx)
		if err := s.attempts.Record(recordCtx, uuid.New(), attempts); err != nil {
			return report, fmt.Errorf("record attempts: %w", err)
		}
	}
	return report, nil
}

// AttemptLog lists recorded attempts across past runs.
func (s *Service) AttemptLog(ctx context.Context, limit, offset int) ([]Attempt, int, error) {
	if s.attempts == nil {
		return []Attempt{}, 0, nil
	}
	return s.attempts.List(ctx, limit, offset)
}

// AttemptStats returns counts of recorded attempts grouped by status.
func (s *Service) AttemptStats(ctx context.Context) (map[Status]int, error) {
	if s.attempts == nil {
		return map[Status]int{}, nil
	}
	return s.attempts.Stats(ctx)
}
