package diagnostics

import "sync"

// Store guards a Report so telemetry handlers can read it while
// startup is still filling it in.
type Store struct {
	mu sync.Mutex
	r  Report
}

func NewStore() *Store { return &Store{} }

func (s *Store) Update(f func(*Report)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f(&s.r)
}

// Fault appends a reportable condition.
func (s *Store) Fault(sev Severity, code, summary, detail string) {
	s.Update(func(r *Report) {
		r.Faults = append(r.Faults, Diagnostic{
			Severity: sev,
			Code:     code,
			Summary:  summary,
			Detail:   detail,
		})
	})
}

// Snapshot returns a copy that stays stable while updates continue.
func (s *Store) Snapshot() Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	r := s.r
	r.Faults = append([]Diagnostic(nil), s.r.Faults...)
	return r
}
