package health

import (
	"context"
	"sort"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks over named engines.
type Service struct {
	engines map[string]EnginePinger
}

// New creates a Service. The key names the check in the report, e.g. "engine".
func New(engines map[string]EnginePinger) *Service {
	return &Service{engines: engines}
}

// Names returns the check names in sorted order.
func (s *Service) Names() []string {
	names := make([]string, 0, len(s.engines))
	for n := range s.engines {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Check pings every engine. All failing is Unhealthy, some failing is Degraded.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult, len(s.engines))
	failed := 0
	for name, e := range s.engines {
		if err := e.Ping(ctx); err != nil {
			checks[name] = CheckError
			failed++
			continue
		}
		checks[name] = CheckOK
	}

	status := Healthy
	switch {
	case failed == 0:
	case failed == len(checks):
		status = Unhealthy
	default:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
