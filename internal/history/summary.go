package history

import (
	"cmp"
	"slices"
	"time"
)

// Trend of a target's failure rate across a window.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// TargetSummary aggregates the runs of one render target.
type TargetSummary struct {
	Target        string         `json:"target"`
	Runs          int            `json:"runs"`
	Failures      int            `json:"failures"`
	Classes       int            `json:"classes"`
	ByErrorKind   map[string]int `json:"by_error_kind"`
	DominantError string         `json:"dominant_error,omitempty"`
	MeanDuration  time.Duration  `json:"mean_duration_ns"`
	Trend         string         `json:"trend"`
}

// Summary is the run overview for a time window.
type Summary struct {
	Since       time.Time                `json:"since"`
	Until       time.Time                `json:"until"`
	Runs        int                      `json:"runs"`
	Failures    int                      `json:"failures"`
	Sessions    int                      `json:"sessions"`
	Targets     map[string]TargetSummary `json:"targets"`
	SlowestRuns []Run                    `json:"slowest_runs,omitempty"`
}

// slowestKept bounds Summary.SlowestRuns.
const slowestKept = 3

// Summarize aggregates the runs started in [since, until).
func Summarize(runs []Run, since, until time.Time) Summary {
	buckets := make(map[string]*TargetSummary)
	sessions := make(map[string]struct{})
	var inWindow []Run

	sum := Summary{Since: since, Until: until, Targets: map[string]TargetSummary{}}
	durations := make(map[string]time.Duration)
	for _, r := range runs {
		if r.StartedAt.Before(since) || !r.StartedAt.Before(until) {
			continue
		}
		inWindow = append(inWindow, r)

		ts, ok := buckets[r.Target]
		if !ok {
			ts = &TargetSummary{Target: r.Target, ByErrorKind: make(map[string]int)}
			buckets[r.Target] = ts
		}
		ts.Runs++
		ts.Classes += len(r.Classes)
		if !r.OK() {
			ts.Failures++
			ts.ByErrorKind[r.ErrorKind]++
			sum.Failures++
		}
		durations[r.Target] += r.Duration
		if r.SessionID != "" {
			sessions[r.SessionID] = struct{}{}
		}
	}

	for target, ts := range buckets {
		ts.DominantError = dominantKind(ts.ByErrorKind)
		ts.MeanDuration = durations[target] / time.Duration(ts.Runs)
		ts.Trend = failureTrend(inWindow, target, since, until)
		sum.Targets[target] = *ts
	}
	sum.Runs = len(inWindow)
	sum.Sessions = len(sessions)

	slices.SortStableFunc(inWindow, func(a, b Run) int {
		return cmp.Compare(b.Duration, a.Duration)
	})
	if len(inWindow) > slowestKept {
		inWindow = inWindow[:slowestKept]
	}
	for _, r := range inWindow {
		r.Source = ""
		sum.SlowestRuns = append(sum.SlowestRuns, r)
	}
	return sum
}

// dominantKind returns the most frequent error kind, ties broken by name.
func dominantKind(byKind map[string]int) string {
	best := ""
	bestCount := 0
	for kind, c := range byKind {
		if c > bestCount || (c == bestCount && kind < best) {
			best = kind
			bestCount = c
		}
	}
	return best
}

// failureTrend compares the failure rate of the first and second half of the
// window.
func failureTrend(runs []Run, target string, since, until time.Time) string {
	mid := since.Add(until.Sub(since) / 2)
	var first, second [2]int // runs, failures
	for _, r := range runs {
		if r.Target != target {
			continue
		}
		half := &second
		if r.StartedAt.Before(mid) {
			half = &first
		}
		half[0]++
		if !r.OK() {
			half[1]++
		}
	}
	if first[0] == 0 || second[0] == 0 {
		return TrendStable
	}

	// compare failures/runs without division
	a := first[1] * second[0]
	b := second[1] * first[0]
	switch {
	case b < a:
		return TrendImproving
	case b > a:
		return TrendDeclining
	default:
		return TrendStable
	}
}
