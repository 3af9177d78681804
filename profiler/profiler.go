// Package profiler records operation timings and renders a summary report.
package profiler

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// Stats summarizes the recorded durations of one operation.
type Stats struct {
	Name  string        `json:"name"`
	Count int64         `json:"count"`
	Total time.Duration `json:"total"`
	Min   time.Duration `json:"min"`
	Max   time.Duration `json:"max"`
}

// Mean returns the average duration, or 0 when nothing was recorded.
func (s Stats) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return s.Total / time.Duration(s.Count)
}

// Profiler tracks operation timings. It is safe for concurrent use.
type Profiler struct {
	mu        sync.Mutex
	startTime time.Time
	ops       map[string]*Stats
}

// New creates an empty profiler whose uptime starts now.
func New() *Profiler {
	return &Profiler{
		startTime: time.Now(),
		ops:       make(map[string]*Stats),
	}
}

// StartOperation begins timing an operation.
//
// Arguments:
//   - name: The name of the operation to track.
//
// Returns:
//   - A function to call when the operation completes.
//
// @example
//
//	done := p.StartOperation("resize")
//	defer done()
func (p *Profiler) StartOperation(name string) func() {
	start := time.Now()
	return func() {
		p.Record(name, time.Since(start))
	}
}

// Record adds one completed duration for name.
func (p *Profiler) Record(name string, d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.ops[name]
	if !ok {
		s = &Stats{Name: name, Min: d, Max: d}
		p.ops[name] = s
	}
	s.Count++
	s.Total += d
	if d < s.Min {
		s.Min = d
	}
	if d > s.Max {
		s.Max = d
	}
}

// Stats returns a snapshot for name and whether anything was recorded.
func (p *Profiler) Stats(name string) (Stats, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.ops[name]
	if !ok {
		return Stats{Name: name}, false
	}
	return *s, true
}

// Snapshot returns all operations sorted by name.
func (p *Profiler) Snapshot() []Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]Stats, 0, len(p.ops))
	for _, s := range p.ops {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Report renders the uptime and one line per operation.
func (p *Profiler) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Uptime: %v\n", time.Since(p.startTime).Truncate(time.Millisecond))

	ops := p.Snapshot()
	if len(ops) == 0 {
		return b.String()
	}
	b.WriteString("OPERATION TIMINGS:\n")
	for _, s := range ops {
		fmt.Fprintf(&b, "  %s: avg=%v, min=%v, max=%v, count=%d\n",
			s.Name,
			s.Mean().Truncate(time.Microsecond),
			s.Min.Truncate(time.Microsecond),
			s.Max.Truncate(time.Microsecond),
			s.Count)
	}
	return b.String()
}
