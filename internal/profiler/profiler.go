// Package profiler accumulates wall-clock time spent in named intervals.
//
// A nil *Profiler is valid and does nothing, so callers can instrument
// unconditionally:
//
//	defer prof.End(prof.Start("forward"))
package profiler

import (
	"fmt"
	"io"
	"sort"
	"sync"
	"time"
)

// Timing is an open interval returned by Start.
type Timing struct {
	name  string
	start time.Time
}

// Entry is the accumulated time of one named interval.
type Entry struct {
	Name  string
	Calls int
	Total time.Duration
}

// Mean returns the average duration per call.
func (e Entry) Mean() time.Duration {
	if e.Calls == 0 {
		return 0
	}
	return e.Total / time.Duration(e.Calls)
}

// Profiler is safe for concurrent use.
type Profiler struct {
	mu      sync.Mutex
	entries map[string]*Entry
	now     func() time.Time
}

// New creates an empty profiler.
func New() *Profiler {
	return &Profiler{
		entries: make(map[string]*Entry),
		now:     time.Now,
	}
}

// Start opens an interval named name.
func (p *Profiler) Start(name string) Timing {
	if p == nil {
		return Timing{}
	}
	return Timing{name: name, start: p.now()}
}

// End closes t and adds its duration to the named total.
func (p *Profiler) End(t Timing) {
	if p == nil || t.name == "" {
		return
	}
	elapsed := p.now().Sub(t.start)

	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.entries[t.name]
	if !ok {
		e = &Entry{Name: t.name}
		p.entries[t.name] = e
	}
	e.Calls++
	e.Total += elapsed
}

// Report returns the accumulated entries sorted by name.
func (p *Profiler) Report() []Entry {
	if p == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	report := make([]Entry, 0, len(p.entries))
	for _, e := range p.entries {
		report = append(report, *e)
	}
	sort.Slice(report, func(i, j int) bool {
		return report[i].Name < report[j].Name
	})
	return report
}

// WriteTo writes one line per entry to w.
func (p *Profiler) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, e := range p.Report() {
		n, err := fmt.Fprintf(w, "%-16s calls=%-8d total=%-14v mean=%v\n",
			e.Name, e.Calls, e.Total, e.Mean())
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}
