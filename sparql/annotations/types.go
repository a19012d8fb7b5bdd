// Package annotations provides a low-overhead event system for tracing the
// phases of a query compilation.
package annotations

import (
	"sync"
	"time"
)

// Event name constants following hierarchical naming pattern
const (
	// Compilation lifecycle
	CompileInvoked  = "compile/invoked"
	CompileComplete = "compile/completed"

	// Phases
	WhereMapped      = "compile/where.mapped"
	NamedGraphsBound = "compile/named-graphs.bound"
	WhereSimplified  = "compile/where.simplified"
	GraphsResolved   = "compile/graphs.resolved"

	// Errors
	ErrorStructural  = "error/compile.structural"
	ErrorUnsupported = "error/compile.unsupported"
	ErrorCatalog     = "error/compile.catalog"
)

// Event represents a single annotation event during a compilation.
type Event struct {
	Name      string         // Event name using hierarchical constants above
	CompileID string         // Identifies the compilation that emitted the event
	Start     time.Time      // Start timestamp
	End       time.Time      // End timestamp
	Latency   time.Duration  // Duration (End - Start)
	Data      map[string]any // Additional event-specific data
}

// Handler processes annotation events as they occur.
type Handler func(event Event)

// Collector accumulates events. A nil *Collector is valid and records
// nothing, so callers never need to check before annotating.
type Collector struct {
	handler Handler
	events  []Event
	mu      sync.Mutex
}

// NewCollector creates a new annotation collector. handler may be nil, in
// which case events are only kept for Events.
func NewCollector(handler Handler) *Collector {
	return &Collector{
		handler: handler,
		events:  make([]Event, 0, 16),
	}
}

// Add records a new event.
// Thread-safe for concurrent access.
func (c *Collector) Add(event Event) {
	if c == nil {
		return
	}

	c.mu.Lock()
	c.events = append(c.events, event)
	c.mu.Unlock()

	// Call handler outside the lock to avoid deadlocks
	if c.handler != nil {
		c.handler(event)
	}
}

// AddTiming records an event that started at start and ends now.
func (c *Collector) AddTiming(name, compileID string, start time.Time, data map[string]any) {
	if c == nil {
		return
	}

	end := time.Now()
	c.Add(Event{
		Name:      name,
		CompileID: compileID,
		Start:     start,
		End:       end,
		Latency:   end.Sub(start),
		Data:      data,
	})
}

// Events returns a copy of all collected events.
func (c *Collector) Events() []Event {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	eventsCopy := make([]Event, len(c.events))
	copy(eventsCopy, c.events)
	return eventsCopy
}

// Reset clears the collected events, keeping the handler.
func (c *Collector) Reset() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = c.events[:0]
}
