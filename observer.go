package filterfx

import "time"

// Observer receives execution events. The metrics package provides a
// Prometheus-backed implementation; the zero observer drops everything.
//
// Implementations must be safe for concurrent use: parallel chains
// report node events from multiple goroutines.
type Observer interface {
	// ObserveDecision is called once per node with the policy's chosen
	// strategy.
	ObserveDecision(kind, strategy string)
	// ObserveNode is called when a node finishes. status is "ok" or
	// "failed".
	ObserveNode(kind, status string, d time.Duration)
	// ObserveChain is called when a chain finishes. status is "ok",
	// "failed" or "cached".
	ObserveChain(status string, d time.Duration)
	// ObserveCache is called once per cache lookup.
	ObserveCache(hit bool)
	// ObserveEscalation is called when encoding failure pushes a node
	// from the metafile to the raster path.
	ObserveEscalation(kind string)
}

// nopObserver drops all events.
type nopObserver struct{}

func (nopObserver) ObserveDecision(string, string)            {}
func (nopObserver) ObserveNode(string, string, time.Duration) {}
func (nopObserver) ObserveChain(string, time.Duration)        {}
func (nopObserver) ObserveCache(bool)                         {}
func (nopObserver) ObserveEscalation(string)                  {}
