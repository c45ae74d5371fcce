package tasks

import "sync/atomic"

// Generation hands out monotonically increasing request ids.
//
// A view takes [Generation.Next] when it issues a fetch and applies the response only if
// [Generation.IsCurrent] still holds for that id, so a slow response to an older filter
// never overwrites a newer one.
type Generation struct {
	n atomic.Uint64
}

// Next starts a new generation and returns its id.
func (g *Generation) Next() uint64 { return g.n.Add(1) }

// IsCurrent reports whether id is the latest generation.
func (g *Generation) IsCurrent(id uint64) bool { return id == g.n.Load() }
