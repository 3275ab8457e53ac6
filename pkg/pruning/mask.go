package pruning

import "td_router/pkg/search"

// Mask is the set of arcs a pruned search may use. It is built as the
// union of candidate paths and cleared by walking those paths again, so a
// reset costs time proportional to the previous paths only.
type Mask struct {
	allowed []bool
	paths   [][]uint32
}

// NewMask returns an empty mask over arcCount arcs.
func NewMask(arcCount uint32) *Mask {
	return &Mask{allowed: make([]bool, arcCount)}
}

// Reset removes all arcs and forgets the candidate paths.
func (m *Mask) Reset() {
	for _, p := range m.paths {
		for _, a := range p {
			m.allowed[a] = false
		}
	}
	m.paths = m.paths[:0]
}

// Add allows every arc of path. A nil path (no candidate) is recorded too.
func (m *Mask) Add(path []uint32) {
	for _, a := range path {
		m.allowed[a] = true
	}
	m.paths = append(m.paths, path)
}

// Allowed reports whether arc may be used.
func (m *Mask) Allowed(arc uint32) bool { return m.allowed[arc] }

// Paths returns the candidate paths added since the last reset.
func (m *Mask) Paths() [][]uint32 { return m.paths }

// Restrict returns w limited to the allowed arcs. Other arcs get
// search.InfWeight. The result reads the mask at call time.
func (m *Mask) Restrict(w search.WeightFunc) search.WeightFunc {
	return masked{mask: m, w: w}
}

type masked struct {
	mask *Mask
	w    search.WeightFunc
}

func (m masked) Weight(arc, t uint32) uint32 {
	if !m.mask.allowed[arc] {
		return search.InfWeight
	}
	return m.w.Weight(arc, t)
}
