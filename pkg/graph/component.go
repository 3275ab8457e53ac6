package graph

// UnionFind implements a disjoint-set data structure with path halving and
// union by rank.
type UnionFind struct {
	parent []uint32
	rank   []byte
	size   []uint32
}

// NewUnionFind creates a UnionFind for n elements.
func NewUnionFind(n uint32) *UnionFind {
	parent := make([]uint32, n)
	size := make([]uint32, n)
	for i := range n {
		parent[i] = i
		size[i] = 1
	}
	return &UnionFind{parent: parent, rank: make([]byte, n), size: size}
}

// Find returns the representative of the set containing x.
func (uf *UnionFind) Find(x uint32) uint32 {
	for uf.parent[x] != x {
		uf.parent[x] = uf.parent[uf.parent[x]]
		x = uf.parent[x]
	}
	return x
}

// Union merges the sets containing x and y. Returns false if already same set.
func (uf *UnionFind) Union(x, y uint32) bool {
	rx, ry := uf.Find(x), uf.Find(y)
	if rx == ry {
		return false
	}
	if uf.rank[rx] < uf.rank[ry] {
		rx, ry = ry, rx
	}
	uf.parent[ry] = rx
	uf.size[rx] += uf.size[ry]
	if uf.rank[rx] == uf.rank[ry] {
		uf.rank[rx]++
	}
	return true
}

// LargestComponent returns the nodes of the largest weakly connected
// component in increasing order.
func LargestComponent(g *TDGraph) []uint32 {
	n := g.NumNodes()
	if n == 0 {
		return nil
	}

	uf := NewUnionFind(n)
	for u := uint32(0); u < n; u++ {
		start, end := g.EdgesFrom(u)
		for a := start; a < end; a++ {
			uf.Union(u, g.Head[a])
		}
	}

	bestRoot, bestSize := uint32(0), uint32(0)
	for i := uint32(0); i < n; i++ {
		if root := uf.Find(i); uf.size[root] > bestSize {
			bestRoot, bestSize = root, uf.size[root]
		}
	}

	nodes := make([]uint32, 0, bestSize)
	for i := uint32(0); i < n; i++ {
		if uf.Find(i) == bestRoot {
			nodes = append(nodes, i)
		}
	}
	return nodes
}

// FilterToComponent returns the subgraph induced by nodes, renumbered in
// the order given. Arcs keep their relative order and their PLFs.
func FilterToComponent(g *TDGraph, nodes []uint32) *TDGraph {
	const dropped = ^uint32(0)
	oldToNew := make([]uint32, g.NumNodes())
	for i := range oldToNew {
		oldToNew[i] = dropped
	}
	for newIdx, oldIdx := range nodes {
		oldToNew[oldIdx] = uint32(newIdx)
	}

	out := &TDGraph{
		FirstOut:      make([]uint32, len(nodes)+1),
		FirstIPPOfArc: []uint32{0},
	}
	for newU, oldU := range nodes {
		start, end := g.EdgesFrom(oldU)
		for a := start; a < end; a++ {
			newV := oldToNew[g.Head[a]]
			if newV == dropped {
				continue
			}
			out.Head = append(out.Head, newV)
			begin, stop := g.FirstIPPOfArc[a], g.FirstIPPOfArc[a+1]
			out.IPPDepartureTime = append(out.IPPDepartureTime, g.IPPDepartureTime[begin:stop]...)
			out.IPPTravelTime = append(out.IPPTravelTime, g.IPPTravelTime[begin:stop]...)
			out.FirstIPPOfArc = append(out.FirstIPPOfArc, uint32(len(out.IPPDepartureTime)))
		}
		out.FirstOut[newU+1] = uint32(len(out.Head))
	}

	if g.HasCoordinates() {
		out.Latitude = make([]float32, len(nodes))
		out.Longitude = make([]float32, len(nodes))
		for newIdx, oldIdx := range nodes {
			out.Latitude[newIdx] = g.Latitude[oldIdx]
			out.Longitude[newIdx] = g.Longitude[oldIdx]
		}
	}
	return out
}
