package ch

import "td_router/pkg/search"

const (
	maxSettled = 500 // max nodes settled during one witness search
	maxHops    = 5   // max hops from the source
)

// witnessState holds the reusable state of the witness searches. A node's
// dist entry is only meaningful while reached is raised for it, so a new
// search starts with an epoch bump instead of a rewrite.
type witnessState struct {
	dist    []uint32
	hops    []uint8
	reached *search.TimestampFlags
	queue   *search.MinIDQueue
}

func newWitnessState(numNodes uint32) *witnessState {
	return &witnessState{
		dist:    make([]uint32, numNodes),
		hops:    make([]uint8, numNodes),
		reached: search.NewTimestampFlags(numNodes),
		queue:   search.NewMinIDQueue(numNodes),
	}
}

// distance returns the witness distance to node, or maxUint32 if the last
// search did not reach it.
func (ws *witnessState) distance(node uint32) uint32 {
	if !ws.reached.IsRaised(node) {
		return maxUint32
	}
	return ws.dist[node]
}

func (ws *witnessState) reset() {
	ws.reached.ResetAll()
	ws.queue.Clear()
}

const maxUint32 = ^uint32(0)

// batchWitnessSearch runs a bounded Dijkstra from source that avoids the
// node being contracted. The caller compares the resulting distances with
// the lengths of the candidate shortcuts.
//
// The search gives up after maxSettled nodes or maxHops hops. Missing a
// witness only costs an unnecessary shortcut.
func batchWitnessSearch(ws *witnessState, outAdj [][]adjEntry, source, excluded, maxWeight uint32, contracted []bool) {
	ws.reset()
	ws.dist[source] = 0
	ws.hops[source] = 0
	ws.reached.Raise(source)
	ws.queue.Push(source, 0)

	for settled := 0; !ws.queue.Empty(); {
		cur := ws.queue.Pop()
		settled++
		if settled >= maxSettled {
			break
		}
		if cur.Key > maxWeight || ws.hops[cur.ID] >= maxHops {
			continue
		}

		for _, e := range outAdj[cur.ID] {
			if e.to == excluded || contracted[e.to] || e.weight >= search.InfWeight {
				continue
			}
			d := cur.Key + e.weight
			if d > maxWeight {
				continue
			}
			switch {
			case !ws.reached.IsRaised(e.to):
				ws.reached.Raise(e.to)
				ws.queue.Push(e.to, d)
			case ws.queue.Contains(e.to) && ws.queue.DecreaseKey(e.to, d):
			default:
				continue
			}
			ws.dist[e.to] = d
			ws.hops[e.to] = ws.hops[cur.ID] + 1
		}
	}
}
