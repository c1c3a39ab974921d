package highlevel

import "container/heap"

// heapItem is one entry in the high-level open list, keyed per §4.H:
// f=g+h ascending, then fewer conflicts, then lower node id (arena
// index) — the arena index substitutes for insertion order as the final
// deterministic tie-break.
type heapItem struct {
	idx       int
	f         float64
	nConflict int
	index     int // position in the heap slice, maintained by container/heap
}

type openList []*heapItem

func (h openList) Len() int { return len(h) }
func (h openList) Less(i, j int) bool {
	if h[i].f != h[j].f {
		return h[i].f < h[j].f
	}
	if h[i].nConflict != h[j].nConflict {
		return h[i].nConflict < h[j].nConflict
	}
	return h[i].idx < h[j].idx
}
func (h openList) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *openList) Push(x any) {
	it := x.(*heapItem)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *openList) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*h = old[0 : n-1]
	return x
}

func newOpenList() *openList {
	h := &openList{}
	heap.Init(h)
	return h
}

func (h *openList) push(idx int, f float64, nConflict int) {
	heap.Push(h, &heapItem{idx: idx, f: f, nConflict: nConflict})
}

func (h *openList) pop() *heapItem {
	return heap.Pop(h).(*heapItem)
}
