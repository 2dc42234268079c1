package eon

// Topology owns the graph, the path catalogue, and the per-link spectrum
// grid. All operations are called exclusively from the Scheduler's single
// goroutine (see spec §5) — no locking is required by construction.
type Topology struct {
	Graph     *Graph
	Catalogue *PathCatalogue

	grid *spectrumGrid

	failedLinks map[Link]bool
	failedNodes map[string]bool
}

// NewTopology builds a Topology over g with a dense K-shortest-path
// catalogue and an S-slot spectrum grid per link.
func NewTopology(g *Graph, k, slots int) *Topology {
	return &Topology{
		Graph:       g,
		Catalogue:   BuildPathCatalogue(g, k),
		grid:        newSpectrumGrid(slots),
		failedLinks: make(map[Link]bool),
		failedNodes: make(map[string]bool),
	}
}

// Slots returns the number of slots per link.
func (t *Topology) Slots() int { return t.grid.slots }

// Paths delegates to the path catalogue.
func (t *Topology) Paths(src, dst string) []Path {
	return t.Catalogue.Paths(src, dst)
}

// TryAllocate returns true and occupies slots iff path crosses no failed
// node or link and every slot in window is free on every link of path;
// otherwise it leaves state unchanged. Atomic: no partial allocation is
// ever observable. The failure check is physical, not policy-dependent —
// even a disaster-unaware policy cannot light up a severed link; only
// disaster-aware policies additionally steer away from failures in
// advance via IsUsable.
func (t *Topology) TryAllocate(path Path, w Window) bool {
	if !t.IsUsable(path) {
		return false
	}
	links := path.Links()
	if !t.grid.free(links, w) {
		return false
	}
	t.grid.occupy(links, w)
	return true
}

// Release frees every slot in window on every link of path. Precondition:
// these slots were occupied by this exact allocation; a violation is a
// fatal invariant error.
func (t *Topology) Release(path Path, w Window) error {
	links := path.Links()
	if !t.grid.heldByAllocation(links, w) {
		return invariantf("release of slots not held: path=%v window=[%d,%d)", path.Nodes, w.Start, w.End())
	}
	t.grid.release(links, w)
	return nil
}

// IsUsable reports whether no node or link of path is marked failed.
func (t *Topology) IsUsable(path Path) bool {
	for _, n := range path.Nodes {
		if t.failedNodes[n] {
			return false
		}
	}
	for _, l := range path.Links() {
		if t.failedLinks[l] {
			return false
		}
	}
	return true
}

// FailLink marks a link as failed. Subsequent TryAllocate on any path
// crossing it returns false. Existing allocations are not auto-released —
// the Disaster component handles disruption accounting.
func (t *Topology) FailLink(a, b string) {
	t.failedLinks[linkOf(a, b)] = true
}

// FailNode marks a node as failed.
func (t *Topology) FailNode(v string) {
	t.failedNodes[v] = true
}

// LinkFailed reports whether l has been marked failed.
func (t *Topology) LinkFailed(l Link) bool { return t.failedLinks[l] }

// NodeFailed reports whether v has been marked failed.
func (t *Topology) NodeFailed(v string) bool { return t.failedNodes[v] }

// RunDecreaseAtSlot exposes the spectrum grid's admission-control
// heuristic to disaster-aware-with-blocking policies: how many fewer
// contiguous free runs of at least minLen slots would exist on link l if
// slot became occupied.
func (t *Topology) RunDecreaseAtSlot(l Link, slot int, minLen int) int {
	return t.grid.runDecreaseAtSlot(l, slot, minLen)
}
