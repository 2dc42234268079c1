package eon

// RoutingPolicy decides a path and spectrum window for a request against a
// Topology. Every variant must honor spectrum continuity and return the
// first acceptable result under its own ordering (spec §4.3).
type RoutingPolicy interface {
	// Route computes an Outcome for a fresh request.
	Route(req *Request, topo *Topology, isp *ISP) Outcome

	// Reroute computes an Outcome for a request disrupted by the disaster.
	// The caller has already released the request's old allocation.
	Reroute(req *Request, topo *Topology, isp *ISP) Outcome
}

// PolicyFactory constructs a RoutingPolicy instance, given the slot count
// and the total number of ISPs in the scenario (needed by the
// sliding-window variants to size their zones).
type PolicyFactory func(cfg PolicyConfig) RoutingPolicy

// PolicyConfig carries the parameters a policy factory needs at
// construction time.
type PolicyConfig struct {
	Slots             int
	NumISPs           int
	ZoneIndex         int // this ISP's assigned spectrum zone, for sliding-window/subnet variants
	Subgraph          *Graph
	SubgraphCatalogue *PathCatalogue
	AdmissionTheta    int // threshold for DisasterAwareWithBlocking, default 1
	MigrationDemand   int // migration_slot_demand, used by the admission-control estimator
}

// Registry maps the closed-set policy identifier strings (spec §6) to
// factories, mirroring the teacher's single-implementation Router
// interface generalized to nine interchangeable variants.
type Registry struct {
	factories map[string]PolicyFactory
}

// NewRegistry returns a Registry pre-populated with all nine built-in
// policy identifiers.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]PolicyFactory)}
	r.Register("first_fit", func(cfg PolicyConfig) RoutingPolicy { return &FirstFit{} })
	r.Register("best_fit", func(cfg PolicyConfig) RoutingPolicy { return &BestFit{} })
	r.Register("sliding_window", func(cfg PolicyConfig) RoutingPolicy {
		return newSlidingWindow(cfg.Slots, cfg.NumISPs, cfg.ZoneIndex)
	})
	r.Register("subnet", func(cfg PolicyConfig) RoutingPolicy {
		start, end := zoneBounds(cfg.Slots, cfg.NumISPs, cfg.ZoneIndex)
		return &Subnet{Subgraph: cfg.Subgraph, SubCatalogue: cfg.SubgraphCatalogue, ZoneStart: start, ZoneEnd: end}
	})
	r.Register("first_fit_da", func(cfg PolicyConfig) RoutingPolicy { return &FirstFitDisasterAware{} })
	r.Register("best_fit_da", func(cfg PolicyConfig) RoutingPolicy { return &BestFitDisasterAware{} })
	r.Register("best_fit_sw_da", func(cfg PolicyConfig) RoutingPolicy {
		return newBestFitSlidingWindowDisasterAware(cfg.Slots, cfg.NumISPs, cfg.ZoneIndex)
	})
	r.Register("subnet_da", func(cfg PolicyConfig) RoutingPolicy {
		start, end := zoneBounds(cfg.Slots, cfg.NumISPs, cfg.ZoneIndex)
		return &SubnetDisasterAware{Subgraph: cfg.Subgraph, SubCatalogue: cfg.SubgraphCatalogue, ZoneStart: start, ZoneEnd: end}
	})
	r.Register("da_with_blocking", func(cfg PolicyConfig) RoutingPolicy {
		theta := cfg.AdmissionTheta
		if theta <= 0 {
			theta = 1
		}
		return &DisasterAwareWithBlocking{Theta: theta, MigrationSlotDemand: cfg.MigrationDemand}
	})
	return r
}

// Register adds or overrides a policy factory under id.
func (r *Registry) Register(id string, f PolicyFactory) {
	r.factories[id] = f
}

// New constructs a policy by identifier. Returns a *ConfigError wrapping an
// "unknown policy id" if id is not in the closed set.
func (r *Registry) New(id string, cfg PolicyConfig) (RoutingPolicy, error) {
	f, ok := r.factories[id]
	if !ok {
		return nil, configErrorf("unknown policy id "+id, nil)
	}
	return f(cfg), nil
}

// firstFitWindow scans slot indices 0..S-w ascending and returns the first
// window where every slot is free on every link, or false if none exists.
func firstFitWindow(topo *Topology, path Path, w int) (Window, bool) {
	links := path.Links()
	s := topo.Slots()
	for start := 0; start+w <= s; start++ {
		win := Window{Start: start, Width: w}
		if topo.tryPeek(links, win) {
			return win, true
		}
	}
	return Window{}, false
}

// tryPeek checks availability without mutating state (used by window
// search loops so policies can evaluate multiple candidates before
// committing via TryAllocate).
func (t *Topology) tryPeek(links []Link, w Window) bool {
	return t.grid.free(links, w)
}

// bestFitWindow chooses, among the windows where try_allocate would
// succeed, the TIGHTEST fit: a window whose left neighbor or right
// neighbor is occupied (or the grid boundary), minimizing the size of the
// largest remaining adjacent free run, tie-breaking on lowest starting
// index. If no free window touches an occupied neighbor or boundary
// (impossible in practice since start=0 and start=S-w always touch the
// grid edge), all free windows are considered instead.
func bestFitWindow(topo *Topology, path Path, w int) (Window, bool) {
	links := path.Links()
	s := topo.Slots()

	type candidate struct {
		start, score int
	}
	var tight, any []candidate

	for start := 0; start+w <= s; start++ {
		win := Window{Start: start, Width: w}
		if !topo.tryPeek(links, win) {
			continue
		}
		score := adjacentFreeRunScore(topo, links, win)
		any = append(any, candidate{start, score})
		if isTightWindow(topo, links, win, s) {
			tight = append(tight, candidate{start, score})
		}
	}

	pool := tight
	if len(pool) == 0 {
		pool = any
	}
	if len(pool) == 0 {
		return Window{}, false
	}

	best := pool[0]
	for _, c := range pool[1:] {
		if c.score < best.score || (c.score == best.score && c.start < best.start) {
			best = c
		}
	}
	return Window{Start: best.start, Width: w}, true
}

// isTightWindow reports whether w's left side or right side abuts an
// occupied slot (on every link of the path) or the grid boundary.
func isTightWindow(topo *Topology, links []Link, w Window, slots int) bool {
	leftTight := w.Start == 0
	if !leftTight {
		leftTight = true
		for _, l := range links {
			if !topo.grid.linkState(l)[w.Start-1] {
				leftTight = false
				break
			}
		}
	}
	rightTight := w.End() == slots
	if !rightTight {
		rightTight = true
		for _, l := range links {
			if !topo.grid.linkState(l)[w.End()] {
				rightTight = false
				break
			}
		}
	}
	return leftTight || rightTight
}

// adjacentFreeRunScore returns the size of the largest free run adjacent to
// the window across all of the path's links (the quantity bestFitWindow
// minimizes).
func adjacentFreeRunScore(topo *Topology, links []Link, w Window) int {
	maxRun := 0
	for _, l := range links {
		st := topo.grid.linkState(l)
		leftRun := 0
		for i := w.Start - 1; i >= 0 && !st[i]; i-- {
			leftRun++
		}
		rightRun := 0
		for i := w.End(); i < len(st) && !st[i]; i++ {
			rightRun++
		}
		run := leftRun
		if rightRun > run {
			run = rightRun
		}
		if run > maxRun {
			maxRun = run
		}
	}
	return maxRun
}
