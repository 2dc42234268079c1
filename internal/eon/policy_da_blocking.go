package eon

// DisasterAwareWithBlocking applies disaster-aware path filtering and
// best-fit window selection, but actively refuses admission when it would
// depress the estimated future acceptance rate of migration-class
// requests: for each candidate (path, window) it simulates admission and
// sums, over every (link, slot) the window touches, the decrease in
// contiguous free runs of size >= MigrationSlotDemand. A candidate whose
// total decrease exceeds Theta is rejected and the next path is tried.
// If every candidate is rejected this way, the policy falls back to plain
// disaster-aware best-fit (second chance) to avoid pathological starvation
// (spec §4.3, §9).
type DisasterAwareWithBlocking struct {
	Theta               int
	MigrationSlotDemand int
}

func (p *DisasterAwareWithBlocking) Route(req *Request, topo *Topology, isp *ISP) Outcome {
	paths := topo.Paths(req.Src, req.Dst)
	if isp.Reacted {
		paths = usablePaths(topo, paths)
		if len(paths) == 0 {
			return blocked(ReasonNoSafePath)
		}
	}

	theta := p.Theta
	if theta <= 0 {
		theta = 1
	}
	minLen := p.MigrationSlotDemand
	if minLen <= 0 {
		minLen = 1
	}

	for _, path := range paths {
		win, ok := bestFitWindow(topo, path, req.SlotDemand)
		if !ok {
			continue
		}
		if p.admissionDecrease(topo, path, win, minLen) > theta {
			continue
		}
		if topo.TryAllocate(path, win) {
			return accepted(path, win)
		}
	}

	// Second chance: fall back to plain disaster-aware best-fit, ignoring
	// the admission-control criterion, rather than block outright.
	fallback := &BestFitDisasterAware{}
	return fallback.Route(req, topo, isp)
}

func (p *DisasterAwareWithBlocking) Reroute(req *Request, topo *Topology, isp *ISP) Outcome {
	return p.Route(req, topo, isp)
}

func (p *DisasterAwareWithBlocking) admissionDecrease(topo *Topology, path Path, w Window, minLen int) int {
	total := 0
	for _, l := range path.Links() {
		for slot := w.Start; slot < w.End(); slot++ {
			total += topo.RunDecreaseAtSlot(l, slot, minLen)
		}
	}
	return total
}
