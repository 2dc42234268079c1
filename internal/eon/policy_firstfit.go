package eon

// FirstFit enumerates catalogue paths shortest-first; for each it scans
// slot indices ascending and returns the first window where an allocation
// succeeds. Blocks if no path yields any window. This is the baseline
// deterministic policy.
type FirstFit struct{}

func (p *FirstFit) Route(req *Request, topo *Topology, isp *ISP) Outcome {
	return firstFitRoute(req, topo, topo.Paths(req.Src, req.Dst))
}

func (p *FirstFit) Reroute(req *Request, topo *Topology, isp *ISP) Outcome {
	return p.Route(req, topo, isp)
}

func firstFitRoute(req *Request, topo *Topology, paths []Path) Outcome {
	if len(paths) == 0 {
		return blocked(ReasonNoPath)
	}
	for _, path := range paths {
		win, ok := firstFitWindow(topo, path, req.SlotDemand)
		if !ok {
			continue
		}
		if topo.TryAllocate(path, win) {
			return accepted(path, win)
		}
	}
	return blocked(ReasonNoWindow)
}

// BestFit uses the same path order as FirstFit, but per path chooses the
// tightest-fitting window (spec §4.3).
type BestFit struct{}

func (p *BestFit) Route(req *Request, topo *Topology, isp *ISP) Outcome {
	return bestFitRoute(req, topo, topo.Paths(req.Src, req.Dst))
}

func (p *BestFit) Reroute(req *Request, topo *Topology, isp *ISP) Outcome {
	return p.Route(req, topo, isp)
}

func bestFitRoute(req *Request, topo *Topology, paths []Path) Outcome {
	if len(paths) == 0 {
		return blocked(ReasonNoPath)
	}
	for _, path := range paths {
		win, ok := bestFitWindow(topo, path, req.SlotDemand)
		if !ok {
			continue
		}
		if topo.TryAllocate(path, win) {
			return accepted(path, win)
		}
	}
	return blocked(ReasonNoWindow)
}
