package eon

// usablePaths filters paths to those whose nodes and links are all
// outside the disaster's announced failure set as observed in topo at the
// current point in simulated time (failures are applied to topo strictly
// before any routing decision at the same or later timestamp — see the
// Scheduler's event-priority ordering — so topo.IsUsable already reflects
// exactly the announced-by-now failure set).
func usablePaths(topo *Topology, paths []Path) []Path {
	out := make([]Path, 0, len(paths))
	for _, p := range paths {
		if topo.IsUsable(p) {
			out = append(out, p)
		}
	}
	return out
}

// FirstFitDisasterAware behaves as FirstFit before its ISP's reaction
// event. After reaction it filters the catalogue to safe paths and blocks
// with no_safe_path if none remain.
type FirstFitDisasterAware struct{}

func (p *FirstFitDisasterAware) Route(req *Request, topo *Topology, isp *ISP) Outcome {
	paths := topo.Paths(req.Src, req.Dst)
	if !isp.Reacted {
		return firstFitRoute(req, topo, paths)
	}
	safe := usablePaths(topo, paths)
	if len(safe) == 0 {
		return blocked(ReasonNoSafePath)
	}
	return firstFitRoute(req, topo, safe)
}

func (p *FirstFitDisasterAware) Reroute(req *Request, topo *Topology, isp *ISP) Outcome {
	return p.Route(req, topo, isp)
}

// BestFitDisasterAware is FirstFitDisasterAware's path filtering combined
// with best-fit window selection on the filtered paths.
type BestFitDisasterAware struct{}

func (p *BestFitDisasterAware) Route(req *Request, topo *Topology, isp *ISP) Outcome {
	paths := topo.Paths(req.Src, req.Dst)
	if !isp.Reacted {
		return bestFitRoute(req, topo, paths)
	}
	safe := usablePaths(topo, paths)
	if len(safe) == 0 {
		return blocked(ReasonNoSafePath)
	}
	return bestFitRoute(req, topo, safe)
}

func (p *BestFitDisasterAware) Reroute(req *Request, topo *Topology, isp *ISP) Outcome {
	return p.Route(req, topo, isp)
}

// BestFitSlidingWindowDisasterAware filters paths by disaster awareness
// AND restricts to the ISP's spectrum zone; best-fit within the zone.
type BestFitSlidingWindowDisasterAware struct {
	ZoneStart, ZoneEnd int
}

func newBestFitSlidingWindowDisasterAware(slots, numISPs, zoneIndex int) *BestFitSlidingWindowDisasterAware {
	start, end := zoneBounds(slots, numISPs, zoneIndex)
	return &BestFitSlidingWindowDisasterAware{ZoneStart: start, ZoneEnd: end}
}

func (p *BestFitSlidingWindowDisasterAware) Route(req *Request, topo *Topology, isp *ISP) Outcome {
	paths := topo.Paths(req.Src, req.Dst)
	if isp.Reacted {
		paths = usablePaths(topo, paths)
		if len(paths) == 0 {
			return blocked(ReasonNoSafePath)
		}
	}
	if len(paths) == 0 {
		return blocked(ReasonNoPath)
	}
	for _, path := range paths {
		win, ok := bestFitWindowInZone(topo, path, req.SlotDemand, p.ZoneStart, p.ZoneEnd)
		if ok && topo.TryAllocate(path, win) {
			return accepted(path, win)
		}
	}
	return blocked(ReasonNoWindow)
}

func (p *BestFitSlidingWindowDisasterAware) Reroute(req *Request, topo *Topology, isp *ISP) Outcome {
	return p.Route(req, topo, isp)
}

// SubnetDisasterAware restricts to the ISP's subgraph + zone + disaster
// filtering; cross-ISP requests use FirstFitDisasterAware.
type SubnetDisasterAware struct {
	Subgraph     *Graph
	SubCatalogue *PathCatalogue
	ZoneStart    int
	ZoneEnd      int
}

func (p *SubnetDisasterAware) Route(req *Request, topo *Topology, isp *ISP) Outcome {
	if isp.ownsBoth(req.Src, req.Dst) && p.SubCatalogue != nil {
		paths := p.SubCatalogue.Paths(req.Src, req.Dst)
		if isp.Reacted {
			paths = usablePaths(topo, paths)
			if len(paths) == 0 {
				return blocked(ReasonNoSafePath)
			}
		}
		if len(paths) == 0 {
			return blocked(ReasonNoWindow)
		}
		for _, path := range paths {
			win, ok := firstFitWindowInZone(topo, path, req.SlotDemand, p.ZoneStart, p.ZoneEnd)
			if ok && topo.TryAllocate(path, win) {
				return accepted(path, win)
			}
		}
		return blocked(ReasonNoWindow)
	}
	fallback := &FirstFitDisasterAware{}
	return fallback.Route(req, topo, isp)
}

func (p *SubnetDisasterAware) Reroute(req *Request, topo *Topology, isp *ISP) Outcome {
	return p.Route(req, topo, isp)
}
