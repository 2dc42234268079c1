package eon

// Subnet routes requests whose src and dst both belong to the owning ISP
// within that ISP's induced subgraph and spectrum zone, first-fit.
// Cross-ISP requests fall through to plain FirstFit over the whole graph.
type Subnet struct {
	Subgraph     *Graph
	SubCatalogue *PathCatalogue
	ZoneStart    int
	ZoneEnd      int
}

func (p *Subnet) Route(req *Request, topo *Topology, isp *ISP) Outcome {
	if isp.ownsBoth(req.Src, req.Dst) && p.SubCatalogue != nil {
		paths := p.SubCatalogue.Paths(req.Src, req.Dst)
		if len(paths) > 0 {
			for _, path := range paths {
				win, ok := firstFitWindowInZone(topo, path, req.SlotDemand, p.ZoneStart, p.ZoneEnd)
				if ok && topo.TryAllocate(path, win) {
					return accepted(path, win)
				}
			}
			return blocked(ReasonNoWindow)
		}
	}
	return firstFitRoute(req, topo, topo.Paths(req.Src, req.Dst))
}

func (p *Subnet) Reroute(req *Request, topo *Topology, isp *ISP) Outcome {
	return p.Route(req, topo, isp)
}
