package eon

// SlidingWindow partitions the slot grid into fixed contiguous zones of
// size Z = S/numISPs and restricts routing for its owning ISP to that
// zone, using first-fit within it. Static spectrum isolation baseline.
type SlidingWindow struct {
	ZoneStart, ZoneEnd int // [ZoneStart, ZoneEnd) slot range
}

func newSlidingWindow(slots, numISPs, zoneIndex int) *SlidingWindow {
	start, end := zoneBounds(slots, numISPs, zoneIndex)
	return &SlidingWindow{ZoneStart: start, ZoneEnd: end}
}

func zoneBounds(slots, numISPs, zoneIndex int) (int, int) {
	if numISPs <= 0 {
		numISPs = 1
	}
	z := slots / numISPs
	if z <= 0 {
		z = slots
	}
	start := zoneIndex * z
	end := start + z
	if zoneIndex == numISPs-1 {
		end = slots // last zone absorbs any remainder
	}
	if end > slots {
		end = slots
	}
	return start, end
}

func (p *SlidingWindow) Route(req *Request, topo *Topology, isp *ISP) Outcome {
	paths := topo.Paths(req.Src, req.Dst)
	if len(paths) == 0 {
		return blocked(ReasonNoPath)
	}
	for _, path := range paths {
		win, ok := firstFitWindowInZone(topo, path, req.SlotDemand, p.ZoneStart, p.ZoneEnd)
		if !ok {
			continue
		}
		if topo.TryAllocate(path, win) {
			return accepted(path, win)
		}
	}
	return blocked(ReasonNoWindow)
}

func (p *SlidingWindow) Reroute(req *Request, topo *Topology, isp *ISP) Outcome {
	return p.Route(req, topo, isp)
}

func firstFitWindowInZone(topo *Topology, path Path, w, zoneStart, zoneEnd int) (Window, bool) {
	links := path.Links()
	for start := zoneStart; start+w <= zoneEnd; start++ {
		win := Window{Start: start, Width: w}
		if topo.tryPeek(links, win) {
			return win, true
		}
	}
	return Window{}, false
}

func bestFitWindowInZone(topo *Topology, path Path, w, zoneStart, zoneEnd int) (Window, bool) {
	links := path.Links()
	type candidate struct {
		start, score int
	}
	var tight, any []candidate
	for start := zoneStart; start+w <= zoneEnd; start++ {
		win := Window{Start: start, Width: w}
		if !topo.tryPeek(links, win) {
			continue
		}
		score := adjacentFreeRunScore(topo, links, win)
		any = append(any, candidate{start, score})
		if isTightWindow(topo, links, win, topo.Slots()) {
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
