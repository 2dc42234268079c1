package eon

import (
	"container/heap"
	"fmt"
	"time"
)

// eventKind orders same-timestamp events. Lower values run first: a
// disaster's own failures are applied before the ISPs that watch it react,
// before any natural departure, before any fresh arrival (spec §4.6 /
// §8.1's "simultaneous event" ordering invariant).
type eventKind int

const (
	kindDisasterStep eventKind = iota
	kindISPReaction
	kindDeparture
	kindArrival
)

type event struct {
	at   time.Time
	kind eventKind
	seq  int // tie-break counter: within the same (at, kind), FIFO by insertion

	req   *Request // arrival, departure
	ispID string   // isp_reaction
}

type eventHeap []*event

func (h eventHeap) Len() int { return len(h) }
func (h eventHeap) Less(i, j int) bool {
	if !h[i].at.Equal(h[j].at) {
		return h[i].at.Before(h[j].at)
	}
	if h[i].kind != h[j].kind {
		return h[i].kind < h[j].kind
	}
	return h[i].seq < h[j].seq
}
func (h eventHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *eventHeap) Push(x any)   { *h = append(*h, x.(*event)) }
func (h *eventHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return item
}

// Scheduler is the single-goroutine discrete-event engine (spec §5): it
// owns the event heap, the topology, the ISP set, an optional disaster
// timeline, and the metrics accumulator, and drives them forward strictly
// in (time, kind, insertion sequence) order with no concurrent access of
// any kind.
type Scheduler struct {
	Topology *Topology
	Disaster *Disaster
	ISPs     map[string]*ISP
	Metrics  *Metrics
	Index    *ResourceIndex

	events eventHeap
	seq    int
	now    time.Time

	active      map[string]*Request // requests currently holding an allocation
	arrivalSeq  int
	migrationNo int
}

// NewScheduler wires a Scheduler around an already-built Topology and ISP
// set. disaster may be nil for a baseline (no-failure) run.
func NewScheduler(topo *Topology, isps map[string]*ISP, disaster *Disaster) *Scheduler {
	return &Scheduler{
		Topology: topo,
		Disaster: disaster,
		ISPs:     isps,
		Metrics:  NewMetrics(),
		Index:    NewResourceIndex(),
		active:   make(map[string]*Request),
	}
}

func (s *Scheduler) push(ev *event) {
	ev.seq = s.seq
	s.seq++
	heap.Push(&s.events, ev)
}

// Run drains arrivals (and, if a disaster is configured, its failure and
// ISP-reaction timeline) to completion, returning a fatal error only on a
// violated runtime invariant (spec §7); ordinary blocking is never an
// error.
func (s *Scheduler) Run(arrivals []*Request) error {
	heap.Init(&s.events)

	for _, req := range arrivals {
		if req.ArrivalOrder == 0 {
			s.arrivalSeq++
			req.ArrivalOrder = s.arrivalSeq
		} else if req.ArrivalOrder > s.arrivalSeq {
			s.arrivalSeq = req.ArrivalOrder
		}
		at := req.ArrivalAt
		if at.IsZero() {
			return configErrorf(fmt.Sprintf("request %s has no arrival time", req.ID), nil)
		}
		s.push(&event{at: at, kind: kindArrival, req: req})
	}

	if s.Disaster != nil {
		s.push(&event{at: s.Disaster.Start, kind: kindDisasterStep})
		for _, isp := range s.ISPs {
			s.push(&event{at: s.Disaster.Start.Add(isp.ReactionDelay), kind: kindISPReaction, ispID: isp.ID})
		}
	}

	for s.events.Len() > 0 {
		ev := heap.Pop(&s.events).(*event)
		s.now = ev.at

		var err error
		switch ev.kind {
		case kindArrival:
			err = s.handleArrival(ev.req)
		case kindDeparture:
			err = s.handleDeparture(ev.req)
		case kindDisasterStep:
			err = s.handleDisasterStep()
		case kindISPReaction:
			err = s.handleISPReaction(ev.ispID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) ispForNode(node string) *ISP {
	for _, isp := range s.ISPs {
		if isp.MemberNodes[node] {
			return isp
		}
	}
	return nil
}

func (s *Scheduler) handleArrival(req *Request) error {
	if req.OwningISP == "" {
		if isp := s.ispForNode(req.Src); isp != nil {
			req.OwningISP = isp.ID
		}
	}
	isp, ok := s.ISPs[req.OwningISP]
	if !ok {
		return invariantf("arrival %s: source %s owned by no ISP", req.ID, req.Src)
	}

	out := isp.OnRequest(req, s.Topology)
	s.Metrics.RecordArrivalOutcome(req, out)

	if !out.Accepted {
		req.Status = StatusBlocked
		req.BlockReason = out.Reason
		return nil
	}

	req.Status = StatusActive
	req.Path = out.Path
	req.Window = out.Window
	req.AdmittedAt = s.now
	s.Index.Register(req.ID, req.Path)
	s.active[req.ID] = req
	s.push(&event{at: s.now.Add(req.HoldingTime), kind: kindDeparture, req: req})
	return nil
}

func (s *Scheduler) handleDeparture(req *Request) error {
	if _, holding := s.active[req.ID]; !holding {
		return nil // disrupted or blocked before its natural departure
	}
	if err := s.Topology.Release(req.Path, req.Window); err != nil {
		return err
	}
	s.Index.Deregister(req.ID, req.Path)
	delete(s.active, req.ID)
	req.Status = StatusCompleted
	req.ReleasedAt = s.now
	s.Metrics.RecordDeparture()
	return nil
}

func (s *Scheduler) handleDisasterStep() error {
	links, nodes := s.Disaster.TickTo(s.now, s.Topology)

	affected := make(map[string]bool)
	for _, l := range links {
		for _, id := range s.Index.RequestsCrossingLink(l) {
			affected[id] = true
		}
	}
	for _, v := range nodes {
		for _, id := range s.Index.RequestsCrossingNode(v) {
			affected[id] = true
		}
	}

	ordered := make([]*Request, 0, len(affected))
	for id := range affected {
		if req, ok := s.active[id]; ok {
			ordered = append(ordered, req)
		}
	}
	sortRequestsByArrivalOrder(ordered)

	for _, req := range ordered {
		if err := s.Topology.Release(req.Path, req.Window); err != nil {
			return err
		}
		s.Index.Deregister(req.ID, req.Path)

		isp, ok := s.ISPs[req.OwningISP]
		if !ok {
			return invariantf("disrupted request %s: unknown owning ISP %s", req.ID, req.OwningISP)
		}
		out := isp.OnDisrupted(req, s.Topology)
		s.Metrics.RecordDisruptionOutcome(out)

		if out.Accepted {
			s.Index.Register(req.ID, req.Path)
			continue
		}
		delete(s.active, req.ID)
	}

	if !s.Disaster.Done() {
		if next, ok := s.Disaster.NextFailureTime(); ok {
			s.push(&event{at: next, kind: kindDisasterStep})
		}
	}
	return nil
}

func (s *Scheduler) handleISPReaction(ispID string) error {
	isp, ok := s.ISPs[ispID]
	if !ok {
		return invariantf("isp_reaction for unknown ISP %s", ispID)
	}
	req := isp.OnReaction(s.now, s.Topology, s.Disaster)
	if req == nil {
		return nil
	}

	s.migrationNo++
	req.ID = fmt.Sprintf("migration-%s-%d", isp.ID, s.migrationNo)
	s.arrivalSeq++
	req.ArrivalOrder = s.arrivalSeq
	req.ArrivalAt = s.now
	s.push(&event{at: s.now, kind: kindArrival, req: req})
	return nil
}

// sortRequestsByArrivalOrder orders requests by ascending arrival time,
// breaking ties on ArrivalOrder.
func sortRequestsByArrivalOrder(reqs []*Request) {
	before := func(a, b *Request) bool {
		if !a.ArrivalAt.Equal(b.ArrivalAt) {
			return a.ArrivalAt.Before(b.ArrivalAt)
		}
		return a.ArrivalOrder < b.ArrivalOrder
	}
	for i := 1; i < len(reqs); i++ {
		for j := i; j > 0 && before(reqs[j], reqs[j-1]); j-- {
			reqs[j], reqs[j-1] = reqs[j-1], reqs[j]
		}
	}
}
