package eon

import "time"

// ISP owns a routing-policy pair and a datacenter migration driver. Member
// nodes of distinct ISPs are disjoint; every graph vertex belongs to
// exactly one ISP.
type ISP struct {
	ID             string
	MemberNodes    map[string]bool
	DatacenterNode string
	ReactionDelay  time.Duration

	NormalPolicy   RoutingPolicy
	DisasterPolicy RoutingPolicy
	ActivePolicy   RoutingPolicy

	MigrationSlotDemand int
	MigrationDataVolume float64 // bytes
	PerSlotThroughput   float64 // bytes/sec, used to derive migration holding time

	// Reacted is true once the ISP has switched to its disaster policy.
	// Monotonic within a run: once true, never reverts (spec §4.4, §8.7).
	Reacted bool

	MigrationRequestID string
}

// ownsBoth reports whether both endpoints belong to this ISP.
func (isp *ISP) ownsBoth(src, dst string) bool {
	return isp.MemberNodes[src] && isp.MemberNodes[dst]
}

// OnRequest is called by the scheduler for requests whose src belongs to
// this ISP; it delegates to the currently active policy.
func (isp *ISP) OnRequest(req *Request, topo *Topology) Outcome {
	return isp.ActivePolicy.Route(req, topo, isp)
}

// OnReaction fires at t0 + ReactionDelay. It switches ActivePolicy from
// NormalPolicy to DisasterPolicy and builds the migration request
// (src = DatacenterNode, dst = the member node farthest from the
// epicenter, w = MigrationSlotDemand, class = migration). It does not
// enqueue the request itself — the caller (Scheduler, driven by Disaster)
// injects it as an immediate arrival so the scheduler's event-ordering
// contract stays in one place.
func (isp *ISP) OnReaction(now time.Time, topo *Topology, d *Disaster) *Request {
	isp.Reacted = true
	isp.ActivePolicy = isp.DisasterPolicy

	dst := d.FarthestMemberFromEpicenter(topo.Graph, isp.MemberNodes)
	if dst == "" || dst == isp.DatacenterNode {
		return nil
	}

	holding := time.Duration(0)
	if isp.PerSlotThroughput > 0 {
		seconds := isp.MigrationDataVolume / isp.PerSlotThroughput
		holding = time.Duration(seconds * float64(time.Second))
	}

	req := &Request{
		Src:         isp.DatacenterNode,
		Dst:         dst,
		SlotDemand:  isp.MigrationSlotDemand,
		HoldingTime: holding,
		Class:       ClassMigration,
		OwningISP:   isp.ID,
		Status:      StatusPending,
	}
	return req
}

// OnDisrupted is called by the Scheduler's disaster step when an active
// request's path loses a resource. The caller has already released the old allocation. Re-routing
// success upgrades the request to "rerouted"; failure downgrades it to
// "disrupted" (a blocking subtype) — never an error.
func (isp *ISP) OnDisrupted(req *Request, topo *Topology) Outcome {
	out := isp.ActivePolicy.Reroute(req, topo, isp)
	if out.Accepted {
		req.Status = StatusRerouted
		req.Path = out.Path
		req.Window = out.Window
	} else {
		req.Status = StatusBlocked
		req.BlockReason = ReasonDisrupted
	}
	return out
}
