package eon

import (
	"sort"
	"time"
)

// LinkFailure is a scheduled (link, time) pair in a disaster's failure
// timeline.
type LinkFailure struct {
	Link Link
	At   time.Time
}

// NodeFailure is a scheduled (node, time) pair in a disaster's failure
// timeline.
type NodeFailure struct {
	Node string
	At   time.Time
}

// Disaster is the region-wide failure event described by spec §4.5: an
// epicenter, an ordered timeline of link and node failures, and a start/end
// window. The scheduler drives it forward one disaster_step event at a
// time via tick_to; each step applies every failure whose time has come
// and reports what changed so the caller can disrupt in-flight requests
// and notify affected ISPs.
type Disaster struct {
	Epicenter string
	Start     time.Time
	End       time.Time

	LinkFailures []LinkFailure
	NodeFailures []NodeFailure

	nextLink int
	nextNode int
}

// NewDisaster builds a Disaster with its failure lists sorted by time
// (stable, so same-timestamp entries keep their input order — a
// deterministic tie-break the scheduler relies on).
func NewDisaster(epicenter string, start, end time.Time, links []LinkFailure, nodes []NodeFailure) *Disaster {
	sortedLinks := append([]LinkFailure(nil), links...)
	sort.SliceStable(sortedLinks, func(i, j int) bool { return sortedLinks[i].At.Before(sortedLinks[j].At) })

	sortedNodes := append([]NodeFailure(nil), nodes...)
	sort.SliceStable(sortedNodes, func(i, j int) bool { return sortedNodes[i].At.Before(sortedNodes[j].At) })

	return &Disaster{
		Epicenter:    epicenter,
		Start:        start,
		End:          end,
		LinkFailures: sortedLinks,
		NodeFailures: sortedNodes,
	}
}

// NextFailureTime returns the time of the earliest not-yet-applied failure
// and true, or the zero time and false if the timeline is exhausted. The
// scheduler uses this to place the next disaster_step event.
func (d *Disaster) NextFailureTime() (time.Time, bool) {
	have := false
	var next time.Time
	if d.nextLink < len(d.LinkFailures) {
		next = d.LinkFailures[d.nextLink].At
		have = true
	}
	if d.nextNode < len(d.NodeFailures) {
		t := d.NodeFailures[d.nextNode].At
		if !have || t.Before(next) {
			next = t
			have = true
		}
	}
	return next, have
}

// TickTo applies every failure scheduled at or before now, mutating topo,
// and returns the set of links and nodes newly failed by this step.
func (d *Disaster) TickTo(now time.Time, topo *Topology) (links []Link, nodes []string) {
	for d.nextLink < len(d.LinkFailures) && !d.LinkFailures[d.nextLink].At.After(now) {
		f := d.LinkFailures[d.nextLink]
		topo.FailLink(f.Link.A, f.Link.B)
		links = append(links, f.Link)
		d.nextLink++
	}
	for d.nextNode < len(d.NodeFailures) && !d.NodeFailures[d.nextNode].At.After(now) {
		f := d.NodeFailures[d.nextNode]
		topo.FailNode(f.Node)
		nodes = append(nodes, f.Node)
		d.nextNode++
	}
	return links, nodes
}

// Done reports whether every scheduled failure has been applied.
func (d *Disaster) Done() bool {
	return d.nextLink >= len(d.LinkFailures) && d.nextNode >= len(d.NodeFailures)
}

// FarthestMemberFromEpicenter returns the member node with the greatest
// shortest-path distance (in edge cost) from the epicenter, used to pick
// the migration request's destination (spec §4.4). Unreachable members are
// treated as infinitely far — a disaster that has cut a member off from
// the epicenter entirely is exactly the case migration is meant to
// escape. Ties break on the lexicographically smallest node ID for
// determinism.
func (d *Disaster) FarthestMemberFromEpicenter(g *Graph, members map[string]bool) string {
	dist := distancesFrom(g, d.Epicenter)

	var unreachable []string
	reachableBest := ""
	reachableBestDist := Cost(0)
	haveReachable := false

	for id := range members {
		c, ok := dist[id]
		if !ok {
			unreachable = append(unreachable, id)
			continue
		}
		if !haveReachable || c > reachableBestDist || (c == reachableBestDist && id < reachableBest) {
			reachableBest = id
			reachableBestDist = c
			haveReachable = true
		}
	}

	// Unreachable members are infinitely far, so any one of them outranks
	// every reachable member; break ties among them lexicographically.
	if len(unreachable) > 0 {
		sort.Strings(unreachable)
		return unreachable[0]
	}
	return reachableBest
}

// distancesFrom runs an unconstrained Dijkstra from src over every node of
// g, returning the reachable set with shortest-path cost.
func distancesFrom(g *Graph, src string) map[string]Cost {
	dist := make(map[string]Cost)
	if _, ok := g.Nodes[src]; !ok {
		return dist
	}
	visited := make(map[string]bool)
	dist[src] = 0

	for {
		// pick the unvisited node with smallest known distance
		cur := ""
		curCost := Cost(0)
		for id, c := range dist {
			if visited[id] {
				continue
			}
			if cur == "" || c < curCost || (c == curCost && id < cur) {
				cur = id
				curCost = c
			}
		}
		if cur == "" {
			break
		}
		visited[cur] = true
		for _, e := range g.Nodes[cur].Edges {
			nd := curCost + e.Cost
			if existing, ok := dist[e.To]; !ok || nd < existing {
				dist[e.To] = nd
			}
		}
	}
	return dist
}
