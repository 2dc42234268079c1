package eon

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// NodeSpec describes one graph vertex and its ISP ownership.
type NodeSpec struct {
	ID  string
	ISP string
}

// EdgeSpec describes one undirected physical link.
type EdgeSpec struct {
	A, B string
	Cost Cost
}

// ISPSpec is the external (scenario-file) description of one ISP: its
// policy choices, reaction delay, and migration economics.
type ISPSpec struct {
	ID             string
	DatacenterNode string
	ReactionDelay  time.Duration

	NormalPolicyID   string
	DisasterPolicyID string

	MigrationSlotDemand int
	MigrationDataVolume float64
	PerSlotThroughput   float64

	AdmissionTheta int // only consulted when NormalPolicyID or DisasterPolicyID is "da_with_blocking"
}

// DisasterSpec is the external description of the disaster timeline.
type DisasterSpec struct {
	Epicenter    string
	Start        time.Time
	End          time.Time
	LinkFailures []LinkFailure
	NodeFailures []NodeFailure
}

// ArrivalSpec is one externally-specified datapath request arrival.
type ArrivalSpec struct {
	ID          string
	Src, Dst    string
	SlotDemand  int
	HoldingTime time.Duration
	At          time.Time
}

// Scenario is the complete external boundary of one simulation run: graph,
// slot count, path-catalogue width, ISPs, an optional disaster, and the
// arrival stream. Build validates it and assembles the runnable Topology,
// ISP set, and arrival []*Request Scheduler.Run expects.
type Scenario struct {
	Nodes []NodeSpec
	Edges []EdgeSpec
	Slots int
	K     int // path-catalogue width; 0 uses DefaultK

	ISPs     []ISPSpec
	Disaster *DisasterSpec

	Arrivals []ArrivalSpec
}

// Build validates the scenario and constructs the Topology, ISP set, and
// Request arrivals a Scheduler can run. Every failure is a *ConfigError —
// Build is always called before a single simulated clock tick elapses.
func (s *Scenario) Build(registry *Registry) (*Topology, map[string]*ISP, []*Request, error) {
	if len(s.Nodes) == 0 {
		return nil, nil, nil, configErrorf("scenario has no nodes", nil)
	}
	if s.Slots <= 0 {
		return nil, nil, nil, configErrorf("scenario slots must be positive", nil)
	}

	g := NewGraph()
	ownerOf := make(map[string]string, len(s.Nodes))
	for _, n := range s.Nodes {
		if n.ID == "" {
			return nil, nil, nil, configErrorf("node with empty ID", nil)
		}
		g.AddNode(n.ID)
		ownerOf[n.ID] = n.ISP
	}
	for _, e := range s.Edges {
		if !g.HasNode(e.A) || !g.HasNode(e.B) {
			return nil, nil, nil, configErrorf("edge references unknown node: "+e.A+"-"+e.B, nil)
		}
		if e.Cost <= 0 {
			return nil, nil, nil, configErrorf("edge cost must be positive: "+e.A+"-"+e.B, nil)
		}
		g.AddEdge(e.A, e.B, e.Cost)
	}

	topo := NewTopology(g, s.K, s.Slots)

	if len(s.ISPs) == 0 {
		return nil, nil, nil, configErrorf("scenario has no ISPs", nil)
	}
	ispIDs := make([]string, 0, len(s.ISPs))
	for _, spec := range s.ISPs {
		ispIDs = append(ispIDs, spec.ID)
	}
	sort.Strings(ispIDs)
	zoneIndex := make(map[string]int, len(ispIDs))
	for i, id := range ispIDs {
		zoneIndex[id] = i
	}

	isps := make(map[string]*ISP, len(s.ISPs))
	for _, spec := range s.ISPs {
		if spec.ID == "" {
			return nil, nil, nil, configErrorf("ISP with empty ID", nil)
		}
		if !g.HasNode(spec.DatacenterNode) {
			return nil, nil, nil, configErrorf("ISP "+spec.ID+" datacenter node unknown", nil)
		}

		members := make(map[string]bool)
		for id, owner := range ownerOf {
			if owner == spec.ID {
				members[id] = true
			}
		}
		if len(members) == 0 {
			return nil, nil, nil, configErrorf("ISP "+spec.ID+" owns no nodes", nil)
		}

		subgraph := inducedSubgraph(g, members)
		subCatalogue := BuildPathCatalogue(subgraph, s.K)

		cfg := PolicyConfig{
			Slots:             s.Slots,
			NumISPs:           len(ispIDs),
			ZoneIndex:         zoneIndex[spec.ID],
			Subgraph:          subgraph,
			SubgraphCatalogue: subCatalogue,
			AdmissionTheta:    spec.AdmissionTheta,
			MigrationDemand:   spec.MigrationSlotDemand,
		}

		normal, err := registry.New(spec.NormalPolicyID, cfg)
		if err != nil {
			return nil, nil, nil, err
		}
		disasterPolicy, err := registry.New(spec.DisasterPolicyID, cfg)
		if err != nil {
			return nil, nil, nil, err
		}

		isps[spec.ID] = &ISP{
			ID:                  spec.ID,
			MemberNodes:         members,
			DatacenterNode:      spec.DatacenterNode,
			ReactionDelay:       spec.ReactionDelay,
			NormalPolicy:        normal,
			DisasterPolicy:      disasterPolicy,
			ActivePolicy:        normal,
			MigrationSlotDemand: spec.MigrationSlotDemand,
			MigrationDataVolume: spec.MigrationDataVolume,
			PerSlotThroughput:   spec.PerSlotThroughput,
		}
	}

	arrivals := make([]*Request, 0, len(s.Arrivals))
	for _, a := range s.Arrivals {
		if !g.HasNode(a.Src) || !g.HasNode(a.Dst) {
			return nil, nil, nil, configErrorf("arrival "+a.ID+" references unknown node", nil)
		}
		id := a.ID
		if id == "" {
			// Synthetic/generated scenarios may omit arrival IDs; the
			// scheduler only needs them to be unique, not deterministic,
			// since tie-breaking runs on (time, eventKind, seq).
			id = uuid.New().String()
		}
		arrivals = append(arrivals, &Request{
			ID:          id,
			Src:         a.Src,
			Dst:         a.Dst,
			SlotDemand:  a.SlotDemand,
			HoldingTime: a.HoldingTime,
			Class:       ClassDatapath,
			Status:      StatusPending,
			ArrivalAt:   a.At,
		})
	}

	return topo, isps, arrivals, nil
}

// BuildDisaster constructs the Disaster described by the scenario, or nil
// if none is configured. Split from Build so callers that only need the
// static topology (e.g. a catalogue-size report) can skip it.
func (s *Scenario) BuildDisaster() *Disaster {
	if s.Disaster == nil {
		return nil
	}
	return NewDisaster(s.Disaster.Epicenter, s.Disaster.Start, s.Disaster.End, s.Disaster.LinkFailures, s.Disaster.NodeFailures)
}

// inducedSubgraph returns the subgraph containing exactly the given nodes
// and the edges of g with both endpoints among them.
func inducedSubgraph(g *Graph, nodes map[string]bool) *Graph {
	sub := NewGraph()
	for id := range nodes {
		sub.AddNode(id)
	}
	for id := range nodes {
		for _, e := range g.Nodes[id].Edges {
			if nodes[e.To] {
				sub.AddEdge(id, e.To, e.Cost)
			}
		}
	}
	return sub
}
