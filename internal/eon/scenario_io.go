package eon

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ScenarioStore persists and restores Scenario definitions. Implementations
// can target files, object storage, etc. — the simulator only depends on
// this interface, not on any one backing (spec §6).
type ScenarioStore interface {
	Save(s *Scenario) error
	Load() (*Scenario, error)
}

// FileScenarioStore persists a Scenario as a JSON file on disk, using the
// same atomic write-then-rename pattern as the teacher's topology file
// store (internal/topology.FileStore.Save) so a crash mid-write never
// leaves a corrupt scenario file in place.
type FileScenarioStore struct {
	Path string
}

// NewFileScenarioStore creates a FileScenarioStore rooted at path.
func NewFileScenarioStore(path string) *FileScenarioStore {
	return &FileScenarioStore{Path: path}
}

type persistScenario struct {
	Nodes []persistNode `json:"nodes"`
	Edges []persistEdge `json:"edges"`
	Slots int           `json:"slots"`
	K     int           `json:"k,omitempty"`

	ISPs     []persistISP     `json:"isps"`
	Disaster *persistDisaster `json:"disaster,omitempty"`
	Arrivals []persistArrival `json:"arrivals"`
}

type persistNode struct {
	ID  string `json:"id"`
	ISP string `json:"isp"`
}

type persistEdge struct {
	A    string  `json:"a"`
	B    string  `json:"b"`
	Cost float64 `json:"cost"`
}

type persistISP struct {
	ID                  string  `json:"id"`
	DatacenterNode      string  `json:"datacenter_node"`
	ReactionDelaySec    float64 `json:"reaction_delay_sec"`
	NormalPolicyID      string  `json:"normal_policy"`
	DisasterPolicyID    string  `json:"disaster_policy"`
	MigrationSlotDemand int     `json:"migration_slot_demand"`
	MigrationDataVolume float64 `json:"migration_data_volume"`
	PerSlotThroughput   float64 `json:"per_slot_throughput"`
	AdmissionTheta      int     `json:"admission_theta,omitempty"`
}

type persistDisaster struct {
	Epicenter    string               `json:"epicenter"`
	Start        time.Time            `json:"start"`
	End          time.Time            `json:"end"`
	LinkFailures []persistLinkFailure `json:"link_failures"`
	NodeFailures []persistNodeFailure `json:"node_failures"`
}

type persistLinkFailure struct {
	A  string    `json:"a"`
	B  string    `json:"b"`
	At time.Time `json:"at"`
}

type persistNodeFailure struct {
	Node string    `json:"node"`
	At   time.Time `json:"at"`
}

type persistArrival struct {
	ID             string    `json:"id"`
	Src            string    `json:"src"`
	Dst            string    `json:"dst"`
	SlotDemand     int       `json:"slot_demand"`
	HoldingTimeSec float64   `json:"holding_time_sec"`
	At             time.Time `json:"at"`
}

// Save writes s to the JSON file atomically (write-then-rename).
func (fs *FileScenarioStore) Save(s *Scenario) error {
	ps := persistScenario{
		Slots: s.Slots,
		K:     s.K,
	}
	for _, n := range s.Nodes {
		ps.Nodes = append(ps.Nodes, persistNode{ID: n.ID, ISP: n.ISP})
	}
	for _, e := range s.Edges {
		ps.Edges = append(ps.Edges, persistEdge{A: e.A, B: e.B, Cost: float64(e.Cost)})
	}
	for _, isp := range s.ISPs {
		ps.ISPs = append(ps.ISPs, persistISP{
			ID:                  isp.ID,
			DatacenterNode:      isp.DatacenterNode,
			ReactionDelaySec:    isp.ReactionDelay.Seconds(),
			NormalPolicyID:      isp.NormalPolicyID,
			DisasterPolicyID:    isp.DisasterPolicyID,
			MigrationSlotDemand: isp.MigrationSlotDemand,
			MigrationDataVolume: isp.MigrationDataVolume,
			PerSlotThroughput:   isp.PerSlotThroughput,
			AdmissionTheta:      isp.AdmissionTheta,
		})
	}
	if s.Disaster != nil {
		pd := &persistDisaster{
			Epicenter: s.Disaster.Epicenter,
			Start:     s.Disaster.Start,
			End:       s.Disaster.End,
		}
		for _, lf := range s.Disaster.LinkFailures {
			pd.LinkFailures = append(pd.LinkFailures, persistLinkFailure{A: lf.Link.A, B: lf.Link.B, At: lf.At})
		}
		for _, nf := range s.Disaster.NodeFailures {
			pd.NodeFailures = append(pd.NodeFailures, persistNodeFailure{Node: nf.Node, At: nf.At})
		}
		ps.Disaster = pd
	}
	for _, a := range s.Arrivals {
		ps.Arrivals = append(ps.Arrivals, persistArrival{
			ID:             a.ID,
			Src:            a.Src,
			Dst:            a.Dst,
			SlotDemand:     a.SlotDemand,
			HoldingTimeSec: a.HoldingTime.Seconds(),
			At:             a.At,
		})
	}

	data, err := json.MarshalIndent(ps, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal scenario: %w", err)
	}

	dir := filepath.Dir(fs.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir %s: %w", dir, err)
	}

	tmp := fs.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, fs.Path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads a Scenario from the JSON file. Returns (nil, nil) if the file
// does not exist.
func (fs *FileScenarioStore) Load() (*Scenario, error) {
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var ps persistScenario
	if err := json.Unmarshal(data, &ps); err != nil {
		return nil, fmt.Errorf("unmarshal scenario: %w", err)
	}

	s := &Scenario{Slots: ps.Slots, K: ps.K}
	for _, n := range ps.Nodes {
		s.Nodes = append(s.Nodes, NodeSpec{ID: n.ID, ISP: n.ISP})
	}
	for _, e := range ps.Edges {
		s.Edges = append(s.Edges, EdgeSpec{A: e.A, B: e.B, Cost: Cost(e.Cost)})
	}
	for _, isp := range ps.ISPs {
		s.ISPs = append(s.ISPs, ISPSpec{
			ID:                  isp.ID,
			DatacenterNode:      isp.DatacenterNode,
			ReactionDelay:       time.Duration(isp.ReactionDelaySec * float64(time.Second)),
			NormalPolicyID:      isp.NormalPolicyID,
			DisasterPolicyID:    isp.DisasterPolicyID,
			MigrationSlotDemand: isp.MigrationSlotDemand,
			MigrationDataVolume: isp.MigrationDataVolume,
			PerSlotThroughput:   isp.PerSlotThroughput,
			AdmissionTheta:      isp.AdmissionTheta,
		})
	}
	if ps.Disaster != nil {
		ds := &DisasterSpec{
			Epicenter: ps.Disaster.Epicenter,
			Start:     ps.Disaster.Start,
			End:       ps.Disaster.End,
		}
		for _, lf := range ps.Disaster.LinkFailures {
			ds.LinkFailures = append(ds.LinkFailures, LinkFailure{Link: linkOf(lf.A, lf.B), At: lf.At})
		}
		for _, nf := range ps.Disaster.NodeFailures {
			ds.NodeFailures = append(ds.NodeFailures, NodeFailure{Node: nf.Node, At: nf.At})
		}
		s.Disaster = ds
	}
	for _, a := range ps.Arrivals {
		s.Arrivals = append(s.Arrivals, ArrivalSpec{
			ID:          a.ID,
			Src:         a.Src,
			Dst:         a.Dst,
			SlotDemand:  a.SlotDemand,
			HoldingTime: time.Duration(a.HoldingTimeSec * float64(time.Second)),
			At:          a.At,
		})
	}
	return s, nil
}
