package eon

import (
	"path/filepath"
	"testing"
	"time"
)

func TestFileScenarioStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenario.json")
	store := NewFileScenarioStore(path)

	orig := &Scenario{
		Nodes: []NodeSpec{{ID: "A", ISP: "isp1"}, {ID: "B", ISP: "isp1"}},
		Edges: []EdgeSpec{{A: "A", B: "B", Cost: 3}},
		Slots: 16,
		K:     4,
		ISPs: []ISPSpec{{
			ID: "isp1", DatacenterNode: "A", ReactionDelay: 90 * time.Second,
			NormalPolicyID: "first_fit", DisasterPolicyID: "first_fit_da",
			MigrationSlotDemand: 4, MigrationDataVolume: 1e9, PerSlotThroughput: 1e6,
			AdmissionTheta: 3,
		}},
		Disaster: &DisasterSpec{
			Epicenter:    "A",
			Start:        epoch(10),
			End:          epoch(500),
			LinkFailures: []LinkFailure{{Link: linkOf("A", "B"), At: epoch(20)}},
			NodeFailures: []NodeFailure{{Node: "B", At: epoch(30)}},
		},
		Arrivals: []ArrivalSpec{{ID: "r1", Src: "A", Dst: "B", SlotDemand: 2, HoldingTime: 45 * time.Second, At: epoch(0)}},
	}

	if err := store.Save(orig); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.Slots != 16 || got.K != 4 {
		t.Fatalf("Slots/K = %d/%d, want 16/4", got.Slots, got.K)
	}
	if len(got.Nodes) != 2 || len(got.Edges) != 1 || len(got.ISPs) != 1 || len(got.Arrivals) != 1 {
		t.Fatalf("unexpected shape: %+v", got)
	}
	if got.Disaster == nil || got.Disaster.Epicenter != "A" || len(got.Disaster.LinkFailures) != 1 {
		t.Fatalf("disaster round-trip mismatch: %+v", got.Disaster)
	}
	if got.ISPs[0].ReactionDelay != 90*time.Second {
		t.Fatalf("ReactionDelay = %v, want 90s", got.ISPs[0].ReactionDelay)
	}
	if got.ISPs[0].AdmissionTheta != 3 {
		t.Fatalf("AdmissionTheta = %d, want 3", got.ISPs[0].AdmissionTheta)
	}
}

func TestFileScenarioStoreLoadMissingFile(t *testing.T) {
	store := NewFileScenarioStore(filepath.Join(t.TempDir(), "missing.json"))
	got, err := store.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatal("expected nil scenario for missing file")
	}
}
