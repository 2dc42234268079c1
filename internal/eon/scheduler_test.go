package eon

import (
	"testing"
	"time"
)

func simpleScenario() *Scenario {
	return &Scenario{
		Nodes: []NodeSpec{{ID: "A", ISP: "isp1"}, {ID: "B", ISP: "isp1"}, {ID: "C", ISP: "isp1"}},
		Edges: []EdgeSpec{{A: "A", B: "B", Cost: 1}, {A: "B", B: "C", Cost: 1}, {A: "A", B: "C", Cost: 5}},
		Slots: 8,
		K:     3,
		ISPs: []ISPSpec{{
			ID:                  "isp1",
			DatacenterNode:      "A",
			ReactionDelay:       time.Minute,
			NormalPolicyID:      "first_fit",
			DisasterPolicyID:    "first_fit_da",
			MigrationSlotDemand: 2,
			MigrationDataVolume: 100,
			PerSlotThroughput:   10,
		}},
	}
}

func TestSchedulerAdmitsAndCompletesArrival(t *testing.T) {
	scn := simpleScenario()
	scn.Arrivals = []ArrivalSpec{
		{ID: "r1", Src: "A", Dst: "C", SlotDemand: 2, HoldingTime: 5 * time.Second, At: epoch(0)},
	}
	reg := NewRegistry()
	topo, isps, arrivals, err := scn.Build(reg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	sched := NewScheduler(topo, isps, nil)
	if err := sched.Run(arrivals); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if sched.Metrics.Accepted != 1 {
		t.Fatalf("Accepted = %d, want 1", sched.Metrics.Accepted)
	}
	if sched.Metrics.Completed != 1 {
		t.Fatalf("Completed = %d, want 1", sched.Metrics.Completed)
	}
	if arrivals[0].Status != StatusCompleted {
		t.Fatalf("request status = %v, want completed", arrivals[0].Status)
	}
	if sched.Metrics.ActiveAllocations != 0 {
		t.Fatalf("ActiveAllocations = %d, want 0 after departure", sched.Metrics.ActiveAllocations)
	}
}

func TestSchedulerBlocksWhenNoWindowAvailable(t *testing.T) {
	scn := simpleScenario()
	scn.Slots = 2
	// Only the A-B-C chain: without the A-C link there is no detour around
	// a saturated A-B link.
	scn.Edges = []EdgeSpec{{A: "A", B: "B", Cost: 1}, {A: "B", B: "C", Cost: 1}}
	scn.Arrivals = []ArrivalSpec{
		{ID: "r1", Src: "A", Dst: "B", SlotDemand: 2, HoldingTime: time.Hour, At: epoch(0)},
		{ID: "r2", Src: "A", Dst: "B", SlotDemand: 2, HoldingTime: time.Hour, At: epoch(1)},
	}
	reg := NewRegistry()
	topo, isps, arrivals, err := scn.Build(reg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	sched := NewScheduler(topo, isps, nil)
	if err := sched.Run(arrivals); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if arrivals[0].Status != StatusCompleted {
		t.Fatalf("r1 status = %v, want completed", arrivals[0].Status)
	}
	if arrivals[1].Status != StatusBlocked || arrivals[1].BlockReason != ReasonNoWindow {
		t.Fatalf("r2 status = %v/%v, want blocked/no_window", arrivals[1].Status, arrivals[1].BlockReason)
	}
}

func TestSchedulerDisasterReactionInjectsMigrationAndDisruptsPath(t *testing.T) {
	// A 4-node chain (A-B-C-D, plus a long A-D detour) with the
	// datacenter at A and the epicenter at A: the farthest member from
	// the epicenter is D, distinct from the datacenter node, so a
	// migration request is actually generated.
	scn := &Scenario{
		Nodes: []NodeSpec{{ID: "A", ISP: "isp1"}, {ID: "B", ISP: "isp1"}, {ID: "C", ISP: "isp1"}, {ID: "D", ISP: "isp1"}},
		Edges: []EdgeSpec{
			{A: "A", B: "B", Cost: 1}, {A: "B", B: "C", Cost: 1},
			{A: "C", B: "D", Cost: 1}, {A: "A", B: "D", Cost: 10},
		},
		Slots: 8,
		K:     3,
		ISPs: []ISPSpec{{
			ID:                  "isp1",
			DatacenterNode:      "A",
			ReactionDelay:       5 * time.Second,
			NormalPolicyID:      "first_fit",
			DisasterPolicyID:    "first_fit_da",
			MigrationSlotDemand: 2,
			MigrationDataVolume: 100,
			PerSlotThroughput:   10,
		}},
		Arrivals: []ArrivalSpec{
			{ID: "r1", Src: "A", Dst: "C", SlotDemand: 2, HoldingTime: time.Hour, At: epoch(0)},
		},
		Disaster: &DisasterSpec{
			Epicenter:    "A",
			Start:        epoch(1),
			End:          epoch(1000),
			LinkFailures: []LinkFailure{{Link: linkOf("A", "B"), At: epoch(2)}},
		},
	}

	reg := NewRegistry()
	topo, isps, arrivals, err := scn.Build(reg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	disaster := scn.BuildDisaster()
	sched := NewScheduler(topo, isps, disaster)
	if err := sched.Run(arrivals); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !isps["isp1"].Reacted {
		t.Fatal("expected isp1 to have reacted")
	}
	if sched.Metrics.AcceptedMigration == 0 && sched.Metrics.Blocked[ReasonNoSafePath] == 0 {
		t.Fatal("expected a migration request to have been routed (accepted or blocked), found neither")
	}

	switch arrivals[0].Status {
	case StatusCompleted:
		// r1's original path A-B-C used the failed link; either it
		// survived because the catalogue picked a different path up
		// front, or it was rerouted around the failure. Run drains every
		// departure, so a surviving request ends completed.
	case StatusBlocked:
		if arrivals[0].BlockReason != ReasonDisrupted {
			t.Fatalf("disrupted request has wrong reason: %v", arrivals[0].BlockReason)
		}
	default:
		t.Fatalf("unexpected r1 status after disaster: %v", arrivals[0].Status)
	}
}

func TestSchedulerRejectsArrivalWithZeroArrivalTime(t *testing.T) {
	scn := simpleScenario()
	scn.Arrivals = []ArrivalSpec{{ID: "r1", Src: "A", Dst: "B", SlotDemand: 1}}
	reg := NewRegistry()
	topo, isps, arrivals, err := scn.Build(reg)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	sched := NewScheduler(topo, isps, nil)
	if err := sched.Run(arrivals); err == nil {
		t.Fatal("expected configuration error for zero arrival time")
	}
}
