package eon

import "testing"

func TestRegistryKnowsAllNinePolicies(t *testing.T) {
	r := NewRegistry()
	ids := []string{
		"first_fit", "best_fit", "sliding_window", "subnet",
		"first_fit_da", "best_fit_da", "best_fit_sw_da", "subnet_da",
		"da_with_blocking",
	}
	for _, id := range ids {
		if _, err := r.New(id, PolicyConfig{Slots: 8, NumISPs: 1}); err != nil {
			t.Errorf("New(%q) returned error: %v", id, err)
		}
	}
}

func TestRegistryUnknownPolicyIsConfigError(t *testing.T) {
	r := NewRegistry()
	_, err := r.New("nonexistent", PolicyConfig{})
	if err == nil {
		t.Fatal("expected error for unknown policy id")
	}
	if _, ok := err.(*ConfigError); !ok {
		t.Fatalf("err = %T, want *ConfigError", err)
	}
}

func TestFirstFitBlocksNoPath(t *testing.T) {
	topo, _ := twoNodeTopology(8)
	req := &Request{Src: "A", Dst: "nonexistent", SlotDemand: 2}
	out := (&FirstFit{}).Route(req, topo, &ISP{})
	if out.Accepted || out.Reason != ReasonNoPath {
		t.Fatalf("out = %+v, want blocked(no_path)", out)
	}
}

func TestFirstFitAcceptsAndBlocksWhenFull(t *testing.T) {
	topo, _ := twoNodeTopology(2)
	req := &Request{Src: "A", Dst: "B", SlotDemand: 2}
	isp := &ISP{}
	out := (&FirstFit{}).Route(req, topo, isp)
	if !out.Accepted {
		t.Fatalf("expected acceptance, got %+v", out)
	}

	req2 := &Request{Src: "A", Dst: "B", SlotDemand: 2}
	out2 := (&FirstFit{}).Route(req2, topo, isp)
	if out2.Accepted || out2.Reason != ReasonNoWindow {
		t.Fatalf("out2 = %+v, want blocked(no_window)", out2)
	}
}

func TestDisasterAwareFiltersUnsafePathsAfterReaction(t *testing.T) {
	g := NewGraph()
	for _, id := range []string{"A", "B", "C"} {
		g.AddNode(id)
	}
	g.AddEdge("A", "B", 1) // direct, will be failed
	g.AddEdge("A", "C", 1)
	g.AddEdge("C", "B", 1) // safe detour
	topo := NewTopology(g, 3, 8)

	isp := &ISP{Reacted: false}
	req := &Request{Src: "A", Dst: "B", SlotDemand: 1}

	policy := &FirstFitDisasterAware{}
	out := policy.Route(req, topo, isp)
	if !out.Accepted {
		t.Fatalf("expected acceptance before reaction, got %+v", out)
	}
	if err := topo.Release(out.Path, out.Window); err != nil {
		t.Fatalf("release failed: %v", err)
	}

	topo.FailLink("A", "B")
	isp.Reacted = true

	out2 := policy.Route(req, topo, isp)
	if !out2.Accepted {
		t.Fatalf("expected acceptance via detour after reaction, got %+v", out2)
	}
	if out2.Path.ContainsLink(linkOf("A", "B")) {
		t.Fatal("expected the failed link to be excluded from the chosen path")
	}
}

func TestDisasterAwareBlocksNoSafePath(t *testing.T) {
	g := NewGraph()
	g.AddNode("A")
	g.AddNode("B")
	g.AddEdge("A", "B", 1)
	topo := NewTopology(g, 3, 8)
	topo.FailLink("A", "B")

	isp := &ISP{Reacted: true}
	req := &Request{Src: "A", Dst: "B", SlotDemand: 1}
	out := (&FirstFitDisasterAware{}).Route(req, topo, isp)
	if out.Accepted || out.Reason != ReasonNoSafePath {
		t.Fatalf("out = %+v, want blocked(no_safe_path)", out)
	}
}

func TestSubnetAcceptsIntraISPRequestWithinZone(t *testing.T) {
	topo, _ := twoNodeTopology(8)
	sub := BuildPathCatalogue(topo.Graph, 1)

	r := NewRegistry()
	// two ISPs => zone 1 is [4,8)
	policy, err := r.New("subnet", PolicyConfig{
		Slots: 8, NumISPs: 2, ZoneIndex: 1,
		Subgraph: topo.Graph, SubgraphCatalogue: sub,
	})
	if err != nil {
		t.Fatalf("New(subnet) error: %v", err)
	}

	isp := &ISP{MemberNodes: map[string]bool{"A": true, "B": true}}
	req := &Request{Src: "A", Dst: "B", SlotDemand: 2}
	out := policy.Route(req, topo, isp)
	if !out.Accepted {
		t.Fatalf("expected acceptance for intra-ISP request, got %+v", out)
	}
	if out.Window.Start < 4 {
		t.Fatalf("window %v escaped the assigned zone [4,8)", out.Window)
	}
}

func TestSubnetDisasterAwareAcceptsIntraISPRequestWithinZone(t *testing.T) {
	topo, _ := twoNodeTopology(8)
	sub := BuildPathCatalogue(topo.Graph, 1)

	r := NewRegistry()
	policy, err := r.New("subnet_da", PolicyConfig{
		Slots: 8, NumISPs: 2, ZoneIndex: 1,
		Subgraph: topo.Graph, SubgraphCatalogue: sub,
	})
	if err != nil {
		t.Fatalf("New(subnet_da) error: %v", err)
	}

	isp := &ISP{MemberNodes: map[string]bool{"A": true, "B": true}}
	req := &Request{Src: "A", Dst: "B", SlotDemand: 2}
	out := policy.Route(req, topo, isp)
	if !out.Accepted {
		t.Fatalf("expected acceptance for intra-ISP request, got %+v", out)
	}
	if out.Window.Start < 4 {
		t.Fatalf("window %v escaped the assigned zone [4,8)", out.Window)
	}
}

func TestSlidingWindowConfinesToZone(t *testing.T) {
	topo, _ := twoNodeTopology(8)
	// two ISPs => zone 0 is [0,4), zone 1 is [4,8)
	sw := newSlidingWindow(8, 2, 1)
	if sw.ZoneStart != 4 || sw.ZoneEnd != 8 {
		t.Fatalf("zone = [%d,%d), want [4,8)", sw.ZoneStart, sw.ZoneEnd)
	}
	req := &Request{Src: "A", Dst: "B", SlotDemand: 2}
	out := sw.Route(req, topo, &ISP{})
	if !out.Accepted {
		t.Fatalf("expected acceptance, got %+v", out)
	}
	if out.Window.Start < 4 {
		t.Fatalf("window %v escaped the assigned zone", out.Window)
	}
}
