package eon

import (
	"container/heap"
	"errors"
	"math"
)

// ErrNodeNotFound is returned when a requested node does not exist in the graph.
var ErrNodeNotFound = errors.New("eon: node not found")

// ErrNoPath is returned when no path exists between two nodes.
var ErrNoPath = errors.New("eon: no path between nodes")

// shortestPath computes the shortest path from src to dst using Dijkstra's
// algorithm, optionally excluding a set of nodes and edges (used by Yen's
// algorithm to compute spur paths, and available to the caller for
// disaster-aware filtering).
func shortestPath(g *Graph, src, dst string, excludeNodes map[string]bool, excludeEdges map[[2]string]bool) ([]string, Cost, error) {
	if _, ok := g.Nodes[src]; !ok {
		return nil, 0, ErrNodeNotFound
	}
	if _, ok := g.Nodes[dst]; !ok {
		return nil, 0, ErrNodeNotFound
	}
	if src == dst {
		return []string{src}, 0, nil
	}

	dist := make(map[string]Cost, len(g.Nodes))
	prev := make(map[string]string, len(g.Nodes))
	for id := range g.Nodes {
		dist[id] = Cost(math.Inf(1))
	}
	dist[src] = 0

	pq := &pathQueue{}
	heap.Init(pq)
	heap.Push(pq, &pqItem{nodeID: src, cost: 0})

	for pq.Len() > 0 {
		item := heap.Pop(pq).(*pqItem)
		u := item.nodeID

		if u == dst {
			break
		}
		if item.cost > dist[u] {
			continue // stale entry
		}
		if excludeNodes[u] && u != src {
			continue
		}

		node := g.Nodes[u]
		for _, edge := range node.Edges {
			if excludeNodes[edge.To] {
				continue
			}
			if excludeEdges[edgeKey(u, edge.To)] {
				continue
			}
			alt := dist[u] + edge.Cost
			if alt < dist[edge.To] {
				dist[edge.To] = alt
				prev[edge.To] = u
				heap.Push(pq, &pqItem{nodeID: edge.To, cost: alt})
			}
		}
	}

	if math.IsInf(float64(dist[dst]), 1) {
		return nil, 0, ErrNoPath
	}

	path := []string{}
	for at := dst; ; at = prev[at] {
		path = append(path, at)
		if at == src {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, dist[dst], nil
}

func edgeKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}

// --- priority queue for Dijkstra ---

type pqItem struct {
	nodeID string
	cost   Cost
	index  int
}

type pathQueue []*pqItem

func (pq pathQueue) Len() int { return len(pq) }
func (pq pathQueue) Less(i, j int) bool {
	if pq[i].cost != pq[j].cost {
		return pq[i].cost < pq[j].cost
	}
	return pq[i].nodeID < pq[j].nodeID
}
func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}
func (pq *pathQueue) Push(x any) {
	item := x.(*pqItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}
func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}
