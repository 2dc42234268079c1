package eon

import (
	"sort"
	"strings"
)

// DefaultK is the default number of shortest paths cached per (src,dst) pair.
const DefaultK = 5

// PathCatalogue pre-computes and caches the K shortest simple paths for
// every (src,dst) pair in a graph. It is built once and never mutated —
// disaster-aware policies filter its paths at routing time instead of
// invalidating entries.
type PathCatalogue struct {
	K     int
	paths map[[2]string][]Path
}

// BuildPathCatalogue computes k_shortest for all O(|V|^2) ordered pairs.
func BuildPathCatalogue(g *Graph, k int) *PathCatalogue {
	if k <= 0 {
		k = DefaultK
	}
	pc := &PathCatalogue{K: k, paths: make(map[[2]string][]Path)}
	ids := g.NodeIDs()
	for _, src := range ids {
		for _, dst := range ids {
			if src == dst {
				continue
			}
			pc.paths[[2]string{src, dst}] = yenKShortest(g, src, dst, k)
		}
	}
	return pc
}

// Paths returns the cached, ascending-weight ordered list of paths for
// (src,dst). Empty if src == dst or the pair is disconnected.
func (pc *PathCatalogue) Paths(src, dst string) []Path {
	return pc.paths[[2]string{src, dst}]
}

// yenKShortest computes up to k loopless shortest paths from src to dst
// using Yen's algorithm with Dijkstra as the inner shortest-path routine.
// Ties on total weight are broken by lexicographic node-sequence order.
func yenKShortest(g *Graph, src, dst string, k int) []Path {
	firstNodes, firstCost, err := shortestPath(g, src, dst, nil, nil)
	if err != nil {
		return nil
	}
	A := []Path{{Nodes: firstNodes, Weight: firstCost}}
	var B []Path

	for len(A) < k {
		lastPath := A[len(A)-1].Nodes

		for i := 0; i < len(lastPath)-1; i++ {
			spurNode := lastPath[i]
			rootPath := append([]string(nil), lastPath[:i+1]...)

			excludeEdges := make(map[[2]string]bool)
			for _, p := range A {
				if len(p.Nodes) > i && pathsShareRoot(p.Nodes, rootPath) {
					excludeEdges[edgeKey(p.Nodes[i], p.Nodes[i+1])] = true
				}
			}

			excludeNodes := make(map[string]bool)
			for _, n := range rootPath[:len(rootPath)-1] {
				excludeNodes[n] = true
			}

			spurNodes, _, err := shortestPath(g, spurNode, dst, excludeNodes, excludeEdges)
			if err != nil {
				continue
			}

			totalNodes := append(append([]string(nil), rootPath[:len(rootPath)-1]...), spurNodes...)
			if hasDuplicateNode(totalNodes) {
				continue
			}
			candidate := Path{Nodes: totalNodes, Weight: pathWeight(g, totalNodes)}
			if containsPath(A, candidate) || containsPath(B, candidate) {
				continue
			}
			B = append(B, candidate)
		}

		if len(B) == 0 {
			break
		}

		sort.SliceStable(B, func(i, j int) bool {
			if B[i].Weight != B[j].Weight {
				return B[i].Weight < B[j].Weight
			}
			return strings.Join(B[i].Nodes, ",") < strings.Join(B[j].Nodes, ",")
		})

		A = append(A, B[0])
		B = B[1:]
	}

	sort.SliceStable(A, func(i, j int) bool {
		if A[i].Weight != A[j].Weight {
			return A[i].Weight < A[j].Weight
		}
		return strings.Join(A[i].Nodes, ",") < strings.Join(A[j].Nodes, ",")
	})
	return A
}

func pathsShareRoot(nodes, root []string) bool {
	if len(nodes) < len(root) {
		return false
	}
	for i, n := range root {
		if nodes[i] != n {
			return false
		}
	}
	return true
}

func hasDuplicateNode(nodes []string) bool {
	seen := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		if seen[n] {
			return true
		}
		seen[n] = true
	}
	return false
}

func containsPath(paths []Path, p Path) bool {
	target := strings.Join(p.Nodes, ",")
	for _, existing := range paths {
		if strings.Join(existing.Nodes, ",") == target {
			return true
		}
	}
	return false
}
