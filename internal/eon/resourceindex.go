package eon

// ResourceIndex is a reverse index from a failure-capable resource (link or
// node) to the IDs of active requests currently crossing it. It lets the
// Scheduler's disaster step find affected requests in roughly O(1) instead of
// scanning every active request on every failure, the same shape as the
// teacher's TTL-less announce-table registry (internal/sdn.announceTable),
// generalized from "broadcast path -> relays" to "resource -> requests".
type ResourceIndex struct {
	byLink map[Link]map[string]bool
	byNode map[string]map[string]bool
}

// NewResourceIndex creates an empty index.
func NewResourceIndex() *ResourceIndex {
	return &ResourceIndex{
		byLink: make(map[Link]map[string]bool),
		byNode: make(map[string]map[string]bool),
	}
}

// Register records that requestID's allocation crosses every link and node
// of path.
func (idx *ResourceIndex) Register(requestID string, path Path) {
	for _, l := range path.Links() {
		set, ok := idx.byLink[l]
		if !ok {
			set = make(map[string]bool)
			idx.byLink[l] = set
		}
		set[requestID] = true
	}
	for _, n := range path.Nodes {
		set, ok := idx.byNode[n]
		if !ok {
			set = make(map[string]bool)
			idx.byNode[n] = set
		}
		set[requestID] = true
	}
}

// Deregister removes requestID's allocation from every link and node of
// path.
func (idx *ResourceIndex) Deregister(requestID string, path Path) {
	for _, l := range path.Links() {
		if set, ok := idx.byLink[l]; ok {
			delete(set, requestID)
			if len(set) == 0 {
				delete(idx.byLink, l)
			}
		}
	}
	for _, n := range path.Nodes {
		if set, ok := idx.byNode[n]; ok {
			delete(set, requestID)
			if len(set) == 0 {
				delete(idx.byNode, n)
			}
		}
	}
}

// RequestsCrossingLink returns the IDs of requests currently allocated
// across link l.
func (idx *ResourceIndex) RequestsCrossingLink(l Link) []string {
	return keysOf(idx.byLink[l])
}

// RequestsCrossingNode returns the IDs of requests currently allocated
// across node v.
func (idx *ResourceIndex) RequestsCrossingNode(v string) []string {
	return keysOf(idx.byNode[v])
}

func keysOf(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	return out
}
