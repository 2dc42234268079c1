package eon

// Path is an ordered, simple sequence of vertices.
type Path struct {
	Nodes  []string
	Weight Cost
}

// Links returns the ordered (a,b) pairs (undirected, always a<b form used
// by the spectrum grid) that the path traverses.
func (p Path) Links() []Link {
	links := make([]Link, 0, len(p.Nodes)-1)
	for i := 0; i+1 < len(p.Nodes); i++ {
		links = append(links, linkOf(p.Nodes[i], p.Nodes[i+1]))
	}
	return links
}

// Link identifies an undirected edge in its canonical (a<b) orientation.
type Link struct {
	A, B string
}

func linkOf(x, y string) Link {
	if x < y {
		return Link{A: x, B: y}
	}
	return Link{A: y, B: x}
}

// ContainsNode reports whether v is one of the path's vertices.
func (p Path) ContainsNode(v string) bool {
	for _, n := range p.Nodes {
		if n == v {
			return true
		}
	}
	return false
}

// ContainsLink reports whether the path crosses the given link.
func (p Path) ContainsLink(l Link) bool {
	for _, pl := range p.Links() {
		if pl == l {
			return true
		}
	}
	return false
}

func pathWeight(g *Graph, nodes []string) Cost {
	var w Cost
	for i := 0; i+1 < len(nodes); i++ {
		for _, e := range g.Nodes[nodes[i]].Edges {
			if e.To == nodes[i+1] {
				w += e.Cost
				break
			}
		}
	}
	return w
}
