// Package linkgraph maintains symmetric relations between items.
//
// Functions in this package are pure: they never perform I/O and never
// mutate their inputs.
package linkgraph

import (
	"cmp"
	"fmt"
	"slices"
	"sort"
)

// RelationKind names a kind of edge. Only RelationLink is used for items today.
type RelationKind string

const RelationLink RelationKind = "link"

// Key addresses the neighbour set of one item for one relation kind.
type Key struct {
	ItemID string
	Kind   RelationKind
}

// Adjacency is an undirected multi-kind adjacency list. Add and Remove always
// update both endpoints.
type Adjacency struct {
	edges map[Key]map[string]struct{}
}

// NewAdjacency returns an empty adjacency.
func NewAdjacency() *Adjacency {
	return &Adjacency{edges: map[Key]map[string]struct{}{}}
}

// Add inserts the edge a–b. Self edges are ignored.
func (g *Adjacency) Add(kind RelationKind, a, b string) {
	if a == b {
		return
	}
	g.addHalf(Key{a, kind}, b)
	g.addHalf(Key{b, kind}, a)
}

// Remove deletes the edge a–b in both directions.
func (g *Adjacency) Remove(kind RelationKind, a, b string) {
	g.removeHalf(Key{a, kind}, b)
	g.removeHalf(Key{b, kind}, a)
}

// Has reports whether a lists b as a neighbour.
func (g *Adjacency) Has(kind RelationKind, a, b string) bool {
	_, ok := g.edges[Key{a, kind}][b]
	return ok
}

// Neighbors returns the sorted neighbour IDs of id.
func (g *Adjacency) Neighbors(kind RelationKind, id string) []string {
	set := g.edges[Key{id, kind}]
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Violation is a one-directional edge.
type Violation struct {
	Kind RelationKind
	From string
	To   string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s -> %s has no reverse edge", v.Kind, v.From, v.To)
}

// Verify returns every half-edge whose reverse is missing, in a stable order.
func (g *Adjacency) Verify() []Violation {
	var out []Violation
	for k, set := range g.edges {
		for n := range set {
			if !g.Has(k.Kind, n, k.ItemID) {
				out = append(out, Violation{Kind: k.Kind, From: k.ItemID, To: n})
			}
		}
	}
	slices.SortFunc(out, func(a, b Violation) int {
		if a.From != b.From {
			return cmp.Compare(a.From, b.From)
		}
		return cmp.Compare(a.To, b.To)
	})
	return out
}

func (g *Adjacency) addHalf(k Key, n string) {
	set, ok := g.edges[k]
	if !ok {
		set = map[string]struct{}{}
		g.edges[k] = set
	}
	set[n] = struct{}{}
}

// addDirected records a single half-edge; used when importing possibly
// asymmetric data so Verify can report it.
func (g *Adjacency) addDirected(kind RelationKind, from, to string) {
	g.addHalf(Key{from, kind}, to)
}

func (g *Adjacency) removeHalf(k Key, n string) {
	set, ok := g.edges[k]
	if !ok {
		return
	}
	delete(set, n)
	if len(set) == 0 {
		delete(g.edges, k)
	}
}
