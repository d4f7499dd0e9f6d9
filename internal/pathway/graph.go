// Package pathway builds the visa next-step graph and walks it: bounded
// reachability, greedy path recommendation and a stable 2D layout.
package pathway

import "visa-pathway-workers/internal/visa"

// DefaultCategories keeps tourist, visitor, family and special visas off the
// primary exploration surface.
var DefaultCategories = []visa.Category{
	visa.CategoryStudent,
	visa.CategoryWorker,
	visa.CategoryInvestor,
	visa.CategoryImmigrant,
}

// Adjacency is a directed next-step graph restricted to a set of categories.
// Nodes and edges keep catalog declaration order.
type Adjacency struct {
	nodes []string
	edges map[string][]string
	tiers map[string]visa.Tier
}

type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// BuildAdjacency maps every visa in an allowed category to its next steps that
// are also in an allowed category. Dangling edges are dropped.
func BuildAdjacency(kb *visa.KnowledgeBase, allowed []visa.Category) *Adjacency {
	allow := make(map[visa.Category]struct{}, len(allowed))
	for _, c := range allowed {
		allow[c] = struct{}{}
	}
	inScope := func(id string) (visa.Definition, bool) {
		def, ok := kb.Get(id)
		if !ok {
			return visa.Definition{}, false
		}
		_, ok = allow[def.Category]
		return def, ok
	}

	adj := &Adjacency{
		edges: make(map[string][]string),
		tiers: make(map[string]visa.Tier),
	}
	for _, def := range kb.All() {
		if _, ok := inScope(def.ID); !ok {
			continue
		}
		adj.nodes = append(adj.nodes, def.ID)
		adj.tiers[def.ID] = def.Tier

		seen := make(map[string]struct{}, len(def.CommonNextSteps))
		targets := make([]string, 0, len(def.CommonNextSteps))
		for _, step := range def.CommonNextSteps {
			if _, dup := seen[step.VisaID]; dup {
				continue
			}
			if _, ok := inScope(step.VisaID); !ok {
				continue
			}
			seen[step.VisaID] = struct{}{}
			targets = append(targets, step.VisaID)
		}
		adj.edges[def.ID] = targets
	}
	return adj
}

func (a *Adjacency) Has(id string) bool {
	_, ok := a.edges[id]
	return ok
}

func (a *Adjacency) Nodes() []string {
	return append([]string(nil), a.nodes...)
}

func (a *Adjacency) Len() int {
	return len(a.nodes)
}

func (a *Adjacency) Next(id string) []string {
	return append([]string(nil), a.edges[id]...)
}

func (a *Adjacency) Tier(id string) (visa.Tier, bool) {
	t, ok := a.tiers[id]
	return t, ok
}

// Map returns the graph as a plain id to successors map.
func (a *Adjacency) Map() map[string][]string {
	out := make(map[string][]string, len(a.edges))
	for id, next := range a.edges {
		out[id] = append([]string{}, next...)
	}
	return out
}

func (a *Adjacency) Edges() []Edge {
	var out []Edge
	for _, from := range a.nodes {
		for _, to := range a.edges[from] {
			out = append(out, Edge{From: from, To: to})
		}
	}
	return out
}

// ParseCategories converts names to categories, ignoring unknown names.
func ParseCategories(names []string) []visa.Category {
	out := make([]visa.Category, 0, len(names))
	for _, n := range names {
		if c := visa.Category(n); c.Valid() {
			out = append(out, c)
		}
	}
	return out
}
