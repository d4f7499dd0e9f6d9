package pathway

import "sort"

const (
	// StartNodeID is the synthetic level-0 node used when the user holds no visa.
	StartNodeID = "start"

	DefaultMaxDepth = 3
)

// Tiers maps a BFS level to the visa ids discovered at that level.
type Tiers map[int][]string

func (t Tiers) Levels() []int {
	levels := make([]int, 0, len(t))
	for l := range t {
		levels = append(levels, l)
	}
	sort.Ints(levels)
	return levels
}

// Nodes lists every id in level order, including the start sentinel if present.
func (t Tiers) Nodes() []string {
	var out []string
	for _, l := range t.Levels() {
		out = append(out, t[l]...)
	}
	return out
}

func (t Tiers) LevelOf(id string) (int, bool) {
	for l, ids := range t {
		for _, v := range ids {
			if v == id {
				return l, true
			}
		}
	}
	return 0, false
}

type VisaSet map[string]struct{}

func (s VisaSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s VisaSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// TieredBFS partitions the visas reachable from start into levels.
//
// A nil start, or one that is not a node of adj, means the user holds no visa.
// Every visa in adj is then reachable: level 0 holds StartNodeID and each visa
// sits at its tier level, raised to at least 1 and capped at maxDepth.
//
// Otherwise it runs a breadth-first search from start at level 0. A node keeps
// the level it was first discovered at, and nothing deeper than maxDepth is
// added. A negative maxDepth selects DefaultMaxDepth.
func TieredBFS(start *string, adj *Adjacency, maxDepth int) Tiers {
	if maxDepth < 0 {
		maxDepth = DefaultMaxDepth
	}
	if start == nil || !adj.Has(*start) {
		return seedAll(adj, maxDepth)
	}

	type entry struct {
		id    string
		depth int
	}

	tiers := Tiers{0: {*start}}
	visited := map[string]bool{*start: true}
	queue := []entry{{id: *start, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth >= maxDepth {
			continue
		}
		for _, next := range adj.Next(cur.id) {
			if visited[next] || !adj.Has(next) {
				continue
			}
			visited[next] = true
			tiers[cur.depth+1] = append(tiers[cur.depth+1], next)
			queue = append(queue, entry{id: next, depth: cur.depth + 1})
		}
	}
	return tiers
}

func seedAll(adj *Adjacency, maxDepth int) Tiers {
	tiers := Tiers{0: {StartNodeID}}
	if maxDepth < 1 {
		return tiers
	}
	for _, id := range adj.Nodes() {
		level := 1
		if tier, ok := adj.Tier(id); ok && tier.Level() > level {
			level = tier.Level()
		}
		if level > maxDepth {
			level = maxDepth
		}
		tiers[level] = append(tiers[level], id)
	}
	return tiers
}

// ReachableFrom returns every visa within DefaultMaxDepth hops of start,
// including start itself. With no usable start it returns every node of adj.
func ReachableFrom(start *string, adj *Adjacency) VisaSet {
	set := make(VisaSet)
	for _, id := range TieredBFS(start, adj, DefaultMaxDepth).Nodes() {
		if id == StartNodeID {
			continue
		}
		set[id] = struct{}{}
	}
	return set
}
