package pathway

import "visa-pathway-workers/internal/visa"

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type LayoutOptions struct {
	ColumnSpacing    float64
	RowSpacing       float64
	MarginX          float64
	CenterY          float64
	DifficultyOffset float64
}

func DefaultLayoutOptions() LayoutOptions {
	return LayoutOptions{
		ColumnSpacing:    260,
		RowSpacing:       120,
		MarginX:          80,
		CenterY:          400,
		DifficultyOffset: 18,
	}
}

// LayoutAssigner places tiered visas on a grid: one column per level, rows
// spread evenly around CenterY and nudged by difficulty.
type LayoutAssigner struct {
	kb   *visa.KnowledgeBase
	opts LayoutOptions
}

func NewLayoutAssigner(kb *visa.KnowledgeBase, opts LayoutOptions) *LayoutAssigner {
	if opts == (LayoutOptions{}) {
		opts = DefaultLayoutOptions()
	}
	return &LayoutAssigner{kb: kb, opts: opts}
}

func (l *LayoutAssigner) AssignPositions(tiers Tiers) map[string]Position {
	out := make(map[string]Position)
	for level, ids := range tiers {
		x := l.opts.MarginX + float64(level)*l.opts.ColumnSpacing
		mid := float64(len(ids)-1) / 2
		for i, id := range ids {
			y := l.opts.CenterY + (float64(i)-mid)*l.opts.RowSpacing + l.difficultyNudge(id)
			out[id] = Position{X: x, Y: y}
		}
	}
	return out
}

// difficultyNudge is zero for the start sentinel and unknown ids.
func (l *LayoutAssigner) difficultyNudge(id string) float64 {
	def, ok := l.kb.Get(id)
	if !ok || id == StartNodeID {
		return 0
	}
	return float64(def.Difficulty-2) * l.opts.DifficultyOffset
}
