package searchvisacatalog

import "visa-pathway-workers/internal/catalog"

type Input struct {
	Query      string   `json:"query,omitempty"`
	Categories []string `json:"categories,omitempty"`
	Size       int      `json:"size,omitempty"`
}

type Output struct {
	Visas     []catalog.Hit `json:"visas"`
	TotalHits int64         `json:"totalHits"`
	MaxScore  float64       `json:"maxScore"`
	Took      int64         `json:"took"` // milliseconds
}
