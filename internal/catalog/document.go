// Package catalog indexes the visa knowledge base into Elasticsearch and
// runs free-text searches over it.
package catalog

import "visa-pathway-workers/internal/visa"

const DefaultIndex = "visa-catalog"

// Document is the searchable projection of one visa definition.
type Document struct {
	ID           string   `json:"id"`
	Code         string   `json:"code"`
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	Category     string   `json:"category"`
	Tier         string   `json:"tier"`
	TimeHorizon  string   `json:"timeHorizon,omitempty"`
	Difficulty   int      `json:"difficulty"`
	Requirements []string `json:"requirements,omitempty"`
	NextSteps    []string `json:"nextSteps,omitempty"`
}

func DocumentFromDefinition(def visa.Definition) Document {
	doc := Document{
		ID:          def.ID,
		Code:        def.Code,
		Name:        def.Name,
		Description: def.Description,
		Category:    string(def.Category),
		Tier:        string(def.Tier),
		TimeHorizon: string(def.TimeHorizon),
		Difficulty:  def.Difficulty,
	}
	for _, r := range def.EligibilityRules {
		if r.Description != "" {
			doc.Requirements = append(doc.Requirements, r.Description)
		}
	}
	for _, s := range def.CommonNextSteps {
		doc.NextSteps = append(doc.NextSteps, s.VisaID)
	}
	return doc
}

// IndexMapping keeps category, tier and ids as exact-match keywords.
const IndexMapping = `{
  "mappings": {
    "properties": {
      "id":           {"type": "keyword"},
      "code":         {"type": "text", "fields": {"raw": {"type": "keyword"}}},
      "name":         {"type": "text"},
      "description":  {"type": "text"},
      "category":     {"type": "keyword"},
      "tier":         {"type": "keyword"},
      "timeHorizon":  {"type": "keyword"},
      "difficulty":   {"type": "integer"},
      "requirements": {"type": "text"},
      "nextSteps":    {"type": "keyword"}
    }
  }
}`
