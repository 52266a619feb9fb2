package entity

// QueryRelevance is the model's assessment of one query's search results.
type QueryRelevance struct {
	Category  EvidenceCategory `json:"category" validate:"required,oneof=recent weekly monthly earnings"`
	Query     string           `json:"query" validate:"required"`
	Relevance int              `json:"relevance" validate:"min=0,max=10"`
	Sentiment string           `json:"sentiment" validate:"required,oneof=positive negative neutral mixed"`
	KeyPoints []string         `json:"key_points" validate:"max=5,dive,required"`
}

// ResearchReport is the structured report of the extended pipeline.
type ResearchReport struct {
	ExecutiveSummary    string   `json:"executive_summary" validate:"required"`
	Performance         string   `json:"performance" validate:"required"`
	Fundamentals        string   `json:"fundamentals" validate:"required"`
	Sentiment           string   `json:"sentiment" validate:"required"`
	Risks               []string `json:"risks" validate:"min=1,dive,required"`
	CompetitivePosition string   `json:"competitive_position" validate:"required"`
	Conclusion          string   `json:"conclusion" validate:"required"`
}
