package models

// QueryResultMetadata describes where a retrieved passage came from
type QueryResultMetadata struct {
	FileName   string `json:"file_name" yaml:"file_name"`
	PageNumber int    `json:"page_number" yaml:"page_number"`
	HasTables  bool   `json:"has_tables" yaml:"has_tables"`
	HasImages  bool   `json:"has_images" yaml:"has_images"`
}

// QueryResult is one passage returned by the semantic query endpoint.
// Results are immutable after construction and kept in the order the
// service returned them.
type QueryResult struct {
	Text     string              `json:"text" yaml:"text"`
	Metadata QueryResultMetadata `json:"metadata" yaml:"metadata"`
	Score    float64             `json:"score" yaml:"score"`
}

// QueryRequest is the wire format for POST /api/query.
// Limit and ScoreThreshold are optional and passed through to the service
// verbatim when set.
type QueryRequest struct {
	Query          string   `json:"query"`
	Limit          *int     `json:"limit,omitempty"`
	ScoreThreshold *float64 `json:"score_threshold,omitempty"`
}

// QueryResponse is the success payload of POST /api/query
type QueryResponse struct {
	Results []QueryResult `json:"results"`
	Query   string        `json:"query"`
}
