package domain

// VectorSource describes one vector hit in the sources payload.
// Variant-specific fields are omitted when absent.
type VectorSource struct {
	Rank     int        `json:"rank"`
	Score    float64    `json:"score"`
	Type     RecordType `json:"type"`
	SourceID string     `json:"source_id,omitempty"`

	OrderID  string   `json:"order_id,omitempty"`
	Customer string   `json:"customer,omitempty"`
	Date     string   `json:"date,omitempty"`
	Total    *float64 `json:"total,omitempty"`

	Product  string   `json:"product,omitempty"`
	Quantity *int     `json:"quantity,omitempty"`
	Price    *float64 `json:"price,omitempty"`
}

// Sources records where the answer's context came from.
type Sources struct {
	VectorSearch  []VectorSource  `json:"vector_search"`
	DatabaseQuery *string         `json:"database_query"`
	SQLResults    []StructuredRow `json:"sql_results"`
}

// EmptySources returns a sources payload with empty (non-nil) collections.
func EmptySources() Sources {
	return Sources{
		VectorSearch: []VectorSource{},
		SQLResults:   []StructuredRow{},
	}
}

// Response is the record produced for every answered question: the
// thinking trace, the final answer, the sources, and the session it
// belongs to. A response is produced even when the structured query
// failed or nothing relevant was retrieved.
type Response struct {
	Thinking  []string `json:"thinking"`
	Answer    string   `json:"answer"`
	Sources   Sources  `json:"sources"`
	SessionID string   `json:"session_id"`
}
