package genai

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// EnrichmentRequest carries the row text handed to the oracle for one column.
type EnrichmentRequest struct {
	ColumnName  string
	Description string
	Notes       string
	DataType    string
}

// ColumnEnrichment holds the nine semantically extracted fields for a column.
// A zero value (all nil/false) is the documented fallback when the oracle
// call fails or returns unparseable output.
type ColumnEnrichment struct {
	AllowedValues      []string `json:"allowed_values"`
	FormatHint         *string  `json:"format_hint"`
	DefaultValue       *string  `json:"default_value"`
	IsSystemGenerated  bool     `json:"is_system_generated"`
	DataClassification *string  `json:"data_classification"`
	ForeignKeyTable    *string  `json:"foreign_key_table"`
	ForeignKeyColumn   *string  `json:"foreign_key_column"`
	BusinessRule       *string  `json:"business_rule"`
	SampleValues       []string `json:"sample_values"`
}

// DefaultEnrichment returns the all-null enrichment used when the oracle is
// unavailable or its response cannot be parsed.
func DefaultEnrichment() *ColumnEnrichment {
	return &ColumnEnrichment{}
}

var codeFenceRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// DecodeEnrichment parses the oracle's response text into a ColumnEnrichment.
// The response is expected to be a single JSON object, optionally wrapped in
// a markdown code fence.
func DecodeEnrichment(text string) (*ColumnEnrichment, error) {
	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	text = strings.TrimSpace(text)

	var enrichment ColumnEnrichment
	if err := json.Unmarshal([]byte(text), &enrichment); err != nil {
		return nil, &ErrUnparseableResponse{Msg: "oracle response is not a JSON object", Err: err}
	}
	return &enrichment, nil
}

// buildEnrichmentPrompt renders the structured prompt for one column. The
// nine numbered fields match the ColumnEnrichment JSON keys exactly.
func buildEnrichmentPrompt(req EnrichmentRequest) string {
	return fmt.Sprintf(`Analyze this database column definition and extract structured metadata:

Column Name: %s
Description: %s
Notes: %s
Data Type: %s

Extract the following information (return as JSON):
1. allowed_values: List of valid enum values if mentioned (e.g., ["CREDIT", "DEBIT"]) or null
2. format_hint: Format pattern if mentioned (e.g., "ISO 4217", "YYYYMMDD") or null
3. default_value: Default value if mentioned or null
4. is_system_generated: true if auto-generated (timestamp, sequence, etc.), false otherwise
5. data_classification: "PII", "PCI", "HPR", or null based on sensitivity
6. foreign_key_table: Referenced table name if foreign key mentioned, or null
7. foreign_key_column: Referenced column name if foreign key mentioned, or null
8. business_rule: Business validation rules if mentioned or null
9. sample_values: List of example values if provided or null

Return ONLY valid JSON, no explanation.`,
		req.ColumnName, req.Description, req.Notes, req.DataType)
}
