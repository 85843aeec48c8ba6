/*
 * Copyright 2025 Google LLC
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *    https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */
package schema

// Section labels the structural zone of the record format a column belongs to.
type Section string

const (
	SectionHeader  Section = "header"
	SectionBody    Section = "body"
	SectionTrailer Section = "trailer"
	SectionUnknown Section = "unknown"
)

// ColumnSchema is one extracted column definition in the metadata format.
// ColumnID is globally unique and monotonically increasing across all tables
// in a document, starting at 1.
type ColumnSchema struct {
	ColumnID    int    `json:"column_id"`
	ColumnName  string `json:"column_name"`
	Description string `json:"description"`
	DataType    string `json:"data_type"`
	DataLength  *int   `json:"data_length"`
	Precision   *int   `json:"precision"`
	Scale       *int   `json:"scale"`
	Nullable    bool   `json:"nullable"`
	Notes       string `json:"notes"`

	// Exactly one of the three section flags is true per column.
	IsHeader  bool `json:"is_header"`
	IsBody    bool `json:"is_body"`
	IsTrailer bool `json:"is_trailer"`

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

// Section derives the section label from the three classification flags.
func (c ColumnSchema) Section() Section {
	switch {
	case c.IsHeader:
		return SectionHeader
	case c.IsBody:
		return SectionBody
	case c.IsTrailer:
		return SectionTrailer
	default:
		return SectionUnknown
	}
}

// TableSchema groups the extracted columns of one target table.
type TableSchema struct {
	TableName        string         `json:"table_name"`
	TableDescription string         `json:"table_description"`
	Columns          []ColumnSchema `json:"columns"`
}

// DocumentInfo carries document-level descriptive metadata.
type DocumentInfo struct {
	Title       string `json:"title"`
	Version     string `json:"version"`
	LastUpdated string `json:"last_updated,omitempty"`
	Description string `json:"description"`
}

// MetadataDocument is the top-level value produced by one parse invocation.
// The parser currently emits exactly one TableSchema aggregating all columns,
// but consumers must not assume that cardinality.
type MetadataDocument struct {
	Version      string        `json:"version"`
	DocumentInfo DocumentInfo  `json:"document_info"`
	Tables       []TableSchema `json:"tables"`
}

// ColumnCount reports the total number of columns across all tables.
func (m MetadataDocument) ColumnCount() int {
	n := 0
	for _, t := range m.Tables {
		n += len(t.Columns)
	}
	return n
}
