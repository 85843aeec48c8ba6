package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestParseDataType(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want DataType
	}{
		{
			name: "varchar with length",
			raw:  "VARCHAR(35)",
			want: DataType{Type: "VARCHAR", DataLength: intPtr(35)},
		},
		{
			name: "char with length",
			raw:  "CHAR(3)",
			want: DataType{Type: "CHAR", DataLength: intPtr(3)},
		},
		{
			name: "decimal with precision and scale",
			raw:  "DECIMAL(18,2)",
			want: DataType{Type: "DECIMAL", Precision: intPtr(18), Scale: intPtr(2)},
		},
		{
			name: "decimal with spaces",
			raw:  "DECIMAL( 18 , 2 )",
			want: DataType{Type: "DECIMAL", Precision: intPtr(18), Scale: intPtr(2)},
		},
		{
			name: "decimal without scale gets scale zero",
			raw:  "DECIMAL(18)",
			want: DataType{Type: "DECIMAL", Precision: intPtr(18), Scale: intPtr(0)},
		},
		{
			name: "numeric without scale gets scale zero",
			raw:  "NUMERIC(10)",
			want: DataType{Type: "NUMERIC", Precision: intPtr(10), Scale: intPtr(0)},
		},
		{
			name: "lowercase input is normalized",
			raw:  "varchar(10)",
			want: DataType{Type: "VARCHAR", DataLength: intPtr(10)},
		},
		{
			name: "bare type",
			raw:  "TIMESTAMP",
			want: DataType{Type: "TIMESTAMP"},
		},
		{
			name: "unknown parenthesized type keeps prefix only",
			raw:  "TIMESTAMP(6)",
			want: DataType{Type: "TIMESTAMP"},
		},
		{
			name: "empty defaults to varchar",
			raw:  "",
			want: DataType{Type: "VARCHAR"},
		},
		{
			name: "whitespace only defaults to varchar",
			raw:  "   ",
			want: DataType{Type: "VARCHAR"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseDataType(tt.raw))
		})
	}
}

func TestParseNullable(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{"Y", true},
		{"y", true},
		{"YES", true},
		{"yes", true},
		{"TRUE", true},
		{"1", true},
		{"NULL", true},
		{"NULLABLE", true},
		{" Y ", true},
		{"N", false},
		{"NO", false},
		{"FALSE", false},
		{"0", false},
		{"", false},
		{"maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseNullable(tt.raw), "input %q", tt.raw)
		})
	}
}

func TestColumnSchemaSection(t *testing.T) {
	assert.Equal(t, SectionHeader, ColumnSchema{IsHeader: true}.Section())
	assert.Equal(t, SectionBody, ColumnSchema{IsBody: true}.Section())
	assert.Equal(t, SectionTrailer, ColumnSchema{IsTrailer: true}.Section())
	assert.Equal(t, SectionUnknown, ColumnSchema{}.Section())
}

func TestMetadataDocumentColumnCount(t *testing.T) {
	doc := MetadataDocument{
		Tables: []TableSchema{
			{Columns: []ColumnSchema{{ColumnID: 1}, {ColumnID: 2}}},
			{Columns: []ColumnSchema{{ColumnID: 3}}},
		},
	}
	assert.Equal(t, 3, doc.ColumnCount())
}
