package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/docx"
)

func specTable(rows ...[]string) docx.Table {
	return docx.Table{Rows: rows}
}

func TestIsFieldSpecificationTable(t *testing.T) {
	tests := []struct {
		name  string
		table docx.Table
		want  bool
	}{
		{
			name: "field name plus data type",
			table: specTable(
				[]string{"Field #", "Field Name", "Business Description", "Data Type / SQL", "Nullable"},
				[]string{"1", "header_id", "Unique header identifier", "VARCHAR(35)", "N"},
			),
			want: true,
		},
		{
			name: "field name plus description only",
			table: specTable(
				[]string{"Field", "Description"},
				[]string{"amount", "Transaction amount"},
			),
			want: true,
		},
		{
			name: "no field indicator",
			table: specTable(
				[]string{"Version", "Date", "Author"},
				[]string{"1.0", "2024-01-01", "Someone"},
			),
			want: false,
		},
		{
			name: "header only is not enough",
			table: specTable(
				[]string{"Field Name", "Data Type"},
			),
			want: false,
		},
		{
			name:  "empty table",
			table: specTable(),
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFieldSpecificationTable(tt.table))
		})
	}
}

func TestIsSpecificationTable(t *testing.T) {
	tests := []struct {
		name  string
		table docx.Table
		want  bool
	}{
		{
			name: "two column appendix with enough rows",
			table: specTable(
				[]string{"#", "Field Name"},
				[]string{"1", "header_id"},
				[]string{"2", "total_amount"},
			),
			want: true,
		},
		{
			name: "two column appendix too short",
			table: specTable(
				[]string{"#", "Field Name"},
				[]string{"1", "header_id"},
			),
			want: false,
		},
		{
			name: "full specification table",
			table: specTable(
				[]string{"Field #", "Field Name", "Business Description", "Data Type / SQL"},
				[]string{"1", "header_id", "Unique identifier", "VARCHAR(35)"},
			),
			want: true,
		},
		{
			name: "wide table with only one header group",
			table: specTable(
				[]string{"Field", "Version", "Owner", "Review Date"},
				[]string{"a", "1", "x", "2024"},
			),
			want: false,
		},
		{
			name: "three column table is rejected",
			table: specTable(
				[]string{"Field Name", "Description", "Data Type"},
				[]string{"header_id", "Unique identifier", "VARCHAR(35)"},
			),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSpecificationTable(tt.table))
		})
	}
}

func TestLocateColumns(t *testing.T) {
	header := []string{"Field #", "Field Name", "Business Description", "Data Type / SQL", "Nullable", "Notes"}
	roles := LocateColumns(header)

	assert.Equal(t, 0, roles[RoleFieldNumber])
	assert.Equal(t, 1, roles[RoleFieldName])
	assert.Equal(t, 2, roles[RoleDescription])
	assert.Equal(t, 3, roles[RoleDataType])
	assert.Equal(t, 4, roles[RoleNullable])
	assert.Equal(t, 5, roles[RoleNotes])
}

func TestLocateColumnsPartialHeader(t *testing.T) {
	roles := LocateColumns([]string{"Field Name", "Description"})

	assert.Equal(t, 0, roles[RoleFieldName])
	assert.Equal(t, 1, roles[RoleDescription])
	_, hasDataType := roles[RoleDataType]
	assert.False(t, hasDataType)
	_, hasNullable := roles[RoleNullable]
	assert.False(t, hasNullable)
}

func TestLocateColumnsEachCellClaimsOneRole(t *testing.T) {
	// "Field # / Field Name" contains "#" so the first matching case wins.
	roles := LocateColumns([]string{"Field # / Field Name", "Field Name"})

	assert.Equal(t, 0, roles[RoleFieldNumber])
	assert.Equal(t, 1, roles[RoleFieldName])
}

func TestFindFieldColumn(t *testing.T) {
	tests := []struct {
		name    string
		table   docx.Table
		wantIdx int
		wantOK  bool
	}{
		{
			name: "header match with identifier sample",
			table: specTable(
				[]string{"#", "Field Name"},
				[]string{"1", "header_id"},
			),
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name: "header match rejected when sample is not an identifier",
			table: specTable(
				[]string{"Field Name", "Code"},
				[]string{"not a field!", "header_id"},
			),
			// Falls back to the first identifier-shaped column.
			wantIdx: 1,
			wantOK:  true,
		},
		{
			name: "fallback scans first three columns",
			table: specTable(
				[]string{"A", "B", "C"},
				[]string{"", "12%", "total_amount"},
			),
			wantIdx: 2,
			wantOK:  true,
		},
		{
			name: "no identifier anywhere",
			table: specTable(
				[]string{"A", "B"},
				[]string{"12%", "(none)"},
			),
			wantOK: false,
		},
		{
			name:   "too few rows",
			table:  specTable([]string{"Field Name"}),
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, ok := FindFieldColumn(tt.table)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantIdx, idx)
			}
		})
	}
}

func TestCellAt(t *testing.T) {
	row := []string{" a ", "b"}
	assert.Equal(t, "a", cellAt(row, 0))
	assert.Equal(t, "b", cellAt(row, 1))
	assert.Equal(t, "", cellAt(row, 2))
	assert.Equal(t, "", cellAt(row, -1))
}
