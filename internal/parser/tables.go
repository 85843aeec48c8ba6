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
package parser

import (
	"regexp"
	"strings"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/docx"
)

// identifierRe accepts database-style field names. Rows whose field name
// does not match are silently skipped.
var identifierRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

// Role names the semantic purpose of a table column in a specification table.
type Role string

const (
	RoleFieldNumber Role = "field_number"
	RoleFieldName   Role = "field_name"
	RoleDescription Role = "description"
	RoleDataType    Role = "data_type"
	RoleNullable    Role = "nullable"
	RoleNotes       Role = "notes"
)

// IsFieldSpecificationTable reports whether a table looks like a field
// specification table: a field-name header plus either a data-type or a
// description header. This is the lenient variant used to select tables for
// column extraction.
func IsFieldSpecificationTable(table docx.Table) bool {
	if len(table.Rows) < 2 { // Need at least header + 1 row
		return false
	}

	headerText := joinedHeaderText(table)

	hasFieldName := strings.Contains(headerText, "field name") || strings.Contains(headerText, "field")
	hasDataType := strings.Contains(headerText, "data type") || strings.Contains(headerText, "sql")
	hasDescription := strings.Contains(headerText, "description") || strings.Contains(headerText, "business")

	return hasFieldName && (hasDataType || hasDescription)
}

// IsSpecificationTable is the stricter variant used when building the global
// field list for section classification. It accepts two-column appendix
// summaries (field-name header, 3+ rows) and four-or-more-column full
// specification tables (at least 2 of the field-name / description /
// data-type header groups present).
func IsSpecificationTable(table docx.Table) bool {
	if len(table.Rows) < 2 {
		return false
	}

	headerText := joinedHeaderText(table)
	hasFieldIndicator := strings.Contains(headerText, "field name") || strings.Contains(headerText, "field")

	cols := table.ColumnCount()

	// Appendix tables have "#" and "Field Name" columns.
	if cols == 2 {
		return hasFieldIndicator && len(table.Rows) >= 3
	}

	if cols >= 4 {
		matches := 0
		if strings.Contains(headerText, "field name") {
			matches++
		}
		if strings.Contains(headerText, "description") || strings.Contains(headerText, "business") {
			matches++
		}
		if strings.Contains(headerText, "data type") || strings.Contains(headerText, "sql") {
			matches++
		}
		return matches >= 2
	}

	return false
}

// LocateColumns maps semantic roles to column indices by matching header
// cell text. Each cell claims at most one role; when two cells claim the
// same role the rightmost wins.
func LocateColumns(headerRow []string) map[Role]int {
	roles := make(map[Role]int)

	for idx, cell := range headerRow {
		headerText := strings.ToLower(strings.TrimSpace(cell))

		switch {
		case strings.Contains(headerText, "#") || strings.Contains(headerText, "field #"):
			roles[RoleFieldNumber] = idx
		case strings.Contains(headerText, "field name") || headerText == "field":
			roles[RoleFieldName] = idx
		case strings.Contains(headerText, "business") || strings.Contains(headerText, "description"):
			roles[RoleDescription] = idx
		case strings.Contains(headerText, "data type") || strings.Contains(headerText, "sql"):
			roles[RoleDataType] = idx
		case strings.Contains(headerText, "nullable"):
			roles[RoleNullable] = idx
		case strings.Contains(headerText, "note"):
			roles[RoleNotes] = idx
		}
	}

	return roles
}

// FindFieldColumn locates the column holding field names in a table without
// a clear role header. A header match only counts if the first data row in
// that column actually looks like an identifier; failing any header match,
// the first of the first three columns with an identifier-shaped sample
// wins. The second return value is false when nothing qualifies.
func FindFieldColumn(table docx.Table) (int, bool) {
	if len(table.Rows) < 2 {
		return 0, false
	}

	headers := make([]string, 0, len(table.Rows[0]))
	for _, cell := range table.Rows[0] {
		headers = append(headers, strings.ToLower(strings.TrimSpace(cell)))
	}
	firstDataRow := table.Rows[1]

	sampleAt := func(idx int) string {
		if idx >= len(firstDataRow) {
			return ""
		}
		return strings.TrimSpace(firstDataRow[idx])
	}

	fieldPatterns := []string{"field", "column", "name", "attribute", "field name", "column name"}
	for _, pattern := range fieldPatterns {
		for idx, header := range headers {
			if strings.Contains(header, pattern) {
				if sample := sampleAt(idx); sample != "" && identifierRe.MatchString(sample) {
					return idx, true
				}
			}
		}
	}

	// Fallback: check which of the first columns has database-like names.
	limit := len(headers)
	if limit > 3 {
		limit = 3
	}
	for idx := 0; idx < limit; idx++ {
		if sample := sampleAt(idx); sample != "" && identifierRe.MatchString(sample) {
			return idx, true
		}
	}

	return 0, false
}

func joinedHeaderText(table docx.Table) string {
	parts := make([]string, 0, len(table.Rows[0]))
	for _, cell := range table.Rows[0] {
		parts = append(parts, strings.ToLower(strings.TrimSpace(cell)))
	}
	return strings.Join(parts, " ")
}

// cellAt returns the trimmed text of row[idx], or "" when the row is too
// short.
func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
