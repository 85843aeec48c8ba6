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
	"sort"
	"strings"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/docx"
)

// SectionFlags is the mutually exclusive header/body/trailer assignment for
// one field name.
type SectionFlags struct {
	IsHeader  bool
	IsBody    bool
	IsTrailer bool
}

// sectionNames fixes the tie-break precedence: when scores are equal the
// earlier section wins. Relying on map iteration order here would make
// classifications non-deterministic.
var sectionNames = []string{"header", "body", "trailer"}

// fieldCandidate is a provisionally extracted field name awaiting final
// section assignment.
type fieldCandidate struct {
	name           string
	tableIndex     int
	specTableIndex int
	rowIndex       int
	scores         map[string]int
	classification string
}

// ClassificationSummary reports the outcome of the rebalancing step.
type ClassificationSummary struct {
	SpecTables   int
	TotalTables  int
	UniqueFields int
	Header       int
	Body         int
	Trailer      int
}

// ClassifyFields scans all specification tables in the document, scores
// every valid field name against the header/body/trailer rubric, and
// rebalances globally so that the highest-scoring headerTarget names become
// headers and the next trailerTarget trailer candidates become trailers.
// Everything else is body. The returned map is keyed by field name;
// exclusivity holds by construction.
func ClassifyFields(tables []docx.Table, headerTarget, trailerTarget int) (map[string]SectionFlags, ClassificationSummary) {
	type specTable struct {
		tableIndex int
		table      docx.Table
	}

	var specTables []specTable
	for tableIdx, table := range tables {
		if IsSpecificationTable(table) {
			specTables = append(specTables, specTable{tableIndex: tableIdx, table: table})
		}
	}
	totalSpecTables := len(specTables)

	var allFields []fieldCandidate
	for specIdx, st := range specTables {
		fieldColumnIdx, ok := FindFieldColumn(st.table)
		if !ok {
			// Fallback: field names often live in the second column.
			if st.table.ColumnCount() > 1 {
				fieldColumnIdx = 1
			} else {
				continue
			}
		}

		tablePosition := 0.5
		if totalSpecTables > 0 {
			tablePosition = float64(specIdx) / float64(totalSpecTables)
		}

		totalRows := len(st.table.Rows) - 1 // Exclude header row
		for rowIdx, row := range st.table.Rows[1:] {
			rowIdx++ // 1-based, matching position math
			name := cellAt(row, fieldColumnIdx)
			if name == "" || !identifierRe.MatchString(name) {
				continue
			}

			positionInTable := 0.5
			if totalRows > 0 {
				positionInTable = float64(rowIdx) / float64(totalRows)
			}

			scores := scoreFieldName(name, positionInTable, tablePosition)

			allFields = append(allFields, fieldCandidate{
				name:           name,
				tableIndex:     st.tableIndex,
				specTableIndex: specIdx,
				rowIndex:       rowIdx,
				scores:         scores,
				classification: maxSection(scores),
			})
		}
	}

	// Deduplicate by name, keeping the first occurrence in document order.
	seen := make(map[string]bool)
	uniqueFields := allFields[:0:0]
	for _, f := range allFields {
		if !seen[f.name] {
			seen[f.name] = true
			uniqueFields = append(uniqueFields, f)
		}
	}

	// Global rebalancing: lock the top headerTarget names into the header
	// set, then fill the trailer set from the remaining top trailer
	// candidates. Stable sorts keep document order among equal scores.
	headerCandidates := make([]fieldCandidate, len(uniqueFields))
	copy(headerCandidates, uniqueFields)
	sort.SliceStable(headerCandidates, func(i, j int) bool {
		return headerCandidates[i].scores["header"] > headerCandidates[j].scores["header"]
	})

	headerFields := make(map[string]bool)
	for _, candidate := range headerCandidates {
		if len(headerFields) >= headerTarget {
			break
		}
		headerFields[candidate.name] = true
	}

	trailerCandidates := make([]fieldCandidate, len(uniqueFields))
	copy(trailerCandidates, uniqueFields)
	sort.SliceStable(trailerCandidates, func(i, j int) bool {
		return trailerCandidates[i].scores["trailer"] > trailerCandidates[j].scores["trailer"]
	})

	trailerFields := make(map[string]bool)
	for _, candidate := range trailerCandidates {
		if len(trailerFields) >= trailerTarget {
			break
		}
		if !headerFields[candidate.name] {
			trailerFields[candidate.name] = true
		}
	}

	classification := make(map[string]SectionFlags, len(uniqueFields))
	for _, f := range uniqueFields {
		switch {
		case headerFields[f.name]:
			classification[f.name] = SectionFlags{IsHeader: true}
		case trailerFields[f.name]:
			classification[f.name] = SectionFlags{IsTrailer: true}
		default:
			classification[f.name] = SectionFlags{IsBody: true}
		}
	}

	summary := ClassificationSummary{
		SpecTables:   totalSpecTables,
		TotalTables:  len(tables),
		UniqueFields: len(uniqueFields),
		Header:       len(headerFields),
		Trailer:      len(trailerFields),
	}
	summary.Body = summary.UniqueFields - summary.Header - summary.Trailer

	return classification, summary
}

// scoreFieldName applies the additive scoring rubric to one field name. The
// point values are calibrated against known source extracts; changing them
// changes classifications on pinned documents.
func scoreFieldName(name string, positionInTable, tablePosition float64) map[string]int {
	nameLower := strings.ToLower(name)
	scores := map[string]int{"header": 0, "body": 0, "trailer": 0}

	// HEADER INDICATORS
	switch {
	case nameLower == "header_id":
		scores["header"] += 10
	case nameLower == "subheader_id":
		scores["header"] += 10
	case nameLower == "source_system_name" || nameLower == "source_file_name" || nameLower == "ingest_batch_id":
		scores["header"] += 8
	case nameLower == "extraction_timestamp" || nameLower == "file_created_timestamp" ||
		nameLower == "processing_date" || nameLower == "source_line_number":
		scores["header"] += 7
	}

	if containsAny(nameLower, "header", "file", "source", "batch", "ingest") {
		scores["header"] += 4
	}
	if strings.HasPrefix(nameLower, "source_") {
		scores["header"] += 3
	}
	if strings.HasSuffix(nameLower, "_timestamp") && positionInTable < 0.3 {
		scores["header"] += 2
	}
	if positionInTable < 0.1 && tablePosition < 0.5 {
		scores["header"] += 2
	}

	// TRAILER INDICATORS
	switch nameLower {
	case "total_amount", "total_records", "record_count":
		scores["trailer"] += 10
	case "quality_check_flag_text", "rejection_reason_text", "replay_reference_text":
		scores["trailer"] += 8
	}

	if containsAny(nameLower, "total", "count", "sum", "trailer", "quality", "check") {
		scores["trailer"] += 4
	}
	if strings.HasPrefix(nameLower, "total_") {
		scores["trailer"] += 5
	}
	if strings.HasSuffix(nameLower, "_total") || strings.HasSuffix(nameLower, "_count") || strings.HasSuffix(nameLower, "_sum") {
		scores["trailer"] += 5
	}
	if containsAny(nameLower, "quality", "rejection", "replay") {
		scores["trailer"] += 4
	}
	if positionInTable > 0.9 && tablePosition > 0.5 {
		scores["trailer"] += 2
	}

	// BODY INDICATORS
	if containsAny(nameLower, "amount", "currency", "date", "time", "status") {
		scores["body"] += 3
	}
	if containsAny(nameLower, "beneficiary", "originating", "institution", "account") {
		scores["body"] += 3
	}
	if containsAny(nameLower, "address", "city", "country", "postal", "phone", "email") {
		scores["body"] += 3
	}
	if containsAny(nameLower, "transaction", "payment", "transfer", "instruction") {
		scores["body"] += 3
	}
	if containsAny(nameLower, "screening", "sanctions", "peps", "adverse") {
		scores["body"] += 3
	}

	// Baseline bias toward body for ambiguous names.
	if scores["header"] < 3 && scores["trailer"] < 3 {
		scores["body"] += 2
	}

	return scores
}

// maxSection returns the highest-scoring section, breaking ties by the fixed
// header > body > trailer precedence.
func maxSection(scores map[string]int) string {
	best := sectionNames[0]
	for _, section := range sectionNames[1:] {
		if scores[section] > scores[best] {
			best = section
		}
	}
	return best
}

func containsAny(s string, terms ...string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

var headerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^header_`),
	regexp.MustCompile(`_header$`),
	regexp.MustCompile(`^file_id$`),
	regexp.MustCompile(`^header_id$`),
	regexp.MustCompile(`^subheader_id$`),
	regexp.MustCompile(`^detail_id$`),
	regexp.MustCompile(`^batch_id$`),
	regexp.MustCompile(`^extract_id$`),
	regexp.MustCompile(`^record_id$`),
	regexp.MustCompile(`^file_name$`),
	regexp.MustCompile(`^file_date$`),
	regexp.MustCompile(`^file_version$`),
	regexp.MustCompile(`^file_type$`),
	regexp.MustCompile(`^creation_date$`),
	regexp.MustCompile(`^creation_time$`),
	regexp.MustCompile(`^sender_`),
	regexp.MustCompile(`^receiver_`),
}

var trailerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^trailer_`),
	regexp.MustCompile(`_trailer$`),
	regexp.MustCompile(`_count$`),
	regexp.MustCompile(`^total_`),
	regexp.MustCompile(`_total$`),
	regexp.MustCompile(`_sum$`),
	regexp.MustCompile(`_summary$`),
	regexp.MustCompile(`^footer_`),
	regexp.MustCompile(`_footer$`),
	regexp.MustCompile(`^record_count$`),
	regexp.MustCompile(`^file_record_count$`),
	regexp.MustCompile(`^total_amount$`),
	regexp.MustCompile(`^total_records$`),
}

// ClassifyFieldByName classifies a field that never appeared in the global
// field list. Header patterns are checked first, then trailer patterns, then
// description keywords; the default is body. Exactly one flag is true.
func ClassifyFieldByName(columnName, description string) SectionFlags {
	columnLower := strings.ToLower(columnName)
	descLower := strings.ToLower(description)

	for _, pattern := range headerPatterns {
		if pattern.MatchString(columnLower) {
			return SectionFlags{IsHeader: true}
		}
	}

	for _, pattern := range trailerPatterns {
		if pattern.MatchString(columnLower) {
			return SectionFlags{IsTrailer: true}
		}
	}

	if strings.Contains(descLower, "header") || strings.Contains(descLower, "file-level") {
		return SectionFlags{IsHeader: true}
	}
	if strings.Contains(descLower, "trailer") || strings.Contains(descLower, "total") || strings.Contains(descLower, "count") {
		return SectionFlags{IsTrailer: true}
	}

	return SectionFlags{IsBody: true}
}
