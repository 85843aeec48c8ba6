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

// Package parser extracts structured table/column metadata from field
// specification documents.
//
// The pipeline is single-threaded per document except for the per-row
// enrichment oracle calls, which are I/O-bound and fan out concurrently
// within a table. Column IDs are assigned before the fan-out, so completion
// order never changes the output.
package parser

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/docx"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/genai"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/schema"
)

var versionRe = regexp.MustCompile(`[Vv]ersion\s*[:\-]?\s*(\d+\.?\d*)`)

// Options tunes the parsing pipeline. The zero value is not usable; call
// DefaultOptions and override as needed.
type Options struct {
	// HeaderTarget and TrailerTarget are the rebalancing targets for the
	// section classifier.
	HeaderTarget  int
	TrailerTarget int
	// OracleTimeout bounds each enrichment call.
	OracleTimeout time.Duration
}

// DefaultOptions matches the shape of the source extracts this pipeline was
// calibrated on: 6 header fields and 3 trailer fields.
func DefaultOptions() Options {
	return Options{
		HeaderTarget:  6,
		TrailerTarget: 3,
		OracleTimeout: 30 * time.Second,
	}
}

// DocumentParser turns specification documents into MetadataDocument values.
// Construct one per configuration with New; a single parser may be used for
// concurrent ParseFile calls since it holds no per-document state.
type DocumentParser struct {
	oracle genai.Oracle
	opts   Options
	logger *zap.SugaredLogger
}

// New creates a DocumentParser. The oracle may be nil, in which case every
// column gets default (all-null) enrichment.
func New(oracle genai.Oracle, opts Options, logger *zap.SugaredLogger) *DocumentParser {
	if opts.HeaderTarget <= 0 {
		opts.HeaderTarget = 6
	}
	if opts.TrailerTarget <= 0 {
		opts.TrailerTarget = 3
	}
	if opts.OracleTimeout <= 0 {
		opts.OracleTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DocumentParser{
		oracle: oracle,
		opts:   opts,
		logger: logger,
	}
}

// ParseFile reads a .docx specification document and extracts its metadata.
func (p *DocumentParser) ParseFile(ctx context.Context, filePath, metadataID string) (*schema.MetadataDocument, error) {
	p.logger.Infof("Starting document parsing: %s", filePath)

	doc, err := docx.Read(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load document %s: %w", filePath, err)
	}

	return p.Parse(ctx, doc, metadataID)
}

// Parse extracts metadata from an already-loaded document. Parsing never
// fails on malformed content: bad rows are skipped, missing enrichment
// degrades to defaults, and a document without specification tables yields
// an empty table schema.
func (p *DocumentParser) Parse(ctx context.Context, doc *docx.Document, metadataID string) (*schema.MetadataDocument, error) {
	documentInfo := p.extractDocumentInfo(doc)

	var fieldTables []docx.Table
	for _, table := range doc.Tables {
		if IsFieldSpecificationTable(table) {
			fieldTables = append(fieldTables, table)
		}
	}
	p.logger.Infof("Found %d field specification tables", len(fieldTables))

	classificationMap, summary := ClassifyFields(doc.Tables, p.opts.HeaderTarget, p.opts.TrailerTarget)
	p.logger.Infof("Found %d specification tables from %d total tables", summary.SpecTables, summary.TotalTables)
	p.logger.Infof("Classification: %d header, %d body, %d trailer (%d unique fields)",
		summary.Header, summary.Body, summary.Trailer, summary.UniqueFields)

	var columns []schema.ColumnSchema
	columnCounter := 1 // Global column counter for unique IDs
	for tableIdx, table := range fieldTables {
		tableColumns := p.parseTableToColumns(ctx, table, classificationMap, tableIdx+1, columnCounter)
		columns = append(columns, tableColumns...)
		columnCounter += len(tableColumns)
	}
	p.logger.Infof("Extracted %d columns", len(columns))

	tableSchema := schema.TableSchema{
		TableName:        defaultTableName(metadataID),
		TableDescription: documentInfo.Title,
		Columns:          columns,
	}

	return &schema.MetadataDocument{
		Version:      "1.0",
		DocumentInfo: documentInfo,
		Tables:       []schema.TableSchema{tableSchema},
	}, nil
}

// extractDocumentInfo pulls the title and version out of the leading
// paragraphs, falling back to the filename stem and "1.0".
func (p *DocumentParser) extractDocumentInfo(doc *docx.Document) schema.DocumentInfo {
	title := ""
	for i, para := range doc.Paragraphs {
		if i >= 5 {
			break
		}
		if strings.HasPrefix(para.StyleName, "Heading") && strings.TrimSpace(para.Text) != "" {
			title = strings.TrimSpace(para.Text)
			break
		}
	}
	if title == "" {
		base := filepath.Base(doc.Path)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}

	version := "1.0"
	for i, para := range doc.Paragraphs {
		if i >= 20 {
			break
		}
		if m := versionRe.FindStringSubmatch(para.Text); m != nil {
			version = m[1]
			break
		}
	}

	return schema.DocumentInfo{
		Title:       title,
		Version:     version,
		Description: fmt.Sprintf("Parsed from %s", filepath.Base(doc.Path)),
	}
}

// parseTableToColumns maps every valid data row of one specification table
// to a ColumnSchema. IDs are assigned in row order starting at
// startColumnID; enrichment calls then fan out concurrently.
func (p *DocumentParser) parseTableToColumns(
	ctx context.Context,
	table docx.Table,
	classificationMap map[string]SectionFlags,
	tableNum int,
	startColumnID int,
) []schema.ColumnSchema {
	roles := LocateColumns(table.HeaderRow())

	columns := make([]*schema.ColumnSchema, 0, len(table.Rows)-1)
	requests := make([]genai.EnrichmentRequest, 0, len(table.Rows)-1)

	nextID := startColumnID
	for rowIdx, row := range table.Rows[1:] {
		column, req := p.parseRowToColumn(row, roles, classificationMap, nextID)
		if column == nil {
			p.logger.Debugf("Skipping row %d in table %d: no usable field name", rowIdx+1, tableNum)
			continue
		}
		columns = append(columns, column)
		requests = append(requests, req)
		nextID++
	}

	// Enrichment is a pure function of each row's own text, so the calls
	// are order-independent; the columns slice fixes the output order.
	var wg sync.WaitGroup
	for i := range columns {
		wg.Add(1)
		go func(column *schema.ColumnSchema, req genai.EnrichmentRequest) {
			defer wg.Done()
			applyEnrichment(column, p.enrich(ctx, req))
		}(columns[i], requests[i])
	}
	wg.Wait()

	result := make([]schema.ColumnSchema, len(columns))
	for i, c := range columns {
		result[i] = *c
	}
	return result
}

// parseRowToColumn builds the non-enriched part of a ColumnSchema from one
// table row. It returns nil when the field name is empty or not a valid
// identifier.
func (p *DocumentParser) parseRowToColumn(
	row []string,
	roles map[Role]int,
	classificationMap map[string]SectionFlags,
	columnID int,
) (*schema.ColumnSchema, genai.EnrichmentRequest) {
	columnName := roleCell(row, roles, RoleFieldName)
	if !identifierRe.MatchString(columnName) {
		return nil, genai.EnrichmentRequest{}
	}

	description := roleCell(row, roles, RoleDescription)
	dataTypeRaw := roleCell(row, roles, RoleDataType)
	notes := roleCell(row, roles, RoleNotes)

	// Absent a nullable column the fields are assumed nullable.
	nullableRaw := "Y"
	if _, ok := roles[RoleNullable]; ok {
		nullableRaw = roleCell(row, roles, RoleNullable)
	}

	dataType := schema.ParseDataType(dataTypeRaw)

	flags, ok := classificationMap[columnName]
	if !ok {
		flags = ClassifyFieldByName(columnName, description)
	}

	finalDescription := description
	if finalDescription == "" {
		finalDescription = "No description provided"
	}

	column := &schema.ColumnSchema{
		ColumnID:    columnID,
		ColumnName:  columnName,
		Description: finalDescription,
		DataType:    dataType.Type,
		DataLength:  dataType.DataLength,
		Precision:   dataType.Precision,
		Scale:       dataType.Scale,
		Nullable:    schema.ParseNullable(nullableRaw),
		Notes:       notes,
		IsHeader:    flags.IsHeader,
		IsBody:      flags.IsBody,
		IsTrailer:   flags.IsTrailer,
	}

	req := genai.EnrichmentRequest{
		ColumnName:  columnName,
		Description: description,
		Notes:       notes,
		DataType:    dataType.Type,
	}
	return column, req
}

// enrich calls the oracle with a bounded timeout, degrading to the all-null
// defaults on any failure.
func (p *DocumentParser) enrich(ctx context.Context, req genai.EnrichmentRequest) *genai.ColumnEnrichment {
	if p.oracle == nil {
		return genai.DefaultEnrichment()
	}

	callCtx, cancel := context.WithTimeout(ctx, p.opts.OracleTimeout)
	defer cancel()

	enrichment, err := p.oracle.EnrichColumn(callCtx, req)
	if err != nil {
		p.logger.Warnf("Enrichment failed for %s: %v", req.ColumnName, err)
		return genai.DefaultEnrichment()
	}
	return enrichment
}

func applyEnrichment(column *schema.ColumnSchema, e *genai.ColumnEnrichment) {
	column.AllowedValues = e.AllowedValues
	column.FormatHint = e.FormatHint
	column.DefaultValue = e.DefaultValue
	column.IsSystemGenerated = e.IsSystemGenerated
	column.DataClassification = e.DataClassification
	column.ForeignKeyTable = e.ForeignKeyTable
	column.ForeignKeyColumn = e.ForeignKeyColumn
	column.BusinessRule = e.BusinessRule
	column.SampleValues = e.SampleValues
}

func roleCell(row []string, roles map[Role]int, role Role) string {
	idx, ok := roles[role]
	if !ok {
		return ""
	}
	return cellAt(row, idx)
}

var nonIdentifierRe = regexp.MustCompile(`[^a-z0-9_]+`)

// defaultTableName derives the aggregate table name from the metadata ID.
func defaultTableName(metadataID string) string {
	name := strings.ToLower(strings.TrimSpace(metadataID))
	name = nonIdentifierRe.ReplaceAllString(name, "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "extracted_table"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "t_" + name
	}
	return name
}
