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

// Package ddl renders extracted metadata documents as CREATE TABLE
// statements, with dialect-aware quoting and column comments.
package ddl

import (
	"fmt"
	"strings"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/schema"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store"
)

// Generator renders DDL for one SQL dialect. The dialect handler supplies
// identifier quoting; comment syntax is selected by dialect name.
type Generator struct {
	dialect string
	handler store.DialectHandler
}

// New returns a Generator for the given dialect, or an error when the
// dialect has no registered handler.
func New(dialect string) (*Generator, error) {
	handler, err := store.GetDialectHandler(dialect)
	if err != nil {
		return nil, err
	}
	return &Generator{dialect: dialect, handler: handler}, nil
}

// Generate renders CREATE TABLE statements (plus comment statements where
// the dialect keeps comments out of the table body) for every table in the
// document.
func (g *Generator) Generate(doc *schema.MetadataDocument) (string, error) {
	if doc == nil || len(doc.Tables) == 0 {
		return "", fmt.Errorf("metadata document has no tables")
	}

	var out strings.Builder
	for i, table := range doc.Tables {
		if table.TableName == "" {
			return "", fmt.Errorf("table %d has no name", i)
		}
		if i > 0 {
			out.WriteString("\n")
		}
		g.writeCreateTable(&out, table)
		g.writeComments(&out, table)
	}
	return out.String(), nil
}

func (g *Generator) writeCreateTable(out *strings.Builder, table schema.TableSchema) {
	fmt.Fprintf(out, "CREATE TABLE %s (\n", g.handler.QuoteIdentifier(table.TableName))

	for i, column := range table.Columns {
		fmt.Fprintf(out, "    %s %s", g.handler.QuoteIdentifier(column.ColumnName), columnType(column))
		if !column.Nullable {
			out.WriteString(" NOT NULL")
		}
		if column.DefaultValue != nil && *column.DefaultValue != "" {
			fmt.Fprintf(out, " DEFAULT %s", sqlLiteral(*column.DefaultValue))
		}
		if g.dialect == "mysql" || g.dialect == "cloudsqlmysql" {
			if comment := columnComment(column); comment != "" {
				fmt.Fprintf(out, " COMMENT %s", sqlLiteral(comment))
			}
		}
		if i < len(table.Columns)-1 {
			out.WriteString(",")
		}
		out.WriteString("\n")
	}
	out.WriteString(");\n")
}

// writeComments emits per-column comment statements for dialects that do not
// support inline column comments.
func (g *Generator) writeComments(out *strings.Builder, table schema.TableSchema) {
	switch g.dialect {
	case "postgres", "cloudsqlpostgres":
		if table.TableDescription != "" {
			fmt.Fprintf(out, "COMMENT ON TABLE %s IS %s;\n",
				g.handler.QuoteIdentifier(table.TableName), sqlLiteral(table.TableDescription))
		}
		for _, column := range table.Columns {
			comment := columnComment(column)
			if comment == "" {
				continue
			}
			fmt.Fprintf(out, "COMMENT ON COLUMN %s.%s IS %s;\n",
				g.handler.QuoteIdentifier(table.TableName),
				g.handler.QuoteIdentifier(column.ColumnName),
				sqlLiteral(comment))
		}
	case "sqlserver", "cloudsqlsqlserver":
		for _, column := range table.Columns {
			comment := columnComment(column)
			if comment == "" {
				continue
			}
			fmt.Fprintf(out, "EXEC sp_addextendedproperty N'MS_Description', N%s, N'SCHEMA', N'dbo', N'TABLE', %s, N'COLUMN', %s;\n",
				sqlLiteral(comment),
				g.handler.QuoteIdentifier(table.TableName),
				g.handler.QuoteIdentifier(column.ColumnName))
		}
	}
}

// columnType renders the SQL type with its length or precision arguments.
func columnType(column schema.ColumnSchema) string {
	switch {
	case column.DataLength != nil:
		return fmt.Sprintf("%s(%d)", column.DataType, *column.DataLength)
	case column.Precision != nil:
		scale := 0
		if column.Scale != nil {
			scale = *column.Scale
		}
		return fmt.Sprintf("%s(%d,%d)", column.DataType, *column.Precision, scale)
	default:
		return column.DataType
	}
}

// columnComment combines the description with the section label and any
// format hint into one comment string.
func columnComment(column schema.ColumnSchema) string {
	parts := []string{}
	if column.Description != "" && column.Description != "No description provided" {
		parts = append(parts, column.Description)
	}
	if section := column.Section(); section != schema.SectionUnknown {
		parts = append(parts, fmt.Sprintf("Section: %s", section))
	}
	if column.FormatHint != nil && *column.FormatHint != "" {
		parts = append(parts, fmt.Sprintf("Format: %s", *column.FormatHint))
	}
	if len(column.AllowedValues) > 0 {
		parts = append(parts, fmt.Sprintf("Allowed: [%s]", strings.Join(column.AllowedValues, ", ")))
	}
	return strings.Join(parts, " | ")
}

// sqlLiteral single-quotes a string value, doubling embedded quotes.
func sqlLiteral(value string) string {
	return fmt.Sprintf("'%s'", strings.ReplaceAll(value, "'", "''"))
}
