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
package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/genai"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/parser"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/utils"
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:     "parse <document.docx>",
	Short:   "Parse a field specification document into a metadata document",
	Long:    `Reads a .docx field specification document, extracts every column definition, classifies fields into header, body, and trailer sections, and writes the resulting metadata document as JSON. With --save the document is also persisted to the configured database.`,
	Example: `./doc_schema_extractor parse payments_extract_spec.docx --metadata-id payments_extract --out_file payments_extract_metadata.json --save --dialect postgres --username user --password pass --database mydb`,
	Args:    cobra.ExactArgs(1),
	RunE:    runParse,
}

func runParse(cmd *cobra.Command, args []string) error {
	docPath := args[0]

	metadataID := cmd.Flag("metadata-id").Value.String()
	if metadataID == "" {
		base := filepath.Base(docPath)
		metadataID = strings.TrimSuffix(base, filepath.Ext(base))
	}

	outputFile := cmd.Flag("out_file").Value.String()
	if outputFile == "" {
		outputFile = utils.GetDefaultOutputFilePath(metadataID, "parse")
	}

	save, _ := cmd.Flags().GetBool("save")

	ctx := cmd.Context()

	oracle := setupOracle(cmd)
	if oracle != nil {
		defer oracle.Close()
	}

	opts := parser.Options{
		HeaderTarget:  appConfig.Parser.HeaderTarget,
		TrailerTarget: appConfig.Parser.TrailerTarget,
		OracleTimeout: appConfig.Parser.OracleTimeout,
	}
	p := parser.New(oracle, opts, logger)

	doc, err := p.ParseFile(ctx, docPath, metadataID)
	if err != nil {
		return fmt.Errorf("document parsing failed: %w", err)
	}
	logger.Infof("Parsed %d columns from %s", doc.ColumnCount(), docPath)

	payload, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize metadata document: %w", err)
	}

	if err := utils.WriteOutputFile(outputFile, payload); err != nil {
		return err
	}
	logger.Infof("Metadata document written to: %s", outputFile)

	if !save {
		return nil
	}

	db, err := setupStore()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}

	rec := &store.MetadataRecord{
		MetadataID:   metadataID,
		SrcDocName:   filepath.Base(docPath),
		SrcDocPath:   docPath,
		MetadataJSON: payload,
		Description:  doc.DocumentInfo.Description,
		Status:       store.StatusProcessed,
	}
	if err := db.SaveMetadata(ctx, rec); err != nil {
		return err
	}
	logger.Infof("Metadata %s saved to database %s", metadataID, appConfig.Database.DBName)
	return nil
}

// setupOracle builds the enrichment oracle, or returns nil when no usable
// API key is configured. A nil oracle degrades every column to the default
// enrichment.
func setupOracle(cmd *cobra.Command) genai.Oracle {
	if appConfig.GeminiAPIKey == "" {
		logger.Warnf("No Gemini API key provided. Column enrichment will be skipped.")
		return nil
	}

	oracle, err := genai.NewClient(cmd.Context(), genai.Config{
		APIKey: appConfig.GeminiAPIKey,
		Model:  appConfig.GeminiModel,
	}, logger)
	if err != nil {
		logger.Warnf("Failed to create Gemini client: %v. Column enrichment will be skipped.", err)
		return nil
	}

	if err := oracle.IsAPIKeyValid(cmd.Context()); err != nil {
		logger.Warnf("Gemini API key provided is invalid. Column enrichment will be skipped.")
		oracle.Close()
		return nil
	}
	return oracle
}

func init() {
	var metadataID string
	var outputFile string
	var save bool

	parseCmd.Flags().StringVar(&metadataID, "metadata-id", "", "Identifier for the extracted metadata (defaults to the document filename stem)")
	parseCmd.Flags().StringVarP(&outputFile, "out_file", "o", "", "File path for the metadata JSON output (defaults to <metadata-id>_metadata.json, '-' for stdout)")
	parseCmd.Flags().BoolVar(&save, "save", false, "Persist the metadata document to the configured database")
}
