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
	"os"

	"github.com/spf13/cobra"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/ddl"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/schema"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/utils"
)

// generateDDLCmd represents the generate-ddl command
var generateDDLCmd = &cobra.Command{
	Use:     "generate-ddl",
	Short:   "Generate CREATE TABLE statements from an extracted metadata document",
	Long:    `Renders a metadata document as dialect-specific CREATE TABLE statements with column comments. The document is read from a JSON file (--in_file) or loaded from the database by metadata ID.`,
	Example: `./doc_schema_extractor generate-ddl --metadata-id payments_extract --dialect postgres --username user --password pass --database mydb --out_file payments_extract_ddl.sql`,
	RunE:    runGenerateDDL,
}

func runGenerateDDL(cmd *cobra.Command, args []string) error {
	if err := validateDialect(appConfig.Database.Dialect); err != nil {
		return err
	}

	metadataID := cmd.Flag("metadata-id").Value.String()
	inputFile := cmd.Flag("in_file").Value.String()
	if metadataID == "" && inputFile == "" {
		return fmt.Errorf("either --metadata-id or --in_file is required")
	}

	var payload []byte
	switch {
	case inputFile != "":
		var err error
		payload, err = os.ReadFile(inputFile)
		if err != nil {
			return fmt.Errorf("failed to read metadata file %s: %w", inputFile, err)
		}
		if metadataID == "" {
			metadataID = "metadata"
		}
	default:
		db, err := setupStore()
		if err != nil {
			return err
		}
		defer db.Close()

		rec, err := db.GetMetadata(cmd.Context(), metadataID)
		if err != nil {
			return err
		}
		payload = rec.MetadataJSON
	}

	var doc schema.MetadataDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return fmt.Errorf("failed to decode metadata document: %w", err)
	}

	generator, err := ddl.New(appConfig.Database.Dialect)
	if err != nil {
		return err
	}
	statements, err := generator.Generate(&doc)
	if err != nil {
		return fmt.Errorf("DDL generation failed: %w", err)
	}

	outputFile := cmd.Flag("out_file").Value.String()
	if outputFile == "" {
		outputFile = utils.GetDefaultOutputFilePath(metadataID, "generate-ddl")
	}
	if err := utils.WriteOutputFile(outputFile, []byte(statements)); err != nil {
		return err
	}
	logger.Infof("DDL statements written to: %s", outputFile)
	return nil
}

func init() {
	var metadataID string
	var inputFile string
	var outputFile string

	generateDDLCmd.Flags().StringVar(&metadataID, "metadata-id", "", "Metadata ID to load from the database")
	generateDDLCmd.Flags().StringVar(&inputFile, "in_file", "", "Metadata JSON file to read instead of the database")
	generateDDLCmd.Flags().StringVarP(&outputFile, "out_file", "o", "", "File path for the generated SQL (defaults to <metadata-id>_ddl.sql, '-' for stdout)")
}
