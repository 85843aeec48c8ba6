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
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/utils"
)

// getMetadataCmd represents the get-metadata command
var getMetadataCmd = &cobra.Command{
	Use:     "get-metadata",
	Short:   "Retrieve stored metadata documents from the database",
	Long:    `With --metadata-id, writes the stored metadata JSON for that document. Without it, lists all stored metadata records.`,
	Example: `./doc_schema_extractor get-metadata --metadata-id payments_extract --dialect postgres --username user --password pass --database mydb`,
	RunE:    runGetMetadata,
}

func runGetMetadata(cmd *cobra.Command, args []string) error {
	db, err := setupStore()
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	metadataID := cmd.Flag("metadata-id").Value.String()

	if metadataID == "" {
		records, err := db.ListMetadata(ctx)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			logger.Infof("No metadata records found in database %s", appConfig.Database.DBName)
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "METADATA ID\tSOURCE DOCUMENT\tSTATUS\tUPDATED")
		for _, rec := range records {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				rec.MetadataID, rec.SrcDocName, rec.Status, rec.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
		return w.Flush()
	}

	rec, err := db.GetMetadata(ctx, metadataID)
	if err != nil {
		return err
	}

	outputFile := cmd.Flag("out_file").Value.String()
	if outputFile == "" {
		outputFile = "-"
	}
	if err := utils.WriteOutputFile(outputFile, rec.MetadataJSON); err != nil {
		return err
	}
	if outputFile != "-" {
		logger.Infof("Metadata %s written to: %s", metadataID, outputFile)
	}
	return nil
}

func init() {
	var metadataID string
	var outputFile string

	getMetadataCmd.Flags().StringVar(&metadataID, "metadata-id", "", "Metadata ID to retrieve (omit to list all records)")
	getMetadataCmd.Flags().StringVarP(&outputFile, "out_file", "o", "", "File path for the metadata JSON output (defaults to stdout)")
}
