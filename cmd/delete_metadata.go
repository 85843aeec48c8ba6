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

	"github.com/spf13/cobra"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/utils"
)

// deleteMetadataCmd represents the delete-metadata command
var deleteMetadataCmd = &cobra.Command{
	Use:     "delete-metadata",
	Short:   "Delete a stored metadata document from the database",
	Example: `./doc_schema_extractor delete-metadata --metadata-id payments_extract --dialect postgres --username user --password pass --database mydb`,
	RunE:    runDeleteMetadata,
}

func runDeleteMetadata(cmd *cobra.Command, args []string) error {
	metadataID := cmd.Flag("metadata-id").Value.String()
	if metadataID == "" {
		return fmt.Errorf("--metadata-id is required")
	}

	skipConfirm, _ := cmd.Flags().GetBool("yes")
	if !skipConfirm && !utils.ConfirmAction(fmt.Sprintf("delete metadata %q from database %s", metadataID, appConfig.Database.DBName)) {
		logger.Infof("Metadata deletion aborted by user.")
		return nil
	}

	db, err := setupStore()
	if err != nil {
		return err
	}
	defer db.Close()

	existed, err := db.DeleteMetadata(cmd.Context(), metadataID)
	if err != nil {
		return err
	}
	if !existed {
		logger.Warnf("No metadata record found for ID %s", metadataID)
		return nil
	}
	logger.Infof("Metadata %s deleted.", metadataID)
	return nil
}

func init() {
	var metadataID string
	var skipConfirm bool

	deleteMetadataCmd.Flags().StringVar(&metadataID, "metadata-id", "", "Metadata ID to delete")
	deleteMetadataCmd.Flags().BoolVar(&skipConfirm, "yes", false, "Skip the confirmation prompt")
}
