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
package utils

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// GetDefaultOutputFilePath derives the output filename for a command when no
// --output flag was given.
func GetDefaultOutputFilePath(metadataID, commandName string) string {
	switch commandName {
	case "generate-ddl":
		return fmt.Sprintf("%s_ddl.sql", metadataID)
	default: // parse, get-metadata
		return fmt.Sprintf("%s_metadata.json", metadataID)
	}
}

// WriteOutputFile writes content to filePath, or to stdout when filePath is
// "-".
func WriteOutputFile(filePath string, content []byte) error {
	if filePath == "-" {
		_, err := os.Stdout.Write(content)
		return err
	}
	if err := os.WriteFile(filePath, content, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", filePath, err)
	}
	return nil
}

// ConfirmAction prompts on stdin before a destructive operation.
func ConfirmAction(actionDescription string) bool {
	reader := bufio.NewReader(os.Stdin)
	fmt.Printf("\n-------------------------------------------------------------\n")
	fmt.Printf("About to %s.\n", actionDescription)
	fmt.Print("Do you want to proceed? (yes/no): ")
	text, _ := reader.ReadString('\n')
	action := strings.TrimSpace(strings.ToLower(text))
	return action == "yes" || action == "y"
}
