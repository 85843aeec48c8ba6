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
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/config"
	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store"
	_ "github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store/mysql"
	_ "github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store/postgres"
	_ "github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store/sqlserver"
)

var (
	verbose      bool
	geminiAPIKey string
	geminiModel  string

	// Database connection flags
	dialect                        string
	host                           string
	port                           int
	username                       string
	password                       string
	dbName                         string
	cloudSQLInstanceConnectionName string
	cloudSQLUsePrivateIP           bool

	appConfig *config.Config
	logger    *zap.SugaredLogger
)

var rootCmd = &cobra.Command{
	Use:   "doc_schema_extractor",
	Short: "A tool to extract table schemas from specification documents",
	Long: `doc_schema_extractor is a CLI tool that parses .docx field specification
documents, classifies every field into header, body, or trailer sections, and
emits a structured metadata document ready for storage or DDL generation.`,
	PersistentPreRunE: initFlagsAndConfig,
}

// initFlagsAndConfig builds the effective configuration: viper defaults and
// DOCPARSE_* environment variables first, then explicit flags on top.
func initFlagsAndConfig(cmd *cobra.Command, args []string) error {
	cfg := config.GetConfig()

	if cmd != nil {
		flags := cmd.Flags()
		if flags.Changed("dialect") {
			cfg.Database.Dialect = dialect
		}
		if flags.Changed("host") {
			cfg.Database.Host = host
		}
		if flags.Changed("port") {
			cfg.Database.Port = port
		}
		cfg.Database.User = username
		cfg.Database.Password = password
		cfg.Database.DBName = dbName
		cfg.Database.CloudSQLInstanceConnectionName = cloudSQLInstanceConnectionName
		cfg.Database.UsePrivateIP = cloudSQLUsePrivateIP
	}

	if geminiAPIKey == "" {
		geminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	cfg.GeminiAPIKey = geminiAPIKey
	if geminiModel != "" {
		cfg.GeminiModel = geminiModel
	}

	config.SetConfig(cfg)
	appConfig = cfg

	var err error
	logger, err = newLogger(verbose)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	return nil
}

func newLogger(verbose bool) (*zap.SugaredLogger, error) {
	zapCfg := zap.NewProductionConfig()
	if verbose {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.DisableStacktrace = true
	l, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

func validateDialect(dialect string) error {
	supportedDialects := []string{"postgres", "cloudsqlpostgres", "mysql", "cloudsqlmysql", "sqlserver", "cloudsqlsqlserver"}
	for _, supported := range supportedDialects {
		if dialect == supported {
			return nil
		}
	}
	return fmt.Errorf("unsupported dialect: %s (only %s are supported)", dialect, strings.Join(supportedDialects, ", "))
}

func setupStore() (*store.DB, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("configuration is not initialized")
	}
	if err := validateDialect(appConfig.Database.Dialect); err != nil {
		return nil, err
	}
	db, err := store.New(appConfig.Database)
	if err != nil {
		logger.Errorf("Failed to connect to database: %v", err)
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	v := viper.GetViper()
	config.SetDefaults(v)
	v.SetEnvPrefix("DOCPARSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (development) logging")

	// Database connection flags
	rootCmd.PersistentFlags().StringVar(&dialect, "dialect", "postgres", fmt.Sprintf("Database dialect (%s)", strings.Join([]string{"postgres", "mysql", "sqlserver", "cloudsqlpostgres", "cloudsqlmysql", "cloudsqlsqlserver"}, ", ")))
	rootCmd.PersistentFlags().StringVar(&host, "host", "localhost", "Database host")
	rootCmd.PersistentFlags().IntVar(&port, "port", 5432, "Database port")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "Database username")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Database password")
	rootCmd.PersistentFlags().StringVar(&dbName, "database", "", "Database name")
	rootCmd.PersistentFlags().StringVar(&cloudSQLInstanceConnectionName, "cloudsql-instance-connection-name", "", "Cloud SQL instance connection name (for Cloud SQL dialects)")
	rootCmd.PersistentFlags().BoolVar(&cloudSQLUsePrivateIP, "cloudsql-use-private-ip", false, "Use private IP for Cloud SQL connection (Cloud SQL)")

	// Gemini flags
	rootCmd.PersistentFlags().StringVar(&geminiAPIKey, "gemini-api-key", "", "Gemini API key (can also be set via GEMINI_API_KEY environment variable)")
	rootCmd.PersistentFlags().StringVar(&geminiModel, "model", "", "Gemini model to use for column enrichment")

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(generateDDLCmd)
	rootCmd.AddCommand(getMetadataCmd)
	rootCmd.AddCommand(deleteMetadataCmd)
}
