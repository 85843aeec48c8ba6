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
package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Database     DatabaseConfig
	Parser       ParserConfig
	GeminiAPIKey string
	GeminiModel  string
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Dialect                        string
	Host                           string
	Port                           int
	User                           string
	Password                       string
	DBName                         string
	SSLMode                        string
	CloudSQLInstanceConnectionName string
	UsePrivateIP                   bool
}

// ParserConfig holds tunables for the document parsing pipeline.
//
// HeaderTarget and TrailerTarget are the rebalancing targets for the section
// classifier: the top-N header candidates and top-M trailer candidates by
// score are locked into those sections, everything else becomes body.
type ParserConfig struct {
	HeaderTarget  int
	TrailerTarget int
	OracleTimeout time.Duration
}

var globalConfig *Config

// GetConfig returns the configuration, seeded from viper-bound defaults and
// environment variables. Flags in root.go overwrite these values afterwards.
func GetConfig() *Config {
	v := viper.GetViper()
	return &Config{
		Database: DatabaseConfig{
			Dialect: v.GetString("database.dialect"),
			Host:    v.GetString("database.host"),
			Port:    v.GetInt("database.port"),
			SSLMode: v.GetString("database.sslmode"),
		},
		Parser: ParserConfig{
			HeaderTarget:  v.GetInt("parser.header_target"),
			TrailerTarget: v.GetInt("parser.trailer_target"),
			OracleTimeout: v.GetDuration("parser.oracle_timeout"),
		},
		GeminiAPIKey: v.GetString("gemini_api_key"),
		GeminiModel:  v.GetString("gemini_model"),
	}
}

// SetConfig sets the global configuration.
func SetConfig(cfg *Config) {
	globalConfig = cfg
}

// SetDefaults registers default configuration values with viper. Called once
// from the root command before flags are parsed.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.dialect", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("parser.header_target", 6)
	v.SetDefault("parser.trailer_target", 3)
	v.SetDefault("parser.oracle_timeout", 30*time.Second)
	v.SetDefault("gemini_model", "gemini-1.5-flash-latest")
}
