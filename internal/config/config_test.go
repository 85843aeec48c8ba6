package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestSetDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	assert.Equal(t, "postgres", v.GetString("database.dialect"))
	assert.Equal(t, "localhost", v.GetString("database.host"))
	assert.Equal(t, 5432, v.GetInt("database.port"))
	assert.Equal(t, "disable", v.GetString("database.sslmode"))
	assert.Equal(t, 6, v.GetInt("parser.header_target"))
	assert.Equal(t, 3, v.GetInt("parser.trailer_target"))
	assert.Equal(t, 30*time.Second, v.GetDuration("parser.oracle_timeout"))
	assert.Equal(t, "gemini-1.5-flash-latest", v.GetString("gemini_model"))
}

func TestGetConfigReadsViperValues(t *testing.T) {
	v := viper.GetViper()
	SetDefaults(v)
	v.Set("database.dialect", "mysql")
	v.Set("parser.header_target", 8)
	defer func() {
		v.Set("database.dialect", "postgres")
		v.Set("parser.header_target", 6)
	}()

	cfg := GetConfig()
	assert.Equal(t, "mysql", cfg.Database.Dialect)
	assert.Equal(t, 8, cfg.Parser.HeaderTarget)
	assert.Equal(t, 3, cfg.Parser.TrailerTarget)
}
