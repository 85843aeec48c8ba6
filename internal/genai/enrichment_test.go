package genai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEnrichment(t *testing.T) {
	payload := `{
		"allowed_values": ["CREDIT", "DEBIT"],
		"format_hint": "ISO 4217",
		"default_value": null,
		"is_system_generated": false,
		"data_classification": "PII",
		"foreign_key_table": null,
		"foreign_key_column": null,
		"business_rule": "Must be a valid currency code",
		"sample_values": ["USD", "EUR"]
	}`

	tests := []struct {
		name string
		text string
	}{
		{name: "bare JSON", text: payload},
		{name: "json code fence", text: "```json\n" + payload + "\n```"},
		{name: "plain code fence", text: "```\n" + payload + "\n```"},
		{name: "surrounding whitespace", text: "\n\n  " + payload + "  \n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enrichment, err := DecodeEnrichment(tt.text)
			require.NoError(t, err)

			assert.Equal(t, []string{"CREDIT", "DEBIT"}, enrichment.AllowedValues)
			require.NotNil(t, enrichment.FormatHint)
			assert.Equal(t, "ISO 4217", *enrichment.FormatHint)
			assert.Nil(t, enrichment.DefaultValue)
			assert.False(t, enrichment.IsSystemGenerated)
			require.NotNil(t, enrichment.DataClassification)
			assert.Equal(t, "PII", *enrichment.DataClassification)
			require.NotNil(t, enrichment.BusinessRule)
			assert.Equal(t, []string{"USD", "EUR"}, enrichment.SampleValues)
		})
	}
}

func TestDecodeEnrichmentInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "prose", text: "The column holds currency codes."},
		{name: "empty", text: ""},
		{name: "truncated JSON", text: `{"allowed_values": ["CREDIT"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeEnrichment(tt.text)
			require.Error(t, err)

			var unparseable *ErrUnparseableResponse
			assert.True(t, errors.As(err, &unparseable))
		})
	}
}

func TestDefaultEnrichment(t *testing.T) {
	e := DefaultEnrichment()

	assert.Nil(t, e.AllowedValues)
	assert.Nil(t, e.FormatHint)
	assert.Nil(t, e.DefaultValue)
	assert.False(t, e.IsSystemGenerated)
	assert.Nil(t, e.DataClassification)
	assert.Nil(t, e.ForeignKeyTable)
	assert.Nil(t, e.ForeignKeyColumn)
	assert.Nil(t, e.BusinessRule)
	assert.Nil(t, e.SampleValues)
}

func TestBuildEnrichmentPrompt(t *testing.T) {
	prompt := buildEnrichmentPrompt(EnrichmentRequest{
		ColumnName:  "currency_code",
		Description: "ISO currency code",
		Notes:       "See ISO 4217",
		DataType:    "CHAR",
	})

	assert.Contains(t, prompt, "Column Name: currency_code")
	assert.Contains(t, prompt, "Description: ISO currency code")
	assert.Contains(t, prompt, "Notes: See ISO 4217")
	assert.Contains(t, prompt, "Data Type: CHAR")
	assert.True(t, strings.Contains(prompt, "Return ONLY valid JSON"))
}

func TestWithRetryRetriesTransientErrors(t *testing.T) {
	opts := RetryOptions{
		MaxAttempts:       3,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}

	attempts := 0
	result, err := withRetry(context.Background(), opts, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 3 {
			return "", &ErrOracleCall{Msg: "transient"}
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, 3, attempts)
}

func TestWithRetryStopsOnTerminalError(t *testing.T) {
	opts := DefaultRetryOptions

	attempts := 0
	_, err := withRetry(context.Background(), opts, func(ctx context.Context) (*ColumnEnrichment, error) {
		attempts++
		return nil, &ErrUnparseableResponse{Msg: "bad JSON"}
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts, "unparseable responses must not be retried")
}

func TestWithRetryExhaustsAttempts(t *testing.T) {
	opts := RetryOptions{
		MaxAttempts:       2,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}

	attempts := 0
	_, err := withRetry(context.Background(), opts, func(ctx context.Context) (string, error) {
		attempts++
		return "", &ErrTimeout{Msg: "slow oracle"}
	})

	require.Error(t, err)
	assert.Equal(t, 2, attempts)

	var timeout *ErrTimeout
	assert.True(t, errors.As(err, &timeout))
}

func TestWithRetryHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	_, err := withRetry(ctx, DefaultRetryOptions, func(ctx context.Context) (string, error) {
		attempts++
		return "", nil
	})

	require.Error(t, err)
	assert.Equal(t, 0, attempts)

	var cancelled *ErrCancelled
	assert.True(t, errors.As(err, &cancelled))
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(&ErrOracleCall{}))
	assert.True(t, isRetryableError(&ErrTimeout{}))
	assert.False(t, isRetryableError(&ErrUnparseableResponse{}))
	assert.False(t, isRetryableError(&ErrCancelled{}))
	assert.False(t, isRetryableError(errors.New("plain error")))
}
