package ddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoogleCloudPlatform/doc-schema-extraction/internal/schema"
	_ "github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store/mysql"
	_ "github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store/postgres"
	_ "github.com/GoogleCloudPlatform/doc-schema-extraction/internal/store/sqlserver"
)

func intPtr(n int) *int       { return &n }
func strPtr(s string) *string { return &s }

func testMetadataDocument() *schema.MetadataDocument {
	return &schema.MetadataDocument{
		Version: "1.0",
		DocumentInfo: schema.DocumentInfo{
			Title: "Payments Extract Specification",
		},
		Tables: []schema.TableSchema{
			{
				TableName:        "payments_extract",
				TableDescription: "Payments Extract Specification",
				Columns: []schema.ColumnSchema{
					{
						ColumnID:    1,
						ColumnName:  "header_id",
						Description: "Unique header identifier",
						DataType:    "VARCHAR",
						DataLength:  intPtr(35),
						Nullable:    false,
						IsHeader:    true,
					},
					{
						ColumnID:    2,
						ColumnName:  "transaction_amount",
						Description: "Amount of the transaction",
						DataType:    "DECIMAL",
						Precision:   intPtr(18),
						Scale:       intPtr(2),
						Nullable:    true,
						IsBody:      true,
						FormatHint:  strPtr("ISO 4217 minor units"),
					},
					{
						ColumnID:   3,
						ColumnName: "settlement_date",
						DataType:   "DATE",
						Nullable:   true,
						IsBody:     true,
					},
				},
			},
		},
	}
}

func TestGeneratePostgres(t *testing.T) {
	generator, err := New("postgres")
	require.NoError(t, err)

	out, err := generator.Generate(testMetadataDocument())
	require.NoError(t, err)

	assert.Contains(t, out, `CREATE TABLE "payments_extract" (`)
	assert.Contains(t, out, `"header_id" VARCHAR(35) NOT NULL`)
	assert.Contains(t, out, `"transaction_amount" DECIMAL(18,2)`)
	assert.Contains(t, out, `"settlement_date" DATE`)
	assert.Contains(t, out, `COMMENT ON TABLE "payments_extract" IS 'Payments Extract Specification';`)
	assert.Contains(t, out, `COMMENT ON COLUMN "payments_extract"."header_id" IS 'Unique header identifier | Section: header';`)
	assert.Contains(t, out, `Format: ISO 4217 minor units`)
}

func TestGenerateMySQL(t *testing.T) {
	generator, err := New("mysql")
	require.NoError(t, err)

	out, err := generator.Generate(testMetadataDocument())
	require.NoError(t, err)

	assert.Contains(t, out, "CREATE TABLE `payments_extract` (")
	assert.Contains(t, out, "`header_id` VARCHAR(35) NOT NULL COMMENT 'Unique header identifier | Section: header'")
	assert.NotContains(t, out, "COMMENT ON COLUMN", "mysql uses inline comments")
}

func TestGenerateSQLServer(t *testing.T) {
	generator, err := New("sqlserver")
	require.NoError(t, err)

	out, err := generator.Generate(testMetadataDocument())
	require.NoError(t, err)

	assert.Contains(t, out, "CREATE TABLE [payments_extract] (")
	assert.Contains(t, out, "[header_id] VARCHAR(35) NOT NULL")
	assert.Contains(t, out, "EXEC sp_addextendedproperty N'MS_Description'")
}

func TestGenerateEscapesQuotes(t *testing.T) {
	doc := testMetadataDocument()
	doc.Tables[0].Columns[0].Description = "The sender's identifier"

	generator, err := New("postgres")
	require.NoError(t, err)

	out, err := generator.Generate(doc)
	require.NoError(t, err)
	assert.Contains(t, out, "The sender''s identifier")
}

func TestGenerateDefaultValue(t *testing.T) {
	doc := testMetadataDocument()
	doc.Tables[0].Columns[2].DefaultValue = strPtr("19700101")

	generator, err := New("postgres")
	require.NoError(t, err)

	out, err := generator.Generate(doc)
	require.NoError(t, err)
	assert.Contains(t, out, `"settlement_date" DATE DEFAULT '19700101'`)
}

func TestGenerateUnknownDialect(t *testing.T) {
	_, err := New("db2")
	require.Error(t, err)
}

func TestGenerateEmptyDocument(t *testing.T) {
	generator, err := New("postgres")
	require.NoError(t, err)

	_, err = generator.Generate(&schema.MetadataDocument{})
	require.Error(t, err)

	_, err = generator.Generate(nil)
	require.Error(t, err)
}

func TestGenerateMissingTableName(t *testing.T) {
	doc := testMetadataDocument()
	doc.Tables[0].TableName = ""

	generator, err := New("postgres")
	require.NoError(t, err)

	_, err = generator.Generate(doc)
	require.Error(t, err)
}
