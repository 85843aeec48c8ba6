package docx

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeDocx builds a minimal .docx archive holding the given document.xml
// body.
func writeDocx(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	entry, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = entry.Write([]byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>` + body + `</w:body>
</w:document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	return path
}

func paragraphXML(style, text string) string {
	styleXML := ""
	if style != "" {
		styleXML = `<w:pPr><w:pStyle w:val="` + style + `"/></w:pPr>`
	}
	return `<w:p>` + styleXML + `<w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func TestReadParagraphs(t *testing.T) {
	path := writeDocx(t,
		paragraphXML("Heading1", "Payments Extract Specification")+
			paragraphXML("", "Version: 2.1")+
			paragraphXML("Heading2", "Field Definitions"))

	doc, err := Read(path)
	require.NoError(t, err)

	require.Len(t, doc.Paragraphs, 3)
	assert.Equal(t, "Payments Extract Specification", doc.Paragraphs[0].Text)
	assert.Equal(t, "Heading 1", doc.Paragraphs[0].StyleName)
	assert.Equal(t, "Version: 2.1", doc.Paragraphs[1].Text)
	assert.Equal(t, "Normal", doc.Paragraphs[1].StyleName)
	assert.Equal(t, "Heading 2", doc.Paragraphs[2].StyleName)
	assert.Equal(t, path, doc.Path)
}

func TestReadTable(t *testing.T) {
	table := `<w:tbl>
		<w:tr><w:tc>` + paragraphXML("", "Field Name") + `</w:tc><w:tc>` + paragraphXML("", "Data Type") + `</w:tc></w:tr>
		<w:tr><w:tc>` + paragraphXML("", "header_id") + `</w:tc><w:tc>` + paragraphXML("", "VARCHAR(35)") + `</w:tc></w:tr>
	</w:tbl>`
	path := writeDocx(t, table)

	doc, err := Read(path)
	require.NoError(t, err)

	require.Len(t, doc.Tables, 1)
	require.Len(t, doc.Tables[0].Rows, 2)
	assert.Equal(t, []string{"Field Name", "Data Type"}, doc.Tables[0].Rows[0])
	assert.Equal(t, []string{"header_id", "VARCHAR(35)"}, doc.Tables[0].Rows[1])
	assert.Empty(t, doc.Paragraphs, "cell paragraphs must not leak into the paragraph list")
}

func TestReadMultiParagraphCell(t *testing.T) {
	table := `<w:tbl><w:tr><w:tc>` +
		paragraphXML("", "first line") + paragraphXML("", "second line") +
		`</w:tc></w:tr></w:tbl>`
	path := writeDocx(t, table)

	doc, err := Read(path)
	require.NoError(t, err)

	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "first line\nsecond line", doc.Tables[0].Rows[0][0])
}

func TestReadNestedTableIsFlattenedAway(t *testing.T) {
	nested := `<w:tbl>
		<w:tr><w:tc>` + paragraphXML("", "outer cell") + `</w:tc></w:tr>
		<w:tr><w:tc><w:tbl><w:tr><w:tc>` + paragraphXML("", "inner cell") + `</w:tc></w:tr></w:tbl>` + paragraphXML("", "after nested") + `</w:tc></w:tr>
	</w:tbl>`
	path := writeDocx(t, nested)

	doc, err := Read(path)
	require.NoError(t, err)

	// Only the outermost table is captured.
	require.Len(t, doc.Tables, 1)
	assert.Equal(t, "outer cell", doc.Tables[0].Rows[0][0])
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.docx"))
	assert.Error(t, err)
}

func TestReadArchiveWithoutDocumentXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	w := zip.NewWriter(f)
	entry, err := w.Create("word/styles.xml")
	require.NoError(t, err)
	_, err = entry.Write([]byte("<w:styles/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, f.Close())

	_, err = Read(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml not found")
}

func TestStyleName(t *testing.T) {
	tests := []struct {
		styleID string
		want    string
	}{
		{"Heading1", "Heading 1"},
		{"Heading9", "Heading 9"},
		{"Title", "Title"},
		{"", "Normal"},
		{"BodyText", "BodyText"},
	}

	for _, tt := range tests {
		t.Run(tt.styleID, func(t *testing.T) {
			assert.Equal(t, tt.want, styleName(tt.styleID))
		})
	}
}

func TestTableHelpers(t *testing.T) {
	table := Table{Rows: [][]string{
		{"Field Name", "Data Type"},
		{"header_id", "VARCHAR(35)"},
	}}

	assert.Equal(t, []string{"Field Name", "Data Type"}, table.HeaderRow())
	assert.Equal(t, 2, table.ColumnCount())

	empty := Table{}
	assert.Nil(t, empty.HeaderRow())
	assert.Equal(t, 0, empty.ColumnCount())
}
