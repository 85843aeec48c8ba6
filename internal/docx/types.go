package docx

// Paragraph is a block of text with its Word style name ("Heading 1",
// "Normal", ...). Style names are as stored in the document, already
// resolved from the style ID where possible.
type Paragraph struct {
	Text      string `json:"text"`
	StyleName string `json:"style_name"`
}

// Table is a table as it appears in the document: an ordered list of rows,
// each an ordered list of cell texts. The first row is conventionally the
// header row.
type Table struct {
	Rows [][]string `json:"rows"`
}

// HeaderRow returns the first row of the table, or nil for an empty table.
func (t Table) HeaderRow() []string {
	if len(t.Rows) == 0 {
		return nil
	}
	return t.Rows[0]
}

// ColumnCount reports the width of the header row.
func (t Table) ColumnCount() int {
	return len(t.HeaderRow())
}

// Document is the result of reading a .docx file: the ordered paragraphs and
// tables of the document body. It is immutable once built.
type Document struct {
	Path       string      `json:"path"`
	Paragraphs []Paragraph `json:"paragraphs"`
	Tables     []Table     `json:"tables"`
}
