// Package docx reads the paragraph and table structure of Word documents.
//
// Only the pieces of WordprocessingML that the extraction pipeline needs are
// decoded: paragraph text with style names, and table rows of plain cell
// texts. Everything else in word/document.xml is skipped.
package docx

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// Read parses a .docx file by streaming word/document.xml from the ZIP
// archive. Paragraphs inside table cells contribute to the cell text, not to
// the document paragraph list, matching how word processors present them.
func Read(path string) (*Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open docx archive: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	doc := &Document{Path: path}

	decoder := xml.NewDecoder(rc)

	var (
		currentText    strings.Builder
		inParagraph    bool
		paragraphStyle string

		tableDepth  int
		activeTable *Table
		activeRow   []string
		cellText    strings.Builder
		inCell      bool
	)

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
				if tableDepth == 1 {
					activeTable = &Table{}
				}
			case "tr":
				if tableDepth == 1 {
					activeRow = nil
				}
			case "tc":
				if tableDepth == 1 {
					inCell = true
					cellText.Reset()
				}
			case "p":
				inParagraph = true
				currentText.Reset()
				paragraphStyle = ""
			case "pStyle":
				if inParagraph {
					for _, attr := range t.Attr {
						if attr.Name.Local == "val" {
							paragraphStyle = attr.Value
						}
					}
				}
			}

		case xml.CharData:
			if inParagraph {
				currentText.Write(t)
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "p":
				if !inParagraph {
					continue
				}
				inParagraph = false
				text := strings.TrimSpace(currentText.String())
				if inCell {
					if cellText.Len() > 0 {
						cellText.WriteString("\n")
					}
					cellText.WriteString(text)
					continue
				}
				if tableDepth > 0 {
					// Paragraph in table structure outside a tracked cell
					// (e.g. inside a nested table): drop it.
					continue
				}
				doc.Paragraphs = append(doc.Paragraphs, Paragraph{
					Text:      text,
					StyleName: styleName(paragraphStyle),
				})
			case "tc":
				if tableDepth == 1 && inCell {
					inCell = false
					activeRow = append(activeRow, strings.TrimSpace(cellText.String()))
				}
			case "tr":
				if tableDepth == 1 && activeRow != nil {
					activeTable.Rows = append(activeTable.Rows, activeRow)
					activeRow = nil
				}
			case "tbl":
				if tableDepth == 1 && activeTable != nil {
					doc.Tables = append(doc.Tables, *activeTable)
					activeTable = nil
				}
				if tableDepth > 0 {
					tableDepth--
				}
			}
		}
	}

	return doc, nil
}

// styleName converts a style ID from pStyle ("Heading1", "Title") into the
// display form word processors use ("Heading 1", "Title"). Only heading
// styles need the space inserted; everything else passes through.
func styleName(styleID string) string {
	lower := strings.ToLower(styleID)
	for _, prefix := range []string{"heading", "titre", "überschrift"} {
		if strings.HasPrefix(lower, prefix) {
			rest := styleID[len(prefix):]
			if len(rest) == 1 && rest[0] >= '1' && rest[0] <= '9' {
				return styleID[:len(prefix)] + " " + rest
			}
		}
	}
	if styleID == "" {
		return "Normal"
	}
	return styleID
}
