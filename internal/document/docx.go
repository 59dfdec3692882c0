package document

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// extractDocx returns body paragraphs first and then table cell text, one
// entry per line, skipping blank ones.
func extractDocx(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("no %s found in docx", docxBody)
	}

	rc, err := body.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	paragraphs, cells, err := walkDocument(io.LimitReader(rc, MaxFileSize*4))
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(paragraphs)+len(cells))
	for _, s := range append(paragraphs, cells...) {
		if strings.TrimSpace(s) != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n"), nil
}

// walkDocument streams WordprocessingML and collects paragraph text outside
// tables and the text of each table cell. A cell's paragraphs are joined by
// newlines. Paragraphs nested in text boxes are emitted on their own, ahead
// of the paragraph that holds them.
func walkDocument(r io.Reader) (paragraphs, cells []string, err error) {
	dec := xml.NewDecoder(r)

	var (
		tableDepth int
		inText     bool
		paras      []*strings.Builder
		cell       []string
		cellOpen   bool
	)

	// current is the innermost open paragraph, nil outside any paragraph
	current := func() *strings.Builder {
		if len(paras) == 0 {
			return nil
		}
		return paras[len(paras)-1]
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "tbl":
				tableDepth++
			case "tc":
				if tableDepth == 1 {
					cell, cellOpen = nil, true
				}
			case "p":
				paras = append(paras, &strings.Builder{})
			case "t":
				inText = true
			case "tab":
				if p := current(); p != nil {
					p.WriteByte('\t')
				}
			case "br", "cr":
				if p := current(); p != nil {
					p.WriteByte('\n')
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				p := current()
				if p == nil {
					continue
				}
				paras = paras[:len(paras)-1]
				switch {
				case tableDepth == 0:
					paragraphs = append(paragraphs, p.String())
				case cellOpen:
					cell = append(cell, p.String())
				}
			case "tc":
				if tableDepth == 1 && cellOpen {
					cells = append(cells, strings.Join(cell, "\n"))
					cellOpen = false
				}
			case "tbl":
				tableDepth--
			}
		case xml.CharData:
			if p := current(); inText && p != nil {
				p.Write(t)
			}
		}
	}
	return paragraphs, cells, nil
}
