package extract

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

var (
	// paragraph matches one <w:p> element; <w:pPr> and friends are excluded by the [ >] guard.
	paragraph = regexp.MustCompile(`(?s)<w:p[ >].*?</w:p>`)
	// textRun matches <w:t>text</w:t> with any attributes, e.g. xml:space="preserve".
	textRun = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)
)

func extractDOCX(content []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("open DOCX: %w", err)
	}
	defer doc.Close()

	return documentText(doc.Editable().GetContent()), nil
}

// documentText concatenates the runs of every paragraph and puts each paragraph on its own line.
func documentText(documentXML string) string {
	var lines []string
	for _, p := range paragraph.FindAllString(documentXML, -1) {
		var b strings.Builder
		for _, run := range textRun.FindAllStringSubmatch(p, -1) {
			b.WriteString(html.UnescapeString(run[1]))
		}
		lines = append(lines, b.String())
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
