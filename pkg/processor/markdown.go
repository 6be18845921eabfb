package processor

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
)

// Limits for the text sniffer and frontmatter scanner.
const (
	sniffWindow       = 1024
	frontmatterWindow = 4096
	maxNulRatio       = 0.01
	maxNonPrintRatio  = 0.10
	previewChars      = 256
)

var (
	headingPattern  = regexp.MustCompile(`(?m)^#{1,6}\s`)
	wikiLinkPattern = regexp.MustCompile(`\[\[([^\]\n]+)\]\]`)
	mdLinkPattern   = regexp.MustCompile(`\[[^\]]*\]\([^)]+\)`)
	hashtagPattern  = regexp.MustCompile(`(?:^|\s)#([\p{L}\p{N}_-]+)`)
)

// MarkdownProcessor handles markdown and plain text files.
type MarkdownProcessor struct{}

// Extensions lists the handled extensions.
func (p *MarkdownProcessor) Extensions() []string {
	return []string{"md", "markdown", "txt"}
}

// Process decodes the file (BOM-aware), rejects binary content, parses
// optional frontmatter and derives title, preview, counts and tags.
func (p *MarkdownProcessor) Process(ctx context.Context, path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	text, err := DecodeText(raw)
	if err != nil {
		return failed(path, err), nil
	}

	frontmatter, body := splitFrontmatter(text)

	title := frontmatter["title"]
	if title == "" {
		title = firstLineTitle(body)
	}
	if title == "" {
		title = TitleFromFilename(path)
	}

	words := len(strings.Fields(body))
	headings := len(headingPattern.FindAllString(body, -1))
	links := len(wikiLinkPattern.FindAllString(body, -1)) + len(mdLinkPattern.FindAllString(body, -1))

	var tags []string
	seen := map[string]bool{}
	for _, m := range hashtagPattern.FindAllStringSubmatch(body, -1) {
		tag := strings.ToLower(m[1])
		if !seen[tag] {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	metadata := map[string]any{
		"word_count":    words,
		"heading_count": headings,
		"link_count":    links,
		"tags":          tags,
	}
	for k, v := range frontmatter {
		metadata["frontmatter_"+k] = v
	}

	return &Result{
		Title:    title,
		Preview:  previewOf(body),
		Metadata: metadata,
		Status:   StatusComplete,
	}, nil
}

// DecodeText sniffs the encoding of raw bytes and decodes to a UTF-8
// string. UTF-8, UTF-16 LE and UTF-16 BE BOMs are honored; BOM-less input
// is treated as UTF-8. Content whose first 1 KB contains more than 1% NUL
// bytes or more than 10% non-printable characters is rejected as binary.
func DecodeText(raw []byte) (string, error) {
	switch {
	case bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}):
		raw = raw[3:]
	case bytes.HasPrefix(raw, []byte{0xFF, 0xFE}):
		decoder := xunicode.UTF16(xunicode.LittleEndian, xunicode.IgnoreBOM).NewDecoder()
		decoded, err := decoder.Bytes(raw[2:])
		if err != nil {
			return "", fmt.Errorf("utf-16le decode: %w", err)
		}
		raw = decoded
	case bytes.HasPrefix(raw, []byte{0xFE, 0xFF}):
		decoder := xunicode.UTF16(xunicode.BigEndian, xunicode.IgnoreBOM).NewDecoder()
		decoded, err := decoder.Bytes(raw[2:])
		if err != nil {
			return "", fmt.Errorf("utf-16be decode: %w", err)
		}
		raw = decoded
	}

	window := raw
	if len(window) > sniffWindow {
		window = window[:sniffWindow]
	}
	if len(window) > 0 {
		var nuls, nonPrint int
		for _, b := range window {
			if b == 0 {
				nuls++
			}
			if b < 0x20 && b != '\n' && b != '\r' && b != '\t' {
				nonPrint++
			}
		}
		if float64(nuls)/float64(len(window)) > maxNulRatio {
			return "", fmt.Errorf("binary content: NUL ratio too high")
		}
		if float64(nonPrint)/float64(len(window)) > maxNonPrintRatio {
			return "", fmt.Errorf("binary content: non-printable ratio too high")
		}
	}

	return string(raw), nil
}

// splitFrontmatter extracts a leading `---` frontmatter block when the
// closing fence appears within the first 4 KB, returning the parsed
// key/value pairs and the remaining body. Values are unquoted.
func splitFrontmatter(text string) (map[string]string, string) {
	fm := map[string]string{}
	if !strings.HasPrefix(text, "---\n") && !strings.HasPrefix(text, "---\r\n") {
		return fm, text
	}

	window := text
	if len(window) > frontmatterWindow {
		window = window[:frontmatterWindow]
	}
	start := strings.Index(window, "\n")
	end := strings.Index(window[start+1:], "\n---")
	if end < 0 {
		return fm, text
	}
	block := window[start+1 : start+1+end]

	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimRight(line, "\r")
		idx := strings.Index(line, ":")
		if idx <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:idx])
		value := strings.TrimSpace(line[idx+1:])
		value = strings.Trim(value, `"'`)
		if key != "" {
			fm[strings.ToLower(key)] = value
		}
	}

	rest := text[start+1+end+4:]
	rest = strings.TrimPrefix(rest, "\r")
	rest = strings.TrimPrefix(rest, "\n")
	return fm, rest
}

// firstLineTitle derives a title from the first short, non-punctuated
// line of the body. Markdown heading markers are stripped first.
func firstLineTitle(body string) string {
	for _, line := range strings.SplitN(body, "\n", 10) {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "# "))
		if line == "" {
			continue
		}
		if len(line) > 80 {
			return ""
		}
		trailing := rune(line[len(line)-1])
		if unicode.IsPunct(trailing) && trailing != ')' && trailing != '"' {
			return ""
		}
		return line
	}
	return ""
}

// previewOf returns the first previewChars runes of a body, collapsed to
// single-line form.
func previewOf(body string) string {
	body = strings.Join(strings.Fields(body), " ")
	runes := []rune(body)
	if len(runes) > previewChars {
		runes = runes[:previewChars]
	}
	return string(runes)
}
