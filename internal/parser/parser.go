// Package parser extracts front matter, excerpts, and headings from Markdown content.
package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"github.com/starford/docsite/internal/apperr"
	"github.com/starford/docsite/internal/models"
)

// ExcerptSeparator marks the end of a hand-written excerpt inside the body.
const ExcerptSeparator = "<!-- excerpt -->"

var (
	headingRe = regexp.MustCompile(`^(#{1,6})[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)
	fenceRe   = regexp.MustCompile("^ {0,3}(```|~~~)")
)

// Result holds the output of parsing a Markdown file.
type Result struct {
	Meta map[string]models.Value
	Body string
}

// Parse splits raw Markdown into front matter and body.
// A file without a complete front matter block is all body. A block that is
// present but not a valid YAML mapping yields an error wrapping apperr.ErrParse.
func Parse(data []byte) (*Result, error) {
	raw, body, err := splitFrontmatter(data)
	if err != nil {
		return nil, err
	}
	meta := make(map[string]models.Value, len(raw))
	for k, v := range raw {
		meta[k] = models.FromAny(v)
	}
	return &Result{Meta: meta, Body: body}, nil
}

// splitFrontmatter separates YAML front matter (between leading --- delimiters)
// from the Markdown body.
func splitFrontmatter(data []byte) (map[string]any, string, error) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data), nil
	}

	rest := trimmed[len(delim):]
	// The opening delimiter must sit alone on its line.
	if !bytes.HasPrefix(rest, []byte("\n")) && !bytes.HasPrefix(rest, []byte("\r\n")) {
		return nil, string(data), nil
	}

	yamlBlock, afterDelim, ok := cutClosingDelim(rest, delim)
	if !ok {
		return nil, string(data), nil
	}
	body := strings.TrimLeft(string(afterDelim), "\n\r")

	var fm map[string]any
	if err := yaml.Unmarshal(yamlBlock, &fm); err != nil {
		return nil, "", fmt.Errorf("parser: front matter: %w: %v", apperr.ErrParse, err)
	}
	return fm, body, nil
}

// cutClosingDelim finds the first line of rest consisting of delim alone
// and returns the text before that line and the text after it.
func cutClosingDelim(rest []byte, delim string) (block, after []byte, ok bool) {
	marker := []byte("\n" + delim)
	for pos := 0; ; {
		i := bytes.Index(rest[pos:], marker)
		if i < 0 {
			return nil, nil, false
		}
		start := pos + i
		end := start + len(marker)
		tail := rest[end:]
		if len(tail) == 0 || tail[0] == '\n' || bytes.HasPrefix(tail, []byte("\r\n")) {
			return rest[:start], tail, true
		}
		pos = end
	}
}

// SplitExcerpt returns the trimmed text before ExcerptSeparator and whether
// the separator was found.
func SplitExcerpt(body string) (string, bool) {
	i := strings.Index(body, ExcerptSeparator)
	if i < 0 {
		return "", false
	}
	return strings.TrimSpace(body[:i]), true
}

// WordCount counts whitespace-separated words.
func WordCount(body string) int {
	return len(strings.Fields(body))
}

// Headings returns the ATX headings of body, skipping fenced code blocks.
// IDs follow the anchor scheme used by the renderer; repeated IDs get a
// numeric suffix.
func Headings(body string) []models.Heading {
	out := []models.Heading{}
	seen := make(map[string]int)
	var fence string

	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimRight(line, "\r")
		if m := fenceRe.FindStringSubmatch(line); m != nil {
			switch {
			case fence == "":
				fence = m[1]
			case fence == m[1]:
				fence = ""
			}
			continue
		}
		if fence != "" {
			continue
		}
		m := headingRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		text := strings.TrimSpace(m[2])
		id := Anchor(text)
		if n, dup := seen[id]; dup {
			seen[id] = n + 1
			id = id + "-" + strconv.Itoa(n+1)
		} else {
			seen[id] = 0
		}
		out = append(out, models.Heading{Level: len(m[1]), Text: text, ID: id})
	}
	return out
}

// Anchor converts heading text into a URL fragment.
func Anchor(text string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Trim(strings.Join(strings.Fields(b.String()), "-"), "-")
}
