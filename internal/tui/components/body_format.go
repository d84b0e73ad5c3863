package components

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BodyFormat is the detected format of a mock response body.
type BodyFormat string

const (
	BodyJSON BodyFormat = "json"
	BodyXML  BodyFormat = "xml"
	BodyHTML BodyFormat = "html"
	BodyText BodyFormat = "text"
)

// DetectBodyFormat checks the Content-Type header first, then the body.
func DetectBodyFormat(contentType, body string) BodyFormat {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "json"):
		return BodyJSON
	case strings.Contains(ct, "html"):
		return BodyHTML
	case strings.Contains(ct, "xml"):
		return BodyXML
	}

	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return BodyText
	}
	switch trimmed[0] {
	case '{', '[':
		if json.Valid([]byte(trimmed)) {
			return BodyJSON
		}
	case '<':
		lower := strings.ToLower(trimmed)
		if strings.HasPrefix(lower, "<!doctype html") || strings.HasPrefix(lower, "<html") {
			return BodyHTML
		}
		return BodyXML
	}
	return BodyText
}

var (
	jsonKeyPattern    = regexp.MustCompile(`^(\s*)("(?:[^"\\]|\\.)*")(\s*:)`)
	jsonStringPattern = regexp.MustCompile(`"(?:[^"\\]|\\.)*"`)
	jsonNumberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?`)

	bodyKeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("141"))
	bodyStringStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	bodyNumberStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	bodyLiteralStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))
)

// FormatBody returns display lines for body. JSON is indented and
// highlighted; other formats are shown as-is.
func FormatBody(contentType, body string) []string {
	if body == "" {
		return nil
	}
	if DetectBodyFormat(contentType, body) != BodyJSON {
		return strings.Split(body, "\n")
	}

	var out bytes.Buffer
	if err := json.Indent(&out, []byte(body), "", "  "); err != nil {
		return strings.Split(body, "\n")
	}

	lines := strings.Split(out.String(), "\n")
	for i, line := range lines {
		lines[i] = highlightJSONLine(line)
	}
	return lines
}

func highlightJSONLine(line string) string {
	prefix := ""
	rest := line
	if m := jsonKeyPattern.FindStringSubmatchIndex(line); m != nil {
		prefix = line[m[2]:m[3]] + bodyKeyStyle.Render(line[m[4]:m[5]]) + line[m[6]:m[7]]
		rest = line[m[1]:]
	}

	trimmed := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(rest), ","))
	switch {
	case strings.HasPrefix(trimmed, `"`):
		rest = jsonStringPattern.ReplaceAllStringFunc(rest, func(s string) string {
			return bodyStringStyle.Render(s)
		})
	case trimmed == "true" || trimmed == "false" || trimmed == "null":
		rest = strings.Replace(rest, trimmed, bodyLiteralStyle.Render(trimmed), 1)
	case jsonNumberPattern.MatchString(trimmed) && jsonNumberPattern.FindString(trimmed) == trimmed:
		rest = strings.Replace(rest, trimmed, bodyNumberStyle.Render(trimmed), 1)
	}
	return prefix + rest
}
