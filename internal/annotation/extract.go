package annotation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	blockRe = regexp.MustCompile(`(?s)/\*\*(.*?)\*/`)
	// exampleLeadRe matches descriptions that start with an example marker,
	// whose hyphen belongs to the marker and must survive name splitting.
	exampleLeadRe = regexp.MustCompile(`^-\s*eg:`)
)

// Extract finds every `/** ... */` comment in content and splits it into a
// description and tags. Parsing is lenient: a malformed tag degrades to a
// best-effort Tag instead of failing the file.
func Extract(content string) []Block {
	locs := blockRe.FindAllStringSubmatchIndex(content, -1)
	blocks := make([]Block, 0, len(locs))
	for _, loc := range locs {
		raw := content[loc[0]:loc[1]]
		body := content[loc[2]:loc[3]]
		line := 1 + strings.Count(content[:loc[0]], "\n")
		b := parseBlock(body)
		b.Raw = raw
		b.Line = line
		blocks = append(blocks, b)
	}
	return blocks
}

func parseBlock(body string) Block {
	var (
		block   Block
		desc    []string
		current []string
	)
	flush := func() {
		if current == nil {
			return
		}
		if tag, ok := parseTag(strings.Join(current, "\n")); ok {
			block.Tags = append(block.Tags, tag)
		}
		current = nil
	}
	for _, line := range unwrap(body) {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "@") {
			flush()
			current = []string{trimmed}
			continue
		}
		if current != nil {
			current = append(current, line)
			continue
		}
		desc = append(desc, line)
	}
	flush()
	block.Description = strings.TrimSpace(strings.Join(desc, "\n"))
	return block
}

// unwrap strips the leading " * " decoration from each comment line.
func unwrap(body string) []string {
	lines := strings.Split(body, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimLeftFunc(line, unicode.IsSpace)
		if strings.HasPrefix(line, "*") {
			line = strings.TrimPrefix(line, "*")
			line = strings.TrimPrefix(line, " ")
		}
		out = append(out, strings.TrimRightFunc(line, unicode.IsSpace))
	}
	return out
}

func parseTag(text string) (Tag, bool) {
	text = strings.TrimPrefix(strings.TrimSpace(text), "@")
	title, rest := splitWord(text)
	if title == "" {
		return Tag{}, false
	}
	tag := Tag{Title: title}

	rest = strings.TrimSpace(rest)
	if takesType(title) && strings.HasPrefix(rest, "{") {
		if expr, remainder, ok := cutBraces(rest); ok {
			tag.Type = ParseType(expr)
			rest = strings.TrimSpace(remainder)
		}
	}

	if takesName(title) {
		var name string
		name, rest = splitWord(rest)
		tag.Name = cleanName(name)
		rest = strings.TrimSpace(rest)
		if strings.HasPrefix(rest, "-") && !exampleLeadRe.MatchString(rest) {
			rest = strings.TrimSpace(strings.TrimPrefix(rest, "-"))
		}
	}
	tag.Description = strings.TrimSpace(rest)
	return tag, true
}

func takesType(title string) bool {
	switch title {
	case "param", "arg", "argument", "property", "prop", "typedef", "returns", "return", "type":
		return true
	}
	return false
}

func takesName(title string) bool {
	switch title {
	case "param", "arg", "argument", "property", "prop", "typedef":
		return true
	}
	return false
}

// cleanName handles the optional forms `[name]` and `[name=default]`.
func cleanName(name string) string {
	if strings.HasPrefix(name, "[") {
		name = strings.TrimSuffix(strings.TrimPrefix(name, "["), "]")
		if i := strings.Index(name, "="); i >= 0 {
			name = name[:i]
		}
	}
	return name
}

func splitWord(s string) (word, rest string) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := strings.IndexFunc(s, unicode.IsSpace)
	if i < 0 {
		return s, ""
	}
	return s[:i], s[i:]
}

// cutBraces returns the contents of the balanced {...} group that s starts with.
func cutBraces(s string) (inner, rest string, ok bool) {
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[1:i], s[i+1:], true
			}
		}
	}
	return "", s, false
}

// ParseType parses a JSDoc type expression such as `Pet.model`,
// `Array.<Pet>`, `Array<string, Pet>` or `Pet[]`. Empty and `*` yield nil.
func ParseType(expr string) *TypeExpr {
	s := strings.TrimSpace(expr)
	s = strings.TrimLeft(s, "?!")
	if s == "" || s == "*" {
		return nil
	}
	if strings.HasSuffix(s, "[]") {
		elem := ParseType(strings.TrimSuffix(s, "[]"))
		if elem == nil {
			return Applied("Array")
		}
		return Applied("Array", elem)
	}
	if i := strings.Index(s, "<"); i > 0 && strings.HasSuffix(s, ">") {
		container := strings.TrimSuffix(s[:i], ".")
		args := splitTopLevel(s[i+1 : len(s)-1])
		var apps []*TypeExpr
		for _, arg := range args {
			if t := ParseType(arg); t != nil {
				apps = append(apps, t)
			}
		}
		return Applied(container, apps...)
	}
	return Named(s)
}

// splitTopLevel splits s on commas that are not nested inside <>, {} or ().
func splitTopLevel(s string) []string {
	var (
		parts []string
		depth int
		start int
	)
	for i, r := range s {
		switch r {
		case '<', '{', '(':
			depth++
		case '>', '}', ')':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}
