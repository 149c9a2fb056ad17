package js_scanner

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/goastro/compiler/internal/loc"
)

// Js_scanner wraps the frontmatter source text, giving the printer a single
// place to ask "what are my imports", "what are my exports", "where's the
// render body" without re-scanning the bytes for each question.
type Js_scanner struct {
	source []byte
}

func NewJsScanner(source []byte) *Js_scanner {
	return &Js_scanner{source: source}
}

// HasTopLevelAwait reports whether the frontmatter has a top-level `await`,
// which forces the component's slot closures to be async as well.
func (s *Js_scanner) HasTopLevelAwait() bool {
	return HasTopLevelAwait(s.source)
}

// HoistedJS splits frontmatter source into statements that print above the
// component function (Hoisted) and statements that stay in the function body
// (Body), each paired with its byte offset in the original frontmatter.
type HoistedJS struct {
	Hoisted     [][]byte
	HoistedLocs []loc.Loc
	Body        [][]byte
	BodyLocs    []loc.Loc
}

// HoistImports returns every top-level `import` statement, in source order.
// These always print before the component function regardless of where they
// were written, matching the runtime's module-evaluation order.
func (s *Js_scanner) HoistImports() HoistedJS {
	stmts, locs := topLevelStatements(s.source)
	result := HoistedJS{}
	for i, stmt := range stmts {
		trimmed := strings.TrimSpace(string(stmt))
		if isImportStatement(trimmed) {
			result.Hoisted = append(result.Hoisted, stmt)
			result.HoistedLocs = append(result.HoistedLocs, locs[i])
		}
	}
	return result
}

// HoistExports returns top-level `export` declarations (Hoisted, printed
// above the component function so their bindings are visible to sibling
// components importing this one) plus everything else that isn't an import
// (Body, printed inside the function prelude). Imports are intentionally
// excluded from Body — HoistImports already owns them.
func (s *Js_scanner) HoistExports() HoistedJS {
	stmts, locs := topLevelStatements(s.source)
	result := HoistedJS{}
	for i, stmt := range stmts {
		trimmed := strings.TrimSpace(string(stmt))
		if trimmed == "" || isImportStatement(trimmed) {
			continue
		}
		if strings.HasPrefix(trimmed, "export ") || trimmed == "export" {
			result.Hoisted = append(result.Hoisted, stmt)
			result.HoistedLocs = append(result.HoistedLocs, locs[i])
		} else {
			result.Body = append(result.Body, stmt)
			result.BodyLocs = append(result.BodyLocs, locs[i])
		}
	}
	return result
}

// topLevelStatements splits source into statements at top-level semicolons
// and blank lines, tracking bracket/paren/brace depth and skipping over
// strings, template literals and comments so a `;` inside a string or a
// nested block never splits a statement early.
func topLevelStatements(source []byte) (stmts [][]byte, locs []loc.Loc) {
	depth := 0
	start := 0
	i := 0
	n := len(source)
	flush := func(end int) {
		if end > start {
			stmts = append(stmts, source[start:end])
			locs = append(locs, loc.Loc{Start: start})
		}
		start = end
	}
	for i < n {
		c := source[i]
		switch c {
		case '/':
			if i+1 < n && source[i+1] == '/' {
				for i < n && source[i] != '\n' {
					i++
				}
				continue
			}
			if i+1 < n && source[i+1] == '*' {
				i += 2
				for i+1 < n && !(source[i] == '*' && source[i+1] == '/') {
					i++
				}
				i += 2
				continue
			}
		case '\'', '"', '`':
			quote := c
			i++
			for i < n && source[i] != quote {
				if source[i] == '\\' {
					i++
				}
				i++
			}
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				flush(i + 1)
				start = i + 1
			}
		case '\n':
			if depth == 0 && i+1 < n && source[i+1] == '\n' {
				flush(i + 1)
				start = i + 1
			}
		}
		i++
	}
	flush(n)
	return stmts, locs
}

func isImportStatement(trimmed string) bool {
	return strings.HasPrefix(trimmed, "import ") || strings.HasPrefix(trimmed, "import(") || trimmed == "import"
}

// ImportedName is one binding introduced by an import statement: `foo` in
// `import { foo }`, `foo as bar` (LocalName "bar", ExportName "foo"), or a
// namespace import (ExportName "*").
type ImportedName struct {
	LocalName  string
	ExportName string
}

// ImportStatement describes one `import ... from "..."` statement found by
// NextImportStatement.
type ImportStatement struct {
	Imports     []ImportedName
	Specifier   string
	Assertions  string
	IsType      bool
}

var importStmtRe = regexp2.MustCompile(
	`(?s)import\s+(type\s+)?(\*\s+as\s+([A-Za-z_$][\w$]*)|[^'"{]+\{[^}]*\}|[A-Za-z_$][\w$]*(?:\s*,\s*\{[^}]*\})?|\{[^}]*\})?\s*from\s*['"]([^'"]+)['"]\s*(?:assert\s*(\{[^}]*\}))?`,
	regexp2.None,
)

// NextImportStatement scans source for the next top-level import statement
// starting at byte offset pos, returning the byte offset to resume scanning
// from (or -1 if none remain) and the parsed statement.
func NextImportStatement(source []byte, pos int) (int, ImportStatement) {
	if pos < 0 || pos > len(source) {
		return -1, ImportStatement{}
	}
	m, err := importStmtRe.FindStringMatch(string(source[pos:]))
	if err != nil || m == nil {
		return -1, ImportStatement{}
	}

	groups := m.Groups()
	isType := groups[1].Length > 0
	clause := strings.TrimSpace(groups[2].String())
	namespaceName := groups[3].String()
	specifier := groups[4].String()
	assertions := strings.TrimSpace(groups[5].String())

	stmt := ImportStatement{
		Specifier:  specifier,
		Assertions: assertions,
		IsType:     isType,
	}

	switch {
	case namespaceName != "":
		stmt.Imports = append(stmt.Imports, ImportedName{LocalName: namespaceName, ExportName: "*"})
	case clause != "":
		stmt.Imports = parseImportClause(clause)
	}

	next := pos + m.Index + m.Length
	return next, stmt
}

func parseImportClause(clause string) []ImportedName {
	var names []ImportedName

	defaultPart := clause
	namedPart := ""
	if idx := strings.Index(clause, "{"); idx != -1 {
		defaultPart = strings.TrimSpace(strings.TrimRight(clause[:idx], ", "))
		end := strings.LastIndex(clause, "}")
		if end > idx {
			namedPart = clause[idx+1 : end]
		}
	}

	if defaultPart != "" {
		names = append(names, ImportedName{LocalName: defaultPart, ExportName: "default"})
	}

	for _, entry := range strings.Split(namedPart, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if idx := strings.Index(entry, " as "); idx != -1 {
			exportName := strings.TrimSpace(entry[:idx])
			localName := strings.TrimSpace(entry[idx+4:])
			names = append(names, ImportedName{LocalName: localName, ExportName: exportName})
		} else {
			names = append(names, ImportedName{LocalName: entry, ExportName: entry})
		}
	}

	return names
}

// GetObjectKeys extracts the top-level keys from a JS object-literal-shaped
// byte slice (e.g. `{a, b: c.d, "e": 1}` -> ["a", "b", "e"]), used to derive
// the `define:vars` parameter list for a hoisted script/style.
func GetObjectKeys(src []byte) []string {
	s := strings.TrimSpace(string(src))
	s = strings.TrimPrefix(s, "{")
	s = strings.TrimSuffix(s, "}")

	var keys []string
	depth := 0
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || (s[i] == ',' && depth == 0) {
			entry := strings.TrimSpace(s[start:i])
			if entry != "" {
				key := entry
				if idx := strings.Index(entry, ":"); idx != -1 {
					key = entry[:idx]
				}
				key = strings.Trim(strings.TrimSpace(key), `"'`)
				if key != "" {
					keys = append(keys, key)
				}
			}
			start = i + 1
			continue
		}
		switch s[i] {
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		}
	}
	return keys
}

// IsIdentifier reports whether b is a valid JS identifier (ASCII-only,
// matching the teacher's component-name derivation needs).
func IsIdentifier(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for i, c := range b {
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_' || c == '$'
		isDigit := c >= '0' && c <= '9'
		if i == 0 && !isLetter {
			return false
		}
		if i > 0 && !isLetter && !isDigit {
			return false
		}
	}
	return true
}
