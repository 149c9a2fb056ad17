package js_scanner

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
)

// Props describes how a component's Props type should be stitched into the
// generated component function signature.
type Props struct {
	Ident     string
	Statement string
	Generics  string
}

func (p *Props) applyFoundIdent() {
	p.Ident = propSymbol
}

const (
	FallbackPropsType = "Record<string, any>"
	propSymbol        = "Props"
)

// propsDeclRe matches `interface Props<T> {` or `type Props<T> = ...`,
// capturing an optional generics clause.
var propsDeclRe = regexp2.MustCompile(
	`(?:interface|type)\s+Props\s*(<[^>{=]*>)?`,
	regexp2.None,
)

// GetPropsType looks for a locally-declared `Props` interface/type alias in
// the frontmatter, then falls back to checking whether `Props` was imported
// from elsewhere, then finally falls back to a loose Record type. This is a
// heuristic scan rather than a full type-checker, matching the compiler's
// scope (spec.md §1 excludes full TypeScript semantic analysis).
func (s *Js_scanner) GetPropsType() Props {
	if !bytes.Contains(s.source, []byte(propSymbol)) {
		return Props{Ident: FallbackPropsType}
	}

	var propsType Props

	if m, err := propsDeclRe.FindStringMatch(string(s.source)); err == nil && m != nil {
		propsType.applyFoundIdent()
		if generics := m.GroupByNumber(1); generics != nil && generics.Length > 0 {
			propsType.Statement = generics.String()
			propsType.Generics = genericsParamNames(generics.String())
		}
	}

	if propsType.Ident == "" {
		pos := 0
		for {
			next, stmt := NextImportStatement(s.source, pos)
			if next == -1 {
				break
			}
			for _, imp := range stmt.Imports {
				if imp.LocalName == propSymbol {
					propsType.applyFoundIdent()
					break
				}
			}
			pos = next
			if propsType.Ident != "" {
				break
			}
		}
	}

	if propsType.Ident == "" {
		propsType.Ident = FallbackPropsType
	}

	return propsType
}

// genericsParamNames strips type constraints/defaults from a generics clause
// like "<T extends object = {}>" down to just "<T>", for use as the type
// argument list applied to the generated component function.
func genericsParamNames(clause string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(clause, "<"), ">")
	parts := strings.Split(inner, ",")
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name := part
		for _, sep := range []string{" extends ", "="} {
			if idx := strings.Index(name, sep); idx != -1 {
				name = name[:idx]
			}
		}
		names = append(names, strings.TrimSpace(name))
	}
	return fmt.Sprintf("<%s>", strings.Join(names, ", "))
}
