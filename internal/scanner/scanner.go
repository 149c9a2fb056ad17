// Package scanner implements the single read-only visitor pass over the
// component AST (spec.md §4.A). It never writes to a Node, an Attribute, or
// any other part of the tree it walks — it only reads and returns an
// independent, immutable ScanResult. Any code that needs to mutate the tree
// based on what the scanner found (hoisting scripts, injecting
// client:component-path attributes, and so on) belongs to the transform or
// printer packages, never here.
package scanner

import (
	"strings"

	astro "github.com/goastro/compiler/internal"
	"github.com/dlclark/regexp2"
	a "golang.org/x/net/html/atom"
)

var (
	astroIdentRe = regexp2.MustCompile(`\bAstro\b`, regexp2.None)
	awaitRe      = regexp2.MustCompile(`\bawait\b`, regexp2.None)
)

func containsMatch(re *regexp2.Regexp, s string) bool {
	if s == "" {
		return false
	}
	m, _ := re.MatchString(s)
	return m
}

// ScanResult is built once per compile and never modified afterward
// (spec.md §3 "ScanResult. Immutable after creation").
type ScanResult struct {
	UsesAstroGlobal bool
	HasAwait        bool
	UsesTransitions bool

	// ClientOnlyComponentNames is the set of tag-name roots referenced by
	// client:only, used later to classify frontmatter imports that should
	// not be emitted as value imports (they only matter at the type level).
	ClientOnlyComponentNames map[string]bool

	// HydrationDirectives is the ordered, deduplicated set of client:*
	// directive suffixes encountered (insertion order preserved).
	HydrationDirectives []string

	HydratedComponentNodes   []*astro.Node
	ClientOnlyComponentNodes []*astro.Node
	ServerDeferredNodes      []*astro.Node

	// HoistedScripts holds pointers to the <script> elements that qualify
	// for hoisting, in document order. The scanner records these but does
	// not detach them from the tree; detachment is the transform package's
	// job, performed once, after the scanner has already run to completion.
	HoistedScripts []*astro.Node

	// ContainsHead / Propagation feed the compile API's contains_head and
	// propagation output fields (spec.md §6.1).
	ContainsHead bool
	Propagation  bool
}

// Scan walks doc once and returns the accumulated ScanResult. It never
// assigns to any field of a Node or Attribute.
func Scan(doc *astro.Node) *ScanResult {
	res := &ScanResult{
		ClientOnlyComponentNames: make(map[string]bool),
	}
	hydrationSeen := make(map[string]bool)
	hoistedSeen := make(map[*astro.Node]bool)

	var walk func(n *astro.Node, inNonHoistable bool)
	walk = func(n *astro.Node, inNonHoistable bool) {
		switch n.Type {
		case astro.FrontmatterNode:
			if n.FirstChild != nil {
				scanExpressionText(res, n.FirstChild.Data)
			}
			// Frontmatter children are plain text; nothing further to walk.
			return
		case astro.ElementNode:
			nextNonHoistable := inNonHoistable || isNonHoistableContainer(n)

			if n.DataAtom == a.Head && !inNonHoistable {
				res.ContainsHead = true
			}

			// The tag itself can be a reference to the Astro global (e.g.
			// <Astro.self />), so it's scanned like any other expression
			// text, not just attribute values.
			scanExpressionText(res, n.Data)

			for _, attr := range n.Attr {
				if strings.HasPrefix(attr.Key, "transition:") || attr.Key == "server:defer" {
					res.UsesTransitions = true
				}
				if attr.Type == astro.ExpressionAttribute || attr.Type == astro.TemplateLiteralAttribute {
					scanExpressionText(res, attr.Val)
				}
			}

			if n.DataAtom == a.Script && !inNonHoistable && isHoistableScript(n) {
				if !hoistedSeen[n] {
					hoistedSeen[n] = true
					res.HoistedScripts = append(res.HoistedScripts, n)
				}
				// Do not descend into a recognized hoistable script's
				// children (spec.md §4.A, §9 "must not descend ... to avoid
				// double-collection").
				return
			}

			scanHydrationDirective(res, n, hydrationSeen)

			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c, nextNonHoistable)
			}
			return
		case astro.TextNode:
			// A text node inside an {expr} container holds JS, not literal
			// HTML text, so it's scanned the same way frontmatter is.
			if n.Parent != nil && n.Parent.Expression {
				scanExpressionText(res, n.Data)
			}
			return
		default:
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				walk(c, inNonHoistable)
			}
		}
	}
	walk(doc, false)
	res.Propagation = res.UsesTransitions
	return res
}

func scanExpressionText(res *ScanResult, text string) {
	if containsMatch(astroIdentRe, text) {
		res.UsesAstroGlobal = true
	}
	if containsMatch(awaitRe, text) {
		res.HasAwait = true
	}
}

func isNonHoistableContainer(n *astro.Node) bool {
	switch n.DataAtom {
	case a.Svg, a.Noscript, a.Template:
		return true
	}
	return false
}

// isComponentTag matches spec.md §1/§4.A: uppercase first letter, a dot, or
// a dash (custom element) in the tag name.
func isComponentTag(tag string) bool {
	if tag == "" {
		return false
	}
	if tag[0] >= 'A' && tag[0] <= 'Z' {
		return true
	}
	return strings.Contains(tag, ".") || strings.Contains(tag, "-")
}

func isCustomElementTag(tag string) bool {
	return strings.Contains(tag, "-")
}

func scanHydrationDirective(res *ScanResult, n *astro.Node, hydrationSeen map[string]bool) {
	for _, attr := range n.Attr {
		if !strings.HasPrefix(attr.Key, "client:") {
			continue
		}
		directive := strings.TrimPrefix(attr.Key, "client:")
		if !hydrationSeen[directive] {
			hydrationSeen[directive] = true
			res.HydrationDirectives = append(res.HydrationDirectives, directive)
		}

		if directive == "only" {
			root := n.Data
			if idx := strings.Index(root, "."); idx != -1 {
				root = root[:idx]
			}
			res.ClientOnlyComponentNames[root] = true
			if isComponentTag(n.Data) {
				res.ClientOnlyComponentNodes = appendUniqueByData(res.ClientOnlyComponentNodes, n)
			}
		} else if isComponentTag(n.Data) {
			res.HydratedComponentNodes = appendUniqueByData(res.HydratedComponentNodes, n)
		}
		// Only the first client:* attribute on an element determines its
		// hydration kind (spec.md §4.A).
		return
	}
	if hasAttr(n, "server:defer") && isComponentTag(n.Data) {
		res.ServerDeferredNodes = appendUniqueByData(res.ServerDeferredNodes, n)
	}
}

func hasAttr(n *astro.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

func appendUniqueByData(list []*astro.Node, n *astro.Node) []*astro.Node {
	for _, existing := range list {
		if existing.Data == n.Data {
			return list
		}
	}
	return append(list, n)
}

// isHoistableScript implements the hoistability rule in spec.md §4.A: no
// attributes; or only type="module"; or has hoist/define:vars; or has only
// src/type/hoist/is:inline/define:vars among its attributes and is not
// is:inline.
func isHoistableScript(n *astro.Node) bool {
	if hasAttr(n, "is:inline") {
		return false
	}
	if len(n.Attr) == 0 {
		return true
	}
	if hasAttr(n, "hoist") || hasAttr(n, "define:vars") {
		return true
	}
	if len(n.Attr) == 1 && n.Attr[0].Key == "type" && n.Attr[0].Val == "module" {
		return true
	}
	allowed := map[string]bool{"src": true, "type": true, "hoist": true, "is:inline": true, "define:vars": true}
	for _, attr := range n.Attr {
		if !allowed[attr.Key] {
			return false
		}
	}
	return true
}
