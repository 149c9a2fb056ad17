package transform

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	astro "github.com/goastro/compiler/internal"
	"github.com/goastro/compiler/internal/handler"
	"github.com/goastro/compiler/internal/js_scanner"
	"github.com/goastro/compiler/internal/loc"
	"github.com/goastro/compiler/internal/scanner"
	a "golang.org/x/net/html/atom"
)

type TransformOptions struct {
	Scope            string
	Filename         string
	Pathname         string
	ModuleId         string
	InternalURL      string
	SourceMap        string
	Site             string
	ProjectRoot      string
	Compact          bool
	PreprocessStyle  interface{}
	StaticExtraction bool

	// AstroGlobalArgs is the expression passed to $$createAstro when a
	// component references the Astro global, carrying site/props/slots
	// metadata the runtime needs at render time.
	AstroGlobalArgs string

	// ResolvePath overrides the relative-URL resolution ResolveIdForMatch
	// otherwise does against Pathname, letting a host (e.g. the WASM
	// binding) plug in its own module resolver. Nil means "use the
	// pathname-relative default".
	ResolvePath func(specifier string) string

	// TransitionsAnimationURL is imported for its side effects whenever a
	// component uses View Transitions animations, wiring up the default
	// transition CSS.
	TransitionsAnimationURL string

	// ResultScopedSlot controls whether a rendered slot function closes
	// over $result directly or receives it as a parameter.
	ResultScopedSlot bool

	// ScopedStyleStrategy selects how scoped CSS selectors and their
	// matching data/class markers are emitted: "class" (default),
	// "attribute", or "where" (spec.md §4.B).
	ScopedStyleStrategy string

	// RenderScript keeps a hoistable <script> in place and has the printer
	// emit a $$renderScript(...) call for it instead of hoisting it into
	// the component's metadata/hoisted list, for hosts that resolve and
	// inject scripts themselves (e.g. bundler integrations).
	RenderScript bool
}

func Transform(doc *astro.Node, opts TransformOptions, h *handler.Handler) *astro.Node {
	for _, style := range doc.Styles {
		if err := PreprocessStyle(style, &opts); err != nil {
			h.AppendError(err)
		}
	}
	shouldScope := len(doc.Styles) > 0 && ScopeStyle(doc.Styles, opts)
	definedVars := GetDefineVars(doc.Styles)

	// Run the read-only scanner once and copy its findings onto the root
	// Node. Everything below that touches hydration directives, hoisted
	// scripts, client-only/server-deferred components, or the
	// Astro-global/await/transitions/head booleans reads scan, not the
	// tree, so the scanner stays the single source of that bookkeeping
	// (spec.md §4.A).
	scan := scanner.Scan(doc)
	applyScanResult(doc, scan, &opts)

	hoisted := make(map[*astro.Node]bool, len(scan.HoistedScripts))
	for _, s := range scan.HoistedScripts {
		hoisted[s] = true
	}

	walk(doc, func(n *astro.Node) {
		ExtractScript(doc, n, &opts, h, hoisted)
		if shouldScope {
			ScopeElement(n, opts)
		}
		if len(definedVars) > 0 {
			AddDefineVars(n, definedVars)
		}
	})
	applyHydrationAttrs(doc, scan, &opts)
	NormalizeSetDirectives(doc, h)

	// Important! Remove scripts from original location *after* walking the doc
	addedHeadRenderingInsertion := false
	for _, script := range doc.Scripts {
		if !addedHeadRenderingInsertion {
			renderHeadNode := &astro.Node{
				Type: astro.RenderHeadNode,
			}
			script.Parent.InsertBefore(renderHeadNode, script)
			addedHeadRenderingInsertion = true
		}

		script.Parent.RemoveChild(script)
	}

	// If we've emptied out all the nodes, this was a Fragment that only contained hoisted elements
	// Add an empty FrontmatterNode to allow the empty component to be printed
	if doc.FirstChild == nil {
		empty := &astro.Node{
			Type: astro.FrontmatterNode,
		}
		empty.AppendChild(&astro.Node{
			Type: astro.TextNode,
			Data: "",
		})
		doc.AppendChild(empty)
	}

	TrimTrailingSpace(doc)

	if opts.Compact {
		collapseWhitespace(doc)
	}

	return doc
}

// nonHoistableContainers mirrors the scanner's rule (spec.md §4.A): a
// <script>/<style> nested inside one of these never hoists, since doing so
// would change what it actually applies to at runtime.
var nonHoistableContainers = map[a.Atom]bool{
	a.Svg:      true,
	a.Noscript: true,
	a.Template: true,
}

// IsHoistable reports whether n may be lifted out of its authored position
// (to the document head for scripts, to the top-level style list for
// styles) — false if any ancestor is a container that would change its
// meaning if it moved.
func IsHoistable(n *astro.Node) bool {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type == astro.ElementNode && nonHoistableContainers[p.DataAtom] {
			return false
		}
	}
	return true
}

// GetDefineVars collects the `define:vars={...}` object-literal expression
// from each style node that has one, in the order of styles (ExtractStyles
// builds doc.Styles in reverse document order), ready to be joined
// into the `$$definedVars = $defineStyleVars([...])` array literal the
// printer emits.
func GetDefineVars(styles []*astro.Node) []string {
	var vars []string
	for _, style := range styles {
		for _, attr := range style.Attr {
			if attr.Key == "define:vars" {
				vars = append(vars, strings.TrimSpace(attr.Val))
				break
			}
		}
	}
	return vars
}

func ExtractStyles(doc *astro.Node) {
	walk(doc, func(n *astro.Node) {
		if n.Type == astro.ElementNode && n.DataAtom == a.Style {
			if HasSetDirective(n) || HasInlineDirective(n) {
				return
			}
			// Ignore styles in svg/noscript/etc
			if !IsHoistable(n) {
				return
			}
			// prepend node, so doc.Styles ends up in reverse document order
			doc.Styles = append([]*astro.Node{n}, doc.Styles...)
		}
	})
	// Important! Remove styles from original location *after* walking the doc
	for _, style := range doc.Styles {
		style.Parent.RemoveChild(style)
	}
}

func NormalizeSetDirectives(doc *astro.Node, h *handler.Handler) {
	var nodes []*astro.Node
	var directives []*astro.Attribute
	walk(doc, func(n *astro.Node) {
		if n.Type == astro.ElementNode && HasSetDirective(n) {
			for _, attr := range n.Attr {
				if attr.Key == "set:html" || attr.Key == "set:text" {
					nodes = append(nodes, n)
					directives = append(directives, &attr)
					return
				}
			}
		}
	})

	if len(nodes) > 0 {
		for i, n := range nodes {
			directive := directives[i]
			n.RemoveAttribute(directive.Key)
			expr := &astro.Node{
				Type:       astro.ElementNode,
				Data:       "astro:expression",
				Expression: true,
			}
			l := make([]loc.Loc, 1)
			l = append(l, directive.ValLoc)
			data := directive.Val
			if directive.Key == "set:html" {
				data = fmt.Sprintf("$$unescapeHTML(%s)", data)
			}
			expr.AppendChild(&astro.Node{
				Type: astro.TextNode,
				Data: data,
				Loc:  l,
			})

			shouldWarn := false
			// Remove all existing children
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if !shouldWarn {
					shouldWarn = c.Type == astro.CommentNode || (c.Type == astro.TextNode && len(strings.TrimSpace(c.Data)) != 0)
				}
				n.RemoveChild(c)
			}
			if shouldWarn {
				h.AppendWarning(&loc.ErrorWithRange{
					Text:       fmt.Sprintf("%s directive will overwrite child nodes.", directive.Key),
					Range:      loc.Range{Loc: directive.KeyLoc, Len: len(directive.Key)},
					Suggestion: "Remove the child nodes to suppress this warning.",
				})
			}
			n.AppendChild(expr)
		}
	}
}

func TrimTrailingSpace(doc *astro.Node) {
	if doc.LastChild == nil {
		return
	}

	if doc.LastChild.Type == astro.TextNode {
		doc.LastChild.Data = strings.TrimRightFunc(doc.LastChild.Data, unicode.IsSpace)
		return
	}

	n := doc.LastChild
	for i := 0; i < 2; i++ {
		// Loop through implicit nodes to find final trailing text node (html > body > #text)
		if n != nil && n.Type == astro.ElementNode && IsImplicitNode(n) {
			n = n.LastChild
			continue
		} else {
			n = nil
			break
		}
	}

	if n != nil && n.Type == astro.TextNode {
		n.Data = strings.TrimRightFunc(n.Data, unicode.IsSpace)
	}
}

func isRawElement(n *astro.Node) bool {
	if n.Type == astro.FrontmatterNode {
		return true
	}
	rawTags := []string{"pre", "listing", "iframe", "noembed", "noframes", "math", "plaintext", "script", "style", "textarea", "title", "xmp"}
	for _, tag := range rawTags {
		if n.Data == tag {
			return true
		}
		for _, attr := range n.Attr {
			if attr.Key == "is:raw" {
				return true
			}
		}
	}
	return false
}

func collapseWhitespace(doc *astro.Node) {
	walk(doc, func(n *astro.Node) {
		if n.Type == astro.TextNode {
			if n.Closest(isRawElement) != nil {
				return
			}
			// Top-level expression children
			if n.Parent != nil && n.Parent.Expression {
				// Trim left for first child
				if n.PrevSibling == nil {
					n.Data = strings.TrimLeftFunc(n.Data, unicode.IsSpace)
				}
				// Trim right for last child
				if n.NextSibling == nil {
					n.Data = strings.TrimRightFunc(n.Data, unicode.IsSpace)
				}
				// Otherwise don't trim this!
				return
			}
			if len(strings.TrimFunc(n.Data, unicode.IsSpace)) == 0 {
				n.Data = ""
				return
			}
			originalLen := len(n.Data)
			hasNewline := false
			n.Data = strings.TrimLeftFunc(n.Data, func(r rune) bool {
				if r == '\n' {
					hasNewline = true
				}
				return unicode.IsSpace(r)
			})
			if originalLen != len(n.Data) {
				if hasNewline {
					n.Data = "\n" + n.Data
				} else {
					n.Data = " " + n.Data
				}
			}
			hasNewline = false
			originalLen = len(n.Data)
			n.Data = strings.TrimRightFunc(n.Data, func(r rune) bool {
				if r == '\n' {
					hasNewline = true
				}
				return unicode.IsSpace(r)
			})
			if originalLen != len(n.Data) {
				if hasNewline {
					n.Data = n.Data + "\n"
				} else {
					n.Data = n.Data + " "
				}
			}
		}
	})
}

// applyScanResult copies the plain, document-wide findings from a
// *scanner.ScanResult onto the root Node. It is the "copy step" described
// by internal/node.go's root-bookkeeping comment: the scanner never writes
// to the tree itself, so Transform does it once, here, right after
// scanning and before anything else consults these fields.
func applyScanResult(doc *astro.Node, scan *scanner.ScanResult, opts *TransformOptions) {
	doc.UsesAstroGlobal = scan.UsesAstroGlobal
	doc.HasAwait = scan.HasAwait
	doc.UsesTransitions = scan.UsesTransitions
	doc.ContainsHead = scan.ContainsHead
	doc.Propagation = scan.Propagation

	doc.HydrationDirectives = make(map[string]bool, len(scan.HydrationDirectives))
	for _, directive := range scan.HydrationDirectives {
		doc.HydrationDirectives[directive] = true
	}
}

// applyHydrationAttrs turns the scanner's HydratedComponentNodes /
// ClientOnlyComponentNodes / ServerDeferredNodes lists into the
// client:component-* attributes and *HydratedComponentMetadata entries the
// printer reads off the Node (internal/printer/printer.go's
// printComponentMetadata). It runs once, after the main walk, matching
// each node the scanner already classified against the frontmatter's
// import statements; it never re-derives which nodes are hydrated — that
// classification is entirely the scanner's.
func applyHydrationAttrs(doc *astro.Node, scan *scanner.ScanResult, opts *TransformOptions) {
	for _, n := range scan.ClientOnlyComponentNodes {
		n.Attr = append(n.Attr, astro.Attribute{Key: "client:component-hydration", Val: "only"})
		// prepend node, so the list ends up in reverse document order
		doc.ClientOnlyComponentNodes = append([]*astro.Node{n}, doc.ClientOnlyComponentNodes...)

		if match := matchNodeToImportStatement(doc, n); match != nil {
			doc.ClientOnlyComponents = append(doc.ClientOnlyComponents, &astro.HydratedComponentMetadata{
				ExportName:   match.ExportName,
				Specifier:    match.Specifier,
				ResolvedPath: resolveIdForMatch(match, opts),
			})
		}
	}

	for _, n := range scan.HydratedComponentNodes {
		directive := firstClientDirective(n)
		n.Attr = append(n.Attr, astro.Attribute{Key: "client:component-hydration", Val: directive})
		// prepend node, so the list ends up in reverse document order
		doc.HydratedComponentNodes = append([]*astro.Node{n}, doc.HydratedComponentNodes...)

		match := matchNodeToImportStatement(doc, n)
		if match == nil {
			continue
		}
		doc.HydratedComponents = append(doc.HydratedComponents, &astro.HydratedComponentMetadata{
			ExportName:   match.ExportName,
			Specifier:    match.Specifier,
			ResolvedPath: resolveIdForMatch(match, opts),
		})
		n.Attr = append(n.Attr, astro.Attribute{
			Key:  "client:component-path",
			Val:  fmt.Sprintf(`"%s"`, resolveIdForMatch(match, opts)),
			Type: astro.ExpressionAttribute,
		})
		n.Attr = append(n.Attr, astro.Attribute{
			Key:  "client:component-export",
			Val:  fmt.Sprintf(`"%s"`, match.ExportName),
			Type: astro.ExpressionAttribute,
		})
	}

	for _, n := range scan.ServerDeferredNodes {
		doc.ServerDeferredNodes = append(doc.ServerDeferredNodes, n)
		if match := matchNodeToImportStatement(doc, n); match != nil {
			doc.ServerDeferredComponents = append(doc.ServerDeferredComponents, &astro.HydratedComponentMetadata{
				ExportName:   match.ExportName,
				Specifier:    match.Specifier,
				ResolvedPath: resolveIdForMatch(match, opts),
			})
		}
	}
}

// firstClientDirective returns the suffix of the first client:* attribute
// on n (e.g. "load", "idle", "visible"), matching the scanner's own rule
// that only the first such attribute determines a node's hydration kind
// (internal/scanner/scanner.go's scanHydrationDirective).
func firstClientDirective(n *astro.Node) string {
	for _, attr := range n.Attr {
		if strings.HasPrefix(attr.Key, "client:") {
			return strings.TrimPrefix(attr.Key, "client:")
		}
	}
	return ""
}

// ExtractScript hoists n into doc.Scripts when the scanner classified it as
// a hoistable <script> (hoisted reports scanner.ScanResult.HoistedScripts
// membership); everything here is about what to do with a hoistable
// script, never about deciding whether it is one.
func ExtractScript(doc *astro.Node, n *astro.Node, opts *TransformOptions, h *handler.Handler, hoisted map[*astro.Node]bool) {
	if n.Type != astro.ElementNode || n.DataAtom != a.Script {
		return
	}
	if HasSetDirective(n) || HasInlineDirective(n) {
		return
	}
	if !hoisted[n] {
		for _, attr := range n.Attr {
			if strings.HasPrefix(attr.Key, "client:") {
				fmt.Printf("%s: <script> does not need the %s directive and is always added as a module script.\n", opts.Filename, attr.Key)
			}
		}
		return
	}

	if opts.RenderScript {
		n.HandledScript = true
		return
	}

	shouldAdd := true
	for _, attr := range n.Attr {
		if attr.Key == "hoist" {
			h.AppendWarning(&loc.ErrorWithRange{
				Text:  "<script hoist> is no longer needed. You may remove the `hoist` attribute.",
				Range: loc.Range{Loc: n.Loc[0], Len: len(n.Data)},
			})
		}
		if attr.Key == "src" && attr.Type == astro.ExpressionAttribute {
			if opts.StaticExtraction {
				shouldAdd = false
				h.AppendWarning(&loc.ErrorWithRange{
					Text:       "<script> uses an expression for the src attribute and will be ignored.",
					Suggestion: fmt.Sprintf("Replace src={%s} with a string literal", attr.Val),
					Range:      loc.Range{Loc: n.Loc[0], Len: len(n.Data)},
				})
			}
			break
		}
	}

	// prepend node, so doc.Scripts ends up in reverse document order
	if shouldAdd {
		doc.Scripts = append([]*astro.Node{n}, doc.Scripts...)
	}
}

type ImportMatch struct {
	ExportName string
	Specifier  string
}

func matchNodeToImportStatement(doc *astro.Node, n *astro.Node) *ImportMatch {
	var match *ImportMatch

	eachImportStatement(doc, func(stmt js_scanner.ImportStatement) bool {
		for _, imported := range stmt.Imports {

			if strings.Contains(n.Data, ".") && strings.HasPrefix(n.Data, fmt.Sprintf("%s.", imported.LocalName)) {
				exportName := n.Data
				if imported.ExportName == "*" {
					exportName = strings.Replace(exportName, fmt.Sprintf("%s.", imported.LocalName), "", 1)
				}
				match = &ImportMatch{
					ExportName: exportName,
					Specifier:  stmt.Specifier,
				}
				return false
			} else if imported.LocalName == n.Data {
				match = &ImportMatch{
					ExportName: imported.ExportName,
					Specifier:  stmt.Specifier,
				}
				return false
			}
		}

		return true
	})
	return match
}

func safeURL(pathname string) string {
	// url.PathEscape also escapes `/` to `%2F`, but we don't want that!
	escaped := strings.ReplaceAll(url.PathEscape(pathname), "%2F", "/")
	return escaped
}

func trimExtension(pathname string) string {
	// Runtime will be unable to resolve `.jsx` so we need to trim it off
	if strings.HasSuffix(pathname, ".jsx") {
		return pathname[0 : len(pathname)-4]
	}
	return pathname
}

// ResolveIdForMatch resolves a relative import specifier against the
// component's own pathname, producing the URL a hydration script can load
// the component from at runtime. Non-relative specifiers (bare package
// names) pass through unchanged aside from extension trimming.
func ResolveIdForMatch(specifier string, opts *TransformOptions) string {
	if opts.ResolvePath != nil {
		return opts.ResolvePath(specifier)
	}
	if strings.HasPrefix(specifier, ".") && len(opts.Pathname) > 0 {
		pathname := safeURL(opts.Pathname)
		u, err := url.Parse(pathname)
		if err == nil {
			spec := safeURL(specifier)
			ref, _ := url.Parse(spec)
			ou := u.ResolveReference(ref)
			unescaped, _ := url.PathUnescape(ou.String())
			return trimExtension(unescaped)
		}
	}
	// If we can't manipulate the URLs, fallback to the exact specifier
	return trimExtension(specifier)
}

func resolveIdForMatch(match *ImportMatch, opts *TransformOptions) string {
	return ResolveIdForMatch(match.Specifier, opts)
}

func eachImportStatement(doc *astro.Node, cb func(stmt js_scanner.ImportStatement) bool) {
	if doc.FirstChild.Type == astro.FrontmatterNode {
		source := []byte(doc.FirstChild.FirstChild.Data)
		loc, statement := js_scanner.NextImportStatement(source, 0)
		for loc != -1 {
			if !cb(statement) {
				break
			}
			loc, statement = js_scanner.NextImportStatement(source, loc)
		}
	}
}

func walk(doc *astro.Node, cb func(*astro.Node)) {
	var f func(*astro.Node)
	f = func(n *astro.Node) {
		cb(n)
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)
}
