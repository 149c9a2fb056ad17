package astro

import (
	"github.com/goastro/compiler/internal/loc"
	"golang.org/x/net/html/atom"
)

// NodeType is the type of a Node.
type NodeType uint32

const (
	ErrorNode NodeType = iota
	DocumentNode
	FrontmatterNode
	TextNode
	ElementNode
	CommentNode
	DoctypeNode
	RawNode
	// RenderHeadNode is a synthetic marker inserted where a hoisted
	// <script> used to live, so $$renderHead is emitted at the right
	// point once the script nodes are detached from the tree.
	RenderHeadNode
)

// ImplicitNodeMarker is the attribute key used to flag elements that were
// not present in the authored source (implicit <html>/<head>/<body>).
const ImplicitNodeMarker = "data-astro-implicit"

// HydratedComponentMetadata describes one resolved client:*/server:defer
// component reference, feeding the $$metadata.hydratedComponents /
// clientOnlyComponents / server_components lists (spec.md §6.1).
type HydratedComponentMetadata struct {
	ExportName   string
	LocalName    string
	Specifier    string
	ResolvedPath string
}

// Node is a single node in the component AST (spec.md §3). The parser that
// builds this tree is an explicit out-of-scope collaborator; this type
// exists purely to give the scanner/transform/printer pipeline a concrete
// shape to operate on.
type Node struct {
	Parent, FirstChild, LastChild, PrevSibling, NextSibling *Node

	Type     NodeType
	Data     string
	DataAtom atom.Atom
	Attr     []Attribute
	Loc      []loc.Loc

	// Component is true when Data names a tag that begins with an
	// uppercase letter or contains a '.' (spec.md §1).
	Component bool
	// CustomElement is true when Data contains a '-' (spec.md §4.A).
	CustomElement bool
	// Fragment marks a <Fragment>/<> node.
	Fragment bool
	// Expression marks an {expr} container synthesized for set:html /
	// set:text normalization and for genuine {…} template expressions.
	Expression bool
	// HandledScript is set by transform.ExtractScript (not the scanner)
	// when the RenderScript option keeps a hoistable <script> in place; the
	// printer then emits a $$renderScript call in place of the element.
	HandledScript bool
	// Transition/TransitionScope hold the per-node transition: state
	// computed while printing (see printer.maybeConvertTransition).
	Transition      bool
	TransitionScope string

	// --- Root-document bookkeeping -----------------------------------
	// The following fields are only meaningful on the root Document
	// node. None of them are written by internal/scanner directly — it
	// returns a separate, immutable *scanner.ScanResult instead.
	// transform.Transform calls scanner.Scan once and copies the
	// relevant ScanResult lists here, so the printer can keep reading
	// them off the Node the way it always has. Styles/Scripts
	// additionally get mutated in place here (nodes detached from their
	// original position) as part of Transform's hoisting step, which is
	// a transform concern, not a scanner one.
	Styles                   []*Node
	Scripts                  []*Node
	ClientOnlyComponentNodes []*Node
	ClientOnlyComponents     []*HydratedComponentMetadata
	HydratedComponentNodes   []*Node
	HydratedComponents       []*HydratedComponentMetadata
	ServerDeferredNodes      []*Node
	ServerDeferredComponents []*HydratedComponentMetadata
	HydrationDirectives      map[string]bool

	// UsesAstroGlobal/HasAwait/UsesTransitions/ContainsHead/Propagation
	// are copied verbatim from the scanner.ScanResult computed for this
	// document (spec.md §3, §6.1).
	UsesAstroGlobal bool
	HasAwait        bool
	UsesTransitions bool
	ContainsHead    bool
	Propagation     bool
}

func (n *Node) String() string {
	return n.Data
}

// AppendChild adds a node c as a child of n.
func (n *Node) AppendChild(c *Node) {
	if c.Parent != nil || c.PrevSibling != nil || c.NextSibling != nil {
		panic("astro: AppendChild called for an attached child Node")
	}
	last := n.LastChild
	if last != nil {
		last.NextSibling = c
	} else {
		n.FirstChild = c
	}
	n.LastChild = c
	c.Parent = n
	c.PrevSibling = last
}

// InsertBefore inserts newChild as a child of n, immediately before oldChild
// in the sibling order. If oldChild is nil, newChild is appended to the end
// of n's children.
func (n *Node) InsertBefore(newChild, oldChild *Node) {
	if newChild.Parent != nil || newChild.PrevSibling != nil || newChild.NextSibling != nil {
		panic("astro: InsertBefore called for an attached child Node")
	}
	var prev, next *Node
	if oldChild != nil {
		prev, next = oldChild.PrevSibling, oldChild
	} else {
		prev = n.LastChild
	}
	if prev != nil {
		prev.NextSibling = newChild
	} else {
		n.FirstChild = newChild
	}
	if next != nil {
		next.PrevSibling = newChild
	} else {
		n.LastChild = newChild
	}
	newChild.Parent = n
	newChild.PrevSibling = prev
	newChild.NextSibling = next
}

// RemoveChild removes c from n's children, but c's next and previous
// siblings remain nil'd, c's parent nil'd.
func (n *Node) RemoveChild(c *Node) {
	if c.Parent != n {
		panic("astro: RemoveChild called for a non-child Node")
	}
	if n.FirstChild == c {
		n.FirstChild = c.NextSibling
	}
	if c.NextSibling != nil {
		c.NextSibling.PrevSibling = c.PrevSibling
	}
	if n.LastChild == c {
		n.LastChild = c.PrevSibling
	}
	if c.PrevSibling != nil {
		c.PrevSibling.NextSibling = c.NextSibling
	}
	c.Parent = nil
	c.PrevSibling = nil
	c.NextSibling = nil
}

// RemoveAttribute removes the first attribute with the given key, if any.
func (n *Node) RemoveAttribute(key string) {
	for i, attr := range n.Attr {
		if attr.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}

// Closest walks up the Parent chain, including n itself, and returns the
// first node for which match returns true, or nil.
func (n *Node) Closest(match func(*Node) bool) *Node {
	for c := n; c != nil; c = c.Parent {
		if match(c) {
			return c
		}
	}
	return nil
}

// GetAttribute returns a pointer to the first attribute on n with the given
// key, or nil if none is present.
func GetAttribute(n *Node, key string) *Attribute {
	for i, attr := range n.Attr {
		if attr.Key == key {
			return &n.Attr[i]
		}
	}
	return nil
}
