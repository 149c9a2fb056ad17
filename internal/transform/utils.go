package transform

import (
	astro "github.com/goastro/compiler/internal"
)

func hasTruthyAttr(n *astro.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key &&
			((attr.Type == astro.EmptyAttribute) ||
				(attr.Type == astro.ExpressionAttribute && attr.Val == "true") ||
				(attr.Type == astro.QuotedAttribute && (attr.Val == "" || attr.Val == "true"))) {
			return true
		}
	}
	return false
}

func HasSetDirective(n *astro.Node) bool {
	return HasAttr(n, "set:html") || HasAttr(n, "set:text")
}

func HasInlineDirective(n *astro.Node) bool {
	return HasAttr(n, "is:inline")
}

func HasAttr(n *astro.Node, key string) bool {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return true
		}
	}
	return false
}

func IsImplicitNode(n *astro.Node) bool {
	return HasAttr(n, astro.ImplicitNodeMarker)
}

func IsImplicitNodeMarker(attr astro.Attribute) bool {
	return attr.Key == astro.ImplicitNodeMarker
}

func GetQuotedAttr(n *astro.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			if attr.Type == astro.QuotedAttribute {
				return attr.Val
			}
			return ""
		}
	}
	return ""
}

// GetAttr returns a pointer to n's attribute named key, or nil if n has none,
// so callers can inspect both its Val and its Type (e.g. deciding whether a
// transition:name value needs quoting when it's reused elsewhere).
func GetAttr(n *astro.Node, key string) *astro.Attribute {
	for i, a := range n.Attr {
		if a.Key == key {
			return &n.Attr[i]
		}
	}
	return nil
}

// AttrIndex returns the index of n's attribute named key, or -1 if absent.
func AttrIndex(n *astro.Node, key string) int {
	for i, a := range n.Attr {
		if a.Key == key {
			return i
		}
	}
	return -1
}

// Directive names for the View Transitions attributes (spec.md's transition:*
// directives), kept together since they're always checked as a group.
const (
	TRANSITION_ANIMATE = "transition:animate"
	TRANSITION_NAME    = "transition:name"
	TRANSITION_PERSIST = "transition:persist"
)
