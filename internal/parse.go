package astro

import (
	"io"

	"github.com/goastro/compiler/internal/handler"
	"github.com/goastro/compiler/internal/loc"
)

// parser builds a Node tree from a Tokenizer's token stream using a single
// open-element stack. Astro's grammar (frontmatter fence, JS expressions,
// components) doesn't need the HTML5 tree-construction algorithm's implied
// end tags and foster parenting, so this is a much smaller builder than
// golang.org/x/net/html's: push on every opening token, pop on its match,
// append everything else as a leaf of whatever's on top of the stack.
type parser struct {
	tokenizer *Tokenizer
	stack     []*Node
	handler   *handler.Handler
}

func (p *parser) top() *Node {
	return p.stack[len(p.stack)-1]
}

func (p *parser) appendLeaf(n *Node) {
	p.top().AppendChild(n)
}

func (p *parser) push(n *Node) {
	p.appendLeaf(n)
	p.stack = append(p.stack, n)
}

// closeTo pops the stack up to and including the nearest open element named
// tag, recording closeLoc as its Loc[1]. An unmatched end tag (typos, stray
// closing tags) is ignored rather than corrupting the stack, matching the
// "best effort" rendering philosophy PrintToJS documents.
func (p *parser) closeTo(tag string, closeLoc loc.Loc) {
	for i := len(p.stack) - 1; i > 0; i-- {
		if p.stack[i].Data == tag {
			p.stack[i].Loc = append(p.stack[i].Loc, closeLoc)
			p.stack = p.stack[:i]
			return
		}
	}
}

func classify(tag string) (component bool, custom bool) {
	return isComponent(tag), hasDash(tag)
}

func hasDash(tag string) bool {
	for i := 0; i < len(tag); i++ {
		if tag[i] == '-' {
			return true
		}
	}
	return false
}

func elementNode(tok Token) *Node {
	component, custom := classify(tok.Data)
	return &Node{
		Type:          ElementNode,
		Data:          tok.Data,
		DataAtom:      tok.DataAtom,
		Attr:          tok.Attr,
		Loc:           []loc.Loc{tok.Loc},
		Component:     component,
		CustomElement: custom,
		Fragment:      isFragment(tok.Data),
	}
}

func (p *parser) run() {
	for {
		tt := p.tokenizer.Next()
		tok := p.tokenizer.Token()
		switch tt {
		case ErrorToken:
			return
		case FrontmatterFenceToken:
			if p.top().Type == FrontmatterNode {
				p.stack = p.stack[:len(p.stack)-1]
			} else {
				p.push(&Node{Type: FrontmatterNode, Loc: []loc.Loc{tok.Loc}})
			}
		case TextToken:
			p.appendLeaf(&Node{Type: TextNode, Data: tok.Data, Loc: []loc.Loc{tok.Loc}})
		case CommentToken:
			p.appendLeaf(&Node{Type: CommentNode, Data: tok.Data, Loc: []loc.Loc{tok.Loc}})
		case DoctypeToken:
			p.appendLeaf(&Node{Type: DoctypeNode, Data: tok.Data, Loc: []loc.Loc{tok.Loc}})
		case StartExpressionToken:
			p.push(&Node{Type: ElementNode, Expression: true, Loc: []loc.Loc{tok.Loc}})
		case EndExpressionToken:
			if len(p.stack) > 1 {
				top := p.top()
				top.Loc = append(top.Loc, tok.Loc)
				p.stack = p.stack[:len(p.stack)-1]
			}
		case StartTagToken:
			p.push(elementNode(tok))
		case SelfClosingTagToken:
			p.appendLeaf(elementNode(tok))
		case EndTagToken:
			p.closeTo(tok.Data, tok.Loc)
		}
	}
}

// Parse builds a full document AST from r: a FrontmatterNode (if the source
// opens with a `---` fence), followed by the top-level markup, as siblings
// of a root DocumentNode.
func Parse(r io.Reader) (*Node, error) {
	return ParseWithHandler(r, handler.NewHandler("", ""))
}

// ParseWithHandler is Parse, routing tokenizer warnings/errors into h instead
// of a scratch handler, so the rest of a compile (scanner/transform/printer)
// shares one diagnostics list with parsing.
func ParseWithHandler(r io.Reader, h *handler.Handler) (*Node, error) {
	doc := &Node{Type: DocumentNode}
	tokenizer := NewTokenizer(r)
	tokenizer.SetHandler(h)
	p := &parser{tokenizer: tokenizer, stack: []*Node{doc}, handler: h}
	p.run()
	return doc, nil
}

// ParseFragment parses r as the InnerHTML of context (e.g. a synthetic <body>
// node), returning the resulting top-level nodes unattached to any parent.
// context is only consulted for its tag name, to tell the tokenizer about
// raw-text elements (script/style/textarea/etc).
func ParseFragment(r io.Reader, context *Node) ([]*Node, error) {
	return ParseFragmentWithOptions(r, context)
}

// ParseOption configures ParseFragmentWithOptions.
type ParseOption func(*parseConfig)

type parseConfig struct {
	handler *handler.Handler
}

// ParseOptionWithHandler routes a fragment parse's tokenizer warnings/errors
// into h instead of the scratch handler ParseFragment creates by default.
func ParseOptionWithHandler(h *handler.Handler) ParseOption {
	return func(c *parseConfig) {
		c.handler = h
	}
}

// ParseFragmentWithOptions is ParseFragment with ParseOptions applied.
func ParseFragmentWithOptions(r io.Reader, context *Node, opts ...ParseOption) ([]*Node, error) {
	cfg := &parseConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	contextTag := ""
	if context != nil {
		contextTag = context.Data
	}
	root := &Node{Type: DocumentNode}
	tokenizer := NewTokenizerFragment(r, contextTag)
	if cfg.handler != nil {
		tokenizer.SetHandler(cfg.handler)
	}
	p := &parser{tokenizer: tokenizer, stack: []*Node{root}, handler: cfg.handler}
	p.run()

	var nodes []*Node
	for c := root.FirstChild; c != nil; {
		next := c.NextSibling
		root.RemoveChild(c)
		nodes = append(nodes, c)
		c = next
	}
	return nodes, nil
}
