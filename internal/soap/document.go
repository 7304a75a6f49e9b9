package soap

import (
	"encoding/xml"
	"strings"

	"volare/internal/apperr"
)

// node is a generic XML element. The service is inconsistent about applying
// namespaces, so lookups work on local names with an ordered set of
// strategies instead of a fixed schema.
type node struct {
	XMLName  xml.Name
	Content  string `xml:",chardata"`
	Children []node `xml:",any"`
}

// parseDocument parses a response body into a node tree. A parser error is a
// hard InvalidResponseFormat failure.
func parseDocument(body string) (*node, error) {
	var root node
	if err := xml.Unmarshal([]byte(body), &root); err != nil {
		return nil, apperr.Wrap(apperr.InvalidResponseFormat, "response is not well-formed XML", err)
	}
	return &root, nil
}

// findQualified returns the first descendant with the given namespace and
// local name, in document order.
func (n *node) findQualified(space, local string) *node {
	return n.descendant(func(c *node) bool {
		return c.XMLName.Space == space && c.XMLName.Local == local
	})
}

// findLocal returns the first descendant with the given local name,
// regardless of namespace.
func (n *node) findLocal(local string) *node {
	return n.descendant(func(c *node) bool {
		return c.XMLName.Local == local
	})
}

// find applies the lookup strategies in order: namespace-qualified first,
// then bare local name. Returns nil when every strategy misses.
func (n *node) find(space, local string) *node {
	if m := n.findQualified(space, local); m != nil {
		return m
	}
	return n.findLocal(local)
}

func (n *node) descendant(match func(*node) bool) *node {
	for i := range n.Children {
		c := &n.Children[i]
		if match(c) {
			return c
		}
		if m := c.descendant(match); m != nil {
			return m
		}
	}
	return nil
}

// collect returns every direct child whose local name is one of the given
// names, in document order. List responses repeat their item element.
func (n *node) collect(names ...string) []*node {
	var out []*node
	for i := range n.Children {
		c := &n.Children[i]
		for _, name := range names {
			if c.XMLName.Local == name {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// text extracts a leaf value with the namespace-qualified-then-bare fallback.
// A missing element degrades to "" instead of failing the parse.
func (n *node) text(local string) string {
	if m := n.find(ServiceNamespace, local); m != nil {
		return strings.TrimSpace(m.Content)
	}
	return ""
}

// locateBody finds the SOAP Body element. Strategies, in order: qualified by
// the envelope namespace, bare local name, and finally a document whose
// single child is named Body whatever its namespace claims to be.
func locateBody(doc *node) (*node, error) {
	if b := doc.findQualified(EnvelopeNamespace, "Body"); b != nil {
		return b, nil
	}
	if b := doc.findLocal("Body"); b != nil {
		return b, nil
	}
	if len(doc.Children) == 1 && doc.Children[0].XMLName.Local == "Body" {
		return &doc.Children[0], nil
	}
	return nil, apperr.New(apperr.MalformedResponse, "SOAP Body not found in response")
}

// Fault reports whether the body carries a SOAP fault, returning the
// human-readable faultstring when one is present.
func Fault(body string) (string, bool) {
	doc, err := parseDocument(body)
	if err != nil {
		return "", false
	}
	fault := doc.findLocal("Fault")
	if fault == nil {
		return "", false
	}
	if fs := fault.findLocal("faultstring"); fs != nil {
		return strings.TrimSpace(fs.Content), true
	}
	return "", true
}
