package dom

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Matcher reports whether a node satisfies a query.
type Matcher func(*html.Node) bool

// Parse reads a complete HTML document.
func Parse(markup string) (*html.Node, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("dom: parse document: %w", err)
	}
	return doc, nil
}

// MustParse panics when markup cannot be parsed.
func MustParse(markup string) *html.Node {
	doc, err := Parse(markup)
	if err != nil {
		panic(err)
	}
	return doc
}

// ParseFragment parses markup as children of a generic block element and
// returns the top-level nodes, detached from any parent.
func ParseFragment(markup string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, fmt.Errorf("dom: parse fragment: %w", err)
	}
	return nodes, nil
}

// Render serialises node and its subtree.
func Render(node *html.Node) string {
	if node == nil {
		return ""
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, node); err != nil {
		return ""
	}
	return buf.String()
}

// InnerHTML serialises the children of node.
func InnerHTML(node *html.Node) string {
	if node == nil {
		return ""
	}
	var buf bytes.Buffer
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		if err := html.Render(&buf, child); err != nil {
			return ""
		}
	}
	return buf.String()
}

// Text returns the concatenated, whitespace-collapsed text content of node.
func Text(node *html.Node) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(node)
	return strings.Join(strings.Fields(b.String()), " ")
}

// IsElement reports whether node is an element, optionally with the given tag.
func IsElement(node *html.Node, tag string) bool {
	if node == nil || node.Type != html.ElementNode {
		return false
	}
	return tag == "" || strings.EqualFold(node.Data, tag)
}

// Attr returns the value of the named attribute.
func Attr(node *html.Node, key string) (string, bool) {
	if node == nil {
		return "", false
	}
	for _, attr := range node.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			return attr.Val, true
		}
	}
	return "", false
}

// HasAttr reports whether node carries the named attribute.
func HasAttr(node *html.Node, key string) bool {
	_, ok := Attr(node, key)
	return ok
}

// SetAttr sets or replaces the named attribute.
func SetAttr(node *html.Node, key, value string) {
	if node == nil {
		return
	}
	for i, attr := range node.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			node.Attr[i].Val = value
			return
		}
	}
	node.Attr = append(node.Attr, html.Attribute{Key: key, Val: value})
}

// RemoveAttr drops the named attribute.
func RemoveAttr(node *html.Node, key string) {
	if node == nil {
		return
	}
	out := node.Attr[:0]
	for _, attr := range node.Attr {
		if attr.Namespace == "" && strings.EqualFold(attr.Key, key) {
			continue
		}
		out = append(out, attr)
	}
	node.Attr = out
}

// Classes returns the class list of node.
func Classes(node *html.Node) []string {
	raw, _ := Attr(node, "class")
	return strings.Fields(raw)
}

// HasClass reports whether node's class list contains name.
func HasClass(node *html.Node, name string) bool {
	for _, class := range Classes(node) {
		if class == name {
			return true
		}
	}
	return false
}

// AddClass appends name to the class list unless already present.
func AddClass(node *html.Node, name string) {
	if node == nil || name == "" || HasClass(node, name) {
		return
	}
	SetAttr(node, "class", strings.Join(append(Classes(node), name), " "))
}

// RemoveClass drops name from the class list. The class attribute is removed
// once empty.
func RemoveClass(node *html.Node, name string) {
	if node == nil || !HasClass(node, name) {
		return
	}
	classes := Classes(node)
	kept := classes[:0]
	for _, class := range classes {
		if class != name {
			kept = append(kept, class)
		}
	}
	if len(kept) == 0 {
		RemoveAttr(node, "class")
		return
	}
	SetAttr(node, "class", strings.Join(kept, " "))
}

// ByAttr matches elements carrying the attribute key.
func ByAttr(key string) Matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && HasAttr(n, key)
	}
}

// ByClass matches elements whose class list contains name.
func ByClass(name string) Matcher {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && HasClass(n, name)
	}
}

// ByTag matches elements with the given tag name.
func ByTag(tag string) Matcher {
	return func(n *html.Node) bool {
		return IsElement(n, tag)
	}
}

// ByID matches the element with the given id.
func ByID(id string) Matcher {
	return func(n *html.Node) bool {
		value, ok := Attr(n, "id")
		return n.Type == html.ElementNode && ok && value == id
	}
}

// AnyOf matches when any matcher does.
func AnyOf(matchers ...Matcher) Matcher {
	return func(n *html.Node) bool {
		for _, match := range matchers {
			if match != nil && match(n) {
				return true
			}
		}
		return false
	}
}

// Closest walks from node up through its ancestors and returns the first
// match, including node itself.
func Closest(node *html.Node, match Matcher) *html.Node {
	if match == nil {
		return nil
	}
	for current := node; current != nil; current = current.Parent {
		if match(current) {
			return current
		}
	}
	return nil
}

// Find returns the first descendant of root matching in document order.
// Root itself is not considered.
func Find(root *html.Node, match Matcher) *html.Node {
	if root == nil || match == nil {
		return nil
	}
	for child := root.FirstChild; child != nil; child = child.NextSibling {
		if match(child) {
			return child
		}
		if found := Find(child, match); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant of root matching in document order.
func FindAll(root *html.Node, match Matcher) []*html.Node {
	if root == nil || match == nil {
		return nil
	}
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if match(child) {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(root)
	return out
}

// ParentElement returns the nearest element ancestor of node.
func ParentElement(node *html.Node) *html.Node {
	if node == nil {
		return nil
	}
	for current := node.Parent; current != nil; current = current.Parent {
		if current.Type == html.ElementNode {
			return current
		}
	}
	return nil
}

// Detach removes node from its parent, if any.
func Detach(node *html.Node) {
	if node == nil || node.Parent == nil {
		return
	}
	node.Parent.RemoveChild(node)
}

// AppendChild moves child under parent as its last child.
func AppendChild(parent, child *html.Node) error {
	if parent == nil || child == nil {
		return errors.New("dom: append requires parent and child")
	}
	Detach(child)
	parent.AppendChild(child)
	return nil
}

// InsertAfter places node right after ref within ref's parent.
func InsertAfter(ref, node *html.Node) error {
	if ref == nil || node == nil {
		return errors.New("dom: insert requires reference and node")
	}
	if ref.Parent == nil {
		return ErrDetachedAnchor
	}
	Detach(node)
	ref.Parent.InsertBefore(node, ref.NextSibling)
	return nil
}

// FirstElement returns the first element node in nodes.
func FirstElement(nodes []*html.Node) *html.Node {
	for _, node := range nodes {
		if node != nil && node.Type == html.ElementNode {
			return node
		}
	}
	return nil
}
