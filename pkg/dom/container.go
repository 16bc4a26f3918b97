package dom

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/net/html"
)

// ErrDetachedAnchor is returned when content must be placed next to a node
// that has no parent.
var ErrDetachedAnchor = errors.New("dom: anchor node has no parent")

// View is a rendered fragment owned by exactly one caller until destroyed.
type View interface {
	// RootNodes returns the top-level nodes of the fragment.
	RootNodes() []*html.Node
	// Destroy removes the nodes from wherever they currently live. It is
	// safe to call more than once.
	Destroy()
}

// MountPoint creates views at positions relative to an anchor element.
type MountPoint interface {
	Len() int
	Insert(index int, markup string) (View, error)
	Anchor() *html.Node
}

// ViewContainer inserts views as siblings following its anchor element, in
// index order.
type ViewContainer struct {
	mu     sync.Mutex
	anchor *html.Node
	views  []*fragmentView
}

var (
	_ MountPoint = (*ViewContainer)(nil)
	_ Mounts     = (*Registry)(nil)
)

// NewViewContainer returns a container anchored at node.
func NewViewContainer(anchor *html.Node) *ViewContainer {
	return &ViewContainer{anchor: anchor}
}

// Anchor returns the element views are inserted after.
func (c *ViewContainer) Anchor() *html.Node {
	if c == nil {
		return nil
	}
	return c.anchor
}

// Len returns the number of live views.
func (c *ViewContainer) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.views)
}

// Insert parses markup and places it at index. A negative or out of range
// index appends.
func (c *ViewContainer) Insert(index int, markup string) (View, error) {
	if c == nil || c.anchor == nil {
		return nil, errors.New("dom: view container has no anchor")
	}
	if c.anchor.Parent == nil {
		return nil, ErrDetachedAnchor
	}

	nodes, err := ParseFragment(markup)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if index < 0 || index > len(c.views) {
		index = len(c.views)
	}

	ref := c.referenceBefore(index)
	for _, node := range nodes {
		if err := InsertAfter(ref, node); err != nil {
			return nil, fmt.Errorf("dom: insert view: %w", err)
		}
		ref = node
	}

	view := &fragmentView{container: c, nodes: nodes}
	c.views = append(c.views, nil)
	copy(c.views[index+1:], c.views[index:])
	c.views[index] = view
	return view, nil
}

// referenceBefore returns the node new content at index should follow: the
// last node of the closest preceding view still placed next to the anchor, or
// the anchor itself.
func (c *ViewContainer) referenceBefore(index int) *html.Node {
	parent := c.anchor.Parent
	for i := index - 1; i >= 0; i-- {
		nodes := c.views[i].nodes
		for j := len(nodes) - 1; j >= 0; j-- {
			if nodes[j].Parent == parent {
				return nodes[j]
			}
		}
	}
	return c.anchor
}

func (c *ViewContainer) remove(view *fragmentView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, candidate := range c.views {
		if candidate == view {
			c.views = append(c.views[:i], c.views[i+1:]...)
			return
		}
	}
}

type fragmentView struct {
	once      sync.Once
	container *ViewContainer
	nodes     []*html.Node
}

func (v *fragmentView) RootNodes() []*html.Node {
	out := make([]*html.Node, len(v.nodes))
	copy(out, v.nodes)
	return out
}

func (v *fragmentView) Destroy() {
	v.once.Do(func() {
		for _, node := range v.nodes {
			Detach(node)
		}
		if v.container != nil {
			v.container.remove(v)
		}
	})
}

// Mounts hands out mount points by anchor element.
type Mounts interface {
	ContainerFor(anchor *html.Node) MountPoint
}

// Registry hands out one ViewContainer per anchor so every binding that
// targets the same element shares insertion order.
type Registry struct {
	mu         sync.Mutex
	containers map[*html.Node]*ViewContainer
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{containers: make(map[*html.Node]*ViewContainer)}
}

// ContainerFor returns the container anchored at node, creating it on first use.
func (r *Registry) ContainerFor(anchor *html.Node) MountPoint {
	r.mu.Lock()
	defer r.mu.Unlock()
	if container, ok := r.containers[anchor]; ok {
		return container
	}
	container := NewViewContainer(anchor)
	r.containers[anchor] = container
	return container
}
