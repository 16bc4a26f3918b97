package testsupport

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/net/html"

	"github.com/goliatone/go-formvalidator/pkg/dom"
	"github.com/goliatone/go-formvalidator/pkg/model"
)

// RecordingUnit is a message unit that renders one <span> per error and
// records every call.
type RecordingUnit struct {
	mu    sync.Mutex
	Calls [][]model.FormattedError
	Class []string
	Err   error
}

// Name returns "recording".
func (u *RecordingUnit) Name() string { return "recording" }

// RenderMessages records the call and renders simple markup.
func (u *RecordingUnit) RenderMessages(errors []model.FormattedError, classes string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.Calls = append(u.Calls, append([]model.FormattedError(nil), errors...))
	u.Class = append(u.Class, classes)
	if u.Err != nil {
		return "", u.Err
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<ul class="%s">`, strings.TrimSpace("messages "+classes))
	for _, e := range errors {
		fmt.Fprintf(&b, `<li data-key="%s">%s</li>`, html.EscapeString(e.Key), html.EscapeString(e.Message))
	}
	b.WriteString(`</ul>`)
	return b.String(), nil
}

// Renders returns the number of render calls.
func (u *RecordingUnit) Renders() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return len(u.Calls)
}

var _ dom.Mounts = (*CountingMounts)(nil)

// CountingMounts wraps a dom.Registry and counts views created and destroyed
// through the containers it hands out.
type CountingMounts struct {
	Registry *dom.Registry

	mu        sync.Mutex
	inserted  int
	destroyed int
}

// NewCountingMounts returns a counter over a fresh registry.
func NewCountingMounts() *CountingMounts {
	return &CountingMounts{Registry: dom.NewRegistry()}
}

// ContainerFor returns a counting mount point anchored at node.
func (c *CountingMounts) ContainerFor(anchor *html.Node) dom.MountPoint {
	return &countingMountPoint{inner: c.Registry.ContainerFor(anchor), counts: c}
}

// Inserted returns the number of views created.
func (c *CountingMounts) Inserted() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inserted
}

// Destroyed returns the number of views released, counting each view once.
func (c *CountingMounts) Destroyed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}

type countingMountPoint struct {
	inner  dom.MountPoint
	counts *CountingMounts
}

func (m *countingMountPoint) Len() int            { return m.inner.Len() }
func (m *countingMountPoint) Anchor() *html.Node { return m.inner.Anchor() }

func (m *countingMountPoint) Insert(index int, markup string) (dom.View, error) {
	view, err := m.inner.Insert(index, markup)
	if err != nil {
		return nil, err
	}
	m.counts.mu.Lock()
	m.counts.inserted++
	m.counts.mu.Unlock()
	return &countingView{View: view, counts: m.counts}, nil
}

type countingView struct {
	dom.View
	once   sync.Once
	counts *CountingMounts
}

func (v *countingView) Destroy() {
	v.once.Do(func() {
		v.counts.mu.Lock()
		v.counts.destroyed++
		v.counts.mu.Unlock()
	})
	v.View.Destroy()
}
