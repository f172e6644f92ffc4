// Package testbed provides element types for the testing package's tests.
package testbed

import (
	"github.com/go-drift/elements/pkg/core"
	"github.com/go-drift/elements/pkg/render"
)

// Counter renders its count and label.
type Counter struct {
	core.Base
}

func (c *Counter) Render() core.Description {
	return render.HTML(`<span class="count">%d</span><label>%s</label>`, Count.Get(c), Label.Get(c))
}

var (
	CounterType = core.NewType(func() *Counter { return &Counter{} })
	Count       = core.Declare[int](CounterType, "count", core.YAMLAttribute[int]())
	Label       = core.Declare[string](CounterType, "label")
)

// Broken panics on every render.
type Broken struct {
	core.Base
}

func (b *Broken) Render() core.Description {
	panic("broken element")
}

var BrokenType = core.NewType(func() *Broken { return &Broken{} })
