// Package demo defines the element types available to scenarios.
package demo

import (
	"strings"

	"github.com/go-drift/elements/pkg/core"
	"github.com/go-drift/elements/pkg/log"
	"github.com/go-drift/elements/pkg/render"
)

// Counter renders a labelled count. Its label is reflected to the host.
type Counter struct {
	core.Base
}

func (c *Counter) Render() core.Description {
	return render.HTML(`<button part="dec">-</button><output>%d</output><button part="inc">+</button><label>%s</label>`,
		CounterCount.Get(c), CounterLabel.Get(c))
}

func (c *Counter) Connect() {
	log.Info(log.CatLifecycle, "counter connected", "id", c.ID())
}

func (c *Counter) Disconnect() {
	log.Info(log.CatLifecycle, "counter disconnected", "id", c.ID())
}

// Greeting greets a name and lists tags.
type Greeting struct {
	core.Base
}

func (g *Greeting) Render() core.Description {
	name, ok := GreetingName.Lookup(g)
	if !ok || name == "" {
		name = "stranger"
	}
	return render.HTML(`<p>Hello, %s!</p><small>%s</small>`, name, strings.Join(GreetingTags.Get(g), ", "))
}

func (g *Greeting) Adopted() {
	log.Info(log.CatLifecycle, "greeting adopted", "id", g.ID())
}

// Gauge shows a ratio. Writing NaN over NaN does not render.
type Gauge struct {
	core.Base
}

func (g *Gauge) Render() core.Description {
	return render.HTML(`<meter value="%g"></meter>`, GaugeRatio.Get(g))
}

var (
	CounterType  = core.NewType(func() *Counter { return &Counter{} })
	CounterCount = core.Declare[int](CounterType, "count", core.YAMLAttribute[int]())
	CounterLabel = core.Declare[string](CounterType, "label", core.Reflect())

	GreetingType = core.NewType(func() *Greeting { return &Greeting{} })
	GreetingName = core.Declare[string](GreetingType, "userName")
	GreetingTags = core.Declare[[]string](GreetingType, "tags", core.YAMLAttribute[[]string]())

	GaugeType  = core.NewType(func() *Gauge { return &Gauge{} })
	GaugeRatio = core.Declare[float64](GaugeType, "ratio", core.YAMLAttribute[float64]())
)

// Tags maps each demo tag to its type.
var Tags = map[string]*core.Type{
	"x-counter":  CounterType,
	"x-greeting": GreetingType,
	"x-gauge":    GaugeType,
}

// Register defines every demo type in r.
func Register(r *core.Registry) error {
	for _, tag := range []string{"x-counter", "x-greeting", "x-gauge"} {
		if err := r.Define(tag, Tags[tag]); err != nil {
			return err
		}
	}
	return nil
}
