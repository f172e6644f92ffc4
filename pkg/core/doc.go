// Package core provides the base type for custom elements whose rendered
// output is a pure function of their declared properties and host attributes.
//
// # Declaring an element type
//
// An element is a struct that embeds Base and implements Render:
//
//	type Counter struct {
//	    core.Base
//	}
//
//	func (c *Counter) Render() core.Description {
//	    return render.HTML("<span>%d</span>", count.Get(c))
//	}
//
//	var (
//	    counterType = core.NewType(func() *Counter { return &Counter{} })
//	    count       = core.Declare[int](counterType, "count", core.YAMLAttribute[int]())
//	)
//
//	func init() {
//	    core.MustDefine("x-counter", counterType)
//	}
//
// Declare adds the kebab-cased property name ("fooBar" becomes "foo-bar") to
// the type's observed attributes. Once a type is defined or instantiated it is
// sealed and further declarations panic.
//
// # Updates
//
// Writing a declared property stores the value and requests an update. Requests
// made while an update is pending are absorbed; the pending render pass reads
// property values when it runs, so it sees the latest writes. The render pass
// runs after the current loop segment and never before the element is first
// connected. A write that does not change the value (including NaN replaced by
// NaN) does not request an update.
//
// # Lifecycle
//
// The host calls ConnectedCallback, DisconnectedCallback, AdoptedCallback and
// AttributeChangedCallback. The rendering root is created on the first connect
// and kept for the element's lifetime. Elements opt into notifications by
// implementing Connector, Disconnector or Adopter.
package core
