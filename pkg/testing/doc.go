// Package testing provides an element testing harness.
//
// # Quick Start
//
// Create a tester, define a type, mount an element and make assertions:
//
//	func TestCounter(t *testing.T) {
//	    tester := elementstest.NewElementTesterWithT(t)
//	    tester.MustDefine("x-counter", counterType)
//
//	    el := tester.Mount("x-counter", "count", "2")
//	    if got := el.ShadowRoot().InnerHTML(); got != "<span>2</span>" {
//	        t.Errorf("unexpected render %q", got)
//	    }
//
//	    tester.Segment(func() {
//	        count.Set(el.Component(), 3)
//	        count.Set(el.Component(), 4)
//	    })
//	    if tester.Renders(el) != 2 {
//	        t.Error("expected the two writes to share one render")
//	    }
//	}
//
// Each tester has its own registry, loop and document, so every test can
// define the types it needs.
//
// # Snapshot Testing
//
// Capture and compare the serialized document:
//
//	snapshot := tester.CaptureSnapshot()
//	snapshot.MatchesFile(t, "testdata/counter.snapshot.html")
//
// Update snapshots with:
//
//	ELEMENTS_UPDATE_SNAPSHOTS=1 go test ./...
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import elementstest "github.com/go-drift/elements/pkg/testing"
package testing
