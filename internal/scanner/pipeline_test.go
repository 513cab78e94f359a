package scanner

import (
	"testing"

	"github.com/tinyzimmer/go-gst/gst"
	"github.com/tinyzimmer/go-gst/gst/app"
)

func TestLinkFailureResetsPipeline(t *testing.T) {
	gst.Init(nil)
	identity, err := gst.NewElement("identity")
	if err != nil {
		t.Skipf("GStreamer core elements unavailable: %v", err)
	}
	sink, err := app.NewAppSink()
	if err != nil {
		t.Skipf("appsink unavailable: %v", err)
	}

	pipeline, err := gst.NewPipeline("")
	if err != nil {
		t.Fatalf("NewPipeline() = %v", err)
	}
	if err := pipeline.AddMany(identity, sink.Element); err != nil {
		t.Fatalf("AddMany() = %v", err)
	}
	if err := pipeline.SetState(gst.StateReady); err != nil {
		t.Fatalf("SetState(READY) = %v", err)
	}

	// appsink has no source pad, so linking it upstream of identity fails.
	if err := linkPipeline(pipeline, sink.Element, identity); err == nil {
		t.Fatal("linkPipeline() succeeded for an impossible link")
	}
	if got := pipeline.GetState(); got != gst.StateNull {
		t.Errorf("pipeline state after link failure = %v, want NULL", got)
	}
}
