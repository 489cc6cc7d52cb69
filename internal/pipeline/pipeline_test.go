package pipeline

import (
	"testing"
)

func TestChannelSinkForwards(t *testing.T) {
	ch := make(chan Event, 1)
	Emit(ChannelSink{Ch: ch}, Event{Stage: StageDocs, Status: StatusWorking, File: "E0001.md"})
	got := <-ch
	if got.Stage != StageDocs || got.File != "E0001.md" {
		t.Fatalf("unexpected event: %+v", got)
	}
	// nil channel and nil sink are no-ops
	ChannelSink{}.OnEvent(Event{})
	Emit(nil, Event{})
}

func TestFuncSink(t *testing.T) {
	var got []Status
	sink := FuncSink(func(e Event) { got = append(got, e.Status) })
	Emit(sink, Event{Status: StatusQueued})
	Emit(sink, Event{Status: StatusDone})
	if len(got) != 2 || got[1] != StatusDone {
		t.Fatalf("unexpected statuses: %v", got)
	}
	var nilFunc FuncSink
	nilFunc.OnEvent(Event{})
}

func TestStagesOrder(t *testing.T) {
	want := []Stage{StageRegistry, StageDocs, StageTests, StageUsage}
	got := Stages()
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Stages()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
