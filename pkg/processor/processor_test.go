package processor

import (
	"testing"

	"github.com/yesoreyeram/osai/pkg/schedule"
	"github.com/yesoreyeram/osai/pkg/spsc"
	"github.com/yesoreyeram/osai/pkg/types"
)

type testCx = struct{}

type queues struct {
	toProc  *spsc.Queue[ContextToProcessorMsg[testCx]]
	fromProc *spsc.Queue[ProcessorToContextMsg[testCx]]
}

func newProcessor(t *testing.T, maxBlockFrames int) (*Processor[testCx], queues) {
	t.Helper()
	q := queues{
		toProc:   spsc.New[ContextToProcessorMsg[testCx]](16),
		fromProc: spsc.New[ProcessorToContextMsg[testCx]](16),
	}
	info := types.StreamInfo{
		SampleRate:     48000,
		MaxBlockFrames: maxBlockFrames,
		NumInChannels:  1,
		NumOutChannels: 1,
	}
	return New(q.toProc, q.fromProc, 8, info, testCx{}), q
}

// identityProc copies its first input to its first output.
type identityProc struct{}

func (identityProc) Process(inputs, outputs [][]float32, info types.ProcInfo[testCx]) types.ProcessStatus {
	copy(outputs[0], inputs[0])
	return types.OutputsModified(info.InSilenceMask)
}

// recordingProc logs the block sizes it is invoked with.
type recordingProc struct {
	blockSizes []int
}

func (r *recordingProc) Process(inputs, outputs [][]float32, info types.ProcInfo[testCx]) types.ProcessStatus {
	r.blockSizes = append(r.blockSizes, info.Frames)
	copy(outputs[0], inputs[0])
	return types.OutputsModified(info.InSilenceMask)
}

// passthroughHeap builds schedule data with a single node wired
// graph_in -> node -> graph_out.
func passthroughHeap(node types.NodeID, maxBlockFrames int, proc types.AudioNodeProcessor[testCx]) *ScheduleHeapData[testCx] {
	entries := []schedule.Entry{{
		NodeID:   node,
		InSlots:  []int{2},
		OutSlots: []int{3},
	}}
	return &ScheduleHeapData[testCx]{
		Schedule:              schedule.New(entries, 4, []int{2}, []int{3}, maxBlockFrames),
		NewNodeProcessors:     []NodeProcessorPair[testCx]{{NodeID: node, Processor: proc}},
		RemovedNodeProcessors: make([]NodeProcessorPair[testCx], 0),
	}
}

func ramp(frames int) []float32 {
	out := make([]float32, frames)
	for i := range out {
		out[i] = float32(i) * 0.001
	}
	return out
}

func TestProcessor_NoScheduleZeroesOutput(t *testing.T) {
	p, _ := newProcessor(t, 64)

	output := []float32{9, 9, 9, 9}
	status := p.ProcessInterleaved(make([]float32, 4), output, 1, 1, 4, 0, 0)

	if status != StatusOK {
		t.Fatalf("status = %v, want StatusOK", status)
	}
	for i, v := range output {
		if v != 0 {
			t.Fatalf("output[%d] = %v, want 0", i, v)
		}
	}
}

func TestProcessor_PassThrough(t *testing.T) {
	p, q := newProcessor(t, 64)
	node := types.NodeID{Idx: 2}

	if err := q.toProc.Push(NewScheduleMsg(passthroughHeap(node, 64, identityProc{}))); err != nil {
		t.Fatal(err)
	}

	input := ramp(128)
	output := make([]float32, 128)
	status := p.ProcessInterleaved(input, output, 1, 1, 128, 0, 0)

	if status != StatusOK {
		t.Fatalf("status = %v", status)
	}
	for i := range input {
		if output[i] != input[i] {
			t.Fatalf("frame %d: got %v, want %v", i, output[i], input[i])
		}
	}
}

func TestProcessor_BlockSplitting(t *testing.T) {
	p, q := newProcessor(t, 64)
	node := types.NodeID{Idx: 2}
	rec := &recordingProc{}

	if err := q.toProc.Push(NewScheduleMsg(passthroughHeap(node, 64, rec))); err != nil {
		t.Fatal(err)
	}

	input := ramp(200)
	output := make([]float32, 200)
	p.ProcessInterleaved(input, output, 1, 1, 200, 0, 0)

	want := []int{64, 64, 64, 8}
	if len(rec.blockSizes) != len(want) {
		t.Fatalf("block sizes = %v, want %v", rec.blockSizes, want)
	}
	for i := range want {
		if rec.blockSizes[i] != want[i] {
			t.Fatalf("block sizes = %v, want %v", rec.blockSizes, want)
		}
	}

	// Interleave offsets must be exact across the sub-block seams.
	for i := range input {
		if output[i] != input[i] {
			t.Fatalf("frame %d: got %v, want %v", i, output[i], input[i])
		}
	}
}

func TestProcessor_StopDropsProcessor(t *testing.T) {
	p, q := newProcessor(t, 64)
	node := types.NodeID{Idx: 2}

	if err := q.toProc.Push(NewScheduleMsg(passthroughHeap(node, 64, identityProc{}))); err != nil {
		t.Fatal(err)
	}
	p.ProcessInterleaved(ramp(64), make([]float32, 64), 1, 1, 64, 0, 0)

	if err := q.toProc.Push(StopMsg[testCx]()); err != nil {
		t.Fatal(err)
	}

	output := []float32{9, 9, 9, 9}
	status := p.ProcessInterleaved(make([]float32, 4), output, 1, 1, 4, 0, 0)

	if status != StatusDropProcessor {
		t.Fatalf("status = %v, want StatusDropProcessor", status)
	}
	for i, v := range output {
		if v != 0 {
			t.Fatalf("output[%d] = %v, want 0 after stop", i, v)
		}
	}
}

func TestProcessor_ScheduleSwapHandoff(t *testing.T) {
	p, q := newProcessor(t, 64)
	node := types.NodeID{Idx: 2}
	proc := identityProc{}

	s1 := passthroughHeap(node, 64, proc)
	if err := q.toProc.Push(NewScheduleMsg(s1)); err != nil {
		t.Fatal(err)
	}
	p.ProcessInterleaved(ramp(64), make([]float32, 64), 1, 1, 64, 0, 0)

	// S2 removes the node entirely.
	s2 := &ScheduleHeapData[testCx]{
		Schedule:              schedule.New(nil, 4, []int{2}, []int{schedule.SilentSlot}, 64),
		NodesToRemove:         []types.NodeID{node},
		RemovedNodeProcessors: make([]NodeProcessorPair[testCx], 0, 1),
	}
	if err := q.toProc.Push(NewScheduleMsg(s2)); err != nil {
		t.Fatal(err)
	}
	p.ProcessInterleaved(ramp(64), make([]float32, 64), 1, 1, 64, 0, 0)

	msg, err := q.fromProc.Pop()
	if err != nil {
		t.Fatal("expected a returned schedule message")
	}
	if msg.Kind != MsgReturnSchedule {
		t.Fatalf("message kind = %v, want MsgReturnSchedule", msg.Kind)
	}
	if msg.ScheduleData != s1 {
		t.Error("returned schedule is not the replaced one")
	}
	if len(msg.ScheduleData.RemovedNodeProcessors) != 1 {
		t.Fatalf("removed processors = %d, want 1", len(msg.ScheduleData.RemovedNodeProcessors))
	}
	evicted := msg.ScheduleData.RemovedNodeProcessors[0]
	if evicted.NodeID != node {
		t.Errorf("evicted node = %s, want %s", evicted.NodeID, node)
	}
	if evicted.Processor == nil {
		t.Error("evicted processor missing")
	}

	// The installed collection no longer holds the node: at shutdown the
	// Dropped message must carry nothing.
	p.Close()
	dropped, err := q.fromProc.Pop()
	if err != nil || dropped.Kind != MsgDropped {
		t.Fatalf("expected Dropped message, got (%+v, %v)", dropped, err)
	}
	if len(dropped.Nodes) != 0 {
		t.Errorf("installed collection should be empty after removal, has %d", len(dropped.Nodes))
	}
}

func TestProcessor_CloseHandsBackEverything(t *testing.T) {
	p, q := newProcessor(t, 64)
	node := types.NodeID{Idx: 2}

	s1 := passthroughHeap(node, 64, identityProc{})
	if err := q.toProc.Push(NewScheduleMsg(s1)); err != nil {
		t.Fatal(err)
	}
	p.ProcessInterleaved(ramp(64), make([]float32, 64), 1, 1, 64, 0, 0)

	p.Close()
	p.Close() // idempotent

	msg, err := q.fromProc.Pop()
	if err != nil {
		t.Fatal("expected Dropped message")
	}
	if msg.Kind != MsgDropped {
		t.Fatalf("kind = %v, want MsgDropped", msg.Kind)
	}
	if msg.ScheduleData != s1 {
		t.Error("Dropped must carry the active schedule")
	}
	if len(msg.Nodes) != 1 || msg.Nodes[0].NodeID != node {
		t.Errorf("Dropped nodes = %+v, want the installed node", msg.Nodes)
	}
	if msg.UserCx == nil {
		t.Error("Dropped must carry the user context")
	}
	if _, err := q.fromProc.Pop(); err == nil {
		t.Error("second Close must not push a second message")
	}
}

// TestProcessor_ZeroAllocation verifies the callback allocates nothing once
// a schedule is installed.
func TestProcessor_ZeroAllocation(t *testing.T) {
	p, q := newProcessor(t, 64)
	node := types.NodeID{Idx: 2}

	if err := q.toProc.Push(NewScheduleMsg(passthroughHeap(node, 64, identityProc{}))); err != nil {
		t.Fatal(err)
	}

	input := ramp(200)
	output := make([]float32, 200)
	// Warm up: adopt the schedule.
	p.ProcessInterleaved(input, output, 1, 1, 200, 0, 0)

	allocs := testing.AllocsPerRun(100, func() {
		p.ProcessInterleaved(input, output, 1, 1, 200, 0.1, 0)
	})
	if allocs != 0 {
		t.Errorf("ProcessInterleaved allocated %.1f times per call, want 0", allocs)
	}
}

func BenchmarkProcessor_ProcessInterleaved(b *testing.B) {
	q := queues{
		toProc:   spsc.New[ContextToProcessorMsg[testCx]](16),
		fromProc: spsc.New[ProcessorToContextMsg[testCx]](16),
	}
	info := types.StreamInfo{SampleRate: 48000, MaxBlockFrames: 64, NumInChannels: 1, NumOutChannels: 1}
	p := New(q.toProc, q.fromProc, 8, info, testCx{})

	node := types.NodeID{Idx: 2}
	_ = q.toProc.Push(NewScheduleMsg(passthroughHeap(node, 64, identityProc{})))

	input := ramp(512)
	output := make([]float32, 512)
	p.ProcessInterleaved(input, output, 1, 1, 512, 0, 0)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p.ProcessInterleaved(input, output, 1, 1, 512, 0, 0)
	}
}
