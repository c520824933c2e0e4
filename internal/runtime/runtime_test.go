package runtime

import (
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"

	"neuronshim/internal/backend"
	"neuronshim/internal/config"
	"neuronshim/internal/logging"
	"neuronshim/internal/resolver"
	"neuronshim/pkg/types"
)

func TestStubScenario(t *testing.T) {
	dir := t.TempDir()
	s := newTestShim(t, dir)
	if s.Suffix() != ".onnx" {
		t.Fatalf("suffix %q, want .onnx", s.Suffix())
	}
	r := mustCreate(t, s)

	err := r.LoadNetworkFromFile("/vendor/models/detect.dla")
	if Code(err) != types.BadData || !resolver.IsNotFound(err) {
		t.Fatalf("missing model: got %v (code %v)", err, Code(err))
	}

	writeModel(t, filepath.Join(dir, "detect.dla.onnx"))
	if err := r.LoadNetworkFromFile("/vendor/models/detect.dla"); err != nil {
		t.Fatalf("load: %v", err)
	}

	in := make([]byte, 602*3*224)
	out := make([]byte, 1001*4)
	for i := range out {
		out[i] = 0xff
	}
	if err := r.SetInput(0, in, 0); err != nil {
		t.Fatalf("set input: %v", err)
	}
	if err := r.SetOutput(0, out, 0); err != nil {
		t.Fatalf("set output: %v", err)
	}
	if n, err := r.InputSize(0); err != nil || n != uint64(len(in)) {
		t.Fatalf("input size = %d, %v", n, err)
	}
	if n, err := r.OutputSize(0); err != nil || n != uint64(len(out)) {
		t.Fatalf("output size = %d, %v", n, err)
	}
	if err := r.Inference(); err != nil {
		t.Fatalf("inference: %v", err)
	}
	for i := 0; i < 1001; i++ {
		if v := math.Float32frombits(binary.LittleEndian.Uint32(out[i*4:])); v != 0 {
			t.Fatalf("output[%d] = %v, want 0", i, v)
		}
	}
	if err := r.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
}

func TestReleasedHandle(t *testing.T) {
	s := newTestShim(t, "")
	r := mustCreate(t, s)
	if err := r.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	checks := map[string]error{
		"release":   r.Release(),
		"load":      r.LoadNetworkFromFile("/m.dla"),
		"load_buf":  r.LoadNetworkFromBuffer([]byte{1}),
		"set_input": r.SetInput(0, []byte{1}, 0),
		"inference": r.Inference(),
	}
	if _, err := r.InputCount(); err != nil {
		checks["input_count"] = err
	} else {
		t.Fatalf("input count on released handle succeeded")
	}
	for name, err := range checks {
		if Code(err) != types.UnexpectedNull {
			t.Fatalf("%s on released handle: %v (code %v)", name, err, Code(err))
		}
	}
}

func TestNilHandleAndArguments(t *testing.T) {
	var nilRT *Runtime
	if Code(nilRT.Inference()) != types.UnexpectedNull {
		t.Fatalf("nil inference should be unexpected null")
	}
	if _, err := nilRT.OutputSize(0); Code(err) != types.UnexpectedNull {
		t.Fatalf("nil output size: %v", err)
	}

	r := mustCreate(t, newTestShim(t, ""))
	defer r.Release()
	if Code(r.LoadNetworkFromFile("")) != types.BadData {
		t.Fatalf("empty path should resolve and miss as bad data")
	}
	if Code(r.LoadNetworkFromBuffer(nil)) != types.UnexpectedNull {
		t.Fatalf("nil model buffer should be unexpected null")
	}
	if Code(r.SetOutput(0, nil, 0)) != types.UnexpectedNull {
		t.Fatalf("nil output buffer should be unexpected null")
	}
}

func TestQoSAlwaysSucceeds(t *testing.T) {
	var nilRT *Runtime
	qos := &types.QoSOptions{Priority: types.PriorityHigh, ProfiledQoSData: []byte{1, 2}, ProfiledQoSDataSize: 2}
	if err := nilRT.SetQoSOption(qos); err != nil {
		t.Fatalf("set qos: %v", err)
	}
	if err := nilRT.ProfiledQoSData(qos); err != nil {
		t.Fatalf("profiled qos: %v", err)
	}
	if qos.ProfiledQoSData != nil || qos.ProfiledQoSDataSize != 0 {
		t.Fatalf("profiled fields not cleared: %+v", qos)
	}
	if qos.Priority != types.PriorityHigh {
		t.Fatalf("unrelated fields must be untouched")
	}
	if err := nilRT.ProfiledQoSData(nil); err != nil {
		t.Fatalf("nil qos: %v", err)
	}
}

func TestInfoFillsOnlySize(t *testing.T) {
	r := mustCreate(t, newTestShim(t, ""))
	defer r.Release()
	if err := r.LoadNetworkFromBuffer([]byte("model")); err != nil {
		t.Fatalf("load buffer: %v", err)
	}
	info, err := r.InputInfo(0)
	if err != nil {
		t.Fatalf("input info: %v", err)
	}
	if info.SizeBytes != 1024 || info.DimensionCount != 0 || info.Type != 0 {
		t.Fatalf("unexpected info %+v", info)
	}
	if _, err := r.OutputInfo(7); Code(err) != types.OpFailed {
		t.Fatalf("out of range output info: %v", err)
	}
}

type failingBackend struct{}

func (failingBackend) Name() string { return "failing" }
func (failingBackend) Create(backend.Options) (backend.Session, error) {
	return nil, backend.ErrUnavailable("no engine")
}

func TestCreateFailureIsOpFailed(t *testing.T) {
	s := New(config.Defaults(), WithLogger(logging.Nop()), WithBackend(failingBackend{}))
	r, err := s.Create(&types.RuntimeConfig{})
	if r != nil || Code(err) != types.OpFailed || !IsOpFailed(err) {
		t.Fatalf("got %v, %v", r, err)
	}
}

func TestDistinctHandlesIndependent(t *testing.T) {
	s := newTestShim(t, "")
	a, b := mustCreate(t, s), mustCreate(t, s)
	outA, outB := []byte{9, 9}, []byte{7, 7, 7}
	_ = a.LoadNetworkFromBuffer([]byte{0})
	_ = b.LoadNetworkFromBuffer([]byte{0})
	_ = a.SetOutput(0, outA, 0)
	_ = b.SetOutput(0, outB, 0)
	if err := a.Release(); err != nil {
		t.Fatalf("release a: %v", err)
	}
	if err := b.Inference(); err != nil {
		t.Fatalf("b inference after releasing a: %v", err)
	}
	if outB[0] != 0 || outA[0] != 9 {
		t.Fatalf("handles not independent: a=%v b=%v", outA, outB)
	}
	_ = b.Release()
}
