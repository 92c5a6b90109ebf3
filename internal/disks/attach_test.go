package disks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// fakeOperation se comporta según el guion: N polls pendientes, luego done,
// con falla/warnings opcionales.
type fakeOperation struct {
	name      string
	pollsLeft int
	pollErr   error
	failCode  string
	failMsg   string
	warnings  []Warning
	done      bool
}

func (f *fakeOperation) Poll(context.Context) error {
	if f.pollErr != nil {
		return f.pollErr
	}
	if f.pollsLeft <= 0 {
		f.done = true
	} else {
		f.pollsLeft--
	}
	return nil
}
func (f *fakeOperation) Done() bool   { return f.done }
func (f *fakeOperation) Name() string { return f.name }
func (f *fakeOperation) Failure() (string, string, bool) {
	return f.failCode, f.failMsg, f.failCode != ""
}
func (f *fakeOperation) Warnings() []Warning { return f.warnings }

type fakeInstances struct {
	op        Operation
	attachErr error
	gotReq    AttachRequest
}

func (f *fakeInstances) AttachDisk(_ context.Context, req AttachRequest) (Operation, error) {
	f.gotReq = req
	if f.attachErr != nil {
		return nil, f.attachErr
	}
	return f.op, nil
}

func TestWaitForOperation_Done(t *testing.T) {
	op := &fakeOperation{name: "op-1", pollsLeft: 2, warnings: []Warning{{Code: "DEPRECATED_RESOURCE_USED", Message: "old disk type"}}}

	out, err := WaitForOperation(context.Background(), op, time.Second, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, OutcomeDone, out.Kind)
	require.Equal(t, "op-1", out.Operation)
	require.Len(t, out.Warnings, 1)
}

func TestWaitForOperation_Failed(t *testing.T) {
	op := &fakeOperation{name: "op-2", failCode: "RESOURCE_NOT_FOUND", failMsg: "disk missing"}

	out, err := WaitForOperation(context.Background(), op, time.Second, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, OutcomeFailed, out.Kind)
	require.Equal(t, "RESOURCE_NOT_FOUND", out.ErrorCode)
	require.Equal(t, "disk missing", out.ErrorMessage)
}

func TestWaitForOperation_TimedOut(t *testing.T) {
	// nunca termina: el timeout corta y sale etiquetado, no como error
	op := &fakeOperation{name: "op-3", pollsLeft: 1 << 30}

	out, err := WaitForOperation(context.Background(), op, 30*time.Millisecond, 5*time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, OutcomeTimedOut, out.Kind)
	require.Equal(t, "op-3", out.Operation)
}

func TestWaitForOperation_TransportErrorPropagates(t *testing.T) {
	op := &fakeOperation{name: "op-4", pollErr: errors.New("connection reset")}

	_, err := WaitForOperation(context.Background(), op, time.Second, time.Millisecond)
	require.Error(t, err)
	require.Contains(t, err.Error(), "op-4")
	require.Contains(t, err.Error(), "connection reset")
}

func TestAttach_ValidatesBeforeCalling(t *testing.T) {
	inst := &fakeInstances{}

	_, err := Attach(context.Background(), inst, AttachRequest{}, time.Second, time.Millisecond)
	require.ErrorIs(t, err, ErrInvalidRequest)
	require.Empty(t, inst.gotReq.Project, "no debe llegar a la API con request inválido")

	_, err = Attach(context.Background(), inst, AttachRequest{
		Project: "p", Zone: "z", Instance: "i", DiskLink: "/projects/p/zones/z/disks/d", Mode: "READ_MAYBE",
	}, time.Second, time.Millisecond)
	require.ErrorIs(t, err, ErrInvalidRequest)
}

func TestAttach_EndToEnd(t *testing.T) {
	inst := &fakeInstances{op: &fakeOperation{name: "op-5", pollsLeft: 1}}
	req := AttachRequest{
		Project: "p", Zone: "europe-west1-b", Instance: "vm-1",
		DiskLink: "/projects/p/zones/europe-west1-b/disks/data", Mode: ModeReadWrite,
	}

	out, err := Attach(context.Background(), inst, req, time.Second, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, OutcomeDone, out.Kind)
	require.Equal(t, req, inst.gotReq)
}
