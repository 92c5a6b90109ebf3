package disks

import (
	"context"
	"fmt"

	compute "cloud.google.com/go/compute/apiv1"
	"cloud.google.com/go/compute/apiv1/computepb"
	"github.com/google/uuid"
	"google.golang.org/protobuf/proto"
)

// GCEInstances implementa Instances sobre el cliente REST de Compute Engine.
type GCEInstances struct {
	c *compute.InstancesClient
}

func NewGCEInstances(ctx context.Context) (*GCEInstances, error) {
	c, err := compute.NewInstancesRESTClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("disks: instances client: %w", err)
	}
	return &GCEInstances{c: c}, nil
}

func (g *GCEInstances) Close() error { return g.c.Close() }

func (g *GCEInstances) AttachDisk(ctx context.Context, req AttachRequest) (Operation, error) {
	// RequestId de idempotencia: si la API reintenta, no duplica el attach.
	op, err := g.c.AttachDisk(ctx, &computepb.AttachDiskInstanceRequest{
		Project:   req.Project,
		Zone:      req.Zone,
		Instance:  req.Instance,
		RequestId: proto.String(uuid.NewString()),
		AttachedDiskResource: &computepb.AttachedDisk{
			Source: proto.String(req.DiskLink),
			Mode:   proto.String(string(req.Mode)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("disks: attach disk to %s: %w", req.Instance, err)
	}
	return &gceOperation{op: op}, nil
}

type gceOperation struct {
	op *compute.Operation
}

func (o *gceOperation) Poll(ctx context.Context) error { return o.op.Poll(ctx) }
func (o *gceOperation) Done() bool                     { return o.op.Done() }
func (o *gceOperation) Name() string                   { return o.op.Name() }

func (o *gceOperation) Failure() (string, string, bool) {
	p := o.op.Proto()
	if p == nil {
		return "", "", false
	}
	if e := p.GetError(); e != nil && len(e.GetErrors()) > 0 {
		first := e.GetErrors()[0]
		return first.GetCode(), first.GetMessage(), true
	}
	if p.GetHttpErrorStatusCode() >= 400 {
		return fmt.Sprintf("HTTP_%d", p.GetHttpErrorStatusCode()), p.GetHttpErrorMessage(), true
	}
	return "", "", false
}

func (o *gceOperation) Warnings() []Warning {
	p := o.op.Proto()
	if p == nil {
		return nil
	}
	var out []Warning
	for _, w := range p.GetWarnings() {
		out = append(out, Warning{Code: w.GetCode(), Message: w.GetMessage()})
	}
	return out
}
