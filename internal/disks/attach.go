// Package disks envuelve el attach de discos persistentes a instancias de
// Compute Engine, con espera acotada sobre la long-running operation.
package disks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dropDatabas3/edgeauth/internal/observability/logger"
)

// AttachMode es el modo de attach del disco.
type AttachMode string

const (
	ModeReadOnly  AttachMode = "READ_ONLY"
	ModeReadWrite AttachMode = "READ_WRITE"
)

var ErrInvalidRequest = errors.New("disks: invalid attach request")

// AttachRequest describe el attach: instancia destino y link del disco
// (zonal o regional), en formato URL completa o parcial `/projects/...`.
type AttachRequest struct {
	Project  string
	Zone     string
	Instance string
	DiskLink string
	Mode     AttachMode
}

func (r AttachRequest) Validate() error {
	if r.Project == "" || r.Zone == "" || r.Instance == "" || r.DiskLink == "" {
		return fmt.Errorf("%w: project, zone, instance and disk link are required", ErrInvalidRequest)
	}
	if r.Mode != ModeReadOnly && r.Mode != ModeReadWrite {
		return fmt.Errorf("%w: mode must be READ_ONLY or READ_WRITE, got %q", ErrInvalidRequest, string(r.Mode))
	}
	return nil
}

// Warning es una advertencia que la API adjunta a la operación terminada.
type Warning struct {
	Code    string
	Message string
}

// OutcomeKind etiqueta cómo terminó la espera de la operación.
type OutcomeKind int

const (
	OutcomeDone OutcomeKind = iota
	OutcomeFailed
	OutcomeTimedOut
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeDone:
		return "done"
	case OutcomeFailed:
		return "failed"
	case OutcomeTimedOut:
		return "timed_out"
	}
	return "unknown"
}

// Outcome es el resultado etiquetado de esperar una operación: terminó bien,
// terminó con error del lado de la API, o se agotó el timeout. Las fallas de
// transporte NO viven acá: esas se devuelven como error.
type Outcome struct {
	Kind         OutcomeKind
	Operation    string
	ErrorCode    string
	ErrorMessage string
	Warnings     []Warning
}

// Operation es el handle polleable de una long-running operation.
type Operation interface {
	Poll(ctx context.Context) error
	Done() bool
	Name() string
	// Failure reporta código y mensaje si la operación terminó con error.
	Failure() (code, message string, failed bool)
	Warnings() []Warning
}

// Instances emite el attach y devuelve el handle de la operación.
// El adapter real está en gce.go; los tests usan un fake.
type Instances interface {
	AttachDisk(ctx context.Context, req AttachRequest) (Operation, error)
}

// Attach valida el request, emite el attach y espera el resultado.
func Attach(ctx context.Context, inst Instances, req AttachRequest, timeout, interval time.Duration) (Outcome, error) {
	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}
	op, err := inst.AttachDisk(ctx, req)
	if err != nil {
		return Outcome{}, err
	}
	return WaitForOperation(ctx, op, timeout, interval)
}

// WaitForOperation pollea la operación hasta que termine o hasta agotar
// timeout. Devuelve un Outcome etiquetado; los errores de transporte del
// poll se propagan como error sin tragarse.
func WaitForOperation(ctx context.Context, op Operation, timeout, interval time.Duration) (Outcome, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := op.Poll(ctx); err != nil {
			if ctx.Err() != nil {
				return Outcome{Kind: OutcomeTimedOut, Operation: op.Name()}, nil
			}
			return Outcome{}, fmt.Errorf("disks: poll operation %s: %w", op.Name(), err)
		}
		if op.Done() {
			break
		}
		select {
		case <-ctx.Done():
			return Outcome{Kind: OutcomeTimedOut, Operation: op.Name()}, nil
		case <-ticker.C:
		}
	}

	out := Outcome{Kind: OutcomeDone, Operation: op.Name(), Warnings: op.Warnings()}
	if code, msg, failed := op.Failure(); failed {
		out.Kind = OutcomeFailed
		out.ErrorCode = code
		out.ErrorMessage = msg
	}

	log := logger.From(ctx)
	for _, w := range out.Warnings {
		log.Warn("operation warning",
			logger.Operation(out.Operation),
			logger.String("warning_code", w.Code),
			logger.String("warning_message", w.Message),
		)
	}
	return out, nil
}
