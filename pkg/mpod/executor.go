package mpod

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/time/rate"
)

// Executor dispatches built commands to the SNMP client, strictly
// sequentially and in the order the builder produced them. A failed
// command is recorded in its own result and never aborts the batch:
// one bad channel must not prevent controlling the others.
type Executor struct {
	target  *Target
	client  SNMPClient
	limiter *rate.Limiter
	dryRun  bool
	out     io.Writer
}

// ExecutorOptions tunes one Executor. The zero value is a live run
// writing to stdout with no pacing.
type ExecutorOptions struct {
	// DryRun renders every command instead of sending it; no network
	// I/O happens at all.
	DryRun bool
	// Out receives dry-run renderings (default os.Stdout).
	Out io.Writer
	// MaxCommandRate caps commands per second. Zero means unpaced.
	// Some crates drop writes arriving back to back.
	MaxCommandRate float64
}

// NewExecutor builds an executor for one crate. The client may be nil
// for a dry run.
func NewExecutor(target *Target, client SNMPClient, opts *ExecutorOptions) (*Executor, error) {
	if target == nil {
		return nil, ErrNilTarget
	}

	if opts == nil {
		opts = &ExecutorOptions{}
	}

	e := &Executor{
		target: target,
		client: client,
		dryRun: opts.DryRun,
		out:    opts.Out,
	}

	if e.out == nil {
		e.out = os.Stdout
	}

	if opts.MaxCommandRate > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(opts.MaxCommandRate), 1)
	}

	return e, nil
}

// Execute runs every command in order and returns one result per
// command, in the same order. The run as a whole succeeded only if no
// result carries an error.
func (e *Executor) Execute(ctx context.Context, commands []SnmpCommand) []Result {
	results := make([]Result, 0, len(commands))

	for _, cmd := range commands {
		results = append(results, e.execute(ctx, cmd))
	}

	return results
}

func (e *Executor) execute(ctx context.Context, cmd SnmpCommand) Result {
	if e.dryRun {
		fmt.Fprintf(e.out, "dry-run: %s %s\n", e.target.Host, cmd)

		return Result{Command: cmd}
	}

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return Result{Command: cmd, Err: err}
		}
	}

	var (
		value interface{}
		err   error
	)

	switch cmd.Op {
	case OpSet:
		value, err = e.client.Set(ctx, cmd)
	default:
		value, err = e.client.Get(ctx, cmd.OID)
	}

	return Result{Command: cmd, Value: value, Err: err}
}
