// Command sp-differ-runner loads sp_differ workers, runs cases through them
// and compares their replies.
//
//	sp-differ-runner run [--worker cpp] case.hex
//	sp-differ-runner compare [--left cpp] [--right rust] case.hex
//	sp-differ-runner inspect case.hex
//
// Failures print "FAIL: <reason>" to stderr and exit with status 2.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, newRunner(os.Stdout, os.Stderr), os.Args)
	stop()
	os.Exit(code)
}

// newRunner wires the production dependencies.
func newRunner(stdout, stderr io.Writer) *runner {
	return &runner{
		stdout:    stdout,
		stderr:    stderr,
		newOpener: newLoader,
	}
}
