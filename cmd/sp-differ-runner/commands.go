package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/shuv-amp/sp-differ/application/config"
	"github.com/shuv-amp/sp-differ/domain/entities"
	"github.com/shuv-amp/sp-differ/host"
	"github.com/shuv-amp/sp-differ/worker"
)

// runResult is the JSON form of a run.
type runResult struct {
	Worker string          `json:"worker"`
	Reply  string          `json:"reply"`
	Status entities.Status `json:"status"`
}

func (r *runner) runCase(c *cli.Context) error {
	input, err := r.readCase(c)
	if err != nil {
		return err
	}

	name := r.cfg.Worker
	if c.IsSet("worker") {
		name = c.String("worker")
	}

	ctx := c.Context
	w, err := r.opener.Open(ctx, name)
	if err != nil {
		return err
	}
	defer r.close(ctx, w)

	reply, raw, err := host.RunCase(ctx, w, input)
	if err != nil {
		return err
	}
	r.logger.InfoContext(ctx, "case evaluated", "worker", w.Name(), "status", reply.Status, "reply", raw)

	if c.Bool("json") {
		return writeJSON(r.stdout, runResult{Worker: w.Name(), Status: reply.Status, Reply: hex.EncodeToString(raw)})
	}
	fmt.Fprintln(r.stdout, "OK: output valid")
	return nil
}

// mismatchError carries a failed comparison to execute.
type mismatchError struct {
	cmp *host.Comparison
}

func (e *mismatchError) Error() string {
	return errOutputsMismatch.Error()
}

func (e *mismatchError) Unwrap() error {
	return errOutputsMismatch
}

func (e *mismatchError) print(w io.Writer) {
	c := e.cmp
	fmt.Fprintln(w, "MISMATCH: outputs differ")
	fmt.Fprintf(w, "  left_len: %d\n", len(c.LeftRaw))
	fmt.Fprintf(w, "  right_len: %d\n", len(c.RightRaw))
	switch {
	case c.FirstDiff >= 0:
		fmt.Fprintf(w, "  first_diff: %d left=0x%02x right=0x%02x\n",
			c.FirstDiff, c.LeftRaw[c.FirstDiff], c.RightRaw[c.FirstDiff])
	case c.LengthDiff:
		fmt.Fprintf(w, "  first_diff: %d (length mismatch)\n", min(len(c.LeftRaw), len(c.RightRaw)))
	}
}

func (r *runner) compare(c *cli.Context) error {
	input, err := r.readCase(c)
	if err != nil {
		return err
	}

	leftName, rightName := r.cfg.Left, r.cfg.Right
	if c.IsSet("left") {
		leftName = c.String("left")
	}
	if c.IsSet("right") {
		rightName = c.String("right")
	}

	ctx := c.Context
	left, err := r.opener.Open(ctx, leftName)
	if err != nil {
		return fmt.Errorf("left: %w", err)
	}
	defer r.close(ctx, left)

	right, err := r.opener.Open(ctx, rightName)
	if err != nil {
		return fmt.Errorf("right: %w", err)
	}
	defer r.close(ctx, right)

	cmp, err := host.Compare(ctx, left, right, input)
	if err != nil {
		return err
	}
	if !cmp.Match() {
		r.logger.InfoContext(ctx, "outputs differ", "left", left.Name(), "right", right.Name(),
			"left_reply", cmp.LeftRaw, "right_reply", cmp.RightRaw)
		return &mismatchError{cmp: cmp}
	}

	fmt.Fprintln(r.stdout, "OK: outputs match")
	return nil
}

// caseReport lays out a parsed case for inspect.
const caseReport = `case v{{.Header.Version}} seed={{.Header.Seed}} flags={{printf "0x%08x" .Header.Flags}}
inputs: {{len .Inputs}} outputs: {{.Header.OutputCount}}
{{range $i, $in := .Inputs}}  [{{$i}}] {{hex $in.OutpointTxid}}:{{$in.OutpointVout}} type={{$in.Type}}{{if $in.Privkey}} privkey=<redacted>{{end}}{{if $in.Pubkey}} pubkey={{hex $in.Pubkey}}{{end}}
{{end}}scan_pubkey:  {{hex .ScanPubkey}}
spend_pubkey: {{hex .SpendPubkey}}
labels: {{.Labels}}
`

func (r *runner) inspect(c *cli.Context) error {
	input, err := r.readCase(c)
	if err != nil {
		return err
	}

	parsed, err := entities.ParseCase(input)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return writeJSON(r.stdout, parsed)
	}

	out, err := r.renderer.Render("case", caseReport, parsed)
	if err != nil {
		return err
	}
	_, err = r.stdout.Write(out)
	return err
}

func (r *runner) listWorkers(_ *cli.Context) error {
	aliases := host.NewLoader(host.WithAliases(r.cfg.Workers)).Aliases()

	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(r.stdout, "%-8s %s\n", name, aliases[name])
	}
	return nil
}

func (r *runner) printVersion(_ *cli.Context) error {
	fmt.Fprintf(r.stdout, "sp-differ-runner %s\n", version)
	fmt.Fprintf(r.stdout, "worker api: %d\n", worker.APIVersion)
	return nil
}

func (r *runner) printSchema(_ *cli.Context) error {
	out, err := config.Schema()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(r.stdout, string(out))
	return err
}
