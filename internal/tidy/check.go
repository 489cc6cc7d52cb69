package tidy

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"codetidy/internal/diag"
	"codetidy/internal/errcode"
	"codetidy/internal/observ"
	"codetidy/internal/pipeline"
	"codetidy/internal/source"
	"codetidy/internal/trace"
)

// Result is everything a run produced. Bag holds the findings of all stages
// in the order they were reported.
type Result struct {
	Registry        *Registry
	NoLongerEmitted *errcode.Set
	Used            *errcode.Set
	Bag             *diag.Bag
	Timing          observ.Report
}

// LoadRegistry reads and parses the registry file. Findings go to r; a file
// that cannot be read is an operational error.
func LoadRegistry(opts *Options, r diag.Reporter) (*Registry, error) {
	f, err := source.Load(opts.RegistryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry %q: %w", opts.RegistryPath, err)
	}
	return ParseRegistry(f, opts.Syntax, opts.Reference, r), nil
}

// Check runs the four stages in order: registry, explanations, fixtures and
// usage. Findings never stop the run; only cancellation and an unreadable
// registry do.
func Check(ctx context.Context, opts Options) (*Result, error) {
	bag := diag.NewBag(0)
	r := diag.BagReporter{Bag: bag}
	res := &Result{Bag: bag}

	tracer := trace.FromContext(ctx)
	root := trace.Begin(tracer, trace.ScopeDriver, "check", trace.CurrentSpan(ctx))
	ctx = trace.WithSpan(ctx, root)
	timer := observ.NewTimer()
	defer func() {
		res.Timing = timer.Report()
		root.WithExtra("findings", strconv.Itoa(bag.Len())).End("")
	}()

	for _, st := range pipeline.Stages() {
		opts.emit(pipeline.Event{Stage: st, Status: pipeline.StatusQueued})
	}

	run := func(stage pipeline.Stage, fn func(ctx context.Context) (int, string, error)) error {
		span := trace.Begin(tracer, trace.ScopeStage, string(stage), root.ID())
		idx := timer.Begin(string(stage))
		before, errorsBefore := bag.Len(), bag.Count(diag.SevError)
		opts.emit(pipeline.Event{Stage: stage, Status: pipeline.StatusWorking})

		items, note, err := fn(trace.WithSpan(ctx, span))

		timer.End(idx, items, note)
		findings := bag.Len() - before
		status := pipeline.StatusDone
		if err != nil || bag.Count(diag.SevError) > errorsBefore {
			status = pipeline.StatusError
		}
		elapsed := span.WithExtra("items", strconv.Itoa(items)).
			WithExtra("findings", strconv.Itoa(findings)).
			End(note)
		opts.emit(pipeline.Event{Stage: stage, Status: status, Files: items, Findings: findings, Err: err, Elapsed: elapsed})
		return err
	}

	err := run(pipeline.StageRegistry, func(context.Context) (int, string, error) {
		reg, err := LoadRegistry(&opts, r)
		if err != nil {
			return 0, "", err
		}
		res.Registry = reg
		return reg.Len(), "", nil
	})
	if err != nil {
		return nil, err
	}
	printSummary(opts.Out, res.Registry)

	err = run(pipeline.StageDocs, func(ctx context.Context) (int, string, error) {
		nle, err := AuditExplanations(ctx, res.Registry, &opts, r)
		if err != nil {
			return 0, "", err
		}
		res.NoLongerEmitted = nle
		return res.Registry.Len(), fmt.Sprintf("%d no longer emitted", nle.Len()), nil
	})
	if err != nil {
		return nil, err
	}

	err = run(pipeline.StageTests, func(ctx context.Context) (int, string, error) {
		return res.Registry.Len(), "", AuditFixtures(ctx, res.Registry, res.NoLongerEmitted, &opts, r)
	})
	if err != nil {
		return nil, err
	}

	err = run(pipeline.StageUsage, func(ctx context.Context) (int, string, error) {
		used, err := ScanUsage(ctx, res.Registry, res.NoLongerEmitted, &opts, r)
		if err != nil {
			return 0, "", err
		}
		res.Used = used
		return used.Len(), fmt.Sprintf("%d codes used", used.Len()), nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

func printSummary(w io.Writer, reg *Registry) {
	if w == nil {
		return
	}
	fmt.Fprintf(w, "Found %d error codes\n", reg.Len())
	if highest, ok := reg.Highest(); ok {
		fmt.Fprintf(w, "Highest error code: `%s`\n", highest)
	} else {
		fmt.Fprintln(w, "Highest error code: none")
	}
}
