package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// Failure is the failure of processing a single file.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Report summarizes a run over a list of files.
type Report struct {
	Succeeded []string
	Failed    []Failure
	Skipped   []string // not processed because the run has been cancelled
}

// OK is true if no file failed and no file has been skipped.
func (r Report) OK() bool {
	return len(r.Failed) == 0 && len(r.Skipped) == 0
}

// Err returns an error summarizing the failures, or nil.
func (r Report) Err() error {
	if r.OK() {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d files failed", len(r.Failed),
		len(r.Succeeded)+len(r.Failed)+len(r.Skipped))
	if len(r.Skipped) > 0 {
		fmt.Fprintf(&b, ", %d skipped", len(r.Skipped))
	}
	return errors.New(b.String())
}

// Run calls fn for every path, one after the other. An error or a panic in
// fn is recorded as a failure of that path and does not stop the run. The
// context is checked between files: after cancellation, the remaining paths
// are skipped.
func Run(ctx context.Context, paths []string, fn func(ctx context.Context, path string) error) Report {
	var report Report
	for i, path := range paths {
		if ctx.Err() != nil {
			tracer().Infof("run cancelled, skipping %d files", len(paths)-i)
			report.Skipped = append(report.Skipped, paths[i:]...)
			break
		}
		if err := runOne(ctx, path, fn); err != nil {
			tracer().Errorf("%s: %v", path, err)
			report.Failed = append(report.Failed, Failure{Path: path, Err: err})
			continue
		}
		report.Succeeded = append(report.Succeeded, path)
	}
	return report
}

func runOne(ctx context.Context, path string, fn func(context.Context, string) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			tracer().Debugf("panic processing %s: %v\n%s", path, r, debug.Stack())
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, path)
}
