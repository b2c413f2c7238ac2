package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dhamidi/typestripped/codebase"
	"github.com/dhamidi/typestripped/project"
)

// reporter serializes progress lines of concurrent workers.
type reporter struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

func (r *reporter) converted(src, dst string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s %s to %s\n", successFmt("Converted"), pathFmt(src), pathFmt(dst))
}

func (r *reporter) removed(dst string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "%s %s\n", successFmt("Removed"), pathFmt(dst))
}

func (r *reporter) failed(info *codebase.FileInfo, fatal bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	label := warningFmt("skipped:")
	if fatal {
		label = errorFmt("error:")
	}
	for _, perr := range info.Diagnostics() {
		fmt.Fprintln(r.errOut, label, perr)
	}
	if info.Err != nil && len(info.Diagnostics()) == len(info.Failures) {
		fmt.Fprintln(r.errOut, label, info.Err)
	}
}

// writeOutput writes the transpiled text of info below the output
// directory. Files with failures are written only when cfg allows
// recovery; ok is false when the file was not written.
func writeOutput(cfg *project.Config, info *codebase.FileInfo, rep *reporter) (ok bool, err error) {
	switch {
	case info.Err != nil:
		rep.failed(info, true)
		return false, nil
	case len(info.Failures) > 0 && !cfg.Recover:
		rep.failed(info, true)
		return false, nil
	case len(info.Failures) > 0:
		rep.failed(info, false)
	}
	dst := cfg.OutputPath(info.Path)
	if err := project.EnsureOutDir(dst); err != nil {
		return false, err
	}
	if err := os.WriteFile(dst, []byte(info.Output), 0o644); err != nil {
		return false, fmt.Errorf("write output: %w", err)
	}
	rep.converted(info.Path, dst)
	return true, nil
}
