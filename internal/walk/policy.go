// Package walk implements the parallel directory driver (spec §4.8): a
// policy-governed file enumerator that fans work out across a worker pool
// and aggregates per-file results (spec §5 "Scheduling"/"Shared state").
package walk

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Policy governs which files Discover visits and how (spec §4.8).
type Policy struct {
	Include            []string // glob patterns, repeatable
	Exclude            []string // glob patterns, repeatable; exclude wins over include
	MaxDepth           int      // 0 means unlimited; root is depth 1
	IncludeHidden      bool
	FollowSymlinks     bool
	CaseInsensitive    bool
	RespectGitignore   bool
	Jobs               int
}

// DefaultJobs returns the worker count a Policy should use when Jobs is
// unset: the detected CPU count.
func DefaultJobs() int {
	if n := runtime.NumCPU(); n > 0 {
		return n
	}
	return 1
}

func (p Policy) jobs() int {
	if p.Jobs > 0 {
		return p.Jobs
	}
	return DefaultJobs()
}

// matches reports whether relPath (slash-separated, relative to the walk
// root) passes the policy's include/exclude glob rules. Exclude always
// wins over include (spec §4.8 "exclude wins over include"); an empty
// Include list means "include everything not excluded".
func (p Policy) matches(relPath string) (bool, error) {
	candidate := relPath
	if p.CaseInsensitive {
		candidate = strings.ToLower(candidate)
	}

	for _, pat := range p.Exclude {
		ok, err := matchGlob(pat, candidate, p.CaseInsensitive)
		if err != nil {
			return false, err
		}
		if ok {
			return false, nil
		}
	}

	if len(p.Include) == 0 {
		return true, nil
	}
	for _, pat := range p.Include {
		ok, err := matchGlob(pat, candidate, p.CaseInsensitive)
		if err != nil {
			return false, err
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func matchGlob(pattern, candidate string, caseInsensitive bool) (bool, error) {
	if caseInsensitive {
		pattern = strings.ToLower(pattern)
	}
	ok, err := doublestar.Match(pattern, candidate)
	if err != nil {
		return false, fmt.Errorf("invalid glob %q: %w", pattern, err)
	}
	return ok, nil
}

// ValidateOutputPath enforces spec §4.8's safety rule: the output path may
// not equal or nest inside the input path after resolving `..` and
// symlinks.
func ValidateOutputPath(inRoot, outRoot string) error {
	in, err := resolvePath(inRoot)
	if err != nil {
		return err
	}
	out, err := resolvePath(outRoot)
	if err != nil {
		return err
	}
	if in == out {
		return fmt.Errorf("output path %q must not equal input path %q", outRoot, inRoot)
	}
	rel, err := filepath.Rel(in, out)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(rel, "..") {
		return fmt.Errorf("output path %q must not nest inside input path %q", outRoot, inRoot)
	}
	return nil
}

// resolvePath returns path's absolute, symlink-resolved form. outRoot
// commonly doesn't exist yet (it's about to be created), so this resolves
// symlinks on the longest existing prefix and reattaches the remaining,
// not-yet-created suffix unresolved rather than failing.
func resolvePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	dir := filepath.Dir(abs)
	suffix := filepath.Base(abs)
	for {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, suffix), nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil // reached the filesystem root without finding an existing prefix
		}
		suffix = filepath.Join(filepath.Base(dir), suffix)
		dir = parent
	}
}
