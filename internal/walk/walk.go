package walk

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Discover enumerates every file under root that the policy admits,
// honoring max depth (root is depth 1), hidden-file toggling, symlink
// following, and layered gitignore matching ahead of explicit
// include/exclude globs (spec §4.8). Paths are returned root-relative with
// forward slashes, unsorted (callers needing a stable order sort before
// serializing, per spec §5 "Ordering").
func Discover(root string, policy Policy) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("walk: cannot access root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("walk: %s is not a directory", root)
	}

	var gi *gitignoreStack
	if policy.RespectGitignore {
		gi = newGitignoreStack(root)
	}

	var out []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/") + 1 // entries directly under root are depth 1

		if !policy.FollowSymlinks && d.Type()&fs.ModeSymlink != 0 {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if !policy.IncludeHidden && isHidden(d.Name()) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if policy.MaxDepth > 0 && depth > policy.MaxDepth {
				return fs.SkipDir
			}
			return nil
		}

		if policy.MaxDepth > 0 && depth > policy.MaxDepth {
			return nil
		}

		if gi != nil && gi.matches(rel) {
			return nil
		}

		ok, matchErr := policy.matches(rel)
		if matchErr != nil {
			return matchErr
		}
		if !ok {
			return nil
		}

		out = append(out, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk: %w", err)
	}
	return out, nil
}

// FileOutcome pairs a relative path with the task function's result or
// error, so Run can report which files failed without aborting the rest.
type FileOutcome[T any] struct {
	Path  string
	Value T
	Err   error
}

// Run fans a task function out across Discover's file list using a
// fixed-size worker pool (spec §5 "Scheduling": independent per-file tasks,
// single-threaded work inside each task, no cooperative suspension beyond
// the task boundary). Results are collected behind one mutex acquisition
// per completed file and returned sorted by relative path for reproducible
// serialization (spec §5 "Ordering").
func Run[T any](ctx context.Context, root string, policy Policy, task func(ctx context.Context, relPath string) (T, error)) ([]FileOutcome[T], error) {
	paths, err := Discover(root, policy)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(policy.jobs())

	outcomes := make([]FileOutcome[T], len(paths))
	var mu sync.Mutex

	for i, p := range paths {
		i, p := i, p
		g.Go(func() error {
			v, taskErr := task(gctx, p)
			mu.Lock()
			outcomes[i] = FileOutcome[T]{Path: p, Value: v, Err: taskErr}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].Path < outcomes[j].Path })
	return outcomes, nil
}
