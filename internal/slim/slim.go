// Package slim implements the virtualenv slimmer (spec §4.7): given the
// top-level module set a body of code actually imports, materialize a
// reduced copy of a virtualenv containing only the distributions needed
// to satisfy those imports.
package slim

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/trimport/trimport/internal/distindex"
)

// Report summarizes one Slim run for `--stats`/`--json` reporting.
type Report struct {
	Kept           []string // canonical distribution names copied into out_root
	Unresolved     []string // used_modules with no provider in the index
	FilesCopied    int
	BytesCopied    int64
	NeighborsKept  []string // Requires-Dist neighbors kept (and copied in full) by the closure step
}

// Slim implements the five-step algorithm of spec §4.7.
func Slim(envRoot string, usedModules []string, outRoot string, idx *distindex.Index) (*Report, error) {
	report := &Report{}

	kept := make(map[string]*distindex.Record) // canonical name -> record
	usedSet := make(map[string]bool, len(usedModules))
	for _, mod := range usedModules {
		usedSet[mod] = true
	}

	// Step 1: resolve each used module against the index.
	for _, mod := range usedModules {
		providers, ok := idx.ModuleToDistributions[mod]
		if !ok || len(providers) == 0 {
			report.Unresolved = append(report.Unresolved, mod)
			continue
		}
		for _, rec := range providers {
			kept[rec.Name] = rec
		}
	}

	// Step 3: extend the kept set with Requires-Dist neighbors whose own
	// top-level module is itself in used_modules — preserving their
	// dist-info directory so metadata lookups on the kept distribution
	// don't dangle.
	for _, rec := range snapshotRecords(kept) {
		for _, neighborName := range requiresDistNeighbors(rec, idx) {
			neighbor, ok := idx.CanonicalToRecord[neighborName]
			if !ok || kept[neighbor.Name] != nil {
				continue
			}
			if neighborUsed(neighbor, usedSet) {
				kept[neighbor.Name] = neighbor
				report.NeighborsKept = append(report.NeighborsKept, neighbor.Name)
			}
		}
	}

	sortedNames := make([]string, 0, len(kept))
	for name := range kept {
		sortedNames = append(sortedNames, name)
	}
	sort.Strings(sortedNames)
	report.Kept = sortedNames
	sort.Strings(report.Unresolved)
	sort.Strings(report.NeighborsKept)

	// Step 4: copy kept paths into out_root, mirroring site-packages layout.
	for _, name := range sortedNames {
		rec := kept[name]
		n, bytes, err := copyRecord(rec, outRoot)
		if err != nil {
			return nil, fmt.Errorf("slim: copying %s: %w", rec.Name, err)
		}
		report.FilesCopied += n
		report.BytesCopied += bytes
	}

	return report, nil
}

func snapshotRecords(m map[string]*distindex.Record) []*distindex.Record {
	out := make([]*distindex.Record, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	return out
}

// requiresDistNeighbors reads Requires-Dist lines from the kept record's
// METADATA (when present) and returns the canonicalized neighbor names.
func requiresDistNeighbors(rec *distindex.Record, idx *distindex.Index) []string {
	if rec.MetadataPath == "" {
		return nil
	}
	data, err := os.ReadFile(rec.MetadataPath)
	if err != nil {
		return nil
	}
	fields := parseRequiresDist(data)
	var names []string
	for _, raw := range fields {
		req, err := distindex.ParseRequirement(raw)
		if err != nil {
			continue
		}
		names = append(names, distindex.Canonicalize(req.Name))
	}
	return names
}

// neighborUsed reports whether any of neighbor's top-level modules is
// itself requested by used_modules (spec §4.7 step 3's closure condition).
func neighborUsed(neighbor *distindex.Record, usedSet map[string]bool) bool {
	for _, mod := range neighbor.TopLevelModules {
		if usedSet[mod] {
			return true
		}
	}
	return false
}

// copyRecord copies every RecordFiles entry of rec (falling back to a
// full-tree walk if the record is empty) from envRoot into outRoot,
// mirroring the site-packages layout. .pyc files are copied verbatim,
// never recompiled (spec §4.7 step 5).
func copyRecord(rec *distindex.Record, outRoot string) (int, int64, error) {
	if !rec.HasRecord {
		return copyTree(rec.RootPath, filepath.Join(rec.RootPath, firstTopLevel(rec)), outRoot)
	}

	var count int
	var total int64
	for _, rel := range rec.RecordFiles {
		if strings.HasSuffix(rel, "/") {
			continue // directory marker, not a file to copy
		}
		src := filepath.Join(rec.RootPath, filepath.FromSlash(rel))
		dst := filepath.Join(outRoot, filepath.FromSlash(rel))
		info, err := os.Lstat(src)
		if err != nil {
			if os.IsNotExist(err) {
				continue // RECORD may list files removed since install
			}
			return count, total, err
		}
		n, err := copyPath(src, dst, info)
		if err != nil {
			return count, total, err
		}
		count++
		total += n
	}
	return count, total, nil
}

func firstTopLevel(rec *distindex.Record) string {
	if len(rec.TopLevelModules) > 0 {
		return rec.TopLevelModules[0]
	}
	return rec.OriginalName
}

// copyTree is the directory-derived provider fallback: no RECORD exists,
// so copy the whole subtree rooted at src into outRoot/<rel-to-site-packages>.
func copyTree(sitePackages, src, outRoot string) (int, int64, error) {
	var count int
	var total int64
	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(sitePackages, path)
		if err != nil {
			return err
		}
		n, err := copyPath(path, filepath.Join(outRoot, rel), info)
		if err != nil {
			return err
		}
		count++
		total += n
		return nil
	})
	return count, total, err
}

// copyPath copies one file (or symlink) from src to dst, creating parent
// directories as needed, and preserves the source mode bits.
func copyPath(src, dst string, info os.FileInfo) (n int64, err error) {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, err
	}
	if info.Mode()&os.ModeSymlink != 0 {
		target, err := os.Readlink(src)
		if err != nil {
			return 0, err
		}
		if err := os.Symlink(target, dst); err != nil && !os.IsExist(err) {
			return 0, err
		}
		return 0, nil
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			err = cerr
		}
	}()

	n, err = io.Copy(out, in)
	return n, err
}

func parseRequiresDist(metadata []byte) []string {
	var out []string
	for _, line := range strings.Split(string(metadata), "\n") {
		if strings.HasPrefix(line, "Requires-Dist:") {
			out = append(out, strings.TrimSpace(strings.TrimPrefix(line, "Requires-Dist:")))
		}
	}
	return out
}
