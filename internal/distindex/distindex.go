package distindex

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// sitePackagesCandidates lists the layouts spec §4.6 calls out: POSIX
// versioned and Windows.
func sitePackagesCandidates(envRoot string) []string {
	var out []string
	libDir := filepath.Join(envRoot, "lib")
	if entries, err := os.ReadDir(libDir); err == nil {
		for _, e := range entries {
			if e.IsDir() && strings.HasPrefix(e.Name(), "python") {
				out = append(out, filepath.Join(libDir, e.Name(), "site-packages"))
			}
		}
	}
	out = append(out,
		filepath.Join(envRoot, "Lib", "site-packages"),
		filepath.Join(envRoot, "site-packages"),
	)
	return out
}

// hasAnyDistInfo reports whether dir directly contains a *.dist-info
// directory, the signal used to qualify envRoot itself as a src-layout
// fallback site-packages directory.
func hasAnyDistInfo(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.IsDir() && strings.HasSuffix(e.Name(), ".dist-info") {
			return true
		}
	}
	return false
}

// Scan builds a DistributionIndex for the virtualenv rooted at envRoot
// (spec §4.6). Unreadable dist-info components downgrade to warnings
// rather than failing the scan.
func Scan(envRoot string) (*Index, []string, error) {
	var sitePackages string
	for _, cand := range sitePackagesCandidates(envRoot) {
		if info, err := os.Stat(cand); err == nil && info.IsDir() {
			sitePackages = cand
			break
		}
	}
	if sitePackages == "" && hasAnyDistInfo(envRoot) {
		// src-layout fallback: envRoot is really just a checked-out
		// project with distributions installed alongside it.
		sitePackages = envRoot
	}
	if sitePackages == "" {
		return nil, nil, fmt.Errorf("distindex: no site-packages directory found under %s", envRoot)
	}

	idx := newIndex()
	var warnings []string
	covered := make(map[string]bool) // top-level dir names already claimed by a dist-info

	entries, err := os.ReadDir(sitePackages)
	if err != nil {
		return nil, nil, fmt.Errorf("distindex: reading %s: %w", sitePackages, err)
	}

	for _, e := range entries {
		if !e.IsDir() || !strings.HasSuffix(e.Name(), ".dist-info") {
			continue
		}
		distInfoPath := filepath.Join(sitePackages, e.Name())
		record, warn := scanDistInfo(sitePackages, distInfoPath)
		if warn != "" {
			warnings = append(warnings, warn)
		}
		if record == nil {
			continue
		}
		idx.add(record)
		for _, mod := range record.TopLevelModules {
			covered[mod] = true
		}
	}

	for _, e := range entries {
		if !e.IsDir() || strings.HasSuffix(e.Name(), ".dist-info") || strings.HasSuffix(e.Name(), ".egg-info") {
			continue
		}
		name := e.Name()
		if covered[name] {
			continue
		}
		if !hasInitFile(filepath.Join(sitePackages, name)) {
			continue
		}
		idx.add(&Record{
			Name:            Canonicalize(name),
			OriginalName:    name,
			RootPath:        filepath.Join(sitePackages, name),
			TopLevelModules: []string{name},
		})
	}

	idx.detectConflicts(func(mod string) bool { return isLikelyNamespacePackage(sitePackages, mod) })
	for _, c := range idx.Conflicts {
		warnings = append(warnings, fmt.Sprintf("distindex: module %q is provided by more than one distribution: %s", c.Module, strings.Join(c.Distributions, ", ")))
	}

	return idx, warnings, nil
}

func scanDistInfo(sitePackages, distInfoPath string) (*Record, string) {
	meta, err := os.ReadFile(filepath.Join(distInfoPath, "METADATA"))
	if err != nil {
		return nil, fmt.Sprintf("distindex: %s: missing or unreadable METADATA: %v", distInfoPath, err)
	}
	fields := parseMetadata(meta)
	if fields.Name == "" {
		return nil, fmt.Sprintf("distindex: %s: METADATA has no Name field", distInfoPath)
	}

	record := &Record{
		Name:         Canonicalize(fields.Name),
		OriginalName: fields.Name,
		Version:      fields.Version,
		RootPath:     sitePackages,
		MetadataPath: filepath.Join(distInfoPath, "METADATA"),
	}

	recordFiles, recErr := parseRecord(filepath.Join(distInfoPath, "RECORD"))
	distInfoRel, _ := filepath.Rel(sitePackages, distInfoPath)
	distInfoRel = filepath.ToSlash(distInfoRel)

	// RecordFiles stays genuinely empty when RECORD is absent, so
	// slim.copyRecord's "no RECORD" fallback (a full-tree copy) actually
	// triggers instead of silently copying nothing.
	if recErr == nil {
		record.RecordFiles = ensureContains(recordFiles, distInfoRel+"/")
		record.HasRecord = true
	}

	if topLevel, err := readTopLevelTxt(filepath.Join(distInfoPath, "top_level.txt")); err == nil {
		record.TopLevelModules = topLevel
	} else if recErr == nil {
		record.TopLevelModules = deriveTopLevelModules(record.RecordFiles)
	} else {
		// Neither top_level.txt nor RECORD: fall back to the dist-info's
		// own name-derived guess rather than failing the distribution.
		record.TopLevelModules = []string{Canonicalize(fields.Name)}
	}

	return record, ""
}

func readTopLevelTxt(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			names = append(names, line)
		}
	}
	return names, nil
}

// parseRecord parses a dist-info RECORD file: PyPA's "Recording Installed
// Projects" CSV format, one (path, hash, size) row per packaged file.
func parseRecord(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // rows may have 1-3 fields; hash/size are often blank

	var files []string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 || row[0] == "" {
			continue
		}
		files = append(files, filepath.ToSlash(row[0]))
	}
	return files, nil
}

// deriveTopLevelModules implements spec §4.6's RECORD-based fallback: any
// path whose first segment is a Python package (contains __init__.py/.pyi)
// or a single-module .py/.pyd/.so file at the root contributes that
// segment.
func deriveTopLevelModules(recordFiles []string) []string {
	packageDirs := make(map[string]bool)
	rootModules := make(map[string]bool)

	for _, f := range recordFiles {
		segments := strings.Split(f, "/")
		if len(segments) == 0 {
			continue
		}
		first := segments[0]
		if strings.HasSuffix(first, ".dist-info") || strings.HasSuffix(first, ".data") {
			continue
		}
		if len(segments) >= 2 && (segments[1] == "__init__.py" || segments[1] == "__init__.pyi") {
			packageDirs[first] = true
			continue
		}
		if len(segments) == 1 {
			base := first
			for _, ext := range []string{".py", ".pyd", ".so"} {
				if strings.HasSuffix(base, ext) {
					rootModules[strings.TrimSuffix(base, ext)] = true
				}
			}
		}
	}

	seen := make(map[string]bool)
	var out []string
	for mod := range packageDirs {
		if !seen[mod] {
			seen[mod] = true
			out = append(out, mod)
		}
	}
	for mod := range rootModules {
		if !seen[mod] {
			seen[mod] = true
			out = append(out, mod)
		}
	}
	return out
}

func hasInitFile(dir string) bool {
	for _, name := range []string{"__init__.py", "__init__.pyi"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
			return true
		}
	}
	return false
}

// isLikelyNamespacePackage treats a top-level module as a namespace
// package when its directory under site-packages has no __init__.py,
// matching PEP 420 implicit namespace packages.
func isLikelyNamespacePackage(sitePackages, mod string) bool {
	return !hasInitFile(filepath.Join(sitePackages, mod))
}

func ensureContains(list []string, item string) []string {
	for _, v := range list {
		if v == item {
			return list
		}
	}
	return append(list, item)
}
