// Package distindex scans an installed-distribution tree (a virtualenv's
// site-packages) and builds the module-to-distribution map the slimmer
// consumes (spec §4.6).
package distindex

// Record describes one installed distribution (spec §3 "Distribution
// record").
type Record struct {
	Name             string   // canonical, PEP-503 lowercased hyphen form
	OriginalName     string   // on-disk spelling, for copy operations
	Version          string
	RootPath         string   // absolute path to the distribution's root directory
	TopLevelModules  []string
	RecordFiles      []string // paths relative to site-packages, including the dist-info dir
	HasRecord        bool     // true when RecordFiles came from an actual RECORD file
	MetadataPath     string   // empty for directory-derived (editable/namespace) providers
}

// Index maps top-level module names to their providing distributions and
// canonical names back to records (spec §3 "Distribution index").
type Index struct {
	ModuleToDistributions map[string][]*Record
	CanonicalToRecord      map[string]*Record
	Conflicts              []Conflict
}

// Conflict records two distributions claiming the same top-level module
// with neither declared a namespace package (spec §4.1 invariants list).
type Conflict struct {
	Module        string
	Distributions []string // canonical names
}

func newIndex() *Index {
	return &Index{
		ModuleToDistributions: make(map[string][]*Record),
		CanonicalToRecord:      make(map[string]*Record),
	}
}

func (idx *Index) add(r *Record) {
	idx.CanonicalToRecord[r.Name] = r
	for _, mod := range r.TopLevelModules {
		idx.ModuleToDistributions[mod] = append(idx.ModuleToDistributions[mod], r)
	}
}

func (idx *Index) detectConflicts(namespacePackage func(mod string) bool) {
	for mod, providers := range idx.ModuleToDistributions {
		if len(providers) < 2 || namespacePackage(mod) {
			continue
		}
		var names []string
		for _, p := range providers {
			names = append(names, p.Name)
		}
		idx.Conflicts = append(idx.Conflicts, Conflict{Module: mod, Distributions: names})
	}
}
