package walk

import (
	"os"
	"path/filepath"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"
)

// gitignoreStack compiles every .gitignore found from root down to each
// directory visited (spec §4.8 "honor-ignore-files toggle... ignore-files
// first, explicit include/exclude applied on top"). A path is ignored when
// any of its ancestors' .gitignore files matches it; a negation pattern in
// a deeper .gitignore does not re-include a path a shallower one ignores.
type gitignoreStack struct {
	root     string
	compiled map[string]*ignore.GitIgnore // dir (relative to root) -> matcher
}

func newGitignoreStack(root string) *gitignoreStack {
	return &gitignoreStack{root: root, compiled: make(map[string]*ignore.GitIgnore)}
}

// loadDir compiles dir's .gitignore (if present) and caches it.
func (s *gitignoreStack) loadDir(relDir string) {
	if _, ok := s.compiled[relDir]; ok {
		return
	}
	path := filepath.Join(s.root, relDir, ".gitignore")
	if _, err := os.Stat(path); err != nil {
		s.compiled[relDir] = nil
		return
	}
	m, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		s.compiled[relDir] = nil
		return
	}
	s.compiled[relDir] = m
}

// matches reports whether relPath is ignored by any .gitignore found along
// its ancestor directories, matched against the path relative to each
// matcher's own directory.
func (s *gitignoreStack) matches(relPath string) bool {
	dir := filepath.Dir(relPath)
	if dir == "." {
		dir = ""
	}
	for {
		s.loadDir(dir)
		if m := s.compiled[dir]; m != nil {
			sub := strings.TrimPrefix(relPath, dir)
			sub = strings.TrimPrefix(sub, string(filepath.Separator))
			if m.MatchesPath(sub) {
				return true
			}
		}
		if dir == "" {
			return false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return false
		}
		if parent == "." {
			parent = ""
		}
		dir = parent
	}
}

// isHidden reports whether name (a single path segment) is a dotfile.
func isHidden(name string) bool {
	return len(name) > 0 && name[0] == '.' && name != "." && name != ".."
}
