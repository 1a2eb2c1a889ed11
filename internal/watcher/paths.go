package watcher

import "path/filepath"

// parentOf mirrors Rust's Path::parent(): it returns the directory
// component of path, or "" when path has no meaningful parent (a bare
// top-level name with no directory separator). Unlike [filepath.Dir], which
// returns "." for a bare name, parentOf returns "" so callers can use the
// same "parent != \"\"" check spec.md's routing table uses.
func parentOf(path string) string {
	dir := filepath.Dir(path)
	if dir == "." || dir == path {
		return ""
	}

	return dir
}

// hasMeaningfulParent reports whether path is nested under some directory,
// i.e. whether the folder-rename routing check in spec.md §4.1
// ("paths[0].parent() != \"\"") would route it to the folder rename handler.
func hasMeaningfulParent(path string) bool {
	return parentOf(path) != ""
}
