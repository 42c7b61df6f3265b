package core

import (
	"cmp"
	"slices"
	"strings"

	"github.com/huangsam/coverdelta/schema"
	"github.com/samber/lo"
)

// SortByDepth returns a copy of paths ordered by ascending number of '/' separators,
// breaking ties lexicographically.
func SortByDepth(paths []string) []string {
	sorted := slices.Clone(paths)
	slices.SortStableFunc(sorted, func(a, b string) int {
		if c := cmp.Compare(strings.Count(a, "/"), strings.Count(b, "/")); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return sorted
}

// ResolvePrefix finds the leading path segment that aligns report keys with tracked paths.
// Tracked paths and report keys are both scanned shallowest first, and the first report
// key ending with a tracked path decides the prefix. It returns "" when nothing matches.
func ResolvePrefix(tracked []string, report schema.CoverageReport) string {
	keys := SortByDepth(report.FileKeys())
	for _, path := range SortByDepth(lo.Compact(tracked)) {
		key, ok := lo.Find(keys, func(k string) bool {
			return strings.HasSuffix(k, path)
		})
		if ok {
			return key[:len(key)-len(path)]
		}
	}
	return ""
}

// PathReconciler answers whether a report key belongs to the tracked file set.
type PathReconciler struct {
	Prefix string
	files  []string
	lookup map[string]struct{}
}

// NewPathReconciler builds a reconciler whose prefix is derived from the report.
func NewPathReconciler(tracked []string, report schema.CoverageReport) *PathReconciler {
	return NewPathReconcilerWithPrefix(tracked, ResolvePrefix(tracked, report))
}

// NewPathReconcilerWithPrefix builds a reconciler with an explicit prefix.
func NewPathReconcilerWithPrefix(tracked []string, prefix string) *PathReconciler {
	files := SortByDepth(lo.Uniq(lo.Compact(tracked)))
	lookup := make(map[string]struct{}, len(files))
	for _, f := range files {
		lookup[f] = struct{}{}
	}
	return &PathReconciler{Prefix: prefix, files: files, lookup: lookup}
}

// RelativePath strips the reconciled prefix from a report key when present.
func (r *PathReconciler) RelativePath(key string) string {
	return strings.TrimPrefix(key, r.Prefix)
}

// IsTracked reports whether key, once the prefix is stripped, exactly matches a tracked path.
func (r *PathReconciler) IsTracked(key string) bool {
	_, ok := r.lookup[r.RelativePath(key)]
	return ok
}

// Files returns the tracked paths in depth order.
func (r *PathReconciler) Files() []string {
	return slices.Clone(r.files)
}
