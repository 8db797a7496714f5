package scanner

import (
	"path/filepath"
	"testing"
)

func TestExcludeSetCleansPaths(t *testing.T) {
	tmp := t.TempDir()
	set := newExcludeSet([]string{tmp + string(filepath.Separator), "", filepath.Join(tmp, "a", "..", "b")})

	if !set.contains(tmp) {
		t.Errorf("expected %s to be excluded", tmp)
	}
	if !set.contains(filepath.Join(tmp, "b")) {
		t.Error("expected cleaned path to be excluded")
	}
	if set.contains(filepath.Join(tmp, "bb")) {
		t.Error("exclusion must match whole paths only")
	}
}

func TestDefaultExcludesIsCopy(t *testing.T) {
	got := DefaultExcludes()
	if len(got) == 0 {
		t.Skip("no default excludes on this platform")
	}
	got[0] = "changed"
	if DefaultExcludes()[0] == "changed" {
		t.Error("DefaultExcludes must return a copy")
	}
}
