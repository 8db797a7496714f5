package model

import (
	"errors"
	"path/filepath"
	"testing"
)

func record(name string, total, free int64) mountRecord {
	return mountRecord{
		ID:         "id-" + name,
		Name:       name,
		MountPoint: "/mnt/" + name,
		FSType:     "ext4",
		TotalBytes: total,
		FreeBytes:  free,
	}
}

func TestFilterVolumes(t *testing.T) {
	hidden := record("hidden", 100, 50)
	hidden.Hidden = true
	remote := record("remote", 100, 50)
	remote.Network = true
	share := record("share", 100, 50)
	share.FSType = "smbfs"
	broken := record("broken", 100, 50)
	broken.Err = errors.New("statfs failed")
	noID := record("noid", 100, 50)
	noID.ID = ""
	noType := record("notype", 100, 50)
	noType.FSType = ""
	dup := record("data", 900, 10)
	dup.ID = "second"
	bind := record("bind", 1000, 400)
	bind.ID = "id-root"

	records := []mountRecord{
		record("root", 1000, 400),
		hidden,
		remote,
		share,
		broken,
		noID,
		noType,
		record("empty", 0, 0),
		record("overfull", 100, 200),
		record("data", 500, 100),
		dup,
		bind,
		record("backup", 2000, 2000),
	}

	got := filterVolumes(records)

	want := []string{"root", "data", "backup"}
	if len(got) != len(want) {
		t.Fatalf("expected %d volumes, got %d: %+v", len(want), len(got), got)
	}
	for i, v := range got {
		if v.Name != want[i] {
			t.Errorf("volume %d: expected %s, got %s", i, want[i], v.Name)
		}
	}
	// First record with a duplicated name or ID wins
	if got[1].ID != "id-data" || got[1].TotalBytes != 500 {
		t.Errorf("expected first 'data' record to win, got %+v", got[1])
	}
	if got[0].Name != "root" || got[0].ID != "id-root" {
		t.Errorf("expected first record of device id-root to win, got %+v", got[0])
	}
}

func TestFilterVolumesInvariants(t *testing.T) {
	records := []mountRecord{
		record("a", 100, 10),
		record("a", 100, 20),
		record("b", 100, 100),
		{ID: "n", Name: "n", MountPoint: "/n", FSType: "nfs4", TotalBytes: 10, FreeBytes: 1},
		{ID: "c", Name: "c", MountPoint: "/c", FSType: "CIFS", TotalBytes: 10, FreeBytes: 1},
	}

	seen := make(map[string]bool)
	for _, v := range filterVolumes(records) {
		if seen[v.Name] {
			t.Errorf("duplicate name %s", v.Name)
		}
		seen[v.Name] = true
		if IsNetworkFilesystem(v.FSType) {
			t.Errorf("network volume %s kept", v.Name)
		}
		if v.FreeBytes > v.TotalBytes {
			t.Errorf("volume %s has free > total", v.Name)
		}
	}
	if len(seen) != 2 {
		t.Errorf("expected 2 volumes, got %d", len(seen))
	}
}

func TestVolumePercent(t *testing.T) {
	v := Volume{TotalBytes: 200, FreeBytes: 50}

	used, ok := v.UsedPercent()
	if !ok || used != 75 {
		t.Errorf("expected used 75%%, got %.1f (ok=%v)", used, ok)
	}
	free, ok := v.FreePercent()
	if !ok || free != 25 {
		t.Errorf("expected free 25%%, got %.1f (ok=%v)", free, ok)
	}
	if v.UsedBytes() != 150 {
		t.Errorf("expected 150 used bytes, got %d", v.UsedBytes())
	}

	zero := Volume{}
	if _, ok := zero.UsedPercent(); ok {
		t.Error("expected no used percent for a zero-capacity volume")
	}
	if _, ok := zero.FreePercent(); ok {
		t.Error("expected no free percent for a zero-capacity volume")
	}
	if zero.Severity() != SeverityLow {
		t.Errorf("expected low severity for zero capacity, got %s", zero.Severity())
	}
}

func TestUsageSeverity(t *testing.T) {
	tests := []struct {
		used float64
		want Severity
	}{
		{80, SeverityHigh},
		{75, SeverityHigh},
		{74.9, SeverityMedium},
		{60, SeverityMedium},
		{50, SeverityMedium},
		{49.9, SeverityLow},
		{40, SeverityLow},
		{0, SeverityLow},
	}

	for _, tt := range tests {
		if got := UsageSeverity(tt.used); got != tt.want {
			t.Errorf("UsageSeverity(%.1f) = %s, want %s", tt.used, got, tt.want)
		}
	}
}

func TestContainsPath(t *testing.T) {
	sep := string(filepath.Separator)
	mnt := sep + "mnt" + sep + "data"

	tests := []struct {
		mount, path string
		want        bool
	}{
		{sep, sep + "home", true},
		{mnt, mnt, true},
		{mnt, mnt + sep + "x", true},
		{mnt, mnt + "2", false},
		{"", mnt, false},
	}

	for _, tt := range tests {
		if got := containsPath(tt.mount, tt.path); got != tt.want {
			t.Errorf("containsPath(%q, %q) = %v, want %v", tt.mount, tt.path, got, tt.want)
		}
	}
}

func TestGetVolumesInvariants(t *testing.T) {
	volumes, err := GetVolumes()
	if errors.Is(err, ErrVolumesUnsupported) {
		t.Skip("volume enumeration unsupported here")
	}
	if err != nil && len(volumes) == 0 {
		t.Skipf("no volumes readable: %v", err)
	}

	seen := make(map[string]bool)
	ids := make(map[string]bool)
	for _, v := range volumes {
		if seen[v.Name] {
			t.Errorf("duplicate volume name %q", v.Name)
		}
		seen[v.Name] = true
		if ids[v.ID] {
			t.Errorf("volume %q shares ID %s with another volume", v.Name, v.ID)
		}
		ids[v.ID] = true
		if IsNetworkFilesystem(v.FSType) {
			t.Errorf("network volume %q listed", v.Name)
		}
		if v.FreeBytes > v.TotalBytes {
			t.Errorf("volume %q reports free > total", v.Name)
		}
	}
}
