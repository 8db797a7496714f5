//go:build linux

package model

import (
	"strings"
	"testing"

	"github.com/moby/sys/mountinfo"
)

const sampleMountInfo = `22 1 8:2 / / rw,relatime shared:1 - ext4 /dev/sda2 rw
23 22 0:21 / /proc rw,nosuid,nodev,noexec,relatime shared:5 - proc proc rw
45 22 8:3 / /mnt/My\040Disk rw,relatime shared:30 - ext4 /dev/sda3 rw
46 22 8:3 /exports /srv/exports rw,relatime shared:30 - ext4 /dev/sda3 rw
47 22 8:3 / /mnt/again rw,relatime shared:30 - ext4 /dev/sda3 rw
50 22 0:40 /@data /data rw,relatime shared:41 - btrfs /dev/sdb1 rw
51 22 0:40 /@logs /var/log/archive rw,relatime shared:42 - btrfs /dev/sdb1 rw
60 22 0:50 / /mnt/share rw,relatime shared:40 master:1 - cifs //server/share rw
`

func TestMountRecords(t *testing.T) {
	mounts, err := mountinfo.GetMountsFromReader(strings.NewReader(sampleMountInfo), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var queried []string
	capacity := func(path string) (int64, int64, error) {
		queried = append(queried, path)
		return 1000, 400, nil
	}
	labels := map[string]string{"/dev/sda3": "Backup"}

	records := mountRecords(mounts, labels, capacity)
	if len(records) != len(mounts) {
		t.Fatalf("expected %d records, got %d", len(mounts), len(records))
	}

	byMount := make(map[string]mountRecord)
	for _, r := range records {
		byMount[r.MountPoint] = r
	}

	if r := byMount["/"]; r.ID != "8:2" || r.FSType != "ext4" || r.Hidden {
		t.Errorf("unexpected root record: %+v", r)
	}
	if !byMount["/proc"].Hidden {
		t.Error("expected /proc to be hidden")
	}
	if r := byMount["/mnt/My Disk"]; r.Name != "Backup" {
		t.Errorf("expected labelled volume with decoded mount point, got %+v", r)
	}
	if !byMount["/srv/exports"].Hidden {
		t.Error("expected bind mount of a mounted filesystem to be hidden")
	}
	// No mount of the btrfs top level exists, so the subvolume stands in for it
	if byMount["/data"].Hidden {
		t.Error("expected subvolume without a root mount to stay visible")
	}
	if !byMount["/mnt/share"].Network {
		t.Error("expected cifs share to be network")
	}

	for _, path := range queried {
		if path == "/proc" || path == "/srv/exports" || path == "/mnt/share" {
			t.Errorf("capacity queried for skipped mount %s", path)
		}
	}

	volumes := filterVolumes(records)
	want := []string{"/", "/mnt/My Disk", "/data"}
	if len(volumes) != len(want) {
		t.Fatalf("expected %d volumes, got %d: %+v", len(want), len(volumes), volumes)
	}
	ids := make(map[string]bool)
	for i, v := range volumes {
		if v.Path != want[i] {
			t.Errorf("volume %d: expected %s, got %s", i, want[i], v.Path)
		}
		if ids[v.ID] {
			t.Errorf("device %s listed twice", v.ID)
		}
		ids[v.ID] = true
	}
}

func TestUnescapeUdevLabel(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`My\x20Drive`, "My Drive"},
		{"plain", "plain"},
		{`short\x2`, `short\x2`},
		{`bad\xzz`, `bad\xzz`},
	}

	for _, tt := range tests {
		if got := unescapeUdevLabel(tt.in); got != tt.want {
			t.Errorf("unescapeUdevLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
