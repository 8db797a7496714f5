//go:build linux

package model

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/moby/sys/mountinfo"
)

const byLabelDir = "/dev/disk/by-label"

// pseudoFS lists kernel and virtual filesystems that never hold user data
var pseudoFS = map[string]bool{
	"proc": true, "sysfs": true, "devtmpfs": true, "devpts": true,
	"tmpfs": true, "ramfs": true, "cgroup": true, "cgroup2": true,
	"securityfs": true, "debugfs": true, "tracefs": true, "pstore": true,
	"bpf": true, "mqueue": true, "hugetlbfs": true, "configfs": true,
	"fusectl": true, "autofs": true, "binfmt_misc": true, "efivarfs": true,
	"rpc_pipefs": true, "nsfs": true, "squashfs": true, "selinuxfs": true,
}

// hiddenRoots are mount point trees owned by the OS
var hiddenRoots = []string{"/proc", "/sys", "/dev", "/run", "/snap", "/var/lib/docker"}

type capacityFunc func(path string) (total, free int64, err error)

func platformMounts() ([]mountRecord, error) {
	mounts, err := mountinfo.GetMounts(nil)
	if err != nil {
		return nil, fmt.Errorf("read mount table: %w", err)
	}
	return mountRecords(mounts, deviceLabels(byLabelDir), platformCapacity), nil
}

// mountRecords converts mount table entries in OS order
func mountRecords(mounts []*mountinfo.Info, labels map[string]string, capacity capacityFunc) []mountRecord {
	// Devices whose filesystem root is mounted somewhere
	rootMounted := make(map[string]bool)
	for _, m := range mounts {
		if m.Root == "/" {
			rootMounted[deviceID(m)] = true
		}
	}

	records := make([]mountRecord, 0, len(mounts))
	for _, m := range mounts {
		id := deviceID(m)
		// A subtree of a filesystem already mounted at its root is a
		// bind mount of that volume, not a volume of its own
		bind := m.Root != "/" && rootMounted[id]

		r := mountRecord{
			ID:         id,
			Name:       m.Mountpoint,
			MountPoint: m.Mountpoint,
			FSType:     m.FSType,
			Hidden:     bind || isHiddenMount(m),
			Network:    IsNetworkFilesystem(m.FSType),
		}
		if label, ok := labels[m.Source]; ok {
			r.Name = label
		}

		// Never statfs network or pseudo mounts: a dead share can block
		if !r.Hidden && !r.Network {
			r.TotalBytes, r.FreeBytes, r.Err = capacity(m.Mountpoint)
		}

		records = append(records, r)
	}
	return records
}

func deviceID(m *mountinfo.Info) string {
	return fmt.Sprintf("%d:%d", m.Major, m.Minor)
}

// isHiddenMount reports whether a mount is pseudo, OS-internal, or a
// single-file bind mount (as containers use for /etc/hosts)
func isHiddenMount(m *mountinfo.Info) bool {
	if pseudoFS[m.FSType] {
		return true
	}
	for _, root := range hiddenRoots {
		if m.Mountpoint == root || strings.HasPrefix(m.Mountpoint, root+"/") {
			// Removable media is mounted under /run/media
			if !strings.HasPrefix(m.Mountpoint, "/run/media/") {
				return true
			}
		}
	}
	if info, err := os.Stat(m.Mountpoint); err == nil && !info.IsDir() {
		return true
	}
	return false
}

// deviceLabels maps resolved device paths to their filesystem label
func deviceLabels(dir string) map[string]string {
	labels := make(map[string]string)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return labels
	}

	for _, entry := range entries {
		dev, err := filepath.EvalSymlinks(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		labels[dev] = unescapeUdevLabel(entry.Name())
	}

	return labels
}

// unescapeUdevLabel decodes the \xNN escapes udev uses in /dev/disk/by-label names
func unescapeUdevLabel(s string) string {
	if !strings.Contains(s, `\x`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+4 <= len(s) && s[i+1] == 'x' {
			if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
