package model

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrVolumesUnsupported is returned where the platform offers no way to list mounts
var ErrVolumesUnsupported = errors.New("volume enumeration not supported on this platform")

// Volume represents a mounted volume
type Volume struct {
	ID         string // stable identifier, unique per volume
	Name       string // volume label
	Path       string // mount point used to query the volume
	FSType     string // e.g. "apfs", "ext4", "NTFS"
	TotalBytes int64
	FreeBytes  int64 // available to the current user
}

// UsedBytes returns bytes used on this volume
func (v Volume) UsedBytes() int64 {
	return v.TotalBytes - v.FreeBytes
}

// UsedPercent returns the percentage of the volume in use.
// ok is false when the volume reports no capacity.
func (v Volume) UsedPercent() (pct float64, ok bool) {
	if v.TotalBytes == 0 {
		return 0, false
	}
	return 100 * float64(v.UsedBytes()) / float64(v.TotalBytes), true
}

// FreePercent returns the percentage of the volume still available.
// ok is false when the volume reports no capacity.
func (v Volume) FreePercent() (pct float64, ok bool) {
	if v.TotalBytes == 0 {
		return 0, false
	}
	return 100 * float64(v.FreeBytes) / float64(v.TotalBytes), true
}

// Severity returns the usage band of the volume
func (v Volume) Severity() Severity {
	pct, ok := v.UsedPercent()
	if !ok {
		return SeverityLow
	}
	return UsageSeverity(pct)
}

// Severity classifies how full a volume is
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
)

func (s Severity) String() string {
	switch s {
	case SeverityHigh:
		return "high"
	case SeverityMedium:
		return "medium"
	default:
		return "low"
	}
}

// UsageSeverity bands a used percentage: 75 and above is high,
// 50 up to 75 is medium, anything lower is low.
func UsageSeverity(usedPct float64) Severity {
	switch {
	case usedPct >= 75:
		return SeverityHigh
	case usedPct >= 50:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// mountRecord is one raw mount as reported by the OS, before filtering
type mountRecord struct {
	ID         string
	Name       string
	MountPoint string
	FSType     string
	TotalBytes int64
	FreeBytes  int64
	Hidden     bool  // pseudo or OS-internal mount
	Network    bool  // reported as remote by the OS
	Err        error // capacity or identity query failed
}

// networkFS lists filesystem types that are network shares
var networkFS = map[string]bool{
	"smbfs":          true,
	"smb3":           true,
	"cifs":           true,
	"nfs":            true,
	"nfs4":           true,
	"afpfs":          true,
	"webdav":         true,
	"davfs":          true,
	"fuse.davfs2":    true,
	"fuse.sshfs":     true,
	"sshfs":          true,
	"ncpfs":          true,
	"ceph":           true,
	"fuse.glusterfs": true,
	"lustre":         true,
}

// IsNetworkFilesystem reports whether fsType is a network share type
func IsNetworkFilesystem(fsType string) bool {
	return networkFS[strings.ToLower(fsType)]
}

// GetVolumes returns the mounted volumes in the order the OS reports them.
// Hidden and network volumes are skipped, as are volumes missing any
// attribute. IDs and names are unique: the first volume seen wins.
func GetVolumes() ([]Volume, error) {
	records, err := platformMounts()
	return filterVolumes(records), err
}

func filterVolumes(records []mountRecord) []Volume {
	var volumes []Volume
	seenID := make(map[string]bool)
	seenName := make(map[string]bool)

	for _, r := range records {
		if r.Hidden || r.Network || IsNetworkFilesystem(r.FSType) {
			continue
		}
		if r.Err != nil {
			continue
		}
		if r.ID == "" || r.Name == "" || r.FSType == "" || r.MountPoint == "" {
			continue
		}
		// Pseudo filesystems report no blocks
		if r.TotalBytes <= 0 || r.FreeBytes < 0 || r.FreeBytes > r.TotalBytes {
			continue
		}
		// A device mounted twice (bind mounts, btrfs subvolumes) is one volume
		if seenID[r.ID] || seenName[r.Name] {
			continue
		}
		seenID[r.ID] = true
		seenName[r.Name] = true

		volumes = append(volumes, Volume{
			ID:         r.ID,
			Name:       r.Name,
			Path:       r.MountPoint,
			FSType:     r.FSType,
			TotalBytes: r.TotalBytes,
			FreeBytes:  r.FreeBytes,
		})
	}

	return volumes
}

// VolumeForPath returns the volume containing path, hidden ones included.
func VolumeForPath(path string) (Volume, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return Volume{}, err
	}

	records, err := platformMounts()
	if err != nil && len(records) == 0 {
		return Volume{}, err
	}

	best := -1
	for i, r := range records {
		if !containsPath(r.MountPoint, absPath) {
			continue
		}
		if best < 0 || len(r.MountPoint) > len(records[best].MountPoint) {
			best = i
		}
	}
	if best < 0 {
		return Volume{}, fmt.Errorf("no mounted volume contains %s", absPath)
	}

	r := records[best]
	total, free, err := platformCapacity(absPath)
	if err != nil {
		return Volume{}, fmt.Errorf("query capacity of %s: %w", r.MountPoint, err)
	}

	return Volume{
		ID:         r.ID,
		Name:       r.Name,
		Path:       r.MountPoint,
		FSType:     r.FSType,
		TotalBytes: total,
		FreeBytes:  free,
	}, nil
}

// containsPath reports whether path is mountPoint or lies below it
func containsPath(mountPoint, path string) bool {
	if mountPoint == "" {
		return false
	}
	// Drive roots such as C:\ compare case-insensitively
	if filepath.VolumeName(mountPoint) != "" {
		return strings.HasPrefix(strings.ToUpper(path), strings.ToUpper(mountPoint))
	}
	if path == mountPoint {
		return true
	}
	prefix := mountPoint
	if !strings.HasSuffix(prefix, string(filepath.Separator)) {
		prefix += string(filepath.Separator)
	}
	return strings.HasPrefix(path, prefix)
}
