//go:build darwin

package model

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"unsafe"

	"golang.org/x/sys/unix"
)

// pseudoFS lists non-physical filesystem types
var pseudoFS = map[string]bool{
	"devfs":  true,
	"autofs": true,
	"mtmfs":  true,
	"nullfs": true,
}

func platformMounts() ([]mountRecord, error) {
	n, err := unix.Getfsstat(nil, unix.MNT_NOWAIT)
	if err != nil {
		return nil, fmt.Errorf("getfsstat: %w", err)
	}

	buf := make([]unix.Statfs_t, n)
	n, err = unix.Getfsstat(buf, unix.MNT_NOWAIT)
	if err != nil {
		return nil, fmt.Errorf("getfsstat: %w", err)
	}

	records := make([]mountRecord, 0, n)
	for _, stat := range buf[:n] {
		mountPoint := unix.ByteSliceToString(stat.Mntonname[:])
		fsType := unix.ByteSliceToString(stat.Fstypename[:])

		r := mountRecord{
			ID:         fmt.Sprintf("%08x%08x", uint32(stat.Fsid.Val[0]), uint32(stat.Fsid.Val[1])),
			Name:       fallbackVolumeName(mountPoint),
			MountPoint: mountPoint,
			FSType:     fsType,
			TotalBytes: int64(stat.Blocks) * int64(stat.Bsize),
			FreeBytes:  int64(stat.Bavail) * int64(stat.Bsize),
			Hidden:     stat.Flags&unix.MNT_DONTBROWSE != 0 || pseudoFS[fsType],
			Network:    stat.Flags&unix.MNT_LOCAL == 0,
		}
		// Remote mounts can block attribute lookups
		if !r.Hidden && !r.Network {
			r.Name = volumeName(mountPoint)
		}
		records = append(records, r)
	}

	return records, nil
}

// volumeName returns the label Finder shows for a mount point, falling
// back to the mount directory name when the label cannot be read
func volumeName(mountPoint string) string {
	if label, err := volumeLabel(mountPoint); err == nil && label != "" {
		return label
	}
	return fallbackVolumeName(mountPoint)
}

func fallbackVolumeName(mountPoint string) string {
	if mountPoint == "/" {
		return "Macintosh HD"
	}
	return filepath.Base(mountPoint)
}

// volumeLabel reads ATTR_VOL_NAME with getattrlist(2)
func volumeLabel(mountPoint string) (string, error) {
	path, err := unix.BytePtrFromString(mountPoint)
	if err != nil {
		return "", err
	}

	attrs := unix.Attrlist{
		Bitmapcount: unix.ATTR_BIT_MAP_COUNT,
		Volattr:     unix.ATTR_VOL_INFO | unix.ATTR_VOL_NAME,
	}
	buf := make([]byte, 1024)

	_, _, errno := unix.Syscall6(unix.SYS_GETATTRLIST,
		uintptr(unsafe.Pointer(path)),
		uintptr(unsafe.Pointer(&attrs)),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		0, 0)
	if errno != 0 {
		return "", fmt.Errorf("getattrlist %s: %w", mountPoint, errno)
	}

	return decodeVolumeName(buf)
}

// decodeVolumeName extracts the name from a getattrlist reply laid out as
//
//	u_int32_t length | attrreference_t{int32 offset, u_int32_t length} | name
//
// where offset is relative to the attrreference itself.
func decodeVolumeName(buf []byte) (string, error) {
	const refStart = 4
	if len(buf) < refStart+8 {
		return "", errors.New("attribute buffer too short")
	}

	total := binary.NativeEndian.Uint32(buf[0:4])
	offset := int32(binary.NativeEndian.Uint32(buf[refStart : refStart+4]))
	length := binary.NativeEndian.Uint32(buf[refStart+4 : refStart+8])

	start := refStart + int(offset)
	end := start + int(length)
	if offset < 0 || end > len(buf) || end > int(total) {
		return "", errors.New("volume name outside attribute buffer")
	}

	return unix.ByteSliceToString(buf[start:end]), nil
}
