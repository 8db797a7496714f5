//go:build windows

package model

import (
	"fmt"

	"github.com/ricochet2200/go-disk-usage/du"
	"golang.org/x/sys/windows"
)

func platformMounts() ([]mountRecord, error) {
	mask, err := windows.GetLogicalDrives()
	if err != nil {
		return nil, fmt.Errorf("list drives: %w", err)
	}

	var records []mountRecord
	for i := 0; i < 26; i++ {
		if mask&(1<<uint(i)) == 0 {
			continue
		}
		root := fmt.Sprintf("%c:\\", 'A'+i)
		records = append(records, driveRecord(root))
	}

	return records, nil
}

func driveRecord(root string) mountRecord {
	r := mountRecord{MountPoint: root}

	rootPtr, err := windows.UTF16PtrFromString(root)
	if err != nil {
		r.Err = err
		return r
	}

	if windows.GetDriveType(rootPtr) == windows.DRIVE_REMOTE {
		r.Network = true
		return r
	}

	var (
		label   [windows.MAX_PATH + 1]uint16
		fsName  [windows.MAX_PATH + 1]uint16
		serial  uint32
		maxComp uint32
		flags   uint32
	)
	// Fails for empty card readers and optical drives without media
	if err := windows.GetVolumeInformation(rootPtr, &label[0], uint32(len(label)),
		&serial, &maxComp, &flags, &fsName[0], uint32(len(fsName))); err != nil {
		r.Err = err
		return r
	}

	r.ID = fmt.Sprintf("%08X", serial)
	r.FSType = windows.UTF16ToString(fsName[:])
	r.Name = windows.UTF16ToString(label[:])
	if r.Name == "" {
		r.Name = root[:2]
	}
	r.TotalBytes, r.FreeBytes, r.Err = platformCapacity(root)
	return r
}

// platformCapacity returns total and available bytes for the drive holding path
func platformCapacity(path string) (total, free int64, err error) {
	usage := du.NewDiskUsage(path)
	if usage == nil || usage.Size() == 0 {
		return 0, 0, fmt.Errorf("unable to get disk space for %s", path)
	}
	return int64(usage.Size()), int64(usage.Available()), nil
}
