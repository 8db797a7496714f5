//go:build !linux && !darwin && !windows

package model

func platformMounts() ([]mountRecord, error) {
	return nil, ErrVolumesUnsupported
}

func platformCapacity(path string) (total, free int64, err error) {
	return 0, 0, ErrVolumesUnsupported
}
