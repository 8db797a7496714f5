//go:build darwin

package model

import (
	"encoding/binary"
	"testing"
)

func attrReply(name string) []byte {
	buf := make([]byte, 12+len(name)+1)
	binary.NativeEndian.PutUint32(buf[0:4], uint32(len(buf)))
	binary.NativeEndian.PutUint32(buf[4:8], 8)
	binary.NativeEndian.PutUint32(buf[8:12], uint32(len(name)+1))
	copy(buf[12:], name)
	return buf
}

func TestDecodeVolumeName(t *testing.T) {
	got, err := decodeVolumeName(attrReply("Work SSD"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Work SSD" {
		t.Errorf("expected %q, got %q", "Work SSD", got)
	}

	if _, err := decodeVolumeName([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for short buffer")
	}

	bad := attrReply("x")
	binary.NativeEndian.PutUint32(bad[8:12], 500)
	if _, err := decodeVolumeName(bad); err == nil {
		t.Error("expected error for name past end of buffer")
	}
}

func TestVolumeName(t *testing.T) {
	if got := fallbackVolumeName("/"); got != "Macintosh HD" {
		t.Errorf("expected Macintosh HD for /, got %q", got)
	}
	if got := fallbackVolumeName("/Volumes/Backup"); got != "Backup" {
		t.Errorf("expected Backup, got %q", got)
	}

	// The boot volume always carries a label
	label, err := volumeLabel("/")
	if err != nil {
		t.Fatalf("getattrlist on /: %v", err)
	}
	if label == "" {
		t.Error("expected a label for /")
	}
	if got := volumeName("/"); got != label {
		t.Errorf("expected volumeName to use the label %q, got %q", label, got)
	}
}
