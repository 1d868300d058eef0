//go:build linux || darwin || freebsd

package core

import (
	"golang.org/x/sys/unix"
)

// CheckDiskSpace verifies that directory has at least required bytes free
func CheckDiskSpace(required int64, directory string) error {
	var stat unix.Statfs_t
	if err := unix.Statfs(directory, &stat); err != nil {
		return errorf(directory, err)
	}

	available := uint64(stat.Bavail) * uint64(stat.Bsize)
	if required > 0 && uint64(required) > available {
		return insufficientSpace(required, available, directory)
	}
	return nil
}
