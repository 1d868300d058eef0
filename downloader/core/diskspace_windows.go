//go:build windows

package core

import (
	"golang.org/x/sys/windows"
)

// CheckDiskSpace verifies that directory has at least required bytes free
func CheckDiskSpace(required int64, directory string) error {
	path, err := windows.UTF16PtrFromString(directory)
	if err != nil {
		return errorf(directory, err)
	}

	var available, total, free uint64
	if err := windows.GetDiskFreeSpaceEx(path, &available, &total, &free); err != nil {
		return errorf(directory, err)
	}

	if required > 0 && uint64(required) > available {
		return insufficientSpace(required, available, directory)
	}
	return nil
}
