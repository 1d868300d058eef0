package core

import (
	"os"
)

// Validator handles system validations
type Validator struct{}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateSpace checks that directory can hold size more bytes.
// Platforms without a free space probe always pass.
func (v *Validator) ValidateSpace(size int64, directory string) error {
	return CheckDiskSpace(size, directory)
}

// ValidateDirectories creates the target folder and its parents
func (v *Validator) ValidateDirectories(targetFolder string) error {
	if err := os.MkdirAll(targetFolder, 0755); err != nil {
		return FilesystemError("failed to create target directory %s: %w", targetFolder, err)
	}
	return nil
}

func insufficientSpace(required int64, available uint64, directory string) error {
	return FilesystemError("not enough space in %s: need %d bytes, %d available", directory, required, available)
}

func errorf(directory string, err error) error {
	return FilesystemError("failed to check free space in %s: %w", directory, err)
}
