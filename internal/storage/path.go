package storage

import (
	"fmt"
	"path"
	"regexp"
)

var fileComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// BuildDatasetKey joins a dataset prefix with a file name, rejecting names
// that could escape the prefix or confuse the loader.
func BuildDatasetKey(prefix, fileName string) (string, error) {
	if err := validateFileComponent(fileName, "file name"); err != nil {
		return "", err
	}
	if prefix == "" {
		return fileName, nil
	}
	return path.Join(prefix, fileName), nil
}

func validateFileComponent(value, field string) error {
	if !fileComponentPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}
