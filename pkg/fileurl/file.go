// Package fileurl provides filesystem path helpers.
package fileurl

import (
	"os"
	"path/filepath"
	"strings"
)

// IsDir determines if the given path is a directory.
func IsDir(path string) bool {
	s, err := os.Stat(path)
	if err != nil {
		return false
	}
	return s.IsDir()
}

// IsExist determines if the given path exists.
func IsExist(dst string) bool {
	_, err := os.Stat(dst)
	if err != nil {
		return os.IsExist(err)
	}
	return true
}

// CreatePath creates the parent directory chain for the given file path.
func CreatePath(dst string, perm os.FileMode) error {
	dir := filepath.Dir(dst)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, perm)
}

// PathSuffixCheckAdd appends suffix to p unless it is already present.
func PathSuffixCheckAdd(p string, suffix string) string {
	if strings.HasSuffix(p, suffix) {
		return p
	}
	return p + suffix
}

// GetExePath returns the directory containing the running executable.
func GetExePath() string {
	exe, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Dir(exe)
}
