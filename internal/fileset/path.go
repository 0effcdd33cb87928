package fileset

import "path/filepath"

// Normalize makes rawPath absolute relative to cwd. It performs no I/O.
func Normalize(rawPath, cwd string) string {
	if filepath.IsAbs(rawPath) {
		return rawPath
	}
	return filepath.Join(cwd, rawPath)
}
