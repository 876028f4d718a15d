// Package fsutil provides small filesystem helpers shared across packages.
package fsutil

import (
	"bufio"
	"os"
)

// EnsureDirectoryExists creates a directory if it doesn't exist
func EnsureDirectoryExists(dirPath string) error {
	return os.MkdirAll(dirPath, 0750)
}

// FileExists checks if a path exists and is a regular file
func FileExists(filePath string) bool {
	info, err := os.Stat(filePath)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// CountLinesInFile counts the number of lines in a file. Lines can be
// long (wordlist entries), so the scanner buffer is raised to 1MB.
func CountLinesInFile(filePath string) (int64, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return 0, err
	}
	defer file.Close()

	const maxScanTokenSize = 1024 * 1024
	scanner := bufio.NewScanner(file)
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	var count int64
	for scanner.Scan() {
		count++
	}

	if err := scanner.Err(); err != nil {
		return 0, err
	}

	return count, nil
}
