package loader

import (
	"io"
	"os"
)

// Files larger than this are cut short
const maxFileSize = 10 * 1024 * 1024

func readTextFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxFileSize))
	if err != nil {
		return "", err
	}

	return string(content), nil
}
