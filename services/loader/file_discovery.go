package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type FileInfo struct {
	Path string
	Name string
	Size int64
}

var textExtensions = map[string]bool{
	".txt": true, ".md": true, ".go": true, ".js": true,
	".py": true, ".java": true, ".cpp": true, ".c": true,
	".html": true, ".css": true, ".json": true, ".xml": true,
	".yaml": true, ".yml": true, ".ini": true, ".conf": true,
	".csv": true, ".tsv": true, ".sql": true, ".cs": true,
}

func (s *Service) discoverFiles(rootPath string, excludeFolders []string) ([]FileInfo, error) {
	var files []FileInfo
	rootPath = filepath.Clean(rootPath)
	excludeSet := make(map[string]struct{}, len(excludeFolders))
	for _, folder := range excludeFolders {
		if !filepath.IsAbs(folder) {
			folder = filepath.Join(rootPath, folder)
		}
		excludeSet[filepath.Clean(folder)] = struct{}{}
	}

	err := filepath.WalkDir(rootPath, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			s.logger.Error("could not walk through file or directory", "path", path, "err", err.Error())
			if errors.Is(err, os.ErrPermission) && path != rootPath {
				return nil
			}
			return err
		}

		if entry.IsDir() {
			if path == rootPath {
				return nil
			}
			if strings.HasPrefix(entry.Name(), ".") || isInExcludedPath(path, excludeSet) {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(entry.Name(), ".") || !isTextFile(path) {
			return nil
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("could not stat file", "path", path, "err", err.Error())
			return nil
		}

		files = append(files, FileInfo{
			Path: path,
			Name: documentName(path),
			Size: info.Size(),
		})

		return nil
	})

	return files, err
}

func isTextFile(path string) bool {
	return textExtensions[strings.ToLower(filepath.Ext(path))]
}

// documentName is the file name without its extension.
func documentName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Assumes current path and excluded paths are clean
func isInExcludedPath(currentPath string, excludeSet map[string]struct{}) bool {
	_, ok := excludeSet[currentPath]
	return ok
}
