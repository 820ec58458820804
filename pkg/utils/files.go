package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// SourceExt is the conventional MiniScript file extension.
const SourceExt = ".ms"

// Source is a loaded program file.
type Source struct {
	Path string // absolute path
	Dir  string // directory containing the file
	Text string
}

func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ReadSource resolves path and reads the program text. The file must be
// valid UTF-8.
func ReadSource(path string) (Source, error) {
	full, dir, err := GetPathInfo(path)
	if err != nil {
		return Source{}, fmt.Errorf("resolve %s: %w", path, err)
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return Source{}, fmt.Errorf("read source: %w", err)
	}
	if !utf8.Valid(data) {
		return Source{}, fmt.Errorf("read source %s: not valid UTF-8", full)
	}
	return Source{Path: full, Dir: dir, Text: string(data)}, nil
}

// ExpandSources turns files and directories into a list of source paths.
// Directories contribute their *.ms files, sorted by name; files are kept as
// given, whatever their extension.
func ExpandSources(args []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", arg, err)
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		matches, err := filepath.Glob(filepath.Join(arg, "*"+SourceExt))
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	return out, nil
}
