package utils

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SourceExt is the extension of VM source files.
const SourceExt = ".vm"

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

// UnitName derives the static-variable namespace of a source file: the file
// stem with its first letter upper-cased and the rest lower-cased, so
// "../path/to/filename.vm" becomes "Filename".
func UnitName(path string) string {
	stem := strings.ToLower(strings.TrimSuffix(filepath.Base(path), SourceExt))
	r, size := utf8.DecodeRuneInString(stem)
	if r == utf8.RuneError {
		return ""
	}
	return string(unicode.ToUpper(r)) + stem[size:]
}

// DiscoverSources returns path itself when it names a .vm file, or every .vm
// file directly inside it, sorted by name, when it names a directory.
func DiscoverSources(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if filepath.Ext(path) != SourceExt {
			return nil, fmt.Errorf("%s: expected a %s file", path, SourceExt)
		}
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != SourceExt {
			continue
		}
		files = append(files, filepath.Join(path, e.Name()))
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%s: no %s files found", path, SourceExt)
	}
	sort.Strings(files)
	return files, nil
}

// ReadLines returns the lines of a text file without their terminators.
func ReadLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}

// OutputPath swaps the extension of a source file, or for a directory names
// the output after the directory inside it.
func OutputPath(source string, ext string) string {
	if info, err := os.Stat(source); err == nil && info.IsDir() {
		clean := filepath.Clean(source)
		return filepath.Join(clean, filepath.Base(clean)+ext)
	}
	return strings.TrimSuffix(source, filepath.Ext(source)) + ext
}
