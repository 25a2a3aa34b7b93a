// Package split implements the input splitter from spec.md §4.2.
package split

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Split partitions inputPath into numMaps line-bounded chunk files under
// stagingDir, named `input-chunk-{i}` per spec.md §4.2, and returns their
// paths in order. Chunk i holds lines [i*c, (i+1)*c) except the last chunk,
// which absorbs the remainder, where c = max(1, totalLines / numMaps).
//
// Unlike the source this reports a missing input file as an error instead
// of silently returning zero chunks — see SPEC_FULL.md §4 OQ1.
func Split(inputPath, stagingDir string, numMaps int) ([]string, error) {
	if numMaps <= 0 {
		return nil, errors.Errorf("numMaps must be positive, got %d", numMaps)
	}

	lines, err := readLines(inputPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading input file %s", inputPath)
	}

	if err := os.MkdirAll(stagingDir, 0o777); err != nil {
		return nil, errors.Wrapf(err, "creating staging directory %s", stagingDir)
	}

	chunkSize := len(lines) / numMaps
	if chunkSize < 1 {
		chunkSize = 1
	}

	chunkPaths := make([]string, numMaps)
	for i := 0; i < numMaps; i++ {
		start := i * chunkSize
		if start > len(lines) {
			start = len(lines)
		}
		end := start + chunkSize
		if i == numMaps-1 || end > len(lines) {
			end = len(lines)
		}

		chunkPath := filepath.Join(stagingDir, fmt.Sprintf("input-chunk-%d", i))
		if err := writeLines(chunkPath, lines[start:end]); err != nil {
			return nil, errors.Wrapf(err, "writing chunk %d", i)
		}
		chunkPaths[i] = chunkPath
	}

	return chunkPaths, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	return lines, scanner.Err()
}

func writeLines(path string, lines []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	w := bufio.NewWriter(tmp)
	for _, line := range lines {
		if _, err := w.WriteString(line); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return err
		}
		if _, err := w.WriteString("\n"); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return err
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
