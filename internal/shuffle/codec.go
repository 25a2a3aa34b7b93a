// Package shuffle implements the intermediate-file framing and partitioning
// described in spec.md §4.8: a length-prefixed sequence of (key, value)
// pairs per (map index, reduce index) partition.
package shuffle

import (
	"bufio"
	"encoding/binary"
	"hash/fnv"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Pair is one intermediate (key, value) record.
type Pair struct {
	Key   string
	Value string
}

// Partition returns the deterministic reduce index for key, stable across
// map and reduce workers and across process restarts (fnv-1a is not
// randomized the way Go's built-in map hash is — spec.md §4.7 forbids a
// process-randomized hash here).
func Partition(key string, numReduces int) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(numReduces))
}

// WriteFile writes pairs to path atomically: it writes to a temp file in
// the same directory and renames it into place on success, so a reader
// never observes a partially written partition (spec.md §9 OQ6).
func WriteFile(path string, pairs []Pair) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "creating temp file for %s", path)
	}
	tmpName := tmp.Name()
	w := bufio.NewWriter(tmp)
	for _, p := range pairs {
		if err := writePair(w, p); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return errors.Wrapf(err, "writing pair to %s", path)
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrapf(err, "flushing %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "closing %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "renaming %s into place", path)
	}
	return nil
}

func writePair(w io.Writer, p Pair) error {
	if err := writeFramed(w, []byte(p.Key)); err != nil {
		return err
	}
	return writeFramed(w, []byte(p.Value))
}

func writeFramed(w io.Writer, b []byte) error {
	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(b)))
	if _, err := w.Write(length[:]); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

// ReadFile reads all pairs from path. A missing file is treated as an empty
// partition (spec.md §4.8) and returns (nil, nil), not an error.
func ReadFile(path string) ([]Pair, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	r := bufio.NewReader(f)
	var pairs []Pair
	for {
		key, err := readFramed(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading key from %s", path)
		}
		value, err := readFramed(r)
		if err != nil {
			return nil, errors.Wrapf(err, "reading value from %s", path)
		}
		pairs = append(pairs, Pair{Key: string(key), Value: string(value)})
	}
	return pairs, nil
}

func readFramed(r io.Reader) ([]byte, error) {
	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(length[:])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
