package worker

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/flowmr/mapreduce/internal/mrrpc"
	"github.com/flowmr/mapreduce/internal/shuffle"
	"github.com/flowmr/mapreduce/internal/userfunc"
)

// Executor runs the map/reduce task bodies described in spec.md §4.7.
type Executor struct {
	IntermediateDir   string
	OutputDir         string
	SimulateStraggler bool
	Log               *logrus.Entry
}

// stragglerDelay is the fixed simulated-straggler sleep from spec.md §4.7
// step 1; it is a no-op unless SimulateStraggler is set, which only
// happens when SIMULATE_STRAGGLER=true.
const stragglerDelay = 10 * time.Second

// ExecuteMap implements spec.md §4.7's map task body: load the registered
// mapper, read the chunk line by line, partition its output by
// shuffle.Partition, and write one framed file per non-empty bucket.
func (e *Executor) ExecuteMap(task *mrrpc.GetTaskResponse) error {
	if e.SimulateStraggler {
		e.Log.Warn("SIMULATING STRAGGLER: sleeping before map task")
		time.Sleep(stragglerDelay)
	}

	mapper, _, ok := userfunc.Lookup(string(task.MapperCode))
	if !ok {
		return userfunc.ErrUnknownJob(string(task.MapperCode))
	}

	f, err := os.Open(task.InputFile)
	if err != nil {
		return errors.Wrapf(err, "opening chunk %s", task.InputFile)
	}
	defer f.Close()

	buckets := make(map[int][]shuffle.Pair)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		pairs, err := mapper(line)
		if err != nil {
			e.Log.WithError(err).WithField("line", line).Warn("mapper error on line, skipping")
			continue
		}
		for _, kv := range pairs {
			p := shuffle.Partition(kv.Key, task.NumReduces)
			buckets[p] = append(buckets[p], shuffle.Pair{Key: kv.Key, Value: kv.Value})
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrapf(err, "reading chunk %s", task.InputFile)
	}

	dir := shuffle.IntermediateDir(e.IntermediateDir, task.JobID)
	if err := os.MkdirAll(dir, 0o777); err != nil {
		return errors.Wrapf(err, "creating intermediate dir %s", dir)
	}

	for reduceIdx, pairs := range buckets {
		path := shuffle.IntermediatePath(e.IntermediateDir, task.JobID, task.MapTaskNumber, reduceIdx)
		if err := shuffle.WriteFile(path, pairs); err != nil {
			return errors.Wrapf(err, "writing partition %s", path)
		}
	}

	return nil
}

// ExecuteReduce implements spec.md §4.7's reduce task body: read every
// existing map-{i}-reduce-{r} partition for r, group values by key, invoke
// the registered reducer on keys in ascending order, and write the
// `key\tvalue\n` lines as the task's output file, replacing any previous
// file of that name atomically.
func (e *Executor) ExecuteReduce(task *mrrpc.GetTaskResponse) error {
	if e.SimulateStraggler {
		e.Log.Warn("SIMULATING STRAGGLER: sleeping before reduce task")
		time.Sleep(stragglerDelay)
	}

	_, reducer, ok := userfunc.Lookup(string(task.ReducerCode))
	if !ok {
		return userfunc.ErrUnknownJob(string(task.ReducerCode))
	}

	grouped := make(map[string][]string)
	for mapIdx := 0; mapIdx < task.NumMaps; mapIdx++ {
		path := shuffle.IntermediatePath(e.IntermediateDir, task.JobID, mapIdx, task.ReduceTaskNumber)
		pairs, err := shuffle.ReadFile(path)
		if err != nil {
			return errors.Wrapf(err, "reading partition %s", path)
		}
		for _, p := range pairs {
			grouped[p.Key] = append(grouped[p.Key], p.Value)
		}
	}

	keys := make([]string, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := os.MkdirAll(e.OutputDir, 0o777); err != nil {
		return errors.Wrapf(err, "creating output dir %s", e.OutputDir)
	}

	var lines []string
	for _, key := range keys {
		out, err := reducer(key, grouped[key])
		if err != nil {
			e.Log.WithError(err).WithField("key", key).Warn("reducer error on key, skipping")
			continue
		}
		for _, kv := range out {
			lines = append(lines, kv.Key+"\t"+kv.Value+"\n")
		}
	}

	outPath := shuffle.OutputPath(e.OutputDir, task.ReduceTaskNumber)
	return writeTextFile(outPath, lines)
}

func writeTextFile(path string, lines []string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "creating temp output file")
	}
	tmpName := tmp.Name()
	for _, line := range lines {
		if _, err := tmp.WriteString(line); err != nil {
			tmp.Close()
			os.Remove(tmpName)
			return errors.Wrapf(err, "writing %s", path)
		}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "closing temp output for %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return errors.Wrapf(err, "renaming output into place at %s", path)
	}
	return nil
}
