package worker

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowmr/mapreduce/internal/mrrpc"
	"github.com/flowmr/mapreduce/internal/shuffle"
	_ "github.com/flowmr/mapreduce/internal/userfunc"
)

func newTestExecutor(t *testing.T, intermediateDir, outputDir string) *Executor {
	t.Helper()
	return &Executor{
		IntermediateDir: intermediateDir,
		OutputDir:       outputDir,
		Log:             logrus.NewEntry(logrus.New()),
	}
}

func writeChunk(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "chunk-0")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExecuteMap_PartitionsWordsAcrossReduceBuckets(t *testing.T) {
	root := t.TempDir()
	intermediateDir := filepath.Join(root, "intermediate")
	e := newTestExecutor(t, intermediateDir, filepath.Join(root, "output"))

	chunk := writeChunk(t, "foo bar\nfoo baz\n")
	task := &mrrpc.GetTaskResponse{
		TaskType:      mrrpc.KindMap,
		JobID:         "job-1",
		InputFile:     chunk,
		MapTaskNumber: 0,
		NumMaps:       1,
		NumReduces:    3,
		MapperCode:    []byte("wordcount"),
		ReducerCode:   []byte("wordcount"),
	}

	require.NoError(t, e.ExecuteMap(task))

	var total int
	for r := 0; r < task.NumReduces; r++ {
		path := shuffle.IntermediatePath(intermediateDir, task.JobID, task.MapTaskNumber, r)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		pairs, err := shuffle.ReadFile(path)
		require.NoError(t, err)
		total += len(pairs)
	}
	assert.Equal(t, 4, total, "foo, bar, foo, baz: one pair emitted per word")
}

func TestExecuteMap_UnknownMapperIsAnError(t *testing.T) {
	root := t.TempDir()
	e := newTestExecutor(t, filepath.Join(root, "intermediate"), filepath.Join(root, "output"))
	chunk := writeChunk(t, "a b c\n")

	task := &mrrpc.GetTaskResponse{
		JobID:         "job-1",
		InputFile:     chunk,
		MapTaskNumber: 0,
		NumReduces:    1,
		MapperCode:    []byte("no-such-job"),
	}

	err := e.ExecuteMap(task)
	assert.Error(t, err)
}

func TestExecuteReduce_MissingPartitionsAreTreatedAsEmpty(t *testing.T) {
	root := t.TempDir()
	intermediateDir := filepath.Join(root, "intermediate")
	outputDir := filepath.Join(root, "output")
	e := newTestExecutor(t, intermediateDir, outputDir)

	// Only map-0-reduce-0 exists; map-1-reduce-0 is never written, simulating
	// a map task whose output had no keys in this bucket.
	path := shuffle.IntermediatePath(intermediateDir, "job-1", 0, 0)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o777))
	require.NoError(t, shuffle.WriteFile(path, []shuffle.Pair{
		{Key: "alpha", Value: "1"},
		{Key: "alpha", Value: "1"},
		{Key: "beta", Value: "1"},
	}))

	task := &mrrpc.GetTaskResponse{
		TaskType:         mrrpc.KindReduce,
		JobID:            "job-1",
		ReduceTaskNumber: 0,
		NumMaps:          2,
		ReducerCode:      []byte("wordcount"),
	}

	require.NoError(t, e.ExecuteReduce(task))

	out, err := os.ReadFile(shuffle.OutputPath(outputDir, 0))
	require.NoError(t, err)
	assert.Equal(t, "alpha\t2\nbeta\t1\n", string(out), "keys are emitted in sorted order")
}

func TestExecuteReduce_OutputWrittenAtomically(t *testing.T) {
	root := t.TempDir()
	intermediateDir := filepath.Join(root, "intermediate")
	outputDir := filepath.Join(root, "output")
	e := newTestExecutor(t, intermediateDir, outputDir)

	path := shuffle.IntermediatePath(intermediateDir, "job-1", 0, 0)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o777))
	require.NoError(t, shuffle.WriteFile(path, []shuffle.Pair{{Key: "k", Value: "1"}}))

	task := &mrrpc.GetTaskResponse{
		JobID:            "job-1",
		ReduceTaskNumber: 0,
		NumMaps:          1,
		ReducerCode:      []byte("wordcount"),
	}
	require.NoError(t, e.ExecuteReduce(task))

	entries, err := filepath.Glob(filepath.Join(outputDir, "*"))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no leftover temp file should remain beside the final output")
	assert.Equal(t, shuffle.OutputPath(outputDir, 0), entries[0])
}
