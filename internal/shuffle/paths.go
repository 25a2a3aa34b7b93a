package shuffle

import (
	"fmt"
	"path/filepath"
)

// IntermediateDir is where a job's shuffle partitions live: spec.md §4.8's
// `/intermediate/{job-id}/`.
func IntermediateDir(root, jobID string) string {
	return filepath.Join(root, jobID)
}

// IntermediatePath names one (map index, reduce index) partition file.
func IntermediatePath(root, jobID string, mapIdx, reduceIdx int) string {
	return filepath.Join(IntermediateDir(root, jobID), fmt.Sprintf("map-%d-reduce-%d", mapIdx, reduceIdx))
}

// OutputPath names a reduce task's final output file: spec.md §4.8's
// `/output/reduce-{r}.txt`.
func OutputPath(root string, reduceIdx int) string {
	return filepath.Join(root, fmt.Sprintf("reduce-%d.txt", reduceIdx))
}
