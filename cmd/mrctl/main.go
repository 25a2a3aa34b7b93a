// Command mrctl is the MapReduce client CLI: submit / status / results,
// ported from original_source/mapreduce-reference/client/client.py. It is
// an external collaborator per spec.md §1 — a thin wrapper around the
// coordinator RPCs, not part of the scheduling core.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/flowmr/mapreduce/internal/mrrpc"
	"github.com/flowmr/mapreduce/internal/worker"
)

func main() {
	host := flag.String("host", "localhost", "coordinator host")
	port := flag.String("port", "50051", "coordinator port")
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		fmt.Println("usage: mrctl [--host H] [--port P] <submit|status|results> ...")
		os.Exit(1)
	}

	client := worker.NewClient(*host, *port)

	switch args[0] {
	case "submit":
		submit(client, args[1:])
	case "status":
		status(client, args[1:])
	case "results":
		results(args[1:])
	default:
		fmt.Printf("unknown command %q\n", args[0])
		os.Exit(1)
	}
}

func submit(client *worker.Client, rest []string) {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	input := fs.String("input", "", "input file path")
	output := fs.String("output", "", "output directory path")
	registry := fs.String("registry-name", "wordcount", "registered mapper/reducer name")
	numMaps := fs.Int("num-maps", 4, "number of map tasks")
	numReduces := fs.Int("num-reduces", 2, "number of reduce tasks")
	follow := fs.Bool("follow", false, "follow job status until completion")
	fs.Parse(rest)

	req := mrrpc.SubmitJobRequest{
		InputPath:   *input,
		OutputPath:  *output,
		MapperCode:  []byte(*registry),
		ReducerCode: []byte(*registry),
		NumMaps:     *numMaps,
		NumReduces:  *numReduces,
	}
	var resp mrrpc.SubmitJobResponse
	if err := client.Call(mrrpc.MethodSubmitJob, &req, &resp); err != nil {
		fmt.Println("RPC error:", err)
		os.Exit(1)
	}
	if !resp.Success {
		fmt.Println("job submission failed:", resp.Message)
		os.Exit(1)
	}
	fmt.Println("job submitted:", resp.JobID)
	fmt.Println(resp.Message)

	if *follow {
		followStatus(client, resp.JobID)
	}
}

func status(client *worker.Client, rest []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	follow := fs.Bool("follow", false, "follow status until completion")
	fs.Parse(rest)
	if fs.NArg() == 0 {
		fmt.Println("usage: mrctl status [--follow] <job-id>")
		os.Exit(1)
	}
	jobID := fs.Arg(0)

	if *follow {
		followStatus(client, jobID)
		return
	}
	printStatus(client, jobID)
}

func followStatus(client *worker.Client, jobID string) {
	for {
		resp := printStatus(client, jobID)
		if resp.Status == mrrpc.StatusCompleted || resp.Status == mrrpc.StatusFailed || resp.Status == mrrpc.StatusNotFound {
			return
		}
		time.Sleep(2 * time.Second)
	}
}

func printStatus(client *worker.Client, jobID string) mrrpc.GetJobStatusResponse {
	var resp mrrpc.GetJobStatusResponse
	if err := client.Call(mrrpc.MethodGetJobStatus, &mrrpc.GetJobStatusRequest{JobID: jobID}, &resp); err != nil {
		fmt.Println("RPC error:", err)
		os.Exit(1)
	}
	if resp.Status == mrrpc.StatusNotFound {
		fmt.Printf("job %s not found\n", jobID)
		return resp
	}
	fmt.Printf("job %s: %s\n", jobID, resp.Status)
	fmt.Printf("  map tasks: %d/%d\n", resp.MapProgress, resp.TotalMaps)
	fmt.Printf("  reduce tasks: %d/%d\n", resp.ReduceProgress, resp.TotalReduces)
	if resp.FailedTasks > 0 {
		fmt.Printf("  failed tasks: %d (stuck, no retry)\n", resp.FailedTasks)
	}
	return resp
}

func results(rest []string) {
	fs := flag.NewFlagSet("results", flag.ExitOnError)
	limit := fs.Int("limit", 0, "limit number of lines displayed")
	fs.Parse(rest)
	if fs.NArg() == 0 {
		fmt.Println("usage: mrctl results [--limit N] <output-dir>")
		os.Exit(1)
	}
	outputDir := fs.Arg(0)

	matches, err := filepath.Glob(filepath.Join(outputDir, "reduce-*.txt"))
	if err != nil {
		fmt.Println("error listing output files:", err)
		os.Exit(1)
	}

	count := 0
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Println("error reading", path, ":", err)
			continue
		}
		for _, line := range strings.SplitAfter(string(data), "\n") {
			if line == "" {
				continue
			}
			if *limit > 0 && count >= *limit {
				return
			}
			fmt.Print(line)
			count++
		}
	}
}
