package userfunc

import (
	"os"
	"regexp"
	"strconv"
	"strings"
)

func init() {
	Register("grep", grepMapper, grepReducer)
}

// grepPattern returns the search pattern from GREP_PATTERN, defaulting to
// "error" — ported from
// original_source/mapreduce-reference/examples/grep/mapper.py. Read per
// call rather than cached so tests can vary it per job.
func grepPattern() string {
	if p := os.Getenv("GREP_PATTERN"); p != "" {
		return p
	}
	return "error"
}

// grepMapper emits (line, "1") for every line matching grepPattern().
func grepMapper(line string) ([]KV, error) {
	pattern, err := regexp.Compile("(?i)" + grepPattern())
	if err != nil {
		return nil, err
	}
	if !pattern.MatchString(line) {
		return nil, nil
	}
	return []KV{{Key: strings.TrimSpace(line), Value: "1"}}, nil
}

// grepReducer counts how many times each matching line occurred.
func grepReducer(key string, values []string) ([]KV, error) {
	return []KV{{Key: key, Value: strconv.Itoa(len(values))}}, nil
}
