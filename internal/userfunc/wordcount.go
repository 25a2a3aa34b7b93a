package userfunc

import (
	"regexp"
	"strconv"
	"strings"
)

var wordPattern = regexp.MustCompile(`\w+`)

func init() {
	Register("wordcount", wordcountMapper, wordcountReducer)
}

// wordcountMapper emits (word, "1") for every word in line, ported from
// original_source/mapreduce-reference/examples/wordcount/mapper.py.
func wordcountMapper(line string) ([]KV, error) {
	words := wordPattern.FindAllString(strings.ToLower(line), -1)
	pairs := make([]KV, 0, len(words))
	for _, w := range words {
		pairs = append(pairs, KV{Key: w, Value: "1"})
	}
	return pairs, nil
}

// wordcountReducer sums the per-word counts.
func wordcountReducer(key string, values []string) ([]KV, error) {
	total := 0
	for _, v := range values {
		n, err := strconv.Atoi(v)
		if err != nil {
			continue
		}
		total += n
	}
	return []KV{{Key: key, Value: strconv.Itoa(total)}}, nil
}
