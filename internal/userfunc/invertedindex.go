package userfunc

import (
	"sort"
	"strings"
)

func init() {
	Register("invertedindex", invertedIndexMapper, invertedIndexReducer)
}

// invertedIndexMapper expects lines shaped "doc_id: content" and emits
// (word, doc_id) once per distinct word longer than two characters,
// ported from
// original_source/mapreduce-reference/examples/inverted_index/mapper.py.
func invertedIndexMapper(line string) ([]KV, error) {
	parts := strings.SplitN(line, ":", 2)
	if len(parts) != 2 {
		return nil, nil
	}
	docID := strings.TrimSpace(parts[0])
	content := strings.TrimSpace(parts[1])

	words := wordPattern.FindAllString(strings.ToLower(content), -1)
	seen := make(map[string]bool, len(words))
	var pairs []KV
	for _, w := range words {
		if len(w) <= 2 || seen[w] {
			continue
		}
		seen[w] = true
		pairs = append(pairs, KV{Key: w, Value: docID})
	}
	return pairs, nil
}

// invertedIndexReducer joins the sorted, de-duplicated document IDs for a
// word with commas.
func invertedIndexReducer(key string, values []string) ([]KV, error) {
	seen := make(map[string]bool, len(values))
	unique := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			unique = append(unique, v)
		}
	}
	sort.Strings(unique)
	return []KV{{Key: key, Value: strings.Join(unique, ",")}}, nil
}
