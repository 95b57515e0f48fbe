package ingest

import (
	"bufio"
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strings"
)

// Regex for valid subreddit names
var subNameRegex = regexp.MustCompile(`^[A-Za-z0-9_]{3,21}$`)

// LoadTargets reads subreddit names from the first column of a CSV file.
func LoadTargets(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTargets(f)
}

// ParseTargets skips the header row and any row whose name is not a valid
// subreddit name. Duplicates keep their first position.
func ParseTargets(src io.Reader) ([]string, error) {
	// Wrap in BOM stripper
	r := csv.NewReader(stripBOM(src))
	r.FieldsPerRecord = -1
	r.Comment = '#'

	var targets []string
	seen := make(map[string]bool)
	line := 0
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}
		line++
		if line == 1 {
			continue
		}
		if len(record) == 0 {
			continue
		}

		// Validation (Fail-Soft)
		sub := strings.TrimPrefix(strings.TrimSpace(record[0]), "r/")
		if !subNameRegex.MatchString(sub) {
			continue
		}
		key := strings.ToLower(sub)
		if seen[key] {
			continue
		}
		seen[key] = true
		targets = append(targets, sub)
	}
	return targets, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	rdr, _, err := br.ReadRune()
	if err != nil {
		return br
	}
	if rdr != '\uFEFF' {
		br.UnreadRune()
	}
	return br
}
