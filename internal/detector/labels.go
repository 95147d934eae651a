package detector

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// loadLabels reads a labels.txt file where each line is an emotion label
// and the line number (0-indexed) is the class index. Labels are
// lowercase-normalized so they match the emotion key contract used by
// journal consumers. Blank lines and duplicates are rejected — a class
// index must map to exactly one label.
func loadLabels(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	defer f.Close()

	var labels []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		label := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if label == "" {
			return nil, fmt.Errorf("labels: blank line at class index %d", len(labels))
		}
		if seen[label] {
			return nil, fmt.Errorf("labels: duplicate label %q", label)
		}
		seen[label] = true
		labels = append(labels, label)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("labels: read error: %w", err)
	}
	if len(labels) == 0 {
		return nil, fmt.Errorf("labels: file is empty: %s", path)
	}

	return labels, nil
}
