// Package joblist generates and parses generated-job lists
// embedded in git commit messages.
package joblist

import (
	"log/slog"
	"strings"
)

const (
	begin = "--- generated jobs begin ---"
	end   = "--- generated jobs end ---"
)

// ExtractJobs extracts the list of generated job files from
// a commit message delimited by begin/end markers.
func ExtractJobs(msg string) []string {
	var jobs []string

	betweenMarkers := false

	for _, line := range strings.Split(msg, "\n") {
		switch line {
		case begin:
			betweenMarkers = true
		case end:
			betweenMarkers = false
		default:
			if betweenMarkers {
				jobs = append(jobs, line)
			}
		}
	}

	if betweenMarkers {
		slog.Warn(
			"unable to find end marker in commit message",
		)

		return nil
	}

	return jobs
}

// Generate produces a commit message section containing the
// given list of job files between begin/end markers.
func Generate(jobs []string) string {
	var sb strings.Builder

	sb.WriteByte('\n')
	sb.WriteString(begin)
	sb.WriteByte('\n')

	for _, j := range jobs {
		sb.WriteString(j)
		sb.WriteByte('\n')
	}

	sb.WriteString(end)
	sb.WriteByte('\n')

	return sb.String()
}
