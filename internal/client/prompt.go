package client

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// PromptText prints label and reads lines from in until EOF or a line
// containing a single ".". It returns the text with surrounding blank
// space trimmed.
func PromptText(in io.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s (finish with a line containing only \".\" or Ctrl-D):\n", label)

	scanner := bufio.NewScanner(in)
	var lines []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "." {
			break
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}
