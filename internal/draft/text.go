package draft

import "strings"

// ParseLines splits a textarea blob into list items. Blank and whitespace-only lines are dropped;
// other lines are kept verbatim. Form submissions use CRLF, which is normalized first.
func ParseLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	lines := make([]string, 0)
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// ParseStack splits a comma-separated list, trimming each entry and dropping empty ones.
func ParseStack(text string) []string {
	stack := make([]string, 0)
	for _, entry := range strings.Split(text, ",") {
		if entry = strings.TrimSpace(entry); entry != "" {
			stack = append(stack, entry)
		}
	}
	return stack
}

func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

func JoinStack(stack []string) string {
	return strings.Join(stack, ", ")
}
