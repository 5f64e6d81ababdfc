package unit

import "strings"

// CountLOC counts lines of code in Ruby-style source, excluding blank lines,
// comment-only lines, and =begin/=end block comments.
func CountLOC(source string) int {
	loc := 0
	inBlockComment := false
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if inBlockComment {
			if strings.HasPrefix(trimmed, "=end") {
				inBlockComment = false
			}
			continue
		}
		switch {
		case trimmed == "":
		case strings.HasPrefix(trimmed, "#"):
		case strings.HasPrefix(trimmed, "=begin"):
			inBlockComment = true
		default:
			loc++
		}
	}
	return loc
}

// CountComments counts comment-only lines, including block comment bodies.
func CountComments(source string) int {
	count := 0
	inBlockComment := false
	for _, line := range strings.Split(source, "\n") {
		trimmed := strings.TrimSpace(line)
		if inBlockComment {
			count++
			if strings.HasPrefix(trimmed, "=end") {
				inBlockComment = false
			}
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			count++
		} else if strings.HasPrefix(trimmed, "=begin") {
			count++
			inBlockComment = true
		}
	}
	return count
}
