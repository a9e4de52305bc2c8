package tokens

import "strings"

// TruncationMarker is appended on its own line to every truncated preview.
const TruncationMarker = "... (content truncated)"

// PreviewOptions bounds a smart preview. MinLines is the number of lines
// always shown; MaxLines is the hard cap.
type PreviewOptions struct {
	MinLines int
	MaxLines int
}

// DefaultPreviewOptions is used for zero-valued fields.
var DefaultPreviewOptions = PreviewOptions{MinLines: 5, MaxLines: 10}

// GetSmartPreview shortens content to a preview that prefers ending on a
// paragraph boundary.
//
// Content with at most MaxLines lines is returned unchanged. Otherwise at
// least MinLines lines are kept. When those lines hold fewer than two blank
// lines, the preview grows one line at a time up to MaxLines and stops at
// the first blank line it meets. The marker is appended on its own line.
func GetSmartPreview(content string, opts PreviewOptions) string {
	if opts.MaxLines <= 0 {
		opts.MaxLines = DefaultPreviewOptions.MaxLines
	}
	if opts.MinLines <= 0 {
		opts.MinLines = min(DefaultPreviewOptions.MinLines, opts.MaxLines)
	}
	if opts.MinLines > opts.MaxLines {
		opts.MinLines = opts.MaxLines
	}

	lines := strings.Split(content, "\n")
	if len(lines) <= opts.MaxLines {
		return content
	}

	end := opts.MinLines
	if countBlank(lines[:opts.MinLines]) < 2 {
		end = opts.MaxLines
		for i := opts.MinLines; i < opts.MaxLines; i++ {
			if isBlank(lines[i]) {
				end = i
				break
			}
		}
	}

	return strings.Join(lines[:end], "\n") + "\n" + TruncationMarker
}

func countBlank(lines []string) int {
	n := 0
	for _, l := range lines {
		if isBlank(l) {
			n++
		}
	}
	return n
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
