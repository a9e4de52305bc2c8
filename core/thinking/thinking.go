package thinking

import (
	"strings"

	"github.com/leofalp/genailite/providers/ai"
)

// DefaultTag is the tag name used when none is given.
const DefaultTag = "thinking"

// Separator joins native and extracted reasoning.
const Separator = "\n\n"

// Extraction is the outcome of ExtractInitialTaggedContent. Extracted is
// nil when no leading block was found.
type Extraction struct {
	Content   string
	Extracted *string
}

// ExtractInitialTaggedContent removes a <tag>...</tag> block that opens
// text, after optional leading whitespace. On a match Content is the rest
// of the text with leading whitespace trimmed and Extracted is the trimmed
// inner text. Otherwise text is returned unchanged.
func ExtractInitialTaggedContent(text, tagName string) Extraction {
	if tagName == "" {
		tagName = DefaultTag
	}
	open := "<" + tagName + ">"
	closing := "</" + tagName + ">"

	rest := strings.TrimLeft(text, " \t\r\n")
	if !strings.HasPrefix(rest, open) {
		return Extraction{Content: text}
	}
	end := strings.Index(rest[len(open):], closing)
	if end < 0 {
		return Extraction{Content: text}
	}

	inner := strings.TrimSpace(rest[len(open) : len(open)+end])
	remaining := strings.TrimLeft(rest[len(open)+end+len(closing):], " \t\r\n")
	return Extraction{Content: remaining, Extracted: &inner}
}

// MergeReasoning puts native reasoning first and extracted reasoning after
// it, joined by Separator. Either side may be empty.
func MergeReasoning(native, extracted string) string {
	native = strings.TrimSpace(native)
	extracted = strings.TrimSpace(extracted)
	switch {
	case native == "":
		return extracted
	case extracted == "":
		return native
	}
	return native + Separator + extracted
}

// Options controls Process.
type Options struct {
	// TagName defaults to DefaultTag.
	TagName string
	// Disabled leaves the content untouched.
	Disabled bool
}

// Process returns a copy of resp with a leading thinking block moved from
// Content into Reasoning, after any native reasoning. resp is not
// modified.
func Process(resp *ai.ChatResponse, opts Options) *ai.ChatResponse {
	if resp == nil {
		return nil
	}
	out := *resp
	if opts.Disabled {
		return &out
	}
	ex := ExtractInitialTaggedContent(resp.Content, opts.TagName)
	if ex.Extracted == nil {
		return &out
	}
	out.Content = ex.Content
	out.Reasoning = MergeReasoning(resp.Reasoning, *ex.Extracted)
	return &out
}
