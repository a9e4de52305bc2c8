package tokens

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strings"
)

// randomOpenTag matches the opening delimiter of a random-variable block
// such as <RANDOM_COLOR>. The closing tag is located by name afterwards.
var randomOpenTag = regexp.MustCompile(`<(RANDOM_[A-Z0-9_]+)>`)

// ExtractRandomVariables collects every <RANDOM_X>value</RANDOM_X> block in
// content and deals the values of each tag, shuffled and without
// replacement, into maxPerTag slots named random_x_1 .. random_x_N. Slots
// beyond the number of occurrences hold "". A non-positive maxPerTag yields
// one slot per occurrence.
//
// The ordering is random on every call; use [ExtractRandomVariablesWith]
// with a seeded source for reproducible results.
func ExtractRandomVariables(content string, maxPerTag int) map[string]string {
	return ExtractRandomVariablesWith(content, maxPerTag, nil)
}

// ExtractRandomVariablesWith is [ExtractRandomVariables] with an explicit
// random source. A nil source uses the global generator.
func ExtractRandomVariablesWith(content string, maxPerTag int, r *rand.Rand) map[string]string {
	order, values := collectRandomBlocks(content)
	vars := make(map[string]string)

	for _, tag := range order {
		pool := values[tag]
		shuffle := rand.Shuffle
		if r != nil {
			shuffle = r.Shuffle
		}
		shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

		slots := maxPerTag
		if slots <= 0 {
			slots = len(pool)
		}
		prefix := strings.ToLower(tag)
		for n := 1; n <= slots; n++ {
			v := ""
			if n <= len(pool) {
				v = pool[n-1]
			}
			vars[fmt.Sprintf("%s_%d", prefix, n)] = v
		}
	}
	return vars
}

// collectRandomBlocks returns tag names in order of first appearance and
// the trimmed values of every well-formed block. Blocks without a matching
// closing tag are skipped.
func collectRandomBlocks(content string) ([]string, map[string][]string) {
	var order []string
	values := make(map[string][]string)

	pos := 0
	for pos < len(content) {
		loc := randomOpenTag.FindStringSubmatchIndex(content[pos:])
		if loc == nil {
			break
		}
		tag := content[pos+loc[2] : pos+loc[3]]
		bodyStart := pos + loc[1]
		closing := "</" + tag + ">"
		rel := strings.Index(content[bodyStart:], closing)
		if rel < 0 {
			pos = bodyStart
			continue
		}

		if _, seen := values[tag]; !seen {
			order = append(order, tag)
		}
		values[tag] = append(values[tag], strings.TrimSpace(content[bodyStart:bodyStart+rel]))
		pos = bodyStart + rel + len(closing)
	}
	return order, values
}
