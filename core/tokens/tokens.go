package tokens

import (
	"math"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	tiktoken_loader "github.com/pkoukk/tiktoken-go-loader"
)

// charsPerToken is the divisor of the fallback estimate.
const charsPerToken = 4

var loaderOnce sync.Once

// useOfflineLoader makes tiktoken read its BPE tables from embedded files
// instead of downloading them at runtime.
func useOfflineLoader() {
	loaderOnce.Do(func() {
		tiktoken.SetBpeLoader(tiktoken_loader.NewOfflineLoader())
	})
}

// Cache maps model identifiers to compiled tokenizers. Entries are written
// once per key and read many times; a model without a known encoding is
// remembered as such so the lookup is not repeated. Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	encoders map[string]*tiktoken.Tiktoken
}

// NewCache returns an empty tokenizer cache.
func NewCache() *Cache {
	return &Cache{encoders: make(map[string]*tiktoken.Tiktoken)}
}

var defaultCache = NewCache()

// CountTokens counts tokens with the process-wide default cache.
func CountTokens(text, model string) int {
	return defaultCache.Count(text, model)
}

// Count returns the number of tokens text occupies for model. The empty
// string is always 0 and never touches a tokenizer. When model has no known
// encoding the result is [EstimateTokens], an approximation rather than an
// exact count.
func (c *Cache) Count(text, model string) int {
	if text == "" {
		return 0
	}
	enc := c.encoder(model)
	if enc == nil {
		return EstimateTokens(text)
	}
	return len(enc.Encode(text, nil, nil))
}

// Known reports whether model has an exact tokenizer.
func (c *Cache) Known(model string) bool {
	return c.encoder(model) != nil
}

func (c *Cache) encoder(model string) *tiktoken.Tiktoken {
	if model == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if enc, ok := c.encoders[model]; ok {
		return enc
	}

	useOfflineLoader()
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		enc = nil
	}
	c.encoders[model] = enc
	return enc
}

// EstimateTokens approximates a token count as ceil(characters / 4), where
// characters are Unicode code points. It is deterministic and used whenever
// no tokenizer exists for the requested model.
func EstimateTokens(text string) int {
	return int(math.Ceil(float64(utf8.RuneCountInString(text)) / charsPerToken))
}

// SplitByTokens splits text into chunks that each fit maxTokens for model.
// Chunks break on line boundaries; a single line longer than the budget is
// cut by runes. Joining the chunks with "\n" reproduces text, except that
// overlong lines are split across chunks. A non-positive budget returns the
// text as one chunk.
func (c *Cache) SplitByTokens(text, model string, maxTokens int) []string {
	if text == "" {
		return nil
	}
	if maxTokens <= 0 || c.Count(text, model) <= maxTokens {
		return []string{text}
	}

	var chunks []string
	var current []string
	currentTokens := 0

	flush := func() {
		if len(current) > 0 {
			chunks = append(chunks, strings.Join(current, "\n"))
			current = nil
			currentTokens = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		lineTokens := c.Count(line+"\n", model)
		if lineTokens > maxTokens {
			flush()
			chunks = append(chunks, c.splitLine(line, model, maxTokens)...)
			continue
		}
		if currentTokens+lineTokens > maxTokens {
			flush()
		}
		current = append(current, line)
		currentTokens += lineTokens
	}
	flush()
	return chunks
}

// splitLine cuts a single overlong line into rune ranges that fit the budget.
func (c *Cache) splitLine(line, model string, maxTokens int) []string {
	var parts []string
	runes := []rune(line)
	for len(runes) > 0 {
		// Binary search the longest prefix that fits.
		lo, hi := 1, len(runes)
		for lo < hi {
			mid := (lo + hi + 1) / 2
			if c.Count(string(runes[:mid]), model) <= maxTokens {
				lo = mid
			} else {
				hi = mid - 1
			}
		}
		parts = append(parts, string(runes[:lo]))
		runes = runes[lo:]
	}
	return parts
}
