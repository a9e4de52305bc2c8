package tokens

import (
	"math/rand/v2"
	"sort"
	"testing"
)

const randomContent = `Pick a palette:
<RANDOM_COLOR>red</RANDOM_COLOR>
<RANDOM_COLOR> green </RANDOM_COLOR>
<RANDOM_COLOR>blue</RANDOM_COLOR>
and a mood <RANDOM_MOOD>calm</RANDOM_MOOD>`

func TestExtractRandomVariables_SlotsAndPermutation(t *testing.T) {
	vars := ExtractRandomVariables(randomContent, 5)

	var colors []string
	for i := 1; i <= 5; i++ {
		key := "random_color_" + string(rune('0'+i))
		v, ok := vars[key]
		if !ok {
			t.Fatalf("missing key %s", key)
		}
		if v != "" {
			colors = append(colors, v)
		}
	}
	sort.Strings(colors)
	want := []string{"blue", "green", "red"}
	if len(colors) != len(want) {
		t.Fatalf("non-empty colors = %v, want %v", colors, want)
	}
	for i := range want {
		if colors[i] != want[i] {
			t.Errorf("colors = %v, want permutation of %v", colors, want)
			break
		}
	}

	if vars["random_mood_1"] != "calm" {
		t.Errorf("random_mood_1 = %q, want calm", vars["random_mood_1"])
	}
	if vars["random_mood_2"] != "" {
		t.Errorf("random_mood_2 = %q, want empty", vars["random_mood_2"])
	}
}

func TestExtractRandomVariables_FewerSlotsThanValues(t *testing.T) {
	vars := ExtractRandomVariables(randomContent, 2)
	seen := map[string]bool{}
	for _, key := range []string{"random_color_1", "random_color_2"} {
		v := vars[key]
		if v == "" {
			t.Errorf("%s is empty", key)
		}
		if seen[v] {
			t.Errorf("value %q used twice", v)
		}
		seen[v] = true
	}
	if _, ok := vars["random_color_3"]; ok {
		t.Error("random_color_3 should not exist with maxPerTag=2")
	}
}

func TestExtractRandomVariablesWith_SeededIsReproducible(t *testing.T) {
	a := ExtractRandomVariablesWith(randomContent, 3, rand.New(rand.NewPCG(1, 2)))
	b := ExtractRandomVariablesWith(randomContent, 3, rand.New(rand.NewPCG(1, 2)))
	for k, v := range a {
		if b[k] != v {
			t.Errorf("%s: %q != %q", k, v, b[k])
		}
	}
}

func TestExtractRandomVariables_UnclosedTagIgnored(t *testing.T) {
	vars := ExtractRandomVariables("<RANDOM_X>open only <RANDOM_Y>y</RANDOM_Y>", 1)
	if _, ok := vars["random_x_1"]; ok {
		t.Error("unclosed tag should be skipped")
	}
	if vars["random_y_1"] != "y" {
		t.Errorf("random_y_1 = %q, want y", vars["random_y_1"])
	}
}

func TestExtractRandomVariables_NoTags(t *testing.T) {
	if vars := ExtractRandomVariables("plain text", 3); len(vars) != 0 {
		t.Errorf("expected no variables, got %v", vars)
	}
}
