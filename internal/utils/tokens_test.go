package utils

import "testing"

func TestEstimateTokens(t *testing.T) {
	testCases := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"single ascii char", "a", 1},
		{"two ascii chars", "ab", 1},
		{"ascii word", "hello", 3},
		{"non-ascii", "héllo", 3},
		{"cjk only", "你好", 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EstimateTokens(tc.text); got != tc.want {
				t.Errorf("EstimateTokens(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}

func TestRemoveHTMLTags(t *testing.T) {
	got := RemoveHTMLTags("<b>Ada</b> <script>x</script>")
	if got != "Ada x" {
		t.Errorf("RemoveHTMLTags = %q", got)
	}
}
