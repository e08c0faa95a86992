package khiopsdriver

import "testing"

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		pattern string
		want    bool
	}{
		{"literal match", "shards/part-001.csv", "shards/part-001.csv", true},
		{"literal mismatch", "shards/part-001.csv", "shards/part-002.csv", false},
		{"star within segment", "shards/part-001.csv", "shards/part-*.csv", true},
		{"star does not cross slash", "shards/sub/part-001.csv", "shards/*.csv", false},
		{"double star crosses slash", "shards/part-001.csv", "shards/**.csv", true},
		{"double star matches everything", "a/b/c/file.csv", "**", true},
		{"question mark single char", "shards/part-1.csv", "shards/part-?.csv", true},
		{"question mark wrong length", "shards/part-10.csv", "shards/part-?.csv", false},
		{"digit class", "shards/part-5.csv", "shards/part-[0-9].csv", true},
		{"digit class miss", "shards/part-a.csv", "shards/part-[0-9].csv", false},
		{"negated class", "shards/part-a.csv", "shards/part-[^0-9].csv", true},
		{"negated class miss", "shards/part-5.csv", "shards/part-[^0-9].csv", false},
		{"escaped star literal", "shards/part-*.csv", `shards/part-\*.csv`, true},
		{"escaped star not wildcard", "shards/part-1.csv", `shards/part-\*.csv`, false},
		{"empty pattern empty key", "", "", true},
		{"star matches empty segment", "shards/.csv", "shards/*.csv", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Match(tc.key, tc.pattern)
			if got != tc.want {
				t.Fatalf("Match(%q, %q) = %v, want %v", tc.key, tc.pattern, got, tc.want)
			}
		})
	}
}
