package khiopsdriver

import "testing"

func TestParseURI(t *testing.T) {
	tests := []struct {
		name          string
		uri           string
		defaultBucket string
		wantBucket    string
		wantKey       string
		wantErr       bool
	}{
		{"bucket and key", "s3://mybucket/path/to/file.csv", "", "mybucket", "path/to/file.csv", false},
		{"glob key", "s3://mybucket/shards/part-*.csv", "", "mybucket", "shards/part-*.csv", false},
		{"missing bucket uses default", "s3:///path/to/file.csv", "defbucket", "defbucket", "path/to/file.csv", false},
		{"missing bucket no default", "s3:///path/to/file.csv", "", "", "", true},
		{"no scheme", "mybucket/path/to/file.csv", "", "", "", true},
		{"no key separator", "s3://mybucket", "", "", "", true},
		{"empty key", "s3://mybucket/", "", "mybucket", "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bucket, key, err := ParseURI(tc.uri, tc.defaultBucket)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if bucket != tc.wantBucket || key != tc.wantKey {
				t.Fatalf("got (%q, %q), want (%q, %q)", bucket, key, tc.wantBucket, tc.wantKey)
			}
		})
	}
}

func TestIsGlob(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantIdx int
		wantOk  bool
	}{
		{"literal", "shards/part-001.csv", 0, false},
		{"star", "shards/part-*.csv", 12, true},
		{"question mark", "shards/part-?.csv", 12, true},
		{"class", "shards/part-[0-9].csv", 12, true},
		{"escaped star", `shards/part-\*.csv`, 0, false},
		{"escaped then real", `shards/part-\*-*.csv`, 15, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			idx, ok := IsGlob(tc.key)
			if ok != tc.wantOk {
				t.Fatalf("got ok=%v, want %v", ok, tc.wantOk)
			}
			if ok && idx != tc.wantIdx {
				t.Fatalf("got idx=%d, want %d", idx, tc.wantIdx)
			}
		})
	}
}
