package khiopsdriver

import "strings"

// uriScheme is the only scheme this driver understands.
const uriScheme = "s3://"

// globSpecials are the characters that make a key a pattern rather than a
// literal object key.
const globSpecials = "*?![^"

// ParseURI splits an "s3://bucket/key" URI into its bucket and key. An empty
// bucket is replaced by defaultBucket; if that is also empty, parsing fails
// with KindMissingParameter.
func ParseURI(uri, defaultBucket string) (bucket, key string, err error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return "", "", newErr(KindInvalidParameter, "uri must start with s3://", nil)
	}
	rest := uri[len(uriScheme):]
	idx := strings.IndexByte(rest, '/')
	if idx < 0 {
		return "", "", newErr(KindInvalidParameter, "uri missing key separator", nil)
	}
	bucket = rest[:idx]
	key = rest[idx+1:]
	if bucket == "" {
		bucket = defaultBucket
	}
	if bucket == "" {
		return "", "", newErr(KindMissingParameter, "no bucket in uri and no default bucket configured", nil)
	}
	return bucket, key, nil
}

// IsGlob scans key for the first unescaped glob special character, returning
// its index and true. A backslash immediately before a special neutralizes
// it and is itself skipped (it never appears as a special).
func IsGlob(key string) (int, bool) {
	escaped := false
	for i := 0; i < len(key); i++ {
		c := key[i]
		if escaped {
			escaped = false
			continue
		}
		if c == '\\' {
			escaped = true
			continue
		}
		if strings.IndexByte(globSpecials, c) >= 0 {
			return i, true
		}
	}
	return 0, false
}
