package khiopsdriver

// Match implements gitignore-style glob matching: '*' matches zero or more
// characters within a single '/'-delimited segment, '**' matches zero or
// more characters across segment boundaries, '?' matches exactly one
// character, '[...]'/'[^...]' are character classes (with 'a-z' style
// ranges), and '\x' escapes the next character so it is matched literally
// even if it would otherwise be special. Matching is case-sensitive and
// anchored at both ends of key.
//
// No glob-matching library appears anywhere in the retrieved reference
// material; this is a direct, hand-written port of the semantics the
// specification describes rather than an adaptation of existing Go code.
func Match(key, pattern string) bool {
	toks := tokenizeGlob(pattern)
	memo := make(map[[2]int]bool)
	return matchFrom(toks, 0, []byte(key), 0, memo)
}

type globTokenKind int

const (
	tokLiteral globTokenKind = iota
	tokAny                  // ?
	tokStar                 // *
	tokStarStar             // **
	tokClass                // [...] / [^...]
)

type globToken struct {
	kind   globTokenKind
	lit    byte
	negate bool
	set    []byte   // literal members of the class
	ranges [][2]byte // inclusive byte ranges, e.g. {'a','z'}
}

func (t globToken) matches(b byte) bool {
	switch t.kind {
	case tokLiteral:
		return b == t.lit
	case tokAny:
		return true
	case tokClass:
		in := false
		for _, s := range t.set {
			if b == s {
				in = true
				break
			}
		}
		if !in {
			for _, r := range t.ranges {
				if b >= r[0] && b <= r[1] {
					in = true
					break
				}
			}
		}
		if t.negate {
			return !in
		}
		return in
	}
	return false
}

func tokenizeGlob(pattern string) []globToken {
	var toks []globToken
	p := []byte(pattern)
	i := 0
	for i < len(p) {
		c := p[i]
		switch {
		case c == '\\' && i+1 < len(p):
			toks = append(toks, globToken{kind: tokLiteral, lit: p[i+1]})
			i += 2
		case c == '\\':
			toks = append(toks, globToken{kind: tokLiteral, lit: '\\'})
			i++
		case c == '?':
			toks = append(toks, globToken{kind: tokAny})
			i++
		case c == '*':
			if i+1 < len(p) && p[i+1] == '*' {
				toks = append(toks, globToken{kind: tokStarStar})
				i += 2
			} else {
				toks = append(toks, globToken{kind: tokStar})
				i++
			}
		case c == '[':
			tok, consumed := parseGlobClass(p[i:])
			toks = append(toks, tok)
			i += consumed
		default:
			toks = append(toks, globToken{kind: tokLiteral, lit: c})
			i++
		}
	}
	return toks
}

// parseGlobClass parses a "[...]" class starting at p[0] == '['. If the
// closing ']' is never found, the '[' is treated as a literal.
func parseGlobClass(p []byte) (globToken, int) {
	tok := globToken{kind: tokClass}
	i := 1
	if i < len(p) && (p[i] == '^' || p[i] == '!') {
		tok.negate = true
		i++
	}
	start := i
	closed := -1
	for j := i; j < len(p); j++ {
		if p[j] == ']' && j > start {
			closed = j
			break
		}
	}
	if closed < 0 {
		return globToken{kind: tokLiteral, lit: '['}, 1
	}
	for i < closed {
		if p[i] == '\\' && i+1 < closed {
			tok.set = append(tok.set, p[i+1])
			i += 2
			continue
		}
		if i+2 < closed && p[i+1] == '-' {
			tok.ranges = append(tok.ranges, [2]byte{p[i], p[i+2]})
			i += 3
			continue
		}
		tok.set = append(tok.set, p[i])
		i++
	}
	return tok, closed + 1
}

func matchFrom(toks []globToken, ti int, key []byte, si int, memo map[[2]int]bool) bool {
	if ti == len(toks) {
		return si == len(key)
	}

	k := [2]int{ti, si}
	if v, ok := memo[k]; ok {
		return v
	}

	t := toks[ti]
	var result bool
	switch t.kind {
	case tokStar:
		limit := si
		for limit < len(key) && key[limit] != '/' {
			limit++
		}
		for e := si; e <= limit; e++ {
			if matchFrom(toks, ti+1, key, e, memo) {
				result = true
				break
			}
		}
	case tokStarStar:
		for e := si; e <= len(key); e++ {
			if matchFrom(toks, ti+1, key, e, memo) {
				result = true
				break
			}
		}
	default:
		if si < len(key) && t.matches(key[si]) {
			result = matchFrom(toks, ti+1, key, si+1, memo)
		}
	}

	memo[k] = result
	return result
}
