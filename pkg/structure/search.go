package structure

// indexRunes locates needle in haystack by forward scan, returning the
// character (rune) offset of the first occurrence whose start is at or
// after from and whose full extent fits before limit. Offsets throughout
// this package are rune offsets, not byte offsets, so they count Bengali
// characters the same as ASCII. Returns OffsetNotFound when absent, when
// needle is empty, or when from is itself OffsetNotFound.
func indexRunes(haystack []rune, needle string, from, limit int) int {
	if needle == "" || from < 0 {
		return OffsetNotFound
	}
	target := []rune(needle)
	if limit > len(haystack) {
		limit = len(haystack)
	}

	for start := from; start+len(target) <= limit; start++ {
		matched := true
		for i, r := range target {
			if haystack[start+i] != r {
				matched = false
				break
			}
		}
		if matched {
			return start
		}
	}
	return OffsetNotFound
}
