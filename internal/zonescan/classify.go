// Package zonescan implements the two-stage streaming tokenizer for DNS zone
// master files: a block scanner that classifies 64-byte chunks of input into
// structural bitmasks, and a token materializer that turns those bitmasks
// into a stream of typed tokens.
package zonescan

// byteClass is the lexical category of a single byte, used by the
// materializer to decide things like start-of-line continuation after the
// first byte of a token has already been consumed.
type byteClass uint8

const (
	classContiguous byteClass = iota
	classBlank
	classQuote
	classLineFeed
	classParenOpen
	classParenClose
	classSemicolon
	classBackslash
)

// classifyTable maps every byte value to its lexical class. CONTIGUOUS is
// the default: every byte that isn't blank, special, or a backslash belongs
// to an unquoted token.
var classifyTable = buildClassifyTable()

func buildClassifyTable() [256]byteClass {
	var t [256]byteClass
	for i := range t {
		t[i] = classContiguous
	}
	t[' '] = classBlank
	t['\t'] = classBlank
	t['"'] = classQuote
	t['\n'] = classLineFeed
	t['('] = classParenOpen
	t[')'] = classParenClose
	t[';'] = classSemicolon
	t['\\'] = classBackslash
	return t
}

// classify returns the lexical class of b.
func classify(b byte) byteClass {
	return classifyTable[b]
}

// The blank and special bytes recognized in the CONTIGUOUS context (C1).
// These drive the nibble-indexed lookup tables below, which mirror the
// simdjson/simdcsv "pshufb classification" trick: a byte matches a category
// iff (loTable[b&0x0F] & hiTable[b>>4]) != 0. scanBlock's scalar path uses
// this same nibble form (via matchesNibbleTable) that an AVX-512 vector
// path would load into a 4-bit shuffle table for hardware classification.
var (
	blankBytes                       = []byte{' ', '\t'}
	specialBytes                     = []byte{'\n', '"', '(', ')', ';'}
	blankLoNibble, blankHiNibble     = buildNibbleTables(blankBytes)
	specialLoNibble, specialHiNibble = buildNibbleTables(specialBytes)
)

// buildNibbleTables produces the 16-entry low/high nibble bitmask tables
// used by a pshufb-style classifier: byte b is a member iff
// lo[b&0x0F] & hi[b>>4] != 0.
func buildNibbleTables(members []byte) (lo, hi [16]uint8) {
	// Assign each member a distinct bit (up to 8 members fit in a uint8;
	// our tables never need more than 5 bits-worth of members).
	for i, b := range members {
		bit := uint8(1) << uint(i%8)
		lo[b&0x0F] |= bit
		hi[b>>4] |= bit
	}
	return lo, hi
}

// matchesNibbleTable reports whether b is a member of the set encoded by
// lo/hi, using the pshufb-style AND of the two nibble lookups.
func matchesNibbleTable(b byte, lo, hi [16]uint8) bool {
	return lo[b&0x0F]&hi[b>>4] != 0
}
