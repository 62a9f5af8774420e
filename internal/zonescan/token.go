package zonescan

// TokenKind is the lexical category of a materialized Token (§4.6).
type TokenKind uint8

const (
	// Contiguous is an unquoted run of non-blank, non-special bytes: a
	// name, a TTL, a type mnemonic, an IP literal, and so on.
	Contiguous TokenKind = iota
	// Quoted is the content between a matching pair of unescaped double
	// quotes, which may itself span multiple physical lines.
	Quoted
	// LineFeed marks the end of a logical record (suppressed while a
	// parenthesized group is open, I5).
	LineFeed
	// EndOfFile is emitted exactly once, after the underlying reader is
	// exhausted and any trailing token has been flushed.
	EndOfFile
)

func (k TokenKind) String() string {
	switch k {
	case Contiguous:
		return "CONTIGUOUS"
	case Quoted:
		return "QUOTED"
	case LineFeed:
		return "LINE_FEED"
	case EndOfFile:
		return "END_OF_FILE"
	default:
		return "UNKNOWN"
	}
}

// Token is one lexical unit produced by the Lexer. Data is a slice of the
// window's backing buffer at the moment the token was produced: the
// caller must copy out Data before calling Next again, since a later
// refill may compact or grow the buffer out from under it (§9 "Pointer
// aliasing").
type Token struct {
	Kind   TokenKind
	Data   []byte // nil for LineFeed/EndOfFile
	Line   uint32 // 1-based line the token starts on
	Quoted bool   // true if Kind == Quoted and Data embedded a line feed (multi-line string, §4.7)

	// StartOfLine is true iff this is the first token of a new record:
	// its line does not begin with a blank, and either the token is the
	// first of the input or the preceding structural byte in the source
	// was a newline (§4.6). Only meaningful for Contiguous/Quoted tokens.
	StartOfLine bool
}
