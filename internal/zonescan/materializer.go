package zonescan

// =============================================================================
// Token materializer (C6)
// =============================================================================
//
// Lexer is the streaming driver: it keeps scanning 64-byte blocks into the
// tape until it has enough entries to either emit a Token or prove it
// needs more input, requests a refill when it runs dry, and rebases its
// own bookkeeping whenever that refill compacts the window. This mirrors
// the teacher's split between scanBuffer/parseBuffer and the top-level
// ParseBytesStreaming driver loop (parse.go), generalized from "whole
// buffer at once" to "as much as is currently resident".

// Lexer drives scanBlock over a window and yields Tokens one at a time.
type Lexer struct {
	w     *window
	state indexerState
	tp    *tape

	cursor int // absolute offset into w.data scanned up to so far
	block  [64]byte

	grouped bool // inside a '(' ... ')' continuation (I5)
	line    uint32
	atEOF   bool // true once the final (possibly zero-padded) block has been scanned

	// nextStartsLine carries the start-of-line decision made when the
	// most recent LINE_FEED was materialized (§4.6) forward to whatever
	// token comes after it. Before the first tape entry is drained it is
	// decided the same way from the input's first byte (see begun).
	nextStartsLine bool
	begun          bool // the first byte of the input has been classified
}

// NewLexer creates a Lexer reading from w.
func NewLexer(w *window) *Lexer {
	return &Lexer{w: w, tp: newTape(), line: 1, nextStartsLine: true}
}

// Next returns the next Token, refilling the window as needed. It returns
// io.EOF-shaped behavior via a final Token{Kind: EndOfFile}; callers
// should stop calling Next once they observe that token.
func (lx *Lexer) Next() (Token, error) {
	for {
		if tok, ok, err := lx.drainOne(); err != nil {
			return Token{}, err
		} else if ok {
			return tok, nil
		}

		if err := lx.fill(); err != nil {
			return Token{}, err
		}
	}
}

// fill scans as many full blocks as are currently buffered, appends their
// structural entries to the tape, and — once the window is known to be at
// true EOF — scans the final zero-padded partial block. It requests a
// window refill itself when there isn't a full block available yet and
// the stream isn't known to be exhausted.
func (lx *Lexer) fill() error {
	for {
		avail := lx.w.length - lx.cursor
		switch {
		case avail >= 64:
			copy(lx.block[:], lx.w.data[lx.cursor:lx.cursor+64])
			m := scanBlock(&lx.block, &lx.state)
			lx.appendEntries(lx.cursor, m, &lx.block, 64)
			lx.cursor += 64
			return nil

		case lx.w.atEOF():
			var tail [64]byte
			copy(tail[:avail], lx.w.data[lx.cursor:lx.cursor+avail])
			m := scanBlock(&tail, &lx.state)
			lx.appendEntries(lx.cursor, m, &tail, avail)
			lx.cursor += avail
			lx.atEOF = true
			return nil

		default:
			shift, err := lx.w.refill()
			lx.rebase(shift)
			if err != nil && lx.w.atEOF() {
				// try once more now that eof is recorded; the loop will
				// take the lx.w.atEOF() branch above.
				continue
			}
			if err != nil {
				return err
			}
		}
	}
}

// appendEntries classifies every set bit of m.bits below validLen (bits at
// or beyond validLen belong to the tail block's zero padding and must be
// discarded, §4.5) and appends a tapeEntry for each, tagged with what kind
// of boundary it is.
func (lx *Lexer) appendEntries(base int, m blockMasks, data *[64]byte, validLen int) {
	bits := m.bits
	if validLen < 64 {
		bits &= maskUpTo(validLen - 1)
	}
	for bits != 0 {
		p := trailingZeroes(bits)
		bits = clearLowestBit(bits)

		bit := uint64(1) << uint(p)
		var kind startKind
		switch {
		case m.quoted&m.inQuoted&bit != 0:
			kind = startQuoteOpen
		case data[p] == '"':
			kind = startQuoteClose
		case data[p] == '\n':
			kind = startLineFeed
		case data[p] == '(':
			kind = startGroupOpen
		case data[p] == ')':
			kind = startGroupClose
		default:
			kind = startContiguous
		}
		lx.tp.append(base+p, kind)
	}
}

// rebase adjusts the lexer's own absolute bookkeeping after a window
// compaction shifted everything left by delta.
func (lx *Lexer) rebase(delta int) {
	if delta == 0 {
		return
	}
	lx.cursor -= delta
	lx.tp.rebase(delta)
}

// drainOne attempts to materialize the next Token from the tape without
// touching the window. ok is false when the tape doesn't yet hold enough
// entries to decide (e.g. a contiguous run or an open quote whose end
// hasn't been scanned yet), in which case the caller should fill and
// retry.
func (lx *Lexer) drainOne() (Token, bool, error) {
	entry, has := lx.tp.peek()
	if !has {
		if lx.atEOF && lx.cursor >= lx.w.length {
			if lx.grouped {
				return Token{}, false, newError(KindSyntax, "", int(lx.line), "unterminated group: missing ')'")
			}
			return Token{Kind: EndOfFile, Line: lx.line}, true, nil
		}
		return Token{}, false, nil
	}

	if !lx.begun {
		// Nothing has been consumed yet, so offset 0 is still the input's
		// first byte: the file start counts as a line start only when that
		// byte is not blank, just as after a newline.
		lx.begun = true
		lx.nextStartsLine = classify(lx.w.byteAt(0)) != classBlank
	}

	switch entry.kind {
	case startLineFeed:
		// §4.6: "set start_of_line based on classify[next byte]". The byte
		// right after the newline is classified directly rather than
		// waiting for the next tape entry, which may be several blank bytes
		// further along. Until the stream is exhausted that byte must be
		// resident first; at EOF it may be the trailing NUL sentinel (§I4).
		if entry.offset+1 >= lx.w.length && !lx.atEOF {
			return Token{}, false, nil
		}
		lx.nextStartsLine = classify(lx.w.byteAt(entry.offset+1)) != classBlank

		lx.tp.advance(1)
		lx.consumeThrough(entry.offset + 1)
		line := lx.line
		lx.line++
		if lx.grouped {
			return Token{}, false, nil
		}
		return Token{Kind: LineFeed, Line: line}, true, nil

	case startGroupOpen:
		if lx.grouped {
			return Token{}, false, newError(KindSyntax, "", int(lx.line), "nested '(' is not allowed")
		}
		lx.grouped = true
		lx.tp.advance(1)
		lx.consumeThrough(entry.offset + 1)
		return Token{}, false, nil

	case startGroupClose:
		if !lx.grouped {
			return Token{}, false, newError(KindSyntax, "", int(lx.line), "unexpected ')'")
		}
		lx.grouped = false
		lx.tp.advance(1)
		lx.consumeThrough(entry.offset + 1)
		return Token{}, false, nil

	case startQuoteOpen:
		closer, has := lx.tp.peekAt(1)
		if !has {
			if lx.atEOF {
				return Token{}, false, newError(KindSyntax, "", int(lx.line), "unterminated quoted string")
			}
			return Token{}, false, nil // need more input to find the closing quote
		}
		start := entry.offset + 1
		end := closer.offset
		data := lx.w.data[start:end]
		lines := countBytes(data, '\n')
		tok := Token{Kind: Quoted, Data: data, Line: lx.line, Quoted: lines > 0, StartOfLine: lx.nextStartsLine}
		lx.nextStartsLine = false
		lx.line += uint32(lines)
		lx.tp.advance(2)
		lx.consumeThrough(closer.offset + 1)
		return tok, true, nil

	case startQuoteClose:
		// Only reachable if a close appears without a matching open on the
		// tape, which scanBlock's region tracking should never produce.
		return Token{}, false, newError(KindSyntax, "", int(lx.line), "unmatched '\"'")

	default: // startContiguous
		// The next tape entry does NOT bound this run: blanks and
		// comment interiors never get their own entries (§4.4 "bits
		// records only run starts"), so a run followed by either would
		// otherwise swallow them. Scan the resident bytes directly
		// instead; the run's true end is the byte right before the
		// first unescaped blank or special byte.
		end, definitive := lx.scanContiguousEnd(entry.offset)
		if !definitive {
			return Token{}, false, nil // run might continue past what's scanned so far
		}
		data := lx.w.data[entry.offset:end]
		tok := Token{Kind: Contiguous, Data: data, Line: lx.line, StartOfLine: lx.nextStartsLine}
		lx.nextStartsLine = false
		lx.tp.advance(1)
		lx.consumeThrough(end)
		return tok, true, nil
	}
}

// scanContiguousEnd finds the end (exclusive) of the CONTIGUOUS run
// starting at the already-verified start offset, by scanning resident
// bytes directly rather than trusting the tape's next entry. A run ends
// at the first unescaped blank or special byte; backslash escapes exactly
// the byte that follows it, matching findEscaped's block-level semantics,
// so an escaped delimiter (e.g. `a\;b`) never splits the run. definitive
// is false when the scan runs off the resident window without finding an
// end and the stream isn't known to be exhausted yet, in which case the
// caller must fill more input and retry.
func (lx *Lexer) scanContiguousEnd(start int) (end int, definitive bool) {
	i := start
	for i < lx.w.length {
		b := lx.w.data[i]
		if b == '\\' {
			if i+1 >= lx.w.length {
				break // ambiguous: the escaped byte may not be resident yet
			}
			i += 2
			continue
		}
		switch classify(b) {
		case classBlank, classLineFeed, classQuote, classParenOpen, classParenClose, classSemicolon:
			return i, true
		}
		i++
	}
	if lx.atEOF {
		return lx.w.length, true
	}
	return i, false
}

// consumeThrough tells the window that bytes up to (exclusive) the given
// absolute offset are fully materialized and may be discarded on the next
// compaction. It also opportunistically compacts the tape itself.
func (lx *Lexer) consumeThrough(offset int) {
	if offset > lx.w.index {
		lx.w.consume(offset - lx.w.index)
	}
	lx.tp.compact()
}

func countBytes(data []byte, b byte) int {
	n := 0
	for _, c := range data {
		if c == b {
			n++
		}
	}
	return n
}
