package zonescan

import (
	"errors"
	"io"
)

// windowSize is the initial and growth increment for a file window's
// backing buffer (§6 tuning constants).
const windowSize = 16384

// eofState is the tri-state EOF tracker carried per window.
type eofState uint8

const (
	haveData eofState = iota
	readAllData
	noMoreData
)

// window owns a sliding byte buffer over an io.Reader, refilling on demand
// and compacting consumed bytes out of the front (C3).
//
// Offsets handed out by the scanner/materializer are always integer
// offsets into the current window, never raw pointers (§9 "Pointer
// aliasing"): when the window is compacted, refill reports the shift and
// the holder of each offset subtracts it.
type window struct {
	source io.Reader

	data  []byte // backing buffer, always ends with one extra NUL byte (I4)
	index int    // consumer offset: bytes before this have been materialized
	length int   // number of valid bytes in data (excludes the trailing NUL)

	eof eofState

	skipBOM    bool // strip a leading UTF-8 BOM before any byte is scanned
	bomChecked bool
}

// newWindow allocates a window over r with an initial capacity of
// windowSize bytes plus the trailing NUL.
func newWindow(r io.Reader) *window {
	return &window{
		source: r,
		data:   make([]byte, windowSize+1),
	}
}

// NewWindow is the exported entry point package zone (C7/C9) uses to open
// a window over an arbitrary io.Reader without needing to name the
// unexported window type itself; Go's type inference lets the result flow
// straight into NewLexer.
func NewWindow(r io.Reader) *window {
	return newWindow(r)
}

// NewWindowSkipBOM is NewWindow, but strips a leading UTF-8 byte order mark
// (EF BB BF) before the first byte is ever scanned, grounded in the
// teacher's skipUTF8BOM: zone files produced by Windows-authored tooling
// occasionally carry one, and a BOM is not valid zone-file syntax at any
// of C1-C6's decision points.
func NewWindowSkipBOM(r io.Reader) *window {
	w := newWindow(r)
	w.skipBOM = true
	return w
}

// byteAt returns the byte at absolute window offset i, which may be the
// trailing NUL sentinel if i == w.length.
func (w *window) byteAt(i int) byte {
	return w.data[i]
}

// refill reads more data into the window, growing the backing buffer if
// it is already full, and returns how many bytes were shifted out of the
// front by compaction. Any absolute offset a caller is tracking into
// w.data (the lexer's scan cursor, a pending token's start) must be
// reduced by this amount after the call. Returns io.EOF only once the
// underlying stream is fully drained and no new bytes were produced.
func (w *window) refill() (shift int, err error) {
	if w.eof == noMoreData {
		return 0, io.EOF
	}

	shift = w.compact()

	if w.length+1 >= len(w.data) {
		w.grow()
	}

	n, rerr := w.source.Read(w.data[w.length:len(w.data)-1])
	if n > 0 {
		w.length += n
	}
	w.data[w.length] = 0 // re-terminate (I4)

	if rerr != nil {
		if errors.Is(rerr, io.EOF) {
			w.eof = noMoreData
			if n == 0 {
				return shift, io.EOF
			}
			return shift, nil
		}
		return shift, rerr
	}

	if n == 0 {
		w.eof = readAllData
	}

	w.maybeSkipBOM()

	return shift, nil
}

// maybeSkipBOM strips a leading EF BB BF if skipBOM was requested. It only
// ever fires once, and only while index is still 0 (nothing has been
// consumed out of the window yet), so it can splice the three bytes out of
// the buffer directly instead of going through consume/compact.
func (w *window) maybeSkipBOM() {
	if !w.skipBOM || w.bomChecked || w.index != 0 || w.length < 3 {
		return
	}
	w.bomChecked = true
	if w.data[0] == 0xEF && w.data[1] == 0xBB && w.data[2] == 0xBF {
		copy(w.data, w.data[3:w.length+1]) // +1 carries the trailing NUL along
		w.length -= 3
	}
}

// consume marks the first n unconsumed bytes as fully materialized into
// tokens, letting a later compact() discard them.
func (w *window) consume(n int) {
	w.index += n
}

// grow extends the window's capacity by windowSize bytes.
func (w *window) grow() {
	next := make([]byte, len(w.data)+windowSize)
	copy(next, w.data)
	w.data = next
}

// compact shifts unconsumed bytes [index, length) down to offset 0,
// discarding bytes the materializer has already emitted tokens for, and
// returns how far they moved. The caller is responsible for reducing any
// offsets it holds into the window by that shift afterwards (the Lexer does
// this for its cursor and every tape entry via Lexer.rebase, so compaction
// never needs to chase raw pointers the way the source implementation's
// tape did).
func (w *window) compact() (shift int) {
	if w.index == 0 {
		return 0
	}
	shift = w.index
	n := copy(w.data, w.data[w.index:w.length])
	w.length = n
	w.index = 0
	return shift
}

// atEOF reports whether the underlying stream has been fully drained into
// the window (there may still be unconsumed bytes).
func (w *window) atEOF() bool {
	return w.eof == noMoreData
}
