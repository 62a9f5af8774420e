package zone

import (
	"fmt"
	"strconv"

	"github.com/nnnkkk7/go-zonescan/internal/zonescan"
)

// ZoneToken is the C9-level view of a zonescan.Token: the same Kind/Data/
// Line triple, copied out of the window buffer so it survives past the
// next lex() call (§9 "Pointer aliasing" applies one level up here too —
// ZoneToken.Data is always an owned copy, never a window slice).
type ZoneToken struct {
	Kind zonescan.TokenKind
	Data []byte
	Line int
	// StartOfLine is true iff this token is the first non-LINE_FEED token
	// of a new record: it begins its line with no leading blank, and either
	// the preceding structural byte was a newline or this is the first
	// token of the file (§4.6 "start_of_line is sticky").
	StartOfLine bool
}

func (t ZoneToken) String() string { return string(t.Data) }

// lex pulls the next token from the active file's Lexer, translating
// zonescan.Error into a zone.Error stamped with the file's human name
// (C8's "errors carry source file and line"), and tracking start-of-line
// continuation (§4.6) and the include-stack pop on EOF (C7).
func (p *Parser) lex() (ZoneToken, error) {
	for {
		tok, err := p.active.lexer.Next()
		if err != nil {
			if zerr, ok := err.(*zonescan.Error); ok {
				zerr.File = p.active.name
				return ZoneToken{}, zerr
			}
			return ZoneToken{}, err
		}

		p.active.line = int(tok.Line)

		if tok.Kind == zonescan.EndOfFile {
			if p.active.includer != nil {
				if err := p.popInclude(); err != nil {
					return ZoneToken{}, err
				}
				continue // resume lexing from the includer
			}
			return ZoneToken{Kind: zonescan.EndOfFile, Line: p.active.line}, nil
		}

		out := ZoneToken{Kind: tok.Kind, Line: int(tok.Line), StartOfLine: tok.StartOfLine}
		if tok.Data != nil {
			data := make([]byte, len(tok.Data))
			copy(data, tok.Data)
			out.Data = data
		}
		return out, nil
	}
}

// NextToken implements TokenSource for registered RDATAParsers (§4.8).
func (p *Parser) NextToken() (ZoneToken, error) { return p.lex() }

// Origin implements TokenSource.
func (p *Parser) Origin() Name { return p.active.origin }

// haveString reports whether tok is a QUOTED token, the C9 "have_string"
// predicate RDATA parsers use to decide whether a field permits embedded
// whitespace and comment characters.
func haveString(tok ZoneToken) bool { return tok.Kind == zonescan.Quoted }

// scanOwner consumes one owner-name token and returns its wire form,
// remembering it on p.active so a following record that omits its owner
// (§4.8 step 1 "otherwise inherit the last owner") can reuse it.
func (p *Parser) scanOwner(tok ZoneToken) (Name, error) {
	if tok.Kind != zonescan.Contiguous {
		return Name{}, p.raise(zonescan.KindSyntax, "expected owner name, got %s", tok.Kind)
	}
	name, err := scanName(tok.Data, p.active.origin)
	if err != nil {
		return Name{}, p.raise(zonescan.KindSyntax, "bad owner name: %v", err)
	}
	p.active.lastOwner = name
	p.active.haveOwner = true
	return name, nil
}

// scanClass recognizes tok as a class mnemonic, returning ok=false if it
// isn't one (so the caller can try scanType or scanTTL next — §4.8
// "class/type may precede each other").
func scanClass(tok ZoneToken) (Class, bool) {
	if tok.Kind != zonescan.Contiguous {
		return 0, false
	}
	c, ok := stringToClass[upper(string(tok.Data))]
	return c, ok
}

// scanType recognizes tok as an RR type mnemonic or an RFC 3597 generic
// "TYPEnnn" form.
func scanType(tok ZoneToken) (Type, bool) {
	if tok.Kind != zonescan.Contiguous {
		return 0, false
	}
	s := upper(string(tok.Data))
	if t, ok := stringToType[s]; ok {
		return t, true
	}
	if len(s) > 4 && s[:4] == "TYPE" {
		if n, err := strconv.ParseUint(s[4:], 10, 16); err == nil {
			return Type(n), true
		}
	}
	return 0, false
}

// scanTTL is the canonical signature §9 Open Question 2 calls for
// ("scan_ttl's mismatched argument list... the rewrite should define the
// canonical signature and use it uniformly"): it takes the already-lexed
// token and the parser (for the FriendlyTTLs option) and returns the
// decoded value.
func (p *Parser) scanTTL(tok ZoneToken) (uint32, bool) {
	if tok.Kind != zonescan.Contiguous {
		return 0, false
	}
	s := string(tok.Data)
	if isAllDigits(s) {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint32(n), true
	}
	if p.opts.FriendlyTTLs {
		return friendlyTTL(s)
	}
	return 0, false
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// friendlyTTL parses "1h2m3s"-style durations into seconds, grounded in
// the w/d/h/m/s accumulator other zone-file parsers in the pack use for
// the same $TTL/ttl-field syntax.
func friendlyTTL(token string) (uint32, bool) {
	var total, cur uint64
	sawDigit := false
	for i := 0; i < len(token); i++ {
		c := token[i]
		switch {
		case c >= '0' && c <= '9':
			cur = cur*10 + uint64(c-'0')
			sawDigit = true
		case c == 's' || c == 'S':
			total += cur
			cur = 0
		case c == 'm' || c == 'M':
			total += cur * 60
			cur = 0
		case c == 'h' || c == 'H':
			total += cur * 60 * 60
			cur = 0
		case c == 'd' || c == 'D':
			total += cur * 60 * 60 * 24
			cur = 0
		case c == 'w' || c == 'W':
			total += cur * 60 * 60 * 24 * 7
			cur = 0
		default:
			return 0, false
		}
	}
	if !sawDigit {
		return 0, false
	}
	total += cur
	if total > 0xFFFFFFFF {
		return 0, false
	}
	return uint32(total), true
}

func upper(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] >= 'a' && b[i] <= 'z' {
			b[i] -= 'a' - 'A'
		}
	}
	return string(b)
}

// raise constructs a zone.Error stamped with the active file's name and
// current line (C8).
func (p *Parser) raise(kind zonescan.Kind, format string, args ...any) error {
	line := 1
	if p.active != nil {
		line = p.active.line
	}
	name := ""
	if p.active != nil {
		name = p.active.name
	}
	return &zonescan.Error{Kind: kind, File: name, Line: line, Msg: fmt.Sprintf(format, args...)}
}
