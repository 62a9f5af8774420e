package zone

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/nnnkkk7/go-zonescan/internal/zonescan"
)

// Parser is the public handle §6 describes: "open(options, buffers,
// path_or_string) -> parser". It owns the active file pointer, the
// RDATA-parser registry, the caller's options, and the opaque user-data
// value threaded through Sink/LogWriter calls (§3 "Parser").
type Parser struct {
	active *file

	opts Options

	defaultTTL            uint32
	defaultTTLByDirective bool

	generate func(p *Parser, args []ZoneToken) error

	registry *registry
}

// Open initializes a Parser over path (§6 "path_or_string"). Origin is
// mandatory per §6.
func Open(opts Options, path string) (*Parser, error) {
	p, origin, err := newParser(opts)
	if err != nil {
		return nil, err
	}
	f, err := openFile(path, origin)
	if err != nil {
		return nil, &zonescan.Error{Kind: zonescan.KindIO, Msg: err.Error()}
	}
	p.active = f
	return p, nil
}

// OpenString initializes a Parser over an in-memory zone body, the other
// half of §6's "path_or_string" contract.
func OpenString(opts Options, name string, body string) (*Parser, error) {
	p, origin, err := newParser(opts)
	if err != nil {
		return nil, err
	}
	p.active = openString(name, strings.NewReader(body), origin)
	return p, nil
}

func newParser(opts Options) (*Parser, Name, error) {
	if opts.Origin == "" {
		return nil, Name{}, &zonescan.Error{Kind: zonescan.KindBadParameter, Msg: "Options.Origin is required"}
	}
	origin, err := scanName([]byte(opts.Origin), rootName)
	if err != nil {
		return nil, Name{}, &zonescan.Error{Kind: zonescan.KindBadParameter, Msg: "bad Options.Origin: " + err.Error()}
	}
	p := &Parser{
		opts:       opts,
		defaultTTL: opts.DefaultTTL,
		generate:   opts.Generate,
		registry:   newRegistry(),
	}
	return p, origin, nil
}

// Close releases every resource the Parser owns, including any still-open
// $INCLUDE chain (§5 "Resources").
func (p *Parser) Close() error {
	var firstErr error
	for f := p.active; f != nil; {
		next := f.includer
		if err := f.close(); err != nil && firstErr == nil {
			firstErr = err
		}
		f = next
	}
	p.active = nil
	return firstErr
}

// Parse drives the token loop to completion (§6 "parse(parser, user_data)
// -> result"), calling Options.Accept.Add for every complete record and
// stopping at the first error or at END_OF_FILE of the outermost file.
// A non-nil userData replaces Options.UserData on the Parser; Sink and
// LogWriter calls are not passed it.
func (p *Parser) Parse(userData any) error {
	if userData != nil {
		p.opts.UserData = userData
	}
	for {
		tok, err := p.lex()
		if err != nil {
			return err
		}
		switch tok.Kind {
		case zonescan.EndOfFile:
			return nil
		case zonescan.LineFeed:
			continue // blank line
		}

		if isDirective(tok) {
			if err := p.handleDirective(tok); err != nil {
				return err
			}
			continue
		}

		if err := p.parseRecord(tok); err != nil {
			return err
		}
	}
}

// parseRecord implements C9's record grammar (§4.8): owner (or inherited),
// optional TTL, optional class (either order), mandatory type, then
// RDATA — generic RFC 3597 notation if the first RDATA token is "\#",
// otherwise dispatch to a registered RDATAParser.
func (p *Parser) parseRecord(first ZoneToken) error {
	var owner Name
	var tok ZoneToken
	var err error

	if first.StartOfLine {
		owner, err = p.scanOwner(first)
		if err != nil {
			return err
		}
		tok, err = p.lex()
		if err != nil {
			return err
		}
	} else {
		if !p.active.haveOwner {
			return p.raise(zonescan.KindSemantic, "no preceding owner name to inherit")
		}
		owner = p.active.lastOwner
		tok = first
	}

	class := p.opts.DefaultClass
	if class == 0 {
		class = ClassINET
	}
	ttl := p.defaultTTL
	haveTTL := p.defaultTTLByDirective || p.opts.DefaultTTL != 0
	if !p.defaultTTLByDirective && p.active.haveTTL {
		ttl = p.active.lastTTL
		haveTTL = true
	}

	// ttl_or_type / class_or_ttl: up to two of {TTL, class} may precede the
	// mandatory type, in either order (§4.8 step 2-3; §9 Open Question 2's
	// canonical scanTTL is used uniformly here instead of the source's two
	// divergent call sites).
	for i := 0; i < 2; i++ {
		if t, ok := scanClass(tok); ok {
			class = t
			tok, err = p.lex()
			if err != nil {
				return err
			}
			continue
		}
		if t, ok := p.scanTTL(tok); ok {
			ttl = t
			haveTTL = true
			tok, err = p.lex()
			if err != nil {
				return err
			}
			continue
		}
		break
	}

	if !haveTTL {
		return p.raise(zonescan.KindSemantic, "no TTL available for record (no $TTL, no Options.DefaultTTL, no preceding record)")
	}

	rrtype, ok := scanType(tok)
	if !ok {
		return p.raise(zonescan.KindSemantic, "expected RR type, got %q", string(tok.Data))
	}

	p.active.lastClass = class
	p.active.lastType = rrtype
	p.active.lastTTL = ttl
	p.active.haveTTL = true

	rdata, pooled, err := p.scanRDATA(rrtype)
	if err != nil {
		return err
	}

	rec := Record{Owner: owner, Type: rrtype, Class: class, TTL: ttl, RDLength: uint16(len(rdata)), RData: rdata}
	if p.opts.Accept.Add != nil {
		code := p.opts.Accept.Add(p, rec)
		if pooled {
			releaseRDATABuf(rdata)
		}
		if code < 0 {
			return p.raise(zonescan.KindSemantic, "record sink rejected record with code %d", code)
		}
		return nil
	}
	if pooled {
		releaseRDATABuf(rdata)
	}
	return nil
}

// scanRDATA dispatches on the first RDATA token: RFC 3597 generic
// notation ("\#") is handled in-core (§4.8); anything else is handed to a
// registered RDATAParser, or rejected as NOT_IMPLEMENTED if none was
// registered for rrtype (§1 "per-RR-type RDATA parsers... out of scope").
// pooled reports whether rdata was drawn from rdataBufPool (the generic
// path only) and must be returned via releaseRDATABuf once the caller is
// done with it; a registered RDATAParser's own buffer is never pooled.
func (p *Parser) scanRDATA(rrtype Type) (rdata []byte, pooled bool, err error) {
	tok, err := p.lex()
	if err != nil {
		return nil, false, err
	}

	if tok.Kind == zonescan.Contiguous && string(tok.Data) == `\#` {
		rdata, err = p.scanGenericRDATA()
		return rdata, err == nil, err
	}

	parser, ok := p.registry.parsers[rrtype]
	if !ok {
		return nil, false, p.raise(zonescan.KindUnsupported, "no RDATA parser registered for %s (use RFC 3597 generic notation or RegisterType)", rrtype)
	}
	rdata, err = parser(p, &pushbackSource{p: p, pending: &tok})
	return rdata, false, err
}

// logf invokes Options.Log.Write if category is enabled in
// Options.Log.Categories (§6 "Log callback contract").
func (p *Parser) logf(category LogCategory, format string, args ...any) {
	if p.opts.Log.Write == nil || p.opts.Log.Categories&category == 0 {
		return
	}
	pc, file, line, _ := runtime.Caller(1)
	function := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}
	p.opts.Log.Write(p, file, line, function, category, fmt.Sprintf(format, args...))
}
