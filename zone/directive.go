package zone

import (
	"path/filepath"

	"github.com/nnnkkk7/go-zonescan/internal/zonescan"
)

// directive table lengths, looked up uniformly (§9 Open Question 1: the
// source checks "$ORIGIN" against two different literal lengths, 7 and 8
// — plausibly a copy-paste bug meant for "$INCLUDE" (8 bytes). This table
// is the single canonical source of each directive's length, used
// everywhere a directive is recognized).
var directiveNames = map[string]bool{
	"$ORIGIN":   true,
	"$TTL":      true,
	"$INCLUDE":  true,
	"$GENERATE": true,
}

// isDirective reports whether tok looks like a zone-file control entry: a
// CONTIGUOUS token starting a line whose first byte is '$'.
func isDirective(tok ZoneToken) bool {
	return tok.Kind == zonescan.Contiguous && tok.StartOfLine && len(tok.Data) > 0 && tok.Data[0] == '$'
}

// handleDirective dispatches a recognized directive token and consumes
// whatever trailing tokens it owns, up to and including the terminating
// LINE_FEED (so the caller's main record loop never sees directive
// arguments as a malformed record).
func (p *Parser) handleDirective(tok ZoneToken) error {
	name := upper(string(tok.Data))
	if !directiveNames[name] {
		return p.raise(zonescan.KindUnsupported, "unknown directive %q", string(tok.Data))
	}

	switch name {
	case "$ORIGIN":
		return p.directiveOrigin()
	case "$TTL":
		return p.directiveTTL()
	case "$INCLUDE":
		return p.directiveInclude()
	case "$GENERATE":
		return p.directiveGenerate()
	}
	return nil // unreachable: directiveNames and this switch are kept in lockstep
}

// directiveOrigin implements $ORIGIN <domain-name>.
func (p *Parser) directiveOrigin() error {
	tok, err := p.lex()
	if err != nil {
		return err
	}
	if tok.Kind != zonescan.Contiguous {
		return p.raise(zonescan.KindSyntax, "expecting $ORIGIN value, got %s", tok.Kind)
	}
	name, err := scanName(tok.Data, p.active.origin)
	if err != nil {
		return p.raise(zonescan.KindSyntax, "bad $ORIGIN value: %v", err)
	}
	p.active.origin = name
	return p.expectEndOfDirective("$ORIGIN")
}

// directiveTTL implements $TTL <ttl>, setting the parser-wide default TTL
// used by records that omit one (§6 Options.DefaultTTL, but settable
// mid-zone).
func (p *Parser) directiveTTL() error {
	tok, err := p.lex()
	if err != nil {
		return err
	}
	ttl, ok := p.scanTTL(tok)
	if !ok {
		return p.raise(zonescan.KindSyntax, "expecting $TTL value, got %q", string(tok.Data))
	}
	p.defaultTTL = ttl
	p.defaultTTLByDirective = true
	return p.expectEndOfDirective("$TTL")
}

// directiveInclude implements $INCLUDE <path> [<origin>], pushing a new
// active file (C7).
func (p *Parser) directiveInclude() error {
	pathTok, err := p.lex()
	if err != nil {
		return err
	}
	if pathTok.Kind != zonescan.Contiguous && pathTok.Kind != zonescan.Quoted {
		return p.raise(zonescan.KindSyntax, "expecting $INCLUDE path, got %s", pathTok.Kind)
	}
	path := string(pathTok.Data)
	if !filepath.IsAbs(path) {
		path = filepath.Join(filepath.Dir(p.active.path), path)
	}

	includeOrigin := p.active.origin

	next, err := p.lex()
	if err != nil {
		return err
	}
	switch next.Kind {
	case zonescan.LineFeed, zonescan.EndOfFile:
		return p.pushInclude(path, includeOrigin)
	case zonescan.Contiguous:
		o, err := scanName(next.Data, p.active.origin)
		if err != nil {
			return p.raise(zonescan.KindSyntax, "bad $INCLUDE origin: %v", err)
		}
		includeOrigin = o
		if err := p.pushInclude(path, includeOrigin); err != nil {
			return err
		}
		return p.expectEndOfDirective("$INCLUDE")
	default:
		return p.raise(zonescan.KindSyntax, "garbage after $INCLUDE")
	}
}

// directiveGenerate recognizes $GENERATE, collects its trailing tokens up
// to end of line, and either hands them to Options.Generate or discards
// them (SPEC_FULL.md "supplemented features").
func (p *Parser) directiveGenerate() error {
	var args []ZoneToken
	for {
		tok, err := p.lex()
		if err != nil {
			return err
		}
		if tok.Kind == zonescan.LineFeed || tok.Kind == zonescan.EndOfFile {
			break
		}
		args = append(args, tok)
	}
	if p.generate != nil {
		return p.generate(p, args)
	}
	p.logf(LogInfo, "skipped $GENERATE directive (no handler registered)")
	return nil
}

// expectEndOfDirective consumes the next token, which must be the
// LINE_FEED/END_OF_FILE ending the directive, raising a syntax error if it
// is anything else — i.e. "garbage after $DIRECTIVE".
func (p *Parser) expectEndOfDirective(name string) error {
	tok, err := p.lex()
	if err != nil {
		return err
	}
	switch tok.Kind {
	case zonescan.LineFeed, zonescan.EndOfFile:
		return nil
	default:
		return p.raise(zonescan.KindSyntax, "garbage after %s", name)
	}
}
