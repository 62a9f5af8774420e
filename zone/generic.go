package zone

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/nnnkkk7/go-zonescan/internal/zonescan"
)

// scanGenericRDATA implements the RFC 3597 generic notation "\# <rdlength>
// <hex>..." (§4.8, §6 "File format"). The hex payload may be split across
// multiple CONTIGUOUS tokens (zone files commonly wrap it across several
// lines inside a parenthesized group); it is concatenated before decoding.
func (p *Parser) scanGenericRDATA() ([]byte, error) {
	lenTok, err := p.lex()
	if err != nil {
		return nil, err
	}
	if lenTok.Kind != zonescan.Contiguous {
		return nil, p.raise(zonescan.KindSyntax, "expected RDLENGTH after \\#, got %s", lenTok.Kind)
	}
	rdlen, err := strconv.ParseUint(string(lenTok.Data), 10, 16)
	if err != nil {
		return nil, p.raise(zonescan.KindSyntax, "bad RDLENGTH %q: %v", string(lenTok.Data), err)
	}

	var hexBuf strings.Builder
	for hexBuf.Len() < int(rdlen)*2 {
		tok, err := p.lex()
		if err != nil {
			return nil, err
		}
		if tok.Kind != zonescan.Contiguous {
			if rdlen == 0 {
				break
			}
			return nil, p.raise(zonescan.KindSyntax, "short generic RDATA: expected %d hex octets", rdlen)
		}
		hexBuf.Write(tok.Data)
	}

	bufp := getRDATABuf()
	need := hex.DecodedLen(hexBuf.Len())
	if cap(*bufp) < need {
		*bufp = make([]byte, need)
	} else {
		*bufp = (*bufp)[:need]
	}
	n, err := hex.Decode(*bufp, []byte(hexBuf.String()))
	if err != nil {
		releaseRDATABuf(*bufp)
		return nil, p.raise(zonescan.KindSyntax, "bad generic RDATA hex: %v", err)
	}
	raw := (*bufp)[:n]
	if uint64(len(raw)) != rdlen {
		releaseRDATABuf(raw)
		return nil, p.raise(zonescan.KindSyntax, "generic RDATA length mismatch: RDLENGTH=%d, got %d octets", rdlen, len(raw))
	}
	return raw, nil
}

// pushbackSource adapts Parser to TokenSource for a registered
// RDATAParser, replaying a single already-lexed token (the one scanRDATA
// consumed to check for "\#") before falling through to live lexing.
type pushbackSource struct {
	p       *Parser
	pending *ZoneToken
}

func (s *pushbackSource) NextToken() (ZoneToken, error) {
	if s.pending != nil {
		tok := *s.pending
		s.pending = nil
		return tok, nil
	}
	return s.p.lex()
}

func (s *pushbackSource) Origin() Name { return s.p.active.origin }
