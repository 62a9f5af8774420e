package zone

import "strconv"

// Type is a DNS resource record type (§6 "Dispatch on the type
// descriptor's RDATA parser").
type Type uint16

// The common RR types a zone file exercises. Per §1 "Out of scope", the
// RDATA parsers themselves are external collaborators; these constants
// only let the parser glue recognize a type mnemonic and look up its
// descriptor (if any was registered via RegisterType).
const (
	TypeA          Type = 1
	TypeNS         Type = 2
	TypeCNAME      Type = 5
	TypeSOA        Type = 6
	TypePTR        Type = 12
	TypeHINFO      Type = 13
	TypeMX         Type = 15
	TypeTXT        Type = 16
	TypeRP         Type = 17
	TypeAFSDB      Type = 18
	TypeSIG        Type = 24
	TypeKEY        Type = 25
	TypeAAAA       Type = 28
	TypeLOC        Type = 29
	TypeSRV        Type = 33
	TypeNAPTR      Type = 35
	TypeCERT       Type = 37
	TypeDNAME      Type = 39
	TypeOPT        Type = 41
	TypeDS         Type = 43
	TypeSSHFP      Type = 44
	TypeRRSIG      Type = 46
	TypeNSEC       Type = 47
	TypeDNSKEY     Type = 48
	TypeNSEC3      Type = 50
	TypeNSEC3PARAM Type = 51
	TypeTLSA       Type = 52
	TypeSMIMEA     Type = 53
	TypeCDS        Type = 59
	TypeCDNSKEY    Type = 60
	TypeOPENPGPKEY Type = 61
	TypeCSYNC      Type = 62
	TypeSVCB       Type = 64
	TypeHTTPS      Type = 65
	TypeCAA        Type = 257
)

// stringToType is populated by an init-time table so the parser glue can
// recognize a type mnemonic token (e.g. "AAAA") in O(1) without touching
// the RDATA-parser registry, which is keyed the other direction.
var stringToType = map[string]Type{
	"A": TypeA, "NS": TypeNS, "CNAME": TypeCNAME, "SOA": TypeSOA,
	"PTR": TypePTR, "HINFO": TypeHINFO, "MX": TypeMX, "TXT": TypeTXT,
	"RP": TypeRP, "AFSDB": TypeAFSDB, "SIG": TypeSIG, "KEY": TypeKEY,
	"AAAA": TypeAAAA, "LOC": TypeLOC, "SRV": TypeSRV, "NAPTR": TypeNAPTR,
	"CERT": TypeCERT, "DNAME": TypeDNAME, "OPT": TypeOPT, "DS": TypeDS,
	"SSHFP": TypeSSHFP, "RRSIG": TypeRRSIG, "NSEC": TypeNSEC,
	"DNSKEY": TypeDNSKEY, "NSEC3": TypeNSEC3, "NSEC3PARAM": TypeNSEC3PARAM,
	"TLSA": TypeTLSA, "SMIMEA": TypeSMIMEA, "CDS": TypeCDS,
	"CDNSKEY": TypeCDNSKEY, "OPENPGPKEY": TypeOPENPGPKEY, "CSYNC": TypeCSYNC,
	"SVCB": TypeSVCB, "HTTPS": TypeHTTPS, "CAA": TypeCAA,
}

var stringToClass = map[string]Class{
	"IN": ClassINET, "CS": ClassCSNET, "CH": ClassCHAOS, "HS": ClassHESIOD,
}

// String renders t as its mnemonic if known, else the RFC 3597 "TYPEnnn"
// generic form.
func (t Type) String() string {
	for name, v := range stringToType {
		if v == t {
			return name
		}
	}
	return "TYPE" + strconv.Itoa(int(t))
}

// RDATAParser is the external collaborator §1 excludes from this core: a
// per-type textual-RDATA-to-wire-format encoder. The parser glue only
// calls one when a caller has registered it; every type can otherwise
// still be ingested via RFC 3597 generic notation (§4.8 "unless the first
// RDATA token is \# ").
type RDATAParser func(p *Parser, tokens TokenSource) ([]byte, error)

// TokenSource is the minimal view of the parser glue an RDATAParser needs:
// pull further CONTIGUOUS/QUOTED tokens (and the current origin, for
// relative-name fields) without reaching into Parser internals.
type TokenSource interface {
	NextToken() (ZoneToken, error)
	Origin() Name
}

// registry maps a registered Type to its external RDATA parser (C9
// "Dispatch on the type descriptor's RDATA parser"). Empty by default: with
// no descriptor registered, a type can still be accepted in RFC 3597
// generic form but not in its native textual form.
type registry struct {
	parsers map[Type]RDATAParser
}

func newRegistry() *registry {
	return &registry{parsers: make(map[Type]RDATAParser)}
}

// RegisterType installs the external RDATA parser used whenever a record
// of type t appears in its native (non-generic) textual form. This is the
// hook point §1 calls out as "per-RR-type RDATA parsers... interfaces
// only" — the zone package ships none itself.
func (p *Parser) RegisterType(t Type, parser RDATAParser) {
	p.registry.parsers[t] = parser
}
