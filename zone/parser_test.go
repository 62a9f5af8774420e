package zone

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// parseTestA is the RDATA parser these tests register for TypeA: the zone
// package ships no per-type RDATA parsers itself, so a record in native A
// form parses only once one is registered.
func parseTestA(p *Parser, tokens TokenSource) ([]byte, error) {
	tok, err := tokens.NextToken()
	if err != nil {
		return nil, err
	}
	ip := net.ParseIP(string(tok.Data)).To4()
	if ip == nil {
		return nil, p.raise(KindSyntax, "bad IPv4 address %q", string(tok.Data))
	}
	return ip, nil
}

// captureSink accumulates every accepted Record for assertions, mirroring
// how a caller's Options.Accept.Add would build up a zone in memory. It
// copies RData out, per Record.RData's documented contract that it is
// "only valid for the duration of the Sink call" (§5 "Resources") — the
// generic-notation path now backs RData with a pooled buffer the parser
// recycles as soon as this call returns.
func captureSink(out *[]Record) Sink {
	return func(p *Parser, rec Record) int32 {
		if rec.RData != nil {
			cp := make([]byte, len(rec.RData))
			copy(cp, rec.RData)
			rec.RData = cp
		}
		*out = append(*out, rec)
		return 0
	}
}

func mustOpen(t *testing.T, body string, configure func(*Options)) *Parser {
	t.Helper()
	opts := Options{Origin: "example.com.", DefaultTTL: 3600}
	if configure != nil {
		configure(&opts)
	}
	p, err := OpenString(opts, "test.zone", body)
	require.NoError(t, err)
	p.RegisterType(TypeA, parseTestA)
	return p
}

func TestParseSimpleRecord(t *testing.T) {
	var recs []Record
	p := mustOpen(t, "www IN A 192.0.2.1\n", func(o *Options) {
		o.Accept.Add = captureSink(&recs)
	})
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())

	require.Len(t, recs, 1)
	require.Equal(t, TypeA, recs[0].Type)
	require.Equal(t, ClassINET, recs[0].Class)
	require.EqualValues(t, 3600, recs[0].TTL)

	wantOwner, err := scanName([]byte("www.example.com."), rootName)
	require.NoError(t, err)
	require.Equal(t, wantOwner.Octets, recs[0].Owner.Octets)
}

func TestParseOwnerInheritedWhenOmitted(t *testing.T) {
	var recs []Record
	p := mustOpen(t, "www IN A 192.0.2.1\n    IN A 192.0.2.2\n", func(o *Options) {
		o.Accept.Add = captureSink(&recs)
	})
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())

	require.Len(t, recs, 2)
	require.Equal(t, recs[0].Owner.Octets, recs[1].Owner.Octets)
}

func TestParseOwnerOmittedWithNothingToInheritIsSemanticError(t *testing.T) {
	p := mustOpen(t, "    IN A 192.0.2.1\n", nil)
	err := p.Parse(nil)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindSemantic, zerr.Kind)
}

func TestParseClassAndTTLEitherOrder(t *testing.T) {
	var recs []Record
	p := mustOpen(t, "a 60 IN A 1.2.3.4\nb IN 60 A 1.2.3.5\n", func(o *Options) {
		o.Accept.Add = captureSink(&recs)
	})
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())

	require.Len(t, recs, 2)
	require.EqualValues(t, 60, recs[0].TTL)
	require.Equal(t, ClassINET, recs[0].Class)
	require.EqualValues(t, 60, recs[1].TTL)
	require.Equal(t, ClassINET, recs[1].Class)
}

func TestParseNoTTLAvailableIsSemanticError(t *testing.T) {
	opts := Options{Origin: "example.com."}
	p, err := OpenString(opts, "test.zone", "a IN A 1.2.3.4\n")
	require.NoError(t, err)
	err = p.Parse(nil)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindSemantic, zerr.Kind)
}

func TestParseTTLDirectiveSetsDefault(t *testing.T) {
	var recs []Record
	opts := Options{Origin: "example.com."}
	p, err := OpenString(opts, "test.zone", "$TTL 7200\na IN A 1.2.3.4\n")
	require.NoError(t, err)
	p.RegisterType(TypeA, parseTestA)
	p.opts.Accept.Add = captureSink(&recs)
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())

	require.Len(t, recs, 1)
	require.EqualValues(t, 7200, recs[0].TTL)
}

func TestParseOriginDirectiveChangesRelativeNames(t *testing.T) {
	var recs []Record
	p := mustOpen(t, "$ORIGIN sub.example.com.\nwww IN A 1.2.3.4\n", func(o *Options) {
		o.Accept.Add = captureSink(&recs)
	})
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())

	want, err := scanName([]byte("www.sub.example.com."), rootName)
	require.NoError(t, err)
	require.Equal(t, want.Octets, recs[0].Owner.Octets)
}

func TestParseQuotedRDATAWithEmbeddedSemicolon(t *testing.T) {
	p := mustOpen(t, `a IN TXT "hello ; not a comment"`+"\n", nil)
	p.RegisterType(TypeTXT, func(p *Parser, tokens TokenSource) ([]byte, error) {
		tok, err := tokens.NextToken()
		if err != nil {
			return nil, err
		}
		require.True(t, haveString(tok))
		return append([]byte{byte(len(tok.Data))}, tok.Data...), nil
	})
	var recs []Record
	p.opts.Accept.Add = captureSink(&recs)
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())

	require.Len(t, recs, 1)
	require.Equal(t, "hello ; not a comment", string(recs[0].RData[1:]))
}

func TestParseCommentIsIgnored(t *testing.T) {
	var recs []Record
	p := mustOpen(t, "a IN A 1.2.3.4 ; trailing remark\nb IN A 1.2.3.5\n", func(o *Options) {
		o.Accept.Add = captureSink(&recs)
	})
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())
	require.Len(t, recs, 2)
}

func TestParseParenthesizedGroupSpansLines(t *testing.T) {
	var recs []Record
	p := mustOpen(t, "a IN A (\n  1.2.3.4\n)\n", func(o *Options) {
		o.Accept.Add = captureSink(&recs)
	})
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())
	require.Len(t, recs, 1)
	require.Equal(t, TypeA, recs[0].Type)
}

func TestParseGenericRDATANotation(t *testing.T) {
	var recs []Record
	p := mustOpen(t, `a IN TYPE999 \# 3 414243`+"\n", func(o *Options) {
		o.Accept.Add = captureSink(&recs)
	})
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())

	require.Len(t, recs, 1)
	require.Equal(t, Type(999), recs[0].Type)
	require.Equal(t, []byte("ABC"), recs[0].RData)
}

func TestParseGenericRDATALengthMismatchIsSyntaxError(t *testing.T) {
	p := mustOpen(t, `a IN TYPE999 \# 4 414243`+"\n", nil)
	err := p.Parse(nil)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindSyntax, zerr.Kind)
}

func TestParseUnsupportedTypeWithoutRegisteredParserIsUnsupported(t *testing.T) {
	p := mustOpen(t, "a IN A 1.2.3.4\nb IN MX 10 mail.example.com.\n", nil)
	err := p.Parse(nil)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindUnsupported, zerr.Kind)
	require.EqualValues(t, -1536, zerr.Code())
}

func TestParseFriendlyTTLSyntax(t *testing.T) {
	var recs []Record
	p := mustOpen(t, "a 1h30m IN A 1.2.3.4\n", func(o *Options) {
		o.FriendlyTTLs = true
		o.Accept.Add = captureSink(&recs)
	})
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())
	require.Len(t, recs, 1)
	require.EqualValues(t, 5400, recs[0].TTL)
}

func TestParseMissingOriginIsBadParameter(t *testing.T) {
	_, err := OpenString(Options{}, "test.zone", "a IN A 1.2.3.4\n")
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindBadParameter, zerr.Kind)
}

func TestParseSinkRejectionAbortsParse(t *testing.T) {
	opts := Options{Origin: "example.com.", DefaultTTL: 3600}
	opts.Accept.Add = func(p *Parser, rec Record) int32 { return -1 }
	p, err := OpenString(opts, "test.zone", "a IN A 1.2.3.4\nb IN A 1.2.3.5\n")
	require.NoError(t, err)
	p.RegisterType(TypeA, parseTestA)
	err = p.Parse(nil)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindSemantic, zerr.Kind)
}

func TestParseGenerateDirectiveWithoutHandlerIsSkipped(t *testing.T) {
	var recs []Record
	p := mustOpen(t, "$GENERATE 1-3 host$ IN A 1.2.3.$\na IN A 9.9.9.9\n", func(o *Options) {
		o.Accept.Add = captureSink(&recs)
	})
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())
	require.Len(t, recs, 1)
}

func TestParseGenerateDirectiveInvokesHandler(t *testing.T) {
	var seen []string
	p := mustOpen(t, "$GENERATE 1-3 host$ IN A 1.2.3.$\n", func(o *Options) {
		o.Generate = func(p *Parser, args []ZoneToken) error {
			for _, a := range args {
				seen = append(seen, a.String())
			}
			return nil
		}
	})
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())
	require.Equal(t, []string{"1-3", "host$", "IN", "A", "1.2.3.$"}, seen)
}
