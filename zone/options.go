// Package zone implements the parser glue (C7 include stack, C8 error
// surface, C9 parser glue) that sits on top of internal/zonescan's
// tokenizer and turns a token stream into resource records delivered to a
// caller-supplied sink (§6 "External interfaces").
package zone

import "github.com/nnnkkk7/go-zonescan/internal/zonescan"

// Class is a DNS resource record class (§6 Options.DefaultClass).
type Class uint16

const (
	ClassINET   Class = 1 // IN
	ClassCSNET  Class = 2 // CS
	ClassCHAOS  Class = 3 // CH
	ClassHESIOD Class = 4 // HS
	// ClassANY only ever appears as a query class; it is rejected as a
	// record class by scanClass.
	ClassANY Class = 255
)

func (c Class) String() string {
	switch c {
	case ClassINET:
		return "IN"
	case ClassCSNET:
		return "CS"
	case ClassCHAOS:
		return "CH"
	case ClassHESIOD:
		return "HS"
	case ClassANY:
		return "ANY"
	default:
		return "CLASS?"
	}
}

// LogCategory is the bitmask of severities a LogWriter may be called with
// (§6 "Log callback contract").
type LogCategory uint8

const (
	LogError   LogCategory = 1 << 1
	LogWarning LogCategory = 1 << 2
	LogInfo    LogCategory = 1 << 3
)

// LogWriter receives a formatted diagnostic from the parser. file/line/
// function identify the internal raise site: the Go source file, line and
// function that logged the message.
type LogWriter func(p *Parser, file string, line int, function string, category LogCategory, message string)

// Record is exactly what the §6 record-sink contract hands the caller: an
// owner name plus the wire-format fields of one resource record.
type Record struct {
	Owner    Name
	Type     Type
	Class    Class
	TTL      uint32
	RDLength uint16
	RData    []byte // only valid for the duration of the Sink call (§5 "Resources")
}

// Sink is the record-acceptance callback (§6). A negative return aborts
// Parse with that value surfaced to the caller verbatim (§7 "Propagation").
type Sink func(p *Parser, rec Record) int32

// Options mirrors the teacher's ReaderOptions (extended configuration
// struct) extended with the fields §6 requires of a zone parser: origin,
// default TTL/class, lax-mode and include-file toggles, friendly TTL
// syntax, and the log/sink callback pair.
type Options struct {
	// Origin is the zone's apex name in textual form. Required.
	Origin string

	// DefaultTTL is used for records that omit an explicit TTL and for
	// which no preceding record or $TTL directive supplied one.
	DefaultTTL uint32

	// DefaultClass is used for records that omit an explicit class.
	DefaultClass Class

	// Secondary requests lax-mode parsing, the way a secondary server
	// accepting a zone transfer tolerates more than an authoritative
	// operator's own master file would. It is stored only: the parser runs
	// the same checks whether or not it is set.
	Secondary bool

	// NoIncludes turns $INCLUDE into a semantic error instead of opening
	// the referenced file (C7).
	NoIncludes bool

	// FriendlyTTLs accepts "1h2m3s"-style durations in TTL fields in
	// addition to plain decimal seconds.
	FriendlyTTLs bool

	// MaxIncludeDepth bounds $INCLUDE nesting (§9 "Include cycles"). Zero
	// selects DefaultMaxIncludeDepth.
	MaxIncludeDepth int

	Log struct {
		Categories LogCategory
		Write      LogWriter
	}

	Accept struct {
		Add Sink
	}

	// Generate, if set, is invoked for a $GENERATE directive line with the
	// raw tokens following "$GENERATE" up to (not including) the closing
	// LINE_FEED. $GENERATE's range/template semantics are an external
	// collaborator per SPEC_FULL.md's "supplemented features" — the zone
	// package only recognizes the directive and hands its tokens off; if
	// Generate is nil the directive's tokens are consumed and discarded
	// with an INFO log line.
	Generate func(p *Parser, args []ZoneToken) error

	// UserData is an opaque value kept on the Parser (Parse replaces it
	// when given a non-nil argument). Sink and LogWriter are not passed
	// it, and the Parser exposes no accessor for it.
	UserData any
}

// DefaultMaxIncludeDepth bounds $INCLUDE nesting when Options.MaxIncludeDepth
// is left at zero (§9 "Include cycles": the source has no limit at all).
const DefaultMaxIncludeDepth = 16

// Kind re-exports zonescan.Kind so callers of the zone package never need
// to import internal/zonescan directly to inspect an error.
type Kind = zonescan.Kind

const (
	KindSyntax       = zonescan.KindSyntax
	KindSemantic     = zonescan.KindSemantic
	KindIO           = zonescan.KindIO
	KindResource     = zonescan.KindResource
	KindUnsupported  = zonescan.KindUnsupported
	KindBadParameter = zonescan.KindBadParameter
	KindNotAFile     = zonescan.KindNotAFile
	KindNotPermitted = zonescan.KindNotPermitted
)

// Error re-exports zonescan.Error (C8); the zone package raises these
// directly so a single error type flows from tokenizer to caller.
type Error = zonescan.Error
