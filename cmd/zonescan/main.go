// Command zonescan drives zone.Parse over a master file and dumps every
// accepted record to stdout, the way the teacher's cmd-line tools drive
// their own library's public API end to end. It is an external
// collaborator, not part of the tokenizer or parser glue themselves: the
// record formatting and logging choices here are just one way to consume
// the Sink/LogWriter contract.
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/nnnkkk7/go-zonescan/zone"
)

var version = "dev"

type cliOptions struct {
	Origin          string `short:"o" long:"origin" description:"Zone apex name (required)" required:"true"`
	DefaultTTL      uint32 `long:"default-ttl" description:"TTL used when a record and no $TTL supply one"`
	FriendlyTTLs    bool   `long:"friendly-ttls" description:"Accept 1h2m3s-style TTL durations"`
	NoIncludes      bool   `long:"no-includes" description:"Reject $INCLUDE instead of following it"`
	MaxIncludeDepth int    `long:"max-include-depth" description:"Limit on nested $INCLUDE (0 selects the built-in default)"`
	Secondary       bool   `long:"secondary" description:"Parse in lax secondary-transfer mode"`
	Quiet           bool   `short:"q" long:"quiet" description:"Only log warnings and errors"`
	Version         bool   `long:"version" description:"Show this version"`
}

func parseOptions(args []string) (*cliOptions, []string) {
	var opts cliOptions
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[options] zonefile"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flags.WroteHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "exactly one zonefile argument is required")
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}
	return &opts, rest
}

func main() {
	opts, args := parseOptions(os.Args[1:])
	path := args[0]

	logger := logrus.StandardLogger()
	if opts.Quiet {
		logger.SetLevel(logrus.WarnLevel)
	}

	zopts := zone.Options{
		Origin:          opts.Origin,
		DefaultTTL:      opts.DefaultTTL,
		FriendlyTTLs:    opts.FriendlyTTLs,
		NoIncludes:      opts.NoIncludes,
		MaxIncludeDepth: opts.MaxIncludeDepth,
		Secondary:       opts.Secondary,
	}
	zopts.Log.Categories = zone.LogError | zone.LogWarning | zone.LogInfo
	zopts.Log.Write = logrusWriter(logger)

	count := 0
	zopts.Accept.Add = func(p *zone.Parser, rec zone.Record) int32 {
		dumpRecord(rec)
		count++
		return 0
	}

	p, err := zone.Open(zopts, path)
	if err != nil {
		logger.WithError(err).Fatal("opening zone file")
	}
	defer p.Close()

	if err := p.Parse(nil); err != nil {
		if zerr, ok := err.(*zone.Error); ok {
			logger.WithFields(logrus.Fields{
				"file": zerr.File,
				"line": zerr.Line,
				"kind": zerr.Kind,
			}).Error(zerr.Msg)
			os.Exit(1)
		}
		logger.WithError(err).Fatal("parsing zone file")
	}

	logger.Infof("parsed %d record(s) from %s", count, path)
}

// logrusWriter adapts *logrus.Logger to zone.LogWriter, mapping §6's
// three-bit log-category mask onto logrus's own severity levels.
func logrusWriter(logger *logrus.Logger) zone.LogWriter {
	return func(p *zone.Parser, file string, line int, function string, category zone.LogCategory, message string) {
		entry := logger.WithFields(logrus.Fields{
			"file":     file,
			"line":     line,
			"function": function,
		})
		switch {
		case category&zone.LogError != 0:
			entry.Error(message)
		case category&zone.LogWarning != 0:
			entry.Warn(message)
		default:
			entry.Info(message)
		}
	}
}

// dumpRecord renders one accepted record in a terse zone-file-like form.
// Per-type RDATA presentation is an external collaborator (SPEC_FULL.md
// "Non-goals" / §1 "out of scope"); this harness only ever
// shows the raw wire bytes it was handed, hex-encoded.
func dumpRecord(rec zone.Record) {
	fmt.Printf("%s\t%d\t%s\t%s\t%s\n",
		ownerString(rec.Owner), rec.TTL, rec.Class, rec.Type, hex.EncodeToString(rec.RData))
}

// ownerString renders a wire-format Name back into dotted-label text for
// display. It does not attempt to re-escape special characters: this is
// display-only output, not something fed back into the tokenizer.
func ownerString(n zone.Name) string {
	octets := n.Octets
	if len(octets) == 1 && octets[0] == 0 {
		return "."
	}
	var out []byte
	for i := 0; i < len(octets); {
		n := int(octets[i])
		i++
		if n == 0 {
			break
		}
		if len(out) > 0 {
			out = append(out, '.')
		}
		out = append(out, octets[i:i+n]...)
		i += n
	}
	return string(out)
}
