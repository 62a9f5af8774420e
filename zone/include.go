package zone

import "github.com/nnnkkk7/go-zonescan/internal/zonescan"

// pushInclude opens path and makes it the active file, chaining it back to
// the current file as includer (C7). depth is enforced against
// Options.MaxIncludeDepth (§9 "Include cycles": the source has no limit;
// this rewrite adds one since a self-including zone file would otherwise
// recurse forever).
func (p *Parser) pushInclude(path string, origin Name) error {
	if p.opts.NoIncludes {
		return p.raise(zonescan.KindSemantic, "$INCLUDE is disabled")
	}

	depth := p.includeDepth()
	limit := p.opts.MaxIncludeDepth
	if limit == 0 {
		limit = DefaultMaxIncludeDepth
	}
	if depth >= limit {
		return p.raise(zonescan.KindResource, "too deeply nested $INCLUDE (limit %d)", limit)
	}

	next, err := openFile(path, origin)
	if err != nil {
		return p.raise(zonescan.KindIO, "cannot open included file %q: %v", path, err)
	}
	next.includer = p.active
	next.lastTTL = p.active.lastTTL
	next.haveTTL = p.active.haveTTL
	p.active = next
	p.logf(LogInfo, "opened included file %s", path)
	return nil
}

// popInclude closes the active (includee) file and resumes the includer,
// per C7 "the materializer calls zone_close_file and continues from the
// includer". It always runs to completion even if closing the includee
// fails, so a close error never strands the includer unreachable.
func (p *Parser) popInclude() error {
	closing := p.active
	includer := closing.includer
	closeErr := closing.close()
	p.active = includer
	if closeErr != nil {
		return p.raise(zonescan.KindIO, "closing included file %q: %v", closing.name, closeErr)
	}
	return nil
}

// includeDepth counts how many files deep the active file is nested via
// $INCLUDE.
func (p *Parser) includeDepth() int {
	n := 0
	for f := p.active; f.includer != nil; f = f.includer {
		n++
	}
	return n
}
