// Package envelope bundles change records into commit messages and back.
//
// An envelope corresponds to exactly one commit: an ordered collection of
// one or more change records plus an optional tool-version marker. Encoding
// serializes each record's fragment in ranked order, joined with blank
// lines; decoding splits the body on blank lines and routes each fragment
// to its variant through a resolver. Envelopes are transient value objects;
// nothing here touches storage.
package envelope

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hpungsan/chronicle/internal/change"
	"github.com/hpungsan/chronicle/internal/errors"
)

// DefaultVersion is used when an envelope is built without an explicit
// version. Callers normally inject the build version instead.
const DefaultVersion = "dev"

// separator joins fragments in the commit body. Fragments must never
// contain this sequence; the change package escapes newlines in routing
// and field values to uphold this for built-in variants, and variant
// authors carry the same obligation.
const separator = "\n\n"

// Envelope is an ordered bundle of change records plus an optional version.
// The collection is never empty and never mutated after construction;
// ranking is a derived view computed on demand.
type Envelope struct {
	records []change.Record
	version string
	table   PriorityTable
}

// New creates an envelope over the given records using the default priority
// table. An empty version falls back to DefaultVersion. Returns
// EMPTY_ENVELOPE when records is empty.
func New(records []change.Record, version string) (*Envelope, error) {
	return NewWithTable(records, version, DefaultPriorityTable)
}

// NewWithTable creates an envelope with an explicit priority table, so
// ordering rules can be exercised in isolation with alternate tables.
func NewWithTable(records []change.Record, version string, table PriorityTable) (*Envelope, error) {
	if len(records) == 0 {
		return nil, errors.NewEmptyEnvelope()
	}
	if version == "" {
		version = DefaultVersion
	}
	return &Envelope{
		records: append([]change.Record(nil), records...),
		version: version,
		table:   table,
	}, nil
}

// Records returns the records in original (insertion or textual) order.
func (e *Envelope) Records() []change.Record {
	return append([]change.Record(nil), e.records...)
}

// Version returns the envelope's version string; "" means the envelope was
// decoded from a commit with no version marker.
func (e *Envelope) Version() string {
	return e.version
}

// Ranked returns the records in display order: a stable sort on the
// priority table rank with the documented tie-breaks. The receiver is not
// modified; calling Ranked repeatedly yields identical output.
func (e *Envelope) Ranked() []change.Record {
	ranked := e.Records()
	sort.SliceStable(ranked, func(i, j int) bool {
		return e.table.less(ranked[i], ranked[j])
	})
	return ranked
}

// Description returns the description of the first ranked record. For a
// multi-change bundle this is the single most salient line, and it becomes
// the commit subject.
func (e *Envelope) Description() string {
	return e.Ranked()[0].Description()
}

// Encode serializes the envelope into a commit message. The subject is the
// envelope description; the body is every fragment in ranked order joined
// with blank lines, followed by the version marker fragment. Envelopes with
// an absent version (decoded from unmarked history) encode without a
// marker, preserving the round trip.
func (e *Envelope) Encode() (subject, body string) {
	ranked := e.Ranked()
	fragments := make([]string, 0, len(ranked)+1)
	for _, r := range ranked {
		fragments = append(fragments, r.Fragment())
	}
	if e.version != "" {
		fragments = append(fragments, FormatVersionTag(e.version))
	}
	return e.Description(), strings.Join(fragments, separator)
}

// Decode reconstructs an envelope from a stored commit message. The subject
// is informational only and never validated against the body. Records keep
// the order they appear in the text; ranking remains an on-demand view.
//
// Fails with MALFORMED_ENVELOPE when the body holds no fragments and with
// UNROUTABLE_FRAGMENT when a non-marker fragment matches no variant. A
// fragment that routes but then fails to parse is a resolver-contract
// violation and surfaces as an internal error; silently skipping it would
// drop history.
func Decode(subject, body string, resolver change.Resolver) (*Envelope, error) {
	return DecodeWithTable(subject, body, resolver, DefaultPriorityTable)
}

// DecodeWithTable is Decode with an explicit priority table.
func DecodeWithTable(subject, body string, resolver change.Resolver, table PriorityTable) (*Envelope, error) {
	_ = subject

	fragments := splitBody(body)
	if len(fragments) == 0 {
		return nil, errors.NewMalformedEnvelope("commit body is empty")
	}

	version := ""
	if last := fragments[len(fragments)-1]; IsVersionTag(last) {
		version = ExtractVersion(last)
		fragments = fragments[:len(fragments)-1]
	}
	if len(fragments) == 0 {
		return nil, errors.NewMalformedEnvelope("commit body contains only a version marker")
	}

	records := make([]change.Record, 0, len(fragments))
	for i, fragment := range fragments {
		parse, err := resolver.Resolve(fragment)
		if err != nil {
			return nil, errors.NewUnroutableFragment(i, fragment)
		}
		record, err := parse(fragment)
		if err != nil {
			return nil, errors.NewInternal(fmt.Errorf("fragment %d routed but failed to parse: %w", i, err))
		}
		records = append(records, record)
	}

	return &Envelope{records: records, version: version, table: table}, nil
}

// splitBody splits a commit body into fragments, tolerating surrounding
// whitespace and runs of extra blank lines left by external git tooling.
func splitBody(body string) []string {
	parts := strings.Split(strings.TrimSpace(body), separator)
	fragments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			fragments = append(fragments, p)
		}
	}
	return fragments
}
