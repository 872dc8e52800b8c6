package reorient

import (
	"fmt"

	"github.com/grailbio/bio/encoding/fastq"
)

// A MismatchError reports a read identifier that an extractor was asked
// for but could not find in its source collection. It indicates a broken
// caller invariant (the ID set was not derived from the same read
// collection) and is never retried.
type MismatchError struct {
	ID string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("extract: read %q not present in the input read collection", e.ID)
}

// SubsetExtractor selects reads by identifier from an in-memory read
// collection. Identifiers are matched against the FASTQ ID line with the
// leading '@' and any description after the first space removed, which
// is the name aligners report.
type SubsetExtractor struct{}

// Extract implements Extractor.
func (SubsetExtractor) Extract(reads []fastq.Read, ids ReadIDSet) ([]fastq.Read, error) {
	out := make([]fastq.Read, 0, len(ids))
	found := make(map[string]struct{}, len(ids))
	for _, r := range reads {
		name := readName(r.ID)
		if !ids.Contains(name) {
			continue
		}
		out = append(out, r)
		found[name] = struct{}{}
	}
	if len(found) != len(ids) {
		for _, id := range ids.IDs() {
			if _, ok := found[id]; !ok {
				return nil, &MismatchError{ID: id}
			}
		}
	}
	return out, nil
}

// readName canonicalizes a FASTQ ID line to a read name.
func readName(id string) string {
	if len(id) > 0 && id[0] == '@' {
		id = id[1:]
	}
	for i := 0; i < len(id); i++ {
		if id[i] == ' ' || id[i] == '\t' {
			return id[:i]
		}
	}
	return id
}
