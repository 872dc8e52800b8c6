package reorient

import (
	"context"
	"io"

	"github.com/cyhofe/bio-reorient/encoding/aln"
	"github.com/grailbio/base/log"
	"github.com/grailbio/bio/encoding/fastq"
)

// An Extractor selects the subset of reads whose identifier is in ids,
// preserving the order of appearance in reads and leaving sequence and
// quality data unmodified. It fails if an identifier in ids does not
// occur in reads; silently dropping it would break the accounting
// between the partition and the output.
type Extractor interface {
	Extract(reads []fastq.Read, ids ReadIDSet) ([]fastq.Read, error)
}

// A ReverseComplementer returns a collection of the same size with every
// sequence reverse-complemented and every quality string reversed (not
// otherwise transformed) in lock-step.
type ReverseComplementer interface {
	ReverseComplement(reads []fastq.Read) []fastq.Read
}

// Reorient produces a new read collection with every confidently
// classified read oriented onto the forward strand: reads in
// part.Forward pass through unchanged, reads in part.Reverse are
// reverse-complemented. The output is all forward reads, in their order
// of appearance in reads, followed by all reverse-complemented reverse
// reads. This order is load-bearing: downstream renaming assigns
// identifiers by output position. Ambiguous reads are dropped and never
// appear in the output. The input collection is not mutated.
func Reorient(ctx context.Context, reads []fastq.Read, part Partition, ex Extractor, rc ReverseComplementer) ([]fastq.Read, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if n := len(part.Ambiguous); n > 0 {
		log.Printf("dropping %d reads with conflicting strand evidence", n)
	}
	fwd, err := ex.Extract(reads, part.Forward)
	if err != nil {
		return nil, err
	}
	rev, err := ex.Extract(reads, part.Reverse)
	if err != nil {
		return nil, err
	}
	rev = rc.ReverseComplement(rev)
	out := make([]fastq.Read, 0, len(fwd)+len(rev))
	out = append(out, fwd...)
	out = append(out, rev...)
	return out, nil
}

// Run is the whole engine as one call: it classifies the alignment
// records read from records, partitions the reads by orientation, and
// reorients reads accordingly. Reads that never appear in a record are
// dropped from the output along with the ambiguous reads.
func Run(ctx context.Context, records io.Reader, reads []fastq.Read, opts aln.Opts) ([]fastq.Read, Stats, error) {
	sc := aln.NewScanner(records, opts)
	c := NewClassifier()
	var rec aln.Record
	for sc.Scan(&rec) {
		if err := ctx.Err(); err != nil {
			return nil, Stats{}, err
		}
		c.Add(rec)
	}
	if err := sc.Err(); err != nil {
		return nil, Stats{}, err
	}
	part := NewPartition(c.Classes())
	out, err := Reorient(ctx, reads, part, SubsetExtractor{}, Transformer{})
	if err != nil {
		return nil, Stats{}, err
	}
	stats := Stats{
		Records:   c.Records(),
		Malformed: sc.Skipped(),
		Forward:   len(part.Forward),
		Reverse:   len(part.Reverse),
		Ambiguous: len(part.Ambiguous),
	}
	return out, stats, nil
}
