package reorient

import (
	"context"
	"strings"
	"testing"

	"github.com/cyhofe/bio-reorient/encoding/aln"
	"github.com/grailbio/bio/encoding/fastq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func read(id, seq, qual string) fastq.Read {
	return fastq.Read{ID: "@" + id, Seq: seq, Unk: "+", Qual: qual}
}

// fakeRC marks each read instead of complementing it, so tests can see
// exactly which reads went through the transformer and in what order.
type fakeRC struct{}

func (fakeRC) ReverseComplement(reads []fastq.Read) []fastq.Read {
	out := make([]fastq.Read, len(reads))
	for i, r := range reads {
		r.Seq = "rc:" + r.Seq
		out[i] = r
	}
	return out
}

func TestReorientOrdering(t *testing.T) {
	ctx := context.Background()
	reads := []fastq.Read{
		read("C", "CCAA", "FFFF"),
		read("A", "ACGT", "IIII"),
		read("D", "GGGG", "!!!!"),
		read("B", "TTGA", "JJJJ"),
	}
	part := Partition{
		Forward:   ReadIDSet{"A": {}, "B": {}},
		Reverse:   ReadIDSet{"C": {}},
		Ambiguous: ReadIDSet{"D": {}},
	}
	out, err := Reorient(ctx, reads, part, SubsetExtractor{}, fakeRC{})
	require.NoError(t, err)

	// All forward reads first, in order of appearance in the input,
	// then the reverse-complemented reverse reads. No interleaving.
	require.Equal(t, []fastq.Read{
		read("A", "ACGT", "IIII"),
		read("B", "TTGA", "JJJJ"),
		read("C", "rc:CCAA", "FFFF"),
	}, out)

	// The input collection is untouched.
	assert.Equal(t, "CCAA", reads[0].Seq)
}

func TestReorientDropsAmbiguous(t *testing.T) {
	ctx := context.Background()
	reads := []fastq.Read{
		read("a", "AAAA", "IIII"),
		read("b", "CCCC", "IIII"),
		read("c", "GGGG", "IIII"),
	}
	part := Partition{
		Forward:   ReadIDSet{"a": {}},
		Reverse:   ReadIDSet{},
		Ambiguous: ReadIDSet{"b": {}, "c": {}},
	}
	out, err := Reorient(ctx, reads, part, SubsetExtractor{}, Transformer{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	for _, r := range out {
		assert.False(t, part.Ambiguous.Contains(readName(r.ID)))
	}
}

func TestReorientEmptyPartition(t *testing.T) {
	ctx := context.Background()
	reads := []fastq.Read{read("a", "AAAA", "IIII")}
	out, err := Reorient(ctx, reads, NewPartition(nil), SubsetExtractor{}, Transformer{})
	require.NoError(t, err)
	require.Len(t, out, 0)
}

func TestReorientCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Reorient(ctx, nil, NewPartition(nil), SubsetExtractor{}, Transformer{})
	require.Error(t, err)
}

func TestRun(t *testing.T) {
	ctx := context.Background()
	records := "r1\t+\n" +
		"r2\t-\n" +
		"r3\t+\n" +
		"r3\t-\n" +
		"r4\t+\n" +
		"junk line\n"
	reads := []fastq.Read{
		read("r1", "ACGT", "IIII"),
		read("r2", "AACC", "IJKL"),
		read("r3", "GGGG", "IIII"),
		read("r4", "TTTT", "IIII"),
		read("r5", "CCCC", "IIII"), // unmapped, dropped
	}
	out, stats, err := Run(ctx, strings.NewReader(records), reads, aln.Opts{IDCol: 0, StrandCol: 1})
	require.NoError(t, err)
	require.Equal(t, []fastq.Read{
		read("r1", "ACGT", "IIII"),
		read("r4", "TTTT", "IIII"),
		read("r2", "GGTT", "LKJI"),
	}, out)
	assert.Equal(t, Stats{Records: 5, Malformed: 1, Forward: 2, Reverse: 1, Ambiguous: 1}, stats)
}

func TestRunEmptyInput(t *testing.T) {
	ctx := context.Background()
	out, stats, err := Run(ctx, strings.NewReader(""), nil, aln.DefaultOpts)
	require.NoError(t, err)
	require.Len(t, out, 0)
	assert.Equal(t, Stats{}, stats)
}

func TestStatsMerge(t *testing.T) {
	a := Stats{Records: 1, Malformed: 2, Forward: 3, Reverse: 4, Ambiguous: 5}
	b := Stats{Records: 10, Malformed: 20, Forward: 30, Reverse: 40, Ambiguous: 50}
	assert.Equal(t, Stats{Records: 11, Malformed: 22, Forward: 33, Reverse: 44, Ambiguous: 55}, a.Merge(b))
}
