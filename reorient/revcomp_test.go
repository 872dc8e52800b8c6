package reorient

import (
	"math/rand"
	"testing"

	"github.com/grailbio/bio/encoding/fastq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReverseComplement(t *testing.T) {
	in := []fastq.Read{
		read("r1", "ACGTN", "ABCDE"),
		read("r2", "", ""),
	}
	got := Transformer{}.ReverseComplement(in)
	require.Equal(t, []fastq.Read{
		read("r1", "NACGT", "EDCBA"),
		read("r2", "", ""),
	}, got)
	// Input untouched.
	assert.Equal(t, "ACGTN", in[0].Seq)
}

func TestReverseComplementRoundTrip(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	const bases = "ACGTN"
	for iter := 0; iter < 50; iter++ {
		n := r.Intn(200)
		seq := make([]byte, n)
		qual := make([]byte, n)
		for i := range seq {
			seq[i] = bases[r.Intn(len(bases))]
			qual[i] = byte('!' + r.Intn(40))
		}
		in := []fastq.Read{read("r", string(seq), string(qual))}
		out := Transformer{}.ReverseComplement(Transformer{}.ReverseComplement(in))
		require.Equal(t, in, out)
	}
}
