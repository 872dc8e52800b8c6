package main

/*
bio-reorient normalizes a mixed-orientation long-read collection onto the
forward strand of a reference. Given one or more tab-separated alignment
record files (PAF-shaped; column positions configurable) and the reads in
FASTQ format, it classifies every aligned read as forward, reverse, or
ambiguous, then emits the forward reads followed by the
reverse-complemented reverse reads. Ambiguous and unaligned reads are
dropped.

Example:

   bio-reorient -out oriented.fastq aln.paf reads.fastq

Multiple alignment files may be given; strand evidence is merged across
them:

   bio-reorient -out oriented.fastq aln1.paf aln2.paf reads.fastq.gz
*/

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/cyhofe/bio-reorient/encoding/aln"
	"github.com/cyhofe/bio-reorient/reorient"
	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio/encoding/fastq"
)

var (
	idCol       = flag.Int("id-col", aln.DefaultOpts.IDCol, "0-based column of the read ID in the alignment records")
	strandCol   = flag.Int("strand-col", aln.DefaultOpts.StrandCol, "0-based column of the strand symbol in the alignment records")
	strict      = flag.Bool("strict", aln.DefaultOpts.Strict, "Abort on the first malformed alignment record instead of skipping it")
	outPath     = flag.String("out", "", "Output FASTQ path; defaults to stdout")
	summaryPath = flag.String("summary", "", "If set, write a one-row TSV run summary to this path")
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] alnpath... fastqpath\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Other options:\n")
	flag.PrintDefaults()
}

// readFASTQ reads the whole read collection at path, transparently
// uncompressing it if needed.
func readFASTQ(ctx context.Context, path string) []fastq.Read {
	in, err := file.Open(ctx, path)
	if err != nil {
		log.Fatalf("open %v: %v", path, err)
	}
	var inr io.Reader = in.Reader(ctx)
	if u, ok := compress.NewReaderPath(inr, in.Name()); ok {
		inr = u
	}
	var (
		reads []fastq.Read
		r     fastq.Read
	)
	sc := fastq.NewScanner(inr, fastq.All)
	for sc.Scan(&r) {
		reads = append(reads, r)
	}
	once := errors.Once{}
	once.Set(sc.Err())
	once.Set(in.Close(ctx))
	if err := once.Err(); err != nil {
		log.Fatalf("read %v: %v", path, err)
	}
	log.Printf("%s: %d reads", path, len(reads))
	return reads
}

// classifyFiles accumulates strand evidence from every alignment record
// file, one classifier per file, merged at the end.
func classifyFiles(ctx context.Context, paths []string, opts aln.Opts) (*reorient.Classifier, int) {
	classifiers := make([]*reorient.Classifier, len(paths))
	skipped := make([]int, len(paths))
	err := traverse.Each(len(paths), func(i int) error {
		in, err := file.Open(ctx, paths[i])
		if err != nil {
			return errors.E(err, "open", paths[i])
		}
		var inr io.Reader = in.Reader(ctx)
		if u, ok := compress.NewReaderPath(inr, in.Name()); ok {
			inr = u
		}
		c := reorient.NewClassifier()
		sc := aln.NewScanner(inr, opts)
		var rec aln.Record
		for sc.Scan(&rec) {
			c.Add(rec)
		}
		once := errors.Once{}
		once.Set(sc.Err())
		once.Set(in.Close(ctx))
		if err := once.Err(); err != nil {
			return errors.E(err, "read", paths[i])
		}
		log.Printf("%s: %d records, %d malformed", paths[i], c.Records(), sc.Skipped())
		classifiers[i] = c
		skipped[i] = sc.Skipped()
		return nil
	})
	if err != nil {
		log.Fatalf("classify: %v", err)
	}
	merged := reorient.NewClassifier()
	nSkipped := 0
	for i, c := range classifiers {
		merged.Merge(c)
		nSkipped += skipped[i]
	}
	return merged, nSkipped
}

func writeFASTQ(ctx context.Context, path string, reads []fastq.Read) {
	var (
		out  file.File
		w    io.Writer = os.Stdout
		bufw *bufio.Writer
	)
	if path != "" {
		var err error
		if out, err = file.Create(ctx, path); err != nil {
			log.Fatalf("create %v: %v", path, err)
		}
		bufw = bufio.NewWriter(out.Writer(ctx))
		w = bufw
	}
	fw := fastq.NewWriter(w)
	for i := range reads {
		if err := fw.Write(&reads[i]); err != nil {
			log.Fatalf("write %v: %v", path, err)
		}
	}
	if out != nil {
		once := errors.Once{}
		once.Set(bufw.Flush())
		once.Set(out.Close(ctx))
		if err := once.Err(); err != nil {
			log.Fatalf("close %v: %v", path, err)
		}
	}
}

func writeSummary(ctx context.Context, path string, stats reorient.Stats, unmapped int) {
	out, err := file.Create(ctx, path)
	if err != nil {
		log.Fatalf("create %v: %v", path, err)
	}
	w := tsv.NewWriter(out.Writer(ctx))
	w.WriteString("records\tmalformed\tforward\treverse\tambiguous\tunmapped")
	if err := w.EndLine(); err != nil {
		log.Fatalf("write %v: %v", path, err)
	}
	for _, n := range []int{stats.Records, stats.Malformed, stats.Forward, stats.Reverse, stats.Ambiguous, unmapped} {
		w.WriteString(strconv.Itoa(n))
	}
	if err := w.EndLine(); err != nil {
		log.Fatalf("write %v: %v", path, err)
	}
	once := errors.Once{}
	once.Set(w.Flush())
	once.Set(out.Close(ctx))
	if err := once.Err(); err != nil {
		log.Fatalf("close %v: %v", path, err)
	}
}

func main() {
	flag.Usage = usage
	flag.Parse()
	shutdown := grail.Init()
	defer shutdown()
	if flag.NArg() < 2 {
		usage()
		os.Exit(1)
	}
	ctx := vcontext.Background()
	alnPaths := flag.Args()[:flag.NArg()-1]
	fastqPath := flag.Arg(flag.NArg() - 1)
	opts := aln.Opts{IDCol: *idCol, StrandCol: *strandCol, Strict: *strict}

	reads := readFASTQ(ctx, fastqPath)
	classifier, nSkipped := classifyFiles(ctx, alnPaths, opts)
	part := reorient.NewPartition(classifier.Classes())
	out, err := reorient.Reorient(ctx, reads, part, reorient.SubsetExtractor{}, reorient.Transformer{})
	if err != nil {
		log.Fatalf("reorient: %v", err)
	}
	writeFASTQ(ctx, *outPath, out)

	stats := reorient.Stats{
		Records:   classifier.Records(),
		Malformed: nSkipped,
		Forward:   len(part.Forward),
		Reverse:   len(part.Reverse),
		Ambiguous: len(part.Ambiguous),
	}
	classified := stats.Forward + stats.Reverse + stats.Ambiguous
	unmapped := len(reads) - classified
	if stats.Malformed > 0 {
		log.Printf("skipped %d malformed records", stats.Malformed)
	}
	if unmapped > 0 {
		log.Printf("dropped %d reads with no alignment records", unmapped)
	}
	log.Printf("%d records: %d forward, %d reverse, %d ambiguous reads; wrote %d reads",
		stats.Records, stats.Forward, stats.Reverse, stats.Ambiguous, len(out))
	if *summaryPath != "" {
		writeSummary(ctx, *summaryPath, stats, unmapped)
	}
}
