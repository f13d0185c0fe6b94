package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cubny/tap2trip/internal/tapgen"
)

func main() {
	outfile := flag.String("output", "generated-taps.csv", "output taps csv file path")
	completed := flag.Int("complete", 10, "number of completed trips")
	incomplete := flag.Int("incomplete", 5, "number of incomplete trips")
	cancelled := flag.Int("cancelled", 2, "number of cancelled trips")
	seed := flag.Int64("seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	out, err := os.Create(*outfile)
	if err != nil {
		log.Fatalf("open output file: %s\n", err)
	}

	counts := tapgen.Counts{
		Completed:  *completed,
		Incomplete: *incomplete,
		Cancelled:  *cancelled,
	}
	if err := tapgen.New(*seed).Generate(counts, out); err != nil {
		log.Fatalf("generate: %s\n", err)
	}
	if err := out.Close(); err != nil {
		log.Fatalf("close output file: %s\n", err)
	}

	fmt.Printf("%d taps are written to %s\n", counts.Records(), *outfile)
}
