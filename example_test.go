package saltsearch_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/saltsearch"
	"github.com/hupe1980/saltsearch/blobstore"
	"github.com/hupe1980/saltsearch/digest"
	"github.com/hupe1980/saltsearch/search"
)

// Example_search demonstrates the two search variants on a tiny list.
func Example_search() {
	fp := digest.NewDES()
	salt := digest.SaltFromString("Leonardo8")
	list := []string{"aaaaaaa1", "Target01", "zzzzzzz9"}
	target := fp.Fingerprint("Target01", salt)

	fmt.Println(search.Sequential(fp, target, salt, list).Candidate)
	fmt.Println(search.Parallel(fp, target, salt, list, 2, 1).Candidate)
	// Output:
	// Target01
	// Target01
}

// Example_benchmark demonstrates a full run against an in-memory store.
func Example_benchmark() {
	ctx := context.Background()
	store := blobstore.NewMemoryStore()
	_ = store.Put(ctx, "list.txt", []byte("aaaaaaa1\nbbbbbbb2\nccccccc3\nddddddd4\n"))

	cfg := saltsearch.DefaultConfig()
	cfg.Wordlist = "list.txt"
	cfg.Filtered = ""
	cfg.Report = "results.csv"
	cfg.Executions = 2
	cfg.WorkerCounts = []int{2}
	cfg.ChunkSizes = []int{1}

	b, err := saltsearch.New(cfg)
	if err != nil {
		log.Fatal(err)
	}

	candidates, err := b.LoadCandidates(ctx, store)
	if err != nil {
		log.Fatal(err)
	}
	coll, err := b.Run(ctx, candidates)
	if err != nil {
		log.Fatal(err)
	}
	if err := b.Publish(ctx, store, coll); err != nil {
		log.Fatal(err)
	}

	for _, e := range coll.Entries() {
		fmt.Println(e.Kind, e.Stats.Workers, e.Stats.ChunkSize, e.Stats.ListSize)
	}
	// Output:
	// sequential 1 0 4
	// parallel 2 1 4
}
