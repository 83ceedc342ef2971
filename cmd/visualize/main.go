// Command visualize builds a small in-memory B+ tree, inserts enough keys
// to force a few levels of splitting, and renders its structure as a
// Graphviz PNG.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/btreeindex/bptree/bptree"
	"github.com/btreeindex/bptree/internal/dot"
)

func main() {
	if err := os.MkdirAll("results", 0755); err != nil {
		log.Fatalf("visualize: create results dir: %v", err)
	}

	tree := bptree.New[int64](4)

	fmt.Println("Inserting keys to force multi-level growth...")
	for k := int64(1); k <= 60; k++ {
		if !tree.Insert(k, bptree.RecordPointer{PageID: uint32(k), SlotID: uint32(k)}) {
			log.Fatalf("visualize: insert failed for %d", k)
		}
		if k%10 == 0 {
			fmt.Printf("inserted %d keys... ", k)
		}
	}
	fmt.Println()

	if err := tree.CheckInvariants(); err != nil {
		log.Fatalf("visualize: invariants broken: %v", err)
	}

	fmt.Println("Point lookup for key 30...")
	if _, ok := tree.Get(30); !ok {
		log.Fatal("visualize: expected key 30 to be present")
	}

	fmt.Println("Range scan [5, 55]...")
	count := len(tree.RangeScan(5, 55))
	fmt.Printf("range scan found %d keys\n", count)

	fmt.Println("Removing every third key to show a partially drained tree...")
	for k := int64(3); k <= 60; k += 3 {
		tree.Remove(k)
	}
	if err := tree.CheckInvariants(); err != nil {
		log.Fatalf("visualize: invariants broken after removal: %v", err)
	}

	dotPath := "results/bptree.dot"
	pngPath := "results/bptree.png"
	if err := dot.Render(tree.Dump(), dotPath, pngPath); err != nil {
		fmt.Println("visualize:", err)
		fmt.Printf("DOT file was still written to %s\n", dotPath)
		return
	}
	fmt.Printf("Tree exported to %s\n", pngPath)
}
