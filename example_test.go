package tskit_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/tskit"
)

// twoTreeTables records three samples whose genealogy changes at position 5.
func twoTreeTables() *tskit.TableCollection {
	tables, err := tskit.New(10)
	if err != nil {
		log.Fatal(err)
	}
	for range 3 {
		if _, err := tables.AddNode(tskit.NodeIsSample, 0, tskit.Null, tskit.Null); err != nil {
			log.Fatal(err)
		}
	}
	for _, time := range []tskit.Time{1, 2, 3} {
		if _, err := tables.AddNode(0, time, tskit.Null, tskit.Null); err != nil {
			log.Fatal(err)
		}
	}
	edges := []struct {
		left, right   tskit.Position
		parent, child tskit.NodeID
	}{
		{0, 10, 3, 0},
		{0, 10, 3, 1},
		{0, 5, 4, 2},
		{0, 5, 4, 3},
		{5, 10, 5, 2},
		{5, 10, 5, 3},
	}
	for _, e := range edges {
		if _, err := tables.AddEdge(e.left, e.right, e.parent, e.child); err != nil {
			log.Fatal(err)
		}
	}
	if err := tables.Sort(nil, 0); err != nil {
		log.Fatal(err)
	}
	if err := tables.BuildIndex(); err != nil {
		log.Fatal(err)
	}
	return tables
}

func Example() {
	ts, err := twoTreeTables().TreeSequence(0)
	if err != nil {
		log.Fatal(err)
	}
	defer ts.Close()

	tree, err := ts.TreeIterator(0)
	if err != nil {
		log.Fatal(err)
	}
	defer tree.Close()

	for tree.Advance() {
		iv := tree.Interval()
		for root := range tree.Roots() {
			n, err := tree.NumSamples(root)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("tree %d [%g, %g) root %v samples %d\n", tree.Index(), iv.Left, iv.Right, root, n)
		}
	}
	// Output:
	// tree 0 [0, 5) root 4 samples 3
	// tree 1 [5, 10) root 5 samples 3
}

func ExampleTableCollection_Simplify() {
	tables := twoTreeTables()
	defer tables.Close()

	idmap, err := tables.Simplify([]tskit.NodeID{0, 1}, 0, true)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("nodes:", tables.Nodes().NumRows())
	fmt.Println("idmap:", idmap)
	// Output:
	// nodes: 3
	// idmap: [0 1 NULL 2 NULL NULL]
}

func ExampleBasicMetricsCollector() {
	mc := &tskit.BasicMetricsCollector{}
	tables, err := tskit.New(10, tskit.WithMetricsCollector(mc))
	if err != nil {
		log.Fatal(err)
	}
	_ = tables.Close()

	stats := mc.GetStats()
	fmt.Println("opened:", stats.HandlesOpened, "open:", stats.OpenHandles())
	// Output: opened: 1 open: 0
}
