package main

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
)

// printCategoryCounts writes a stable, sorted category table.
func printCategoryCounts(out io.Writer, counts map[string]int) {
	if len(counts) == 0 {
		return
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT")
	for _, name := range names {
		fmt.Fprintf(tw, "%s\t%d\n", name, counts[name])
	}
	_ = tw.Flush()
}
