// deckcheck lints deck list files against the card catalog. It checks
// catalog membership, leader counts, duplicate ids, deck size bounds,
// and pairwise disjointness between decks.
package main

import (
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"revreb/internal/catalog"
)

func main() {
	pairwise := flag.Bool("pairwise", false, "also require every deck pair to be disjoint")
	flag.Parse()

	logger := zap.NewNop()
	cat, err := catalog.Load(logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load catalog: %v\n", err)
		os.Exit(1)
	}

	var df *catalog.DeckFile
	switch flag.NArg() {
	case 0:
		df, err = catalog.DefaultDecks()
	case 1:
		df, err = catalog.ParseDeckFile(flag.Arg(0))
	default:
		fmt.Fprintln(os.Stderr, "usage: deckcheck [-pairwise] [decks.yaml]")
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "load decks: %v\n", err)
		os.Exit(1)
	}

	failed := false
	for i, deck := range df.Decks {
		if err := cat.Validate(deck); err != nil {
			fmt.Fprintf(os.Stderr, "deck %d: %v\n", i+1, err)
			failed = true
			continue
		}
		fmt.Printf("deck %d %q: ok (%d leaders, %d cards)\n",
			i+1, deck.Name, len(deck.Leaders), len(deck.Cards))
	}

	if *pairwise {
		for i := range df.Decks {
			for j := i + 1; j < len(df.Decks); j++ {
				if err := catalog.DisjointDecks(df.Decks[i], df.Decks[j]); err != nil {
					fmt.Fprintf(os.Stderr, "%v\n", err)
					failed = true
				}
			}
		}
	}

	if failed {
		os.Exit(1)
	}
}
