// Command replay steps through an archived match in the terminal, drawing
// the agent's global memory after each turn.
package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/brensch/wombats/store"
)

func main() {
	archive := flag.String("archive", "data/turns", "Parquet archive file or directory of batches")
	match := flag.String("match", "", "Match id to open first (defaults to the first in the archive)")
	plain := flag.Bool("plain", false, "Disable colours")
	list := flag.Bool("list", false, "List match ids with turn counts and exit")
	flag.Parse()

	rows, err := store.ReadArchive(*archive)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read archive: %v\n", err)
		os.Exit(1)
	}

	if *list {
		for _, id := range store.Matches(rows) {
			fmt.Printf("%s\t%d\n", id, len(store.ForMatch(rows, id)))
		}
		return
	}

	m, err := newModel(rows, *match, *plain)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}
}
