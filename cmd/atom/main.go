// Command atom is a thin wiring shim over the library packages in this
// module. It is not the command-line front end described in the
// project's interface list; it exists only to exercise the store, uri,
// and publish packages end to end against a real Git repository, the way
// a future front end would. It does not load the config alias table: a
// URI argument is parsed with no aliases.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ekala-project/atom/internal/logging"
	"github.com/ekala-project/atom/publish"
	"github.com/ekala-project/atom/store/gitstore"
	"github.com/ekala-project/atom/uri"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		logging.Logger().WithError(err).Error("atom: fatal")
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: atom <path-to-local-repo> <remote> [atom-uri]")
	}

	path, remote := args[0], args[1]
	ctx := context.Background()

	s, err := gitstore.Open(path)
	if err != nil {
		return err
	}

	if len(args) >= 3 {
		u, err := uri.Parse(args[2], nil)
		if err != nil {
			return err
		}
		fmt.Printf("resolved uri: %s (id=%s)\n", u.String(), u.Id())
		return nil
	}

	head, err := s.Sync(ctx, remote)
	if err != nil {
		return err
	}

	valid, publisher, err := (publish.Builder{}).Build(ctx, s, remote, head)
	if err != nil {
		return err
	}

	fmt.Printf("found %d atom(s) at %s\n", len(valid), head)

	for atomID, p := range valid {
		outcome, err := publisher.PublishAtom(p)
		if err != nil {
			return fmt.Errorf("publishing %s: %w", atomID, err)
		}
		if outcome.Kind == publish.Published {
			fmt.Printf("published %s from %s\n", outcome.Record.AtomID, outcome.Record.Path)
		} else {
			fmt.Printf("skipped %s (already published)\n", outcome.SkippedID)
		}
	}

	return publisher.AwaitPushes()
}
