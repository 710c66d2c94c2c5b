package gitstore

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// Push implements store.ObjectWriter by shelling out to the host git
// binary, exactly as the original implementation's push step does — the
// spec treats push as an abstract collaborator operation, not a
// go-git-internal one, so go-git's own Remote.Push is deliberately not
// used here.
func (s *Store) Push(ctx context.Context, remote string, refspec string) error {
	cmd := exec.CommandContext(ctx, "git", "push", remote, refspec)
	cmd.Dir = s.path

	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("git push %s %s: %w: %s", remote, refspec, err, bytes.TrimSpace(out))
	}
	return nil
}
