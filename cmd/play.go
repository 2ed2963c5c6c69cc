package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/alchemist/internal/player"
	"github.com/desertthunder/alchemist/internal/shared"
	"github.com/urfave/cli/v3"
)

// Play selects a library entry and probes its audio stream, reporting whether
// playback would start.
func (r *Runner) Play(ctx context.Context, cmd *cli.Command) error {
	entry, err := r.resolveEntry(ctx, cmd.StringArg("id"), cmd.Bool("offline"))
	if err != nil {
		return err
	}

	r.writePlain("Selected: %s - %s\n", entry.Track.Credit(), entry.Track.Title)

	if !entry.Track.Playable() {
		r.controller.Select(entry)
		return r.writePlain("Entry has no audio stream; nothing to play\n")
	}

	r.controller.Select(entry)

	timeout := time.Duration(r.config.Player.ProbeTimeoutSec+5) * time.Second
	select {
	case update := <-r.controller.Updates():
		if update.Kind == player.UpdateFailed {
			return update.Err
		}
		return r.writePlain("✓ Playing %s\n", entry.Track.Title)
	case <-time.After(timeout):
		return fmt.Errorf("%w: no playback result within %v", shared.ErrPlaybackFailed, timeout)
	case <-ctx.Done():
		return ctx.Err()
	}
}
