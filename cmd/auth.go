package main

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/alchemist/internal/auth"
	"github.com/desertthunder/alchemist/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin requests a one-time code for the given email and exchanges it for
// a session. Without --code the code is read interactively from stdin.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	email := cmd.StringArg("email")
	if email == "" {
		return fmt.Errorf("%w: email argument is required", shared.ErrMissingArgument)
	}

	resp, err := r.flow.RequestCode(ctx, email)
	if err != nil {
		return err
	}

	r.writePlain("%s\n", resp.Detail)
	if resp.DebugCode != "" {
		r.writePlain("Development code: %s\n", resp.DebugCode)
	}

	code := cmd.String("code")
	if code == "" {
		r.writePlain("Enter code: ")
		scanner := bufio.NewScanner(r.input)
		if !scanner.Scan() {
			return fmt.Errorf("%w: no code provided", shared.ErrMissingArgument)
		}
		code = strings.TrimSpace(scanner.Text())
	}

	if err := r.flow.VerifyCode(ctx, email, code); err != nil {
		return err
	}

	r.writePlain("✓ Logged in as %s\n", email)
	r.writePlain("Library: %d tracks\n", r.cache.Len())
	return nil
}

// AuthStatus prints the current phase of the login state machine.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	phase := r.flow.Phase()
	r.writePlain("Phase: %s\n", phase)

	switch phase {
	case auth.CodeRequested:
		r.writePlain("Waiting for the code emailed to %s\n", r.flow.PendingEmail())
	case auth.LoggedIn:
		r.writePlain("Session token held; the backend remains the authority on validity\n")
	}
	return nil
}

// AuthLogout clears the session and all cached client state.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.flow.Logout(); err != nil {
		return err
	}
	return r.writePlain("✓ Logged out\n")
}
