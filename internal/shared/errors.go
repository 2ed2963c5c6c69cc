package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Session & auth errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrUnauthorized     = fmt.Errorf("session rejected by backend")
	ErrAuthFailed       = fmt.Errorf("authentication failed")

	// Backend errors
	ErrTransient          = fmt.Errorf("backend request failed")
	ErrServiceUnavailable = fmt.Errorf("service unavailable")

	// Input validation errors
	ErrValidation      = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")

	// Playback errors
	ErrPlaybackFailed = fmt.Errorf("playback attempt failed")
	ErrNoAudio        = fmt.Errorf("track has no audio stream")
)
