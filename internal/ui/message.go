package ui

import (
	"github.com/desertthunder/alchemist/internal/models"
	"github.com/desertthunder/alchemist/internal/player"
)

// codeRequestedMsg reports the outcome of a login code request.
type codeRequestedMsg struct {
	resp *models.CodeRequest
	err  error
}

// codeVerifiedMsg reports the outcome of a code exchange. A nil err means the
// session is established and the library snapshot is already loaded.
type codeVerifiedMsg struct {
	err error
}

// libraryRefreshedMsg reports the outcome of a wholesale library refresh.
type libraryRefreshedMsg struct {
	err error
}

// playbackMsg forwards an asynchronous [player.Update] into the event loop.
type playbackMsg player.Update
