// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI mirrors the auth state machine with one view per phase:
//  1. [LoginView] : Enter an email and request a one-time code
//  2. [CodeView] : Enter the emailed code to establish a session
//  3. [LibraryView] : Browse the library snapshot and control playback
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Playback outcomes arrive asynchronously through the controller's update
// channel and are forwarded into the event loop as [playbackMsg], so a stale
// result can never repaint the view directly.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, space, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
