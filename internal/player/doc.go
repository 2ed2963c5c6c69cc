// Package player reconciles the user's playback selection against the single
// audio transport.
//
// The hazard this package exists for: play attempts are asynchronous, so a
// selection can change while a previous attempt is still pending. Each
// attempt is tagged when issued; a completion whose tag has been superseded
// is discarded rather than applied. There is no cancellation primitive;
// staleness is detected by comparison at completion time.
//
// [Controller] owns the selection, the play intent, and the attempt tags.
// [Transport] abstracts the audio output; [StreamTransport] is the HTTP
// implementation used by the CLI and TUI, and tests substitute fakes with
// hand-controlled completion order.
package player
