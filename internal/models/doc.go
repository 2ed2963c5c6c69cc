// Package models defines the wire-level data model shared by the client's
// controllers and the backend HTTP contract.
//
// The package contains two categories of types:
//
// 1. Library entities, mirrored from backend responses:
//   - [Track] : Immutable audio descriptor with optional stream reference
//   - [LibraryEntry] : A user's relationship to one track (liked, play count, offline flag)
//
// 2. Request/response bodies for the auth and library endpoints:
//   - [TrackSubmission] : POST /library/tracks body
//   - [CodeRequest] : POST /auth/request-code response
//   - [TokenGrant] : POST /auth/verify-code response
//
// All JSON tags match the backend's field names exactly; nothing here is
// persisted directly (see internal/repositories for the sqlite mirror).
package models
