// Package services implements the HTTP layer between the client and the
// Alchemist backend.
//
// [APIService] is the raw transport: base URL + [net/http.Client], optional
// bearer auth via an [golang.org/x/oauth2.TokenSource], and client-side
// throttling via [golang.org/x/time/rate]. It knows nothing about endpoints.
//
// [Client] layers the backend contract on top:
//
//	POST /auth/request-code  -> RequestCode
//	POST /auth/verify-code   -> VerifyCode
//	GET  /library/tracks     -> FetchLibrary (bearer)
//	POST /library/tracks     -> AddTrack     (bearer)
//
// Responses are mapped onto the shared error taxonomy: 401 from an
// authenticated endpoint is [shared.ErrUnauthorized] (the controllers
// downgrade the session), everything else non-2xx is [shared.ErrTransient].
package services
