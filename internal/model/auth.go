package model

import "time"

// TokenClaims is the decoded claim set of an access token.
type TokenClaims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type AccessState int

const (
	// AccessAnonymous covers both "no token" and "token failed to decode".
	// The two are deliberately indistinguishable outside of logs.
	AccessAnonymous AccessState = iota
	// AccessUnknownSubject means the token decoded but its subject matches
	// no account.
	AccessUnknownSubject
	AccessResolved
)

// ResolvedAccess is the outcome of evaluating an inbound bearer token
// against the account store. Account is populated only for AccessResolved.
type ResolvedAccess struct {
	State   AccessState
	Account Account
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}
