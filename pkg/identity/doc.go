// Package identity resolves request credentials to a stable caller key.
//
// A bearer token is exchanged with the Supabase identity service for a
// user id. Without a verifiable token the caller falls back to a
// best-effort network-origin key derived from forwarding headers.
package identity
