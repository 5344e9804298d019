// Package domain contains core concepts of the messaging system.
// No transport, storage, or UI logic should be added here.
package domain

// Identity is the authenticated principal attached to a request or a live
// connection. It is produced by the verifier and never mutated by the core.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}
