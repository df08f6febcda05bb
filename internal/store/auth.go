package store

import "github.com/weiawesome/room-lobby/internal/domain"

// Authorizer decides whether actingID may rename or delete room.
type Authorizer interface {
	CanModify(room domain.Room, actingID string) bool
}

// AuthorizerFunc adapts a plain function to Authorizer.
type AuthorizerFunc func(room domain.Room, actingID string) bool

// CanModify calls f.
func (f AuthorizerFunc) CanModify(room domain.Room, actingID string) bool {
	return f(room, actingID)
}

// CreatorOnly allows modification by the room's creator and nobody else.
var CreatorOnly Authorizer = AuthorizerFunc(func(room domain.Room, actingID string) bool {
	return actingID != "" && room.IsOwnedBy(actingID)
})
