package domain

import (
	"time"
)

// Room is a named, creator-owned chat room.
type Room struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Creator   string    `json:"creator"`
	CreatedAt time.Time `json:"createdAt"`
}

// IsOwnedBy reports whether identity created the room.
func (r Room) IsOwnedBy(identity string) bool {
	return r.Creator == identity
}

// CreateRoomRequest represents a create room request.
type CreateRoomRequest struct {
	Name string `json:"name" form:"name"`
}

// RenameRoomRequest represents a rename room request.
type RenameRoomRequest struct {
	Name string `json:"name" form:"name"`
}

// RoomResponse represents a room in API responses.
type RoomResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Creator   string `json:"creator"`
	CreatedAt string `json:"createdAt"`
	CanEdit   bool   `json:"canEdit"`
	CanDelete bool   `json:"canDelete"`
}

// ListRoomsResponse represents the full ordered room list.
type ListRoomsResponse struct {
	Rooms []RoomResponse `json:"rooms"`
	Total int            `json:"total"`
}

// JoinRoomResponse carries the informational join notice.
type JoinRoomResponse struct {
	RoomID  string `json:"roomId"`
	Message string `json:"message"`
}

// ToResponse converts Room to RoomResponse as seen by viewer.
func (r *Room) ToResponse(viewer string) RoomResponse {
	owned := r.IsOwnedBy(viewer)
	return RoomResponse{
		ID:        r.ID,
		Name:      r.Name,
		Creator:   r.Creator,
		CreatedAt: FormatTimestamp(r.CreatedAt),
		CanEdit:   owned,
		CanDelete: owned,
	}
}
