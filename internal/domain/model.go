package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// TimestampLayout is the persisted createdAt format: ISO-8601, UTC, milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

// RoomRecord is the persisted shape of one room inside the stored JSON array.
type RoomRecord struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Creator   string `json:"creator"`
	CreatedAt string `json:"createdAt"`
}

// FormatTimestamp renders t in TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts any RFC 3339 timestamp, which covers TimestampLayout.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// ToDomain converts RoomRecord to domain Room.
func (m *RoomRecord) ToDomain() (Room, error) {
	createdAt, err := ParseTimestamp(m.CreatedAt)
	if err != nil {
		return Room{}, fmt.Errorf("room %q: invalid createdAt: %w", m.ID, err)
	}
	return Room{
		ID:        m.ID,
		Name:      m.Name,
		Creator:   m.Creator,
		CreatedAt: createdAt,
	}, nil
}

// RoomToRecord converts domain Room to RoomRecord.
func RoomToRecord(r Room) RoomRecord {
	return RoomRecord{
		ID:        r.ID,
		Name:      r.Name,
		Creator:   r.Creator,
		CreatedAt: FormatTimestamp(r.CreatedAt),
	}
}

// EncodeRooms serializes the whole sequence as a JSON array.
// An empty sequence encodes as "[]", never "null".
func EncodeRooms(rooms []Room) (string, error) {
	records := make([]RoomRecord, len(rooms))
	for i, r := range rooms {
		records[i] = RoomToRecord(r)
	}

	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to marshal rooms: %w", err)
	}
	return string(data), nil
}

// DecodeRooms parses a stored JSON array. It checks syntax and timestamps only;
// semantic checks belong to the caller.
func DecodeRooms(raw string) ([]Room, error) {
	var records []RoomRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("failed to unmarshal rooms: %w", err)
	}

	rooms := make([]Room, 0, len(records))
	for i := range records {
		room, err := records[i].ToDomain()
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, nil
}
