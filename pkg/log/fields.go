package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (set by the identity middleware)
	FieldActor = "actor"

	// Rooms
	FieldRoomID   = "room_id"
	FieldRoomName = "room_name"
	FieldRooms    = "rooms"

	// Storage
	FieldBackend  = "backend"
	FieldStoreKey = "store_key"

	// Service
	FieldService = "service"
	FieldSurface = "surface"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
