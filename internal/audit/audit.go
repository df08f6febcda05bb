package audit

import (
	"context"

	"github.com/weiawesome/room-lobby/pkg/log"
)

// Audit actions for the lobby.
const (
	ActionCreateRoom = "room.create"
	ActionRenameRoom = "room.rename"
	ActionDeleteRoom = "room.delete"
	ActionJoinRoom   = "room.join"
)

// Field constants for audit entries.
const (
	FieldAction = "action"
	FieldDetail = "detail"
)

// Log emits a structured audit log entry via the context logger.
func Log(ctx context.Context, action, actor, roomID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldActor, actor).
		Str(log.FieldRoomID, roomID).
		Msg(msg)
}

// LogWithDetail emits an audit log with extra detail field.
func LogWithDetail(ctx context.Context, action, actor, roomID, detail, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldActor, actor).
		Str(log.FieldRoomID, roomID).
		Str(FieldDetail, detail).
		Msg(msg)
}
