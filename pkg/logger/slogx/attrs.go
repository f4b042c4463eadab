package slogx

import "log/slog"

func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("err", "")
	}
	return slog.String("err", err.Error())
}

func UserID(id string) slog.Attr {
	return slog.String("user_id", id)
}

func NoteID(id string) slog.Attr {
	return slog.String("note_id", id)
}

func RequestID(id string) slog.Attr {
	return slog.String("request_id", id)
}
