package domain

import "errors"

var (
	// ErrPlayerNotFound is returned when a player id is not in the roster.
	ErrPlayerNotFound = errors.New("player not found")
	// ErrEmptyName rejects profiles without a display name.
	ErrEmptyName = errors.New("player name is empty")
	// ErrStageNotFound is returned for stages outside the catalogue.
	ErrStageNotFound = errors.New("stage not found")
	// ErrOptionNotFound indicates a chosen option index is out of range.
	ErrOptionNotFound = errors.New("option not found")
	// ErrWrongPhase is returned when an action does not apply to the current screen.
	ErrWrongPhase = errors.New("action not available in current phase")
	// ErrConfirmationRequired guards destructive admin actions.
	ErrConfirmationRequired = errors.New("confirmation required")
	// ErrMalformedImport is returned when an uploaded question bank cannot be used.
	ErrMalformedImport = errors.New("malformed question document")
	// ErrInvalidQuestion indicates a question breaks a structural rule.
	ErrInvalidQuestion = errors.New("invalid question")
	// ErrUnknownItem is returned when a puzzle click names no card on the board.
	ErrUnknownItem = errors.New("unknown puzzle item")
	// ErrCorruptCollection indicates a stored collection could not be decoded.
	ErrCorruptCollection = errors.New("stored collection is corrupt")
)

// UserMessage returns the Vietnamese text shown to players and guardians.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMalformedImport):
		return "Lỗi định dạng file!"
	case errors.Is(err, ErrPlayerNotFound):
		return "Không tìm thấy bé này."
	case errors.Is(err, ErrEmptyName):
		return "Bé hãy nhập tên nhé!"
	case errors.Is(err, ErrStageNotFound):
		return "Chặng này không tồn tại."
	case errors.Is(err, ErrOptionNotFound):
		return "Đáp án không hợp lệ."
	case errors.Is(err, ErrConfirmationRequired):
		return "Bạn có chắc chắn không? Hành động này không thể hoàn tác."
	case errors.Is(err, ErrWrongPhase), errors.Is(err, ErrUnknownItem):
		return "Thao tác không hợp lệ."
	default:
		return "Đã có lỗi xảy ra."
	}
}
