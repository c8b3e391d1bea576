package ui

import (
	"github.com/abelbrown/moderator/internal/controller"
)

// toast is the single visible notice. A newer notice replaces it; each
// carries an id so only its own expiry hides it.
type toast struct {
	notice  controller.Notice
	id      int
	visible bool
}

func (t *toast) show(n controller.Notice) int {
	t.id++
	t.notice = n
	t.visible = true
	return t.id
}

func (t *toast) expire(id int) {
	if id == t.id {
		t.visible = false
	}
}

func (t toast) view(width int) string {
	if !t.visible {
		return ""
	}
	style := ToastInfo
	switch t.notice.Level {
	case controller.LevelSuccess:
		style = ToastSuccess
	case controller.LevelWarn:
		style = ToastWarn
	case controller.LevelError:
		style = ToastError
	}
	return style.MaxWidth(width).Render(t.notice.Text)
}
