// Package mode defines the screens of the application and the messages
// they use to talk to the root model.
package mode

import (
	"github.com/zjrosen/signup/internal/ui/toaster"
)

// AppMode identifies the current application mode.
type AppMode int

const (
	ModeRegister AppMode = iota
	ModeLogin
)

func (m AppMode) String() string {
	switch m {
	case ModeLogin:
		return "login"
	default:
		return "register"
	}
}

// ShowToastMsg asks the root model to show a notification.
type ShowToastMsg struct {
	Message string
	Style   toaster.Style
}

// NavigateMsg asks the root model to switch to another mode.
type NavigateMsg struct {
	To AppMode
}
