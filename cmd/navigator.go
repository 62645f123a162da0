package cmd

import (
	"fmt"
	"io"
	"sync"
)

// terminalNavigator tells the user where to go next. Each message is printed
// at most once per run, however many requests trigger it.
type terminalNavigator struct {
	w             io.Writer
	loginOnce     sync.Once
	forbiddenOnce sync.Once
}

func (n *terminalNavigator) ToLogin() {
	n.loginOnce.Do(func() {
		fmt.Fprintln(n.w, "Session ended. Run `mscli login` to sign in again.")
	})
}

func (n *terminalNavigator) ToNotAuthorized() {
	n.forbiddenOnce.Do(func() {
		fmt.Fprintln(n.w, "You are not authorized to perform this action.")
	})
}
