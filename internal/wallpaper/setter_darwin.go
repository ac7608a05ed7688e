//go:build darwin

package wallpaper

import (
	"strconv"
)

// NewPlatformSetter returns the Setter for the running operating system.
func NewPlatformSetter() Setter {
	return commandSetter{candidates: darwinCommands}
}

func darwinCommands(absPath string) [][][]string {
	script := `tell application "System Events" to tell every desktop to set picture to ` + strconv.Quote(absPath)
	return [][][]string{
		{{"osascript", "-e", script}},
	}
}
