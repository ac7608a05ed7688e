//go:build windows

package wallpaper

import (
	"context"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	spiSetDeskWallpaper = 0x0014
	spifUpdateIniFile   = 0x01
	spifSendChange      = 0x02
)

var procSystemParametersInfoW = windows.NewLazySystemDLL("user32.dll").NewProc("SystemParametersInfoW")

type windowsSetter struct{}

// NewPlatformSetter returns the Setter for the running operating system.
func NewPlatformSetter() Setter {
	return windowsSetter{}
}

func (windowsSetter) SetWallpaper(ctx context.Context, absPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p, err := windows.UTF16PtrFromString(absPath)
	if err != nil {
		return fmt.Errorf("set wallpaper: %w", err)
	}
	r, _, callErr := procSystemParametersInfoW.Call(
		spiSetDeskWallpaper,
		0,
		uintptr(unsafe.Pointer(p)),
		spifUpdateIniFile|spifSendChange,
	)
	if r == 0 {
		return fmt.Errorf("set wallpaper: SystemParametersInfoW: %w", callErr)
	}
	return nil
}
