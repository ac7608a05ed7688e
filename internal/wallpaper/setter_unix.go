//go:build !windows && !darwin

package wallpaper

import (
	"net/url"

	"github.com/i474232898/live-wallpaper/internal/common"
)

// NewPlatformSetter returns the Setter for the running operating system.
// On Linux and the BSDs the desktop environment is taken from XDG_CURRENT_DESKTOP.
func NewPlatformSetter() Setter {
	desktop := common.FirstEnv("XDG_CURRENT_DESKTOP", "DESKTOP_SESSION")
	return commandSetter{
		candidates: func(absPath string) [][][]string {
			return unixCommands(desktop, absPath)
		},
	}
}

func unixCommands(desktop, absPath string) [][][]string {
	fileURI := (&url.URL{Scheme: "file", Path: absPath}).String()

	var out [][][]string
	switch {
	case common.HasAny(desktop, "gnome", "unity", "budgie", "pantheon", "ubuntu"):
		out = append(out, [][]string{
			{"gsettings", "set", "org.gnome.desktop.background", "picture-uri", fileURI},
			{"gsettings", "set", "org.gnome.desktop.background", "picture-uri-dark", fileURI},
		})
	case common.HasAny(desktop, "cinnamon"):
		out = append(out, [][]string{
			{"gsettings", "set", "org.cinnamon.desktop.background", "picture-uri", fileURI},
		})
	case common.HasAny(desktop, "mate"):
		out = append(out, [][]string{
			{"gsettings", "set", "org.mate.background", "picture-filename", absPath},
		})
	case common.HasAny(desktop, "kde", "plasma"):
		out = append(out, [][]string{
			{"plasma-apply-wallpaperimage", absPath},
		})
	case common.HasAny(desktop, "xfce"):
		out = append(out, [][]string{
			{"xfconf-query", "-c", "xfce4-desktop", "-p", "/backdrop/screen0/monitor0/workspace0/last-image", "-s", absPath},
		})
	}

	return append(out, [][]string{{"feh", "--bg-fill", absPath}})
}
