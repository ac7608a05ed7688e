package wallpaper

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"
)

// Setter applies an image file as the desktop background.
// Implementations are always given an absolute path to a persisted file.
type Setter interface {
	SetWallpaper(ctx context.Context, absPath string) error
}

// NopSetter leaves the desktop untouched. Used in headless mode, where the
// composite is only written to disk.
type NopSetter struct{}

func (NopSetter) SetWallpaper(ctx context.Context, absPath string) error { return nil }

// SetterFunc adapts a function to the Setter interface.
type SetterFunc func(ctx context.Context, absPath string) error

func (f SetterFunc) SetWallpaper(ctx context.Context, absPath string) error {
	return f(ctx, absPath)
}

type runFunc func(ctx context.Context, name string, args ...string) error

func runCommand(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// commandSetter runs external desktop tools. Each candidate is a list of
// commands that must all succeed; the first candidate that works wins.
type commandSetter struct {
	candidates func(absPath string) [][][]string
	run        runFunc
}

func (s commandSetter) SetWallpaper(ctx context.Context, absPath string) error {
	run := s.run
	if run == nil {
		run = runCommand
	}

	var lastErr error
	for _, cmds := range s.candidates(absPath) {
		lastErr = nil
		for _, c := range cmds {
			if err := run(ctx, c[0], c[1:]...); err != nil {
				lastErr = err
				break
			}
		}
		if lastErr == nil {
			return nil
		}
		log.Printf("wallpaper: %v", lastErr)
	}
	if lastErr == nil {
		return fmt.Errorf("no wallpaper command available")
	}
	return fmt.Errorf("set wallpaper: %w", lastErr)
}
