package browser

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

// System opens URLs with the desktop's default handler.
type System struct{}

func (System) Open(ctx context.Context, url string) error {
	name, args := command(runtime.GOOS, url)
	cmd := exec.CommandContext(context.WithoutCancel(ctx), name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	// the handler detaches; reap it so it does not linger as a zombie
	go cmd.Wait()
	return nil
}

func command(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}
