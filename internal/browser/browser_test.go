package browser

import "testing"

func TestCommand(t *testing.T) {
	tests := []struct {
		goos string
		name string
		argc int
	}{
		{"linux", "xdg-open", 1},
		{"freebsd", "xdg-open", 1},
		{"darwin", "open", 1},
		{"windows", "rundll32", 2},
	}
	for _, tt := range tests {
		name, args := command(tt.goos, "https://www.github.com")
		if name != tt.name || len(args) != tt.argc {
			t.Errorf("%s: got %s %v", tt.goos, name, args)
		}
		if args[len(args)-1] != "https://www.github.com" {
			t.Errorf("%s: url must be the last argument, got %v", tt.goos, args)
		}
	}
}
