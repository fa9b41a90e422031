package listen

import (
	"go/parser"
	"go/token"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// The gateway and its sources must build without any native audio library.
func TestNoNativeImports(t *testing.T) {
	native := []string{
		"C",
		"voxbot/internal/audio",
		"voxbot/internal/tts",
		"voxbot/internal/notify",
		"github.com/gordonklaus/portaudio",
		"github.com/faiface/beep",
		"github.com/ggerganov/whisper.cpp",
	}

	names, err := filepath.Glob("*.go")
	if err != nil {
		t.Fatal(err)
	}

	fset := token.NewFileSet()
	for _, name := range names {
		if strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, name, nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		for _, imp := range f.Imports {
			path, _ := strconv.Unquote(imp.Path.Value)
			for _, n := range native {
				if path == n || strings.HasPrefix(path, n+"/") {
					t.Errorf("%s imports %s", name, path)
				}
			}
		}
	}
}
