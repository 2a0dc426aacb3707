package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/labstack/gommon/log"
)

// sampleWriteups returns n write-ups; every fourth one is a Windows box.
func sampleWriteups(n int) []Writeup {
	ws := make([]Writeup, 0, n)
	for i := 1; i <= n; i++ {
		w := Writeup{
			ID:         fmt.Sprintf("box-%02d", i),
			Title:      fmt.Sprintf("Box %02d", i),
			Platform:   "HackTheBox",
			OS:         "Linux",
			Difficulty: Difficulties[i%len(Difficulties)],
			Date:       fmt.Sprintf("2024-03-%02d", i),
			Summary:    "summary",
			Tags:       []string{fmt.Sprintf("Box%02d", i), "web"},
		}
		if i%4 == 0 {
			w.OS = "Windows"
			w.Platform = "TryHackMe"
			w.Tags = append(w.Tags, "windows")
		}
		ws = append(ws, w)
	}
	return ws
}

func writeJSON(t *testing.T, dir, name string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal %s: %v", name, err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), b, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func quietLogger() *log.Logger {
	l := log.New("test")
	l.SetOutput(io.Discard)
	return l
}
