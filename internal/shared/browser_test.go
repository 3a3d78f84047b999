package shared

import (
	"testing"
)

func TestBrowserCommand(t *testing.T) {
	orig := getRuntime
	t.Cleanup(func() { getRuntime = orig })

	tc := []struct {
		goos string
		want string
		err  bool
	}{
		{goos: "darwin", want: "open"},
		{goos: "linux", want: "xdg-open"},
		{goos: "windows", want: "rundll32"},
		{goos: "plan9", err: true},
	}

	for _, tt := range tc {
		t.Run(tt.goos, func(t *testing.T) {
			t.Setenv("BROWSER", "")
			getRuntime = func() string { return tt.goos }

			cmd, err := browserCommand("https://example.com")
			if tt.err {
				if err == nil {
					t.Fatal("expected unsupported platform error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cmd.Args[0] != tt.want {
				t.Errorf("expected %s, got %s", tt.want, cmd.Args[0])
			}
			if cmd.Args[len(cmd.Args)-1] != "https://example.com" {
				t.Errorf("url should be the last argument, got %v", cmd.Args)
			}
		})
	}

	t.Run("BROWSER override", func(t *testing.T) {
		t.Setenv("BROWSER", "my-browser")
		cmd, err := browserCommand("https://example.com")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cmd.Args[0] != "my-browser" {
			t.Errorf("expected override, got %s", cmd.Args[0])
		}
	})
}
