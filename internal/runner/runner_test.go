package runner

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/harborline/shipyard/internal/manifest"
)

func TestBuildCommand(t *testing.T) {
	tests := []struct {
		name     string
		svc      manifest.Service
		wantBin  string
		wantArgs []string
		wantErr  bool
	}{
		{
			name:     "explicit entrypoint wins",
			svc:      manifest.Service{Name: "api", Runtime: "go1.x", Entrypoint: []string{"./api", "--serve"}},
			wantBin:  "./api",
			wantArgs: []string{"--serve"},
		},
		{
			name:     "go runtime",
			svc:      manifest.Service{Name: "api", Runtime: "go1.x"},
			wantBin:  "go",
			wantArgs: []string{"run", "."},
		},
		{
			name:     "node runtime",
			svc:      manifest.Service{Name: "web", Runtime: "node20"},
			wantBin:  "node",
			wantArgs: []string{"."},
		},
		{
			name:     "python runtime",
			svc:      manifest.Service{Name: "etl", Runtime: "python3.12"},
			wantBin:  "python3",
			wantArgs: []string{"main.py"},
		},
		{
			name:    "unknown runtime without entrypoint",
			svc:     manifest.Service{Name: "api", Runtime: "java21"},
			wantErr: true,
		},
		{
			name:    "no runtime no entrypoint",
			svc:     manifest.Service{Name: "api"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin, args, err := buildCommand(&tt.svc)
			if tt.wantErr {
				if err == nil {
					t.Fatal("buildCommand() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("buildCommand() error: %v", err)
			}
			if bin != tt.wantBin || !reflect.DeepEqual(args, tt.wantArgs) {
				t.Errorf("buildCommand() = %q %v, want %q %v", bin, args, tt.wantBin, tt.wantArgs)
			}
		})
	}
}

func TestParseEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.env")
	content := "# local overrides\nLOG_LEVEL=debug\n\nREGION=eu-west-1\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	env, err := ParseEnvFile(path)
	if err != nil {
		t.Fatalf("ParseEnvFile() error: %v", err)
	}
	want := []string{"LOG_LEVEL=debug", "REGION=eu-west-1"}
	if !reflect.DeepEqual(env, want) {
		t.Errorf("env = %v, want %v", env, want)
	}
}

func TestParseEnvFileRejectsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.env")
	if err := os.WriteFile(path, []byte("NOT A PAIR\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	if _, err := ParseEnvFile(path); err == nil {
		t.Fatal("ParseEnvFile() succeeded on malformed line")
	}
}

func TestLogPath(t *testing.T) {
	want := filepath.Join("proj", ".shipyard", "logs", "api.log")
	if got := LogPath("proj", "api"); got != want {
		t.Errorf("LogPath = %q, want %q", got, want)
	}
}
