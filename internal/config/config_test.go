package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadArgsDefaults(t *testing.T) {
	cfg, err := LoadArgs([]string{"-config", ""}, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.Gateway.BaseURL != defaultGatewayURL {
		t.Fatalf("gateway URL = %q, want %q", cfg.Gateway.BaseURL, defaultGatewayURL)
	}
	if cfg.Gateway.WSURL != "ws://localhost:3000/events" {
		t.Fatalf("ws URL = %q", cfg.Gateway.WSURL)
	}
	if !cfg.Gateway.Live {
		t.Fatalf("live updates should default on")
	}
	if cfg.UI.StartView.Name != ViewMenu {
		t.Fatalf("start view = %q, want menu", cfg.UI.StartView.Name)
	}
	if cfg.UI.Theme != defaultTheme {
		t.Fatalf("theme = %q, want %q", cfg.UI.Theme, defaultTheme)
	}
}

func TestLoadArgsFlagBeatsEnv(t *testing.T) {
	cfg, err := LoadArgs(
		[]string{"-config", "", "-gateway-url", "https://flag.example"},
		[]string{envGatewayURL + "=https://env.example"},
	)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.Gateway.BaseURL != "https://flag.example" {
		t.Fatalf("gateway URL = %q, want flag value", cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.WSURL != "wss://flag.example/events" {
		t.Fatalf("ws URL = %q, want derived wss endpoint", cfg.Gateway.WSURL)
	}
}

func TestLoadArgsEnvBeatsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "gateway:\n  url: https://file.example\n  token: filetoken\nui:\n  theme: pink\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg, err := LoadArgs(
		[]string{"-config", path},
		[]string{envGatewayURL + "=https://env.example"},
	)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if cfg.Gateway.BaseURL != "https://env.example" {
		t.Fatalf("gateway URL = %q, want env value", cfg.Gateway.BaseURL)
	}
	if cfg.Gateway.Token != "filetoken" {
		t.Fatalf("token = %q, want file value", cfg.Gateway.Token)
	}
	if cfg.UI.Theme != "pink" {
		t.Fatalf("theme = %q, want file value", cfg.UI.Theme)
	}
}

func TestLoadArgsBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(":\nnot yaml: ["), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	if _, err := LoadArgs([]string{"-config", path}, nil); err == nil {
		t.Fatalf("expected an error for malformed YAML")
	}
}

func TestParseStartView(t *testing.T) {
	cases := []struct {
		in        string
		wantName  string
		wantPhone string
		wantErr   bool
	}{
		{in: "menu", wantName: ViewMenu},
		{in: "Phonebook", wantName: ViewPhonebook},
		{in: "device", wantName: ViewDevice},
		{in: "messages:+15550001", wantName: ViewMessages, wantPhone: "+15550001"},
		{in: "compose:+15550001", wantName: ViewCompose, wantPhone: "+15550001"},
		{in: "messages", wantErr: true},
		{in: "compose", wantErr: true},
		{in: "menu:+15550001", wantErr: true},
		{in: "bogus", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			view, err := ParseStartView(tc.in)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("ParseStartView(%q) succeeded, want error", tc.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStartView(%q): %v", tc.in, err)
			}
			if view.Name != tc.wantName || view.Phone != tc.wantPhone {
				t.Fatalf("ParseStartView(%q) = %+v", tc.in, view)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	good, err := LoadArgs([]string{"-config", ""}, nil)
	if err != nil {
		t.Fatalf("LoadArgs: %v", err)
	}
	if err := Validate(good); err != nil {
		t.Fatalf("Validate(defaults): %v", err)
	}

	bad := good
	bad.Gateway.BaseURL = "localhost:3000"
	if err := Validate(bad); err == nil {
		t.Fatalf("expected an error for a scheme-less gateway URL")
	}
}
