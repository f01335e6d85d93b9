package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFrom_MissingFileGivesDefaults(t *testing.T) {
	t.Setenv("ROSTER_API_URL", "")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Table.PageSize != 7 || cfg.Table.SearchDelayMS != 300 || cfg.API.Timeout != 15 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("ROSTER_API_URL", "")
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SetValue("api.url", "http://school.test:9000"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetValue("table.page_size", "25"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SetValue("table.search_delay_ms", "0"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.API.URL != "http://school.test:9000" || loaded.Table.PageSize != 25 {
		t.Fatalf("round trip lost values: %+v", loaded)
	}
	if loaded.Table.SearchDelayMS != 0 || loaded.SearchDelay() >= 0 {
		t.Fatalf("zero delay must survive and mean no debounce, got %d / %v", loaded.Table.SearchDelayMS, loaded.SearchDelay())
	}
}

func TestEnvOverridesAPIURL(t *testing.T) {
	t.Setenv("ROSTER_API_URL", "http://env.test")
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.URL != "http://env.test" {
		t.Fatalf("API.URL = %q", cfg.API.URL)
	}
}

func TestLoadFileFrom_IgnoresEnv(t *testing.T) {
	t.Setenv("ROSTER_API_URL", "http://env.test")
	t.Setenv("ROSTER_DATABASE_URL", "postgres://env.test/db")
	cfg, err := LoadFileFrom(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.API.URL != "" || cfg.Database.URL != "" {
		t.Fatalf("env leaked into the file config: %+v", cfg)
	}
}

func TestSetValue_Validation(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"table.page_size", "0", true},
		{"table.page_size", "501", true},
		{"table.page_size", "abc", true},
		{"table.pagesize", "10", false},
		{"table.search_delay_ms", "0", false},
		{"nope.key", "1", true},
		{"database.url", "postgres://localhost/masomo", false},
	}
	for _, tt := range tests {
		err := cfg.SetValue(tt.key, tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("SetValue(%s, %s) err = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
		}
	}

	if v, _ := cfg.GetValue("table.page_size"); v != "10" {
		t.Fatalf("page_size = %s", v)
	}
	if cfg.SearchDelay() != -1 {
		t.Fatalf("SearchDelay = %v", cfg.SearchDelay())
	}
	cfg.Table.SearchDelayMS = 250
	if cfg.SearchDelay() != 250*time.Millisecond {
		t.Fatalf("SearchDelay = %v", cfg.SearchDelay())
	}
}

func TestSession_SaveLoadClear(t *testing.T) {
	t.Setenv("ROSTER_TOKEN", "")
	path := filepath.Join(t.TempDir(), "session.toml")

	s, err := LoadSessionFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if s.Valid() {
		t.Fatal("missing session should not be valid")
	}

	s = &Session{Token: "abc", Username: "admin"}
	if err := s.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("session file mode = %v", info.Mode().Perm())
	}

	loaded, err := LoadSessionFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if !loaded.Valid() || loaded.Username != "admin" {
		t.Fatalf("loaded = %+v", loaded)
	}

	if err := ClearSessionAt(path); err != nil {
		t.Fatal(err)
	}
	if err := ClearSessionAt(path); err != nil {
		t.Fatal("clearing twice should not fail")
	}
}

func TestSession_EnvTokenWins(t *testing.T) {
	t.Setenv("ROSTER_TOKEN", "from-env")
	s, err := LoadSessionFrom(filepath.Join(t.TempDir(), "session.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if s.Token != "from-env" {
		t.Fatalf("token = %q", s.Token)
	}
}
