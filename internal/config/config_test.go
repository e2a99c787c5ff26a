package config

import (
	"testing"
	"time"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Vault.WatchFolder != "BooxDrop" {
		t.Errorf("WatchFolder = %q, want BooxDrop", cfg.Vault.WatchFolder)
	}
	if cfg.Vault.OutputFolder != "Books" {
		t.Errorf("OutputFolder = %q, want Books", cfg.Vault.OutputFolder)
	}
	if cfg.Scan.Schedule != "*/5 * * * *" {
		t.Errorf("Schedule = %q, want */5 * * * *", cfg.Scan.Schedule)
	}
	if cfg.Scan.DoneMode != "rename" {
		t.Errorf("DoneMode = %q, want rename", cfg.Scan.DoneMode)
	}
	if cfg.Citation.Style != "MLA" {
		t.Errorf("Style = %q, want MLA", cfg.Citation.Style)
	}
	if cfg.Citation.CalloutMap != nil {
		t.Error("CalloutMap should default to nil (built-in mapping)")
	}
	if !cfg.Metadata.FetchEnabled {
		t.Error("FetchEnabled should default to true")
	}
	if cfg.Metadata.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, want 10s", cfg.Metadata.HTTPTimeout)
	}
	if !cfg.Logging.LogEvents {
		t.Error("LogEvents should default to true")
	}
}

func TestNewConfig_EnvOverrides(t *testing.T) {
	t.Setenv("WATCH_FOLDER", "Dropzone")
	t.Setenv("CITATION_STYLE", "APA")
	t.Setenv("INSERT_AT_TOP", "true")
	t.Setenv("CALLOUT_MAP", `{"!":"warning"}`)
	t.Setenv("FRONTMATTER_KEYS", "title, author ,source")

	cfg := NewConfig()

	if cfg.Vault.WatchFolder != "Dropzone" {
		t.Errorf("WatchFolder = %q, want Dropzone", cfg.Vault.WatchFolder)
	}
	if cfg.Citation.Style != "APA" {
		t.Errorf("Style = %q, want APA", cfg.Citation.Style)
	}
	if !cfg.Note.InsertAtTop {
		t.Error("InsertAtTop should be overridden to true")
	}
	if cfg.Citation.CalloutMap["!"] != "warning" {
		t.Errorf("CalloutMap = %v, want ! mapped to warning", cfg.Citation.CalloutMap)
	}
	want := []string{"title", "author", "source"}
	if len(cfg.Note.FrontmatterKeys) != len(want) {
		t.Fatalf("FrontmatterKeys = %v, want %v", cfg.Note.FrontmatterKeys, want)
	}
	for i, k := range want {
		if cfg.Note.FrontmatterKeys[i] != k {
			t.Errorf("FrontmatterKeys[%d] = %q, want %q", i, cfg.Note.FrontmatterKeys[i], k)
		}
	}
}

func TestNewConfig_InvalidCalloutMapKeepsDefault(t *testing.T) {
	t.Setenv("CALLOUT_MAP", "{not json")

	cfg := NewConfig()
	if cfg.Citation.CalloutMap != nil {
		t.Error("invalid CALLOUT_MAP must fall back to nil (built-in mapping)")
	}
}
