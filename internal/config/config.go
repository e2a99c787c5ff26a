package config

import (
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Vault
		Scan
		Citation
		Note
		Metadata
		Logging
		Global
	}

	Vault struct {
		Dir          string // Root directory of the vault
		WatchFolder  string // Folder the device drops exports into, relative to Dir
		OutputFolder string // Folder book notes are written to, relative to Dir
		LogFolder    string // Folder for daily event logs, relative to Dir
	}
	Scan struct {
		Schedule     string // Cron format: "*/5 * * * *" = every 5 minutes
		WatchEnabled bool   // React to filesystem events in addition to the schedule
		DoneMode     string // "rename" or "delete"
		ImportPDFs   bool   // Create stub notes for PDFs in the watch folder
	}
	Citation struct {
		Style      string            // "MLA", "APA" or "Chicago"
		CalloutMap map[string]string // Annotation symbol -> callout kind
	}
	Note struct {
		SectionTitle     string   // Heading of the highlights section
		InsertAtTop      bool     // New citations go above existing ones
		NamingConvention string   // "TitleAuthor" or "TitleOnly"
		FrontmatterKeys  []string // Ordered key list; empty selects the built-in default
		TemplatePath     string   // Optional vault-relative template for new notes
	}
	Metadata struct {
		FetchEnabled bool          // Query bibliographic sources for new books
		HTTPTimeout  time.Duration // Per-request timeout for metadata lookups
	}
	Logging struct {
		LogEvents bool // Append import events to daily log files
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("vault_dir", ".")
	v.SetDefault("watch_folder", DefaultWatchFolder)
	v.SetDefault("output_folder", DefaultOutputFolder)
	v.SetDefault("log_folder", DefaultLogFolder)
	v.SetDefault("scan_schedule", "*/5 * * * *") // Every 5 minutes
	v.SetDefault("watch_enabled", true)
	v.SetDefault("done_mode", "rename")
	v.SetDefault("import_pdfs", false)
	v.SetDefault("citation_style", "MLA")
	v.SetDefault("callout_map", "")
	v.SetDefault("section_title", "Highlights")
	v.SetDefault("insert_at_top", false)
	v.SetDefault("naming_convention", "TitleAuthor")
	v.SetDefault("frontmatter_keys", "")
	v.SetDefault("template_path", "")
	v.SetDefault("fetch_metadata", true)
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("log_events", true)
	v.SetDefault("shutdown_timeout_in_seconds", 2)

	return &Config{
		Vault: Vault{
			Dir:          v.GetString("VAULT_DIR"),
			WatchFolder:  v.GetString("WATCH_FOLDER"),
			OutputFolder: v.GetString("OUTPUT_FOLDER"),
			LogFolder:    v.GetString("LOG_FOLDER"),
		},
		Scan: Scan{
			Schedule:     v.GetString("SCAN_SCHEDULE"),
			WatchEnabled: v.GetBool("WATCH_ENABLED"),
			DoneMode:     v.GetString("DONE_MODE"),
			ImportPDFs:   v.GetBool("IMPORT_PDFS"),
		},
		Citation: Citation{
			Style:      v.GetString("CITATION_STYLE"),
			CalloutMap: parseCalloutMap(v.GetString("CALLOUT_MAP")),
		},
		Note: Note{
			SectionTitle:     v.GetString("SECTION_TITLE"),
			InsertAtTop:      v.GetBool("INSERT_AT_TOP"),
			NamingConvention: v.GetString("NAMING_CONVENTION"),
			FrontmatterKeys:  parseKeyList(v.GetString("FRONTMATTER_KEYS")),
			TemplatePath:     v.GetString("TEMPLATE_PATH"),
		},
		Metadata: Metadata{
			FetchEnabled: v.GetBool("FETCH_METADATA"),
			HTTPTimeout:  v.GetDuration("HTTP_TIMEOUT"),
		},
		Logging: Logging{
			LogEvents: v.GetBool("LOG_EVENTS"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}
}

// parseCalloutMap decodes the CALLOUT_MAP JSON object. An invalid value
// is rejected with a warning and nil is returned, which selects the
// built-in mapping downstream, so a bad edit never takes the pipeline
// down.
func parseCalloutMap(raw string) map[string]string {
	if raw == "" {
		return nil
	}
	var m map[string]string
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		log.Printf("config: invalid CALLOUT_MAP %q, keeping defaults: %v", raw, err)
		return nil
	}
	return m
}

// parseKeyList splits a comma-separated key list, dropping empty items.
func parseKeyList(raw string) []string {
	if raw == "" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}
