package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

type Config struct {
	ClientID       string `toml:"client_id"`
	ClientSecret   string `toml:"client_secret"`
	DownloadsDir   string `toml:"downloads_dir"`
	FilePattern    string `toml:"file_pattern"`
	Calendar       string `toml:"calendar"`
	Recursive      bool   `toml:"recursive"`
	VerbosityLevel int    `toml:"verbosity_level"`
}

var oauthConfig *oauth2.Config
var configDir string
var verbosityLevel int

func initOAuthConfig(config *Config) {
	oauthConfig = &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  "urn:ietf:wg:oauth:2.0:oob",
		Scopes:       []string{calendar.CalendarScope},
	}
}

func readConfig(filename string) (*Config, error) {
	// Try first current dir, then `$HOME/.config/icsimport/`
	data, err := os.ReadFile(filename)
	if err != nil {
		data, err = os.ReadFile(os.Getenv("HOME") + "/.config/icsimport/" + filename)
		if err != nil {
			return nil, err
		}
		configDir = os.Getenv("HOME") + "/.config/icsimport/"
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	verbosityLevel = config.VerbosityLevel

	return &config, nil
}

// sourceDir returns the directory to scan for calendar files: the
// config value if set, otherwise the user's Downloads folder.
func (c *Config) sourceDir() string {
	if c.DownloadsDir != "" {
		return c.DownloadsDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, "Downloads")
}

func (c *Config) pattern() string {
	if c.FilePattern != "" {
		return c.FilePattern
	}
	return "*.ics"
}

func (c *Config) calendarSelector() string {
	if c.Calendar != "" {
		return c.Calendar
	}
	return "primary"
}

func printVerbosely(verbosity int, format string, a ...interface{}) {
	// Print only if verbosity is higher than verbosityLevel
	// verbosityLevel is set in the config file or via --verbose
	// 0 - only the final report and critical errors
	// 1 - list files being processed
	// 2 - list events being submitted
	// 3 - report everything, including skipped entries and UID lookups
	if verbosity <= verbosityLevel {
		fmt.Printf(format, a...)
	}
}
