package cfg

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

// Options holds the command-line surface. The config and database paths
// default under the user's config and cache directories.
type Options struct {
	Config   string `long:"config" env:"FEEDMAIL_CONFIG" description:"Path to the configuration file"`
	Database string `long:"database" env:"FEEDMAIL_DATABASE" description:"Path to the database file"`
	Debug    bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`

	Fetch FetchCommand `command:"fetch" description:"Fetch feeds and store new items"`
	Mail  MailCommand  `command:"mail" description:"Mail a digest of unread items"`
}

type FetchCommand struct{}

type MailCommand struct {
	Dry bool `long:"dry" description:"Print the message instead of sending it"`
}

// ErrHelp reports that usage output was requested and printed; the caller
// should exit cleanly without doing any work.
var ErrHelp = errors.New("help requested")

// ParseArgs parses command-line flags and environment variables, returning
// the options and the name of the selected command.
func ParseArgs(args []string) (*Options, string, error) {
	var opts Options

	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.ParseArgs(args); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			return nil, "", ErrHelp
		}
		return nil, "", fmt.Errorf("failed to parse arguments: %w", err)
	}

	if opts.Config == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, "", fmt.Errorf("failed to locate config directory: %w", err)
		}
		opts.Config = filepath.Join(dir, "feedmail", "feedmail.yaml")
	}
	if opts.Database == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, "", fmt.Errorf("failed to locate cache directory: %w", err)
		}
		opts.Database = filepath.Join(dir, "feedmail", "feedmail.db")
	}

	return &opts, parser.Active.Name, nil
}

// Load reads and validates the configuration file. Unknown fields are
// rejected so a typo fails loudly instead of being ignored.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if config.Concurrency < 1 {
		return nil, fmt.Errorf("concurrency must be a positive integer, got %d", config.Concurrency)
	}
	if config.FromEmail == "" || config.ToEmail == "" {
		return nil, errors.New("from_email and to_email must be set")
	}

	return &config, nil
}

const exampleConfig = `# feedmail configuration
feeds:
  - https://blog.golang.org/feed.atom
from_email: feedmail@example.com
to_email: feedmail@example.com
concurrency: 1
`

// WriteExample creates an example configuration file at path unless one
// already exists.
func WriteExample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	if err := os.WriteFile(path, []byte(exampleConfig), 0o644); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	return nil
}

// EnsureParentDir creates the parent directory of path if it is missing.
func EnsureParentDir(path string) error {
	parent := filepath.Dir(path)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", parent, err)
	}
	return nil
}
