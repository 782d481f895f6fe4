package cfg

// Config is the user-edited configuration file.
type Config struct {
	Feeds       []string `yaml:"feeds"`
	FromEmail   string   `yaml:"from_email"`
	ToEmail     string   `yaml:"to_email"`
	Concurrency int      `yaml:"concurrency"`
}
