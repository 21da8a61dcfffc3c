package configs

type Logging struct {
	Level      string `yaml:"Level"`      // debug, info, warn, error
	FilePath   string `yaml:"FilePath"`   // Empty logs to stderr only
	MaxSizeMb  int    `yaml:"MaxSizeMb"`  // Rotate after this size
	MaxBackups int    `yaml:"MaxBackups"` // Rotated files to keep
	MaxAgeDays int    `yaml:"MaxAgeDays"` // Days to keep rotated files
}

func (l *Logging) Validate() {

	if l.Level == `` {
		l.Level = `info`
	}

	if l.MaxSizeMb < 1 {
		l.MaxSizeMb = 10
	}

	if l.MaxBackups < 1 {
		l.MaxBackups = 3
	}

	if l.MaxAgeDays < 1 {
		l.MaxAgeDays = 30
	}
}
