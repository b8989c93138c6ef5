package shared

type ServerConfig struct {
	Sqlite   SqliteConfig   `mapstructure:"sqlite" validate:"required"`
	Listener ListenerConfig `mapstructure:"listener" validate:"required"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

type SqliteConfig struct {
	PassPhrase string `mapstructure:"passPhrase" validate:"required"`
}

type ListenerConfig struct {
	Port int `mapstructure:"port" validate:"required"`
}

type LoggingConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMb"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
}
