package config

// Config represents the complete configuration structure
type Config struct {
	Sarv    SarvConfig    `mapstructure:"sarv"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SarvConfig holds the SarvCRM connection and credential details
type SarvConfig struct {
	// URL overrides the cloud API endpoint
	URL string `mapstructure:"url"`
	// FrontendURL overrides the cloud frontend used for record links
	FrontendURL string `mapstructure:"frontend_url"`
	UType       string `mapstructure:"utype"`
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	// PasswordIsMD5 marks the password as already MD5-hashed
	PasswordIsMD5 bool   `mapstructure:"password_is_md5"`
	LoginType     string `mapstructure:"login_type"`
	Language      string `mapstructure:"language"`
	// PageSize is the page size used when fetching all records
	PageSize int `mapstructure:"page_size"`
	// TimeoutSeconds bounds each HTTP request
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// OutputConfig controls how records are printed
type OutputConfig struct {
	// DefaultFields are printed for every record when the caller does not
	// select fields explicitly
	DefaultFields []string `mapstructure:"default_fields"`
	ShowURLs      bool     `mapstructure:"show_urls"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}
