package config

import "time"

const (
	DefaultHost     = "0.0.0.0"
	DefaultPort     = 5000
	DefaultLogLevel = "info"

	DefaultModel       = "claude-3-5-haiku-latest"
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.0

	DefaultAgentMode           = "react"
	DefaultAgentMaxIterations  = 3
	DefaultHandleParsingErrors = true

	DefaultWikipediaAPIURL         = "https://%s.wikipedia.org/w/api.php"
	DefaultWikipediaLanguage       = "en"
	DefaultWikipediaUserAgent      = "askagent/1.0 (https://github.com/askagent/askagent)"
	DefaultWikipediaTopK           = 3
	DefaultWikipediaMaxQueryLength = 300
	DefaultWikipediaMaxDocChars    = 4000
	DefaultWikipediaRatePerSecond  = 5.0
	DefaultWikipediaTimeout        = 20 * time.Second

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 180 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

var DefaultCORSOrigins = []string{"*"}
