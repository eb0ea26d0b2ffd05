// Package constants provides shared constants for the property engine.
package constants

// DateLayout is the format used for payoff dates in output.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// WeeksPerYear is the number of weekly repayment periods in a year
	WeeksPerYear = 52

	// FortnightsPerYear is the number of fortnightly repayment periods in a year
	FortnightsPerYear = 26

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01
)

// Projection defaults
const (
	// DefaultHorizonYears is the projection length used when none is supplied
	DefaultHorizonYears = 30

	// WarnHorizonYears triggers a configuration warning when exceeded
	WarnHorizonYears = 50
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML scenarios (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// DefaultCacheTTLSeconds is how long cached calculator responses live
	DefaultCacheTTLSeconds = 3600

	// EnvPrefix namespaces server environment overrides
	EnvPrefix = "PROPERTY_ENGINE"

	// RedisAddrEnv overrides the configured redis cache address
	RedisAddrEnv = "PROPERTY_ENGINE_REDIS_ADDR"
)

// Cache backends
const (
	CacheBackendNone   = "none"
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)
