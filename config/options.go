package config // import "github.com/storyhouse/storyhouse/config"

const (
	defaultLogFile           = "storyhouse.log"
	defaultLogLevel          = "debug"
	defaultLogFileMaxSize    = 20
	defaultLogFileMaxBackups = 3
	defaultLogFileMaxAge     = 28
	defaultLogCompress       = false
	defaultPort              = 8080
	defaultHost              = "0.0.0.0"
	defaultData              = "/var/opt/storyhouse"
	defaultDSN               = defaultData + "/storyhouse.db"
	defaultStorageBackend    = "minio"
	defaultStorageEndpoint   = "127.0.0.1:9000"
	defaultStorageBucket     = "storyhouse"
	defaultStorageUseSSL     = false
	defaultWorkerPoolSize    = 4
)

// Why use mapstructure instead of json, if use json as field tags, it can't recgnize the field, since the viper use mapstructure.
// see: https://pkg.go.dev/github.com/mitchellh/mapstructure#hdr-Field_Tags
type Options struct {
	// LogFile is the file to write logs to
	LogFile string `mapstructure:"log_file"`
	// LogLevel is the level of logging to show
	LogLevel string `mapstructure:"log_level"`
	// LogFileMaxSize is the maximum size of the log file before it is rotated
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the maximum number of log files to keep
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the maximum number of days to keep a log file
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogCompress is whether or not to compress the log files
	LogCompress bool `mapstructure:"log_compress"`
	// DSN is the path of the sqlite database holding jobs and migration history
	DSN string `mapstructure:"dsn_uri"`
	// Port is the port to listen on
	Port int `mapstructure:"port"`
	// Host is the host to listen on
	Host string `mapstructure:"host"`
	// Data is the directory to store local data
	Data string `mapstructure:"data"`
	// Version is the version of the application
	Version string `mapstructure:"version"`
	// StorageBackend selects the object store implementation: minio or memory
	StorageBackend string `mapstructure:"storage_backend"`
	// StorageEndpoint is the S3/R2 compatible endpoint for book content
	StorageEndpoint string `mapstructure:"storage_endpoint"`
	// StorageBucket is the bucket holding book metadata and chapters
	StorageBucket    string `mapstructure:"storage_bucket"`
	StorageAccessKey string `mapstructure:"storage_access_key"`
	StorageSecretKey string `mapstructure:"storage_secret_key"`
	StorageUseSSL    bool   `mapstructure:"storage_use_ssl"`
	// WorkerPoolSize is the number of chapter registration workers
	WorkerPoolSize int `mapstructure:"worker_pool_size"`
}

func GetDefaultOptions() *Options {
	Opts = &Options{
		LogFile:           defaultLogFile,
		LogLevel:          defaultLogLevel,
		LogFileMaxSize:    defaultLogFileMaxSize,
		LogFileMaxBackups: defaultLogFileMaxBackups,
		LogFileMaxAge:     defaultLogFileMaxAge,
		LogCompress:       defaultLogCompress,
		DSN:               defaultDSN,
		Port:              defaultPort,
		Host:              defaultHost,
		Data:              defaultData,
		Version:           defaultVersion,
		StorageBackend:    defaultStorageBackend,
		StorageEndpoint:   defaultStorageEndpoint,
		StorageBucket:     defaultStorageBucket,
		StorageUseSSL:     defaultStorageUseSSL,
		WorkerPoolSize:    defaultWorkerPoolSize,
	}
	return Opts
}
