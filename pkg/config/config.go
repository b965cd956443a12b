package config

import "time"

// EditorService definition editor_service YAML structure
type EditorService struct {
	Port   string       `mapstructure:"port"`
	Render RenderConfig `mapstructure:"render"`
	Editor EditorConfig `mapstructure:"editor"`
	Sink   SinkConfig   `mapstructure:"sink"`
}

// RenderConfig definition render service client setting
type RenderConfig struct {
	// ProxyTarget backend origin the local /api/* rewrite forwards to
	ProxyTarget    string        `mapstructure:"proxy_target"`
	HealthTimeout  time.Duration `mapstructure:"health_timeout"`
	PollInterval   time.Duration `mapstructure:"poll_interval"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// EditorConfig definition editing session setting
type EditorConfig struct {
	ClampPercent bool   `mapstructure:"clamp_percent"`
	MaxUploadMB  int64  `mapstructure:"max_upload_mb"`
	UploadDir    string `mapstructure:"upload_dir"`
}

// SinkConfig definition where downloaded results are saved
type SinkConfig struct {
	Type  string         `mapstructure:"type"`
	Dir   string         `mapstructure:"dir"`
	MinIO DatabaseConfig `mapstructure:"minio"`
}

// DatabaseConfig definition storage connection setting
type DatabaseConfig struct {
	Host          string `mapstructure:"host"`
	Port          int    `mapstructure:"port"`
	User          string `mapstructure:"user"`
	Password      string `mapstructure:"password"`
	BucketName    string `mapstructure:"bucket_name"`
	UseSSL        bool   `mapstructure:"use_ssl"`
	RetryInterval int    `mapstructure:"retry_interval"`
	RetryCount    int    `mapstructure:"retry_count"`
}

func setDefaults(set func(key string, value interface{})) {
	set("port", "8090")
	set("render.proxy_target", DefaultProxyTarget)
	set("render.health_timeout", 3*time.Second)
	set("render.poll_interval", 2*time.Second)
	set("render.request_timeout", 30*time.Second)
	set("editor.clamp_percent", true)
	set("editor.max_upload_mb", 500)
	set("editor.upload_dir", "./tmp")
	set("sink.type", "file")
	set("sink.dir", "./downloads")
	set("sink.minio.retry_count", 3)
	set("sink.minio.retry_interval", 2)
}
