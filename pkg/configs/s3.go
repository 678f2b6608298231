package configs

import (
	"fmt"

	"github.com/spf13/viper"
)

// BlobBackend 图片字节的存放位置.
type BlobBackend string

const (
	BlobBackendS3     BlobBackend = "s3"
	BlobBackendMemory BlobBackend = "memory"
)

// S3Config MinIO/S3 存储配置.
type S3Config struct {
	Backend         BlobBackend `mapstructure:"backend"           rule:"oneof=s3 memory"`
	Endpoint        string      `mapstructure:"endpoint"`
	AccessKeyID     string      `mapstructure:"access_key_id"`
	SecretAccessKey string      `mapstructure:"secret_access_key"`
	UseSSL          bool        `mapstructure:"use_ssl"`
	BucketName      string      `mapstructure:"bucket_name"       rule:"required"`
	Region          string      `mapstructure:"region"`
	KeyPrefix       string      `mapstructure:"key_prefix"` // 对象键前缀，例如 images/
	CreateBucket    bool        `mapstructure:"create_bucket"`
}

const (
	DefaultS3Backend         = BlobBackendS3
	DefaultS3Endpoint        = "localhost:9000"
	DefaultS3AccessKeyID     = "minioadmin"
	DefaultS3SecretAccessKey = "minioadmin"
	DefaultS3UseSSL          = false
	DefaultS3BucketName      = "listingvault"
	DefaultS3Region          = "us-east-1"
	DefaultS3KeyPrefix       = "images/"
)

// GetEndpointURL 获取完整的端点 URL.
func (c *S3Config) GetEndpointURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s", scheme, c.Endpoint)
}

// setDefaults 设置 S3 配置的默认值.
func (c *S3Config) setDefaults(v *viper.Viper) {
	v.SetDefault("s3.backend", DefaultS3Backend)
	v.SetDefault("s3.endpoint", DefaultS3Endpoint)
	v.SetDefault("s3.access_key_id", DefaultS3AccessKeyID)
	v.SetDefault("s3.secret_access_key", DefaultS3SecretAccessKey)
	v.SetDefault("s3.use_ssl", DefaultS3UseSSL)
	v.SetDefault("s3.bucket_name", DefaultS3BucketName)
	v.SetDefault("s3.region", DefaultS3Region)
	v.SetDefault("s3.key_prefix", DefaultS3KeyPrefix)
	v.SetDefault("s3.create_bucket", true)
}
