// Package s3 基于 MinIO SDK 实现图片对象存储.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"

	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/yeisme/listingvault/pkg/configs"
	"github.com/yeisme/listingvault/pkg/internal/storage/blob"
	nlog "github.com/yeisme/listingvault/pkg/log"
)

// Client 包装 MinIO 客户端，所有对象写入同一个 bucket.
type Client struct {
	*minio.Client

	bucket string
	prefix string
}

var _ blob.Store = (*Client)(nil)

// New 初始化 MinIO 客户端，按配置创建缺失的 bucket.
func New(ctx context.Context, cfg *configs.S3Config) (*Client, error) {
	endpoint := cfg.Endpoint
	secure := cfg.UseSSL

	// 允许 endpoint 带 scheme
	if u, err := url.Parse(endpoint); err == nil && u.Host != "" {
		endpoint = u.Host
		secure = secure || u.Scheme == "https"
	}

	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	cli.SetAppInfo("listingvault", configs.AppVersion)

	exists, err := cli.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.BucketName, err)
	}

	if !exists {
		if !cfg.CreateBucket {
			return nil, fmt.Errorf("bucket %s does not exist", cfg.BucketName)
		}

		if err := cli.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.BucketName, err)
		}

		nlog.Logger().Info().Str("bucket", cfg.BucketName).Msg("bucket created")
	}

	nlog.Logger().Info().Str("endpoint", cfg.Endpoint).Str("bucket", cfg.BucketName).Msg("s3 connected")

	return &Client{Client: cli, bucket: cfg.BucketName, prefix: cfg.KeyPrefix}, nil
}

func (c *Client) objectKey(key string) string {
	return c.prefix + key
}

// Put 上传对象.
func (c *Client) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (blob.ObjectInfo, error) {
	info, err := c.PutObject(ctx, c.bucket, c.objectKey(key), r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return blob.ObjectInfo{}, fmt.Errorf("put object %s: %w", key, err)
	}

	return blob.ObjectInfo{Key: key, Size: info.Size, ContentType: contentType, LastModified: info.LastModified}, nil
}

// Get 获取对象；不存在时返回 blob.ErrNotFound.
func (c *Client) Get(ctx context.Context, key string) (io.ReadCloser, blob.ObjectInfo, error) {
	obj, err := c.GetObject(ctx, c.bucket, c.objectKey(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, blob.ObjectInfo{}, fmt.Errorf("get object %s: %w", key, err)
	}

	st, err := obj.Stat()
	if err != nil {
		_ = obj.Close()

		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, blob.ObjectInfo{}, blob.ErrNotFound
		}

		return nil, blob.ObjectInfo{}, fmt.Errorf("stat object %s: %w", key, err)
	}

	return obj, blob.ObjectInfo{Key: key, Size: st.Size, ContentType: st.ContentType, LastModified: st.LastModified}, nil
}

// Delete 删除对象.
func (c *Client) Delete(ctx context.Context, key string) error {
	err := c.RemoveObject(ctx, c.bucket, c.objectKey(key), minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		return fmt.Errorf("remove object %s: %w", key, err)
	}

	return nil
}

// List 列出前缀下的对象，返回的键不含配置的 key_prefix.
func (c *Client) List(ctx context.Context, prefix string) ([]blob.ObjectInfo, error) {
	var out []blob.ObjectInfo

	for obj := range c.ListObjects(ctx, c.bucket, minio.ListObjectsOptions{Prefix: c.objectKey(prefix), Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}

		out = append(out, blob.ObjectInfo{
			Key:          obj.Key[len(c.prefix):],
			Size:         obj.Size,
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
	}

	return out, nil
}

// HealthCheck 检查 bucket 可访问.
func (c *Client) HealthCheck(ctx context.Context) error {
	ok, err := c.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}

	if !ok {
		return errors.New("bucket missing")
	}

	return nil
}
