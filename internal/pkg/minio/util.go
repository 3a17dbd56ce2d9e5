package minio

import (
	"StartLinker/internal/api/config"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
)

// UploadFile 上传文件到指定桶
func UploadFile(ctx context.Context, bucket string, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	if Client == nil {
		return "", fmt.Errorf("minio client is not initialized")
	}

	uploadInfo, err := Client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	return uploadInfo.Key, nil
}

// DeleteFile 删除指定桶中的文件
func DeleteFile(ctx context.Context, bucket string, objectName string) error {
	if Client == nil {
		return fmt.Errorf("minio client is not initialized")
	}

	err := Client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}

	return nil
}

// GetPublicURL 获取公共媒体桶中文件的外部访问URL
func GetPublicURL(objectName string) string {
	cfg := config.Cfg.MinIO

	endpoint := cfg.ExternalEndpoint
	protocol := "https"
	if endpoint == "" {
		endpoint = cfg.InternalEndpoint
		if !cfg.InternalUseSSL {
			protocol = "http"
		}
	}

	return fmt.Sprintf("%s://%s/%s/%s", protocol, endpoint, MediaBucket, objectName)
}

// PresignedGet 为私有桶中的对象签发限时读取URL
func PresignedGet(ctx context.Context, bucket string, objectName string, expiry time.Duration) (*url.URL, error) {
	if Client == nil {
		return nil, fmt.Errorf("minio client is not initialized")
	}
	return Client.PresignedGetObject(ctx, bucket, objectName, expiry, url.Values{})
}
