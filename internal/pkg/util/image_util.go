package util

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/disintegration/imaging"
)

const AvatarThumbSize = 256

// GetSafeContentType 通过文件头嗅探真实的 MIME 类型，不信任客户端声明
func GetSafeContentType(reader io.ReadSeeker) (string, error) {
	buf := make([]byte, 512)
	n, err := reader.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}

	if _, err = reader.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	contentType := http.DetectContentType(buf[:n])
	return strings.Split(contentType, ";")[0], nil
}

// MakeAvatarThumbnail 将头像原图裁剪压缩为固定尺寸的 JPEG 缩略图
func MakeAvatarThumbnail(reader io.Reader) (io.Reader, int64, error) {
	img, err := imaging.Decode(reader, imaging.AutoOrientation(true))
	if err != nil {
		return nil, 0, fmt.Errorf("解码头像失败: %w", err)
	}

	thumb := imaging.Fill(img, AvatarThumbSize, AvatarThumbSize, imaging.Center, imaging.Lanczos)

	var out bytes.Buffer
	if err = imaging.Encode(&out, thumb, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, 0, fmt.Errorf("编码头像失败: %w", err)
	}

	return &out, int64(out.Len()), nil
}
