package storage

import (
	"errors"
	"fmt"
	"github.com/google/uuid"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"user-registration/app/server/constants"
)

var (
	ErrNotImage = errors.New("file is not an image")
	ErrTooLarge = errors.New("file is too large")
	ErrBadRef   = errors.New("not an avatar reference")
)

// 文件内容能识别出的图片类型对应的扩展名
var imageExtensions = map[string]string{
	"image/png":    ".png",
	"image/jpeg":   ".jpg",
	"image/gif":    ".gif",
	"image/webp":   ".webp",
	"image/bmp":    ".bmp",
	"image/x-icon": ".ico",
}

// LocalStore 把头像保存在本地目录，对外返回可以访问的地址
type LocalStore struct {
	dir       string // 头像目录
	urlPrefix string // 对外地址前缀，例如 /uploads
	maxSize   int64
}

func NewLocalStore(root string, urlPrefix string) (*LocalStore, error) {
	dir := filepath.Join(root, constants.AvatarSubDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create avatar directory: %w", err)
	}

	return &LocalStore{
		dir:       dir,
		urlPrefix: "/" + strings.Trim(urlPrefix, "/"),
		maxSize:   constants.AvatarMaxSize,
	}, nil
}

// SaveAvatar 检查内容是否为图片并写入文件，返回文件地址
func (s *LocalStore) SaveAvatar(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read avatar: %w", err)
	}
	if int64(len(data)) > s.maxSize {
		return "", ErrTooLarge
	}

	// 按文件内容判断类型，不信任客户端提供的类型和文件名
	contentType := http.DetectContentType(data)
	ext, ok := imageExtensions[contentType]
	if !ok {
		return "", fmt.Errorf("%w: detected %s", ErrNotImage, contentType)
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write avatar: %w", err)
	}

	return path.Join(s.urlPrefix, constants.AvatarSubDir, name), nil
}

// Remove 删除之前保存的头像，用于保存用户失败时清理
func (s *LocalStore) Remove(ref string) error {
	prefix := path.Join(s.urlPrefix, constants.AvatarSubDir) + "/"
	if !strings.HasPrefix(ref, prefix) {
		return ErrBadRef
	}

	name := strings.TrimPrefix(ref, prefix)
	if name == "" || name != filepath.Base(name) {
		return ErrBadRef
	}

	if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("failed to remove avatar: %w", err)
	}
	return nil
}

// Root 静态文件服务使用的根目录
func (s *LocalStore) Root() string {
	return filepath.Dir(s.dir)
}

func (s *LocalStore) URLPrefix() string {
	return s.urlPrefix
}
