package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/inkfolio-shop/internal/config"

	"github.com/google/uuid"
)

var allowedUploadScenes = map[string]struct{}{
	"product":   {},
	"category":  {},
	"character": {},
	"comic":     {},
	"common":    {},
}

// UploadService stores uploaded files under the configured base directory.
type UploadService struct {
	cfg *config.Config
}

// NewUploadService creates an upload service.
func NewUploadService(cfg *config.Config) *UploadService {
	return &UploadService{cfg: cfg}
}

// SaveFile validates and stores an uploaded file, returning its public path.
// Files are sharded by scene and year/month to keep directories small.
func (s *UploadService) SaveFile(file *multipart.FileHeader, scene string) (string, error) {
	if file.Size > s.cfg.Upload.MaxSize {
		return "", fmt.Errorf("file exceeds size limit (max %d MB)", s.cfg.Upload.MaxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions) {
			return "", fmt.Errorf("file extension not allowed: %s", ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Sniff the real content type instead of trusting the client header.
	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil && err != io.EOF {
		return "", err
	}
	if _, err := src.Seek(0, 0); err != nil {
		return "", err
	}
	contentType := http.DetectContentType(buffer)
	if len(s.cfg.Upload.AllowedTypes) > 0 {
		allowed := false
		for _, t := range s.cfg.Upload.AllowedTypes {
			if strings.EqualFold(contentType, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", fmt.Errorf("file type not allowed: %s", contentType)
		}
	}

	normalizedScene := normalizeUploadScene(scene)
	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	now := time.Now()
	relPath := filepath.Join(normalizedScene, now.Format("2006"), now.Format("01"), filename)
	savePath := filepath.Join(s.baseDir(), relPath)

	if err := os.MkdirAll(filepath.Dir(savePath), 0755); err != nil {
		return "", err
	}
	dst, err := os.Create(savePath)
	if err != nil {
		return "", err
	}
	defer dst.Close()
	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}

	return "/uploads/" + filepath.ToSlash(relPath), nil
}

// DeleteFile removes a previously uploaded file by its public path.
func (s *UploadService) DeleteFile(publicPath string) error {
	relPath := strings.TrimPrefix(strings.TrimSpace(publicPath), "/uploads/")
	if relPath == "" || strings.Contains(relPath, "..") {
		return fmt.Errorf("invalid upload path: %s", publicPath)
	}
	target := filepath.Join(s.baseDir(), filepath.FromSlash(relPath))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *UploadService) baseDir() string {
	dir := strings.TrimSpace(s.cfg.Upload.BaseDir)
	if dir == "" {
		dir = "uploads"
	}
	return dir
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, a := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(a))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if normalized == ext {
			return true
		}
	}
	return false
}

func normalizeUploadScene(scene string) string {
	normalized := strings.ToLower(strings.TrimSpace(scene))
	if _, ok := allowedUploadScenes[normalized]; ok {
		return normalized
	}
	return "common"
}
