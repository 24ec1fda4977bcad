package pictureBed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"homeforge/config"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const (
	DriverLocal = "local"
	DriverS3    = "s3"
)

var (
	ErrNoFile       = errors.New("no file uploaded")
	ErrTooManyFiles = errors.New("too many files")
	ErrFileType     = errors.New("only image files are allowed")
	ErrFileTooLarge = errors.New("file too large")
	ErrInvalidKey   = errors.New("invalid storage key")
)

var allowedImageExts = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".webp": true, ".heic": true, ".heif": true,
}

// IsValidationError reports whether err is the caller's fault rather than a storage failure.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrNoFile) || errors.Is(err, ErrTooManyFiles) ||
		errors.Is(err, ErrFileType) || errors.Is(err, ErrFileTooLarge)
}

// PictureBed stores uploaded images on local disk or in an S3 bucket.
// Callers persist the returned key and turn it into a URL with URL.
type PictureBed struct {
	Driver      string
	SaveDir     string // local driver
	BaseURL     string // URL prefix the files are served under
	MaxFileSize int64  // bytes
	MaxFiles    int

	Bucket       string
	Region       string
	Endpoint     string
	Prefix       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool

	s3Client *s3.Client
	uploader *manager.Uploader
}

var Default *PictureBed

// NewPictureBed creates a local-disk picture bed.
func NewPictureBed(saveDir, baseURL string) *PictureBed {
	return &PictureBed{
		Driver:      DriverLocal,
		SaveDir:     saveDir,
		BaseURL:     strings.TrimRight(baseURL, "/"),
		MaxFileSize: 20 << 20,
		MaxFiles:    10,
	}
}

// FromConfig builds the picture bed described by cfg without connecting to anything.
func FromConfig(cfg *config.Config) *PictureBed {
	pb := NewPictureBed(filepath.Join(cfg.DataDir, "uploads"), cfg.Upload.BaseURL)
	if cfg.Upload.MaxFileSizeMB > 0 {
		pb.MaxFileSize = cfg.Upload.MaxFileSizeMB << 20
	}
	if cfg.Upload.MaxFiles > 0 {
		pb.MaxFiles = cfg.Upload.MaxFiles
	}
	if cfg.Upload.Driver == DriverS3 {
		pb.Driver = DriverS3
		pb.BaseURL = strings.TrimRight(cfg.S3.BaseURL, "/")
		pb.Bucket = cfg.S3.Bucket
		pb.Region = cfg.S3.Region
		pb.Endpoint = cfg.S3.Endpoint
		pb.Prefix = strings.Trim(cfg.S3.Prefix, "/")
		pb.AccessKey = cfg.S3.AccessKey
		pb.SecretKey = cfg.S3.SecretAccessKey
		pb.UsePathStyle = cfg.S3.UsePathStyle
	}
	return pb
}

// Init sets Default from the process config.
func Init(ctx context.Context) error {
	pb := FromConfig(config.Get())
	switch pb.Driver {
	case DriverS3:
		if err := pb.InitS3(ctx); err != nil {
			return err
		}
	default:
		if err := os.MkdirAll(pb.SaveDir, 0o755); err != nil {
			return err
		}
	}
	Default = pb
	return nil
}

// Validate checks a batch of uploads against the count, extension and size limits.
func (pb *PictureBed) Validate(files []*multipart.FileHeader) error {
	if len(files) == 0 {
		return ErrNoFile
	}
	if len(files) > pb.MaxFiles {
		return fmt.Errorf("%w: at most %d per upload", ErrTooManyFiles, pb.MaxFiles)
	}
	for _, fh := range files {
		if !allowedImageExts[strings.ToLower(filepath.Ext(fh.Filename))] {
			return fmt.Errorf("%w: %s", ErrFileType, fh.Filename)
		}
		if fh.Size > pb.MaxFileSize {
			return fmt.Errorf("%w: %s exceeds %dMB", ErrFileTooLarge, fh.Filename, pb.MaxFileSize>>20)
		}
	}
	return nil
}

// SaveImage stores fileHeader under a fresh name and returns that name as the storage key.
// The client's file name only contributes its extension.
func (pb *PictureBed) SaveImage(ctx context.Context, fileHeader *multipart.FileHeader, prefix string) (string, error) {
	if err := pb.Validate([]*multipart.FileHeader{fileHeader}); err != nil {
		return "", err
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	key := prefix + uuid.NewString() + ext

	if pb.Driver == DriverS3 {
		contentType := fileHeader.Header.Get("Content-Type")
		if contentType == "" {
			contentType = mime.TypeByExtension(ext)
		}
		return key, pb.putObject(ctx, key, file, contentType)
	}
	return key, pb.writeFile(key, file)
}

func (pb *PictureBed) writeFile(key string, src io.Reader) error {
	if err := os.MkdirAll(pb.SaveDir, 0o755); err != nil {
		return err
	}
	filePath := filepath.Join(pb.SaveDir, key)
	dst, err := os.Create(filePath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(filePath)
		return err
	}
	return dst.Close()
}

// Remove deletes the stored file. A file that is already gone is not an error.
func (pb *PictureBed) Remove(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if pb.Driver == DriverS3 {
		return pb.deleteObject(ctx, key)
	}
	err = os.Remove(filepath.Join(pb.SaveDir, key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// List returns every stored key in lexical order.
func (pb *PictureBed) List(ctx context.Context) ([]string, error) {
	if pb.Driver == DriverS3 {
		return pb.listObjects(ctx)
	}
	entries, err := os.ReadDir(pb.SaveDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			keys = append(keys, e.Name())
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// URL is the public address of key. An empty key yields "".
func (pb *PictureBed) URL(key string) string {
	if key == "" {
		return ""
	}
	key = filepath.Base(key)
	if pb.Driver == DriverS3 {
		return pb.objectURL(key)
	}
	return pb.BaseURL + "/" + key
}

// cleanKey refuses anything that could escape the upload directory.
func cleanKey(key string) (string, error) {
	base := filepath.Base(key)
	if key == "" || base != key || base == "." || base == ".." {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return base, nil
}
