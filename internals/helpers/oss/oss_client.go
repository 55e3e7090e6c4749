package helper

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
	"github.com/google/uuid"
)

func getEnv(k string) string { return strings.TrimSpace(os.Getenv(k)) }

/* =======================================================================
   OSSService: klien tipis di atas aliyun-oss-go-sdk
======================================================================= */

type OSSService struct {
	Client     *oss.Client
	Bucket     *oss.Bucket
	BucketName string
	Endpoint   string
	Prefix     string // contoh: "uploads/"
	PublicBase string // override domain publik (CDN); kosong = endpoint bucket
}

func NewOSSServiceFromEnv(prefix string) (*OSSService, error) {
	endpoint := getEnv("OSS_ENDPOINT")
	keyID := getEnv("OSS_ACCESS_KEY_ID")
	keySecret := getEnv("OSS_ACCESS_KEY_SECRET")
	bucketName := getEnv("OSS_BUCKET")
	publicBase := getEnv("OSS_PUBLIC_BASE_URL")

	if endpoint == "" || keyID == "" || keySecret == "" || bucketName == "" {
		return nil, fmt.Errorf("OSS env belum lengkap (OSS_ENDPOINT/OSS_ACCESS_KEY_ID/OSS_ACCESS_KEY_SECRET/OSS_BUCKET)")
	}

	client, err := oss.New(endpoint, keyID, keySecret)
	if err != nil {
		return nil, err
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, err
	}

	return &OSSService{
		Client:     client,
		Bucket:     bucket,
		BucketName: bucketName,
		Endpoint:   endpoint,
		Prefix:     strings.Trim(prefix, "/"),
		PublicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

/* =======================================================================
   Upload / delete
======================================================================= */

// UploadStream menulis reader ke objectKey dengan content-type eksplisit.
func (s *OSSService) UploadStream(ctx context.Context, key string, r io.Reader, contentType string) error {
	opts := []oss.Option{
		oss.ContentType(contentType),
		oss.ContentDisposition("inline"),
	}
	return s.Bucket.PutObject(key, r, opts...)
}

// UploadFromFormFileToDir upload file multipart apa adanya ke dir tertentu.
// Return (publicURL, objectKey, error).
func (s *OSSService) UploadFromFormFileToDir(ctx context.Context, dir string, fh *multipart.FileHeader) (string, string, error) {
	if fh == nil {
		return "", "", fmt.Errorf("file kosong")
	}
	src, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	contentType, rd, err := detectContentType(src, fh.Filename)
	if err != nil {
		return "", "", err
	}

	key := joinParts(s.Prefix, dir, s.buildObjectKey(fh.Filename))
	if err := s.UploadStream(ctx, key, rd, contentType); err != nil {
		return "", "", err
	}
	return s.PublicURL(key), key, nil
}

func (s *OSSService) DeleteObject(ctx context.Context, key string) error {
	err := s.Bucket.DeleteObject(key)
	if err != nil && isNotFound(err) {
		return nil
	}
	return err
}

func (s *OSSService) DeleteObjects(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := s.Bucket.DeleteObjects(keys, oss.DeleteObjectsQuiet(true))
	return err
}

func (s *OSSService) ObjectExists(ctx context.Context, key string) (bool, error) {
	return s.Bucket.IsObjectExist(key)
}

/* =======================================================================
   URL & key helpers
======================================================================= */

func (s *OSSService) PublicURL(key string) string {
	if s.PublicBase != "" {
		return s.PublicBase + "/" + key
	}
	// https://<bucket>.<endpoint>/<key>
	ep := strings.TrimPrefix(strings.TrimPrefix(s.Endpoint, "https://"), "http://")
	return fmt.Sprintf("https://%s.%s/%s", s.BucketName, ep, key)
}

// ExtractKeyFromPublicURL membalikkan PublicURL → objectKey.
func ExtractKeyFromPublicURL(publicURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(publicURL))
	if err != nil {
		return "", err
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", fmt.Errorf("URL tidak mengandung object key: %s", publicURL)
	}
	return key, nil
}

func (s *OSSService) buildObjectKey(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	ext := strings.ToLower(filepath.Ext(filename))
	stamp := time.Now().UTC().Format("20060102")
	return fmt.Sprintf("%s/%s-%s%s", stamp, slugify(base), randHex(4), ext)
}

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '_', r == '.':
			b.WriteByte('-')
		}
	}
	out := strings.Trim(b.String(), "-")
	if out == "" {
		out = uuid.NewString()[:8]
	}
	if len(out) > 64 {
		out = out[:64]
	}
	return out
}

func randHex(n int) string {
	b := make([]byte, n)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

// detectContentType sniff 512 byte pertama; fallback ke ekstensi.
func detectContentType(src multipart.File, filename string) (string, io.Reader, error) {
	head := make([]byte, 512)
	n, err := src.Read(head)
	if err != nil && err != io.EOF {
		return "", nil, err
	}
	head = head[:n]

	ct := http.DetectContentType(head)
	if ct == "application/octet-stream" {
		if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); byExt != "" {
			ct = byExt
		}
	}
	return ct, io.MultiReader(strings.NewReader(string(head)), src), nil
}

func isNotFound(err error) bool {
	if serr, ok := err.(oss.ServiceError); ok {
		return serr.StatusCode == http.StatusNotFound
	}
	return false
}

func safePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "misc"
	}
	return slugify(s)
}

func joinParts(parts ...string) string {
	clean := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(p, "/")
		if p != "" {
			clean = append(clean, p)
		}
	}
	return path.Join(clean...)
}
