package helper

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

/*
BlobService adalah facade upload/hapus yang seragam untuk controller.
Path object: <prefix>/courses/<course_id>/<slot>/<tanggal>/<nama>-<rand>.<ext>
Slot contoh: "cover", "resources", "submissions", "announcements".
*/
type BlobService interface {
	// UploadImage re-encode gambar ke WebP sebelum upload (cover course dsb).
	UploadImage(ctx context.Context, courseID uuid.UUID, slot string, fh *multipart.FileHeader) (publicURL, objectKey string, err error)
	// UploadAny upload file apa adanya (lampiran resource/submission).
	UploadAny(ctx context.Context, courseID uuid.UUID, slot string, fh *multipart.FileHeader) (publicURL, objectKey string, err error)

	DeleteByObjectKey(ctx context.Context, objectKey string) error
	DeleteManyByObjectKey(ctx context.Context, objectKeys []string) error
	DeleteByPublicURL(ctx context.Context, publicURL string) error
}

type OSSBlobService struct {
	svc *OSSService
}

// NewOSSBlobServiceFromEnv membuat instance dari ENV. prefix opsional ("uploads/").
func NewOSSBlobServiceFromEnv(prefix string) (*OSSBlobService, error) {
	s, err := NewOSSServiceFromEnv(prefix)
	if err != nil {
		return nil, err
	}
	return &OSSBlobService{svc: s}, nil
}

func courseDir(courseID uuid.UUID, slot string) string {
	return joinParts("courses", courseID.String(), safePart(slot))
}

func (b *OSSBlobService) UploadImage(ctx context.Context, courseID uuid.UUID, slot string, fh *multipart.FileHeader) (string, string, error) {
	if fh == nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if courseID == uuid.Nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "course_id tidak valid")
	}

	src, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()

	data, err := ConvertToWebP(src, fh.Filename)
	if err != nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	name := strings.TrimSuffix(fh.Filename, extOf(fh.Filename)) + ".webp"
	key := joinParts(b.svc.Prefix, courseDir(courseID, slot), b.svc.buildObjectKey(name))
	if err := b.svc.UploadStream(ctx, key, bytes.NewReader(data), "image/webp"); err != nil {
		return "", "", err
	}
	return b.svc.PublicURL(key), key, nil
}

func (b *OSSBlobService) UploadAny(ctx context.Context, courseID uuid.UUID, slot string, fh *multipart.FileHeader) (string, string, error) {
	if fh == nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "File tidak ditemukan")
	}
	if courseID == uuid.Nil {
		return "", "", fiber.NewError(fiber.StatusBadRequest, "course_id tidak valid")
	}
	return b.svc.UploadFromFormFileToDir(ctx, courseDir(courseID, slot), fh)
}

func (b *OSSBlobService) DeleteByObjectKey(ctx context.Context, objectKey string) error {
	if strings.TrimSpace(objectKey) == "" {
		return nil
	}
	return b.svc.DeleteObject(ctx, objectKey)
}

func (b *OSSBlobService) DeleteManyByObjectKey(ctx context.Context, objectKeys []string) error {
	clean := make([]string, 0, len(objectKeys))
	for _, k := range objectKeys {
		if strings.TrimSpace(k) != "" {
			clean = append(clean, k)
		}
	}
	return b.svc.DeleteObjects(ctx, clean)
}

func (b *OSSBlobService) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, err := ExtractKeyFromPublicURL(publicURL)
	if err != nil {
		return err
	}
	return b.svc.DeleteObject(ctx, key)
}

func extOf(filename string) string {
	i := strings.LastIndexByte(filename, '.')
	if i < 0 {
		return ""
	}
	return filename[i:]
}

// TryGetImageFile ambil file multipart dari beberapa nama field yang umum.
func TryGetImageFile(c *fiber.Ctx, names ...string) *multipart.FileHeader {
	if len(names) == 0 {
		names = []string{"image", "file", "cover"}
	}
	for _, n := range names {
		if fh, err := c.FormFile(n); err == nil && fh != nil {
			return fh
		}
	}
	return nil
}

// EnsureBlobService fail-fast kalau OSS belum dikonfigurasi.
func EnsureBlobService(b BlobService) error {
	if b == nil {
		return fmt.Errorf("object storage belum dikonfigurasi")
	}
	return nil
}
