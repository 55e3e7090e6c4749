package service

import (
	"context"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"kelasku_backend/internals/constants"
	model "kelasku_backend/internals/features/lms/attachments/model"
	osshelper "kelasku_backend/internals/helpers/oss"
)

// AttachmentService: upload blob + catat metadata. Pola pemakaian dari
// feature lain (resource/submission/discussion):
//
//	var keys []string
//	err := db.Transaction(func(tx *gorm.DB) error {
//	    ... insert row owner ...
//	    atts, k, err := svc.UploadAndRecord(ctx, tx, ...)
//	    keys = k
//	    return err
//	})
//	if err != nil { _ = svc.CleanupKeys(ctx, keys) } // kompensasi blob yatim
type AttachmentService struct {
	Blob osshelper.BlobService
}

func NewAttachmentService(blob osshelper.BlobService) *AttachmentService {
	return &AttachmentService{Blob: blob}
}

// Ready dipanggil controller SEBELUM buka tx kalau request membawa file,
// supaya OSS yang belum dikonfigurasi jadi 503 yang jelas, bukan 500.
func (s *AttachmentService) Ready() error {
	return osshelper.EnsureBlobService(s.Blob)
}

// ValidateFiles cek ukuran & ekstensi SEBELUM ada persistence.
// Return map error per field (attachments.0, attachments.1, ...).
func ValidateFiles(files []*multipart.FileHeader) map[string][]string {
	errs := map[string][]string{}
	for i, fh := range files {
		field := "attachments." + strconv.Itoa(i)
		if fh.Size > constants.MaxUploadSizeBytes {
			errs[field] = append(errs[field], "ukuran file maksimal 5MB")
		}
		if !constants.AllowedUploadExt(fh.Filename) {
			errs[field] = append(errs[field], "tipe file tidak diizinkan")
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// UploadAndRecord upload tiap file ke OSS lalu insert row metadata lewat tx.
// objectKeys dikembalikan supaya caller bisa kompensasi kalau tx gagal.
func (s *AttachmentService) UploadAndRecord(
	ctx context.Context,
	tx *gorm.DB,
	courseID uuid.UUID,
	kind model.AttachmentOwnerKind,
	ownerID uuid.UUID,
	slot string,
	files []*multipart.FileHeader,
	isPrivate bool,
) ([]model.AttachmentModel, []string, error) {
	if err := osshelper.EnsureBlobService(s.Blob); err != nil {
		return nil, nil, err
	}

	out := make([]model.AttachmentModel, 0, len(files))
	keys := make([]string, 0, len(files))

	for _, fh := range files {
		url, key, err := s.Blob.UploadAny(ctx, courseID, slot, fh)
		if err != nil {
			return nil, keys, err
		}
		keys = append(keys, key)

		att := model.AttachmentModel{
			AttachmentCourseID:  courseID,
			AttachmentOwnerKind: kind,
			AttachmentOwnerID:   ownerID,
			AttachmentFileName:  filepath.Base(fh.Filename),
			AttachmentFileURL:   url,
			AttachmentObjectKey: key,
			AttachmentMime:      fh.Header.Get("Content-Type"),
			AttachmentSizeBytes: fh.Size,
			AttachmentExt:       strings.TrimPrefix(strings.ToLower(filepath.Ext(fh.Filename)), "."),
			AttachmentIsPrivate: isPrivate,
		}
		if err := tx.Create(&att).Error; err != nil {
			return nil, keys, err
		}
		out = append(out, att)
	}
	return out, keys, nil
}

// DeleteByOwner hapus row metadata milik owner lewat tx (hard delete),
// return object keys-nya untuk dihapus dari OSS SETELAH commit.
func (s *AttachmentService) DeleteByOwner(
	ctx context.Context,
	tx *gorm.DB,
	kind model.AttachmentOwnerKind,
	ownerID uuid.UUID,
) ([]string, error) {
	var keys []string
	if err := tx.Model(&model.AttachmentModel{}).
		Where("attachment_owner_kind = ? AND attachment_owner_id = ?", kind, ownerID).
		Pluck("attachment_object_key", &keys).Error; err != nil {
		return nil, err
	}
	if err := tx.Unscoped().
		Where("attachment_owner_kind = ? AND attachment_owner_id = ?", kind, ownerID).
		Delete(&model.AttachmentModel{}).Error; err != nil {
		return nil, err
	}
	return keys, nil
}

// CleanupKeys: best-effort hapus blob (dipakai untuk kompensasi & pasca-commit).
func (s *AttachmentService) CleanupKeys(ctx context.Context, keys []string) error {
	if len(keys) == 0 || s.Blob == nil {
		return nil
	}
	return s.Blob.DeleteManyByObjectKey(ctx, keys)
}
