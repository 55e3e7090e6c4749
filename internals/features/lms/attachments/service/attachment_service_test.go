package service

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "kelasku_backend/internals/features/lms/attachments/model"
)

func TestValidateFiles(t *testing.T) {
	files := []*multipart.FileHeader{
		{Filename: "laporan.pdf", Size: 1024},
		{Filename: "payload.exe", Size: 1024},
		{Filename: "besar.pdf", Size: 6 * 1024 * 1024},
	}

	errs := ValidateFiles(files)
	require.NotNil(t, errs)
	assert.NotContains(t, errs, "attachments.0")
	assert.Contains(t, errs, "attachments.1")
	assert.Contains(t, errs, "attachments.2")

	assert.Nil(t, ValidateFiles([]*multipart.FileHeader{{Filename: "ok.docx", Size: 10}}))
	assert.Nil(t, ValidateFiles(nil))
}

// OSS yang belum dikonfigurasi (Blob nil) harus jadi error biasa,
// bukan panic di tengah transaksi.
func TestUploadAndRecordWithoutBlobService(t *testing.T) {
	svc := NewAttachmentService(nil)
	require.Error(t, svc.Ready())

	_, _, err := svc.UploadAndRecord(
		context.Background(), nil,
		uuid.New(), model.AttachmentOwnerThread, uuid.New(),
		"threads",
		[]*multipart.FileHeader{{Filename: "catatan.pdf", Size: 10}},
		false,
	)
	require.Error(t, err)
}

func TestCleanupKeysWithoutBlobServiceIsNoop(t *testing.T) {
	svc := NewAttachmentService(nil)
	require.NoError(t, svc.CleanupKeys(context.Background(), []string{"a", "b"}))
	require.NoError(t, svc.CleanupKeys(context.Background(), nil))
}
