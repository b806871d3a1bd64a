package service

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/testutil"
	"onionpay-api/internal/utils"
)

func TestQrCodeCreate(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	s := NewQrCodeService(dao.NewQrCodeDao(testutil.NewDB(t)), dir, 64<<10)

	if qr, err := s.Current(ctx); err != nil || qr != nil {
		t.Fatalf("Current on empty = %v, %v", qr, err)
	}

	first, err := s.Create(ctx, "first@upi", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if first.ImageURL != "" || !first.IsActive {
		t.Errorf("first = %+v", first)
	}

	png, err := utils.RenderQRPNG("upi://pay?pa=second@upi", 128)
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Create(ctx, " second@upi ", bytes.NewReader(png))
	if err != nil {
		t.Fatalf("Create with image: %v", err)
	}
	if second.UpiID != "second@upi" || !strings.HasPrefix(second.ImageURL, UploadURLPrefix) || !strings.HasSuffix(second.ImageURL, ".png") {
		t.Errorf("second = %+v", second)
	}
	if _, err := os.Stat(filepath.Join(dir, strings.TrimPrefix(second.ImageURL, UploadURLPrefix))); err != nil {
		t.Errorf("image not written: %v", err)
	}

	current, err := s.Current(ctx)
	if err != nil || current == nil || current.ID != second.ID {
		t.Fatalf("Current = %+v, %v", current, err)
	}
}

func TestQrCodeCreateRejects(t *testing.T) {
	ctx := context.Background()
	s := NewQrCodeService(dao.NewQrCodeDao(testutil.NewDB(t)), t.TempDir(), 1024)

	if _, err := s.Create(ctx, "  ", nil); !constant.IsCode(err, constant.CodeUpiIDRequired) {
		t.Errorf("blank upi: %v", err)
	}
	if _, err := s.Create(ctx, "a@upi", strings.NewReader("just some text")); !constant.IsCode(err, constant.CodeQRImageInvalid) {
		t.Errorf("text upload: %v", err)
	}
	big := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 2048)...)
	if _, err := s.Create(ctx, "a@upi", bytes.NewReader(big)); !constant.IsCode(err, constant.CodeQRImageTooLarge) {
		t.Errorf("large upload: %v", err)
	}
	if qr, _ := s.Current(ctx); qr != nil {
		t.Errorf("rejected uploads must not change the active qr code")
	}
}
