package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"onionpay-api/internal/constant"
	"onionpay-api/internal/dao"
	"onionpay-api/internal/idgen"
	"onionpay-api/internal/logger"
	"onionpay-api/internal/model"
)

// UploadURLPrefix 上传文件对外访问前缀
const UploadURLPrefix = "/uploads/"

// QrCodeService 收款账户（UPI ID + 收款码图片）
type QrCodeService struct {
	qrDao    *dao.QrCodeDao
	dir      string
	maxBytes int64
}

func NewQrCodeService(qrDao *dao.QrCodeDao, dir string, maxBytes int64) *QrCodeService {
	if dir == "" {
		dir = "uploads"
	}
	if maxBytes <= 0 {
		maxBytes = 2 << 20
	}
	return &QrCodeService{qrDao: qrDao, dir: dir, maxBytes: maxBytes}
}

// Current 当前启用的收款码，未配置返回 nil
func (s *QrCodeService) Current(ctx context.Context) (*model.QrCode, error) {
	return s.qrDao.GetActive(ctx)
}

// Create 保存新收款码并停用旧记录；image 可为空
func (s *QrCodeService) Create(ctx context.Context, upiID string, image io.Reader) (*model.QrCode, error) {
	upiID = strings.TrimSpace(upiID)
	if upiID == "" {
		return nil, constant.NewError(constant.CodeUpiIDRequired)
	}

	q := &model.QrCode{UpiID: upiID}
	if image != nil {
		url, err := s.saveImage(image)
		if err != nil {
			return nil, err
		}
		q.ImageURL = url
	}

	if err := s.qrDao.ReplaceActive(ctx, q); err != nil {
		return nil, err
	}
	logger.InfoLog.Infof("[QRCODE] active qr code replaced id=%d upi=%s", q.ID, q.UpiID)
	return q, nil
}

func (s *QrCodeService) saveImage(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read qr image: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", constant.NewError(constant.CodeQRImageTooLarge)
	}
	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", constant.NewError(constant.CodeQRImageInvalid)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	name := fmt.Sprintf("qr-%d-%s%s", time.Now().UnixMilli(), idgen.RandomHex32()[:8], mt.Extension())
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write qr image: %w", err)
	}
	return UploadURLPrefix + name, nil
}
