package repositories

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/rohits-web03/referly/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetQRCode returns the stored QR code row, or nil, nil if none exists.
func (s *Store) GetQRCode(ctx context.Context) (*models.QRCode, error) {
	var qr models.QRCode
	err := s.db.WithContext(ctx).Order("id").First(&qr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "get qr code")
	}
	return &qr, nil
}

// SaveQRCode upserts the singleton row keyed by QRCodeSingletonID. Rows left
// under any other id by older deployments are removed in the same transaction.
func (s *Store) SaveQRCode(ctx context.Context, payload string) error {
	qr := models.QRCode{
		ID:        models.QRCodeSingletonID,
		QRCode:    &payload,
		UpdatedAt: time.Now(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"qr_code", "updated_at"}),
		}).Create(&qr).Error
		if err != nil {
			return err
		}
		return tx.Where("id <> ?", models.QRCodeSingletonID).Delete(&models.QRCode{}).Error
	})
	return errors.Wrap(err, "save qr code")
}

// DeleteQRCodes removes every QR code row. Deleting from an empty table is not an error.
func (s *Store) DeleteQRCodes(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Where("1 = 1").Delete(&models.QRCode{})
	return res.RowsAffected, errors.Wrap(res.Error, "delete qr codes")
}
