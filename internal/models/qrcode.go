package models

import "time"

// QRCodeSingletonID is the primary key of the only row the qrcodes table may hold.
const QRCodeSingletonID uint = 1

type QRCode struct {
	ID        uint      `json:"-" gorm:"primaryKey;autoIncrement:false"`
	QRCode    *string   `json:"qrCode" gorm:"column:qr_code;type:text"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime"`
}

func (QRCode) TableName() string {
	return "qrcodes"
}
