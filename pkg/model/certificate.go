package model

import (
	"time"
)

// Certificate is a registry record pairing a recipient with an awarded
// program under a unique public verification code.
type Certificate struct {
	// Id is the storage identifier, a generated UUID. It is distinct from
	// Code: imported records get a fresh Id even though they carry a code.
	Id string `gorm:"primaryKey;column:id"`

	// Code is the 8-character uppercase base-36 public token. Uniqueness is
	// enforced by an existence check before insert and backstopped by a
	// unique index.
	Code string `gorm:"column:code;uniqueIndex:idx_certificates_code"`

	Name    string `gorm:"column:name"`
	Program string `gorm:"column:program"`

	// CreatedAt is the sole sort key for listing (descending). Immutable.
	CreatedAt time.Time `gorm:"column:created_at"`

	// CreatedBy is the email of the admin who issued the record. Empty for
	// imported records, since the backup format carries no creator.
	CreatedBy string `gorm:"column:created_by"`
}

func (c Certificate) TableName() string {
	return "certificates"
}
