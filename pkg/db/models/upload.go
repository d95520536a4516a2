package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/autocenter-backend/pkg/enums"
)

// Upload records a stored object and the actor who sent it.
type Upload struct {
	ID          uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OwnerRole   enums.ActorRole  `gorm:"column:owner_role;type:text;not null"`
	OwnerID     uuid.UUID        `gorm:"column:owner_id;type:uuid;not null"`
	Kind        enums.UploadKind `gorm:"column:kind;type:text;not null"`
	FileName    string           `gorm:"column:file_name;not null"`
	ContentType string           `gorm:"column:content_type;not null"`
	SizeBytes   int64            `gorm:"column:size_bytes;not null"`
	StorageKey  string           `gorm:"column:storage_key;not null;uniqueIndex"`
	URL         string           `gorm:"column:url;not null"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
}
