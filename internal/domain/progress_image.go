package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgressImage is the metadata of a gallery photo. The image bytes live in
// object storage under ObjectKey.
type ProgressImage struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID `bson:"userId" json:"userId"`
	ObjectKey   string             `bson:"objectKey" json:"-"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	Tag         string             `bson:"tag,omitempty" json:"tag,omitempty"`     // e.g. "front", "side"
	Label       string             `bson:"label,omitempty" json:"label,omitempty"` // free text caption
	UploadedBy  primitive.ObjectID `bson:"uploadedBy" json:"uploadedBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
