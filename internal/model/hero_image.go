package model

import "time"

// HeroImageID is the key of the single hero image settings row.
const HeroImageID = "homepage-hero"

type HeroImage struct {
	ID         string     `db:"id" json:"-"`
	Image      *string    `db:"image" json:"image"`
	UploadedAt *time.Time `db:"uploaded_at" json:"uploadedAt"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updatedAt"`
}
