package dto

// DataURLPrefix marks an inline base64 image payload.
const DataURLPrefix = "data:image/"

type SetHeroImageInput struct {
	Image string `json:"image" validate:"required,startswith=data:image/"`
}
