package video

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/elimuhq/elimu/core"
)

// Video is a content record published by a teacher. IDs are server-assigned
// and stable; timestamps are UTC and UpdatedAt never moves backwards.
type Video struct {
	ID           int         `json:"id" db:"id"`
	Title        string      `json:"title" db:"title"`
	Description  string      `json:"description" db:"description"`
	VideoURL     string      `json:"videoUrl" db:"video_url"`
	ThumbnailURL null.String `json:"thumbnailUrl" db:"thumbnail_url"`
	Duration     null.String `json:"duration" db:"duration"`
	Category     null.String `json:"category" db:"category"`
	TeacherID    null.String `json:"teacherId" db:"teacher_id"`
	TeacherName  null.String `json:"teacherName" db:"teacher_name"`
	Views        int         `json:"views" db:"views"`
	Likes        int         `json:"likes" db:"likes"`
	Rating       float64     `json:"rating" db:"rating"`
	CreatedAt    time.Time   `json:"createdAt" db:"created_at"` // UTC
	UpdatedAt    time.Time   `json:"updatedAt" db:"updated_at"` // UTC
}

// NewVideo contains information needed to publish a Video from an existing
// media URL.
type NewVideo struct {
	Title        string `json:"title" validate:"required"`
	Description  string `json:"description" validate:"required"`
	VideoURL     string `json:"videoUrl" validate:"required,url"`
	ThumbnailURL string `json:"thumbnailUrl" validate:"omitempty,url"`
	Duration     string `json:"duration"`
	Category     string `json:"category"`
	TeacherID    string `json:"teacherId"`
	TeacherName  string `json:"teacherName"`
}

func (nv *NewVideo) Validate(validate *validator.Validate) error {
	nv.Title = core.CleanString(nv.Title)
	nv.Description = core.CleanString(nv.Description)
	nv.VideoURL = core.CleanString(nv.VideoURL)
	nv.ThumbnailURL = core.CleanString(nv.ThumbnailURL)
	return validate.Struct(nv)
}

// NewUpload contains the metadata accompanying a multipart video upload.
// The media files themselves are carried separately; storage URLs are
// derived from their file names.
type NewUpload struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Duration    string `json:"duration"`
	Category    string `json:"category"`
	TeacherID   string `json:"teacherId"`
	TeacherName string `json:"teacherName"`
}

func (nu *NewUpload) Validate(validate *validator.Validate) error {
	nu.Title = core.CleanString(nu.Title)
	nu.Description = core.CleanString(nu.Description)
	return validate.Struct(nu)
}

// UpdateVideo defines the partial-merge payload for an existing Video.
// Nil fields are left untouched; id and createdAt are immutable.
type UpdateVideo struct {
	Title        *string  `json:"title" validate:"omitempty,min=1"`
	Description  *string  `json:"description" validate:"omitempty,min=1"`
	VideoURL     *string  `json:"videoUrl" validate:"omitempty,url"`
	ThumbnailURL *string  `json:"thumbnailUrl" validate:"omitempty,url"`
	Duration     *string  `json:"duration"`
	Category     *string  `json:"category"`
	TeacherID    *string  `json:"teacherId"`
	TeacherName  *string  `json:"teacherName"`
	Views        *int     `json:"views" validate:"omitempty,min=0"`
	Likes        *int     `json:"likes" validate:"omitempty,min=0"`
	Rating       *float64 `json:"rating" validate:"omitempty,min=0,max=5"`
}

func (uv *UpdateVideo) Validate(validate *validator.Validate) error {
	return validate.Struct(uv)
}
