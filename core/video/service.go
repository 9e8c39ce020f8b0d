package video

import (
	"errors"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
)

var (
	// errors
	ErrNotFound = errors.New("video not found")

	unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

type (
	Repository interface {
		CreateVideo(vid Video) (Video, error)
		QueryAllVideos() ([]Video, error)
		GetVideoByID(id int) (Video, error)
		// UpdateVideo replaces the stored record with vid; ErrNotFound when
		// vid.ID is unknown.
		UpdateVideo(vid Video) (Video, error)
		DeleteVideoByID(id int) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns all videos, newest first. No pagination, no filtering.
func (svc *Service) List() ([]Video, error) {
	vids, err := svc.repo.QueryAllVideos()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(vids, func(i, j int) bool {
		if vids[i].CreatedAt.Equal(vids[j].CreatedAt) {
			return vids[i].ID > vids[j].ID
		}
		return vids[i].CreatedAt.After(vids[j].CreatedAt)
	})
	return vids, nil
}

func (svc *Service) Get(id int) (Video, error) {
	return svc.repo.GetVideoByID(id)
}

func (svc *Service) Create(nv NewVideo) (Video, error) {
	now := time.Now().UTC()
	vid := Video{
		Title:        nv.Title,
		Description:  nv.Description,
		VideoURL:     nv.VideoURL,
		ThumbnailURL: null.NewString(nv.ThumbnailURL, nv.ThumbnailURL != ""),
		Duration:     null.NewString(nv.Duration, nv.Duration != ""),
		Category:     null.NewString(nv.Category, nv.Category != ""),
		TeacherID:    null.NewString(nv.TeacherID, nv.TeacherID != ""),
		TeacherName:  null.NewString(nv.TeacherName, nv.TeacherName != ""),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return svc.repo.CreateVideo(vid)
}

// CreateFromUpload publishes a video whose media arrived as file uploads.
// Durable object storage is not wired; the media URLs are placeholders
// derived from the original file names.
func (svc *Service) CreateFromUpload(nu NewUpload, videoFilename string, thumbnailFilename string) (Video, error) {
	nv := NewVideo{
		Title:       nu.Title,
		Description: nu.Description,
		VideoURL:    PlaceholderURL("videos", videoFilename),
		Duration:    nu.Duration,
		Category:    nu.Category,
		TeacherID:   nu.TeacherID,
		TeacherName: nu.TeacherName,
	}
	if thumbnailFilename != "" {
		nv.ThumbnailURL = PlaceholderURL("thumbnails", thumbnailFilename)
	}
	return svc.Create(nv)
}

// Update shallow-merges the supplied fields over the existing record and
// bumps UpdatedAt, keeping it monotonically non-decreasing.
func (svc *Service) Update(id int, uv UpdateVideo) (Video, error) {
	vid, err := svc.repo.GetVideoByID(id)
	if err != nil {
		return Video{}, err
	}

	if uv.Title != nil {
		vid.Title = *uv.Title
	}
	if uv.Description != nil {
		vid.Description = *uv.Description
	}
	if uv.VideoURL != nil {
		vid.VideoURL = *uv.VideoURL
	}
	if uv.ThumbnailURL != nil {
		vid.ThumbnailURL = null.StringFrom(*uv.ThumbnailURL)
	}
	if uv.Duration != nil {
		vid.Duration = null.StringFrom(*uv.Duration)
	}
	if uv.Category != nil {
		vid.Category = null.StringFrom(*uv.Category)
	}
	if uv.TeacherID != nil {
		vid.TeacherID = null.StringFrom(*uv.TeacherID)
	}
	if uv.TeacherName != nil {
		vid.TeacherName = null.StringFrom(*uv.TeacherName)
	}
	if uv.Views != nil {
		vid.Views = *uv.Views
	}
	if uv.Likes != nil {
		vid.Likes = *uv.Likes
	}
	if uv.Rating != nil {
		vid.Rating = *uv.Rating
	}

	if now := time.Now().UTC(); now.After(vid.UpdatedAt) {
		vid.UpdatedAt = now
	}
	return svc.repo.UpdateVideo(vid)
}

func (svc *Service) Delete(id int) error {
	return svc.repo.DeleteVideoByID(id)
}

// PlaceholderURL builds a stable storage path for an uploaded file under the
// given media kind, from a random key and the sanitized original file name.
func PlaceholderURL(kind, filename string) string {
	base := unsafeFilenameChars.ReplaceAllString(path.Base(filename), "-")
	return fmt.Sprintf("/media/%s/%s-%s", kind, uuid.New().String(), strings.Trim(base, "-"))
}
