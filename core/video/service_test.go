package video_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/elimuhq/elimu/core/video"
	inmemdb "github.com/elimuhq/elimu/storage/database/inmem"
)

func setup(t *testing.T) *video.Service {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	return video.NewService(inmemdb.NewVideoRepository(db))
}

func newVid(title string) video.NewVideo {
	return video.NewVideo{
		Title:       title,
		Description: "D",
		VideoURL:    "http://x",
	}
}

func Test_Service_Create(t *testing.T) {
	svc := setup(t)

	vid, err := svc.Create(newVid("T"))
	assert.NoError(t, err)
	assert.NotZero(t, vid.ID)
	assert.Equal(t, "T", vid.Title)
	assert.Equal(t, "D", vid.Description)
	assert.Equal(t, "http://x", vid.VideoURL)
	assert.Equal(t, 0, vid.Views)
	assert.Equal(t, 0, vid.Likes)
	assert.True(t, vid.CreatedAt.Equal(vid.UpdatedAt), "createdAt must equal updatedAt on create")

	vids, err := svc.List()
	assert.NoError(t, err)
	assert.Len(t, vids, 1)
	assert.Equal(t, vid.ID, vids[0].ID)
}

func Test_Service_Create_assignsIncreasingIDs(t *testing.T) {
	svc := setup(t)

	v1, _ := svc.Create(newVid("A"))
	v2, _ := svc.Create(newVid("B"))
	v3, _ := svc.Create(newVid("C"))

	assert.Less(t, v1.ID, v2.ID)
	assert.Less(t, v2.ID, v3.ID)
}

func Test_Service_List_newestFirst(t *testing.T) {
	svc := setup(t)

	first, _ := svc.Create(newVid("first"))
	second, _ := svc.Create(newVid("second"))
	third, _ := svc.Create(newVid("third"))

	vids, err := svc.List()
	assert.NoError(t, err)
	assert.Equal(t, []int{third.ID, second.ID, first.ID}, []int{vids[0].ID, vids[1].ID, vids[2].ID})
}

func Test_Service_Get_notFound(t *testing.T) {
	svc := setup(t)

	_, err := svc.Get(999)
	assert.Equal(t, video.ErrNotFound, err)
}

func Test_Service_Update_merges(t *testing.T) {
	svc := setup(t)
	vid, _ := svc.Create(newVid("T"))

	newTitle := "T2"
	views := 7
	got, err := svc.Update(vid.ID, video.UpdateVideo{Title: &newTitle, Views: &views})
	assert.NoError(t, err)
	assert.Equal(t, "T2", got.Title)
	assert.Equal(t, "D", got.Description, "unsupplied fields keep their value")
	assert.Equal(t, 7, got.Views)
	assert.Equal(t, vid.ID, got.ID)
	assert.True(t, got.CreatedAt.Equal(vid.CreatedAt), "createdAt is immutable")
	assert.False(t, got.UpdatedAt.Before(vid.UpdatedAt), "updatedAt never moves backwards")
}

func Test_Service_Update_notFoundLeavesStoreUntouched(t *testing.T) {
	svc := setup(t)
	vid, _ := svc.Create(newVid("T"))

	title := "nope"
	_, err := svc.Update(vid.ID+100, video.UpdateVideo{Title: &title})
	assert.Equal(t, video.ErrNotFound, err)

	vids, _ := svc.List()
	assert.Len(t, vids, 1)
	assert.Equal(t, "T", vids[0].Title)
}

func Test_Service_Delete_twice(t *testing.T) {
	svc := setup(t)
	vid, _ := svc.Create(newVid("T"))
	before, _ := svc.List()

	assert.NoError(t, svc.Delete(vid.ID))
	assert.Equal(t, video.ErrNotFound, svc.Delete(vid.ID))

	after, _ := svc.List()
	assert.Equal(t, len(before)-1, len(after))
}

func Test_Service_CreateFromUpload(t *testing.T) {
	svc := setup(t)

	vid, err := svc.CreateFromUpload(video.NewUpload{
		Title:       "Lesson 1",
		Description: "Pointers",
		Duration:    "12:34",
	}, "intro lesson.mp4", "cover.png")
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(vid.VideoURL, "/media/videos/"))
	assert.True(t, strings.HasSuffix(vid.VideoURL, "intro-lesson.mp4"))
	assert.True(t, vid.ThumbnailURL.Valid)
	assert.True(t, strings.HasPrefix(vid.ThumbnailURL.String, "/media/thumbnails/"))
	assert.Equal(t, "12:34", vid.Duration.String)
}

func Test_Service_CreateFromUpload_noThumbnail(t *testing.T) {
	svc := setup(t)

	vid, err := svc.CreateFromUpload(video.NewUpload{Title: "T", Description: "D"}, "a.mp4", "")
	assert.NoError(t, err)
	assert.False(t, vid.ThumbnailURL.Valid)
}

func Test_Service_timestampsAreUTC(t *testing.T) {
	svc := setup(t)
	vid, _ := svc.Create(newVid("T"))

	_, offset := vid.CreatedAt.Zone()
	assert.Equal(t, 0, offset)
	assert.WithinDuration(t, time.Now().UTC(), vid.CreatedAt, 5*time.Second)
}
