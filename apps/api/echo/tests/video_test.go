package tests

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/elimuhq/elimu/apps/api/echo"
	"github.com/elimuhq/elimu/core/video"
)

func createVideo(t *testing.T, app *testApp, title string) video.Video {
	vid, err := app.vidSvc.Create(video.NewVideo{
		Title:       title,
		Description: "desc of " + title,
		VideoURL:    "https://media.test.cd/" + strings.ReplaceAll(title, " ", "-") + ".mp4",
	})
	if err != nil {
		t.Fatalf("createVideo(): %v", err)
	}
	return vid
}

func Test_videoApi_list(t *testing.T) {
	app := setup(t)

	t.Run("Empty catalog", func(t *testing.T) {
		tt := httpTest{wantCode: http.StatusOK, wantData: []byte(`{"videos": []}`)}
		req, rec := newRequest(http.MethodGet, "/api/videos")
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	vid1 := createVideo(t, app, "Algebra I")
	vid2 := createVideo(t, app, "Algebra II")

	t.Run("Newest first", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/api/videos")
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var res VideosResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Len(t, res.Videos, 2)
		assert.Equal(t, vid2.ID, res.Videos[0].ID)
		assert.Equal(t, vid1.ID, res.Videos[1].ID)
	})
}

func Test_videoApi_create(t *testing.T) {
	app := setup(t)

	t.Run("Missing fields", func(t *testing.T) {
		tt := httpTest{
			body:     marchallObj(t, video.NewVideo{Title: "No media"}),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{
				"description": "this field is required",
				"videoUrl":    "this field is required",
			}),
		}
		req, rec := newRequest(http.MethodPost, "/api/videos", tt.body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Create OK", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/videos", marchallObj(t, video.NewVideo{
			Title:       "Chemistry 101",
			Description: "Atoms and molecules",
			VideoURL:    "https://media.test.cd/chem101.mp4",
			Category:    "science",
		}))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var res VideoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.NotZero(t, res.Video.ID)
		assert.Equal(t, "Chemistry 101", res.Video.Title)
		assert.Equal(t, "science", res.Video.Category.String)
		assert.Zero(t, res.Video.Views)
		assert.Equal(t, res.Video.CreatedAt, res.Video.UpdatedAt)
	})
}

func Test_videoApi_retrieve(t *testing.T) {
	app := setup(t)
	vid := createVideo(t, app, "Biology I")

	tests := []httpTest{
		{
			name: "Found", path: "/api/videos/" + strconv.Itoa(vid.ID),
			wantCode: http.StatusOK, wantData: marchallObj(t, VideoResponse{Video: vid}),
		},
		{
			name: "Unknown id", path: "/api/videos/999",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "video not found"}),
		},
		{
			name: "Malformed id", path: "/api/videos/nan",
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_videoApi_update(t *testing.T) {
	app := setup(t)
	vid := createVideo(t, app, "History I")

	t.Run("Unknown id", func(t *testing.T) {
		tt := httpTest{
			body:     marchallObj(t, map[string]string{"title": "nope"}),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "video not found"}),
		}
		req, rec := newRequest(http.MethodPut, "/api/videos/999", tt.body)
		app.server.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
	})

	t.Run("Partial merge", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, "/api/videos/"+strconv.Itoa(vid.ID),
			marchallObj(t, map[string]interface{}{"title": "History I (revised)", "views": 7}))
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var res VideoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "History I (revised)", res.Video.Title)
		assert.Equal(t, 7, res.Video.Views)
		// untouched fields survive; createdAt is immutable
		assert.Equal(t, vid.Description, res.Video.Description)
		assert.Equal(t, vid.VideoURL, res.Video.VideoURL)
		assert.True(t, res.Video.CreatedAt.Equal(vid.CreatedAt))
		assert.False(t, res.Video.UpdatedAt.Before(vid.UpdatedAt))
	})

	t.Run("Invalid rating", func(t *testing.T) {
		req, rec := newRequest(http.MethodPut, "/api/videos/"+strconv.Itoa(vid.ID),
			marchallObj(t, map[string]interface{}{"rating": 9.5}))
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func Test_videoApi_destroy(t *testing.T) {
	app := setup(t)
	vid := createVideo(t, app, "Physics I")
	path := "/api/videos/" + strconv.Itoa(vid.ID)

	tests := []httpTest{
		{
			name: "Destroy OK", path: path,
			wantCode: http.StatusOK, wantData: marchallObj(t, MessageResponse{Message: "Video deleted successfully"}),
		},
		{
			name: "Already gone", path: path,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "video not found"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodDelete, tt.path)
			app.server.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func newUploadRequest(t *testing.T, fields map[string]string, files map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	body := new(bytes.Buffer)
	w := multipart.NewWriter(body)
	for field, value := range fields {
		require.NoError(t, w.WriteField(field, value))
	}
	for field, filename := range files {
		fw, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = fw.Write([]byte("media bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/videos/upload", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	return req, rec
}

func Test_videoApi_upload(t *testing.T) {
	app := setup(t)
	meta := map[string]string{
		"title":       "Geography I",
		"description": "Rivers and lakes",
		"teacherName": "Mrs. Kalala",
	}

	t.Run("Missing video file", func(t *testing.T) {
		req, rec := newUploadRequest(t, meta, nil)
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"video": "a video file is required"}`, rec.Body.String())
	})

	t.Run("Missing metadata", func(t *testing.T) {
		req, rec := newUploadRequest(t, map[string]string{"title": "No description"}, map[string]string{"video": "geo.mp4"})
		app.server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Upload OK", func(t *testing.T) {
		req, rec := newUploadRequest(t, meta, map[string]string{"video": "geo lesson.mp4", "thumbnail": "geo.png"})
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var res VideoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.Equal(t, "Geography I", res.Video.Title)
		assert.Equal(t, "Mrs. Kalala", res.Video.TeacherName.String)
		assert.Contains(t, res.Video.VideoURL, "/media/videos/")
		assert.Contains(t, res.Video.VideoURL, "geo-lesson.mp4")
		assert.Contains(t, res.Video.ThumbnailURL.String, "/media/thumbnails/")
	})

	t.Run("No thumbnail", func(t *testing.T) {
		req, rec := newUploadRequest(t, meta, map[string]string{"video": "geo2.mp4"})
		app.server.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var res VideoResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		assert.False(t, res.Video.ThumbnailURL.Valid)
	})
}
