package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/elimuhq/elimu/core/bookmark"
)

func Test_TokenFile_roundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.json")
	tokens := NewTokenFile(path)

	// missing file reads as empty, not an error
	token, err := tokens.Read()
	assert.NoError(t, err)
	assert.Empty(t, token)

	assert.NoError(t, tokens.Write("tok-123"))
	token, err = tokens.Read()
	assert.NoError(t, err)
	assert.Equal(t, "tok-123", token)

	assert.NoError(t, tokens.Forget())
	token, err = tokens.Read()
	assert.NoError(t, err)
	assert.Empty(t, token)

	// forgetting twice is fine
	assert.NoError(t, tokens.Forget())
}

func Test_BookmarkFile_roundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	storage := NewBookmarkFile(path)

	state, err := storage.Load()
	assert.NoError(t, err)
	assert.Empty(t, state.Bookmarks)

	want := bookmark.State{
		Bookmarks: []bookmark.Item{
			{ID: "c1", Title: "Intro", Author: "Jane", Type: bookmark.TypeCourse},
		},
	}
	assert.NoError(t, storage.Save(want))

	state, err = storage.Load()
	assert.NoError(t, err)
	assert.Len(t, state.Bookmarks, 1)
	assert.Equal(t, "c1", state.Bookmarks[0].ID)
}

func Test_BookmarkFile_survivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")

	store, err := bookmark.NewStore(NewBookmarkFile(path))
	assert.NoError(t, err)
	assert.NoError(t, store.Add(bookmark.Item{ID: "c1", Title: "Intro", Type: bookmark.TypeCourse}))
	assert.NoError(t, store.AddEnrollment(bookmark.Item{ID: "w1", Title: "Build week", Type: bookmark.TypeHackathon}))

	reopened, err := bookmark.NewStore(NewBookmarkFile(path))
	assert.NoError(t, err)
	assert.True(t, reopened.IsBookmarked("c1"))
	assert.True(t, reopened.IsEnrolled("w1"))
}
