// Package inmemdb provides in-process repositories backed by plain maps.
// It is the primary store for this app: data does not survive a restart.
package inmemdb

import (
	"sync"

	"github.com/elimuhq/elimu/core/user"
	"github.com/elimuhq/elimu/core/video"
)

type (
	DB struct {
		user  *userTable
		video *videoTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	videoTable struct {
		sync.RWMutex
		table  map[int]*video.Video
		nextID int
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:  &userTable{table: make(map[string]*user.User)},
		video: &videoTable{table: make(map[int]*video.Video)},
	}
	return db, nil
}
