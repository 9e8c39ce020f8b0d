package inmemdb

import "github.com/elimuhq/elimu/core/video"

type videoRepository struct {
	db *videoTable
}

var _ video.Repository = (*videoRepository)(nil)

func NewVideoRepository(db *DB) video.Repository {
	return &videoRepository{db: db.video}
}

func (r *videoRepository) CreateVideo(vid video.Video) (video.Video, error) {
	r.db.Lock()
	defer r.db.Unlock()

	r.db.nextID++
	vid.ID = r.db.nextID
	r.db.table[vid.ID] = &vid
	return vid, nil
}

func (r *videoRepository) QueryAllVideos() ([]video.Video, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	res := make([]video.Video, 0, len(r.db.table))
	for _, v := range r.db.table {
		res = append(res, *v)
	}
	return res, nil
}

func (r *videoRepository) GetVideoByID(id int) (video.Video, error) {
	r.db.RLock()
	defer r.db.RUnlock()

	if vid, ok := r.db.table[id]; ok {
		return *vid, nil
	}
	return video.Video{}, video.ErrNotFound
}

func (r *videoRepository) UpdateVideo(vid video.Video) (video.Video, error) {
	r.db.Lock()
	defer r.db.Unlock()

	orig, ok := r.db.table[vid.ID]
	if !ok {
		return video.Video{}, video.ErrNotFound
	}
	// id and createdAt are immutable
	vid.CreatedAt = orig.CreatedAt
	r.db.table[vid.ID] = &vid
	return vid, nil
}

func (r *videoRepository) DeleteVideoByID(id int) error {
	r.db.Lock()
	defer r.db.Unlock()

	if _, ok := r.db.table[id]; !ok {
		return video.ErrNotFound
	}
	delete(r.db.table, id)
	return nil
}
