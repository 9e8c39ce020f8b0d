package sqlxrepos

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core/video"
)

type videoRepository struct {
	db *sqlx.DB
}

var _ video.Repository = (*videoRepository)(nil)

func NewVideoRepository(db *sqlx.DB) video.Repository {
	return &videoRepository{db: db}
}

func (r *videoRepository) CreateVideo(vid video.Video) (video.Video, error) {
	query := `
		INSERT INTO video (title, description, video_url, thumbnail_url, duration, category,
		                   teacher_id, teacher_name, views, likes, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`
	err := r.db.QueryRow(
		query,
		vid.Title, vid.Description, vid.VideoURL, vid.ThumbnailURL, vid.Duration, vid.Category,
		vid.TeacherID, vid.TeacherName, vid.Views, vid.Likes, vid.Rating, vid.CreatedAt, vid.UpdatedAt,
	).Scan(&vid.ID)
	if err != nil {
		return video.Video{}, errors.Wrap(err, "inserting video")
	}
	return vid, nil
}

func (r *videoRepository) QueryAllVideos() ([]video.Video, error) {
	vids := make([]video.Video, 0)
	err := r.db.Select(&vids, `SELECT * FROM video ORDER BY created_at DESC, id DESC`)
	return vids, errors.Wrap(err, "querying videos")
}

func (r *videoRepository) GetVideoByID(id int) (video.Video, error) {
	var vid video.Video
	err := r.db.Get(&vid, `SELECT * FROM video WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return video.Video{}, video.ErrNotFound
	}
	return vid, errors.Wrap(err, "getting video")
}

func (r *videoRepository) UpdateVideo(vid video.Video) (video.Video, error) {
	query := `
		UPDATE video
		SET title = $2, description = $3, video_url = $4, thumbnail_url = $5, duration = $6,
		    category = $7, teacher_id = $8, teacher_name = $9, views = $10, likes = $11,
		    rating = $12, updated_at = $13
		WHERE id = $1`
	res, err := r.db.Exec(
		query,
		vid.ID, vid.Title, vid.Description, vid.VideoURL, vid.ThumbnailURL, vid.Duration,
		vid.Category, vid.TeacherID, vid.TeacherName, vid.Views, vid.Likes,
		vid.Rating, vid.UpdatedAt,
	)
	if err != nil {
		return video.Video{}, errors.Wrap(err, "updating video")
	}
	if n, err := res.RowsAffected(); err != nil {
		return video.Video{}, errors.Wrap(err, "updating video")
	} else if n == 0 {
		return video.Video{}, video.ErrNotFound
	}
	return r.GetVideoByID(vid.ID)
}

func (r *videoRepository) DeleteVideoByID(id int) error {
	res, err := r.db.Exec(`DELETE FROM video WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting video")
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "deleting video")
	} else if n == 0 {
		return video.ErrNotFound
	}
	return nil
}
