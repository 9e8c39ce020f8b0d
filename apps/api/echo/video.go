package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/elimuhq/elimu/core"
	"github.com/elimuhq/elimu/core/video"
)

type videoApi struct {
	svc      *video.Service
	validate *validator.Validate
}

// registerVideoAPI mounts the video catalog endpoints. They are deliberately
// un-authed: the catalog is public and publishing is currently open, pending
// a proper teacher-upload flow.
func registerVideoAPI(g *echo.Group, svc *video.Service, validate *validator.Validate) {
	api := videoApi{
		svc:      svc,
		validate: validate,
	}

	vg := g.Group("/videos")
	vg.GET("", api.list)
	vg.POST("", api.create)
	vg.POST("/upload", api.upload)
	vg.GET("/:id", api.retrieve)
	vg.PUT("/:id", api.update)
	vg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *videoApi) list(ctx echo.Context) error {
	vids, err := api.svc.List()
	if err != nil {
		return errors.Wrap(err, "listing videos")
	}
	if vids == nil {
		vids = []video.Video{}
	}
	return ctx.JSON(http.StatusOK, VideosResponse{Videos: vids})
}

func (api *videoApi) retrieve(ctx echo.Context) error {
	id, err := videoID(ctx)
	if err != nil {
		return err
	}
	vid, err := api.svc.Get(id)
	if err != nil {
		return errors.Wrap(err, "getting video")
	}
	return ctx.JSON(http.StatusOK, VideoResponse{Video: vid})
}

func (api *videoApi) create(ctx echo.Context) error {
	var data video.NewVideo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVideo")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	vid, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating video")
	}
	return ctx.JSON(http.StatusCreated, VideoResponse{Video: vid})
}

func (api *videoApi) upload(ctx echo.Context) error {
	data := video.NewUpload{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		Duration:    ctx.FormValue("duration"),
		Category:    ctx.FormValue("category"),
		TeacherID:   ctx.FormValue("teacherId"),
		TeacherName: ctx.FormValue("teacherName"),
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	vidFile, err := ctx.FormFile("video")
	if err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "video", Error: "a video file is required"})
	}

	var thumbName string
	if thumbFile, err := ctx.FormFile("thumbnail"); err == nil {
		thumbName = thumbFile.Filename
	}

	vid, err := api.svc.CreateFromUpload(data, vidFile.Filename, thumbName)
	if err != nil {
		return errors.Wrap(err, "creating video from upload")
	}
	return ctx.JSON(http.StatusCreated, VideoResponse{Video: vid})
}

func (api *videoApi) update(ctx echo.Context) error {
	id, err := videoID(ctx)
	if err != nil {
		return err
	}

	var data video.UpdateVideo
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateVideo")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	vid, err := api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating video")
	}
	return ctx.JSON(http.StatusOK, VideoResponse{Video: vid})
}

func (api *videoApi) destroy(ctx echo.Context) error {
	id, err := videoID(ctx)
	if err != nil {
		return err
	}
	if err := api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting video")
	}
	return ctx.JSON(http.StatusOK, MessageResponse{Message: "Video deleted successfully"})
}

func videoID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

type (
	VideoResponse struct {
		Video video.Video `json:"video"`
	}

	VideosResponse struct {
		Videos []video.Video `json:"videos"`
	}

	MessageResponse struct {
		Message string `json:"message"`
	}
)
