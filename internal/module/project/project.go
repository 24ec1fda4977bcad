package project

import (
	"mime/multipart"

	"homeforge/internal/global/jwt"
	"homeforge/internal/global/response"
	"homeforge/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func ListProjects(c *gin.Context) {
	var f Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Fail(c, response.BindError(err, nil))
		return
	}
	list, err := List(c.Request.Context(), f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

func GetProject(c *gin.Context) {
	d, err := Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, d)
}

func CreateProject(c *gin.Context) {
	var req CreateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err, projectMessages))
		return
	}
	caller, _ := jwt.GetUserPayload(c)
	p, err := Create(c.Request.Context(), caller, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("project created", "id", p.ID, "user", caller.Username)
	response.Created(c, gin.H{"id": p.ID, "title": p.Title})
}

func UpdateProject(c *gin.Context) {
	var req UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err, projectMessages))
		return
	}
	caller, _ := jwt.GetUserPayload(c)
	if err := Update(c.Request.Context(), caller, c.Param("id"), req); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c)
}

func DeleteProject(c *gin.Context) {
	if err := Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	caller, _ := jwt.GetUserPayload(c)
	log.Info("project deleted", "id", c.Param("id"), "user", caller.Username)
	response.OK(c)
}

type PhotoForm struct {
	Photos    []*multipart.FileHeader `form:"photos"`
	PhotoType model.PhotoType         `form:"photoType" binding:"omitempty,oneof=before during after inspiration general"`
	Caption   string                  `form:"caption"`
}

var photoMessages = response.Messages{
	"PhotoType": "Invalid photo type",
}

func UploadPhotos(c *gin.Context) {
	var form PhotoForm
	if err := c.ShouldBindWith(&form, binding.FormMultipart); err != nil {
		response.Fail(c, response.BindError(err, photoMessages))
		return
	}
	caller, _ := jwt.GetUserPayload(c)
	photos, err := AddPhotos(c.Request.Context(), caller, c.Param("id"), form.Photos, form.PhotoType, form.Caption)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, photos)
}

func DeletePhoto(c *gin.Context) {
	if err := RemovePhoto(c.Request.Context(), c.Param("id"), c.Param("photoId")); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c)
}

type CommentReq struct {
	Text string `json:"text" binding:"required,notblank"`
}

// CommentMessages also serves design board item comments.
var CommentMessages = response.Messages{
	"Text": "Comment text is required",
}

func AddProjectComment(c *gin.Context) {
	var req CommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err, CommentMessages))
		return
	}
	caller, _ := jwt.GetUserPayload(c)
	comment, err := AddComment(c.Request.Context(), caller, c.Param("id"), req.Text)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, comment)
}
