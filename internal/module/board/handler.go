package board

import (
	"homeforge/internal/global/jwt"
	"homeforge/internal/global/response"
	"homeforge/internal/module/project"

	"github.com/gin-gonic/gin"
)

func ListItems(c *gin.Context) {
	list, err := List(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

func AddLink(c *gin.Context) {
	var req LinkReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err, linkMessages))
		return
	}
	caller, _ := jwt.GetUserPayload(c)
	v, err := AddLinkItem(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, v)
}

func AddNote(c *gin.Context) {
	var req NoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err, noteMessages))
		return
	}
	caller, _ := jwt.GetUserPayload(c)
	v, err := AddNoteItem(c.Request.Context(), caller, c.Param("id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, v)
}

func AddPhoto(c *gin.Context) {
	fh, _ := c.FormFile("photo")
	caller, _ := jwt.GetUserPayload(c)
	v, err := AddPhotoItem(c.Request.Context(), caller, c.Param("id"), fh, c.PostForm("title"), c.PostForm("content"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, v)
}

func DeleteItem(c *gin.Context) {
	if err := Delete(c.Request.Context(), c.Param("id"), c.Param("itemId")); err != nil {
		response.Fail(c, err)
		return
	}
	response.OK(c)
}

func AddItemComment(c *gin.Context) {
	var req project.CommentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err, project.CommentMessages))
		return
	}
	caller, _ := jwt.GetUserPayload(c)
	comment, err := AddComment(c.Request.Context(), caller, c.Param("id"), c.Param("itemId"), req.Text)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, comment)
}
