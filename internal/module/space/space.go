package space

import (
	"context"
	"errors"

	"homeforge/internal/global/database"
	"homeforge/internal/global/jwt"
	"homeforge/internal/global/response"
	"homeforge/internal/model"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const DefaultIcon = "home"

type Space struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Icon         string  `json:"icon"`
	ProjectCount int64   `json:"projectCount"`
	CreatedBy    *string `json:"createdBy"`
}

type CreateSpaceReq struct {
	Name string `json:"name" binding:"required,notblank"`
	Icon string `json:"icon"`
}

var createMessages = response.Messages{
	"Name": "Space name is required",
}

// SpaceReq is a partial update; empty fields keep their value.
type SpaceReq struct {
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// List returns every space by name with the number of projects in it.
func List(ctx context.Context) ([]Space, error) {
	list := make([]Space, 0)
	err := database.DB.WithContext(ctx).
		Table("spaces AS s").
		Select("s.id, s.name, s.icon, s.created_by, COUNT(p.id) AS project_count").
		Joins("LEFT JOIN projects p ON p.space_id = s.id").
		Group("s.id, s.name, s.icon, s.created_by").
		Order("s.name").
		Scan(&list).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return list, nil
}

func Create(ctx context.Context, caller *jwt.Principal, req CreateSpaceReq) (*model.Space, error) {
	if req.Icon == "" {
		req.Icon = DefaultIcon
	}
	s := &model.Space{Name: req.Name, Icon: req.Icon, CreatedBy: &caller.UserID}
	if err := database.DB.WithContext(ctx).Create(s).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return s, nil
}

// Update sets the non-empty fields of req.
func Update(ctx context.Context, id string, req SpaceReq) (*model.Space, error) {
	var s model.Space
	err := database.DB.WithContext(ctx).Where("id = ?", id).First(&s).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrNotFound.WithTips("Space not found")
	case err != nil:
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	updates := map[string]any{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Icon != "" {
		updates["icon"] = req.Icon
	}
	if len(updates) > 0 {
		if err := database.DB.WithContext(ctx).Model(&s).Updates(updates).Error; err != nil {
			return nil, response.ErrDatabase.WithOrigin(err)
		}
	}
	return &s, nil
}

// Delete removes the space. Its projects stay, with no space.
func Delete(ctx context.Context, id string) error {
	if err := database.DB.WithContext(ctx).Where("id = ?", id).Delete(&model.Space{}).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	return nil
}

func ListSpaces(c *gin.Context) {
	list, err := List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

func CreateSpace(c *gin.Context) {
	var req CreateSpaceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err, createMessages))
		return
	}
	p, _ := jwt.GetUserPayload(c)
	s, err := Create(c.Request.Context(), p, req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("space created", "id", s.ID, "name", s.Name)
	response.Created(c, gin.H{"id": s.ID, "name": s.Name, "icon": s.Icon})
}

func UpdateSpace(c *gin.Context) {
	var req SpaceReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err, nil))
		return
	}
	s, err := Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"id": s.ID, "name": s.Name, "icon": s.Icon})
}

func DeleteSpace(c *gin.Context) {
	if err := Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Fail(c, err)
		return
	}
	log.Info("space deleted", "id", c.Param("id"))
	response.OK(c)
}
