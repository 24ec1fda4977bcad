package user

import (
	"context"
	"errors"
	"unicode/utf8"

	"homeforge/internal/global/database"
	"homeforge/internal/global/jwt"
	"homeforge/internal/global/response"
	"homeforge/internal/global/session"
	"homeforge/internal/model"
	"homeforge/tools"

	"gorm.io/gorm"
)

// AvatarColors is the palette new accounts draw from, indexed by how many users exist.
var AvatarColors = []string{
	"#C2603A", "#7D8B55", "#4A7C8B", "#8B6A4A", "#6B4A8B",
	"#8B4A6B", "#4A8B6B", "#8B7D4A", "#4A6B8B", "#8B4A4A",
}

const minPasswordLen = 4

// Profile is the public view of a user.
type Profile struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarColor string `json:"avatarColor"`
	IsAdmin     bool   `json:"isAdmin"`
}

func NewProfile(u *model.User) Profile {
	return Profile{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		AvatarColor: u.AvatarColor,
		IsAdmin:     u.IsAdmin,
	}
}

func validatePassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLen {
		return response.ErrInvalidRequest.WithTips("Password must be at least 4 characters")
	}
	return nil
}

// SetupNeeded reports whether no account exists yet.
func SetupNeeded(ctx context.Context) (bool, error) {
	var count int64
	if err := database.DB.WithContext(ctx).Model(&model.User{}).Count(&count).Error; err != nil {
		return false, response.ErrDatabase.WithOrigin(err)
	}
	return count == 0, nil
}

type RegisterReq struct {
	Username    string `json:"username" binding:"required,min=3,max=30"`
	Password    string `json:"password" binding:"required,min=4"`
	DisplayName string `json:"displayName" binding:"required"`
}

var registerMessages = response.Messages{
	"Username":     "Username, password, and display name are required",
	"Username.min": "Username must be 3-30 characters",
	"Username.max": "Username must be 3-30 characters",
	"Password":     "Username, password, and display name are required",
	"Password.min": "Password must be at least 4 characters",
	"DisplayName":  "Username, password, and display name are required",
}

type LoginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

var loginMessages = response.Messages{
	"Username": "Username and password are required",
	"Password": "Username and password are required",
}

// CreateAccount registers a user. The first account becomes admin and needs no caller;
// every later one needs an admin caller.
func CreateAccount(ctx context.Context, caller *jwt.Principal, req RegisterReq) (*model.User, error) {
	hash, err := tools.PasswordEncrypt(req.Password)
	if err != nil {
		return nil, response.ErrServerInternal.WithOrigin(err)
	}

	var user *model.User
	err = database.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var taken int64
		if err := tx.Model(&model.User{}).Where("username = ?", req.Username).Count(&taken).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		if taken > 0 {
			return response.ErrAlreadyExists.WithTips("Username already taken")
		}

		var count int64
		if err := tx.Model(&model.User{}).Count(&count).Error; err != nil {
			return response.ErrDatabase.WithOrigin(err)
		}
		first := count == 0
		if !first {
			if caller == nil {
				return response.ErrUnauthorized.WithTips("Only an admin can create new accounts")
			}
			if !caller.IsAdmin {
				return response.ErrForbidden.WithTips("Only an admin can create new accounts")
			}
		}

		user = &model.User{
			Username:     req.Username,
			DisplayName:  req.DisplayName,
			PasswordHash: hash,
			AvatarColor:  AvatarColors[count%int64(len(AvatarColors))],
			IsAdmin:      first,
		}
		if err := tx.Create(user).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return response.ErrAlreadyExists.WithTips("Username already taken")
			}
			return response.ErrDatabase.WithOrigin(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials. Unknown usernames and wrong passwords fail identically.
func Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	var user model.User
	err := database.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrInvalidCredentials
	case err != nil:
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	if !tools.PasswordCompare(password, user.PasswordHash) {
		return nil, response.ErrInvalidCredentials
	}
	return &user, nil
}

func Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	err := database.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, response.ErrNotFound.WithTips("User not found")
	case err != nil:
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return &user, nil
}

func List(ctx context.Context) ([]Profile, error) {
	var users []model.User
	if err := database.DB.WithContext(ctx).Order("created_at").Find(&users).Error; err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	list := make([]Profile, 0, len(users))
	for i := range users {
		list = append(list, NewProfile(&users[i]))
	}
	return list, nil
}

type UpdateReq struct {
	DisplayName     string `json:"displayName"`
	AvatarColor     string `json:"avatarColor" binding:"omitempty,hexcolor"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"omitempty,min=4"`
}

var updateMessages = response.Messages{
	"AvatarColor": "Invalid avatar color",
	"NewPassword": "Password must be at least 4 characters",
}

// Update changes a profile. Callers may update themselves; admins may update anyone.
// Owners changing their own password must confirm the current one.
func Update(ctx context.Context, caller *jwt.Principal, targetID string, req UpdateReq) (*model.User, error) {
	self := caller.UserID == targetID
	if !self && !caller.IsAdmin {
		return nil, response.ErrForbidden.WithTips("Cannot update other users")
	}
	user, err := Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.DisplayName != "" {
		updates["display_name"] = req.DisplayName
	}
	if req.AvatarColor != "" {
		updates["avatar_color"] = req.AvatarColor
	}
	if req.NewPassword != "" {
		if self {
			if req.CurrentPassword == "" {
				return nil, response.ErrInvalidRequest.WithTips("Current password required")
			}
			if !tools.PasswordCompare(req.CurrentPassword, user.PasswordHash) {
				return nil, response.ErrInvalidRequest.WithTips("Current password is incorrect")
			}
		}
		hash, err := tools.PasswordEncrypt(req.NewPassword)
		if err != nil {
			return nil, response.ErrServerInternal.WithOrigin(err)
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		if err := database.DB.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			return nil, response.ErrDatabase.WithOrigin(err)
		}
	}
	return Get(ctx, targetID)
}

// ResetPassword sets a new password without the old one and signs the user out everywhere.
// It is the operator's recovery path and has no HTTP route.
func ResetPassword(ctx context.Context, username, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	var user model.User
	err := database.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return response.ErrNotFound.WithTips("User not found")
	case err != nil:
		return response.ErrDatabase.WithOrigin(err)
	}
	hash, err := tools.PasswordEncrypt(newPassword)
	if err != nil {
		return response.ErrServerInternal.WithOrigin(err)
	}
	if err := database.DB.WithContext(ctx).Model(&user).Update("password_hash", hash).Error; err != nil {
		return response.ErrDatabase.WithOrigin(err)
	}
	if session.Default != nil {
		if err := session.Default.DeleteUser(ctx, user.ID); err != nil {
			return response.ErrServerInternal.WithOrigin(err)
		}
	}
	return nil
}
