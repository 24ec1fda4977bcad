package user

import (
	"homeforge/internal/global/jwt"
	"homeforge/internal/global/response"
	"homeforge/internal/global/session"

	"github.com/gin-gonic/gin"
)

func SetupStatus(c *gin.Context) {
	needed, err := SetupNeeded(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, gin.H{"needsSetup": needed})
}

// Register creates an account. The very first account is signed in right away.
func Register(c *gin.Context) {
	var req RegisterReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err, registerMessages))
		return
	}
	caller, _ := jwt.GetUserPayload(c)

	user, err := CreateAccount(c.Request.Context(), caller, req)
	if err != nil {
		log.Warn("register rejected", "username", req.Username, "error", err)
		response.Fail(c, err)
		return
	}

	if user.IsAdmin && caller == nil {
		if _, err := session.Issue(c, user.ID); err != nil {
			response.Fail(c, response.ErrServerInternal.WithOrigin(err))
			return
		}
	}
	log.Info("user registered", "username", user.Username, "admin", user.IsAdmin)
	response.Created(c, NewProfile(user))
}

func Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err, loginMessages))
		return
	}

	user, err := Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		log.Warn("login failed", "username", req.Username)
		response.Fail(c, err)
		return
	}
	if _, err := session.Issue(c, user.ID); err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	log.Info("user logged in", "username", user.Username)
	response.Success(c, NewProfile(user))
}

func Logout(c *gin.Context) {
	if err := session.Destroy(c); err != nil {
		log.Warn("destroy session", "error", err)
	}
	response.OK(c)
}

func Me(c *gin.Context) {
	p, _ := jwt.GetUserPayload(c)
	user, err := Get(c.Request.Context(), p.UserID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, NewProfile(user))
}

func ListUsers(c *gin.Context) {
	list, err := List(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, list)
}

func UpdateUser(c *gin.Context) {
	var req UpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.BindError(err, updateMessages))
		return
	}
	p, _ := jwt.GetUserPayload(c)

	user, err := Update(c.Request.Context(), p, c.Param("id"), req)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, NewProfile(user))
}
