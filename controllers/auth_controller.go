package controllers

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"TaskFlowGo/config"
	"TaskFlowGo/models"
	"TaskFlowGo/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AuthController 认证控制器
type AuthController struct {
	// 注册时携带该令牌的用户会被授予管理员角色
	AdminInviteToken string
	UploadDir        string
}

// Register 用户注册
func (ac *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// 邮箱查重
	var existing models.User
	if err := config.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "该邮箱已被注册"})
		return
	}

	role := models.RoleMember
	if req.AdminInviteToken != "" && req.AdminInviteToken == ac.AdminInviteToken {
		role = models.RoleAdmin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "密码处理失败"})
		return
	}

	user := models.User{
		ID:              utils.GenerateID(),
		Name:            req.Name,
		Email:           req.Email,
		Password:        string(hashed),
		ProfileImageURL: req.ProfileImageURL,
		Role:            role,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		config.Logger.Errorw("用户创建失败", "error", err, "email", req.Email)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "用户创建失败"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "令牌生成失败"})
		return
	}

	config.Logger.Infow("用户注册成功", "userID", user.ID, "role", user.Role)
	c.JSON(http.StatusCreated, gin.H{
		"token": token,
		"user":  models.NewUserResponse(&user),
	})
}

// Login 用户登录
func (ac *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "邮箱或密码错误"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "邮箱或密码错误"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "令牌生成失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  models.NewUserResponse(&user),
	})
}

// GetProfile 获取当前用户资料
func (ac *AuthController) GetProfile(c *gin.Context) {
	uid := c.GetString("uid")

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
		return
	}

	c.JSON(http.StatusOK, models.NewUserResponse(&user))
}

// UpdateProfile 更新当前用户资料，空字段不修改
func (ac *AuthController) UpdateProfile(c *gin.Context) {
	uid := c.GetString("uid")

	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("id = ?", uid).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "用户不存在"})
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "密码处理失败"})
			return
		}
		user.Password = string(hashed)
	}

	if err := config.DB.Save(&user).Error; err != nil {
		config.Logger.Errorw("用户资料更新失败", "error", err, "userID", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "用户资料更新失败"})
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "令牌生成失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  models.NewUserResponse(&user),
	})
}

// DeleteProfile 注销当前用户
func (ac *AuthController) DeleteProfile(c *gin.Context) {
	uid := c.GetString("uid")

	if err := config.DB.Where("id = ?", uid).Delete(&models.User{}).Error; err != nil {
		config.Logger.Errorw("用户注销失败", "error", err, "userID", uid)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "用户注销失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "用户注销成功"})
}

// UploadImage 上传头像图片，返回可访问的URL。
// 存储层只传递文件，不做内容检查
func (ac *AuthController) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未上传文件"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "仅支持 jpg/jpeg/png 格式"})
		return
	}

	filename := utils.GenerateID() + ext
	dst := filepath.Join(ac.UploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		config.Logger.Errorw("文件保存失败", "error", err, "filename", filename)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "文件上传失败"})
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	imageURL := fmt.Sprintf("%s://%s/uploads/%s", scheme, c.Request.Host, filename)
	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}
