package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"TaskFlowGo/config"
	"TaskFlowGo/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))
	config.DB = db
	config.RedisClient = nil
	utils.InitJWT("test-secret")

	r := gin.New()
	RegisterRoutes(r, config.Config{
		AdminInviteToken: "let-me-in",
		UploadDir:        t.TempDir(),
	})
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

// register 注册用户并返回 token 和用户ID
func register(t *testing.T, r *gin.Engine, email, inviteToken string) (string, string) {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name":             "测试用户",
		"email":            email,
		"password":         "secret123",
		"adminInviteToken": inviteToken,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	user := body["user"].(map[string]interface{})
	return body["token"].(string), user["id"].(string)
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupRouter(t)

	token, _ := register(t, r, "alice@example.com", "")
	require.NotEmpty(t, token)

	// 重复邮箱注册失败
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", map[string]interface{}{
		"name": "x", "email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 登录成功
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "alice@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	// 密码错误
	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", map[string]interface{}{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// 携带令牌访问资料
	w = doJSON(t, r, http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 无令牌访问受保护接口
	w = doJSON(t, r, http.MethodGet, "/api/tasks", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminInviteTokenGrantsAdminRole(t *testing.T) {
	r := setupRouter(t)

	adminToken, _ := register(t, r, "admin@example.com", "let-me-in")
	memberToken, memberID := register(t, r, "member@example.com", "")

	// 管理员可以建任务
	due := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	w := doJSON(t, r, http.MethodPost, "/api/tasks", adminToken, map[string]interface{}{
		"title":      "第一个任务",
		"dueDate":    due,
		"assignedTo": []string{memberID},
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	// 成员不能建任务
	w = doJSON(t, r, http.MethodPost, "/api/tasks", memberToken, map[string]interface{}{
		"title":      "不允许",
		"dueDate":    due,
		"assignedTo": []string{memberID},
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestTaskLifecycleOverHTTP(t *testing.T) {
	r := setupRouter(t)

	adminToken, _ := register(t, r, "admin@example.com", "let-me-in")
	memberToken, memberID := register(t, r, "member@example.com", "")
	outsiderToken, _ := register(t, r, "outsider@example.com", "")

	due := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	w := doJSON(t, r, http.MethodPost, "/api/tasks", adminToken, map[string]interface{}{
		"title":      "发布准备",
		"dueDate":    due,
		"assignedTo": []string{memberID},
		"todoChecklist": []map[string]interface{}{
			{"text": "写文档"},
			{"text": "发公告"},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	taskID := decode(t, w)["task"].(map[string]interface{})["id"].(string)

	// 被分配的成员可以看到任务
	w = doJSON(t, r, http.MethodGet, "/api/tasks/"+taskID, memberToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// 未被分配的成员收到 403，不是 404
	w = doJSON(t, r, http.MethodGet, "/api/tasks/"+taskID, outsiderToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 不存在的任务是 404
	w = doJSON(t, r, http.MethodGet, "/api/tasks/no-such-id", adminToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// 成员不能改基础字段
	w = doJSON(t, r, http.MethodPut, "/api/tasks/"+taskID, memberToken, map[string]interface{}{
		"title": "改名",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// 成员替换清单，进度重新推导
	w = doJSON(t, r, http.MethodPut, "/api/tasks/"+taskID+"/todo", memberToken, map[string]interface{}{
		"todoChecklist": []map[string]interface{}{
			{"text": "写文档", "completed": true},
			{"text": "发公告"},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	task := decode(t, w)["task"].(map[string]interface{})
	assert.Equal(t, float64(50), task["progress"])
	assert.Equal(t, "In Progress", task["status"])

	// 强制完成
	w = doJSON(t, r, http.MethodPut, "/api/tasks/"+taskID+"/status", memberToken, map[string]interface{}{
		"status": "Completed",
	})
	require.Equal(t, http.StatusOK, w.Code)
	task = decode(t, w)["task"].(map[string]interface{})
	assert.Equal(t, float64(100), task["progress"])
	assert.Equal(t, "Completed", task["status"])

	// 成员不能删除，管理员可以
	w = doJSON(t, r, http.MethodDelete, "/api/tasks/"+taskID, memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w = doJSON(t, r, http.MethodDelete, "/api/tasks/"+taskID, adminToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDashboardEndpoints(t *testing.T) {
	r := setupRouter(t)

	adminToken, _ := register(t, r, "admin@example.com", "let-me-in")
	memberToken, memberID := register(t, r, "member@example.com", "")

	due := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	for i := 0; i < 3; i++ {
		w := doJSON(t, r, http.MethodPost, "/api/tasks", adminToken, map[string]interface{}{
			"title":      fmt.Sprintf("任务-%d", i),
			"dueDate":    due,
			"assignedTo": []string{memberID},
		})
		require.Equal(t, http.StatusCreated, w.Code)
	}

	// 全量仪表盘仅限管理员
	w := doJSON(t, r, http.MethodGet, "/api/tasks/dashboard-data", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/tasks/dashboard-data", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	stats := body["statistics"].(map[string]interface{})
	assert.Equal(t, float64(3), stats["totalTasks"])
	charts := body["charts"].(map[string]interface{})
	distribution := charts["taskDistribution"].(map[string]interface{})
	assert.Equal(t, float64(3), distribution["Pending"])
	assert.Equal(t, float64(0), distribution["Completed"])

	// 成员的个人仪表盘
	w = doJSON(t, r, http.MethodGet, "/api/tasks/user-dashboard-data", memberToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = decode(t, w)
	stats = body["statistics"].(map[string]interface{})
	assert.Equal(t, float64(3), stats["totalTasks"])
	assert.Len(t, body["recentTasks"].([]interface{}), 3)
}

func TestUserEndpoints(t *testing.T) {
	r := setupRouter(t)

	adminToken, _ := register(t, r, "admin@example.com", "let-me-in")
	memberToken, memberID := register(t, r, "member@example.com", "")

	// 用户列表仅限管理员
	w := doJSON(t, r, http.MethodGet, "/api/users", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	due := time.Now().Add(48 * time.Hour).Format(time.RFC3339)
	doJSON(t, r, http.MethodPost, "/api/tasks", adminToken, map[string]interface{}{
		"title":      "任务",
		"dueDate":    due,
		"assignedTo": []string{memberID},
	})

	w = doJSON(t, r, http.MethodGet, "/api/users", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var users []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &users))
	require.Len(t, users, 1)
	assert.Equal(t, "member@example.com", users[0]["email"])
	assert.Equal(t, float64(1), users[0]["pendingTasks"])
	// 密码不外泄
	assert.NotContains(t, users[0], "password")

	w = doJSON(t, r, http.MethodGet, "/api/users/"+memberID, memberToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
