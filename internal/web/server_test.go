package web

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaoyibao/medassist/internal/config"
	"github.com/xiaoyibao/medassist/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGateway struct{}

func (stubGateway) Upload(ctx context.Context, path, mimeType string) (*service.RemoteFile, error) {
	return &service.RemoteFile{Name: "files/x", DisplayName: path, URI: "uri://x", MIMEType: mimeType}, nil
}

func (stubGateway) Generate(ctx context.Context, purpose string, parts []service.Part) (string, error) {
	return "generated", nil
}

func (stubGateway) CreateDocumentCache(ctx context.Context, file *service.RemoteFile, systemInstruction string) (string, error) {
	return "caches/x", nil
}

func (stubGateway) GenerateFromCache(ctx context.Context, cacheName, prompt string) (string, error) {
	return "from cache", nil
}

func (stubGateway) ListFiles(ctx context.Context) ([]service.RemoteFile, error) {
	return []service.RemoteFile{{Name: "files/x", DisplayName: "r.pdf", URI: "uri://x"}}, nil
}

func (stubGateway) DeleteFile(ctx context.Context, name string) error { return nil }
func (stubGateway) ClearCaches(ctx context.Context) (int, error)      { return 2, nil }

func newTestServer(t *testing.T, password string) *Server {
	t.Helper()
	cfg := &config.AppConfig{
		Prompts: config.Prompts{
			Chat: "be helpful",
			AnalysisPrompts: map[string]config.PromptTemplate{
				"病理": {SystemPrompt: "analyze", MIMEType: "image/jpeg"},
			},
		},
	}
	cfg.SystemConfig.DefaultCategory = "病理"
	cfg.SystemConfig.SupportedImageTypes = []string{"jpg", "png"}
	cfg.SystemConfig.Login = config.LoginConfig{Password: password, ExpiryDays: 3}

	gw := stubGateway{}
	sessions := service.NewSessionStore()
	pw, ttl := cfg.LoginPolicy()
	return NewServer(Deps{
		Cfg:      cfg,
		Chat:     service.NewChatService(cfg, gw, sessions),
		Resolver: service.NewPromptResolver(cfg),
		Ingestor: service.NewIngestor(t.TempDir()),
		Files:    service.NewFileManager(gw),
		Auth:     service.NewAuthenticator(pw, ttl),
	})
}

func doJSON(t *testing.T, s *Server, method, path, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)
	return w
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, "")

	w := doJSON(t, s, http.MethodGet, "/health", "", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginDisabled(t *testing.T) {
	s := newTestServer(t, "")

	w := doJSON(t, s, http.MethodPost, "/api/login", `{"password":""}`, "")

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		LoginRequired bool `json:"login_required"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.LoginRequired)
}

func TestLoginAndAuthGate(t *testing.T) {
	s := newTestServer(t, "secret")

	// No token: rejected.
	w := doJSON(t, s, http.MethodGet, "/api/chat", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Wrong password: rejected.
	w = doJSON(t, s, http.MethodPost, "/api/login", `{"password":"nope"}`, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Correct password: token issued and accepted.
	w = doJSON(t, s, http.MethodPost, "/api/login", `{"password":"secret"}`, "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token     string `json:"token"`
		ExpiresAt string `json:"expires_at"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	_, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	assert.NoError(t, err)

	w = doJSON(t, s, http.MethodGet, "/api/chat", "", resp.Token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChatRoundTrip(t *testing.T) {
	s := newTestServer(t, "")

	w := doJSON(t, s, http.MethodPost, "/api/chat", `{"message":"hello"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Turns []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"turns"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Turns, 2)
	assert.Equal(t, "user", resp.Turns[0].Role)
	assert.Equal(t, "hello", resp.Turns[0].Content)
	assert.Equal(t, "generated", resp.Turns[1].Content)

	// History reflects the turn; clearing empties it.
	w = doJSON(t, s, http.MethodGet, "/api/chat?channel=general", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hello")

	w = doJSON(t, s, http.MethodPost, "/api/chat/clear?channel=general", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, s, http.MethodGet, "/api/chat", "", "")
	assert.NotContains(t, w.Body.String(), "hello")
}

func TestHistoryUnknownChannel(t *testing.T) {
	s := newTestServer(t, "")

	w := doJSON(t, s, http.MethodGet, "/api/chat?channel=bogus", "", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func multipartBody(t *testing.T, fields map[string]string, fileName string, fileData []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileData)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return buf, mw.FormDataContentType()
}

func TestImageUpload(t *testing.T) {
	s := newTestServer(t, "")
	body, contentType := multipartBody(t, map[string]string{"category": "病理"}, "scan.jpg", []byte("img"))

	r := httptest.NewRequest(http.MethodPost, "/api/image", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "generated")
}

func TestImageUploadRejectsExtension(t *testing.T) {
	s := newTestServer(t, "")
	body, contentType := multipartBody(t, nil, "scan.exe", []byte("img"))

	r := httptest.NewRequest(http.MethodPost, "/api/image", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportUploadAndFollowup(t *testing.T) {
	s := newTestServer(t, "")
	body, contentType := multipartBody(t, nil, "report.pdf", []byte("%PDF"))

	r := httptest.NewRequest(http.MethodPost, "/api/report", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "from cache")

	// Follow-up without a file goes against the cached document.
	body, contentType = multipartBody(t, map[string]string{"message": "what stands out?"}, "", nil)
	r = httptest.NewRequest(http.MethodPost, "/api/report", body)
	r.Header.Set("Content-Type", contentType)
	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "what stands out?")
}

func TestListFiles(t *testing.T) {
	s := newTestServer(t, "")

	w := doJSON(t, s, http.MethodGet, "/api/files", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "r.pdf")
}

func TestDeleteFile(t *testing.T) {
	s := newTestServer(t, "")

	w := doJSON(t, s, http.MethodDelete, "/api/files/r.pdf", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "成功删除文件: r.pdf")
}

func TestClearCaches(t *testing.T) {
	s := newTestServer(t, "")

	w := doJSON(t, s, http.MethodPost, "/api/caches/clear", "", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "共 2 个")
}
