//go:build unit

package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"go-portfolio-app/internal/content"
	"go-portfolio-app/internal/data"
	"go-portfolio-app/internal/logger"
	"go-portfolio-app/internal/service"
	"go-portfolio-app/internal/storage"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModerator struct {
	gotIDs       []int64
	gotStatus    content.MessageStatus
	gotImportant bool
	gotLevel     content.Featured
	gotPublished bool
	uploaded     string
	uploadErr    error
}

func (s *stubModerator) bulk(ids []int64) (int64, error) {
	s.gotIDs = ids
	if len(ids) == 0 {
		return 0, service.ErrNoSelection
	}
	return int64(len(ids)), nil
}

func (s *stubModerator) ApproveComments(_ context.Context, ids []int64) (int64, error) {
	return s.bulk(ids)
}
func (s *stubModerator) MarkCommentsSpam(_ context.Context, ids []int64) (int64, error) {
	return s.bulk(ids)
}
func (s *stubModerator) SetPostStatus(_ context.Context, ids []int64, _ content.PostStatus) (int64, error) {
	return s.bulk(ids)
}
func (s *stubModerator) FeaturePosts(_ context.Context, ids []int64) (int64, error) {
	return s.bulk(ids)
}
func (s *stubModerator) SetProjectsPublished(_ context.Context, ids []int64, published bool) (int64, error) {
	s.gotPublished = published
	return s.bulk(ids)
}
func (s *stubModerator) FeatureProjects(_ context.Context, ids []int64, level content.Featured) (int64, error) {
	s.gotLevel = level
	return s.bulk(ids)
}
func (s *stubModerator) SetSubscribersActive(_ context.Context, ids []int64, _ bool) (int64, error) {
	return s.bulk(ids)
}
func (s *stubModerator) SetMessageStatus(_ context.Context, ids []int64, status content.MessageStatus) (int64, error) {
	s.gotStatus = status
	if !status.Valid() {
		return 0, service.ErrInvalidValue
	}
	return s.bulk(ids)
}
func (s *stubModerator) SetMessageImportant(_ context.Context, ids []int64, important bool) (int64, error) {
	s.gotImportant = important
	return s.bulk(ids)
}
func (s *stubModerator) Messages(_ context.Context, status content.MessageStatus) ([]*data.ContactMessage, error) {
	s.gotStatus = status
	return []*data.ContactMessage{{ID: 7, Name: "Ada", Subject: "Hi"}}, nil
}
func (s *stubModerator) UploadProjectImage(_ context.Context, projectID int64, fileName, caption string, r io.Reader, _ int64) (*data.ProjectImage, error) {
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	b, _ := io.ReadAll(r)
	s.uploaded = string(b)
	return &data.ProjectImage{ID: 3, ProjectID: projectID, Image: "projects/" + fileName, Caption: caption}, nil
}

type stubSettings struct {
	site *data.SiteConfiguration
}

func (s *stubSettings) SiteConfiguration(context.Context) (*data.SiteConfiguration, error) {
	if s.site == nil {
		return nil, data.ErrNotFound
	}
	return s.site, nil
}
func (s *stubSettings) UpdateSiteConfiguration(_ context.Context, v *data.SiteConfiguration) error {
	s.site = v
	return nil
}
func (s *stubSettings) CreateSiteConfiguration(_ context.Context, v *data.SiteConfiguration) error {
	if s.site != nil {
		return data.ErrSingletonExists
	}
	s.site = v
	return nil
}
func (s *stubSettings) ContactInfo(context.Context) (*data.ContactInfo, error) {
	return &data.ContactInfo{Email: "ada@example.com"}, nil
}
func (s *stubSettings) UpdateContactInfo(context.Context, *data.ContactInfo) error { return nil }
func (s *stubSettings) CreateContactInfo(context.Context, *data.ContactInfo) error { return nil }
func (s *stubSettings) PersonalInfo(context.Context) (*data.PersonalInfo, error) {
	return &data.PersonalInfo{FirstName: "Ada"}, nil
}
func (s *stubSettings) UpdatePersonalInfo(context.Context, *data.PersonalInfo) error { return nil }
func (s *stubSettings) CreatePersonalInfo(context.Context, *data.PersonalInfo) error { return nil }

func newAdminRouter(t *testing.T, m *stubModerator, s *stubSettings) http.Handler {
	t.Helper()
	return newTestRouter(t, &testDeps{admin: NewAdminHandler(m, s, logger.Nop())})
}

func doJSON(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp), rr.Body.String())
	return rr, resp
}

func TestAdmin_BulkActions(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCount  float64
	}{
		{"approve comments", "/admin/api/comments/approve", `{"ids":[1,2,3]}`, http.StatusOK, 3},
		{"mark spam", "/admin/api/comments/spam", `{"ids":[4]}`, http.StatusOK, 1},
		{"publish posts", "/admin/api/posts/publish", `{"ids":[1,2]}`, http.StatusOK, 2},
		{"draft posts", "/admin/api/posts/draft", `{"ids":[1]}`, http.StatusOK, 1},
		{"feature posts", "/admin/api/posts/feature", `{"ids":[9]}`, http.StatusOK, 1},
		{"activate subscribers", "/admin/api/subscribers/activate", `{"ids":[5,6]}`, http.StatusOK, 2},
		{"message status", "/admin/api/messages/status", `{"ids":[1],"status":"read"}`, http.StatusOK, 1},
		{"empty selection", "/admin/api/comments/approve", `{"ids":[]}`, http.StatusBadRequest, 0},
		{"invalid status", "/admin/api/messages/status", `{"ids":[1],"status":"lost"}`, http.StatusBadRequest, 0},
		{"malformed body", "/admin/api/posts/publish", `{"ids":`, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newAdminRouter(t, &stubModerator{}, &stubSettings{})

			rr, resp := doJSON(t, router, http.MethodPost, tt.path, tt.body)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, true, resp["success"])
				assert.Equal(t, tt.wantCount, resp["updated"])
			} else {
				assert.Equal(t, false, resp["success"])
			}
		})
	}
}

func TestAdmin_BulkDefaults(t *testing.T) {
	m := &stubModerator{}
	router := newAdminRouter(t, m, &stubSettings{})

	doJSON(t, router, http.MethodPost, "/admin/api/messages/important", `{"ids":[1]}`)
	assert.True(t, m.gotImportant, "important defaults to true")

	doJSON(t, router, http.MethodPost, "/admin/api/messages/important", `{"ids":[1],"important":false}`)
	assert.False(t, m.gotImportant)

	doJSON(t, router, http.MethodPost, "/admin/api/projects/feature", `{"ids":[1]}`)
	assert.Equal(t, content.FeaturedYes, m.gotLevel)

	doJSON(t, router, http.MethodPost, "/admin/api/projects/feature", `{"ids":[1],"level":2}`)
	assert.Equal(t, content.Featured(2), m.gotLevel)

	doJSON(t, router, http.MethodPost, "/admin/api/projects/unpublish", `{"ids":[1]}`)
	assert.False(t, m.gotPublished)
}

func TestAdmin_Messages(t *testing.T) {
	m := &stubModerator{}
	router := newAdminRouter(t, m, &stubSettings{})

	rr, resp := doJSON(t, router, http.MethodGet, "/admin/api/messages?status=new", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, content.MessageStatus("new"), m.gotStatus)
	msgs, ok := resp["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 1)
}

func TestAdmin_Singleton(t *testing.T) {
	s := &stubSettings{}
	router := newAdminRouter(t, &stubModerator{}, s)

	rr, _ := doJSON(t, router, http.MethodGet, "/admin/api/site-config", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr, resp := doJSON(t, router, http.MethodPost, "/admin/api/site-config", `{"site_name":"Ada"}`)
	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Ada", resp["site_name"])

	rr, _ = doJSON(t, router, http.MethodPost, "/admin/api/site-config", `{"site_name":"Again"}`)
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr, resp = doJSON(t, router, http.MethodPut, "/admin/api/site-config", `{"site_name":"Renamed"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Renamed", s.site.SiteName)
	assert.Equal(t, "Renamed", resp["site_name"])

	rr, resp = doJSON(t, router, http.MethodGet, "/admin/api/personal-info", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Ada", resp["first_name"])
}

func multipartImage(t *testing.T, caption string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "shot.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("PNGDATA"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("caption", caption))
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestAdmin_UploadImage(t *testing.T) {
	t.Run("stores the file", func(t *testing.T) {
		m := &stubModerator{}
		router := newAdminRouter(t, m, &stubSettings{})
		body, ct := multipartImage(t, "Dashboard")

		req := httptest.NewRequest(http.MethodPost, "/admin/api/projects/12/images", body)
		req.Header.Set("Content-Type", ct)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
		assert.Equal(t, "PNGDATA", m.uploaded)
		var resp struct {
			Image data.ProjectImage `json:"image"`
		}
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, int64(12), resp.Image.ProjectID)
		assert.Equal(t, "Dashboard", resp.Image.Caption)
	})

	t.Run("bad project id", func(t *testing.T) {
		router := newAdminRouter(t, &stubModerator{}, &stubSettings{})
		body, ct := multipartImage(t, "x")
		req := httptest.NewRequest(http.MethodPost, "/admin/api/projects/abc/images", body)
		req.Header.Set("Content-Type", ct)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("static media cannot accept uploads", func(t *testing.T) {
		router := newAdminRouter(t, &stubModerator{uploadErr: storage.ErrUploadsUnsupported}, &stubSettings{})
		body, ct := multipartImage(t, "x")
		req := httptest.NewRequest(http.MethodPost, "/admin/api/projects/1/images", body)
		req.Header.Set("Content-Type", ct)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusNotImplemented, rr.Code)
	})
}
