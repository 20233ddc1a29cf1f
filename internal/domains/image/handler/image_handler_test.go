package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"catalog-backend/internal/domains/image"
	"catalog-backend/internal/shared/apperr"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) List(ctx context.Context, productID uuid.UUID) ([]image.ImageResponse, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]image.ImageResponse), args.Error(1)
}

func (m *mockService) Upload(ctx context.Context, req image.UploadRequest) (*image.ImageResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*image.ImageResponse)
	return resp, args.Error(1)
}

func (m *mockService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockService) SetCover(ctx context.Context, id uuid.UUID) (*image.ImageResponse, error) {
	args := m.Called(ctx, id)
	resp, _ := args.Get(0).(*image.ImageResponse)
	return resp, args.Error(1)
}

func (m *mockService) UpdatePositions(ctx context.Context, productID uuid.UUID, req image.PositionsRequest) ([]image.ImageResponse, error) {
	args := m.Called(ctx, productID, req)
	return args.Get(0).([]image.ImageResponse), args.Error(1)
}

func (m *mockService) Open(ctx context.Context, productID uuid.UUID, filename string, width int) (*image.Content, error) {
	args := m.Called(ctx, productID, filename, width)
	content, _ := args.Get(0).(*image.Content)
	return content, args.Error(1)
}

func (m *mockService) ListByProduct(ctx context.Context, productID uuid.UUID) ([]image.Image, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]image.Image), args.Error(1)
}

func (m *mockService) PurgeProduct(ctx context.Context, productID uuid.UUID) error {
	return m.Called(ctx, productID).Error(0)
}

func setupRouter(svc image.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewImageHandler(svc)
	h.RegisterPublic(r)
	h.RegisterAdmin(r.Group("/api/v1/admin/products"))
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func multipartBody(t *testing.T, fields map[string]string, filename string, data []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if filename != "" {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, filename))
		h.Set("Content-Type", "image/jpeg")
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func TestUpload(t *testing.T) {
	svc := new(mockService)
	productID := uuid.New()
	svc.On("Upload", mock.Anything, mock.MatchedBy(func(req image.UploadRequest) bool {
		return req.ProductID == productID &&
			req.OriginalFilename == "shirt.jpg" &&
			req.ContentType == "image/jpeg" &&
			req.Legend == "Front" &&
			req.Cover &&
			string(req.Data) == "jpegbytes"
	})).Return(&image.ImageResponse{ID: uuid.New(), ProductID: productID, Cover: true}, nil)

	body, contentType := multipartBody(t, map[string]string{"legend": "Front", "cover": "true"}, "shirt.jpg", []byte("jpegbytes"))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/"+productID.String()+"/images", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Image uploaded", decode(t, w).Message)
	svc.AssertExpectations(t)
}

func TestUpload_MissingFile(t *testing.T) {
	svc := new(mockService)
	productID := uuid.New()

	body, contentType := multipartBody(t, map[string]string{"legend": "Front"}, "", nil)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/products/"+productID.String()+"/images", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything)
}

func TestUpdatePositions(t *testing.T) {
	svc := new(mockService)
	productID, a := uuid.New(), uuid.New()
	svc.On("UpdatePositions", mock.Anything, productID, image.PositionsRequest{ImageIDs: []uuid.UUID{a}}).
		Return([]image.ImageResponse{{ID: a, Position: 0}}, nil)

	body := fmt.Sprintf(`{"imageIds":["%s"]}`, a)
	req := httptest.NewRequest(http.MethodPut, "/api/v1/admin/products/"+productID.String()+"/images/positions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestDeleteAndSetCover(t *testing.T) {
	svc := new(mockService)
	id := uuid.New()
	svc.On("Delete", mock.Anything, id).Return(nil)
	svc.On("SetCover", mock.Anything, id).Return(nil, fmt.Errorf("%w: %s", image.ErrImageNotFound, id))
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/admin/products/images/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/v1/admin/products/images/"+id.String()+"/cover", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	svc.AssertExpectations(t)
}

func TestServe(t *testing.T) {
	svc := new(mockService)
	productID := uuid.New()
	svc.On("Open", mock.Anything, productID, "a.png", 200).
		Return(&image.Content{Data: []byte("png"), ContentType: "image/png"}, nil)

	w := httptest.NewRecorder()
	setupRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/products/"+productID.String()+"/a.png?w=200", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "public, max-age=86400", w.Header().Get("Cache-Control"))
	assert.Equal(t, "png", w.Body.String())
}

func TestServe_NotFound(t *testing.T) {
	svc := new(mockService)
	productID := uuid.New()
	svc.On("Open", mock.Anything, productID, "gone.jpg", 0).
		Return(nil, fmt.Errorf("%w: gone.jpg", image.ErrFileNotFound))
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/products/"+productID.String()+"/gone.jpg", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/products/not-a-uuid/gone.jpg", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestServe_BadWidth(t *testing.T) {
	svc := new(mockService)
	svc.On("Open", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperr.Validation("width must be between 1 and 2000"))
	r := setupRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/products/"+uuid.NewString()+"/a.jpg?w=abc", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/images/products/"+uuid.NewString()+"/a.jpg?w=9000", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
