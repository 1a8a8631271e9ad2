package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/electroprime/storefront-core/internal/config"
	"github.com/electroprime/storefront-core/internal/core/domain"
	"github.com/electroprime/storefront-core/internal/core/ports"
	"github.com/electroprime/storefront-core/internal/transport/rest"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

const testSecret = "test-secret"

// --- Mocks ---

type MockContentService struct {
	mock.Mock
}

func (m *MockContentService) Products(ctx context.Context) []domain.Product {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]domain.Product)
}

func (m *MockContentService) CreateProduct(ctx context.Context, in ports.NewProduct) (*domain.Product, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockContentService) UpdateProduct(ctx context.Context, id string, patch domain.ProductPatch, image *domain.UploadedFile) (*domain.Product, error) {
	args := m.Called(ctx, id, patch, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockContentService) DeleteProduct(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockContentService) ClearProducts(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockContentService) Content(ctx context.Context, kind domain.ContentKind) json.RawMessage {
	args := m.Called(ctx, kind)
	return args.Get(0).(json.RawMessage)
}

func (m *MockContentService) SaveContent(ctx context.Context, kind domain.ContentKind, body json.RawMessage) (json.RawMessage, error) {
	args := m.Called(ctx, kind, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockContentService) SaveGlobalSettings(ctx context.Context, form ports.GlobalSettingsForm) (*domain.GlobalSettings, error) {
	args := m.Called(ctx, form)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GlobalSettings), args.Error(1)
}

func (m *MockContentService) Health(ctx context.Context) domain.Health {
	args := m.Called(ctx)
	return args.Get(0).(domain.Health)
}

// --- Helpers ---

func newRouter(svc ports.ContentService) chi.Router {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	cfg := &config.Config{
		AdminToken:    testSecret,
		SessionTTL:    time.Hour,
		PublicBaseURL: "http://localhost:3001",
	}
	handler := rest.NewContentHandler(svc, cfg, logger)
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func multipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, val := range fields {
		assert.NoError(t, writer.WriteField(key, val))
	}
	assert.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

// --- Tests ---

func TestListProducts_Handler(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	products := []domain.Product{{ID: "1757000000000", Title: "Widget", Price: 19.99}}
	mockSvc.On("Products", mock.Anything).Return(products)

	req, _ := http.NewRequest("GET", "/products", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response []domain.Product
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, products, response)
}

func TestCreateProduct_Handler_Success(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	created := &domain.Product{ID: "1757000000000", Title: "Widget", Description: "d", Price: 19.99, Image: ""}
	mockSvc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in ports.NewProduct) bool {
		return in.Title == "Widget" && in.Price == "19.99" && in.Description == "d" && in.Image == nil
	})).Return(created, nil)

	body, contentType := multipartBody(t, map[string]string{
		"title":       "Widget",
		"description": "d",
		"price":       "19.99",
	})
	req, _ := http.NewRequest("POST", "/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Admin-Token", testSecret)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response domain.Product
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.NotEmpty(t, response.ID)
	assert.Equal(t, 19.99, response.Price)
	assert.Equal(t, "", response.Image)
}

func TestCreateProduct_Handler_JSONBody(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	created := &domain.Product{ID: "1757000000001", Title: "Widget", Price: 19.99}
	mockSvc.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in ports.NewProduct) bool {
		return in.Title == "Widget" && in.Price == "19.99"
	})).Return(created, nil)

	req, _ := http.NewRequest("POST", "/products",
		bytes.NewBufferString(`{"title":"Widget","price":"19.99","description":"d"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", testSecret)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestCreateProduct_Handler_Unauthorized(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	body, contentType := multipartBody(t, map[string]string{"title": "Widget", "price": "10"})
	req, _ := http.NewRequest("POST", "/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Admin-Token", "wrong-token")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "Unauthorized")
	// The gate rejects before any service call, so no state can change.
	mockSvc.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestCreateProduct_Handler_ValidationError(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	mockSvc.On("CreateProduct", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidInput)

	body, contentType := multipartBody(t, map[string]string{"title": "Widget"})
	req, _ := http.NewRequest("POST", "/products", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Admin-Token", testSecret)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "error")
}

func TestUpdateProduct_Handler_PartialPatch(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	updated := &domain.Product{ID: "1757000000000", Title: "X", Description: "d", Price: 19.99}
	mockSvc.On("UpdateProduct", mock.Anything, "1757000000000", mock.MatchedBy(func(p domain.ProductPatch) bool {
		return p.Title != nil && *p.Title == "X" && p.Description == nil && p.Price == nil
	}), (*domain.UploadedFile)(nil)).Return(updated, nil)

	body, contentType := multipartBody(t, map[string]string{"title": "X"})
	req, _ := http.NewRequest("PUT", "/products/1757000000000", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Admin-Token", testSecret)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestUpdateProduct_Handler_NotFound(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	mockSvc.On("UpdateProduct", mock.Anything, "999", mock.Anything, mock.Anything).
		Return(nil, domain.ErrNotFound)

	body, contentType := multipartBody(t, map[string]string{"title": "X"})
	req, _ := http.NewRequest("PUT", "/products/999", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Admin-Token", testSecret)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)

	var response map[string]string
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.NotEmpty(t, response["error"])
}

func TestDeleteProduct_Handler_AlreadyGone(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	mockSvc.On("DeleteProduct", mock.Anything, "999").Return(int64(0), nil)

	req, _ := http.NewRequest("DELETE", "/products/999", nil)
	req.Header.Set("X-Admin-Token", testSecret)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Success      bool  `json:"success"`
		DeletedCount int64 `json:"deletedCount"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.True(t, response.Success)
	assert.Equal(t, int64(0), response.DeletedCount)
}

func TestClearProducts_Handler_Unauthorized(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	req, _ := http.NewRequest("POST", "/products-clear-all", nil)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	mockSvc.AssertNotCalled(t, "ClearProducts", mock.Anything)
}

func TestGetContent_Handler_ReturnsFallbackVerbatim(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	snapshot := json.RawMessage(`{"hero":{"title":"Our Story"}}`)
	mockSvc.On("Content", mock.Anything, domain.KindAbout).Return(snapshot)

	req, _ := http.NewRequest("GET", "/about", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, string(snapshot), rr.Body.String())
}

func TestSaveContent_Handler_Success(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	body := json.RawMessage(`{"title":"T","subtitle":"S","description":"D","cta":"Go"}`)
	mockSvc.On("SaveContent", mock.Anything, domain.KindHome, mock.Anything).Return(body, nil)

	req, _ := http.NewRequest("POST", "/home", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Admin-Token", testSecret)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, string(body), rr.Body.String())
}

func TestSaveContent_Handler_Unauthorized(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	req, _ := http.NewRequest("POST", "/about", bytes.NewBufferString(`{"hero":{}}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	mockSvc.AssertNotCalled(t, "SaveContent", mock.Anything, mock.Anything, mock.Anything)
}

func TestSaveGlobalSettings_Handler(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	saved := &domain.GlobalSettings{LogoText: "Acme", LogoAlignment: "center", ShowLogoImage: false}
	mockSvc.On("SaveGlobalSettings", mock.Anything, mock.MatchedBy(func(form ports.GlobalSettingsForm) bool {
		return form.LogoText == "Acme" && form.LogoAlignment == "center" && form.ShowLogoImage == "false"
	})).Return(saved, nil)

	body, contentType := multipartBody(t, map[string]string{
		"logoText":      "Acme",
		"logoAlignment": "center",
		"showLogoImage": "false",
	})
	req, _ := http.NewRequest("POST", "/global", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("X-Admin-Token", testSecret)

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response domain.GlobalSettings
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "Acme", response.LogoText)
	assert.Equal(t, "center", response.LogoAlignment)
	assert.False(t, response.ShowLogoImage)
}

func TestHealth_Handler(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	mockSvc.On("Health", mock.Anything).Return(domain.Health{
		Status:      "UP",
		DBConnected: false,
	})

	req, _ := http.NewRequest("GET", "/health", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response domain.Health
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.Equal(t, "UP", response.Status)
	assert.False(t, response.DBConnected)
}

func TestExchangeToken_Handler(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	req, _ := http.NewRequest("POST", "/auth/token",
		bytes.NewBufferString(`{"token":"`+testSecret+`"}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var response struct {
		Token string `json:"token"`
	}
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &response))
	assert.NotEmpty(t, response.Token)
}

func TestExchangeToken_Handler_WrongSecret(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	req, _ := http.NewRequest("POST", "/auth/token", bytes.NewBufferString(`{"token":"nope"}`))
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestProductQR_Handler(t *testing.T) {
	mockSvc := new(MockContentService)
	r := newRouter(mockSvc)

	req, _ := http.NewRequest("GET", "/products/1757000000000/qr", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/png", rr.Header().Get("Content-Type"))
	assert.NotEmpty(t, rr.Body.Bytes())
}
