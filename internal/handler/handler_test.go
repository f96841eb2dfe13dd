package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"locallink/internal/config"
	"locallink/internal/domain"
	"locallink/internal/handler"
	"locallink/internal/middleware"
	"locallink/internal/mocks"
	"locallink/internal/pkg/errors"
	"locallink/internal/service"
	"locallink/internal/service/auth"
	"locallink/internal/service/business"
	"locallink/internal/service/connection"
	"locallink/internal/service/message"
	"locallink/internal/service/notification"
	"locallink/internal/service/order"
	"locallink/internal/service/product"
	"locallink/internal/service/qrcode"
	"locallink/internal/service/review"
)

type fakeAuthenticator struct {
	tokens map[string]*domain.Business
}

func (f *fakeAuthenticator) ValidateAccessToken(token string) (*auth.Claims, error) {
	b, ok := f.tokens[token]
	if !ok {
		return nil, auth.ErrInvalidToken
	}
	return &auth.Claims{UserID: b.ID}, nil
}

func (f *fakeAuthenticator) GetBusinessByID(_ context.Context, id uuid.UUID) (*domain.Business, error) {
	for _, b := range f.tokens {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

type testServer struct {
	app   *fiber.App
	repos *mocks.Repositories
	store *mocks.Store
	me    *domain.Business
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repos := mocks.NewRepositories()
	store := new(mocks.Store)
	tm := repos.TransactionManager()
	waker := &mocks.Waker{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{JWTSecret: "secret", JWTAccessExpiry: time.Hour, JWTRefreshExpiry: time.Hour}

	services := &service.Services{
		Auth:         auth.NewService(repos.Business, repos.Session, new(mocks.EmailService), cfg, logger),
		Business:     business.NewService(repos.Business, store, nil, logger),
		Product:      product.NewService(repos.Product, repos.Business, store),
		Order:        order.NewService(repos.Bundle(), tm, qrcode.NewService(128, "M"), waker, logger),
		Connection:   connection.NewService(repos.Bundle(), tm, waker),
		Message:      message.NewService(repos.Bundle(), tm, waker),
		Review:       review.NewService(repos.Bundle(), tm, nil, waker, logger),
		Notification: notification.NewService(repos.Notification, nil),
	}

	me := &domain.Business{ID: uuid.New(), Email: "me@example.com", BusinessName: "Me"}
	authenticator := &fakeAuthenticator{tokens: map[string]*domain.Business{"good-token": me}}

	app := fiber.New(fiber.Config{ErrorHandler: middleware.NewErrorHandler(logger)})
	handler.SetupRoutes(app, handler.NewHandlers(services), authenticator)

	return &testServer{app: app, repos: repos, store: store, me: me}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*http.Response, map[string]interface{}) {
	t.Helper()
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	body := map[string]interface{}{}
	raw, _ := io.ReadAll(resp.Body)
	_ = json.Unmarshal(raw, &body)
	return resp, body
}

func jsonRequest(method, path, token string, payload interface{}) *http.Request {
	var body io.Reader
	if payload != nil {
		data, _ := json.Marshal(payload)
		body = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, jsonRequest(http.MethodGet, "/health", "", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, jsonRequest(http.MethodGet, "/api/auth/me", "", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "No token, authorization denied", body["error"])

	resp, _ = s.do(t, jsonRequest(http.MethodGet, "/api/auth/me", "bad-token", nil))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = s.do(t, jsonRequest(http.MethodGet, "/api/auth/me?token=good-token", "", nil))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Me", body["business_name"])
}

func TestBusinessUpdate_OtherBusinessForbidden(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, jsonRequest(http.MethodPut, "/api/businesses/"+uuid.NewString(), "good-token", map[string]string{"business_name": "x"}))

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.NotEmpty(t, body["error"])
}

func TestCreateReview_RatingOutOfRange(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, jsonRequest(http.MethodPost, "/api/reviews", "good-token", map[string]interface{}{
		"business_id": uuid.NewString(),
		"rating":      6,
	}))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "rating must be at most 5", body["error"])
	s.repos.Business.AssertNotCalled(t, "UpdateRating", mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateProduct_BlankName(t *testing.T) {
	s := newTestServer(t)

	resp, body := s.do(t, jsonRequest(http.MethodPost, "/api/products", "good-token", map[string]interface{}{
		"name":  "   ",
		"price": 10,
	}))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "name is required", body["error"])
	s.repos.Product.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateOrderStatus_WrongCode(t *testing.T) {
	s := newTestServer(t)
	orderID := uuid.New()
	s.repos.Order.On("GetByIDForUpdate", mock.Anything, orderID).Return(&domain.Order{
		ID:               orderID,
		BuyerID:          uuid.New(),
		SupplierID:       s.me.ID,
		Status:           domain.OrderPending,
		VerificationCode: "ABC123",
	}, nil).Once()

	resp, body := s.do(t, jsonRequest(http.MethodPut, "/api/orders/"+orderID.String()+"/status", "good-token", map[string]string{
		"status":            "completed",
		"verification_code": "WRONG",
	}))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid verification code", body["error"])
}

func TestOrderQRCode(t *testing.T) {
	s := newTestServer(t)
	orderID := uuid.New()
	s.repos.Order.On("GetByID", mock.Anything, orderID).Return(&domain.Order{
		ID: orderID, BuyerID: s.me.ID, SupplierID: uuid.New(), VerificationCode: "ABC123",
	}, nil).Once()

	resp, err := s.app.Test(jsonRequest(http.MethodGet, "/api/orders/"+orderID.String()+"/qrcode", "good-token", nil), -1)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
}

func TestUploadImages_OverLimit(t *testing.T) {
	s := newTestServer(t)
	s.repos.Business.On("GetByID", mock.Anything, s.me.ID).Return(&domain.Business{ID: s.me.ID, Images: domain.Assets{}}, nil).Once()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for i := 0; i < 6; i++ {
		part, err := w.CreateFormFile("images", "photo.jpg")
		require.NoError(t, err)
		_, _ = part.Write([]byte("jpeg"))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/businesses/"+s.me.ID.String()+"/images", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer good-token")

	resp, body := s.do(t, req)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "You can only upload a maximum of 5 images at once", body["error"])
	s.store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteGalleryImage_EscapedPublicID(t *testing.T) {
	s := newTestServer(t)
	productID := uuid.New()
	s.repos.Product.On("GetByID", mock.Anything, productID).Return(&domain.Product{
		ID: productID, BusinessID: s.me.ID, Gallery: domain.Assets{{PublicID: "product_images/a.png"}},
	}, nil).Once()
	s.store.On("Destroy", mock.Anything, "product_images/a.png").Return(nil).Once()
	s.repos.Product.On("RemoveGalleryImage", mock.Anything, productID, "product_images/a.png").Return(domain.Assets{}, nil).Once()

	resp, body := s.do(t, jsonRequest(http.MethodDelete, "/api/products/"+productID.String()+"/gallery/product_images%2Fa.png", "good-token", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["success"])
	s.store.AssertExpectations(t)
}

func TestUnreadCount(t *testing.T) {
	s := newTestServer(t)
	s.repos.Notification.On("CountUnread", mock.Anything, s.me.ID).Return(int64(3), nil).Once()

	resp, body := s.do(t, jsonRequest(http.MethodGet, "/api/notifications/business/"+s.me.ID.String()+"/unread-count", "good-token", nil))

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["count"])
}

func TestUnexpectedErrorIsInternal(t *testing.T) {
	s := newTestServer(t)
	s.repos.Business.On("List", mock.Anything, domain.BusinessFilter{}).Return(nil, errors.New("connection reset")).Once()

	resp, body := s.do(t, jsonRequest(http.MethodGet, "/api/businesses", "", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "Internal server error", body["error"])
}

func TestConversation_RequiresPair(t *testing.T) {
	s := newTestServer(t)

	resp, _ := s.do(t, jsonRequest(http.MethodGet, "/api/messages/conversation?business1="+s.me.ID.String(), "good-token", nil))

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
