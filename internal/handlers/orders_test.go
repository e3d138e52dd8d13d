package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"artistic-unity-backend/internal/apperr"
	"artistic-unity-backend/internal/logging"
	"artistic-unity-backend/internal/models"
)

type mockWorkflow struct {
	mock.Mock
}

func (m *mockWorkflow) Submit(ctx context.Context, submission models.OrderSubmission) (models.SubmitResult, error) {
	args := m.Called(ctx, submission)
	return args.Get(0).(models.SubmitResult), args.Error(1)
}

func (m *mockWorkflow) GetStatus(ctx context.Context, id string) (*models.Order, error) {
	args := m.Called(ctx, id)
	order, _ := args.Get(0).(*models.Order)
	return order, args.Error(1)
}

func (m *mockWorkflow) ListOrders(ctx context.Context) ([]*models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]*models.Order)
	return orders, args.Error(1)
}

type filePart struct {
	field, name, contentType string
	data                     []byte
}

func multipartBody(t *testing.T, fields map[string]string, files []filePart) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.field, f.name))
		h.Set("Content-Type", f.contentType)
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func newTestRouter(wf OrderWorkflow) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(wf, logging.Discard())
	h.now = func() time.Time { return time.Date(2024, 1, 15, 10, 20, 31, 0, time.UTC) }

	router := gin.New()
	router.GET("/", HealthHandler)
	router.POST("/api/submit-order", h.SubmitOrder)
	router.GET("/api/order/:orderId", h.GetOrder)
	router.GET("/api/orders", h.ListOrders)
	return router
}

func decodeFailure(t *testing.T, w *httptest.ResponseRecorder) models.FailureResponse {
	t.Helper()
	var resp models.FailureResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthHandler(t *testing.T) {
	router := newTestRouter(new(mockWorkflow))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Artistic Unity Backend is running!", resp.Message)
	_, err := time.Parse(time.RFC3339, resp.Timestamp)
	assert.NoError(t, err)
}

func TestSubmitOrder_Success(t *testing.T) {
	wf := new(mockWorkflow)
	router := newTestRouter(wf)

	expected := models.OrderSubmission{
		CustomerInfo:     models.Document{"customerName": "Ada", "email": "ada@example.com"},
		FrameSelection:   models.Document{"style": "oak"},
		CollageSelection: []any{"grid", float64(4)},
		SpecialRequests:  "gift wrap",
		Photos: []models.Photo{
			{OriginalName: "a.jpg", MimeType: "image/jpeg", Size: 3, Data: []byte("abc")},
			{OriginalName: "b.png", MimeType: "image/png", Size: 2, Data: []byte("de")},
		},
	}
	wf.On("Submit", mock.Anything, expected).Return(models.SubmitResult{
		OrderID:   "ORD_LRERXYY3_ABCDE",
		FolderURL: "https://drive.google.com/drive/folders/f1",
		Timestamp: "2024-01-15T10:20:30.123Z",
	}, nil)

	body, contentType := multipartBody(t, map[string]string{
		models.FieldCustomerInfo:     `{"customerName":"Ada","email":"ada@example.com"}`,
		models.FieldFrameSelection:   `{"style":"oak"}`,
		models.FieldCollageSelection: `["grid",4]`,
		models.FieldSpecialRequests:  "gift wrap",
	}, []filePart{
		{field: models.FieldPhotos, name: "a.jpg", contentType: "image/jpeg", data: []byte("abc")},
		{field: models.FieldPhotos, name: "b.png", contentType: "image/png", data: []byte("de")},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/submit-order", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.SubmitOrderResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Order submitted successfully!", resp.Message)
	assert.Equal(t, "ORD_LRERXYY3_ABCDE", resp.OrderID)
	assert.Equal(t, "https://drive.google.com/drive/folders/f1", resp.DriveFolderURL)
	assert.Equal(t, "2024-01-15T10:20:31.000Z", resp.Timestamp)
	wf.AssertExpectations(t)
}

func TestSubmitOrder_MissingFieldsUseEmptyValues(t *testing.T) {
	wf := new(mockWorkflow)
	router := newTestRouter(wf)

	wf.On("Submit", mock.Anything, mock.MatchedBy(func(s models.OrderSubmission) bool {
		return s.CustomerInfo == nil && s.FrameSelection == nil && s.CollageSelection == nil &&
			s.SpecialRequests == "" && len(s.Photos) == 0
	})).Return(models.SubmitResult{OrderID: "ORD_X_ABCDE", FolderURL: "u"}, nil)

	body, contentType := multipartBody(t, nil, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/submit-order", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	wf.AssertExpectations(t)
}

func TestSubmitOrder_ValidationFailures(t *testing.T) {
	tooMany := make([]filePart, models.MaxPhotos+1)
	for i := range tooMany {
		tooMany[i] = filePart{field: models.FieldPhotos, name: fmt.Sprintf("p%d.jpg", i), contentType: "image/jpeg", data: []byte("x")}
	}

	tests := []struct {
		name      string
		fields    map[string]string
		files     []filePart
		wantError string
	}{
		{
			name:      "malformed customer info",
			fields:    map[string]string{models.FieldCustomerInfo: "{not json"},
			wantError: "invalid customerInfo",
		},
		{
			name:      "collage selection is not an array",
			fields:    map[string]string{models.FieldCollageSelection: `{"a":1}`},
			wantError: "invalid collageSelection",
		},
		{
			name:      "too many photos",
			files:     tooMany,
			wantError: "too many photos",
		},
		{
			name: "oversized photo",
			files: []filePart{{
				field: models.FieldPhotos, name: "big.jpg", contentType: "image/jpeg",
				data: bytes.Repeat([]byte{1}, models.MaxPhotoBytes+1),
			}},
			wantError: "too large",
		},
		{
			name:      "unexpected file field",
			files:     []filePart{{field: "avatar", name: "a.jpg", contentType: "image/jpeg", data: []byte("x")}},
			wantError: "unexpected file field",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wf := new(mockWorkflow)
			router := newTestRouter(wf)

			body, contentType := multipartBody(t, tt.fields, tt.files)
			req := httptest.NewRequest(http.MethodPost, "/api/submit-order", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			resp := decodeFailure(t, w)
			assert.False(t, resp.Success)
			assert.Equal(t, "Failed to submit order", resp.Message)
			assert.Contains(t, resp.Error, tt.wantError)
			wf.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmitOrder_NotMultipart(t *testing.T) {
	wf := new(mockWorkflow)
	router := newTestRouter(wf)

	req := httptest.NewRequest(http.MethodPost, "/api/submit-order", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decodeFailure(t, w).Error, "multipart")
}

func TestSubmitOrder_WorkflowFailure(t *testing.T) {
	wf := new(mockWorkflow)
	router := newTestRouter(wf)

	cause := apperr.NewStorageError(apperr.PhaseWriteAttachment, "customer_photo_1.jpg", errors.New("quota exceeded"))
	wf.On("Submit", mock.Anything, mock.Anything).
		Return(models.SubmitResult{}, fmt.Errorf("order processing failed: %w", cause))

	body, contentType := multipartBody(t, nil, []filePart{
		{field: models.FieldPhotos, name: "a.jpg", contentType: "image/jpeg", data: []byte("abc")},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/submit-order", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeFailure(t, w)
	assert.Equal(t, "Failed to submit order", resp.Message)
	assert.Contains(t, resp.Error, "quota exceeded")
}

func TestGetOrder(t *testing.T) {
	wf := new(mockWorkflow)
	router := newTestRouter(wf)

	order := &models.Order{
		ID:             "ORD_LRERXYY3_ABCDE",
		Status:         models.StatusCompleted,
		DriveFolderURL: "https://drive.google.com/drive/folders/f1",
	}
	wf.On("GetStatus", mock.Anything, order.ID).Return(order, nil)
	wf.On("GetStatus", mock.Anything, "ORD_MISSING").Return(nil, apperr.ErrOrderNotFound)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/order/"+order.ID, nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.OrderStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, models.StatusCompleted, resp.Order.Status)
	assert.Equal(t, order.DriveFolderURL, resp.Order.DriveFolderURL)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/order/ORD_MISSING", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Order not found"}`, w.Body.String())
}

func TestListOrders(t *testing.T) {
	wf := new(mockWorkflow)
	router := newTestRouter(wf)

	wf.On("ListOrders", mock.Anything).Return([]*models.Order{
		{ID: "ORD_A_AAAAA", Status: models.StatusCompleted},
		{ID: "ORD_B_BBBBB", Status: models.StatusFailed},
	}, nil).Once()
	wf.On("ListOrders", mock.Anything).Return(nil, errors.New("connection reset")).Once()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var resp models.OrderListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, "ORD_B_BBBBB", resp.Orders[1].ID)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/orders", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to list orders", decodeFailure(t, w).Message)
}
