package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"artistic-unity-backend/internal/apperr"
	"artistic-unity-backend/internal/logging"
	"artistic-unity-backend/internal/models"
)

const (
	submitSuccessMessage = "Order submitted successfully!"
	submitFailureMessage = "Failed to submit order"
	notFoundMessage      = "Order not found"
	listFailureMessage   = "Failed to list orders"

	// multipart bodies larger than this are spooled to disk by net/http
	multipartMemory = 32 << 20
	// non-file fields share this allowance on top of the photo limits
	formFieldAllowance = 1 << 20
)

// OrderWorkflow is the order processing surface the HTTP layer depends on.
type OrderWorkflow interface {
	Submit(ctx context.Context, submission models.OrderSubmission) (models.SubmitResult, error)
	GetStatus(ctx context.Context, id string) (*models.Order, error)
	ListOrders(ctx context.Context) ([]*models.Order, error)
}

type OrderHandler struct {
	workflow OrderWorkflow
	logger   *slog.Logger
	now      func() time.Time
}

func NewOrderHandler(workflow OrderWorkflow, logger *slog.Logger) *OrderHandler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &OrderHandler{
		workflow: workflow,
		logger:   logger,
		now:      time.Now,
	}
}

// SubmitOrder godoc
// @Summary     Submit an order
// @Description Accepts customer details, frame and collage selections and up to
// @Description 10 photos (10 MiB each), stores them in a new order folder and
// @Description records the order as completed.
// @Tags        orders
// @Accept      multipart/form-data
// @Produce     json
// @Param       photos           formData file   false "Customer photos (up to 10)"
// @Param       customerInfo     formData string false "JSON object with customer details"
// @Param       frameSelection   formData string false "JSON object with the chosen frame"
// @Param       collageSelection formData string false "JSON array of collage selections"
// @Param       specialRequests  formData string false "Free-form notes"
// @Success     200 {object} models.SubmitOrderResponse
// @Failure     500 {object} models.FailureResponse
// @Router      /api/submit-order [post]
func (h *OrderHandler) SubmitOrder(c *gin.Context) {
	ctx := c.Request.Context()
	logger := logging.FromContext(ctx, h.logger)
	logger.Info("received order submission")

	submission, err := h.parseSubmission(c)
	if err != nil {
		logger.Warn("rejected order submission", "error", err)
		h.submitFailed(c, err)
		return
	}

	result, err := h.workflow.Submit(ctx, submission)
	if err != nil {
		h.submitFailed(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SubmitOrderResponse{
		Success:        true,
		Message:        submitSuccessMessage,
		OrderID:        result.OrderID,
		DriveFolderURL: result.FolderURL,
		Timestamp:      h.now().UTC().Format(models.TimestampLayout),
	})
}

func (h *OrderHandler) submitFailed(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, models.FailureResponse{
		Success: false,
		Message: submitFailureMessage,
		Error:   err.Error(),
	})
}

// GetOrder godoc
// @Summary     Get order status
// @Description Returns the recorded order for a previously returned order id
// @Tags        orders
// @Produce     json
// @Param       orderId path string true "Order ID" example(ORD_LRERXYY3_4K7ZQ)
// @Success     200 {object} models.OrderStatusResponse
// @Failure     404 {object} models.FailureResponse
// @Router      /api/order/{orderId} [get]
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.workflow.GetStatus(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		if !errors.Is(err, apperr.ErrOrderNotFound) {
			logging.FromContext(c.Request.Context(), h.logger).Error("order lookup failed", "error", err)
		}
		c.JSON(http.StatusNotFound, models.FailureResponse{
			Success: false,
			Message: notFoundMessage,
		})
		return
	}

	c.JSON(http.StatusOK, models.OrderStatusResponse{
		Success: true,
		Order:   order,
	})
}

// ListOrders godoc
// @Summary     List orders
// @Description Lists every recorded order, oldest first
// @Tags        orders
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.OrderListResponse
// @Failure     401 {object} models.FailureResponse
// @Failure     403 {object} models.FailureResponse
// @Failure     500 {object} models.FailureResponse
// @Router      /api/orders [get]
func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.workflow.ListOrders(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(apperr.HTTPStatus(err), models.FailureResponse{
			Success: false,
			Message: listFailureMessage,
			Error:   err.Error(),
		})
		return
	}
	if orders == nil {
		orders = []*models.Order{}
	}

	c.JSON(http.StatusOK, models.OrderListResponse{
		Success: true,
		Count:   len(orders),
		Orders:  orders,
	})
}

func (h *OrderHandler) parseSubmission(c *gin.Context) (models.OrderSubmission, error) {
	var submission models.OrderSubmission

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body,
		models.MaxPhotos*models.MaxPhotoBytes+formFieldAllowance)
	if err := c.Request.ParseMultipartForm(multipartMemory); err != nil {
		return submission, apperr.Validation("failed to parse multipart form: %v", err)
	}
	form := c.Request.MultipartForm
	if form == nil {
		return submission, apperr.Validation("multipart form is empty")
	}

	for field := range form.File {
		if field != models.FieldPhotos {
			return submission, apperr.Validation("unexpected file field %q", field)
		}
	}

	if err := decodeField(form, models.FieldCustomerInfo, &submission.CustomerInfo); err != nil {
		return submission, err
	}
	if err := decodeField(form, models.FieldFrameSelection, &submission.FrameSelection); err != nil {
		return submission, err
	}
	if err := decodeField(form, models.FieldCollageSelection, &submission.CollageSelection); err != nil {
		return submission, err
	}
	submission.SpecialRequests = formValue(form, models.FieldSpecialRequests)

	photos, err := readPhotos(form.File[models.FieldPhotos])
	if err != nil {
		return submission, err
	}
	submission.Photos = photos

	return submission, nil
}

func formValue(form *multipart.Form, field string) string {
	if values := form.Value[field]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// decodeField leaves dst untouched when the field is absent or empty.
func decodeField(form *multipart.Form, field string, dst any) error {
	raw := formValue(form, field)
	if raw == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return apperr.Validation("invalid %s: %v", field, err)
	}
	return nil
}

func readPhotos(files []*multipart.FileHeader) ([]models.Photo, error) {
	if len(files) > models.MaxPhotos {
		return nil, apperr.Validation("too many photos: %d (max %d)", len(files), models.MaxPhotos)
	}

	photos := make([]models.Photo, 0, len(files))
	for _, file := range files {
		if file.Size > models.MaxPhotoBytes {
			return nil, apperr.Validation("photo %q is too large: %d bytes (max %d)", file.Filename, file.Size, models.MaxPhotoBytes)
		}

		data, err := readFile(file)
		if err != nil {
			return nil, apperr.Validation("failed to read photo %q: %v", file.Filename, err)
		}

		photos = append(photos, models.Photo{
			OriginalName: file.Filename,
			MimeType:     file.Header.Get("Content-Type"),
			Size:         int64(len(data)),
			Data:         data,
		})
	}
	return photos, nil
}

func readFile(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer src.Close()
	return io.ReadAll(src)
}
