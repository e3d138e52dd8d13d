package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"artistic-unity-backend/internal/apperr"
	"artistic-unity-backend/internal/logging"
	"artistic-unity-backend/internal/metrics"
	"artistic-unity-backend/internal/models"
)

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// OrderRepository stores order status records keyed by order id.
// Get returns apperr.ErrOrderNotFound for unknown ids.
type OrderRepository interface {
	Insert(ctx context.Context, order *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	List(ctx context.Context) ([]*models.Order, error)
}

// EventPublisher announces recorded orders to downstream consumers.
type EventPublisher interface {
	PublishOrderSubmitted(ctx context.Context, order *models.Order) error
}

// FolderPersister writes an order into remote storage.
type FolderPersister interface {
	Persist(ctx context.Context, order *models.Order) (models.FolderReference, error)
	Discard(ctx context.Context, ref models.FolderReference) error
}

// Options toggles behaviour on failed submissions. The zero value keeps a
// failed order out of the repository and leaves any partial folder in place.
type Options struct {
	RecordFailures   bool
	CleanupOnFailure bool
	PersistTimeout   time.Duration
}

type OrderService struct {
	folders   FolderPersister
	repo      OrderRepository
	publisher EventPublisher
	observer  metrics.Observer
	logger    *slog.Logger
	opts      Options

	now   func() time.Time
	newID func(time.Time) string
}

// NewOrderService wires the workflow. publisher may be nil to disable events.
func NewOrderService(
	folders FolderPersister,
	repo OrderRepository,
	publisher EventPublisher,
	observer metrics.Observer,
	logger *slog.Logger,
	opts Options,
) *OrderService {
	if observer == nil {
		observer = metrics.Nop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderService{
		folders:   folders,
		repo:      repo,
		publisher: publisher,
		observer:  observer,
		logger:    logger,
		opts:      opts,
		now:       time.Now,
		newID:     NewOrderID,
	}
}

// Submit assigns an id and timestamp, persists the order folder and records
// the completed order.
func (s *OrderService) Submit(ctx context.Context, submission models.OrderSubmission) (models.SubmitResult, error) {
	ctx, span := tracer.Start(ctx, "OrderService.Submit")
	defer span.End()

	now := s.now()
	order := &models.Order{
		ID:               s.newID(now),
		Timestamp:        now.UTC().Format(models.TimestampLayout),
		Status:           models.StatusProcessing,
		CustomerInfo:     submission.CustomerInfo,
		FrameSelection:   submission.FrameSelection,
		CollageSelection: submission.CollageSelection,
		SpecialRequests:  submission.SpecialRequests,
		Photos:           submission.Photos,
	}
	if order.CustomerInfo == nil {
		order.CustomerInfo = models.Document{}
	}
	if order.FrameSelection == nil {
		order.FrameSelection = models.Document{}
	}
	if order.CollageSelection == nil {
		order.CollageSelection = []any{}
	}
	if order.Photos == nil {
		order.Photos = []models.Photo{}
	}
	span.SetAttributes(attribute.String("order.id", order.ID))

	logger := logging.FromContext(ctx, s.logger).With("order_id", order.ID)
	logger.Info("processing order", "photos", len(order.Photos))

	ref, err := s.persist(ctx, order)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist order")
		s.observer.RecordSubmission(apperr.Kind(err))
		logger.Error("order processing failed",
			"phase", apperr.PhaseOf(err),
			"kind", apperr.Kind(err),
			"error", err,
		)
		s.handleFailure(ctx, logger, order, ref, err)
		return models.SubmitResult{}, fmt.Errorf("order processing failed: %w", err)
	}

	order.DriveFolderID = ref.FolderID
	order.DriveFolderURL = ref.FolderURL
	order.FolderName = ref.FolderName
	order.Status = models.StatusCompleted
	order.ReleasePhotoData()

	// Recording ignores caller cancellation too.
	ctx = context.WithoutCancel(ctx)
	if err := s.repo.Insert(ctx, order); err != nil {
		span.RecordError(err)
		s.observer.RecordSubmission(apperr.Kind(err))
		logger.Error("failed to record order", "folder_url", ref.FolderURL, "error", err)
		return models.SubmitResult{}, fmt.Errorf("order processing failed: %w", err)
	}
	s.observer.RecordSubmission("success")

	if s.publisher != nil {
		if err := s.publisher.PublishOrderSubmitted(ctx, order); err != nil {
			logger.Warn("failed to publish order event", "error", err)
		}
	}

	logger.Info("order processed", "folder_url", ref.FolderURL)
	return models.SubmitResult{
		OrderID:   order.ID,
		FolderURL: ref.FolderURL,
		Timestamp: order.Timestamp,
	}, nil
}

// persist ignores caller cancellation; PersistTimeout is the only bound.
func (s *OrderService) persist(ctx context.Context, order *models.Order) (models.FolderReference, error) {
	ctx = context.WithoutCancel(ctx)
	if s.opts.PersistTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.PersistTimeout)
		defer cancel()
	}
	return s.folders.Persist(ctx, order)
}

func (s *OrderService) handleFailure(ctx context.Context, logger *slog.Logger, order *models.Order, ref models.FolderReference, cause error) {
	// The request may already be gone; cleanup and recording still run.
	ctx = context.WithoutCancel(ctx)

	if s.opts.CleanupOnFailure && ref.FolderID != "" {
		if err := s.folders.Discard(ctx, ref); err != nil {
			logger.Warn("failed to discard partial order folder", "folder_id", ref.FolderID, "error", err)
		} else {
			logger.Info("discarded partial order folder", "folder_id", ref.FolderID)
			ref.FolderID, ref.FolderURL = "", ""
		}
	}

	if !s.opts.RecordFailures {
		return
	}
	order.Status = models.StatusFailed
	order.Error = cause.Error()
	order.DriveFolderID = ref.FolderID
	order.DriveFolderURL = ref.FolderURL
	order.FolderName = ref.FolderName
	order.ReleasePhotoData()
	if err := s.repo.Insert(ctx, order); err != nil {
		logger.Error("failed to record failed order", "error", err)
	}
}

// GetStatus returns the recorded order or apperr.ErrOrderNotFound.
func (s *OrderService) GetStatus(ctx context.Context, id string) (*models.Order, error) {
	return s.repo.Get(ctx, id)
}

// ListOrders returns every recorded order, oldest first.
func (s *OrderService) ListOrders(ctx context.Context) ([]*models.Order, error) {
	return s.repo.List(ctx)
}

// NewOrderID returns "ORD_" + base36(unix millis) + "_" + five random base36
// characters, upper-cased.
func NewOrderID(now time.Time) string {
	var suffix [5]byte
	for i := range suffix {
		suffix[i] = idAlphabet[rand.IntN(len(idAlphabet))]
	}
	return strings.ToUpper("ORD_" + strconv.FormatInt(now.UnixMilli(), 36) + "_" + string(suffix[:]))
}
