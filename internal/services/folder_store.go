package services

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf16"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"artistic-unity-backend/internal/apperr"
	"artistic-unity-backend/internal/metrics"
	"artistic-unity-backend/internal/models"
)

const (
	OrderDetailsFile      = "order_details.json"
	CollageSelectionsFile = "collage_selections.json"
	UnknownCustomer       = "UnknownCustomer"

	jsonMimeType = "application/json"

	defaultUploadConcurrency = 4
)

var tracer = otel.Tracer("artistic-unity-backend/internal/services")

// FolderProvider is a remote storage backend able to hold one folder per order.
type FolderProvider interface {
	Ping(ctx context.Context) error
	CreateFolder(ctx context.Context, name string) (string, error)
	WriteFile(ctx context.Context, folderID string, file models.StoredFile) error
	FolderURL(folderID string) string
	DeleteFolder(ctx context.Context, folderID string) error
}

// FolderStore lays out an order as a folder of JSON documents and photos.
type FolderStore struct {
	provider    FolderProvider
	concurrency int
	observer    metrics.Observer
	logger      *slog.Logger
	now         func() time.Time
}

func NewFolderStore(provider FolderProvider, concurrency int, observer metrics.Observer, logger *slog.Logger) *FolderStore {
	if concurrency <= 0 {
		concurrency = defaultUploadConcurrency
	}
	if observer == nil {
		observer = metrics.Nop()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FolderStore{
		provider:    provider,
		concurrency: concurrency,
		observer:    observer,
		logger:      logger,
		now:         time.Now,
	}
}

// Ping checks that the provider is reachable and correctly configured.
func (s *FolderStore) Ping(ctx context.Context) error {
	return s.provider.Ping(ctx)
}

// orderDetails is the metadata document written into every order folder.
type orderDetails struct {
	OrderID         string          `json:"orderId"`
	Timestamp       string          `json:"timestamp"`
	CustomerInfo    models.Document `json:"customerInfo"`
	FrameSelection  models.Document `json:"frameSelection"`
	SpecialRequests string          `json:"specialRequests"`
	DriveFolderURL  string          `json:"driveFolderUrl"`
}

type collageSelections struct {
	Collages []any `json:"collages"`
}

type artifact struct {
	phase apperr.Phase
	file  models.StoredFile
}

// Persist creates the order folder and writes its artifacts. Folder creation
// happens first; the metadata, photo and selection writes then run
// concurrently and are all awaited. On a write failure the reference to the
// already created folder is returned along with the error.
func (s *FolderStore) Persist(ctx context.Context, order *models.Order) (models.FolderReference, error) {
	ctx, span := tracer.Start(ctx, "FolderStore.Persist")
	defer span.End()
	span.SetAttributes(attribute.String("order.id", order.ID), attribute.Int("order.photos", len(order.Photos)))

	ref := models.FolderReference{FolderName: FolderName(order.CustomerName(), s.now(), order.ID)}

	folderID, err := s.createFolder(ctx, ref.FolderName)
	if err != nil {
		err = apperr.NewStorageError(apperr.PhaseCreateFolder, ref.FolderName, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "create folder")
		return ref, err
	}
	ref.FolderID = folderID
	ref.FolderURL = s.provider.FolderURL(folderID)

	artifacts, err := buildArtifacts(order, ref.FolderURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "encode artifacts")
		return ref, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for _, a := range artifacts {
		g.Go(func() error {
			if err := s.writeFile(gctx, folderID, a.file); err != nil {
				return apperr.NewStorageError(a.phase, a.file.Name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(apperr.PhaseOf(err)))
		return ref, err
	}

	s.logger.Debug("order folder persisted",
		"order_id", order.ID,
		"folder_id", folderID,
		"files", len(artifacts),
	)
	return ref, nil
}

// Discard deletes a folder created by a failed Persist call.
func (s *FolderStore) Discard(ctx context.Context, ref models.FolderReference) error {
	if ref.FolderID == "" {
		return nil
	}
	start := time.Now()
	err := s.provider.DeleteFolder(ctx, ref.FolderID)
	s.observer.RecordStorageOperation("delete_folder", time.Since(start), 0, err)
	if err != nil {
		return apperr.NewStorageError(apperr.PhaseDeleteFolder, ref.FolderName, err)
	}
	return nil
}

func (s *FolderStore) createFolder(ctx context.Context, name string) (string, error) {
	start := time.Now()
	id, err := s.provider.CreateFolder(ctx, name)
	s.observer.RecordStorageOperation("create_folder", time.Since(start), 0, err)
	return id, err
}

func (s *FolderStore) writeFile(ctx context.Context, folderID string, file models.StoredFile) error {
	start := time.Now()
	err := s.provider.WriteFile(ctx, folderID, file)
	s.observer.RecordStorageOperation("write_file", time.Since(start), len(file.Data), err)
	return err
}

func buildArtifacts(order *models.Order, folderURL string) ([]artifact, error) {
	details, err := encodeJSON(orderDetails{
		OrderID:         order.ID,
		Timestamp:       order.Timestamp,
		CustomerInfo:    order.CustomerInfo,
		FrameSelection:  order.FrameSelection,
		SpecialRequests: order.SpecialRequests,
		DriveFolderURL:  folderURL,
	})
	if err != nil {
		return nil, apperr.NewStorageError(apperr.PhaseWriteMetadata, OrderDetailsFile, err)
	}

	artifacts := make([]artifact, 0, len(order.Photos)+2)
	artifacts = append(artifacts, artifact{
		phase: apperr.PhaseWriteMetadata,
		file:  models.StoredFile{Name: OrderDetailsFile, MimeType: jsonMimeType, Data: details},
	})

	for i, photo := range order.Photos {
		artifacts = append(artifacts, artifact{
			phase: apperr.PhaseWriteAttachment,
			file: models.StoredFile{
				Name:     PhotoFileName(i, photo.OriginalName),
				MimeType: photo.MimeType,
				Data:     photo.Data,
			},
		})
	}

	if len(order.CollageSelection) > 0 {
		selections, err := encodeJSON(collageSelections{Collages: order.CollageSelection})
		if err != nil {
			return nil, apperr.NewStorageError(apperr.PhaseWriteSelections, CollageSelectionsFile, err)
		}
		artifacts = append(artifacts, artifact{
			phase: apperr.PhaseWriteSelections,
			file:  models.StoredFile{Name: CollageSelectionsFile, MimeType: jsonMimeType, Data: selections},
		})
	}
	return artifacts, nil
}

// encodeJSON renders v with two-space indentation and without HTML escaping.
func encodeJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// FolderName builds "<sanitized customer>_<YYYY-MM-DD>_<order id>" using the
// UTC date of now.
func FolderName(customerName string, now time.Time, orderID string) string {
	name := SanitizeName(customerName)
	if name == "" {
		name = UnknownCustomer
	}
	return name + "_" + now.UTC().Format(time.DateOnly) + "_" + orderID
}

// SanitizeName replaces every character outside [A-Za-z0-9] with an
// underscore, one per UTF-16 code unit.
func SanitizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if isASCIIAlnum(r) {
			b.WriteRune(r)
			continue
		}
		n := utf16.RuneLen(r)
		if n < 1 {
			n = 1
		}
		b.WriteString(strings.Repeat("_", n))
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

// PhotoFileName names the i-th (zero based) attachment customer_photo_<i+1><ext>.
func PhotoFileName(i int, originalName string) string {
	return "customer_photo_" + strconv.Itoa(i+1) + Extension(originalName)
}

// Extension returns the extension of the final path element including the
// dot. Names without a dot, or whose only dots lead the name, have none.
func Extension(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	dot := strings.LastIndexByte(name, '.')
	if dot <= 0 || name == ".." {
		return ""
	}
	return name[dot:]
}
