package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

// MatchRecorder observes match outcomes, e.g. for metrics
type MatchRecorder interface {
	ObserveMatch(source domain.Source, result domain.MatchResult)
}

type nopRecorder struct{}

func (nopRecorder) ObserveMatch(domain.Source, domain.MatchResult) {}

// IngestionServiceConfig holds configuration for the ingestion service
type IngestionServiceConfig struct {
	Thresholds         map[domain.Source]float64
	SessionTTL         time.Duration
	BatchConcurrency   int
	EnableDebugLogging bool
}

// IngestionService matches items coming from voice, OCR and manual entry
// against the catalog and keeps each batch as a reviewable session.
type IngestionService struct {
	catalog            domain.CatalogRepository
	matcher            domain.CatalogMatchingService
	sessions           domain.SessionStore
	parser             *ItemParser
	recorder           MatchRecorder
	logger             *zap.Logger
	thresholds         map[domain.Source]float64
	sessionTTL         time.Duration
	batchConcurrency   int
	enableDebugLogging bool
}

// NewIngestionService creates a new ingestion service with dependencies.
// recorder and logger may be nil.
func NewIngestionService(
	catalog domain.CatalogRepository,
	matcher domain.CatalogMatchingService,
	sessions domain.SessionStore,
	recorder MatchRecorder,
	logger *zap.Logger,
	config IngestionServiceConfig,
) *IngestionService {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	thresholds := map[domain.Source]float64{
		domain.SourceVoice:  VoiceThreshold,
		domain.SourceOCR:    DefaultThreshold,
		domain.SourceManual: DefaultThreshold,
	}
	for source, threshold := range config.Thresholds {
		if threshold > 0 && threshold < 1 {
			thresholds[source] = threshold
		}
	}

	sessionTTL := config.SessionTTL
	if sessionTTL == 0 {
		sessionTTL = 24 * time.Hour // Default one day
	}

	return &IngestionService{
		catalog:            catalog,
		matcher:            matcher,
		sessions:           sessions,
		parser:             NewItemParser(logger, config.EnableDebugLogging),
		recorder:           recorder,
		logger:             logger,
		thresholds:         thresholds,
		sessionTTL:         sessionTTL,
		batchConcurrency:   config.BatchConcurrency,
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Threshold returns the review threshold configured for source.
func (s *IngestionService) Threshold(source domain.Source) float64 {
	return s.thresholds[source]
}

// Catalog returns the shared catalog.
func (s *IngestionService) Catalog(ctx context.Context) ([]domain.CatalogEntry, error) {
	entries, err := s.catalog.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}
	return entries, nil
}

// MatchItems matches a batch of extracted items.
// Flow: validate -> load catalog -> match batch -> summarise -> store session
func (s *IngestionService) MatchItems(ctx context.Context, request *domain.MatchRequest) (*domain.MatchSession, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}
	if !request.Source.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, request.Source)
	}

	items := make([]domain.ExtractedItem, 0, len(request.Items))
	for _, item := range request.Items {
		if strings.TrimSpace(item.RawName) == "" {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items with a name", domain.ErrInvalidRequest)
	}

	catalog, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	threshold := s.thresholds[request.Source]
	results, err := MatchAll(ctx, s.matcher, items, catalog, threshold, s.batchConcurrency)
	if err != nil {
		return nil, err
	}

	session := &domain.MatchSession{
		ID:                request.SessionID,
		Source:            request.Source,
		Threshold:         threshold,
		Results:           results,
		AverageConfidence: CalculateAverageConfidence(results),
		CreatedAt:         time.Now(),
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}

	for _, result := range results {
		if result.Matched() {
			session.MatchedCount++
		}
		if result.Flagged {
			session.FlaggedCount++
		}
		s.recorder.ObserveMatch(request.Source, result)

		if s.enableDebugLogging {
			s.logDecision(session, result)
		}
	}

	if err := s.sessions.Set(ctx, session, s.sessionTTL); err != nil {
		// The results are still valid without a stored session
		s.logger.Warn("failed to store match session",
			zap.String("session", session.ID),
			zap.Error(err))
	}

	s.logger.Info("matched batch",
		zap.String("session", session.ID),
		zap.String("source", string(session.Source)),
		zap.Int("items", len(results)),
		zap.Int("matched", session.MatchedCount),
		zap.Int("flagged", session.FlaggedCount),
		zap.Float64("averageConfidence", session.AverageConfidence))

	return session, nil
}

// MatchText tokenizes raw transcript or OCR text and matches the items.
func (s *IngestionService) MatchText(ctx context.Context, request *domain.TextMatchRequest) (*domain.MatchSession, error) {
	if request == nil || strings.TrimSpace(request.Text) == "" {
		return nil, domain.ErrInvalidRequest
	}

	items := s.parser.Parse(request.Text, request.SourceConfidence)
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: no items found in text", domain.ErrInvalidRequest)
	}

	return s.MatchItems(ctx, &domain.MatchRequest{
		SessionID: request.SessionID,
		Source:    request.Source,
		Items:     items,
	})
}

// GetSession returns a stored match session.
func (s *IngestionService) GetSession(ctx context.Context, id string) (*domain.MatchSession, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get session %s: %w", id, err)
	}
	return session, nil
}

// ClearSession removes a stored match session.
func (s *IngestionService) ClearSession(ctx context.Context, id string) error {
	if id == "" {
		return domain.ErrInvalidRequest
	}
	return s.sessions.Delete(ctx, id)
}

func (s *IngestionService) logDecision(session *domain.MatchSession, result domain.MatchResult) {
	matched := ""
	if result.MatchedEntry != nil {
		matched = result.MatchedEntry.CanonicalName
	}
	s.logger.Debug("match decision",
		zap.String("session", session.ID),
		zap.String("name", result.Item.RawName),
		zap.String("matched", matched),
		zap.Stringer("quantity", result.NormalizedQuantity),
		zap.Float64("confidence", result.Confidence),
		zap.String("level", ConfidenceLevel(result.Confidence)),
		zap.Bool("flagged", result.Flagged))
}
