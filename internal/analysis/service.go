package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"estatequery/server/internal/models"
	"estatequery/server/internal/query"
)

// ErrNoRecords signals that the filter matched nothing. It is a
// not-found condition, distinct from an analysis over an empty
// optional view, and no aggregates are computed when it occurs.
var ErrNoRecords = errors.New("no properties found for the given criteria")

// How the summary text was produced.
const (
	GeneratorGemini   = "gemini"
	GeneratorComposer = "composer"
	GeneratorFallback = "fallback"
)

// RecordStore is the queryable property collection.
type RecordStore interface {
	FilterProperties(f models.Filter) ([]models.Property, error)
}

// Generator is the opaque text-generation collaborator. Cancellation
// and timeout policy belongs to the caller's context, not this core.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// LogSink appends completed analyses for durable storage.
// Fire-and-forget: sink errors never roll back the response.
type LogSink interface {
	InsertQueryLog(entry *models.QueryLog) error
}

// Service runs the one-shot analysis pipeline: classify, extract
// location, filter, aggregate, then generate or compose the summary.
// It keeps no state between requests; concurrent calls need no
// coordination.
type Service struct {
	store      RecordStore
	generator  Generator
	logs       LogSink
	classifier *query.IntentClassifier
	extractor  *query.LocationExtractor
	composer   *Composer
	logger     *logrus.Logger
}

func NewService(
	store RecordStore,
	generator Generator,
	logs LogSink,
	classifier *query.IntentClassifier,
	extractor *query.LocationExtractor,
	logger *logrus.Logger,
) *Service {
	return &Service{
		store:      store,
		generator:  generator,
		logs:       logs,
		classifier: classifier,
		extractor:  extractor,
		composer:   NewComposer(),
		logger:     logger,
	}
}

// Analyze executes the full pipeline for one query. Returns
// ErrNoRecords when the filtered set is empty.
func (s *Service) Analyze(ctx context.Context, queryText string) (*models.AnalysisResult, error) {
	parsed := query.Parse(s.classifier, s.extractor, queryText)

	properties, err := s.store.FilterProperties(models.Filter{Location: parsed.Location})
	if err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, ErrNoRecords
	}

	marketCtx := BuildContext(parsed, properties)

	summary, source := s.summarize(ctx, marketCtx, properties)

	result := &models.AnalysisResult{
		Summary:   summary,
		ChartData: marketCtx.Chart,
		TableData: marketCtx.Table,
		Count:     marketCtx.TotalCount,
		QueryType: parsed.Intent,
		Location:  parsed.Location,
		Generator: source,
	}

	s.logQuery(parsed, result)

	return result, nil
}

// summarize produces the summary text, preferring the external
// generator and falling back to the deterministic composer when the
// generator is absent, fails, or returns empty text.
func (s *Service) summarize(ctx context.Context, marketCtx MarketContext, properties []models.Property) (string, string) {
	if s.generator == nil {
		return s.composer.Compose(marketCtx, properties), GeneratorComposer
	}

	text, err := s.generator.Generate(ctx, marketCtx.BuildPrompt())
	if err != nil {
		s.logger.WithError(err).Warn("Generator failed, using composer fallback")
		return s.composer.Compose(marketCtx, properties), GeneratorFallback
	}
	if strings.TrimSpace(text) == "" {
		s.logger.Warn("Generator returned empty text, using composer fallback")
		return s.composer.Compose(marketCtx, properties), GeneratorFallback
	}
	return text, GeneratorGemini
}

func (s *Service) logQuery(parsed models.ParsedQuery, result *models.AnalysisResult) {
	if s.logs == nil {
		return
	}

	locationFilter := parsed.Location
	if locationFilter == "" {
		locationFilter = "all"
	}

	chartJSON, err := json.Marshal(result.ChartData)
	if err != nil {
		s.logger.WithError(err).Error("Failed to marshal chart data for query log")
		chartJSON = []byte("[]")
	}
	tableJSON, err := json.Marshal(result.TableData)
	if err != nil {
		s.logger.WithError(err).Error("Failed to marshal table data for query log")
		tableJSON = []byte("[]")
	}

	entry := &models.QueryLog{
		ID:              uuid.NewString(),
		UserQuery:       parsed.RawText,
		LocationFilter:  locationFilter,
		ResponseSummary: result.Summary,
		ChartData:       string(chartJSON),
		TableData:       string(tableJSON),
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.logs.InsertQueryLog(entry); err != nil {
		s.logger.WithError(err).Error("Failed to append query log")
	}
}

// Parse exposes the classification step for callers that need the
// parsed query without running the whole pipeline (CSV export).
func (s *Service) Parse(queryText string) models.ParsedQuery {
	return query.Parse(s.classifier, s.extractor, queryText)
}
