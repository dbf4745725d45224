// Package feed imports external XML feeds (RSS, Atom, or a generic row list) as found items.
package feed

import (
	"context"
	"fmt"
	"time"

	"github.com/beevik/etree"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"

	"central-lost-found/backend/internal/events"
	"central-lost-found/backend/internal/item/domain"
	"central-lost-found/backend/internal/item/repository"
	"central-lost-found/backend/internal/metrics"
	"central-lost-found/backend/internal/sanitize"
)

// Failure describes one record that could not be stored.
type Failure struct {
	Index  int    `json:"index"`
	Title  string `json:"title"`
	Reason string `json:"reason"`
}

// Result is the partial-success outcome of an import. ImportedCount always equals len(IDs).
type Result struct {
	ImportedCount int       `json:"importedCount"`
	IDs           []string  `json:"ids"`
	Failures      []Failure `json:"failures"`
	Dialect       Dialect   `json:"dialect"`
}

// Downloader fetches a feed document.
type Downloader interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, error)
}

// Importer downloads a feed and stores each of its records as a found item.
type Importer struct {
	fetcher   Downloader
	repo      repository.Repository
	publisher events.Publisher
	metrics   *metrics.Metrics
	log       *zap.Logger
	tracer    trace.Tracer
	nowF      func() time.Time
}

// NewImporter returns an Importer. publisher, m and log may be nil.
func NewImporter(fetcher Downloader, repo repository.Repository, publisher events.Publisher, m *metrics.Metrics, log *zap.Logger) *Importer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Importer{
		fetcher:   fetcher,
		repo:      repo,
		publisher: publisher,
		metrics:   m,
		log:       log.Named("feed"),
		tracer:    otel.Tracer("central-lost-found/feed"),
		nowF:      time.Now,
	}
}

// Import fetches rawURL, detects its dialect and inserts every record. Download and parse failures wrap
// ErrDownload or ErrInvalidXML and nothing is written. A failed record insert is logged, reported in
// Result.Failures, and does not stop the remaining records.
func (im *Importer) Import(ctx context.Context, rawURL string) (*Result, error) {
	ctx, span := im.tracer.Start(ctx, "feed.Import", trace.WithAttributes(attribute.String("feed.url", rawURL)))
	defer span.End()

	body, err := im.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "download failed")
		return nil, err
	}
	root, err := parse(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}

	dialect, records := Extract(root)
	span.SetAttributes(attribute.String("feed.dialect", string(dialect)), attribute.Int("feed.records", len(records)))

	now := im.nowF()
	res := &Result{IDs: []string{}, Failures: []Failure{}, Dialect: dialect}
	for i, rec := range records {
		item := toItem(rec, now)
		id, err := im.repo.Insert(ctx, item)
		if err != nil {
			im.log.Warn("record insert failed",
				zap.String("url", rawURL),
				zap.Int("index", i),
				zap.String("title", rec.Title),
				zap.Error(err),
			)
			im.metrics.IncrementFeedRecord(metrics.OutcomeFailed)
			res.Failures = append(res.Failures, Failure{Index: i, Title: item.Title, Reason: err.Error()})
			continue
		}
		res.IDs = append(res.IDs, id)
		im.metrics.IncrementFeedRecord(metrics.OutcomeImported)
		im.metrics.IncrementItemsCreated(metrics.SourceFeed)
		events.PublishAsync(im.log, im.publisher, events.NewItemCreated(item, metrics.SourceFeed, now))
	}
	res.ImportedCount = len(res.IDs)
	span.SetAttributes(attribute.Int("feed.imported", res.ImportedCount))

	im.log.Info("feed imported",
		zap.String("url", rawURL),
		zap.String("dialect", string(dialect)),
		zap.Int("records", len(records)),
		zap.Int("imported", res.ImportedCount),
	)
	return res, nil
}

// parse reads body as XML. Non-UTF-8 encodings declared in the prolog are decoded.
func parse(body []byte) (*etree.Element, error) {
	doc := etree.NewDocument()
	doc.ReadSettings.CharsetReader = charset.NewReaderLabel
	if err := doc.ReadFromBytes(body); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidXML, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: no root element", ErrInvalidXML)
	}
	return root, nil
}

// toItem fills the fields a feed does not carry with the import placeholders.
func toItem(rec Record, now time.Time) *domain.FoundItem {
	item := &domain.FoundItem{
		Title:           truncate(rec.Title, domain.MaxTitleLen),
		DominantColor:   domain.UnknownValue,
		LocationFound:   domain.FeedImportSource,
		DateFound:       NormalizeDate(rec.Date, now),
		Voivodeship:     domain.UnknownValue,
		ReportingEntity: domain.FeedImportSource,
	}
	if desc := sanitize.Text(sanitize.HTMLToText(rec.Description)); desc != "" {
		item.Description = &desc
	}
	return item
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
