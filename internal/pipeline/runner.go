// Package pipeline drives a batch run: one shop at a time through place
// lookup, classification and, when asked for, outreach copy.
package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shopscout-engine/internal/domain"
	"shopscout-engine/internal/metrics"
	"shopscout-engine/internal/outreach"
	"shopscout-engine/internal/pace"
	"shopscout-engine/internal/places"
)

type PlaceFinder interface {
	FindPlace(ctx context.Context, query string) places.PlaceLookup
	Details(ctx context.Context, placeID string) places.DetailsLookup
}

type Classifier interface {
	Classify(website string) (hasWebsite, direct bool)
}

type Composer interface {
	Compose(name string, hasWebsite, direct bool) outreach.Message
}

type Prober interface {
	AggregatorLinks(ctx context.Context, site string) ([]string, error)
}

// Runner processes shops strictly in order. A nil Places means no API key
// is configured and no network calls are made.
type Runner struct {
	Places     PlaceFinder
	Classifier Classifier
	Composer   Composer // required when messages are composed
	Prober     Prober   // optional
	Pacer      pace.Pacer
	Region     string
	Metrics    *metrics.Run // optional
	Log        *zap.Logger
}

type Options struct {
	ComposeMessages bool
}

type Report struct {
	RunID      string
	Rows       []domain.Row
	Messages   []domain.Outreach // aligned with Rows; empty unless composed
	Offline    bool
	Counts     map[string]int // by metrics outcome label
	StartedAt  time.Time
	FinishedAt time.Time
}

// Run returns one Row per shop in input order. Lookup failures end up in
// Row.Note; the only error is a cancelled context while pacing.
func (r *Runner) Run(ctx context.Context, shops []domain.Shop, opts Options) (Report, error) {
	log := r.Log
	if log == nil {
		log = zap.NewNop()
	}
	pacer := r.Pacer
	if pacer == nil {
		pacer = pace.None{}
	}

	rep := Report{
		RunID:     uuid.NewString(),
		Offline:   r.Places == nil,
		Counts:    map[string]int{},
		StartedAt: time.Now(),
		Rows:      make([]domain.Row, 0, len(shops)),
	}
	log = log.With(zap.String("run_id", rep.RunID))
	log.Info("run started", zap.Int("shops", len(shops)), zap.Bool("offline", rep.Offline))

	for i, shop := range shops {
		var row domain.Row
		var outcome string

		if rep.Offline {
			row, outcome = offlineRow(shop)
		} else {
			if err := pacer.Wait(ctx); err != nil {
				return rep, fmt.Errorf("pacing before shop %d: %w", i, err)
			}
			row, outcome = r.lookup(ctx, log, shop)
		}

		rep.Rows = append(rep.Rows, row)
		rep.Counts[outcome]++
		if r.Metrics != nil {
			r.Metrics.Shop(outcome)
		}

		if opts.ComposeMessages {
			msg := r.Composer.Compose(shop.AccountName, row.HasWebsite, row.DirectOrdering)
			rep.Messages = append(rep.Messages, domain.Outreach{
				ShopID:      shop.ShopID,
				AccountName: shop.AccountName,
				Subject:     msg.Subject,
				Body:        msg.Body,
				SMS:         msg.SMS,
			})
		}

		log.Debug("shop processed",
			zap.Int("index", i),
			zap.String("shop", shop.AccountName),
			zap.String("outcome", outcome),
			zap.String("website", row.Website))
	}

	rep.FinishedAt = time.Now()
	if r.Metrics != nil {
		r.Metrics.Finish(rep.FinishedAt.Sub(rep.StartedAt), rep.FinishedAt)
	}
	log.Info("run finished",
		zap.Int("rows", len(rep.Rows)),
		zap.Any("outcomes", rep.Counts),
		zap.Duration("took", rep.FinishedAt.Sub(rep.StartedAt)))
	return rep, nil
}

func offlineRow(shop domain.Shop) (domain.Row, string) {
	return domain.Row{
		Shop:           shop,
		Classification: domain.Classification{Note: domain.NoteNoAPIKey},
	}, metrics.OutcomeOffline
}

func (r *Runner) lookup(ctx context.Context, log *zap.Logger, shop domain.Shop) (domain.Row, string) {
	row := domain.Row{Shop: shop}

	found := r.Places.FindPlace(ctx, Query(shop, r.Region))
	r.observe("find_place", found.Status)
	if found.Status != places.StatusFound {
		if found.Err != nil {
			log.Warn("place search failed", zap.String("shop", shop.AccountName), zap.Error(found.Err))
		}
		row.Note = domain.NotePlaceNotFound
		return row, metrics.OutcomeNotFound
	}

	det := r.Places.Details(ctx, found.PlaceID)
	r.observe("details", det.Status)
	if det.Err != nil {
		log.Warn("place details failed", zap.String("shop", shop.AccountName), zap.Error(det.Err))
	}
	row.Website = det.Enrichment.Website
	row.MapsURL = det.Enrichment.MapsURL

	row.HasWebsite, row.DirectOrdering = r.Classifier.Classify(row.Website)
	switch {
	case !row.HasWebsite:
		row.Note = domain.NoteNoWebsite
		return row, metrics.OutcomeNoWebsite
	case !row.DirectOrdering:
		row.Note = domain.NoteThirdPartyOnly
		return row, metrics.OutcomeThirdParty
	}

	if r.Prober != nil {
		links, err := r.Prober.AggregatorLinks(ctx, row.Website)
		if err != nil {
			log.Debug("site probe failed", zap.String("website", row.Website), zap.Error(err))
		} else if len(links) > 0 {
			row.Note = "Site links to " + strings.Join(links, ", ")
		}
	}
	return row, metrics.OutcomeDirect
}

func (r *Runner) observe(endpoint string, st places.Status) {
	if r.Metrics != nil {
		r.Metrics.Lookup(endpoint, st.String())
	}
}

// Query is the free-text search sent for a shop: "name, city, region".
func Query(shop domain.Shop, region string) string {
	return fmt.Sprintf("%s, %s, %s", shop.AccountName, shop.BillingCity, region)
}
