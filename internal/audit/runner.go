// Package audit orchestrates a full pre-call audit: it drives the provider
// calls, assembles their payloads for the decision engine, stamps the result
// envelope, and maintains the audit cache. All decision logic lives in the
// engine; this package only sequences I/O around it.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/precall-audit/internal/config"
	"github.com/sells-group/precall-audit/internal/engine"
	"github.com/sells-group/precall-audit/internal/match"
	"github.com/sells-group/precall-audit/internal/model"
	"github.com/sells-group/precall-audit/internal/resilience"
	"github.com/sells-group/precall-audit/internal/scan"
	"github.com/sells-group/precall-audit/internal/store"
	"github.com/sells-group/precall-audit/pkg/places"
	"github.com/sells-group/precall-audit/pkg/serp"
)

// SiteScanner fetches the fixed audit pages for a website.
type SiteScanner interface {
	Scan(ctx context.Context, websiteURL string) ([]scan.PageResult, error)
}

// Runner executes audits end to end.
type Runner struct {
	places   places.Client
	serp     serp.Client
	scanner  SiteScanner
	store    store.Store
	cacheTTL time.Duration
	retry    resilience.RetryConfig

	// Injectable for tests.
	now   func() time.Time
	newID func() string
}

// NewRunner creates a Runner. st may be nil to disable caching.
func NewRunner(cfg *config.Config, placesClient places.Client, serpClient serp.Client, scanner SiteScanner, st store.Store) *Runner {
	ttl := time.Duration(cfg.Cache.TTLHours) * time.Hour
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Runner{
		places:   placesClient,
		serp:     serpClient,
		scanner:  scanner,
		store:    st,
		cacheTTL: ttl,
		retry:    resilience.DefaultRetryConfig(),
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// WithClock overrides the wall clock and id generator for tests.
func (r *Runner) WithClock(now func() time.Time, newID func() string) *Runner {
	r.now = now
	r.newID = newID
	return r
}

// CacheKey builds the audit-cache key for a set of inputs.
func CacheKey(inputs model.AuditInputs) string {
	domain := match.RegistrableDomain(inputs.WebsiteURL)
	return store.Key(domain, inputs.City, inputs.PrimaryService, inputs.BusinessName)
}

// Run executes a full audit. Cached results are returned as-is with the
// cache-hit marker set. Resolution failure is reported inside the envelope
// (resolution_status != found), not as an error; errors are reserved for
// infrastructure faults like an unusable cache backend.
func (r *Runner) Run(ctx context.Context, inputs model.AuditInputs) (*model.AuditReport, error) {
	log := zap.L().With(
		zap.String("business", inputs.BusinessName),
		zap.String("city", inputs.City),
	)

	key := CacheKey(inputs)
	if r.store != nil {
		cached, err := r.store.GetAudit(ctx, key)
		if err != nil {
			return nil, eris.Wrap(err, "audit: cache lookup")
		}
		if cached != nil {
			log.Info("audit: cache hit", zap.String("audit_id", cached.AuditID))
			cached.Debug.CacheHit = true
			return cached, nil
		}
	}

	start := r.now()
	auditID := r.newID()
	trail := newCallTrail(r.now)

	log.Info("audit: starting", zap.String("audit_id", auditID))

	payloads := r.collect(ctx, inputs, trail)
	report := engine.Run(inputs, payloads)

	report.AuditID = auditID
	report.Timestamp = utcISO(start)
	report.Debug = model.DebugInfo{
		CacheHit:        false,
		AuditDurationMS: r.now().Sub(start).Milliseconds(),
		APICalls:        trail.calls,
	}

	if report.ResolvedBusiness.ResolutionStatus == model.ResolutionFound && r.store != nil {
		if err := r.store.PutAudit(ctx, key, report, r.cacheTTL); err != nil {
			log.Warn("audit: cache write failed", zap.Error(err))
		}
	}

	log.Info("audit: complete",
		zap.String("audit_id", auditID),
		zap.String("conclusion", report.SelectedConclusion.Conclusion),
		zap.Int64("duration_ms", report.Debug.AuditDurationMS),
	)
	return report, nil
}

// collect gathers every provider payload the engine needs. Provider failures
// become markers inside the payloads; nothing here aborts the audit except
// implicitly via resolution semantics.
func (r *Runner) collect(ctx context.Context, inputs model.AuditInputs, trail *callTrail) engine.Payloads {
	var p engine.Payloads

	// Directory search.
	results, err := resilience.DoVal(ctx, r.retry, "places.textsearch", func(ctx context.Context) ([]places.Place, error) {
		return r.places.TextSearch(ctx, inputs.BusinessName+" "+inputs.City)
	})
	trail.record("google_places", "textsearch", err)
	if err != nil {
		p.DirectoryFailed = true
		return p
	}
	p.Candidates = candidatesFromPlaces(results)

	// Resolve up front so the details lookup targets the chosen record. The
	// engine re-runs the same pure resolution inside Run.
	resolved := engine.Resolve(inputs, p.Candidates, false)
	if resolved.ResolutionStatus != model.ResolutionFound {
		return p
	}

	// Review details.
	if resolved.PlaceID != nil {
		details, err := resilience.DoVal(ctx, r.retry, "places.details", func(ctx context.Context) (*places.PlaceDetails, error) {
			return r.places.Details(ctx, *resolved.PlaceID)
		})
		trail.record("google_places", "details", err)
		if err == nil && details != nil {
			p.Details = engine.ReviewDetails{
				Available:      true,
				Phone:          details.Phone,
				Website:        details.Website,
				Rating:         details.Rating,
				TotalReviews:   details.TotalReviews,
				LastReviewDate: details.LastReviewDate,
			}
		}
	}

	// Local pack. No retries here: a single failure is terminal for this
	// stage only.
	query := model.ServiceDisplayName(inputs.PrimaryService) + " " + inputs.City
	entries, err := r.serp.LocalPack(ctx, query)
	trail.record("serpapi", "local_pack", err)
	if err != nil {
		p.LocalPack = engine.LocalPackResult{Failed: true}
	} else {
		p.LocalPack = engine.LocalPackResult{Entries: localPackFromSerp(entries)}
	}

	// Website scan.
	pages, err := r.scanner.Scan(ctx, inputs.WebsiteURL)
	trail.record("website_scan", match.RegistrableDomain(inputs.WebsiteURL), err)
	if err != nil {
		// Malformed URL: all pages count as attempted-and-failed.
		p.Pages = failedPages()
	} else {
		p.Pages = pageFetches(pages)
	}

	return p
}

func candidatesFromPlaces(results []places.Place) []model.Candidate {
	candidates := make([]model.Candidate, 0, len(results))
	for _, pl := range results {
		candidates = append(candidates, model.Candidate{
			ExternalID:  pl.PlaceID,
			Name:        pl.Name,
			Address:     pl.FormattedAddress,
			Website:     pl.Website,
			Rating:      pl.Rating,
			ReviewCount: pl.UserRatingsTotal,
		})
	}
	return candidates
}

func localPackFromSerp(entries []serp.Entry) []model.LocalPackEntry {
	pack := make([]model.LocalPackEntry, 0, len(entries))
	for _, e := range entries {
		pack = append(pack, model.LocalPackEntry{
			Rank:        e.Rank,
			Name:        e.Name,
			Rating:      e.Rating,
			ReviewCount: e.ReviewCount,
			Address:     e.Address,
		})
	}
	return pack
}

func pageFetches(pages []scan.PageResult) []model.PageFetch {
	fetches := make([]model.PageFetch, 0, len(pages))
	for _, p := range pages {
		fetches = append(fetches, model.PageFetch{
			Path:       p.Path,
			URL:        p.URL,
			OK:         p.OK,
			StatusCode: p.StatusCode,
			Body:       p.Body,
			Error:      p.Err,
		})
	}
	return fetches
}

func failedPages() []model.PageFetch {
	fetches := make([]model.PageFetch, 0, len(scan.ScanPaths))
	for _, path := range scan.ScanPaths {
		fetches = append(fetches, model.PageFetch{Path: path, Error: "invalid website url"})
	}
	return fetches
}

// callTrail accumulates the provider-call audit trail.
type callTrail struct {
	now   func() time.Time
	calls []model.APICall
}

func newCallTrail(now func() time.Time) *callTrail {
	return &callTrail{now: now, calls: []model.APICall{}}
}

func (t *callTrail) record(service, endpoint string, err error) {
	call := model.APICall{
		Service:   service,
		Endpoint:  endpoint,
		Timestamp: utcISO(t.now()),
	}
	if err != nil {
		msg := err.Error()
		call.Error = &msg
	}
	t.calls = append(t.calls, call)
}

func utcISO(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05Z")
}
