// Package pipeline wires C1 through C10 into the single end-to-end
// invocation described in SPEC_FULL §2/§6: classify, fan out, normalize,
// dedupe, cluster, filter contradictions, enrich gaps, and evaluate gates.
package pipeline

import (
	"context"
	"log"
	"time"

	"github.com/corrobor8/eatc/internal/cluster"
	"github.com/corrobor8/eatc/internal/config"
	"github.com/corrobor8/eatc/internal/contradiction"
	"github.com/corrobor8/eatc/internal/dedup"
	"github.com/corrobor8/eatc/internal/enrich"
	"github.com/corrobor8/eatc/internal/evidence"
	"github.com/corrobor8/eatc/internal/httpx"
	"github.com/corrobor8/eatc/internal/intent"
	"github.com/corrobor8/eatc/internal/metrics"
	"github.com/corrobor8/eatc/internal/normalize"
	"github.com/corrobor8/eatc/internal/providers"
	"github.com/corrobor8/eatc/internal/scheduler"
)

// defaultBudgetSeconds holds the wall-clock budget used when a request
// does not set one explicitly, keyed by depth (spec.md §6's RunRequest).
var defaultBudgetSeconds = map[evidence.Depth]int{
	evidence.DepthRapid:    60,
	evidence.DepthStandard: 180,
	evidence.DepthDeep:     420,
}

// concurrencyForDepth bounds the scheduler's in-flight provider calls per
// depth tier, wider for deep runs that can afford to spend more of the
// budget on breadth.
var concurrencyForDepth = map[evidence.Depth]int{
	evidence.DepthRapid:    4,
	evidence.DepthStandard: 8,
	evidence.DepthDeep:     12,
}

// defaultFetchTimeout is the per-item content-fetch ceiling fed through
// RunContext.CallTimeout, the same pattern the scheduler applies to each
// provider call, so one slow/retrying fetch can't run past budget.
const defaultFetchTimeout = 20 * time.Second

// Result is everything one Run produces: the final item/cluster sets, the
// gate report, and the outcome the driver maps to an exit code.
type Result struct {
	RunContext *evidence.RunContext
	Items      []*evidence.Item
	Clusters   []*evidence.Cluster
	Metrics    metrics.Report
	Outcome    metrics.Outcome
}

// Run executes one full EATC invocation against req, using cfg for every
// ambient knob (circuits, caps, credentials). It never panics on upstream
// failure — every component degrades instead, per spec.md §7's recovery
// table — and it always returns a nil error, including when ctx is
// cancelled or the budget runs out (the result then holds what was gathered).
func Run(ctx context.Context, cfg *config.Config, req evidence.RunRequest) (*Result, error) {
	classified := intent.Classify(req.Topic, string(req.IntentHint))

	depth := req.Depth
	if depth == "" {
		depth = evidence.DepthStandard
	}
	budgetSeconds := req.BudgetSeconds
	if budgetSeconds <= 0 {
		budgetSeconds = defaultBudgetSeconds[depth]
	}
	rc := evidence.NewRunContext(req, classified, time.Duration(budgetSeconds)*time.Second)
	rc.Depth = depth

	ctx, cancel := context.WithDeadline(ctx, rc.Deadline)
	defer cancel()

	client := httpx.NewClient(httpx.Config{
		CacheDir:             req.OutputDir + "/.httpcache",
		ContactEmail:         cfg.ContactEmail,
		CircuitFailThreshold: cfg.HTTPCircuitFails,
		CircuitCooldown:      cfg.HTTPCircuitReset,
	})
	client.SetMinInterval("export.arxiv.org", 3*time.Second)
	client.SetMinInterval("nominatim.openstreetmap.org", time.Second)
	client.SetMinInterval("overpass-api.de", time.Second)

	sch := scheduler.New(providers.BuildAll(client, cfg), client.Circuit())
	if n := concurrencyForDepth[depth]; n > 0 {
		sch.SetMaxConcurrency(n)
	}

	route := intent.RouteFor(classified)
	names := req.Providers
	if len(names) == 0 {
		names = route.All()
	}

	log.Printf("[pipeline] topic=%q intent=%s depth=%s providers=%v", req.Topic, classified, depth, names)
	raw := sch.FanOut(ctx, rc, names)

	fetchCfg := normalize.FetchConfig{
		UnpaywallEmail: cfg.UnpaywallEmail,
		MaxPDFBytes:    cfg.MaxPDFBytes,
		PDFMaxPages:    cfg.PDFMaxPages,
	}
	for i, it := range raw {
		if ctx.Err() != nil || rc.Remaining() <= 0 {
			log.Printf("[pipeline] budget exhausted during content fetch, %d items left unfetched", len(raw)-i)
			break
		}
		fetchCtx, cancel := context.WithTimeout(ctx, rc.CallTimeout(defaultFetchTimeout))
		normalize.Enrich(fetchCtx, client, it, fetchCfg)
		cancel()
	}

	if len(raw) == 0 {
		report := metrics.Evaluate(nil, nil, rc.AllCounters(), classified, time.Now())
		return &Result{RunContext: rc, Metrics: report, Outcome: metrics.OutcomeNoEvidence}, nil
	}

	clusterer := cluster.NewClusterer(cluster.NewJaccardBackend())
	filter := contradiction.NewFilter(cfg.ContradictionTolPct, cfg.TrustedDomains, req.Strict)

	items, clusters := analyze(raw, clusterer, filter)

	if rc.Remaining() > 0 {
		if gaps := enrich.Run(ctx, rc, sch, route.Primary, clusters, classified); len(gaps) > 0 {
			log.Printf("[pipeline] gap-fill enrichment admitted %d primary-source items", len(gaps))
			raw = append(raw, gaps...)
			items, clusters = analyze(raw, clusterer, filter)
		}
	}

	now := time.Now()
	report := metrics.Evaluate(items, clusters, rc.AllCounters(), classified, now)

	if req.Strict && !report.Pass && !rc.StrictFailedOnce() {
		rc.SetStrictFailedOnce()
		log.Printf("[pipeline] strict gate failed on first pass, retrying with loosened paraphrase threshold")
		clusterer.ForcedThreshold = metrics.DegradedParaphraseThreshold
		items, clusters = analyze(raw, clusterer, filter)
		report = metrics.Evaluate(items, clusters, rc.AllCounters(), classified, time.Now())
		report.StrictFailedOnce = true
	}

	outcome := metrics.Resolve(report, len(items) > 0)
	return &Result{RunContext: rc, Items: items, Clusters: clusters, Metrics: report, Outcome: outcome}, nil
}

// analyze runs C6-C8-C9's non-fan-out stages once: dedupe, cluster,
// contradiction-screen, then promote primary sources and recompute
// confidence over the surviving item set. It is re-entrant so both the
// post-gap-fill re-cluster and the strict-mode retry pass can re-run it
// without duplicating the four-stage sequence inline.
func analyze(raw []*evidence.Item, clusterer *cluster.Clusterer, filter *contradiction.Filter) ([]*evidence.Item, []*evidence.Cluster) {
	kept, _, _, _ := dedup.Run(raw)
	clusters := clusterer.Run(kept)
	clusters = filter.Apply(kept, clusters)

	enrich.PromotePrimarySources(kept)
	enrich.RecomputeConfidence(kept, clusters, time.Now())

	return kept, clusters
}
