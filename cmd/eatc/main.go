// Command eatc runs one evidence-acquisition invocation end to end: it
// classifies a topic, fans out to providers, normalizes and triangulates
// the results, and writes the output bundle described in spec.md §6.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/corrobor8/eatc/internal/config"
	"github.com/corrobor8/eatc/internal/evidence"
	"github.com/corrobor8/eatc/internal/metrics"
	"github.com/corrobor8/eatc/internal/pipeline"
	"github.com/corrobor8/eatc/internal/progress"
)

// Exit codes per spec.md §6/§7.
const (
	exitSuccess     = 0
	exitDegraded    = 2
	exitNoEvidence  = 3
	exitConfigError = 4
)

func main() {
	os.Exit(run())
}

func run() int {
	topic := flag.String("topic", "", "research topic (required)")
	intentHint := flag.String("intent-hint", "", "optional intent override (encyclopedia, news, stats, ...)")
	depth := flag.String("depth", string(evidence.DepthStandard), "rapid, standard, or deep")
	budget := flag.Int("budget", 0, "wall-clock budget in seconds (0 uses the depth's default)")
	strict := flag.Bool("strict", false, "on a quality gate miss, retry once with a loosened paraphrase threshold before reporting a degraded run")
	outputDir := flag.String("output-dir", "./eatc-out", "directory to write evidence_cards.jsonl, metrics.json, clusters.json")
	providerList := flag.String("providers", "", "comma-separated provider override, bypassing the intent router")
	progressAddr := flag.String("progress-addr", "", "optional host:port to broadcast run progress over a WebSocket")
	flag.Parse()

	if strings.TrimSpace(*topic) == "" {
		fmt.Fprintln(os.Stderr, "❌ -topic is required")
		return exitConfigError
	}

	cfg, err := config.Load()
	if err != nil {
		log.Printf("❌ config error: %v", err)
		return exitConfigError
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Printf("❌ cannot create output dir %s: %v", *outputDir, err)
		return exitConfigError
	}

	var providers []string
	if strings.TrimSpace(*providerList) != "" {
		for _, p := range strings.Split(*providerList, ",") {
			if p = strings.TrimSpace(p); p != "" {
				providers = append(providers, p)
			}
		}
	}

	var reporter *progress.Reporter
	if *progressAddr != "" {
		hub := progress.NewHub()
		go func() {
			if err := hub.ListenAndServe(*progressAddr); err != nil {
				log.Printf("⚪️ progress server stopped: %v", err)
			}
		}()
		reporter = progress.NewReporter(hub)
		defer reporter.Close()
	}

	req := evidence.RunRequest{
		Topic:         *topic,
		IntentHint:    evidence.Intent(*intentHint),
		Depth:         evidence.Depth(*depth),
		BudgetSeconds: *budget,
		Strict:        *strict,
		OutputDir:     *outputDir,
		Providers:     providers,
	}

	log.Printf("🔍 starting run: topic=%q depth=%s strict=%v", req.Topic, req.Depth, req.Strict)

	ctx := context.Background()
	if reporter != nil {
		ctx = progress.WithReporter(ctx, reporter)
	}

	result, err := pipeline.Run(ctx, cfg, req)
	if err != nil {
		log.Printf("❌ run failed: %v", err)
		return exitConfigError
	}

	if err := writeBundle(*outputDir, result); err != nil {
		log.Printf("❌ failed to write output bundle: %v", err)
		return exitConfigError
	}

	switch result.Outcome {
	case metrics.OutcomeSuccess:
		log.Printf("✅ run succeeded: %d items, %d clusters, gates passed", len(result.Items), len(result.Clusters))
		return exitSuccess
	case metrics.OutcomeDegraded:
		log.Printf("⚪️ run degraded: %d items, %d clusters, one or more gates failed", len(result.Items), len(result.Clusters))
		return exitDegraded
	default:
		log.Printf("❌ run produced no evidence")
		return exitNoEvidence
	}
}

// writeBundle writes the three output files spec.md §6 requires:
// evidence_cards.jsonl (one Item per line, descending confidence),
// metrics.json, and clusters.json.
func writeBundle(dir string, result *pipeline.Result) error {
	if err := writeEvidenceCards(filepath.Join(dir, "evidence_cards.jsonl"), result.Items); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(dir, "metrics.json"), bundleMetrics(result.Metrics)); err != nil {
		return err
	}
	return writeJSON(filepath.Join(dir, "clusters.json"), bundleClusters(result.Clusters))
}

func writeEvidenceCards(path string, items []*evidence.Item) error {
	sorted := make([]*evidence.Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Confidence > sorted[j].Confidence
	})

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	for _, it := range sorted {
		if err := enc.Encode(it); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(path string, v interface{}) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// bundleClusters mirrors evidence.ClusterJSON's shape through ToJSON; kept
// as a thin slice builder so writeBundle stays format-agnostic.
func bundleClusters(clusters []*evidence.Cluster) []evidence.ClusterJSON {
	out := make([]evidence.ClusterJSON, len(clusters))
	for i, c := range clusters {
		out[i] = c.ToJSON()
	}
	return out
}

// metricsBundle reshapes metrics.Report's internal gates.* naming into
// spec.md §6's wire field names (pass_primary/pass_triangulation/
// pass_concentration/thresholds_used) without disturbing the internal
// Report struct other packages already consume.
type metricsBundle struct {
	PrimaryShare         float64            `json:"primary_share"`
	TriangulationRate    float64            `json:"triangulation_rate"`
	DomainConcentration  float64            `json:"domain_concentration"`
	UniqueDomains        int                `json:"unique_domains"`
	CredibleCards        int                `json:"credible_cards"`
	ProviderErrorRate    float64            `json:"provider_error_rate"`
	ProviderEntropy      float64            `json:"provider_entropy"`
	RecentPrimaryCount   int                `json:"recent_primary_count"`
	TriangulatedClusters int                `json:"triangulated_clusters"`
	Intent               evidence.Intent    `json:"intent"`
	Pass                 bool               `json:"pass"`
	PassPrimary          bool               `json:"pass_primary"`
	PassTriangulation    bool               `json:"pass_triangulation"`
	PassConcentration    bool               `json:"pass_concentration"`
	ThresholdsUsed       metrics.Thresholds `json:"thresholds_used"`
	StrictFailedOnce     bool               `json:"strict_failed_once,omitempty"`
}

func bundleMetrics(r metrics.Report) metricsBundle {
	return metricsBundle{
		PrimaryShare:         r.PrimaryShare,
		TriangulationRate:    r.TriangulationRate,
		DomainConcentration:  r.DomainConcentration,
		UniqueDomains:        r.UniqueDomains,
		CredibleCards:        r.CredibleCards,
		ProviderErrorRate:    r.ProviderErrorRate,
		ProviderEntropy:      r.ProviderEntropy,
		RecentPrimaryCount:   r.RecentPrimaryCount,
		TriangulatedClusters: r.TriangulatedClusters,
		Intent:               r.Intent,
		Pass:                 r.Pass,
		PassPrimary:          r.Gates.PrimaryShare,
		PassTriangulation:    r.Gates.TriangulationRate,
		PassConcentration:    r.Gates.DomainConcentration,
		ThresholdsUsed:       r.Thresholds,
		StrictFailedOnce:     r.StrictFailedOnce,
	}
}
