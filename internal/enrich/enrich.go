package enrich

import (
	"context"
	"log"

	"github.com/corrobor8/eatc/internal/evidence"
	"github.com/corrobor8/eatc/internal/scheduler"
)

// fanOuter is the capability Run needs from internal/scheduler, kept as an
// interface so the orchestration here is testable against a fake.
type fanOuter interface {
	FanOut(ctx context.Context, rc *evidence.RunContext, providerNames []string) []*evidence.Item
}

var _ fanOuter = (*scheduler.Scheduler)(nil)

// Run detects clusters lacking primary-source backing and issues a bounded
// number of site:-scoped re-entry queries through the scheduler to try to
// fill each gap, admitting only results whose domain lands in the
// canonical primary set. It returns the newly admitted items; callers are
// responsible for appending them to the run's item slice and re-running
// whatever downstream dedup/clustering pass they need.
func Run(ctx context.Context, rc *evidence.RunContext, sch fanOuter, generalProviders []string, clusters []*evidence.Cluster, intent evidence.Intent) []*evidence.Item {
	gaps := DetectGaps(clusters)
	if len(gaps) == 0 {
		return nil
	}

	originalTopic := rc.Topic
	defer func() { rc.Topic = originalTopic }()

	var admitted []*evidence.Item

	for _, gap := range gaps {
		queries := BuildQueries(gap, intent)
		if len(queries) == 0 {
			continue
		}
		var gapAdmitted []*evidence.Item
		for _, q := range queries {
			if len(gapAdmitted) >= perFamilyQuota {
				break
			}
			if rc.Remaining() <= 0 {
				log.Printf("[enrich] budget exhausted, stopping gap fill early")
				return admitted
			}
			rc.Topic = q
			results := sch.FanOut(ctx, rc, generalProviders)
			for _, it := range results {
				if !IsPrimaryDomain(it.SourceDomain) {
					continue
				}
				if it.Metadata == nil {
					it.Metadata = map[string]string{}
				}
				it.Metadata["provenance"] = "primary_fill"
				gapAdmitted = append(gapAdmitted, it)
				if len(gapAdmitted) >= perFamilyQuota {
					break
				}
			}
		}
		admitted = append(admitted, gapAdmitted...)
	}
	return admitted
}
