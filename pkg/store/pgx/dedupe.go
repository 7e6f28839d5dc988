package pgx

import (
	"context"
	"fmt"

	"github.com/netweave/intrograph/backend/internal/util"
	"github.com/netweave/intrograph/backend/pkg/graph"
	"github.com/netweave/intrograph/backend/pkg/logger"
)

// deleteBatchSize bounds each destructive round so a sweep over a large
// table never holds one oversized transaction.
const deleteBatchSize = 100

// maxSampleGroups bounds how many groups a preview spells out.
const maxSampleGroups = 10

// GroupSample is the per-group detail a preview reports.
type GroupSample struct {
	KeepID     int64    `json:"keep_id"`
	Duplicates int      `json:"duplicates"`
	SampleIDs  []string `json:"sample_ids"`
}

// DedupePreview is the non-destructive report of what a sweep would do.
type DedupePreview struct {
	TotalDuplicates int           `json:"total_duplicates"`
	TotalGroups     int           `json:"total_groups"`
	SampleGroups    []GroupSample `json:"sample_groups"`
}

// DedupeResult reports what a destructive sweep actually did.
type DedupeResult struct {
	DeletedCount  int64 `json:"deleted_count"`
	GroupsCleaned int   `json:"groups_cleaned"`
	FailedBatches int   `json:"failed_batches"`
}

// groupsFullyCleaned counts groups whose every duplicate went through a
// successful batch. A group split across batches counts only when all of
// its rows were removed.
func groupsFullyCleaned(groups []graph.DuplicateGroup, failedIDs map[int64]bool) int {
	cleaned := 0
	for _, g := range groups {
		ok := true
		for _, id := range g.DupeIDs {
			if failedIDs[id] {
				ok = false
				break
			}
		}
		if ok {
			cleaned++
		}
	}
	return cleaned
}

func buildPreview(plan graph.DedupePlan) DedupePreview {
	preview := DedupePreview{
		TotalDuplicates: plan.TotalDuplicates,
		TotalGroups:     len(plan.Groups),
		SampleGroups:    make([]GroupSample, 0, min(len(plan.Groups), maxSampleGroups)),
	}
	for _, g := range plan.Groups {
		if len(preview.SampleGroups) >= maxSampleGroups {
			break
		}
		preview.SampleGroups = append(preview.SampleGroups, GroupSample{
			KeepID:     g.KeepID,
			Duplicates: len(g.DupeIDs),
			SampleIDs:  g.SampleIDs,
		})
	}
	return preview
}

// PreviewDuplicates computes the duplicate grouping for a user without
// mutating anything. It reports the same counts a destructive sweep would.
func (s *EvidenceDBStorage) PreviewDuplicates(ctx context.Context, userID int64) (DedupePreview, error) {
	rows, err := s.ListDuplicateEvidence(ctx, userID)
	if err != nil {
		return DedupePreview{}, err
	}
	return buildPreview(graph.PlanDedupe(rows)), nil
}

// DedupeEvidence removes duplicate evidence for a user, keeping the
// earliest-created event of each identity-key group. Deletions run in
// bounded batches; a failed batch is logged and skipped so the sweep
// continues, and the aggregate counts report exactly what happened. The
// sweep is structurally idempotent: rows already deleted by an interrupted
// run no longer match the duplicate scan, so re-invocation never double
// counts.
func (s *EvidenceDBStorage) DedupeEvidence(ctx context.Context, userID int64) (DedupeResult, error) {
	rows, err := s.ListDuplicateEvidence(ctx, userID)
	if err != nil {
		return DedupeResult{}, err
	}

	plan := graph.PlanDedupe(rows)
	if plan.TotalDuplicates == 0 {
		return DedupeResult{}, nil
	}

	logger.Info("[Dedupe] Starting sweep",
		"user_id", userID, "groups", len(plan.Groups), "duplicates", plan.TotalDuplicates)

	var result DedupeResult
	failedIDs := make(map[int64]bool)
	for _, batch := range util.ChunkIDs(plan.DuplicateIDs(), deleteBatchSize) {
		deleted, err := s.DeleteEvidenceBatch(ctx, batch)
		if err != nil {
			logger.Error("[Dedupe] Batch delete failed, continuing",
				"user_id", userID, "batch_size", len(batch), "err", err)
			result.FailedBatches++
			for _, id := range batch {
				failedIDs[id] = true
			}
			continue
		}
		result.DeletedCount += deleted
	}
	result.GroupsCleaned = groupsFullyCleaned(plan.Groups, failedIDs)

	logger.Info("[Dedupe] Sweep finished",
		"user_id", userID, "deleted", result.DeletedCount, "failed_batches", result.FailedBatches)

	if result.FailedBatches > 0 {
		return result, fmt.Errorf("dedupe sweep finished with %d failed batches", result.FailedBatches)
	}
	return result, nil
}

// ArchiveDuplicates is the reversible counterpart of DedupeEvidence: it
// marks duplicate rows superseded instead of deleting them. Archived rows
// leave the active set, so scoring and later sweeps no longer see them.
func (s *EvidenceDBStorage) ArchiveDuplicates(ctx context.Context, userID int64) (DedupeResult, error) {
	rows, err := s.ListDuplicateEvidence(ctx, userID)
	if err != nil {
		return DedupeResult{}, err
	}

	plan := graph.PlanDedupe(rows)
	if plan.TotalDuplicates == 0 {
		return DedupeResult{}, nil
	}

	var result DedupeResult
	failedIDs := make(map[int64]bool)
	for _, batch := range util.ChunkIDs(plan.DuplicateIDs(), deleteBatchSize) {
		marked, err := s.MarkEvidenceStatus(ctx, batch, "superseded")
		if err != nil {
			logger.Error("[Dedupe] Batch archive failed, continuing",
				"user_id", userID, "batch_size", len(batch), "err", err)
			result.FailedBatches++
			for _, id := range batch {
				failedIDs[id] = true
			}
			continue
		}
		result.DeletedCount += marked
	}
	result.GroupsCleaned = groupsFullyCleaned(plan.Groups, failedIDs)

	if result.FailedBatches > 0 {
		return result, fmt.Errorf("dedupe archive finished with %d failed batches", result.FailedBatches)
	}
	return result, nil
}
