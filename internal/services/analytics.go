package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/curiolearn/curio-backend/internal/clients/redis"
	contentrepo "github.com/curiolearn/curio-backend/internal/data/repos/content"
	engagementrepo "github.com/curiolearn/curio-backend/internal/data/repos/engagement"
	contentdom "github.com/curiolearn/curio-backend/internal/domain/content"
	engagementdom "github.com/curiolearn/curio-backend/internal/domain/engagement"
	pkgerrors "github.com/curiolearn/curio-backend/internal/pkg/errors"
	"github.com/curiolearn/curio-backend/internal/pkg/logger"
)

const engagementRankSize = 5

const defaultProblematicFetchLimit = 50

type AnalyticsService interface {
	GetContentAnalytics(ctx context.Context, contentID uuid.UUID) (*engagementdom.ContentAnalytics, error)
	GetAbandonmentAnalytics(ctx context.Context, contentID uuid.UUID) (*engagementdom.AbandonmentAnalytics, error)
	GetEffectivenessAnalytics(ctx context.Context, topicID uuid.UUID) (*engagementdom.EffectivenessAnalytics, error)
	FindProblematicContent(ctx context.Context, thresholdPercent float64, limit int) ([]*engagementdom.ProblematicContent, error)
}

type analyticsService struct {
	db           *gorm.DB
	log          *logger.Logger
	contentRepo  contentrepo.ContentRepo
	topicRepo    contentrepo.TopicRepo
	progressRepo engagementrepo.ProgressRepo
	logRepo      engagementrepo.InteractionLogRepo
	cache        redisclient.AnalyticsCache
}

// NewAnalyticsService wires the read path. cache may be nil; every read then
// goes straight to the store.
func NewAnalyticsService(
	db *gorm.DB,
	baseLog *logger.Logger,
	contentRepo contentrepo.ContentRepo,
	topicRepo contentrepo.TopicRepo,
	progressRepo engagementrepo.ProgressRepo,
	logRepo engagementrepo.InteractionLogRepo,
	cache redisclient.AnalyticsCache,
) AnalyticsService {
	return &analyticsService{
		db:           db,
		log:          baseLog.With("service", "AnalyticsService"),
		contentRepo:  contentRepo,
		topicRepo:    topicRepo,
		progressRepo: progressRepo,
		logRepo:      logRepo,
		cache:        cache,
	}
}

// GetContentAnalytics reads the denormalized counters on the content row.
// This is the counter-derived view; GetAbandonmentAnalytics recomputes a
// comparable rate from raw events and the two are not guaranteed to match.
func (s *analyticsService) GetContentAnalytics(ctx context.Context, contentID uuid.UUID) (*engagementdom.ContentAnalytics, error) {
	item, err := s.contentRepo.GetByID(ctx, nil, contentID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("content %s: %w", contentID, pkgerrors.ErrNotFound)
	}

	return &engagementdom.ContentAnalytics{
		ContentID:      item.ID,
		Title:          item.Title,
		ViewCount:      item.ViewCount,
		CompletionCnt:  item.CompletionCount,
		CompletionRate: ratePercent(item.CompletionCount, item.ViewCount),
		RatingAverage:  item.RatingAverage,
		RatingCount:    item.RatingCount,
	}, nil
}

// GetAbandonmentAnalytics aggregates the full interaction log of one content
// id. A content id with no rows (including an id that does not exist) yields
// zero-valued analytics instead of an error: dashboards want "no data", not a
// failed page.
func (s *analyticsService) GetAbandonmentAnalytics(ctx context.Context, contentID uuid.UUID) (*engagementdom.AbandonmentAnalytics, error) {
	cacheKey := "analytics:abandonment:" + contentID.String()
	var cached engagementdom.AbandonmentAnalytics
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	rows, err := s.logRepo.GetByContentID(ctx, nil, contentID)
	if err != nil {
		return nil, err
	}

	result := aggregateAbandonment(contentID, rows)
	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

func (s *analyticsService) GetEffectivenessAnalytics(ctx context.Context, topicID uuid.UUID) (*engagementdom.EffectivenessAnalytics, error) {
	topic, err := s.topicRepo.GetByID(ctx, nil, topicID)
	if err != nil {
		return nil, err
	}
	if topic == nil {
		return nil, fmt.Errorf("topic %s: %w", topicID, pkgerrors.ErrNotFound)
	}

	cacheKey := "analytics:effectiveness:" + topicID.String()
	var cached engagementdom.EffectivenessAnalytics
	if s.cacheGet(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	items, err := s.contentRepo.GetByTopicID(ctx, nil, topicID)
	if err != nil {
		return nil, err
	}

	result := &engagementdom.EffectivenessAnalytics{
		TopicID:             topic.ID,
		TopicName:           topic.Name,
		TotalContent:        len(items),
		MostEngagedContent:  []engagementdom.RankedContent{},
		LeastEngagedContent: []engagementdom.RankedContent{},
	}

	contentIDs := make([]uuid.UUID, 0, len(items))
	var ratingSum float64
	for _, item := range items {
		contentIDs = append(contentIDs, item.ID)
		result.TotalViews += item.ViewCount
		result.TotalCompletions += item.CompletionCount
		ratingSum += item.RatingAverage
	}
	result.AverageCompletionRate = ratePercent(result.TotalCompletions, result.TotalViews)
	if result.TotalContent > 0 {
		result.AverageRating = ratingSum / float64(result.TotalContent)
	}

	progressRows, err := s.progressRepo.GetByContentIDs(ctx, nil, contentIDs)
	if err != nil {
		return nil, err
	}
	if len(progressRows) > 0 {
		var timeSum int64
		for _, row := range progressRows {
			timeSum += int64(row.TimeSpentSeconds)
		}
		result.AverageTimeSpent = float64(timeSum) / float64(len(progressRows))
	}

	result.MostEngagedContent = rankByRating(items, true)
	result.LeastEngagedContent = rankByRating(items, false)

	s.cacheSet(ctx, cacheKey, result)
	return result, nil
}

// FindProblematicContent scans a window of published content and keeps items
// whose progress-derived completion rate falls under thresholdPercent. limit
// bounds the candidate fetch, not the result: fewer than limit problematic
// rows can come back even when more exist beyond the window.
func (s *analyticsService) FindProblematicContent(ctx context.Context, thresholdPercent float64, limit int) ([]*engagementdom.ProblematicContent, error) {
	if thresholdPercent < 0 || thresholdPercent > 100 {
		return nil, fmt.Errorf("threshold %v out of range [0,100]: %w", thresholdPercent, pkgerrors.ErrInvalidArgument)
	}
	if limit <= 0 {
		limit = defaultProblematicFetchLimit
	}

	items, err := s.contentRepo.ListPublished(ctx, nil, limit)
	if err != nil {
		return nil, err
	}

	results := make([]*engagementdom.ProblematicContent, 0)
	for _, item := range items {
		completed, err := s.progressRepo.CountByContentAndStatus(ctx, nil, item.ID, engagementdom.StatusCompleted)
		if err != nil {
			return nil, err
		}

		completionRate := ratePercent(completed, item.ViewCount)
		if completionRate >= thresholdPercent {
			continue
		}

		logs, err := s.logRepo.GetByContentID(ctx, nil, item.ID)
		if err != nil {
			return nil, err
		}
		abandonment := aggregateAbandonment(item.ID, logs)
		hasAbandons := false
		for _, row := range logs {
			if row.Action == engagementdom.ActionAbandon {
				hasAbandons = true
				break
			}
		}

		priority := priorityForRate(completionRate)
		results = append(results, &engagementdom.ProblematicContent{
			ContentID:             item.ID,
			Title:                 item.Title,
			CompletionRate:        completionRate,
			CounterCompletionRate: ratePercent(item.CompletionCount, item.ViewCount),
			AvgAbandonmentPoint:   abandonment.AvgAbandonmentPoint,
			Priority:              priority,
			Recommendation:        buildRecommendation(priority, abandonment.AvgAbandonmentPoint, hasAbandons),
		})
	}

	// Worst first; not required for correctness but what the dashboard wants.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CompletionRate < results[j].CompletionRate
	})
	return results, nil
}

func (s *analyticsService) cacheGet(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.log.Warn("Analytics cache read failed", "key", key, "error", err)
		return false
	}
	return hit
}

func (s *analyticsService) cacheSet(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.log.Warn("Analytics cache write failed", "key", key, "error", err)
	}
}

// aggregateAbandonment is a pure function of the interaction rows for one
// content id.
func aggregateAbandonment(contentID uuid.UUID, rows []*engagementdom.ContentInteractionLog) *engagementdom.AbandonmentAnalytics {
	result := &engagementdom.AbandonmentAnalytics{
		ContentID:           contentID,
		AbandonmentByDevice: map[string]int64{},
	}

	var abandonCount int64
	var abandonPointSum float64
	for _, row := range rows {
		switch row.Action {
		case engagementdom.ActionStart:
			result.TotalStarts++
		case engagementdom.ActionComplete:
			result.TotalCompletions++
		case engagementdom.ActionAbandon:
			abandonCount++
			// A missing abandonment point counts as 0, dragging the mean
			// down rather than being skipped.
			if row.ProgressAtAction != nil {
				abandonPointSum += float64(*row.ProgressAtAction)
			}
			device := engagementdom.DeviceUnknown
			if row.DeviceType != nil && *row.DeviceType != "" {
				device = *row.DeviceType
			}
			result.AbandonmentByDevice[device]++
		}
	}

	result.CompletionRate = ratePercent(result.TotalCompletions, result.TotalStarts)
	if abandonCount > 0 {
		result.AvgAbandonmentPoint = abandonPointSum / float64(abandonCount)
	}
	return result
}

// rankByRating returns the top (desc) or bottom (asc) slice of the
// engagement ranking. The sort is stable over the repo fetch order, so rating
// ties resolve to oldest content first.
func rankByRating(items []*contentdom.Content, desc bool) []engagementdom.RankedContent {
	ranked := make([]engagementdom.RankedContent, 0, len(items))
	for _, item := range items {
		ranked = append(ranked, engagementdom.RankedContent{
			ContentID:      item.ID,
			Title:          item.Title,
			RatingAverage:  item.RatingAverage,
			CompletionRate: ratePercent(item.CompletionCount, item.ViewCount),
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if desc {
			return ranked[i].RatingAverage > ranked[j].RatingAverage
		}
		return ranked[i].RatingAverage < ranked[j].RatingAverage
	})
	if len(ranked) > engagementRankSize {
		ranked = ranked[:engagementRankSize]
	}
	return ranked
}

func priorityForRate(completionRate float64) string {
	switch {
	case completionRate < 20:
		return engagementdom.PriorityCritical
	case completionRate < 40:
		return engagementdom.PriorityHigh
	case completionRate < 60:
		return engagementdom.PriorityMedium
	default:
		return engagementdom.PriorityLow
	}
}

func buildRecommendation(priority string, avgAbandonmentPoint float64, hasAbandons bool) string {
	var rec string
	switch priority {
	case engagementdom.PriorityCritical:
		rec = "urgent review needed: content may be too complex or unengaging"
	case engagementdom.PriorityHigh:
		rec = "consider redesigning this content"
	case engagementdom.PriorityMedium:
		rec = "review for minor improvements"
	default:
		rec = "completion rate below target; schedule a routine review"
	}

	if hasAbandons {
		if avgAbandonmentPoint < 25 {
			rec += "; users abandon early, improve the introduction"
		} else if avgAbandonmentPoint > 75 {
			rec += "; users abandon near the end, shorten or strengthen the ending"
		}
	}
	return rec
}

func ratePercent(numerator, denominator int64) float64 {
	if denominator <= 0 {
		return 0
	}
	return float64(numerator) / float64(denominator) * 100
}
