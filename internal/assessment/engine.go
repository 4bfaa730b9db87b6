// Package assessment orchestrates a complete organizational evaluation:
// item scoring, category aggregation, the organizational weighted sum,
// the Integration Health Index, gap-priority ranking, and maturity
// classification. The Builder accumulates inputs and produces a single
// immutable Result on Finalize; it carries no hidden state between runs.
package assessment

import (
	"fmt"
	"sort"

	errbuilder "github.com/ZanzyTHEbar/errbuilder-go"

	"github.com/edcellence/edpex-engine/internal/scoring"
	"github.com/edcellence/edpex-engine/internal/types"
)

// DefaultTargetScore is applied to items that do not specify a target.
const DefaultTargetScore = 100.0

// CategoryAggregate groups the scored items of one category with their
// point-value weighted mean.
type CategoryAggregate struct {
	Category string               `json:"category"`
	Items    []scoring.ScoredItem `json:"items"`
	Score    float64              `json:"score"`
}

// GapPriorityEntry is one ranked improvement priority.
type GapPriorityEntry struct {
	ItemID       string  `json:"item_id"`
	CurrentScore float64 `json:"current_score"`
	TargetScore  float64 `json:"target_score"`
	PointValue   int     `json:"point_value"`
	Urgency      float64 `json:"urgency"`
	Priority     float64 `json:"priority"`
	Rank         int     `json:"rank"`
}

// Result is the complete outcome of one assessment run. It is a plain
// computed record; external layers render or persist it.
type Result struct {
	Department          string               `json:"department"`
	Cycle               string               `json:"cycle"`
	OrganizationalScore float64              `json:"organizational_score"`
	Maturity            scoring.Maturity     `json:"maturity"`
	IHI                 float64              `json:"ihi"`
	CategoryScores      map[string]float64   `json:"category_scores"`
	Aggregates          []CategoryAggregate  `json:"aggregates"`
	Items               []scoring.ScoredItem `json:"items"`
	GapPriorities       []GapPriorityEntry   `json:"gap_priorities"`
	ProcessItemCount    int                  `json:"process_item_count"`
	ResultsItemCount    int                  `json:"results_item_count"`
}

// Config carries the weight profiles applied by a Builder.
type Config struct {
	ProcessWeights  scoring.ProcessWeights
	ResultsWeights  scoring.ResultsWeights
	CategoryWeights scoring.CategoryWeights
}

// DefaultConfig returns the NIST/EdPEx default weight profiles.
func DefaultConfig() Config {
	return Config{
		ProcessWeights:  scoring.DefaultProcessWeights(),
		ResultsWeights:  scoring.DefaultResultsWeights(),
		CategoryWeights: scoring.DefaultCategoryWeights(),
	}
}

// Builder accumulates assessment inputs and produces one immutable
// Result on Finalize. A Builder is single-use and not safe for
// concurrent mutation.
type Builder struct {
	department   string
	cycle        string
	cfg          Config
	processItems []types.ProcessItem
	resultsItems []types.ResultsItem
	finalized    bool
}

// Option customizes a Builder.
type Option func(*Builder)

// WithConfig replaces the default weight profiles.
func WithConfig(cfg Config) Option {
	return func(b *Builder) { b.cfg = cfg }
}

// NewBuilder creates a Builder for one department and cycle.
func NewBuilder(department, cycle string, opts ...Option) *Builder {
	b := &Builder{
		department: department,
		cycle:      cycle,
		cfg:        DefaultConfig(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// AddProcessItem queues a process item for scoring.
func (b *Builder) AddProcessItem(item types.ProcessItem) *Builder {
	b.processItems = append(b.processItems, item)
	return b
}

// AddResultsItem queues a results item for scoring.
func (b *Builder) AddResultsItem(item types.ResultsItem) *Builder {
	b.resultsItems = append(b.resultsItems, item)
	return b
}

func invalidItemError(id, msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(fmt.Sprintf("item %q: %s", id, msg))
}

func validateItemMeta(id, category string, pointValue int) error {
	if id == "" {
		return invalidItemError(id, "missing item id")
	}
	if pointValue <= 0 {
		return invalidItemError(id, fmt.Sprintf("point value must be a positive integer, got %d", pointValue))
	}
	known := false
	for _, cat := range scoring.Categories {
		if category == cat {
			known = true
			break
		}
	}
	if !known {
		return invalidItemError(id, fmt.Sprintf("unknown category %q", category))
	}
	return nil
}

// Finalize scores every queued item, aggregates by category, computes
// the organizational score, IHI, and ranked gap priorities, and
// classifies maturity. The first invalid input aborts the run; no
// partial results are returned. Finalize may be called once.
func (b *Builder) Finalize() (*Result, error) {
	if b.finalized {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("builder already finalized")
	}
	b.finalized = true

	if len(b.processItems) == 0 && len(b.resultsItems) == 0 {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("assessment requires at least one item")
	}

	byCategory := make(map[string][]scoring.ScoredItem)
	items := make([]scoring.ScoredItem, 0, len(b.processItems)+len(b.resultsItems))
	gaps := make([]GapPriorityEntry, 0, len(b.processItems)+len(b.resultsItems))
	processIntegration := make([]float64, 0, len(b.processItems))
	resultsIntegration := make([]float64, 0, len(b.resultsItems))

	for _, item := range b.processItems {
		if err := validateItemMeta(item.ID, item.Category, item.PointValue); err != nil {
			return nil, err
		}
		score, err := scoring.ProcessScore(item.Indicators, b.cfg.ProcessWeights)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", item.ID, err)
		}

		scored := scoring.ScoredItem{
			ID:         item.ID,
			Category:   item.Category,
			PointValue: item.PointValue,
			Score:      score,
		}
		items = append(items, scored)
		byCategory[item.Category] = append(byCategory[item.Category], scored)
		processIntegration = append(processIntegration, item.Indicators.Integration)

		entry, err := gapEntry(item.ID, score, item.TargetScore, item.PointValue, item.DeploymentGap)
		if err != nil {
			return nil, err
		}
		gaps = append(gaps, entry)
	}

	for _, item := range b.resultsItems {
		if err := validateItemMeta(item.ID, item.Category, item.PointValue); err != nil {
			return nil, err
		}
		score, err := scoring.ResultsScore(item.Indicators, b.cfg.ResultsWeights)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", item.ID, err)
		}

		scored := scoring.ScoredItem{
			ID:         item.ID,
			Category:   item.Category,
			PointValue: item.PointValue,
			Score:      score,
			RawValue:   item.RawValue,
			RawUnit:    item.RawUnit,
		}
		items = append(items, scored)
		byCategory[item.Category] = append(byCategory[item.Category], scored)
		resultsIntegration = append(resultsIntegration, item.Indicators.Integration)

		entry, err := gapEntry(item.ID, score, item.TargetScore, item.PointValue, item.DeploymentGap)
		if err != nil {
			return nil, err
		}
		gaps = append(gaps, entry)
	}

	categoryScores := make(map[string]float64, len(byCategory))
	aggregates := make([]CategoryAggregate, 0, len(byCategory))
	for _, cat := range scoring.Categories {
		catItems, ok := byCategory[cat]
		if !ok {
			continue
		}
		score, err := scoring.CategoryScore(cat, catItems)
		if err != nil {
			return nil, err
		}
		categoryScores[cat] = score
		aggregates = append(aggregates, CategoryAggregate{
			Category: cat,
			Items:    catItems,
			Score:    score,
		})
	}

	orgScore, err := scoring.OrganizationalScore(categoryScores, b.cfg.CategoryWeights)
	if err != nil {
		return nil, err
	}

	ihi, err := scoring.IntegrationHealthIndex(processIntegration, resultsIntegration)
	if err != nil {
		return nil, err
	}

	maturity, err := scoring.ClassifyMaturity(orgScore)
	if err != nil {
		return nil, err
	}

	rankGapPriorities(gaps)

	return &Result{
		Department:          b.department,
		Cycle:               b.cycle,
		OrganizationalScore: orgScore,
		Maturity:            maturity,
		IHI:                 ihi,
		CategoryScores:      categoryScores,
		Aggregates:          aggregates,
		Items:               items,
		GapPriorities:       gaps,
		ProcessItemCount:    len(b.processItems),
		ResultsItemCount:    len(b.resultsItems),
	}, nil
}

func gapEntry(id string, score, target float64, pointValue int, urgency float64) (GapPriorityEntry, error) {
	if target == 0 {
		target = DefaultTargetScore
	}
	priority, err := scoring.GapPriority(score, target, pointValue, urgency)
	if err != nil {
		return GapPriorityEntry{}, fmt.Errorf("item %q: %w", id, err)
	}
	return GapPriorityEntry{
		ItemID:       id,
		CurrentScore: score,
		TargetScore:  target,
		PointValue:   pointValue,
		Urgency:      urgency,
		Priority:     priority,
	}, nil
}

// rankGapPriorities sorts descending by priority. The sort is stable so
// equal priorities keep their insertion order, making the ranking
// reproducible for identical input order.
func rankGapPriorities(gaps []GapPriorityEntry) {
	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].Priority > gaps[j].Priority
	})
	for i := range gaps {
		gaps[i].Rank = i + 1
	}
}
