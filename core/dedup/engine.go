package dedup

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/konradh/hpi-ii-project-2022/core/graph"
	"github.com/konradh/hpi-ii-project-2022/helper"
	"github.com/konradh/hpi-ii-project-2022/model"
)

// DuplicatePair links a duplicate person id to the canonical id it should
// collapse onto.
type DuplicatePair struct {
	CanonicalID int64
	DuplicateID int64
}

// PersonStore is the persistence surface the resolver works against.
type PersonStore interface {
	// ClearInvalidBirthDates nulls birth dates before minYear and returns
	// how many rows were touched.
	ClearInvalidBirthDates(ctx context.Context, minYear int) (int64, error)
	// ExactDuplicates returns pairs of persons equal on all four fields,
	// each duplicate paired with the smallest matching id.
	ExactDuplicates(ctx context.Context) ([]DuplicatePair, error)
	// PersonsForResolution returns all live persons with both birth date
	// and birth place populated.
	PersonsForResolution(ctx context.Context) ([]*model.Person, error)
	// MergeCluster rewrites role references of the duplicates to the
	// canonical id and soft deletes the duplicate rows.
	MergeCluster(ctx context.Context, canonicalID int64, duplicateIDs []int64) error
}

// Result carries the counters of one resolution run.
type Result struct {
	InvalidDatesCleared int64
	ExactMerged         int
	FuzzyPairs          int
	Clusters            int
	PersonsMerged       int
}

// Resolver collapses duplicate person records across companies. It runs
// three stages: null out unusable birth dates, merge exact field matches in
// the store, then build a similarity graph over blocked candidate pairs and
// merge its connected components.
type Resolver struct {
	store  PersonStore
	config model.MatcherConfig
	logger *slog.Logger
}

// NewResolver creates a resolver on top of store.
func NewResolver(store PersonStore, config model.MatcherConfig, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, config: config, logger: logger}
}

// Run executes all three stages and returns the merged counters.
func (r *Resolver) Run(ctx context.Context) (*Result, error) {
	result := &Result{}

	cleared, err := r.store.ClearInvalidBirthDates(ctx, r.config.MinBirthYear)
	if err != nil {
		return nil, helper.NewError("clearing invalid birth dates", err)
	}
	result.InvalidDatesCleared = cleared
	r.logger.Info("cleared invalid birth dates", "rows", cleared)

	if err := r.mergeExact(ctx, result); err != nil {
		return nil, err
	}
	if err := r.mergeFuzzy(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *Resolver) mergeExact(ctx context.Context, result *Result) error {
	pairs, err := r.store.ExactDuplicates(ctx)
	if err != nil {
		return helper.NewError("selecting exact duplicates", err)
	}

	clusters := make(map[int64][]int64)
	for _, pair := range pairs {
		clusters[pair.CanonicalID] = append(clusters[pair.CanonicalID], pair.DuplicateID)
	}
	for canonicalID, duplicateIDs := range clusters {
		if err := r.store.MergeCluster(ctx, canonicalID, duplicateIDs); err != nil {
			return helper.NewError("merging exact duplicates", err)
		}
		result.ExactMerged += len(duplicateIDs)
	}
	r.logger.Info("merged exact duplicates", "persons", result.ExactMerged)
	return nil
}

func (r *Resolver) mergeFuzzy(ctx context.Context, result *Result) error {
	persons, err := r.store.PersonsForResolution(ctx)
	if err != nil {
		return helper.NewError("loading persons for resolution", err)
	}

	adjacency, pairs, err := BuildAdjacency(ctx, persons, r.config)
	if err != nil {
		return helper.NewError("building duplicate graph", err)
	}
	result.FuzzyPairs = pairs
	r.logger.Info("built duplicate graph", "persons", len(persons), "pairs", pairs)

	for _, component := range graph.Components(adjacency) {
		canonicalID := graph.Canonical(component)
		duplicateIDs := make([]int64, 0, len(component)-1)
		for _, id := range component {
			if id != canonicalID {
				duplicateIDs = append(duplicateIDs, id)
			}
		}
		if len(duplicateIDs) == 0 {
			continue
		}
		if err := r.store.MergeCluster(ctx, canonicalID, duplicateIDs); err != nil {
			return helper.NewError("merging duplicate cluster", err)
		}
		result.Clusters++
		result.PersonsMerged += len(duplicateIDs)
	}
	r.logger.Info("merged duplicate clusters", "clusters", result.Clusters, "persons", result.PersonsMerged)
	return nil
}

// BuildAdjacency compares all blocked candidate pairs and returns the
// accepted pairs as an undirected graph, plus the number of distinct pairs.
// The comparison work is spread over config.Workers goroutines, each group
// of one blocking pass is compared by exactly one worker.
func BuildAdjacency(ctx context.Context, persons []*model.Person, config model.MatcherConfig) (graph.Adjacency, int, error) {
	var groups [][]*model.Person
	for _, key := range blockingKeys() {
		groups = append(groups, groupByKey(persons, key)...)
	}

	workers := config.Workers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	adjacency := graph.Adjacency{}
	seen := make(map[DuplicatePair]bool)
	pairs := 0

	eg, ctx := errgroup.WithContext(ctx)
	work := make(chan []*model.Person)
	for w := 0; w < workers; w++ {
		eg.Go(func() error {
			matcher := NewMatcher(config)
			for group := range work {
				var local []DuplicatePair
				for i, left := range group {
					for _, right := range group[i+1:] {
						if matcher.Similar(left, right) {
							pair := DuplicatePair{CanonicalID: left.ID, DuplicateID: right.ID}
							if pair.CanonicalID > pair.DuplicateID {
								pair.CanonicalID, pair.DuplicateID = pair.DuplicateID, pair.CanonicalID
							}
							local = append(local, pair)
						}
					}
				}
				if len(local) == 0 {
					continue
				}
				mu.Lock()
				for _, pair := range local {
					if !seen[pair] {
						seen[pair] = true
						adjacency.AddEdge(pair.CanonicalID, pair.DuplicateID)
						pairs++
					}
				}
				mu.Unlock()
			}
			return nil
		})
	}

	eg.Go(func() error {
		defer close(work)
		for _, group := range groups {
			select {
			case work <- group:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	if err := eg.Wait(); err != nil {
		return nil, 0, err
	}
	return adjacency, pairs, nil
}
