package mpc

import (
	"context"
	"fmt"
	"strconv"

	"golang.org/x/sync/errgroup"
)

// Reader is the read side of the backend client.
type Reader interface {
	Get(ctx context.Context, path string, dest any) error
}

// Service loads committee analytics from the API. It holds no state between
// calls.
type Service struct {
	api Reader
}

// NewService constructs a Service.
func NewService(api Reader) *Service {
	return &Service{api: api}
}

// Decisions loads every committee decision.
func (s *Service) Decisions(ctx context.Context) ([]Decision, error) {
	var decisions []Decision
	if err := s.api.Get(ctx, "/mpc/decisions/", &decisions); err != nil {
		return nil, fmt.Errorf("load decisions: %w", err)
	}
	return decisions, nil
}

// VotingData bundles the two voting reads.
type VotingData struct {
	Members []MemberVoting
	Dissent []DissentYear
}

// Voting loads member tallies and yearly dissent counts concurrently. Either
// failure fails the whole view.
func (s *Service) Voting(ctx context.Context) (VotingData, error) {
	var data VotingData
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.api.Get(ctx, "/mpcVoting/members/", &data.Members); err != nil {
			return fmt.Errorf("load voting members: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.api.Get(ctx, "/mpcVoting/dissent/", &data.Dissent); err != nil {
			return fmt.Errorf("load dissent years: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return VotingData{}, err
	}
	return data, nil
}

// WordOverview is the year list and headline statistics of the minutes
// analysis. StatisticsErr is kept separate because the view renders without
// statistics.
type WordOverview struct {
	Years         []int
	Statistics    *WordStatistics
	StatisticsErr error
}

// WordOverview loads available years and statistics concurrently.
func (s *Service) WordOverview(ctx context.Context) (WordOverview, error) {
	var overview WordOverview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.api.Get(gctx, "/minutesAnalysis/years/", &overview.Years); err != nil {
			return fmt.Errorf("load word years: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var stats WordStatistics
		if err := s.api.Get(gctx, "/minutesAnalysis/statistics/", &stats); err != nil {
			overview.StatisticsErr = fmt.Errorf("load word statistics: %w", err)
			return nil
		}
		overview.Statistics = &stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return WordOverview{}, err
	}
	return overview, nil
}

// WordYear is the cloud and monthly trend of one year.
type WordYear struct {
	Cloud  YearWordCloud
	Trends YearTrends
}

// WordYear issues exactly two reads, in parallel: the cloud and the trends of year.
func (s *Service) WordYear(ctx context.Context, year int) (WordYear, error) {
	var data WordYear
	y := strconv.Itoa(year)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.api.Get(ctx, "/minutesAnalysis/wordcloud/"+y+"/", &data.Cloud); err != nil {
			return fmt.Errorf("load word cloud %d: %w", year, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.api.Get(ctx, "/minutesAnalysis/trends/"+y+"/", &data.Trends); err != nil {
			return fmt.Errorf("load word trends %d: %w", year, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return WordYear{}, err
	}
	return data, nil
}

// DiscussionOverview is the shared selector data of the correlation view.
type DiscussionOverview struct {
	Years      []int
	Members    []DiscussionMember
	Statistics DiscussionStatistics
}

// DiscussionOverview loads years, members and statistics concurrently.
func (s *Service) DiscussionOverview(ctx context.Context) (DiscussionOverview, error) {
	var overview DiscussionOverview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.api.Get(ctx, "/mpcDiscussions/years/", &overview.Years); err != nil {
			return fmt.Errorf("load discussion years: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.api.Get(ctx, "/mpcDiscussions/members/", &overview.Members); err != nil {
			return fmt.Errorf("load discussion members: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.api.Get(ctx, "/mpcDiscussions/statistics/", &overview.Statistics); err != nil {
			return fmt.Errorf("load discussion statistics: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return DiscussionOverview{}, err
	}
	return overview, nil
}

// Correlation loads the monthly analysis score for a year and member type.
func (s *Service) Correlation(ctx context.Context, year int, memberType MemberType) ([]CorrelationPoint, error) {
	var points []CorrelationPoint
	if err := s.api.Get(ctx, CorrelationPath(year, memberType), &points); err != nil {
		return nil, fmt.Errorf("load correlation %d/%s: %w", year, memberType, err)
	}
	return points, nil
}

// MemberAnalysis loads one member's monthly forecast commentary.
func (s *Service) MemberAnalysis(ctx context.Context, year int, member string) ([]MemberAnalysis, error) {
	var rows []MemberAnalysis
	if err := s.api.Get(ctx, MemberAnalysisPath(year, member), &rows); err != nil {
		return nil, fmt.Errorf("load member analysis %d/%s: %w", year, member, err)
	}
	return rows, nil
}
