package mpc_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samlap/samlap-web/internal/backend"
	"github.com/samlap/samlap-web/internal/mpc"
)

type recordingAPI struct {
	mu     sync.Mutex
	paths  []string
	bodies map[string]string
	status map[string]int
}

func (a *recordingAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.mu.Lock()
	a.paths = append(a.paths, r.URL.EscapedPath())
	a.mu.Unlock()
	if code, ok := a.status[r.URL.EscapedPath()]; ok {
		w.WriteHeader(code)
		return
	}
	body, ok := a.bodies[r.URL.EscapedPath()]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func (a *recordingAPI) take() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := append([]string(nil), a.paths...)
	a.paths = nil
	sort.Strings(out)
	return out
}

func newService(t *testing.T, api *recordingAPI) *mpc.Service {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	client, err := backend.New(backend.Options{BaseURL: srv.URL + "/api", Metrics: backend.NewMetrics(prometheus.NewRegistry())})
	require.NoError(t, err)
	return mpc.NewService(client)
}

func TestWordYearIssuesExactlyTwoRequests(t *testing.T) {
	api := &recordingAPI{bodies: map[string]string{
		"/api/minutesAnalysis/wordcloud/2021/": `{"year":2021,"words":[{"word":"inflation","frequency":40},{"word":"growth","frequency":12}]}`,
		"/api/minutesAnalysis/trends/2021/":    `{"year":2021,"monthly_data":[{"month":2,"month_name":"February","words":{"inflation":9}}]}`,
		"/api/minutesAnalysis/wordcloud/2022/": `{"year":2022,"words":[{"word":"liquidity","frequency":30}]}`,
		"/api/minutesAnalysis/trends/2022/":    `{"year":2022,"monthly_data":[]}`,
	}}
	svc := newService(t, api)

	data, err := svc.WordYear(context.Background(), 2021)
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/minutesAnalysis/trends/2021/", "/api/minutesAnalysis/wordcloud/2021/"}, api.take())
	assert.Equal(t, "inflation", data.Cloud.Words[0].Word)

	data, err = svc.WordYear(context.Background(), 2022)
	require.NoError(t, err)
	assert.Equal(t, []string{"/api/minutesAnalysis/trends/2022/", "/api/minutesAnalysis/wordcloud/2022/"}, api.take())
	assert.Equal(t, 2022, data.Cloud.Year)
	require.Len(t, data.Cloud.Words, 1)
	assert.Equal(t, "liquidity", data.Cloud.Words[0].Word)
}

func TestVotingFailsWhenEitherReadFails(t *testing.T) {
	api := &recordingAPI{
		bodies: map[string]string{"/api/mpcVoting/members/": `[{"id":1,"name":"A","hikes":1,"cuts":0,"holds":0,"total_votes":1}]`},
		status: map[string]int{"/api/mpcVoting/dissent/": http.StatusBadGateway},
	}
	svc := newService(t, api)

	_, err := svc.Voting(context.Background())
	require.Error(t, err)
	var statusErr *backend.StatusError
	assert.True(t, errors.As(err, &statusErr))
}

func TestWordOverviewToleratesMissingStatistics(t *testing.T) {
	api := &recordingAPI{
		bodies: map[string]string{"/api/minutesAnalysis/years/": `[2023,2022,2021]`},
		status: map[string]int{"/api/minutesAnalysis/statistics/": http.StatusInternalServerError},
	}
	svc := newService(t, api)

	overview, err := svc.WordOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2023, 2022, 2021}, overview.Years)
	assert.Nil(t, overview.Statistics)
	assert.Error(t, overview.StatisticsErr)
}

func TestMemberAnalysisEscapesName(t *testing.T) {
	api := &recordingAPI{bodies: map[string]string{
		"/api/mpcDiscussions/member-analysis/2022/Ashima%20Goyal/": `[{"month_year":"Feb 2022","month":"Feb","inflation_actual":"5.9"}]`,
	}}
	svc := newService(t, api)

	rows, err := svc.MemberAnalysis(context.Background(), 2022, "Ashima Goyal")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "5.9", rows[0].InflationActual)
}

func TestDecisionsRejectsUnknownPolicy(t *testing.T) {
	api := &recordingAPI{bodies: map[string]string{
		"/api/mpc/decisions/": `[{"id":1,"date":"2024-02-08","policy_change":"rate_freeze"}]`,
	}}
	svc := newService(t, api)

	_, err := svc.Decisions(context.Background())
	assert.ErrorIs(t, err, backend.ErrSchema)
}

func TestDiscussionOverviewLoadsAllThree(t *testing.T) {
	api := &recordingAPI{bodies: map[string]string{
		"/api/mpcDiscussions/years/":      `[2024,2023]`,
		"/api/mpcDiscussions/members/":    `[{"name":"Ashima Goyal","member_type":"external"}]`,
		"/api/mpcDiscussions/statistics/": `{"total_discussions":40,"unique_members":6,"internal_members":3,"external_members":3,"years_covered":2}`,
	}}
	svc := newService(t, api)

	overview, err := svc.DiscussionOverview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2023}, overview.Years)
	assert.Equal(t, mpc.External, overview.Members[0].MemberType)
	assert.Equal(t, 40, overview.Statistics.TotalDiscussions)
	assert.Len(t, api.take(), 3)
}
