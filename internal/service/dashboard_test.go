package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"token-pulse/internal/domain"
)

type stubRefresher struct {
	calls  int
	err    error
	status domain.RefreshStatus
}

func (s *stubRefresher) RefreshNow(ctx context.Context) error {
	s.calls++
	return s.err
}

func (s *stubRefresher) Status() domain.RefreshStatus { return s.status }
func (s *stubRefresher) Interval() time.Duration       { return 30 * time.Second }

func TestDashboard_StatusCollectsAdvisories(t *testing.T) {
	t.Parallel()

	market := newTestMarketService(quotesErr(errUpstream), nil, nil)
	news := newTestNewsService(articlesErr(domain.ErrFetchFailure), nil)
	refresher := &stubRefresher{status: domain.RefreshStatus{IsLive: false}}
	d := NewDashboard(market, news, NewSignalService(testTracer, market, news), refresher)

	_ = market.RefreshTokens(context.Background())
	_ = d.GetNews(context.Background(), "BTC", domain.FilterAll)

	st := d.Status("BTC")
	if len(st.Advisories) != 2 || st.Advisories[0] != TokenFetchAdvisory || st.Advisories[1] != NewsFetchAdvisory {
		t.Fatalf("unexpected advisories: %v", st.Advisories)
	}
	if st.Interval != "30s" || len(st.TrackedAssets) != 6 {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestDashboard_StatusCleanWhenLive(t *testing.T) {
	t.Parallel()

	market := newTestMarketService(quotesOK(btcQuote()), nil, nil)
	news := newTestNewsService(articlesOK(sampleRaws()...), nil)
	now := time.Now()
	refresher := &stubRefresher{status: domain.RefreshStatus{IsLive: true, LastUpdate: now}}
	d := NewDashboard(market, news, NewSignalService(testTracer, market, news), refresher)

	_ = market.RefreshTokens(context.Background())
	st := d.Status("ETH")
	if !st.IsLive || !st.LastUpdate.Equal(now) || len(st.Advisories) != 0 {
		t.Fatalf("unexpected status: %+v", st)
	}
}

func TestDashboard_RefreshNowDelegates(t *testing.T) {
	t.Parallel()

	refresher := &stubRefresher{err: errors.New("callback failed")}
	d := NewDashboard(nil, nil, nil, refresher)
	if err := d.RefreshNow(context.Background()); err == nil {
		t.Fatal("expected callback error to surface")
	}
	if refresher.calls != 1 {
		t.Fatalf("expected one refresh, got %d", refresher.calls)
	}
}
