package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"token-pulse/internal/domain"
)

func TestGetNews(t *testing.T) {
	stub := &stubDashboard{articles: []domain.NewsArticle{{ID: "a", Sentiment: domain.SentimentPositive}}}
	r := newTestRouter(stub, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news?asset=BNB&filter=positive", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stub.newsAsset != "BNB" || stub.newsFilter != domain.FilterPositive {
		t.Fatalf("unexpected call: asset=%q filter=%q", stub.newsAsset, stub.newsFilter)
	}
	var body struct {
		Query    string               `json:"query"`
		Articles []domain.NewsArticle `json:"articles"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Query != "Binance Coin" || len(body.Articles) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGetNewsDefaults(t *testing.T) {
	stub := &stubDashboard{}
	r := newTestRouter(stub, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stub.newsAsset != "BTC" || stub.newsFilter != domain.FilterAll {
		t.Fatalf("unexpected defaults: asset=%q filter=%q", stub.newsAsset, stub.newsFilter)
	}
}

func TestGetNewsRejectsUnknownFilter(t *testing.T) {
	r := newTestRouter(&stubDashboard{}, "")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/news?filter=spicy", nil))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}
