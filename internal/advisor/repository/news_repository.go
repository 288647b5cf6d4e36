package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang-stock-advisor/internal/advisor/config"
	"golang-stock-advisor/internal/advisor/dto"
	"golang-stock-advisor/pkg/logger"
	"golang-stock-advisor/pkg/utils"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
)

const defaultMaxArticles = 5

// NewsRepository fetches recent headlines for a symbol.
type NewsRepository interface {
	// GetNews never fails on provider errors; it logs them and returns what it has.
	GetNews(ctx context.Context, symbol string) ([]dto.NewsArticle, error)
}

type newsRepository struct {
	cfg        *config.Config
	log        *logger.Logger
	httpClient *http.Client
	feedParser *gofeed.Parser
}

// NewNewsRepository creates a news repository backed by the news API with a Google News RSS fallback.
func NewNewsRepository(cfg *config.Config, log *logger.Logger) NewsRepository {
	timeout := cfg.News.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := &http.Client{Timeout: timeout}
	parser := gofeed.NewParser()
	parser.Client = client
	return &newsRepository{
		cfg:        cfg,
		log:        log,
		httpClient: client,
		feedParser: parser,
	}
}

func (r *newsRepository) maxArticles() int {
	if r.cfg.News.MaxArticles > 0 {
		return r.cfg.News.MaxArticles
	}
	return defaultMaxArticles
}

// GetNews returns up to news.max_articles headlines for symbol.
func (r *newsRepository) GetNews(ctx context.Context, symbol string) ([]dto.NewsArticle, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return []dto.NewsArticle{}, nil
	}

	var articles []dto.NewsArticle
	if r.cfg.News.APIKey != "" && r.cfg.News.BaseURL != "" {
		articles = r.fetchFromAPI(ctx, symbol)
	}
	if len(articles) == 0 && r.cfg.News.RSSURL != "" {
		articles = r.fetchFromRSS(ctx, symbol)
	}
	if articles == nil {
		articles = []dto.NewsArticle{}
	}
	return articles, nil
}

func (r *newsRepository) fetchFromAPI(ctx context.Context, symbol string) []dto.NewsArticle {
	query := url.Values{}
	query.Set("apikey", r.cfg.News.APIKey)
	query.Set("q", symbol)
	query.Set("language", "en")
	endpoint := r.cfg.News.BaseURL + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to create news request", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		r.log.ErrorContext(ctx, "Error fetching news", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to read news response", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		r.log.ErrorContext(ctx, "Error fetching news",
			logger.IntField("status_code", resp.StatusCode),
			logger.StringField("body", utils.Truncate(string(body), 512)),
			logger.StringField("symbol", symbol),
		)
		return nil
	}

	var newsResp dto.NewsAPIResponse
	if err := json.Unmarshal(body, &newsResp); err != nil {
		r.log.ErrorContext(ctx, "Failed to decode news response", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil
	}

	articles := make([]dto.NewsArticle, 0, r.maxArticles())
	for _, a := range newsResp.Articles {
		if len(articles) == r.maxArticles() {
			break
		}
		articles = append(articles, dto.NewsArticle{
			Title:       utils.SafeText(a.Title),
			Description: utils.SafeText(a.Description),
		})
	}
	return articles
}

func (r *newsRepository) fetchFromRSS(ctx context.Context, symbol string) []dto.NewsArticle {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("%s stock", symbol))
	query.Set("hl", "en-IN")
	query.Set("gl", "IN")
	query.Set("ceid", "IN:en")
	feedURL := r.cfg.News.RSSURL + "?" + query.Encode()

	r.log.DebugContext(ctx, "Processing RSS feed", logger.StringField("url", feedURL))
	feed, err := r.feedParser.ParseURLWithContext(feedURL, ctx)
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to parse RSS feed", logger.ErrorField(err), logger.StringField("symbol", symbol))
		return nil
	}

	articles := make([]dto.NewsArticle, 0, r.maxArticles())
	for _, item := range feed.Items {
		if len(articles) == r.maxArticles() {
			break
		}
		articles = append(articles, dto.NewsArticle{
			Title:       utils.SafeText(item.Title),
			Description: flattenHTML(item.Description),
		})
	}
	return articles
}

// flattenHTML strips markup from a feed description and collapses whitespace.
func flattenHTML(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return utils.SafeText(fragment)
	}
	return utils.SafeText(doc.Text())
}
