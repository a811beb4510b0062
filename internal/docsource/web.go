package docsource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/veritaslabs/veritas/internal/model"
	"github.com/veritaslabs/veritas/internal/textutil"
	"github.com/veritaslabs/veritas/internal/util"
)

// WebFetcher retrieves a web page and turns it into a Document. Fetches
// honor robots.txt and are rate limited per host.
type WebFetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	robots     *robotsGate
	limiter    *hostLimiter
	logger     *zap.Logger
}

// NewWebFetcher creates a new web fetcher
func NewWebFetcher(cfg model.HTTPConfig, logger *zap.Logger) *WebFetcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	client := util.NewHTTPClient(cfg.Timeout, cfg.HTTPProxy, cfg.HTTPSProxy, cfg.NoProxy)
	client.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		if len(via) >= 3 {
			return fmt.Errorf("stopped after 3 redirects")
		}
		return nil
	}

	return &WebFetcher{
		httpClient: client,
		userAgent: cfg.UserAgent,
		maxBytes:  cfg.MaxBodyBytes,
		robots:    newRobotsGate(cfg.UserAgent, cfg.Timeout),
		limiter:   newHostLimiter(cfg.RequestsPerSecond, cfg.Burst),
		logger:    logger,
	}
}

// FetchDocument retrieves rawURL and returns its visible text as a
// document suitable for indexing.
func (f *WebFetcher) FetchDocument(ctx context.Context, rawURL string) (model.Document, error) {
	allowed, crawlDelay, err := f.robots.allowed(ctx, rawURL)
	if err != nil {
		return model.Document{}, err
	}
	if !allowed {
		return model.Document{}, fmt.Errorf("robots.txt disallows fetching %s", rawURL)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return model.Document{}, fmt.Errorf("parse URL: %w", err)
	}

	if err := f.limiter.wait(ctx, parsed.Host, crawlDelay); err != nil {
		return model.Document{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return model.Document{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9,*/*;q=0.8")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return model.Document{}, fmt.Errorf("fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return model.Document{}, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes))
	if err != nil {
		return model.Document{}, fmt.Errorf("read body: %w", err)
	}

	finalURL := resp.Request.URL.String()
	contentType := resp.Header.Get("Content-Type")

	title := titleFromURL(finalURL)
	content := string(body)

	if strings.Contains(contentType, "text/html") {
		doc, parseErr := html.Parse(strings.NewReader(content))
		if parseErr != nil {
			return model.Document{}, fmt.Errorf("parse HTML: %w", parseErr)
		}
		if t := pageTitle(doc); t != "" {
			title = t
		}
		content = visibleText(doc)
	}

	content = textutil.CleanText(content)
	if content == "" {
		return model.Document{}, fmt.Errorf("no text content at %s", rawURL)
	}

	f.logger.Info("fetched web document",
		zap.String("url", finalURL),
		zap.Int("content_length", len(content)))

	return model.Document{
		ID:      finalURL,
		Title:   title,
		Content: content,
		Source:  finalURL,
	}, nil
}

// visibleText extracts text nodes, skipping non-content elements
func visibleText(n *html.Node) string {
	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(n)
	return buf.String()
}

// pageTitle returns the contents of the first <title> element
func pageTitle(n *html.Node) string {
	if n.Type == html.ElementNode && n.Data == "title" {
		if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
			return strings.TrimSpace(n.FirstChild.Data)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if t := pageTitle(c); t != "" {
			return t
		}
	}
	return ""
}

// titleFromURL derives a readable title from the last URL path segment
func titleFromURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	path := strings.Trim(parsed.Path, "/")
	if path == "" {
		return parsed.Host
	}

	segments := strings.Split(path, "/")
	last := segments[len(segments)-1]
	last = strings.ReplaceAll(last, "_", " ")
	last = strings.ReplaceAll(last, "-", " ")
	if idx := strings.LastIndex(last, "."); idx > 0 {
		last = last[:idx]
	}

	return last
}
