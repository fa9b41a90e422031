// Package wiki looks topics up on Wikipedia and returns a short plain-text
// summary.
package wiki

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"voxbot/internal/resilience"
)

var (
	ErrNotFound    = errors.New("page not found")
	ErrUnavailable = errors.New("lookup unavailable")
)

// AmbiguousError carries the candidate pages of a disambiguation page, in the
// order they appear on the page.
type AmbiguousError struct {
	Topic   string
	Options []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("%q may refer to %d pages", e.Topic, len(e.Options))
}

const (
	DefaultBaseURL = "https://en.wikipedia.org/w/api.php"
	userAgent      = "voxbot/1.0 (voice assistant)"
)

var triggerWords = []string{"wikipedia", "search"}

// CleanTopic strips the trigger words from a raw utterance.
func CleanTopic(utterance string) string {
	t := utterance
	for _, w := range triggerWords {
		t = strings.ReplaceAll(t, w, "")
	}
	return strings.TrimSpace(t)
}

type Config struct {
	BaseURL   string
	Sentences int
	Timeout   time.Duration
}

type Client struct {
	http    *http.Client
	cfg     Config
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func NewClient(httpClient *http.Client, cfg Config, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Sentences <= 0 {
		cfg.Sentences = 2
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		http: httpClient,
		cfg:  cfg,
		breaker: resilience.NewBreaker(resilience.BreakerConfig{
			Name: "wikipedia",
			Expected: func(err error) bool {
				var amb *AmbiguousError
				return errors.Is(err, ErrNotFound) || errors.As(err, &amb)
			},
		}, logger),
		logger: logger,
	}
}

// Summarize returns the first sentences of the best matching page. Errors
// are ErrNotFound, ErrUnavailable or *AmbiguousError.
func (c *Client) Summarize(ctx context.Context, topic string) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	summary, err := resilience.Call(c.breaker, func() (string, error) {
		return c.summarize(ctx, topic)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return summary, err
}

func (c *Client) summarize(ctx context.Context, topic string) (string, error) {
	search, err := c.query(ctx, url.Values{
		"list":     {"search"},
		"srsearch": {topic},
		"srlimit":  {"1"},
		"srprop":   {""},
	})
	if err != nil {
		return "", err
	}
	title := search.Get("query.search.0.title").String()
	if title == "" {
		return "", ErrNotFound
	}

	page, err := c.query(ctx, url.Values{
		"prop":        {"extracts|pageprops"},
		"ppprop":      {"disambiguation"},
		"explaintext": {"1"},
		"exintro":     {"1"},
		"exsentences": {strconv.Itoa(c.cfg.Sentences)},
		"redirects":   {"1"},
		"titles":      {title},
	})
	if err != nil {
		return "", err
	}
	p := page.Get("query.pages.0")
	if !p.Exists() || p.Get("missing").Bool() || p.Get("invalid").Bool() {
		return "", ErrNotFound
	}

	if p.Get("pageprops.disambiguation").Exists() {
		return "", c.ambiguous(ctx, topic, p.Get("title").String())
	}

	extract := strings.TrimSpace(p.Get("extract").String())
	if extract == "" {
		return "", ErrNotFound
	}
	c.logger.Debug("Wikipedia summary", "topic", topic, "title", title)
	return extract, nil
}

func (c *Client) ambiguous(ctx context.Context, topic, title string) error {
	res, err := c.get(ctx, url.Values{
		"action":    {"parse"},
		"page":      {title},
		"prop":      {"text"},
		"redirects": {"1"},
	})
	if err != nil {
		return err
	}

	opts, err := listedTitles(res.Get("parse.text").String())
	if err != nil {
		return fmt.Errorf("%w: disambiguation page: %v", ErrUnavailable, err)
	}
	return &AmbiguousError{Topic: topic, Options: opts}
}

// listedTitles returns the text of the first link of every list item in
// document order. Table of contents entries are not candidates.
func listedTitles(body string) ([]string, error) {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return nil, err
	}

	var titles []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.DataAtom == atom.Li && !isTOCEntry(n) {
			if a := firstLink(n); a != nil {
				if t := strings.TrimSpace(nodeText(a)); t != "" {
					titles = append(titles, t)
				}
			}
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(doc)

	return titles, nil
}

func isTOCEntry(n *html.Node) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && strings.Contains(a.Val, "tocsection") {
			return true
		}
	}
	return false
}

func firstLink(n *html.Node) *html.Node {
	for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode && ch.DataAtom == atom.A {
			return ch
		}
		if a := firstLink(ch); a != nil {
			return a
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			collect(ch)
		}
	}
	collect(n)
	return sb.String()
}

func (c *Client) query(ctx context.Context, params url.Values) (gjson.Result, error) {
	params.Set("action", "query")
	return c.get(ctx, params)
}

func (c *Client) get(ctx context.Context, params url.Values) (gjson.Result, error) {
	params.Set("format", "json")
	params.Set("formatversion", "2")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("%w: malformed response", ErrUnavailable)
	}

	res := gjson.ParseBytes(body)
	if e := res.Get("error.info"); e.Exists() {
		return gjson.Result{}, fmt.Errorf("%w: %s", ErrUnavailable, e.String())
	}
	return res, nil
}
