package llm

import (
	"context"
	"crypto/tls"
	"fmt"
	log "log/slog"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"github.com/go-resty/resty/v2"
	"github.com/go-shiori/go-readability"
)

// WebFetcher 抓取项目官网正文，给路演稿分析补充上下文
type WebFetcher struct {
	httpClient *resty.Client
	browserCtx context.Context
	cancel     context.CancelFunc
}

// NewWebFetcher 在单例初始化时启动浏览器引擎
func NewWebFetcher() *WebFetcher {
	ua := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("enable-automation", false),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("blink-settings", "imagesEnabled=false"),
		chromedp.UserAgent(ua),
	)

	allocCtx, _ := chromedp.NewExecAllocator(context.Background(), opts...)
	browserCtx, cancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(browserCtx, chromedp.Navigate("about:blank")); err != nil {
		panic(fmt.Sprintf("浏览器引擎启动失败，请检查是否安装 Chrome: %v", err))
	}

	client := resty.New().
		SetTimeout(20*time.Second).
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}).
		SetHeader("User-Agent", ua)

	return &WebFetcher{
		httpClient: client,
		browserCtx: browserCtx,
		cancel:     cancel,
	}
}

// FetchSite 抓取页面并提取标题与正文，静态抓取内容过少时回退到浏览器渲染
func (s *WebFetcher) FetchSite(ctx context.Context, siteURL string) (string, error) {
	if err := FetchSem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer FetchSem.Release(1)

	resp, err := s.httpClient.R().SetContext(ctx).Get(siteURL)
	html := ""
	if err == nil {
		html = resp.String()
	}

	lowHtml := strings.ToLower(html)
	if strings.Contains(lowHtml, "loading") || len(html) < 4000 {
		tabCtx, cancel := chromedp.NewContext(s.browserCtx)
		defer cancel()

		var timeoutCancel context.CancelFunc
		tabCtx, timeoutCancel = context.WithTimeout(tabCtx, 20*time.Second)
		defer timeoutCancel()

		var renderHtml string
		err = chromedp.Run(tabCtx,
			chromedp.Navigate(siteURL),
			chromedp.WaitReady(`body`),
			chromedp.OuterHTML("html", &renderHtml),
		)
		if err == nil {
			html = renderHtml
		}
	}

	if html == "" {
		return "", fmt.Errorf("页面抓取失败: %s", siteURL)
	}

	// meta description 常比正文开头更能概括项目
	metaDesc := ""
	if doc, docErr := goquery.NewDocumentFromReader(strings.NewReader(html)); docErr == nil {
		metaDesc, _ = doc.Find(`meta[name="description"]`).Attr("content")
	}

	parsedURL, _ := url.Parse(siteURL)
	article, err := readability.FromReader(strings.NewReader(html), parsedURL)
	if err != nil {
		log.ErrorContext(ctx, "FetchSite", "error", err)
		return metaDesc, nil
	}

	text := regexp.MustCompile(`\s+`).ReplaceAllString(article.TextContent, " ")
	if len(text) > 3000 {
		text = text[:3000] + "... [内容已截断]"
	}

	log.Info("FetchSite", "url", siteURL, "title", article.Title)
	return fmt.Sprintf("标题: %s\n简介: %s\n正文内容: %s", article.Title, metaDesc, text), nil
}

func (s *WebFetcher) Close() {
	if s.cancel != nil {
		s.cancel()
	}
}
