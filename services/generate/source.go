package generate

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"quizbank/services/genai"
)

// MaxBatchLinks is the upper bound on a multi-link request.
const MaxBatchLinks = 5

// Hosts that serve media pages too large or too slow to fetch. Links to them
// are handed to the backend as remote references instead.
var videoHosts = map[string]bool{
	"youtube.com":     true,
	"m.youtube.com":   true,
	"youtu.be":        true,
	"vimeo.com":       true,
	"dailymotion.com": true,
}

// SourceRef is one caller-supplied unit of content. Each variant carries its
// own resolution strategy.
type SourceRef interface {
	resolve(ctx context.Context, f *SourceFetcher) ([]genai.Part, error)
}

type LinkSource struct {
	URL string
}

type LinkBatchSource struct {
	URLs []string
}

type PDFSource struct {
	Data []byte
}

type TextSource struct {
	Text string
}

// SourceFetcher turns source references into backend content parts.
type SourceFetcher struct {
	httpClient *http.Client
	client     genai.Client
}

func NewSourceFetcher(client genai.Client, fetchTimeout time.Duration) *SourceFetcher {
	return &SourceFetcher{
		// Follows redirects by default; the timeout bounds the whole fetch.
		httpClient: &http.Client{Timeout: fetchTimeout},
		client:     client,
	}
}

func (f *SourceFetcher) Resolve(ctx context.Context, ref SourceRef) ([]genai.Part, error) {
	return ref.resolve(ctx, f)
}

func (s LinkSource) resolve(ctx context.Context, f *SourceFetcher) ([]genai.Part, error) {
	if isVideoHost(s.URL) {
		log.Printf("[INFO] Passing video link through as remote reference: %s", s.URL)
		return []genai.Part{genai.RemotePart(s.URL)}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, newError(CodeFetchFailed, http.StatusBadRequest, err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, newError(CodeFetchFailed, http.StatusBadRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, newError(CodeBadURLStatus, http.StatusBadRequest,
			fmt.Errorf("GET %s returned status %d", s.URL, resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newError(CodeFetchFailed, http.StatusBadRequest, err)
	}

	mimeType, err := resolveMimeType(resp.Header.Get("Content-Type"), s.URL)
	if err != nil {
		return nil, err
	}

	part, err := f.client.UploadBlob(ctx, body, mimeType)
	if err != nil {
		return nil, fmt.Errorf("failed to upload fetched content: %w", err)
	}

	return []genai.Part{part}, nil
}

func (s LinkBatchSource) resolve(ctx context.Context, f *SourceFetcher) ([]genai.Part, error) {
	// Shape checks run before any network activity.
	if len(s.URLs) == 0 {
		return nil, newError(CodeNoURLs, http.StatusBadRequest, nil)
	}
	if len(s.URLs) > MaxBatchLinks {
		return nil, newError(CodeTooManyLinks, http.StatusBadRequest,
			fmt.Errorf("%d links exceeds the limit of %d", len(s.URLs), MaxBatchLinks))
	}

	parts := make([]genai.Part, 0, len(s.URLs))
	for _, u := range s.URLs {
		linkParts, err := LinkSource{URL: u}.resolve(ctx, f)
		if err != nil {
			return nil, err
		}
		parts = append(parts, linkParts...)
	}

	return parts, nil
}

func (s PDFSource) resolve(ctx context.Context, f *SourceFetcher) ([]genai.Part, error) {
	part, err := f.client.UploadBlob(ctx, s.Data, "application/pdf")
	if err != nil {
		return nil, fmt.Errorf("failed to upload pdf: %w", err)
	}

	return []genai.Part{part}, nil
}

func (s TextSource) resolve(ctx context.Context, f *SourceFetcher) ([]genai.Part, error) {
	text := strings.TrimSpace(s.Text)
	if text == "" {
		return nil, newError(CodeEmptyText, http.StatusBadRequest, nil)
	}

	return []genai.Part{genai.TextPart(text)}, nil
}

func isVideoHost(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	return videoHosts[host]
}

// resolveMimeType infers the content kind from the response header, falling
// back to the URL suffix when the header is absent or generic binary. Typical
// web pages default to markup.
func resolveMimeType(contentTypeHeader, rawURL string) (string, error) {
	mimeType := strings.ToLower(strings.TrimSpace(strings.Split(contentTypeHeader, ";")[0]))

	if mimeType == "" || mimeType == "application/octet-stream" {
		lower := strings.ToLower(rawURL)
		switch {
		case strings.HasSuffix(lower, ".pdf"):
			mimeType = "application/pdf"
		case strings.HasSuffix(lower, ".htm"), strings.HasSuffix(lower, ".html"):
			mimeType = "text/html"
		default:
			mimeType = "text/html"
		}
	}

	switch mimeType {
	case "application/pdf", "text/html", "text/plain":
		return mimeType, nil
	default:
		return "", newError(CodeUnsupportedType, http.StatusBadRequest,
			fmt.Errorf("content type %q is not supported", mimeType))
	}
}
