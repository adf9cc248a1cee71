// Package artifact resolves document locations into renderable artifacts.
package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rwcarlsen/goexif/exif"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	_ "golang.org/x/image/webp"

	"docverify/internal/config"
	"docverify/internal/model"
	"docverify/internal/storage"
	"docverify/internal/viewer"
)

var (
	ErrMalformedLocation = errors.New("malformed artifact location")
	ErrNotFound          = errors.New("artifact not found")
	ErrNoStorage         = errors.New("object storage is not configured")
	ErrTooLarge          = errors.New("artifact exceeds size limit")
	ErrUndecodable       = errors.New("artifact cannot be decoded")
)

func init() {
	// Page counting must not create a pdfcpu config dir on the host.
	api.DisableConfigDir()
}

// Fetcher implements viewer.Fetcher over object storage and plain HTTP(S).
type Fetcher struct {
	store    storage.Storage
	http     *resty.Client
	expiry   time.Duration
	maxBytes int64
}

var _ viewer.Fetcher = (*Fetcher)(nil)

// New builds a Fetcher. store may be nil when every location is an HTTP URL.
func New(store storage.Storage, cfg config.ArtifactConfig) *Fetcher {
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = 15 * time.Minute
	}
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 20 << 20
	}
	client := resty.New().
		SetTransport(otelhttp.NewTransport(http.DefaultTransport)).
		SetTimeout(cfg.HTTPTimeout).
		SetResponseBodyLimit(int(cfg.MaxBytes))
	return &Fetcher{store: store, http: client, expiry: cfg.PresignExpiry, maxBytes: cfg.MaxBytes}
}

type source struct {
	remote string // absolute http(s) URL
	key    string // object storage key
}

// parseLocation accepts "s3://key", a bare object key, or an http(s) URL.
func parseLocation(location string) (source, error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return source{}, ErrMalformedLocation
	}
	u, err := url.Parse(location)
	if err != nil {
		return source{}, fmt.Errorf("%w: %v", ErrMalformedLocation, err)
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return source{}, fmt.Errorf("%w: missing host", ErrMalformedLocation)
		}
		return source{remote: u.String()}, nil
	case "s3":
		key := strings.TrimPrefix(u.Host+u.Path, "/")
		if key == "" {
			return source{}, fmt.Errorf("%w: missing key", ErrMalformedLocation)
		}
		return source{key: key}, nil
	case "":
		return source{key: strings.TrimPrefix(location, "/")}, nil
	default:
		return source{}, fmt.Errorf("%w: unsupported scheme %q", ErrMalformedLocation, u.Scheme)
	}
}

// Fetch downloads the artifact, validates it decodes, and returns a reference
// the client can render.
func (f *Fetcher) Fetch(ctx context.Context, location string, kind model.ArtifactKind) (*viewer.Artifact, error) {
	src, err := parseLocation(location)
	if err != nil {
		return nil, err
	}

	var (
		payload     []byte
		contentType string
		renderURL   string
	)
	if src.remote != "" {
		payload, contentType, err = f.fetchRemote(ctx, src.remote)
		renderURL = src.remote
	} else {
		payload, contentType, renderURL, err = f.fetchObject(ctx, src.key)
	}
	if err != nil {
		return nil, err
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrUndecodable)
	}

	art := &viewer.Artifact{Kind: kind, URL: renderURL, ContentType: contentType}
	if kind == model.ArtifactPDF {
		return describePDF(art, payload)
	}
	return describeImage(art, payload)
}

func (f *Fetcher) fetchRemote(ctx context.Context, u string) ([]byte, string, error) {
	resp, err := f.http.R().SetContext(ctx).Get(u)
	if errors.Is(err, resty.ErrResponseBodyTooLarge) {
		return nil, "", ErrTooLarge
	}
	if err != nil {
		return nil, "", fmt.Errorf("fetch artifact: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, "", ErrNotFound
	}
	if resp.IsError() {
		return nil, "", fmt.Errorf("fetch artifact: unexpected status %d", resp.StatusCode())
	}
	body := resp.Body()
	if int64(len(body)) > f.maxBytes {
		return nil, "", ErrTooLarge
	}
	return body, resp.Header().Get("Content-Type"), nil
}

func (f *Fetcher) fetchObject(ctx context.Context, key string) ([]byte, string, string, error) {
	if f.store == nil {
		return nil, "", "", ErrNoStorage
	}
	rc, info, err := f.store.Get(ctx, key)
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, "", "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, "", "", fmt.Errorf("get object: %w", err)
	}
	defer rc.Close()

	payload, err := io.ReadAll(io.LimitReader(rc, f.maxBytes+1))
	if err != nil {
		return nil, "", "", fmt.Errorf("read object: %w", err)
	}
	if int64(len(payload)) > f.maxBytes {
		return nil, "", "", ErrTooLarge
	}

	u, err := f.store.PresignGet(ctx, key, f.expiry)
	if err != nil {
		return nil, "", "", fmt.Errorf("presign object: %w", err)
	}
	return payload, info.ContentType, u, nil
}

func describePDF(art *viewer.Artifact, payload []byte) (*viewer.Artifact, error) {
	pages, err := api.PageCount(bytes.NewReader(payload), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	if pages < 1 {
		return nil, fmt.Errorf("%w: document has no pages", ErrUndecodable)
	}
	art.PageCount = pages
	if art.ContentType == "" {
		art.ContentType = "application/pdf"
	}
	return art, nil
}

func describeImage(art *viewer.Artifact, payload []byte) (*viewer.Artifact, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	art.Width = cfg.Width
	art.Height = cfg.Height
	art.PageCount = 1
	art.Orientation = orientation(payload)
	if art.ContentType == "" || art.ContentType == "application/octet-stream" {
		art.ContentType = "image/" + format
	}
	return art, nil
}

// orientation reads the EXIF orientation tag; 1 (upright) when absent.
func orientation(payload []byte) int {
	x, err := exif.Decode(bytes.NewReader(payload))
	if err != nil {
		return 1
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil {
		return 1
	}
	ori, err := tag.Int(0)
	if err != nil || ori < 1 || ori > 8 {
		return 1
	}
	return ori
}
