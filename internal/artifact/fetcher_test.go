package artifact

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docverify/internal/config"
	"docverify/internal/model"
	"docverify/internal/storage"
	storeMocks "docverify/internal/storage/mocks"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pdfBytes writes a minimal well-formed PDF with the given page count.
func pdfBytes(pages int) []byte {
	var buf bytes.Buffer
	offsets := []int{}
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := 0; i < pages; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, pages))
	for i := 0; i < pages; i++ {
		obj("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 200] /Resources << >> >>")
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		location string
		want     source
		wantErr  bool
	}{
		{location: "s3://students/ana/kk.jpg", want: source{key: "students/ana/kk.jpg"}},
		{location: "students/ana/kk.jpg", want: source{key: "students/ana/kk.jpg"}},
		{location: "/students/ana/kk.jpg", want: source{key: "students/ana/kk.jpg"}},
		{location: "https://cdn.example/kk.jpg", want: source{remote: "https://cdn.example/kk.jpg"}},
		{location: "", wantErr: true},
		{location: "   ", wantErr: true},
		{location: "ftp://host/kk.jpg", wantErr: true},
		{location: "http:///nohost", wantErr: true},
		{location: "s3://", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.location, func(t *testing.T) {
			got, err := parseLocation(tt.location)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedLocation)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetch_FromStorage(t *testing.T) {
	ctx := context.Background()
	cfg := config.ArtifactConfig{PresignExpiry: time.Minute, MaxBytes: 1 << 20}

	t.Run("image", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "ana/kk.png").
			Return(io.NopCloser(bytes.NewReader(pngBytes(t, 40, 30))), storage.ObjectInfo{Key: "ana/kk.png", ContentType: "image/png"}, nil)
		mStore.On("PresignGet", ctx, "ana/kk.png", time.Minute).Return("https://minio/ana/kk.png?sig", nil)

		art, err := New(mStore, cfg).Fetch(ctx, "s3://ana/kk.png", model.ArtifactImage)

		require.NoError(t, err)
		assert.Equal(t, "https://minio/ana/kk.png?sig", art.URL)
		assert.Equal(t, 40, art.Width)
		assert.Equal(t, 30, art.Height)
		assert.Equal(t, 1, art.Orientation)
		assert.Equal(t, "image/png", art.ContentType)
		mStore.AssertExpectations(t)
	})

	t.Run("pdf", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "ana/ijazah.pdf").
			Return(io.NopCloser(bytes.NewReader(pdfBytes(2))), storage.ObjectInfo{}, nil)
		mStore.On("PresignGet", ctx, "ana/ijazah.pdf", time.Minute).Return("https://minio/ana/ijazah.pdf", nil)

		art, err := New(mStore, cfg).Fetch(ctx, "ana/ijazah.pdf", model.ArtifactPDF)

		require.NoError(t, err)
		assert.Equal(t, 2, art.PageCount)
		assert.Equal(t, "application/pdf", art.ContentType)
	})

	t.Run("undecodable", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "bad.pdf").
			Return(io.NopCloser(bytes.NewReader([]byte("not a pdf"))), storage.ObjectInfo{}, nil)
		mStore.On("PresignGet", ctx, "bad.pdf", time.Minute).Return("u", nil)

		_, err := New(mStore, cfg).Fetch(ctx, "bad.pdf", model.ArtifactPDF)
		assert.ErrorIs(t, err, ErrUndecodable)
	})

	t.Run("too large", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "big.png").
			Return(io.NopCloser(bytes.NewReader(make([]byte, 64))), storage.ObjectInfo{}, nil)

		_, err := New(mStore, config.ArtifactConfig{MaxBytes: 16}).Fetch(ctx, "big.png", model.ArtifactImage)
		assert.ErrorIs(t, err, ErrTooLarge)
	})

	t.Run("storage error", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "gone.png").Return(nil, storage.ObjectInfo{}, errors.New("NoSuchKey"))

		_, err := New(mStore, cfg).Fetch(ctx, "gone.png", model.ArtifactImage)
		assert.ErrorContains(t, err, "get object: NoSuchKey")
	})

	t.Run("missing object", func(t *testing.T) {
		mStore := new(storeMocks.MockStorage)
		mStore.On("Get", ctx, "ana/kk.jpg").
			Return(nil, storage.ObjectInfo{}, fmt.Errorf("object ana/kk.jpg: %w", storage.ErrObjectNotFound))

		_, err := New(mStore, cfg).Fetch(ctx, "s3://ana/kk.jpg", model.ArtifactImage)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("no storage configured", func(t *testing.T) {
		_, err := New(nil, cfg).Fetch(ctx, "a.png", model.ArtifactImage)
		assert.ErrorIs(t, err, ErrNoStorage)
	})
}

func TestFetch_Remote(t *testing.T) {
	img := pngBytes(t, 8, 12)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/kk.png":
			w.Header().Set("Content-Type", "application/octet-stream")
			w.Write(img)
		case "/empty":
		case "/locked.png":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f := New(nil, config.ArtifactConfig{HTTPTimeout: 5 * time.Second})
	ctx := context.Background()

	art, err := f.Fetch(ctx, srv.URL+"/kk.png", model.ArtifactImage)
	require.NoError(t, err)
	assert.Equal(t, srv.URL+"/kk.png", art.URL)
	assert.Equal(t, "image/png", art.ContentType)
	assert.Equal(t, 12, art.Height)

	_, err = f.Fetch(ctx, srv.URL+"/missing.png", model.ArtifactImage)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.Fetch(ctx, srv.URL+"/locked.png", model.ArtifactImage)
	assert.ErrorContains(t, err, "unexpected status 403")

	_, err = f.Fetch(ctx, srv.URL+"/empty", model.ArtifactImage)
	assert.ErrorIs(t, err, ErrUndecodable)

	_, err = f.Fetch(ctx, "gopher://x", model.ArtifactImage)
	assert.ErrorIs(t, err, ErrMalformedLocation)
}

func TestFetch_RemoteSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		chunk := make([]byte, 4096)
		for i := 0; i < 256; i++ {
			if _, err := w.Write(chunk); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	f := New(nil, config.ArtifactConfig{MaxBytes: 1024, HTTPTimeout: 5 * time.Second})
	_, err := f.Fetch(context.Background(), srv.URL+"/huge.pdf", model.ArtifactPDF)
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestFetch_PresignFailure(t *testing.T) {
	ctx := context.Background()
	mStore := new(storeMocks.MockStorage)
	mStore.On("Get", ctx, "kk.png").
		Return(io.NopCloser(bytes.NewReader(pngBytes(t, 2, 2))), storage.ObjectInfo{}, nil)
	mStore.On("PresignGet", ctx, "kk.png", mock.Anything).Return("", errors.New("denied"))

	_, err := New(mStore, config.ArtifactConfig{}).Fetch(ctx, "kk.png", model.ArtifactImage)
	assert.ErrorContains(t, err, "presign object: denied")
}
