// Package media supplies the reel controller's host capabilities for a
// terminal: a downloader that caches videos on disk and a player that reports
// playback on the terminal.
package media

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/reelhouse/cli/pkg/api"
	"github.com/reelhouse/cli/pkg/client"
	"github.com/reelhouse/cli/pkg/logger"
	"github.com/reelhouse/cli/pkg/reels"
	"github.com/reelhouse/cli/pkg/settings"
)

var _ reels.MediaLoader = (*Downloader)(nil)

// QualityFunc returns the rendition to request. It is read on every load so a
// settings change applies to the next video.
type QualityFunc func() settings.VideoQuality

// Downloader fetches reel videos into a cache directory. It owns an HTTP
// client separate from the API's so the session token never reaches the
// hosts serving video.
type Downloader struct {
	http    *resty.Client
	dir     string
	quality QualityFunc
}

// NewDownloader stores files under dir. Relative video URLs resolve against
// baseURL. quality may be nil for "auto".
func NewDownloader(baseURL string, timeout time.Duration, dir string, quality QualityFunc) *Downloader {
	rc := client.New(baseURL, timeout)
	rc.SetHeader("Accept", "*/*")
	return &Downloader{http: rc, dir: dir, quality: quality}
}

// Load downloads videoURL and returns a handle owning the cached file
func (d *Downloader) Load(ctx context.Context, videoURL string) (reels.Handle, error) {
	if videoURL == "" {
		return nil, fmt.Errorf("reel has no video")
	}
	if err := os.MkdirAll(d.dir, 0700); err != nil {
		return nil, fmt.Errorf("create media cache: %w", err)
	}

	dest := filepath.Join(d.dir, uuid.NewString()+extension(videoURL))
	req := d.http.R().SetContext(ctx).SetOutput(dest)
	if q := d.currentQuality(); q != settings.QualityAuto {
		req.SetQueryParam("quality", string(q))
	}

	logger.Debug("Downloading reel media", "url", videoURL, "dest", dest)
	resp, err := req.Get(videoURL)
	if err := api.CheckResponse(resp, err); err != nil {
		_ = os.Remove(dest)
		return nil, err
	}

	info, err := os.Stat(dest)
	if err != nil {
		return nil, fmt.Errorf("stat media: %w", err)
	}
	return &File{Path: dest, Size: info.Size()}, nil
}

func (d *Downloader) currentQuality() settings.VideoQuality {
	if d.quality == nil {
		return settings.QualityAuto
	}
	return d.quality()
}

func extension(videoURL string) string {
	u, err := url.Parse(videoURL)
	if err != nil {
		return ".mp4"
	}
	if ext := path.Ext(u.Path); ext != "" && len(ext) <= 5 {
		return ext
	}
	return ".mp4"
}

// File is a downloaded video. Release deletes it; releasing twice is harmless.
type File struct {
	Path string
	Size int64

	once sync.Once
	err  error
}

func (f *File) Release() error {
	f.once.Do(func() {
		if err := os.Remove(f.Path); err != nil && !os.IsNotExist(err) {
			f.err = err
		}
	})
	return f.err
}
