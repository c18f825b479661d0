package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/AngelCh415/weekly-pulse/internal/config"
	"github.com/AngelCh415/weekly-pulse/internal/models"
	"github.com/AngelCh415/weekly-pulse/internal/utils"
)

// Loader acquires the two raw feeds. Orders come from a local CSV; ads come
// from a URL with retry, falling back to a local CSV, falling back to an
// empty dataset. Only a missing orders file is a hard failure.
type Loader struct {
	c   HTTPClient
	log *slog.Logger
	cfg config.Config
}

func NewLoader(c HTTPClient, log *slog.Logger, cfg config.Config) *Loader {
	return &Loader{c: c, log: log, cfg: cfg}
}

func (l *Loader) Orders(ctx context.Context) ([]models.RawRecord, error) {
	l.log.Info("loading orders csv", slog.String("path", l.cfg.OrdersPath))
	f, err := os.Open(l.cfg.OrdersPath)
	if err != nil {
		return nil, fmt.Errorf("open orders csv: %w", err)
	}
	defer f.Close()
	rows, err := readCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse orders csv: %w", err)
	}
	return rows, nil
}

// Ads never returns an error: a dead URL and a missing fallback file both
// degrade to an empty dataset, which downstream treats as ordinary input.
func (l *Loader) Ads(ctx context.Context) []models.RawRecord {
	if l.cfg.AdsURL != "" {
		rows, err := l.fetchCSV(ctx, l.cfg.AdsURL)
		if err == nil {
			l.log.Info("loaded ads csv from url", slog.Int("rows", len(rows)))
			return rows
		}
		l.log.Warn("ads url fetch failed, falling back to local file",
			slog.String("url", l.cfg.AdsURL), slog.String("err", err.Error()))
	} else {
		l.log.Info("ads url not set, using local fallback")
	}

	f, err := os.Open(l.cfg.AdsFallbackPath)
	if err != nil {
		l.log.Warn("ads fallback file missing, using empty ads dataset",
			slog.String("path", l.cfg.AdsFallbackPath))
		return []models.RawRecord{}
	}
	defer f.Close()
	rows, err := readCSV(f)
	if err != nil {
		l.log.Warn("ads fallback file unreadable, using empty ads dataset",
			slog.String("path", l.cfg.AdsFallbackPath), slog.String("err", err.Error()))
		return []models.RawRecord{}
	}
	l.log.Info("loaded ads csv from fallback path", slog.Int("rows", len(rows)))
	return rows
}

func (l *Loader) fetchCSV(ctx context.Context, url string) ([]models.RawRecord, error) {
	var rows []models.RawRecord
	err := utils.NewBackoff(100*time.Millisecond, 2).Do(ctx, func(i int) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := l.c.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			return fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(b))
		}
		rows, err = readCSV(resp.Body)
		return err
	})
	return rows, err
}
