package application

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"
)

// ErrExportUnavailable is returned when no object store is configured.
var ErrExportUnavailable = errors.New("export storage not configured")

// ObjectUploader stores an object and returns its URL; helpers.GCSUploader implements it.
type ObjectUploader interface {
	Upload(ctx context.Context, objectPath, contentType string, r io.Reader) (string, error)
}

type ExportResult struct {
	Object string `json:"object"`
	URL    string `json:"url"`
	Rows   int    `json:"rows"`
}

// ExportList writes the list's products as CSV to exports/<user>/<list>-<unix>.csv.
func (s *ReorderService) ExportList(ctx context.Context, userID, listID string) (*ExportResult, error) {
	if s.Exporter == nil {
		return nil, ErrExportUnavailable
	}
	v, err := s.GetList(ctx, userID, listID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"sku", "name", "quantity"})
	for _, p := range v.Products {
		_ = w.Write([]string{p.SKU, p.Name, strconv.Itoa(p.Quantity)})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("encode csv: %w", err)
	}

	object := fmt.Sprintf("exports/%s/%s-%d.csv", userID, listID, time.Now().Unix())
	url, err := s.Exporter.Upload(ctx, object, "text/csv", &buf)
	if err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}
	s.Logger.WithField("object", object).Info("list exported")
	return &ExportResult{Object: object, URL: url, Rows: len(v.Products)}, nil
}
