package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/rvaldezc/muniRAG/internal/config"
	"github.com/rvaldezc/muniRAG/internal/domain/docModel"
)

func extractPDF(path string) (string, int, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return "", 0, fmt.Errorf("%w: failed to open pdf: %v", docModel.ErrExtractionFailure, err)
	}

	numPages := f.NumPage()
	var parts []string
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// keep going, a single unreadable page should not sink the document
			logger.Error("Error parsing page content", "page", i, "error", err)
			continue
		}
		parts = append(parts, content)
	}

	return strings.Join(parts, "\n\n"), numPages, nil
}

// protectExtract guards against pdf pages whose text extraction hangs.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(config.ExtractionTimeout):
		return "", errors.New("page extraction timeout")
	}
}
