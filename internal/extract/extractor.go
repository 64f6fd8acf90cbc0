package extract

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extractor produces the plain-text artifact for a document. PDFs go through
// pdftotext; presentations are read directly as zipped slide XML.
type Extractor struct {
	Runner Runner
	Logger *slog.Logger
}

func NewExtractor(runner Runner, logger *slog.Logger) *Extractor {
	if runner == nil {
		runner = NewExecRunner()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{Runner: runner, Logger: logger}
}

// ExtractToFile extracts text from inputPath and writes it to outPath,
// replacing any previous artifact.
func (e *Extractor) ExtractToFile(ctx context.Context, inputPath, outPath string) error {
	var text string
	var err error

	switch filepath.Ext(inputPath) {
	case ".pdf":
		text, err = e.extractPDF(ctx, inputPath)
	case ".ppt", ".pptx":
		text, err = extractSlides(inputPath)
	default:
		err = fmt.Errorf("no extractor for %q", filepath.Ext(inputPath))
	}
	if err != nil {
		return fmt.Errorf("extract %s: %w", inputPath, err)
	}

	text = strings.TrimSpace(text)
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write text artifact: %w", err)
	}
	e.Logger.Info("extract.ok", "input", inputPath, "artifact", outPath, "bytes", len(text))
	return nil
}

func (e *Extractor) extractPDF(ctx context.Context, path string) (string, error) {
	// "-" sends the text to stdout.
	stdout, stderr, err := e.Runner.Run(ctx, "pdftotext", path, "-")
	if err != nil {
		return "", fmt.Errorf("pdftotext: %w: %s", err, truncate(string(stderr), 512))
	}
	return string(stdout), nil
}

// extractSlides pulls visible text runs out of the slide XML inside a
// PowerPoint file, in slide order.
func extractSlides(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("open presentation: %w", err)
	}
	defer zr.Close()

	var slides []*zip.File
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "ppt/slides/slide") && strings.HasSuffix(f.Name, ".xml") {
			slides = append(slides, f)
		}
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].Name < slides[j].Name })

	var b strings.Builder
	for _, f := range slides {
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("open %s: %w", f.Name, err)
		}
		text, err := slideText(rc)
		closeErr := rc.Close()
		if err != nil {
			return "", fmt.Errorf("parse %s: %w", f.Name, err)
		}
		if closeErr != nil {
			return "", fmt.Errorf("close %s: %w", f.Name, closeErr)
		}
		b.WriteString(text)
	}
	return b.String(), nil
}

// slideText collects character data inside <a:t> elements, one line per run.
func slideText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var b strings.Builder
	inText := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			if t.Name.Local == "t" {
				inText = false
			}
		case xml.CharData:
			if inText {
				b.Write(t)
				b.WriteByte('\n')
			}
		}
	}
	return b.String(), nil
}
