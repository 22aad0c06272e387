package ingestion

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrUnsupportedFormat is returned for document types that cannot be read.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// maxDocumentBytes caps the size of a document accepted for text extraction.
const maxDocumentBytes = 20 << 20

// DocumentReader turns a resume document into plain text.
type DocumentReader interface {
	ReadText(ctx context.Context, path string) (string, error)
}

// FileReader reads .txt, .md, .docx and, when PDFCommand is available, .pdf files.
type FileReader struct {
	// PDFCommand converts a PDF to text on stdout, called as
	// "<cmd> -layout <file> -". Defaults to pdftotext.
	PDFCommand string

	lookPath func(string) (string, error)
}

// NewFileReader creates a FileReader using pdftotext for PDFs.
func NewFileReader() *FileReader {
	return &FileReader{PDFCommand: "pdftotext", lookPath: exec.LookPath}
}

// ReadText implements DocumentReader. The result is passed through CleanText.
func (r *FileReader) ReadText(ctx context.Context, path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("file not found: %w", err)
		}
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	if info.Size() > maxDocumentBytes {
		return "", fmt.Errorf("document %s is %d bytes, limit is %d", path, info.Size(), maxDocumentBytes)
	}

	var text string
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".txt", ".md", ".markdown", "":
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		text = string(raw)
	case ".docx":
		text, err = readDOCX(path)
	case ".pdf":
		text, err = r.readPDF(ctx, path)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return "", err
	}

	text = CleanText(text)
	if text == "" {
		return "", fmt.Errorf("no text found in %s", path)
	}
	return text, nil
}

func (r *FileReader) readPDF(ctx context.Context, path string) (string, error) {
	cmd := r.PDFCommand
	if cmd == "" {
		cmd = "pdftotext"
	}
	lookPath := r.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	bin, err := lookPath(cmd)
	if err != nil {
		return "", fmt.Errorf("%w: .pdf needs %s installed", ErrUnsupportedFormat, cmd)
	}

	var stdout, stderr bytes.Buffer
	c := exec.CommandContext(ctx, bin, "-layout", path, "-")
	c.Stdout = &stdout
	c.Stderr = &stderr
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("%s failed: %w: %s", cmd, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.String(), nil
}

// readDOCX extracts paragraph text from word/document.xml.
func readDOCX(path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("failed to open docx: %w", err)
	}
	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return "", fmt.Errorf("failed to open document.xml: %w", err)
		}
		defer func() { _ = rc.Close() }()
		return docxText(io.LimitReader(rc, maxDocumentBytes))
	}
	return "", fmt.Errorf("docx has no word/document.xml")
}

// docxText walks WordprocessingML tokens: w:t runs carry text, run-level
// w:tab and w:br are whitespace, and each w:p ends a line.
func docxText(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	var sb strings.Builder
	inText, inTabs := false, false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to parse document.xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tabs":
				inTabs = true
			case "tab":
				if !inTabs {
					sb.WriteString("\t")
				}
			case "br", "cr":
				sb.WriteString("\n")
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "tabs":
				inTabs = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
