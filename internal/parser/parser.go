package parser

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"legal-assistant/internal/config"
	"legal-assistant/internal/models"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

const (
	defaultChunkSize    = 1000 // characters
	defaultChunkOverlap = 200  // characters
	defaultPageNumber   = 1
)

type chunkerConfig struct {
	chunkSize    int
	chunkOverlap int
}

// SupportedExt reports whether files with this extension can be ingested.
func SupportedExt(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".docx", ".txt", ".md", ".xlsx", ".ods":
		return true
	}
	return false
}

// Parse reads the document at filePath and splits its text into
// overlapping chunks. Chunk IDs restart per page or sheet.
func Parse(filePath string, cfg *config.Config) ([]models.Chunk, error) {
	c := chunkerConfig{chunkSize: defaultChunkSize, chunkOverlap: defaultChunkOverlap}
	if cfg != nil && cfg.RAG.ChunkSize > 0 {
		c.chunkSize = cfg.RAG.ChunkSize
	}
	if cfg != nil && cfg.RAG.ChunkOverlap > 0 {
		c.chunkOverlap = cfg.RAG.ChunkOverlap
	}

	ext := strings.ToLower(filepath.Ext(filePath))
	switch ext {
	case ".pdf":
		return c.parsePDF(filePath)
	case ".docx":
		return c.parseDOCX(filePath)
	case ".txt":
		return c.parseText(filePath)
	case ".md":
		return c.parseMarkdown(filePath)
	case ".xlsx":
		return c.parseXLSX(filePath)
	case ".ods":
		return c.parseODS(filePath)
	default:
		return nil, fmt.Errorf("unsupported file format: %s", ext)
	}
}

func (c chunkerConfig) parsePDF(filePath string) ([]models.Chunk, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	reader, err := pdf.NewReader(f, stat.Size())
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, c.getChunks(pageText, i)...)
	}
	return chunks, nil
}

func (c chunkerConfig) parseDOCX(filePath string) ([]models.Chunk, error) {
	r, err := docx.ReadDocxFile(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	doc := r.Editable()
	content := doc.GetContent()
	return c.getChunks(content, defaultPageNumber), nil
}

func (c chunkerConfig) parseText(filePath string) ([]models.Chunk, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return c.getChunks(string(data), defaultPageNumber), nil
}

func (c chunkerConfig) parseMarkdown(filePath string) ([]models.Chunk, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return c.getChunks(extractMarkdownText(data), defaultPageNumber), nil
}

func (c chunkerConfig) parseXLSX(filePath string) ([]models.Chunk, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return nil, err
	}

	var chunks []models.Chunk
	for sheetNum, sheet := range f.Sheets {
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheet.Name))
		for _, row := range sheet.Rows {
			for _, cell := range row.Cells {
				text.WriteString(cell.String() + "\t")
			}
			text.WriteString("\n")
		}
		// sheet number stands in for the page number
		chunks = append(chunks, c.getChunks(text.String(), sheetNum+1)...)
	}
	return chunks, nil
}

func (c chunkerConfig) parseODS(filePath string) ([]models.Chunk, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []models.Chunk
	for sheetNum, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			continue
		}
		var text strings.Builder
		text.WriteString(fmt.Sprintf("Sheet: %s\n", sheetName))
		for _, row := range rows {
			for _, cell := range row {
				text.WriteString(cell + "\t")
			}
			text.WriteString("\n")
		}
		chunks = append(chunks, c.getChunks(text.String(), sheetNum+1)...)
	}
	return chunks, nil
}

// extractMarkdownText walks the goldmark AST and collects the plain text
// segments, dropping markup.
func extractMarkdownText(data []byte) string {
	md := goldmark.New()
	doc := md.Parser().Parse(gmtext.NewReader(data))

	var buf bytes.Buffer
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if _, ok := n.(*ast.Paragraph); ok {
				buf.WriteString("\n")
			}
			if _, ok := n.(*ast.Heading); ok {
				buf.WriteString("\n")
			}
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			buf.Write(t.Segment.Value(data))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteString("\n")
			}
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// chunkContent splits content into chunks of at most maxChars with
// overlapChars carried over between consecutive chunks.
func chunkContent(content string, maxChars, overlapChars int) []string {
	if maxChars <= 0 {
		return nil
	}
	if overlapChars < 0 {
		overlapChars = 0
	}
	if overlapChars >= maxChars {
		overlapChars = maxChars / 2
	}

	content = strings.TrimSpace(content)
	contentLen := len(content)
	if contentLen == 0 {
		return nil
	}
	if contentLen <= maxChars {
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < contentLen {
		end := min(start+maxChars, contentLen)

		// prefer to break on whitespace or sentence end within the
		// last tenth of the chunk
		if end < contentLen {
			lookBack := min(maxChars/10, end-start)
			for i := end - 1; i >= end-lookBack && i > start; i-- {
				if content[i] == ' ' || content[i] == '\n' || content[i] == '.' {
					end = i + 1
					break
				}
			}
		}

		chunk := strings.TrimSpace(content[start:end])
		if chunk != "" {
			chunks = append(chunks, chunk)
		}

		start += maxChars - overlapChars
		if start >= contentLen {
			break
		}
	}

	return chunks
}

// getChunks assigns chunk IDs (1-based, restarting per page).
func (c chunkerConfig) getChunks(content string, pageNumber int) []models.Chunk {
	var chunks []models.Chunk
	for i, s := range chunkContent(content, c.chunkSize, c.chunkOverlap) {
		chunks = append(chunks, models.Chunk{
			Content:    s,
			PageNumber: pageNumber,
			ChunkID:    i + 1,
		})
	}
	return chunks
}
