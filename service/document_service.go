package service

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
	"github.com/ledongthuc/pdf"
	"github.com/tidwall/gjson"

	"github.com/studymate/study-assistant-be/types"
)

var slideNameRe = regexp.MustCompile(`^ppt/slides/slide([0-9]+)\.xml$`)

// DocumentService extracts ordered text units from source documents.
// Format classification happens before loading, so every document that
// reaches Load carries one of the supported formats.
type DocumentService struct{}

func NewDocumentService() *DocumentService {
	return &DocumentService{}
}

// Load extracts the text units of a document according to its format.
// A document that yields no text produces zero units and no error.
func (s *DocumentService) Load(doc *types.SourceDocument) ([]types.TextUnit, error) {
	switch doc.Format {
	case types.FormatPDF:
		return s.loadPDF(doc)
	case types.FormatText:
		return s.loadText(doc)
	case types.FormatSlideDeck:
		return s.loadSlideDeck(doc)
	case types.FormatStructuredJSON:
		return s.loadJSON(doc)
	default:
		return nil, &types.UnsupportedFormatError{Source: doc.SourceID, Detected: string(doc.Format)}
	}
}

func (s *DocumentService) readContent(doc *types.SourceDocument) ([]byte, error) {
	if doc.Content != nil {
		return doc.Content, nil
	}
	return os.ReadFile(doc.Path)
}

// loadPDF produces one unit per page. Pages whose extraction fails are
// skipped with a warning; the page numbering of the remaining units is
// unaffected.
func (s *DocumentService) loadPDF(doc *types.SourceDocument) (units []types.TextUnit, err error) {
	// The pdf library panics on some malformed files instead of
	// returning an error.
	defer func() {
		if r := recover(); r != nil {
			units = nil
			err = &types.LoadError{Source: doc.SourceID, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	var reader *pdf.Reader
	if doc.Path != "" {
		f, r, openErr := pdf.Open(doc.Path)
		if openErr != nil {
			return nil, &types.LoadError{Source: doc.SourceID, Err: openErr}
		}
		defer f.Close()
		reader = r
	} else {
		r, openErr := pdf.NewReader(bytes.NewReader(doc.Content), int64(len(doc.Content)))
		if openErr != nil {
			return nil, &types.LoadError{Source: doc.SourceID, Err: openErr}
		}
		reader = r
	}

	totalPages := reader.NumPage()
	for pageNum := 1; pageNum <= totalPages; pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		text, extractErr := page.GetPlainText(nil)
		if extractErr != nil {
			log.Warn("failed to extract page text", "source", doc.SourceID, "page", pageNum, "error", extractErr)
			continue
		}
		text = cleanText(text)
		if text == "" {
			continue
		}
		units = append(units, types.TextUnit{
			Content: text,
			Metadata: types.UnitMetadata{
				SourceID: doc.SourceID,
				Page:     pageNum,
			},
		})
	}
	return units, nil
}

func (s *DocumentService) loadText(doc *types.SourceDocument) ([]types.TextUnit, error) {
	content, err := s.readContent(doc)
	if err != nil {
		return nil, &types.LoadError{Source: doc.SourceID, Err: err}
	}
	if !utf8.Valid(content) {
		return nil, &types.LoadError{Source: doc.SourceID, Err: errors.New("file is not valid UTF-8")}
	}
	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil, nil
	}
	return []types.TextUnit{{
		Content:  text,
		Metadata: types.UnitMetadata{SourceID: doc.SourceID},
	}}, nil
}

// slideXML mirrors the parts of the slide markup that carry text. Element
// names are matched by local name, so the a:/p: prefixes in the archive do
// not matter here.
type slideXML struct {
	CSld struct {
		SpTree struct {
			Shapes []struct {
				TxBody struct {
					Paragraphs []struct {
						Runs []struct {
							Text string `xml:"t"`
						} `xml:"r"`
					} `xml:"p"`
				} `xml:"txBody"`
			} `xml:"sp"`
		} `xml:"spTree"`
	} `xml:"cSld"`
}

// loadSlideDeck produces one unit per slide, ordered by slide number. A
// legacy binary .ppt is not a zip archive and fails on open.
func (s *DocumentService) loadSlideDeck(doc *types.SourceDocument) ([]types.TextUnit, error) {
	content, err := s.readContent(doc)
	if err != nil {
		return nil, &types.LoadError{Source: doc.SourceID, Err: err}
	}
	archive, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, &types.LoadError{Source: doc.SourceID, Err: err}
	}

	type slideFile struct {
		num  int
		file *zip.File
	}
	var slides []slideFile
	for _, f := range archive.File {
		matches := slideNameRe.FindStringSubmatch(f.Name)
		if len(matches) != 2 {
			continue
		}
		num, convErr := strconv.Atoi(matches[1])
		if convErr != nil {
			continue
		}
		slides = append(slides, slideFile{num: num, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var units []types.TextUnit
	for _, slide := range slides {
		text, parseErr := extractSlideText(slide.file)
		if parseErr != nil {
			return nil, &types.LoadError{Source: doc.SourceID, Err: fmt.Errorf("slide %d: %w", slide.num, parseErr)}
		}
		if text == "" {
			continue
		}
		units = append(units, types.TextUnit{
			Content: text,
			Metadata: types.UnitMetadata{
				SourceID: doc.SourceID,
				Page:     slide.num,
			},
		})
	}
	return units, nil
}

func extractSlideText(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var slide slideXML
	if err := xml.NewDecoder(rc).Decode(&slide); err != nil {
		return "", err
	}

	var lines []string
	for _, shape := range slide.CSld.SpTree.Shapes {
		for _, paragraph := range shape.TxBody.Paragraphs {
			var sb strings.Builder
			for _, run := range paragraph.Runs {
				sb.WriteString(run.Text)
			}
			if line := strings.TrimSpace(sb.String()); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

// loadJSON produces units from the top level of the document: one unit per
// string-valued member of a root object (key recorded in metadata) or per
// string element of a root array, in document order. Everything else is
// skipped without complaint, so a root holding no strings yields zero units.
func (s *DocumentService) loadJSON(doc *types.SourceDocument) ([]types.TextUnit, error) {
	content, err := s.readContent(doc)
	if err != nil {
		return nil, &types.LoadError{Source: doc.SourceID, Err: err}
	}
	if !gjson.ValidBytes(content) {
		return nil, &types.LoadError{Source: doc.SourceID, Err: errors.New("invalid JSON")}
	}

	root := gjson.ParseBytes(content)
	var units []types.TextUnit
	appendUnit := func(key, value string) {
		if value == "" {
			return
		}
		units = append(units, types.TextUnit{
			Content: value,
			Metadata: types.UnitMetadata{
				SourceID: doc.SourceID,
				Key:      key,
			},
		})
	}

	switch {
	case root.IsObject():
		root.ForEach(func(key, value gjson.Result) bool {
			if value.Type == gjson.String {
				appendUnit(key.String(), value.String())
			}
			return true
		})
	case root.IsArray():
		root.ForEach(func(_, value gjson.Result) bool {
			if value.Type == gjson.String {
				appendUnit("", value.String())
			}
			return true
		})
	}
	return units, nil
}

func cleanText(text string) string {
	replacements := map[string]string{
		"\u0000": "",   // Null character
		"\ufffd": "",   // Unicode replacement character
		"\r":     "",   // Carriage return
		"\f":     "\n", // Form feed to newline
	}
	cleaned := text
	for old, new := range replacements {
		cleaned = strings.ReplaceAll(cleaned, old, new)
	}
	return strings.TrimSpace(cleaned)
}
