package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/studymate/study-assistant-be/types"
)

// supportedUploadExts mirrors the loader's format union.
var supportedUploadExts = map[string]bool{
	".pdf":  true,
	".txt":  true,
	".json": true,
	".ppt":  true,
	".pptx": true,
}

// FileService keeps the uploaded study material on disk and feeds it into
// the ingestion pipeline.
type FileService struct {
	uploadDir string
	documents *DocumentService
	chunker   *ChunkService
	indexer   *IndexService
}

func NewFileService(
	uploadDir string,
	documents *DocumentService,
	chunker *ChunkService,
	indexer *IndexService,
) (*FileService, error) {
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return nil, err
	}
	return &FileService{
		uploadDir: uploadDir,
		documents: documents,
		chunker:   chunker,
		indexer:   indexer,
	}, nil
}

// UploadDir returns the directory uploads are stored in.
func (s *FileService) UploadDir() string {
	return s.uploadDir
}

// UploadFile saves an uploaded file and runs it through the ingestion
// pipeline, reporting each stage on c. The caller owns the channel.
func (s *FileService) UploadFile(ctx context.Context, req types.UploadRequest, file *multipart.FileHeader, c chan<- types.ProcessingDocumentStatus) (*types.UploadResponse, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !supportedUploadExts[ext] {
		return nil, fmt.Errorf("unsupported file type: %s", ext)
	}

	c <- types.ProcessingDocumentStatus{Status: "saving", Message: "Saving uploaded file"}
	storedName, err := s.save(file, req.Title, ext)
	if err != nil {
		return nil, err
	}

	doc, err := types.NewSourceDocumentFromFile(filepath.Join(s.uploadDir, storedName))
	if err != nil {
		return nil, err
	}

	c <- types.ProcessingDocumentStatus{Status: "loading", Message: "Extracting text"}
	units, err := s.documents.Load(&doc)
	if err != nil {
		return nil, err
	}
	if len(units) == 0 {
		c <- types.ProcessingDocumentStatus{Status: "done", Message: "Document has no extractable text, nothing to index"}
		return &types.UploadResponse{Filename: storedName, SectionsProcessed: 0}, nil
	}

	c <- types.ProcessingDocumentStatus{Status: "chunking", Message: fmt.Sprintf("Splitting %d sections", len(units))}
	chunks, err := s.chunker.Split(units)
	if err != nil {
		return nil, err
	}

	c <- types.ProcessingDocumentStatus{Status: "indexing", Message: fmt.Sprintf("Indexing %d chunks", len(chunks))}
	count, err := s.indexer.Index(ctx, chunks)
	if err != nil {
		return nil, err
	}

	c <- types.ProcessingDocumentStatus{Status: "done", Message: "Done processing document", Sections: count}
	return &types.UploadResponse{Filename: storedName, SectionsProcessed: count}, nil
}

// save writes the upload under a sanitized, timestamped name and returns
// that name.
func (s *FileService) save(file *multipart.FileHeader, title, ext string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	base := title
	if base == "" {
		base = file.Filename
	}
	base = strings.TrimSuffix(base, ext)
	filename := fmt.Sprintf("%s_%d%s", base, time.Now().Unix(), ext)

	// Replace anything outside the safe character set
	filename = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			return r
		}
		return '_'
	}, filename)

	dst, err := os.Create(filepath.Join(s.uploadDir, filename))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return "", err
	}
	return filename, nil
}

// ListFiles reports the stored documents sorted by name.
func (s *FileService) ListFiles() ([]types.DocumentInfo, error) {
	entries, err := os.ReadDir(s.uploadDir)
	if err != nil {
		return nil, err
	}

	files := make([]types.DocumentInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, types.DocumentInfo{
			Filename:     entry.Name(),
			SizeBytes:    info.Size(),
			LastModified: info.ModTime().Unix(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Filename < files[j].Filename })
	return files, nil
}

// FilePath resolves a stored file by base name, rejecting anything that
// would escape the upload directory.
func (s *FileService) FilePath(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." || filename != filepath.Base(filename) {
		return "", fmt.Errorf("invalid filename: %s", filename)
	}
	path := filepath.Join(s.uploadDir, filename)
	if _, err := os.Stat(path); err != nil {
		return "", err
	}
	return path, nil
}

// DeleteFile removes a stored file. Index entries built from it stay in the
// store; only the file goes away.
func (s *FileService) DeleteFile(filename string) error {
	path, err := s.FilePath(filename)
	if err != nil {
		return err
	}
	return os.Remove(path)
}
