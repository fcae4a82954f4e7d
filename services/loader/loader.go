package loader

import (
	"context"
	"fmt"

	"github.com/meghashyamc/docsearch/db/searchdb"
	"github.com/meghashyamc/docsearch/logger"
	"github.com/meghashyamc/docsearch/services/finder"
	"golang.org/x/sync/errgroup"
)

const maxGoRoutinesForFileProcessing = 50

// ContentAdder is where loaded documents go
type ContentAdder interface {
	AddContents(ctx context.Context, documents []searchdb.Document) (finder.BatchResult, error)
}

type Summary struct {
	Added   int
	Skipped int
}

type Service struct {
	logger logger.Logger
	adder  ContentAdder
}

func New(logger logger.Logger, adder ContentAdder) *Service {
	return &Service{
		logger: logger,
		adder:  adder,
	}
}

// Load adds every text file under rootPath as a document named after the
// file, one index batch at a time. Files whose name is already taken are
// skipped.
func (s *Service) Load(ctx context.Context, rootPath string, excludeFolders []string) (Summary, error) {
	files, err := s.discoverFiles(rootPath, excludeFolders)
	if err != nil {
		s.logger.Error("failed to discover files", "root", rootPath, "err", err.Error())
		return Summary{}, fmt.Errorf("failed to discover files in %s: %w", rootPath, err)
	}
	s.logger.Info("discovered files", "root", rootPath, "num_of_files", len(files))

	summary := Summary{}
	for start := 0; start < len(files); start += searchdb.IndexingBatchSize {
		end := min(start+searchdb.IndexingBatchSize, len(files))

		batchSummary, err := s.loadBatch(ctx, files[start:end])
		summary.Added += batchSummary.Added
		summary.Skipped += batchSummary.Skipped
		if err != nil {
			s.logger.Error("loading stopped", "root", rootPath, "added", summary.Added, "err", err.Error())
			return summary, err
		}
	}

	s.logger.Info("finished loading documents", "root", rootPath, "added", summary.Added, "skipped", summary.Skipped)
	return summary, nil
}

func (s *Service) loadBatch(ctx context.Context, files []FileInfo) (Summary, error) {
	contents := make([]*string, len(files))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxGoRoutinesForFileProcessing)

	for i, file := range files {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			contents[i] = s.readFile(file)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return Summary{}, err
	}

	summary := Summary{}
	documents := make([]searchdb.Document, 0, len(files))
	for i, file := range files {
		if contents[i] == nil {
			summary.Skipped++
			continue
		}
		documents = append(documents, searchdb.Document{Name: file.Name, Content: *contents[i]})
	}

	result, err := s.adder.AddContents(ctx, documents)
	if err != nil {
		return summary, fmt.Errorf("could not add %d documents: %w", len(documents), err)
	}
	for _, rejected := range result.Rejected {
		s.logger.Warn("document not added", "reason", rejected.Message)
	}

	summary.Added += result.Added
	summary.Skipped += len(result.Rejected)
	return summary, nil
}

// readFile returns nil when the file cannot be read.
func (s *Service) readFile(file FileInfo) *string {
	if file.Size > maxFileSize {
		s.logger.Warn("file too large, loading only its beginning", "path", file.Path, "size", file.Size, "limit", maxFileSize)
	}

	content, err := readTextFile(file.Path)
	if err != nil {
		s.logger.Warn("could not read file, skipping", "path", file.Path, "err", err.Error())
		return nil
	}
	return &content
}
