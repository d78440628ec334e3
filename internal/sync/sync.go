// Package sync reconciles registered question-bank sources with the
// database: new questions are inserted, questions that vanished from their
// bank are pruned. Review items are never touched here; scheduling state
// belongs to the review service alone.
package sync

import (
	"fmt"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/prepdeck/prepdeck/internal/gitsource"
	"github.com/prepdeck/prepdeck/internal/parser"
	"github.com/prepdeck/prepdeck/internal/qbank"
	"github.com/prepdeck/prepdeck/internal/storage"
)

// RunSync iterates over all registered sources and reconciles each one.
// reposDir is where git sources are checked out.
func RunSync(db *storage.DB, reposDir string) error {
	slog.Info("Starting sync for all question-bank sources")
	sources, err := db.GetAllSources()
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	if len(sources) == 0 {
		slog.Info("No sources configured. Add one with --add-source <path/or/url.git>")
		return nil
	}

	if err := os.MkdirAll(reposDir, os.ModePerm); err != nil {
		return fmt.Errorf("sync: create repos directory: %w", err)
	}

	for _, source := range sources {
		slog.Info("Syncing source", "id", source.ID, "type", source.Type, "path", source.Path)

		scanRoot := source.Path
		if source.Type == "git" {
			localRepoPath, err := gitURLToLocalPath(reposDir, source.Path)
			if err != nil {
				slog.Error("Error determining local path for git bank", "url", source.Path, "error", err)
				continue
			}
			if err := gitsource.Sync(source.Path, localRepoPath); err != nil {
				slog.Error("Error syncing git bank", "url", source.Path, "error", err)
				continue
			}
			scanRoot = localRepoPath
		}

		reconcileSource(db, source, scanRoot)
	}
	slog.Info("Sync complete")
	return nil
}

func reconcileSource(db *storage.DB, source storage.Source, scanRoot string) {
	var (
		imported    int
		parseErrors []error
	)
	foundHashes := make(map[string]bool)

	walkErr := filepath.WalkDir(scanRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), ".md") {
			return nil
		}

		questions, parseErr := parser.ParseFile(path)
		if parseErr != nil {
			parseErrors = append(parseErrors, fmt.Errorf("parsing %s: %w", path, parseErr))
		}
		for _, q := range questions {
			q.Hash = qbank.Hash(q)
			foundHashes[q.Hash] = true

			existing, findErr := db.FindQuestionByHash(q.Hash)
			if findErr != nil {
				parseErrors = append(parseErrors, fmt.Errorf("db check for %s: %w", q.Hash, findErr))
				continue
			}
			if existing == nil {
				slog.Info("New question found, inserting", "hash", q.Hash, "topic", q.Topic)
				if insertErr := db.InsertQuestion(q, source.ID); insertErr != nil {
					parseErrors = append(parseErrors, fmt.Errorf("db insert for %s: %w", q.Hash, insertErr))
					continue
				}
				imported++
			}
		}
		return nil
	})
	if walkErr != nil {
		slog.Error("Error walking source directory", "path", scanRoot, "error", walkErr)
		return
	}

	dbQuestions, err := db.GetQuestionsBySourceID(source.ID)
	if err != nil {
		slog.Error("Error getting questions for source", "source_id", source.ID, "error", err)
		return
	}

	var pruned int
	for _, q := range dbQuestions {
		if !foundHashes[q.Hash] {
			slog.Info("Question removed from bank, pruning", "hash", q.Hash)
			pruned++
			if err := db.DeleteQuestionByHash(q.Hash); err != nil {
				slog.Warn("Failed to prune question", "hash", q.Hash, "error", err)
			}
		}
	}

	if err := db.UpdateSourceLastScanned(source.ID); err != nil {
		slog.Warn("Failed to update last scanned for source", "source_id", source.ID, "error", err)
	}

	slog.Info("reconciliation complete",
		"path", source.Path,
		"found", len(foundHashes),
		"imported", imported,
		"pruned", pruned,
		"errors", len(parseErrors),
	)
}

// SourceType classifies a registered path as a git URL or a local
// directory.
func SourceType(path string) string {
	if strings.HasSuffix(path, ".git") || strings.HasPrefix(path, "git@") ||
		strings.HasPrefix(path, "https://") || strings.HasPrefix(path, "http://") {
		return "git"
	}
	return "local"
}

func gitURLToLocalPath(baseDir, repoURL string) (string, error) {
	parsedURL, err := url.Parse(repoURL)
	if err == nil && (parsedURL.Scheme == "https" || parsedURL.Scheme == "http") {
		sanitized := strings.TrimSuffix(parsedURL.Path, ".git")
		return filepath.Join(baseDir, parsedURL.Host, sanitized), nil
	}

	// scp-style syntax: git@host:owner/repo.git
	if strings.Contains(repoURL, "@") {
		parts := strings.Split(repoURL, ":")
		if len(parts) == 2 {
			hostAndUser := strings.Split(parts[0], "@")
			if len(hostAndUser) == 2 {
				repoPath := strings.TrimSuffix(parts[1], ".git")
				return filepath.Join(baseDir, hostAndUser[1], repoPath), nil
			}
		}
	}
	return "", fmt.Errorf("could not parse git URL: %s", repoURL)
}
