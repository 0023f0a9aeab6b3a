package committer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"
	"github.com/klauspost/compress/zstd"
)

// SaveSnapshot writes the pending commits to disk so a restart can resume
// polling reveals instead of losing them. The file is zstd-compressed JSON,
// written via a temp file and rename so a crash mid-write never truncates
// the previous snapshot.
func (s *Store) SaveSnapshot(path string) error {
	view := s.snapshotView()
	raw, err := sonic.Marshal(view)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("failed to create zstd writer: %w", err)
	}
	compressed := enc.EncodeAll(raw, nil)
	if err := enc.Close(); err != nil {
		return fmt.Errorf("failed to close zstd writer: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot dir: %w", err)
	}
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot restores pending commits from disk. A missing file is not an
// error; the store just starts empty.
func (s *Store) LoadSnapshot(path string) error {
	compressed, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		return fmt.Errorf("failed to create zstd reader: %w", err)
	}
	defer dec.Close()
	raw, err := dec.DecodeAll(compressed, nil)
	if err != nil {
		return fmt.Errorf("failed to decompress snapshot: %w", err)
	}

	var view map[string]*PendingCommit
	if err := sonic.Unmarshal(raw, &view); err != nil {
		return fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}

	commits := make([]*PendingCommit, 0, len(view))
	for _, p := range view {
		commits = append(commits, p)
	}
	s.restore(commits)
	return nil
}
