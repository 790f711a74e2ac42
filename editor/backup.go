package editor

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"textnav/buffer"
)

// BackupInterval is how often dirty buffers are snapshotted for crash
// recovery.
const BackupInterval = 30 * time.Second

// BackupStore writes periodic copies of dirty buffers so unsaved work
// survives a crash. Backup filenames hash the original path, so files from
// different directories coexist in one store.
type BackupStore struct {
	dir     string
	workDir string
}

// BackupInfo is the sidecar metadata recorded next to each backup.
type BackupInfo struct {
	OriginalPath string `json:"original_path"`
	WorkDir      string `json:"work_dir"`
	Timestamp    string `json:"timestamp"`
}

func DefaultBackupDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".local", "share", "textnav", "backups")
}

func NewBackupStore(dir, workDir string) *BackupStore {
	return &BackupStore{dir: dir, workDir: workDir}
}

// PathFor is the backup file location for the given original path.
func (s *BackupStore) PathFor(originalPath string) string {
	h := sha256.Sum256([]byte(originalPath))
	return filepath.Join(s.dir, fmt.Sprintf("%x.bak", h[:8]))
}

func backupMetaPath(backupPath string) string {
	return backupPath + ".json"
}

// Save snapshots the buffer when it has unsaved changes and a backing file;
// otherwise it does nothing.
func (s *BackupStore) Save(buf *buffer.Buffer) error {
	if s.dir == "" || buf.Path == "" || !buf.Dirty {
		return nil
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return err
	}
	bpath := s.PathFor(buf.Path)
	if err := os.WriteFile(bpath, []byte(buf.String()), 0644); err != nil {
		return err
	}
	meta := BackupInfo{
		OriginalPath: buf.Path,
		WorkDir:      s.workDir,
		Timestamp:    time.Now().Format(time.RFC3339),
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(backupMetaPath(bpath), data, 0644)
}

// Clean drops the backup for path, e.g. after a successful save.
func (s *BackupStore) Clean(path string) {
	if s.dir == "" || path == "" {
		return
	}
	bpath := s.PathFor(path)
	os.Remove(bpath)
	os.Remove(backupMetaPath(bpath))
}

// Pending lists backups recorded under the store's working directory whose
// backup file still exists.
func (s *BackupStore) Pending() []BackupInfo {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil
	}

	var found []BackupInfo
	for _, entry := range entries {
		if !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var info BackupInfo
		if json.Unmarshal(data, &info) != nil {
			continue
		}
		if info.WorkDir != s.workDir {
			continue
		}
		if _, err := os.Stat(s.PathFor(info.OriginalPath)); err == nil {
			found = append(found, info)
		}
	}
	return found
}

// Recover writes the backed-up content over the original path and drops the
// backup.
func (s *BackupStore) Recover(info BackupInfo) error {
	bpath := s.PathFor(info.OriginalPath)
	data, err := os.ReadFile(bpath)
	if err != nil {
		return err
	}
	if err := os.WriteFile(info.OriginalPath, data, 0644); err != nil {
		return err
	}
	s.Clean(info.OriginalPath)
	return nil
}
