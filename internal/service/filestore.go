package service

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"time"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"

	"go.uber.org/zap"
)

// FileStore keeps uploads on local disk under root, one directory per
// attachment kind. File rows address them by slash path relative to root.
type FileStore struct {
	root  string
	store domain.Store
	grace time.Duration
	log   *zap.Logger
	now   func() time.Time
}

func NewFileStore(root string, grace time.Duration, store domain.Store, l *zap.Logger) *FileStore {
	return &FileStore{root: root, store: store, grace: grace, log: l, now: time.Now}
}

func fileErr(err error, msg string) error {
	return apperr.Wrap(apperr.KindFileOperation, err, "%s", msg)
}

// Init creates the managed directories.
func (s *FileStore) Init() error {
	for _, a := range domain.Attachments {
		if err := os.MkdirAll(filepath.Join(s.root, filepath.FromSlash(a.Dir())), 0o755); err != nil {
			return fileErr(err, "could not create upload directory "+a.Dir())
		}
	}
	return nil
}

// Upload stores r as <dir of a>/<filename> and returns its private url.
func (s *FileStore) Upload(_ context.Context, a domain.Attachment, filename string, r io.Reader) (string, error) {
	if filename == "" || filename == "." || filename != filepath.Base(filename) || !filepath.IsLocal(filename) {
		return "", apperr.Invalid(apperr.MsgFileBadPath, filename)
	}
	privateURL := path.Join(a.Dir(), filename)
	dst := filepath.Join(s.root, filepath.FromSlash(privateURL))

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".upload-*")
	if err != nil {
		return "", fileErr(err, "could not store file")
	}
	defer os.Remove(tmp.Name())
	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", fileErr(err, "could not store file")
	}
	if err := tmp.Close(); err != nil {
		return "", fileErr(err, "could not store file")
	}
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fileErr(err, "could not store file")
	}
	s.log.Info("file uploaded", zap.String("privateUrl", privateURL))
	return privateURL, nil
}

// Resolve maps a private url to a readable file path under root.
func (s *FileStore) Resolve(privateURL string) (string, error) {
	rel := filepath.FromSlash(privateURL)
	if privateURL == "" || !filepath.IsLocal(rel) {
		return "", apperr.New(apperr.KindFileOperation, "%s", apperr.Msg(apperr.MsgFileNotFound))
	}
	p := filepath.Join(s.root, rel)
	st, err := os.Stat(p)
	if err != nil || st.IsDir() {
		return "", fileErr(err, apperr.Msg(apperr.MsgFileNotFound))
	}
	return p, nil
}

type SweepReport struct {
	FilesRemoved int
	RowsRemoved  int
	Failures     int
}

// RemoveLegacyFiles deletes, per owner kind, files on disk that no File row
// references (skipping ones younger than the grace period), then hard-deletes
// File rows whose file is gone. Failures are logged and skipped.
func (s *FileStore) RemoveLegacyFiles(ctx context.Context) SweepReport {
	var rep SweepReport
	for _, owner := range []domain.FileOwner{domain.OwnerProducts, domain.OwnerUsers} {
		s.sweepDisk(ctx, owner, &rep)
		s.sweepRows(ctx, owner, &rep)
	}
	filesSwept.WithLabelValues("file").Add(float64(rep.FilesRemoved))
	filesSwept.WithLabelValues("row").Add(float64(rep.RowsRemoved))
	s.log.Info("legacy file sweep",
		zap.Int("files", rep.FilesRemoved), zap.Int("rows", rep.RowsRemoved), zap.Int("failures", rep.Failures))
	return rep
}

func (s *FileStore) sweepDisk(ctx context.Context, owner domain.FileOwner, rep *SweepReport) {
	dir := filepath.Join(s.root, string(owner))
	cutoff := s.now().Add(-s.grace)
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			s.log.Warn("sweep walk", zap.String("path", p), zap.Error(err))
			rep.Failures++
			return nil
		}
		if d.IsDir() {
			return ctx.Err()
		}
		rel, err := filepath.Rel(s.root, p)
		if err != nil {
			rep.Failures++
			return nil
		}
		privateURL := filepath.ToSlash(rel)
		info, err := d.Info()
		if err != nil {
			s.log.Warn("sweep stat", zap.String("privateUrl", privateURL), zap.Error(err))
			rep.Failures++
			return nil
		}
		if info.ModTime().After(cutoff) {
			return nil
		}
		used, err := s.store.Files().ExistsByPrivateURL(ctx, privateURL)
		if err != nil {
			s.log.Warn("sweep lookup", zap.String("privateUrl", privateURL), zap.Error(err))
			rep.Failures++
			return nil
		}
		if used {
			return nil
		}
		if err := os.Remove(p); err != nil {
			s.log.Warn("sweep remove", zap.String("privateUrl", privateURL), zap.Error(err))
			rep.Failures++
			return nil
		}
		rep.FilesRemoved++
		return nil
	})
	if err != nil {
		s.log.Warn("sweep aborted", zap.String("owner", string(owner)), zap.Error(err))
	}
}

func (s *FileStore) sweepRows(ctx context.Context, owner domain.FileOwner, rep *SweepReport) {
	rows, err := s.store.Files().AllByOwner(ctx, owner)
	if err != nil {
		s.log.Warn("sweep rows", zap.String("owner", string(owner)), zap.Error(err))
		rep.Failures++
		return
	}
	for _, f := range rows {
		if !filepath.IsLocal(filepath.FromSlash(f.PrivateURL)) {
			continue
		}
		_, err := os.Stat(filepath.Join(s.root, filepath.FromSlash(f.PrivateURL)))
		if err == nil || !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := s.store.Files().HardDelete(ctx, f.ID); err != nil {
			s.log.Warn("sweep row delete", zap.String("id", f.ID), zap.Error(err))
			rep.Failures++
			continue
		}
		rep.RowsRemoved++
	}
}
