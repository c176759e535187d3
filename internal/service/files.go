package service

import (
	"context"
	"net/url"
	"path/filepath"
	"strings"

	"go-gin-ecommerce/internal/core/apperr"
	"go-gin-ecommerce/internal/domain"
)

// FileInput is a file entry of a create or update request. An entry is new
// when New says so, or when New is absent and it has no id.
type FileInput struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	New         *bool  `json:"new"`
	PrivateURL  string `json:"privateUrl"`
	PublicURL   string `json:"publicUrl"`
	SizeInBytes int64  `json:"sizeInBytes"`
}

func (f FileInput) isNew() bool {
	if f.New != nil {
		return *f.New
	}
	return f.ID == ""
}

// attacher keeps the File rows of one owner in line with a request.
type attacher struct {
	// download endpoint used to fill an empty publicUrl
	downloadURL string
}

func (a attacher) publicURL(privateURL string) string {
	if a.downloadURL == "" {
		return ""
	}
	return a.downloadURL + "?privateUrl=" + url.QueryEscape(privateURL)
}

// reconcile creates the new entries, keeps the referenced existing files and
// soft-deletes the existing files the request no longer lists.
func (a attacher) reconcile(ctx context.Context, s domain.Store, att domain.Attachment, ownerID string, in []FileInput) ([]domain.File, error) {
	existing, err := s.Files().FindByOwner(ctx, att, ownerID)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.File, len(existing))
	for _, f := range existing {
		byID[f.ID] = f
	}

	kept := make([]domain.File, 0, len(in))
	for _, fi := range in {
		if !fi.isNew() {
			f, ok := byID[fi.ID]
			if !ok {
				return nil, apperr.Invalid(apperr.MsgFileNotOwned, fi.ID)
			}
			delete(byID, fi.ID)
			kept = append(kept, f)
			continue
		}
		if !underDir(fi.PrivateURL, att.Dir()) {
			return nil, apperr.Invalid(apperr.MsgFileBadPath, fi.PrivateURL)
		}
		f := domain.File{
			BelongsTo:       att.Owner,
			BelongsToID:     ownerID,
			BelongsToColumn: att.Column,
			Name:            fi.Name,
			SizeInBytes:     fi.SizeInBytes,
			PrivateURL:      fi.PrivateURL,
			PublicURL:       fi.PublicURL,
		}
		if f.PublicURL == "" {
			f.PublicURL = a.publicURL(f.PrivateURL)
		}
		stampCreate(ctx, &f.Model)
		if err := s.Files().Create(ctx, &f); err != nil {
			return nil, err
		}
		kept = append(kept, f)
	}

	stale := make([]string, 0, len(byID))
	for id := range byID {
		stale = append(stale, id)
	}
	if err := s.Files().SoftDelete(ctx, stale); err != nil {
		return nil, err
	}
	return kept, nil
}

// underDir reports whether p is a slash path of a direct child of dir.
func underDir(p, dir string) bool {
	rest, ok := strings.CutPrefix(p, dir+"/")
	return ok && rest != "" && !strings.Contains(rest, "/") && filepath.IsLocal(filepath.FromSlash(p))
}

func idsOf[T any](items []T, id func(*T) string) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = id(&items[i])
	}
	return out
}

// uniq drops duplicates and empty ids, keeping the first occurrence.
func uniq(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
