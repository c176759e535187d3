// Package service implements the entity, auth and file operations on top
// of the repositories. Every write runs in one transaction.
package service

import (
	"context"
	"time"

	"go-gin-ecommerce/internal/core/apperr"

	"github.com/prometheus/client_golang/prometheus"
)

type Options struct {
	// absolute URL of GET /file/download, used to fill empty publicUrls
	DownloadURL     string
	VerificationTTL time.Duration
	ResetTTL        time.Duration
	Now             func() time.Time
}

func (o Options) clock() func() time.Time {
	if o.Now != nil {
		return o.Now
	}
	return time.Now
}

var (
	filesSwept = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "upload_files_swept_total", Help: "Files and file rows removed by the legacy file sweep"},
		[]string{"kind"},
	)
	unverifiedPurged = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "users_unverified_purged_total", Help: "Unverified users removed after the verification period"},
	)
)

func init() { prometheus.MustRegister(filesSwept, unverifiedPurged) }

// findLive loads id with find and treats missing and soft-deleted rows alike.
func findLive[T any](ctx context.Context, find func(context.Context, string) (*T, error), id, msgKey string) (*T, error) {
	v, err := find(ctx, id)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, apperr.Missing(msgKey, id)
	}
	if d, ok := any(v).(interface{ Deleted() bool }); ok && d.Deleted() {
		return nil, apperr.Missing(msgKey, id)
	}
	return v, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// firstMissing returns the first of ids absent from found.
func firstMissing[T any](ids []string, found []T, id func(*T) string) string {
	have := make(map[string]struct{}, len(found))
	for i := range found {
		have[id(&found[i])] = struct{}{}
	}
	for _, want := range ids {
		if _, ok := have[want]; !ok {
			return want
		}
	}
	return ""
}
