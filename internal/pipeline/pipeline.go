// Package pipeline wires the classification stages together and runs them
// on background workers.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/bookstruct/bookstruct/internal/book"
	"github.com/bookstruct/bookstruct/internal/cache"
	"github.com/bookstruct/bookstruct/internal/classify"
	"github.com/bookstruct/bookstruct/internal/fontstats"
	"github.com/bookstruct/bookstruct/internal/profile"
	"github.com/bookstruct/bookstruct/internal/structure"
)

// ErrEmptySource is returned for a document with no text runs at all.
var ErrEmptySource = errors.New("document contains no text runs")

// Result is the outcome of one classification: the structure tree plus the
// advisory metadata that travels with it.
type Result struct {
	Root        *book.Node
	Warnings    []book.Warning
	Profile     *profile.Profile
	Fingerprint string
	FromCache   bool
}

// Pipeline classifies documents. Stages run sequentially in one goroutine
// per invocation and share no mutable state across documents, so separate
// invocations may run concurrently.
type Pipeline struct {
	profiles    *profile.Registry
	store       *cache.Store
	log         *slog.Logger
	samplePages int

	mu     sync.Mutex
	bypass map[string]struct{} // (source, profile) pairs forced past the cache once
}

// New builds a pipeline. store may be nil to disable caching entirely.
func New(profiles *profile.Registry, store *cache.Store, log *slog.Logger, samplePages int) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		profiles:    profiles,
		store:       store,
		log:         log,
		samplePages: samplePages,
		bypass:      make(map[string]struct{}),
	}
}

// ClassifyDocument runs the full pipeline for one document. An empty
// profileName auto-detects a profile from the document's fonts; a non-empty
// name must resolve in the registry. Only input errors fail the call:
// structural problems surface as warnings on the result, and cache faults
// are logged and ignored.
func (pl *Pipeline) ClassifyDocument(ctx context.Context, doc *book.Document, profileName string) (*Result, error) {
	if doc == nil || doc.RunCount() == 0 {
		return nil, ErrEmptySource
	}

	var p *profile.Profile
	if profileName == "" {
		p = fontstats.Detect(doc.Runs(), fontstats.Options{SamplePages: pl.samplePages})
	} else {
		var err error
		p, err = pl.profiles.Get(profileName)
		if err != nil {
			return nil, err
		}
	}

	fp := cache.Fingerprint(doc.SourceID, p)
	if pl.store != nil && !pl.takeBypass(doc.SourceID, profileName) {
		if tree, warnings, ok := pl.store.Load(fp); ok {
			pl.log.Info("cache hit", "source", doc.SourceID, "profile", p.Name)
			return &Result{
				Root:        tree,
				Warnings:    warnings,
				Profile:     p,
				Fingerprint: fp,
				FromCache:   true,
			}, nil
		}
	}

	blocks, err := classify.Assemble(ctx, doc, p)
	if err != nil {
		return nil, err
	}
	root, warnings := structure.Build(blocks, p)

	// A cancelled run never writes a partial entry.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pl.store != nil {
		if err := pl.store.Save(fp, root, warnings); err != nil {
			pl.log.Warn("cache write failed", "source", doc.SourceID, "error", err)
		}
	}

	return &Result{
		Root:        root,
		Warnings:    warnings,
		Profile:     p,
		Fingerprint: fp,
	}, nil
}

// Invalidate forces the next classification of (sourceID, profileName) to
// bypass the cache regardless of fingerprint match, and drops the current
// entry when the profile resolves.
func (pl *Pipeline) Invalidate(sourceID, profileName string) error {
	pl.mu.Lock()
	pl.bypass[bypassKey(sourceID, profileName)] = struct{}{}
	pl.mu.Unlock()

	if pl.store == nil || profileName == "" {
		return nil
	}
	p, err := pl.profiles.Get(profileName)
	if err != nil {
		return err
	}
	if err := pl.store.Remove(cache.Fingerprint(sourceID, p)); err != nil {
		return fmt.Errorf("invalidate %s/%s: %w", sourceID, profileName, err)
	}
	return nil
}

// Profiles exposes the registry for the API layer.
func (pl *Pipeline) Profiles() *profile.Registry {
	return pl.profiles
}

// Cache exposes the store for diagnostics endpoints; may be nil.
func (pl *Pipeline) Cache() *cache.Store {
	return pl.store
}

func (pl *Pipeline) takeBypass(sourceID, profileName string) bool {
	key := bypassKey(sourceID, profileName)
	pl.mu.Lock()
	defer pl.mu.Unlock()
	if _, ok := pl.bypass[key]; ok {
		delete(pl.bypass, key)
		return true
	}
	return false
}

func bypassKey(sourceID, profileName string) string {
	return sourceID + "\x00" + profileName
}
