package dsl

import (
	"context"
	"embed"
	"fmt"
	"path"

	"github.com/viant/afs"
	"github.com/viant/afs/storage"
	"github.com/viant/afs/url"
)

// Loader reads DSL documents from any afs supported location (file, mem, embed, ...)
type Loader struct {
	fs      afs.Service
	baseURL string
	options []storage.Option
}

// LoaderOption customises a loader
type LoaderOption func(*Loader)

// WithBaseURL resolves relative URLs against baseURL
func WithBaseURL(baseURL string) LoaderOption {
	return func(l *Loader) {
		l.baseURL = baseURL
	}
}

// WithEmbedFS serves embed:// URLs from fs
func WithEmbedFS(fs *embed.FS) LoaderOption {
	return func(l *Loader) {
		l.options = append(l.options, fs)
	}
}

// WithFS sets the storage service
func WithFS(fs afs.Service) LoaderOption {
	return func(l *Loader) {
		l.fs = fs
	}
}

// NewLoader creates a loader
func NewLoader(options ...LoaderOption) *Loader {
	ret := &Loader{fs: afs.New()}
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

// URL returns the absolute location of a document; extension-less names get .yaml
func (l *Loader) URL(location string) string {
	if path.Ext(location) == "" {
		location += ".yaml"
	}
	if l.baseURL != "" && url.IsRelative(location) {
		location = url.Join(l.baseURL, location)
	}
	return location
}

// Load downloads, expands ${env.KEY} references and parses a document
func (l *Loader) Load(ctx context.Context, location string) (*Document, error) {
	URL := l.URL(location)
	data, err := l.fs.DownloadWithURL(ctx, URL, l.options...)
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow document %v: %w", URL, err)
	}
	doc, err := Parse([]byte(ExpandEnv(string(data))))
	if err != nil {
		return nil, fmt.Errorf("invalid workflow document %v: %w", URL, err)
	}
	doc.URL = URL
	return doc, nil
}
