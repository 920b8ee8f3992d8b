package engine

import (
	"time"

	"github.com/rs/zerolog"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/danmuck/clicktrans/internal/config"
	"github.com/danmuck/clicktrans/internal/observability"
	"github.com/danmuck/clicktrans/internal/protocol"
	"github.com/danmuck/clicktrans/internal/resource"
)

// Options configures an Engine. Zero values fall back to defaults.
type Options struct {
	Namespaces   []string
	BackupSuffix string
	Now          func() time.Time
	// OpenStore returns the file access layer for one locales root.
	OpenStore func(root string) resource.Store
	Logger    zerolog.Logger
	Metrics   *observability.SessionMetrics
}

// Engine resolves and applies edits against a resource set.
type Engine struct {
	opts Options
}

func New(opts Options) *Engine {
	if len(opts.Namespaces) == 0 {
		opts.Namespaces = config.DefaultNamespaces()
	}
	if opts.BackupSuffix == "" {
		opts.BackupSuffix = config.DefaultBackupSuffix
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.OpenStore == nil {
		opts.OpenStore = func(root string) resource.Store {
			return resource.NewDirStore(root)
		}
	}
	return &Engine{opts: opts}
}

// Apply runs every edit of req in order. Edit failures are collected in
// the response and never stop the remaining edits. Only request-level
// problems fail the call before any file is read.
func (e *Engine) Apply(req protocol.Request) protocol.Response {
	log := e.opts.Logger.With().Str("root", req.Root).Str("lang", req.Lang).Bool("force", req.Force).Logger()

	if err := protocol.ValidateRequest(req); err != nil {
		log.Warn().Err(err).Msg("request rejected")
		return protocol.Failed(err)
	}
	set, err := resource.OpenSet(req.Root, req.Lang, e.opts.Namespaces)
	if err != nil {
		log.Warn().Err(err).Msg("resource set unavailable")
		return protocol.Failed(err)
	}

	store := e.opts.OpenStore(set.Root)
	s := &Session{
		set:     set,
		store:   store,
		force:   req.Force,
		log:     log,
		metrics: e.opts.Metrics,
		backups: NewBackups(store, e.opts.Now, e.opts.BackupSuffix),
		docs:    orderedmap.New[string, loaded](),
		updated: orderedmap.New[string, struct{}](),
	}
	log.Debug().Int("edits", len(req.Payload)).Strs("namespaces", set.Namespaces).Msg("session started")
	for i, edit := range req.Payload {
		s.apply(i, edit)
	}
	resp := s.result(len(req.Payload))
	log.Info().
		Bool("success", resp.Success).
		Int("updated_files", len(resp.UpdatedFiles)).
		Int("errors", len(resp.Errors)).
		Msg(resp.Message)
	return resp
}
