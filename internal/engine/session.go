package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/rs/zerolog"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/danmuck/clicktrans/internal/observability"
	"github.com/danmuck/clicktrans/internal/protocol"
	"github.com/danmuck/clicktrans/internal/resource"
)

var ErrKeyNotFound = errors.New("engine: key not found")

type loaded struct {
	doc *resource.Document
	err error
}

// Session is the state of one Apply call. Each namespace file is loaded
// at most once, so later edits see earlier in-memory mutations.
type Session struct {
	set     resource.Set
	store   resource.Store
	force   bool
	log     zerolog.Logger
	metrics *observability.SessionMetrics
	backups *Backups

	docs    *orderedmap.OrderedMap[string, loaded]
	updated *orderedmap.OrderedMap[string, struct{}]

	applied  int
	skipped  []string
	failures []protocol.Failure
}

func (s *Session) apply(index int, edit protocol.Edit) {
	log := s.log.With().Int("edit", index).Str("key", edit.Key).Logger()

	if err := protocol.ValidateEdit(edit); err != nil {
		s.fail(index, edit.Key, "", protocol.ReasonValidation, fmt.Sprintf("Invalid edit #%d: %v", index+1, err))
		return
	}
	path, err := resource.ParseKeyPath(edit.Key)
	if err != nil {
		s.fail(index, edit.Key, "", protocol.ReasonValidation, fmt.Sprintf("Invalid edit #%d: %v", index+1, err))
		return
	}

	doc, value, err := s.locate(path)
	if err != nil {
		s.fail(index, edit.Key, "", protocol.ReasonNotFound,
			fmt.Sprintf("Key not found: %s (searched: %s)", edit.Key, strings.Join(s.set.Namespaces, ", ")))
		return
	}
	log = log.With().Str("namespace", doc.Namespace).Logger()
	if edit.NS != "" && edit.NS != doc.Namespace {
		log.Debug().Str("ns_hint", edit.NS).Msg("namespace hint ignored")
	}

	current, err := value.Text()
	if err != nil {
		s.fail(index, edit.Key, doc.Namespace, protocol.ReasonIO,
			fmt.Sprintf("Read failed for %s in %s: %v", edit.Key, doc.Namespace, err))
		return
	}
	if current != edit.Old {
		if !s.force {
			s.fail(index, edit.Key, doc.Namespace, protocol.ReasonMismatch,
				fmt.Sprintf("Mismatch for %s: current=%q, expected=%q", edit.Key, current, edit.Old))
			return
		}
		log.Warn().Str("current", current).Str("expected", edit.Old).Msg("mismatch overridden by force")
	}

	if edit.New == "" {
		s.skipped = append(s.skipped, edit.Key)
		s.metrics.RecordEdit(observability.OutcomeSkipped)
		log.Info().Msg("empty new value, skipped")
		return
	}

	backup, created, err := s.backups.Ensure(doc.Path)
	if err != nil {
		s.fail(index, edit.Key, doc.Namespace, protocol.ReasonIO,
			fmt.Sprintf("Backup failed for %s in %s: %v", edit.Key, doc.Namespace, err))
		return
	}
	if created {
		s.metrics.RecordBackup()
		log.Info().Str("backup", backup).Msg("backup created")
	}

	snapshot := doc.Snapshot()
	if err := s.write(doc, path, edit.New); err != nil {
		doc.Restore(snapshot)
		s.fail(index, edit.Key, doc.Namespace, protocol.ReasonIO,
			fmt.Sprintf("Write failed for %s in %s: %v", edit.Key, doc.Namespace, err))
		return
	}
	s.updated.Set(doc.Path, struct{}{})
	s.applied++
	s.metrics.RecordEdit(observability.OutcomeUpdated)
	s.metrics.RecordWrite()
	log.Info().Str("file", doc.Path).Msg("entry updated")
}

// locate tries each namespace in priority order and stops at the first
// document where path resolves to a leaf.
func (s *Session) locate(path resource.KeyPath) (*resource.Document, resource.Value, error) {
	for _, ns := range s.set.Namespaces {
		doc, err := s.load(ns)
		if err != nil {
			continue
		}
		value, err := doc.Resolve(path)
		if err != nil {
			s.log.Trace().Str("namespace", ns).Str("key", path.String()).Err(err).Msg("key not in namespace")
			continue
		}
		return doc, value, nil
	}
	return nil, resource.Value{}, ErrKeyNotFound
}

func (s *Session) load(ns string) (*resource.Document, error) {
	file := s.set.File(ns)
	if l, ok := s.docs.Get(file); ok {
		return l.doc, l.err
	}
	doc, err := s.read(file, ns)
	s.docs.Set(file, loaded{doc: doc, err: err})
	return doc, err
}

func (s *Session) read(file, ns string) (*resource.Document, error) {
	data, err := s.store.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Debug().Str("namespace", ns).Str("file", file).Msg("namespace file missing")
		} else {
			s.log.Warn().Str("namespace", ns).Str("file", file).Err(err).Msg("namespace file unreadable")
		}
		return nil, err
	}
	doc, err := resource.ParseDocument(file, ns, data)
	if err != nil {
		s.log.Warn().Str("namespace", ns).Str("file", file).Err(err).Msg("namespace file skipped")
		return nil, err
	}
	return doc, nil
}

func (s *Session) write(doc *resource.Document, path resource.KeyPath, value string) error {
	if err := doc.Set(path, value); err != nil {
		return err
	}
	data, err := doc.Bytes()
	if err != nil {
		return err
	}
	return s.store.WriteFile(doc.Path, data)
}

func (s *Session) fail(index int, key, ns string, reason protocol.FailureReason, msg string) {
	s.failures = append(s.failures, protocol.Failure{
		Index:     index,
		Key:       key,
		Namespace: ns,
		Reason:    reason,
		Message:   msg,
	})
	s.metrics.RecordFailure(reason)
	s.log.Warn().Int("edit", index).Str("key", key).Str("reason", string(reason)).Msg(msg)
}

func (s *Session) result(total int) protocol.Response {
	resp := protocol.Response{
		Success:      len(s.failures) == 0,
		UpdatedFiles: make([]string, 0, s.updated.Len()),
		Errors:       make([]string, 0, len(s.failures)),
		Skipped:      s.skipped,
		Backups:      s.backups.Created(),
		Failures:     s.failures,
	}
	for pair := s.updated.Oldest(); pair != nil; pair = pair.Next() {
		resp.UpdatedFiles = append(resp.UpdatedFiles, pair.Key)
	}
	for _, f := range s.failures {
		resp.Errors = append(resp.Errors, f.Message)
	}

	if resp.Success {
		resp.Message = fmt.Sprintf("Applied %d of %d edits", s.applied, total)
		if len(s.skipped) > 0 {
			resp.Message += fmt.Sprintf(", skipped %d", len(s.skipped))
		}
	} else {
		resp.Message = fmt.Sprintf("%d of %d edits failed", len(s.failures), total)
	}
	return resp
}
