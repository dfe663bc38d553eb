// Package session ties user actions, the transform controller and the scene
// composer together for one viewer run.
package session

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/objview/internal/viewer/action"
	"github.com/Faultbox/objview/internal/viewer/loader"
	"github.com/Faultbox/objview/internal/viewer/mesh"
	"github.com/Faultbox/objview/internal/viewer/scene"
	"github.com/Faultbox/objview/internal/viewer/transform"
)

// Loads issues asynchronous mesh loads.
type Loads interface {
	Submit(role loader.Role, path string) (loader.Request, error)
	Pick(role loader.Role, picker loader.Picker) (loader.Request, error)
}

// Watches registers mesh source files for change notification.
type Watches interface {
	Watch(role loader.Role, path string) error
}

// Options configures a Session.
type Options struct {
	SecondPath string         // Loaded on spawn; empty asks Picker
	Picker     loader.Picker  // Used when SecondPath is empty
	Composer   scene.Composer // Placement of the secondary mesh
	Watcher    Watches        // Optional
	Logger     *zap.Logger
}

// Session owns all state of one viewer run. It is driven from the render
// thread only.
type Session struct {
	ctrl     *transform.Controller
	loads    Loads
	opts     Options
	log      *zap.Logger
	composer scene.Composer

	primary   *mesh.Mesh
	secondary *mesh.Mesh
	combined  *mesh.Mesh
	dirty     bool

	pending    map[uuid.UUID]loader.Role
	spawnID    uuid.UUID
	showBounds bool
}

// New creates a session around an already loaded primary mesh.
func New(ctrl *transform.Controller, primary *mesh.Mesh, loads Loads, opts Options) (*Session, error) {
	if primary.Empty() {
		return nil, fmt.Errorf("primary: %w", scene.ErrEmptyMesh)
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	s := &Session{
		ctrl:     ctrl,
		loads:    loads,
		opts:     opts,
		log:      opts.Logger,
		composer: opts.Composer,
		primary:  primary,
		combined: primary,
		dirty:    true,
		pending:  make(map[uuid.UUID]loader.Role),
	}
	s.watch(loader.RolePrimary, primary.Path)
	return s, nil
}

var modes = map[action.Action]transform.Mode{
	action.View:         transform.ModeView,
	action.ScaleUniform: transform.ModeScaleUniform,
	action.Scale:        transform.ModeScale,
	action.Rotate:       transform.ModeRotate,
	action.Translate:    transform.ModeTranslate,
}

// HandleAction applies a key action. It returns false when the session
// should end.
func (s *Session) HandleAction(a action.Action) bool {
	if m, ok := modes[a]; ok {
		s.ctrl.SetMode(m)
		return true
	}

	switch a {
	case action.Quit:
		s.log.Info("quit requested")
		return false
	case action.PartyMode:
		s.ctrl.TogglePartyMode()
	case action.SpawnSecond:
		if err := s.spawnSecond(); err != nil {
			s.log.Warn("cannot spawn second object", zap.Error(err))
		}
	case action.ToggleBounds:
		s.showBounds = !s.showBounds
		s.log.Info("bounds overlay", zap.Bool("enabled", s.showBounds))
	}
	return true
}

// HandleMotion forwards a vertical mouse delta to the controller.
func (s *Session) HandleMotion(deltaY int32) bool {
	return s.ctrl.ApplyMotion(deltaY)
}

// ErrAlreadySpawned is returned when a secondary mesh exists or is loading.
var ErrAlreadySpawned = errors.New("second object already spawned")

func (s *Session) spawnSecond() error {
	if s.secondary != nil || s.spawnID != uuid.Nil {
		return ErrAlreadySpawned
	}

	var (
		req loader.Request
		err error
	)
	if s.opts.SecondPath != "" {
		req, err = s.loads.Submit(loader.RoleSecondary, s.opts.SecondPath)
	} else if s.opts.Picker != nil {
		req, err = s.loads.Pick(loader.RoleSecondary, s.opts.Picker)
	} else {
		return errors.New("no second model configured")
	}
	if err != nil {
		return err
	}

	s.pending[req.ID] = loader.RoleSecondary
	s.spawnID = req.ID
	s.log.Info("spawning second object", zap.Stringer("id", req.ID), zap.String("path", req.Path))
	return nil
}

// Reload requests a fresh load of a changed mesh source.
func (s *Session) Reload(c loader.Change) error {
	if c.Role == loader.RoleSecondary && s.secondary == nil {
		return nil
	}
	req, err := s.loads.Submit(c.Role, c.Path)
	if err != nil {
		return fmt.Errorf("reloading %s: %w", c.Path, err)
	}
	s.pending[req.ID] = c.Role
	return nil
}

// Accept applies a finished load. Results of requests this session did not
// issue are ignored.
func (s *Session) Accept(r loader.Result) error {
	role, ok := s.pending[r.ID]
	if !ok {
		s.log.Debug("dropping unknown load result", zap.Stringer("id", r.ID))
		return nil
	}
	delete(s.pending, r.ID)
	if r.ID == s.spawnID {
		s.spawnID = uuid.Nil
	}

	if r.Err != nil {
		if errors.Is(r.Err, loader.ErrCancelled) {
			s.log.Info("second object selection cancelled")
			return nil
		}
		return r.Err
	}

	primary, secondary := s.primary, s.secondary
	if role == loader.RoleSecondary {
		secondary = r.Mesh
	} else {
		primary = r.Mesh
	}
	if err := s.rebuild(primary, secondary); err != nil {
		return err
	}

	s.watch(role, r.Path)
	return nil
}

func (s *Session) rebuild(primary, secondary *mesh.Mesh) error {
	combined := primary
	if secondary != nil {
		var (
			shift float32
			err   error
		)
		combined, shift, err = s.composer.Combine(primary, secondary)
		if err != nil {
			return fmt.Errorf("combining meshes: %w", err)
		}
		s.log.Info("scene combined",
			zap.String("secondary", secondary.Path),
			zap.Float32("shift", shift),
			zap.Int("vertices", combined.VertexCount()),
		)
	}

	s.primary, s.secondary, s.combined = primary, secondary, combined
	s.dirty = true
	return nil
}

func (s *Session) watch(role loader.Role, path string) {
	if s.opts.Watcher == nil || path == "" {
		return
	}
	if err := s.opts.Watcher.Watch(role, path); err != nil {
		s.log.Warn("cannot watch mesh source", zap.String("path", path), zap.Error(err))
	}
}

// Geometry returns the combined mesh once after each change.
func (s *Session) Geometry() (*mesh.Mesh, bool) {
	if !s.dirty {
		return nil, false
	}
	s.dirty = false
	return s.combined, true
}

// Combined returns the current drawable mesh.
func (s *Session) Combined() *mesh.Mesh { return s.combined }

// Secondary returns the secondary mesh, or nil.
func (s *Session) Secondary() *mesh.Mesh { return s.secondary }

// Spawning reports whether a secondary load is in flight.
func (s *Session) Spawning() bool { return s.spawnID != uuid.Nil }

// ShowBounds reports whether the bounds overlay is on.
func (s *Session) ShowBounds() bool { return s.showBounds }

// Controller returns the transform controller.
func (s *Session) Controller() *transform.Controller { return s.ctrl }
