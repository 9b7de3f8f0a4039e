// Package database - Handles persistence of the operator overlay (statuses, notes and note history)
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/ortelius/orgmap-backend/internal/config"
	"github.com/ortelius/orgmap-backend/model"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// OverlayStore loads and saves the overlay document
type OverlayStore interface {
	Load(ctx context.Context) (model.OverlayState, error)
	Save(ctx context.Context, state model.OverlayState) error
	Close() error
}

// ErrIncompatibleSchema marks an overlay document written by another major schema version
var ErrIncompatibleSchema = errors.New("incompatible overlay schema version")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// InitLogger sets up the Zap Logger to log to the console in a human readable format
func InitLogger() *zap.Logger {
	prodConfig := zap.NewProductionConfig()
	prodConfig.Encoding = "console"
	prodConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	prodConfig.EncoderConfig.EncodeDuration = zapcore.StringDurationEncoder
	logger, _ := prodConfig.Build()
	return logger
}

// OpenOverlayStore builds the configured overlay backend.
// Remote backends are wrapped so that failures fall back to the local state file.
func OpenOverlayStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (OverlayStore, error) {
	local := NewFileStore(cfg.Overlay.StateFile)

	var remote OverlayStore
	var err error
	switch cfg.Overlay.Backend {
	case config.BackendFile:
		return local, nil
	case config.BackendPostgres:
		remote, err = NewPostgresStore(ctx, cfg.Overlay.PostgresDSN, cfg.Overlay.Table, logger)
	case config.BackendSQLite:
		remote, err = NewSQLiteStore(ctx, cfg.Overlay.SQLitePath, cfg.Overlay.Table, logger)
	case config.BackendArango:
		remote, err = NewArangoStore(ctx, cfg.Arango, cfg.Overlay.Table, logger)
	default:
		return nil, fmt.Errorf("unknown overlay backend %q", cfg.Overlay.Backend)
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Overlay store ready", zap.String("backend", cfg.Overlay.Backend), zap.String("fallback", cfg.Overlay.StateFile))
	return &FallbackStore{Primary: remote, Fallback: local, Logger: logger}, nil
}

// FallbackStore tries the primary store first and uses the fallback when it fails
type FallbackStore struct {
	Primary  OverlayStore
	Fallback OverlayStore
	Logger   *zap.Logger
}

// Load reads from the primary store, falling back on error
func (s *FallbackStore) Load(ctx context.Context) (model.OverlayState, error) {
	state, err := s.Primary.Load(ctx)
	if err == nil {
		return state, nil
	}
	s.Logger.Warn("Primary overlay load failed, using fallback", zap.Error(err))
	return s.Fallback.Load(ctx)
}

// Save writes to the primary store, falling back on error
func (s *FallbackStore) Save(ctx context.Context, state model.OverlayState) error {
	err := s.Primary.Save(ctx, state)
	if err == nil {
		return nil
	}
	s.Logger.Warn("Primary overlay save failed, using fallback", zap.Error(err))
	return s.Fallback.Save(ctx, state)
}

// Close closes both stores
func (s *FallbackStore) Close() error {
	perr := s.Primary.Close()
	ferr := s.Fallback.Close()
	if perr != nil {
		return perr
	}
	return ferr
}

// CheckSchemaVersion accepts documents written by any 1.x release.
// An empty version marks a legacy document and is accepted.
func CheckSchemaVersion(version string) error {
	if version == "" {
		return nil
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("%w: invalid version %q: %v", ErrIncompatibleSchema, version, err)
	}
	current := semver.MustParse(model.OverlaySchemaVersion)
	constraint, err := semver.NewConstraint(fmt.Sprintf("^%d.0.0", current.Major()))
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return fmt.Errorf("%w: %s is not compatible with %s", ErrIncompatibleSchema, v, current)
	}
	return nil
}

// DecodeState parses an overlay document.
// Legacy documents are a flat object of overlays keyed by organization id.
// Every error returns an empty overlay, never a partially decoded one.
func DecodeState(data []byte) (model.OverlayState, error) {
	if len(data) == 0 {
		return model.NewOverlayState(), nil
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return model.NewOverlayState(), fmt.Errorf("failed to decode overlay document: %w", err)
	}

	state := model.NewOverlayState()
	_, hasVersion := fields["schema_version"]
	_, hasOrgs := fields["organizations"]
	if !hasVersion && !hasOrgs {
		legacy := map[string]model.Overlay{}
		if err := json.Unmarshal(data, &legacy); err != nil {
			return model.NewOverlayState(), fmt.Errorf("failed to decode legacy overlay document: %w", err)
		}
		state.Organizations = legacy
		return state, nil
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return model.NewOverlayState(), fmt.Errorf("failed to decode overlay document: %w", err)
	}
	if err := CheckSchemaVersion(state.SchemaVersion); err != nil {
		return model.NewOverlayState(), err
	}
	if state.SchemaVersion == "" {
		state.SchemaVersion = model.OverlaySchemaVersion
	}
	if state.Organizations == nil {
		state.Organizations = map[string]model.Overlay{}
	}
	return state, nil
}

// guardOverwrite refuses to replace a stored document written by an incompatible schema version
func guardOverwrite(existing []byte) error {
	if _, err := DecodeState(existing); errors.Is(err, ErrIncompatibleSchema) {
		return fmt.Errorf("refusing to overwrite overlay: %w", err)
	}
	return nil
}

// EncodeState serializes an overlay document at the current schema version
func EncodeState(state model.OverlayState) ([]byte, error) {
	state.SchemaVersion = model.OverlaySchemaVersion
	if state.Organizations == nil {
		state.Organizations = map[string]model.Overlay{}
	}
	return json.MarshalIndent(state, "", "  ")
}

func validateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("invalid table or collection name %q", name)
	}
	return nil
}
