package export

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/usdexport/internal/logger"
	"github.com/Faultbox/usdexport/pkg/mesh"
	"github.com/Faultbox/usdexport/pkg/stage"
)

// TimeCodeFunc yields the timecode for the current export call.
type TimeCodeFunc func() stage.TimeCode

// Session holds the state shared by every mesh written during one export
// run: the material registry and the frame-written flag that gates material
// binding.
//
// Materials and subsets are bound only while the first frame of a session
// is being written; later time samples reuse those bindings. This assumes
// material and face-group assignment do not change across samples within
// one session. Behavior under changing topology is undefined.
type Session struct {
	registry     stage.MaterialRegistry
	timeCode     TimeCodeFunc
	frameWritten bool
}

// NewSession creates a session. A nil timeCode func commits everything at
// the default sample.
func NewSession(registry stage.MaterialRegistry, timeCode TimeCodeFunc) *Session {
	if timeCode == nil {
		timeCode = func() stage.TimeCode { return stage.Default() }
	}
	return &Session{registry: registry, timeCode: timeCode}
}

// MarkFrameWritten records that a full frame has been committed. The
// surrounding layer calls this after finishing each frame; material binding
// only happens while the flag is unset.
func (s *Session) MarkFrameWritten() {
	s.frameWritten = true
}

// FrameWritten reports whether a frame has been committed in this session.
func (s *Session) FrameWritten() bool {
	return s.frameWritten
}

// Writer exports mesh objects into a target scene graph within one session.
type Writer struct {
	session *Session
}

// NewWriter creates a writer bound to the given session.
func NewWriter(session *Session) *Writer {
	return &Writer{session: session}
}

// WriteMesh exports one object's mesh snapshot onto prim at the session's
// current timecode. A nil snapshot is logged and skipped without error so a
// batch export can continue. Owned snapshots are released on every exit
// path, including panics during extraction or commit.
func (w *Writer) WriteMesh(src MeshSource, prim stage.GeomMesh) error {
	m := src.ExportMesh()
	if m == nil {
		logger.Warn("skipping object without export mesh",
			zap.String("prim", prim.Path()))
		return nil
	}

	if owned, ok := src.(OwnedMeshSource); ok {
		defer owned.FreeExportMesh(m)
	}

	return w.writeMesh(m, prim)
}

func (w *Writer) writeMesh(m *mesh.Mesh, prim stage.GeomMesh) error {
	tc := w.session.timeCode()
	rec := extractGeometry(m)

	if err := prim.SetPoints(rec.points, tc); err != nil {
		return fmt.Errorf("committing points for %s: %w", prim.Path(), err)
	}
	if err := prim.SetFaceVertexCounts(rec.faceVertexCounts, tc); err != nil {
		return fmt.Errorf("committing face vertex counts for %s: %w", prim.Path(), err)
	}
	if err := prim.SetFaceVertexIndices(rec.faceIndices, tc); err != nil {
		return fmt.Errorf("committing face vertex indices for %s: %w", prim.Path(), err)
	}

	// Absence of the crease attributes, not empty arrays, signals "no
	// creases".
	if len(rec.creaseLengths) > 0 {
		if err := prim.SetCreases(rec.creaseLengths, rec.creaseVertexIndices, rec.creaseSharpness, tc); err != nil {
			return fmt.Errorf("committing creases for %s: %w", prim.Path(), err)
		}
	}

	logger.Debug("exported mesh",
		zap.String("prim", prim.Path()),
		zap.String("timecode", tc.String()),
		zap.Int("points", len(rec.points)),
		zap.Int("polygons", len(rec.faceVertexCounts)),
		zap.Int("creases", len(rec.creaseLengths)))

	if w.session.FrameWritten() {
		return nil
	}

	return w.assignMaterials(m, prim, rec.faceGroups)
}
