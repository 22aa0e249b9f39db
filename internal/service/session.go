package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/domain"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/registry"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository"
)

// metadataRefreshWindow bounds write amplification on the metadata record:
// a save refreshes UpdatedAt only when the prior refresh is at least this
// old. Edits inside the window still overwrite the blob.
const metadataRefreshWindow = 60 * time.Second

// Broadcaster delivers a message to every connection in a room. Implemented
// by the hub.
type Broadcaster interface {
	BroadcastToRoom(roomID string, message []byte)
}

// SaveStatus classifies the outcome of a save attempt.
type SaveStatus int

const (
	// SaveStatusSaved means the blob was written and the room notified.
	SaveStatusSaved SaveStatus = iota
	// SaveStatusRejected means the actor does not own the template.
	// Nothing was written, nothing broadcast.
	SaveStatusRejected
	// SaveStatusRoomGone means the connection left before the event was
	// processed. Expected after a disconnect, not an error.
	SaveStatusRoomGone
	// SaveStatusFailed means a collaborator call failed. The attempt is
	// abandoned for this event only; no retry.
	SaveStatusFailed
)

// SaveOutcome is the typed result of HandleSave. The caller logs failures
// and never surfaces them to the connection.
type SaveOutcome struct {
	Status   SaveStatus
	Template *domain.Template
	Err      error
}

// SaveRequest carries one saveTemplate event's payload.
type SaveRequest struct {
	TemplateID string              `json:"templateId"`
	Pages      []json.RawMessage   `json:"pages"`
	CSSFiles   json.RawMessage     `json:"cssFiles"`
	Palette    json.RawMessage     `json:"palette"`
	Framework  domain.Framework    `json:"framework"`
	Meta       domain.TemplateMeta `json:"templateMeta"`
}

// SessionService coordinates collaborative template sessions: it binds
// connections to rooms, authorizes saves against template ownership,
// debounces metadata writes and broadcasts confirmations.
type SessionService struct {
	registry     *registry.Registry
	templateRepo repository.TemplateRepository
	blobStore    repository.BlobStore
	broadcaster  Broadcaster
}

// NewSessionService creates a SessionService instance.
func NewSessionService(reg *registry.Registry, templateRepo repository.TemplateRepository, blobStore repository.BlobStore, broadcaster Broadcaster) *SessionService {
	if reg == nil || templateRepo == nil || blobStore == nil || broadcaster == nil {
		panic("all dependencies must be non-nil for SessionService")
	}
	return &SessionService{
		registry:     reg,
		templateRepo: templateRepo,
		blobStore:    blobStore,
		broadcaster:  broadcaster,
	}
}

// HandleJoin registers a connection under a room. Re-joining moves the
// connection to the new room. Never fails.
func (s *SessionService) HandleJoin(connID string, userID uint, roomID string) registry.Room {
	room := s.registry.Join(roomID, connID, userID)
	logrus.WithFields(logrus.Fields{
		"room_id": roomID,
		"conn_id": connID,
		"user_id": userID,
	}).Info("Connection joined room")
	return room
}

// HandleLeave drops the connection's registry entry. Tolerates a missing
// entry; an in-flight save for the connection may still complete.
func (s *SessionService) HandleLeave(connID string) {
	s.registry.Leave(connID)
}

// HandleSave processes one saveTemplate event:
//
//  1. Resolve the room; a missing entry means the connection dropped first.
//  2. Load (or lazily create) the metadata record. A first save for an
//     unknown templateId creates metadata owned by the saving user —
//     create-or-attach, not an error. UserID 0 creates an unowned record.
//  3. Reject saves from non-owners without writing or broadcasting.
//  4. Persist metadata only when page count, title or tag set changed;
//     refresh UpdatedAt at most once per metadataRefreshWindow.
//  5. Always overwrite the blob with the compiled document (last-write-wins,
//     no version token).
//  6. Broadcast templateSaved with the metadata snapshot to the whole room.
func (s *SessionService) HandleSave(ctx context.Context, connID string, userID uint, req SaveRequest) SaveOutcome {
	logCtx := logrus.WithFields(logrus.Fields{
		"conn_id":     connID,
		"user_id":     userID,
		"template_id": req.TemplateID,
	})

	room, ok := s.registry.Find(connID)
	if !ok {
		logCtx.Debug("Save event for unregistered connection, dropping")
		return SaveOutcome{Status: SaveStatusRoomGone}
	}
	logCtx = logCtx.WithField("room_id", room.RoomID)

	tpl, err := s.templateRepo.FindByTemplateID(ctx, req.TemplateID)
	if err != nil && !errors.Is(err, repository.ErrTemplateNotFound) {
		logCtx.WithError(err).Error("Failed to load template metadata")
		return SaveOutcome{Status: SaveStatusFailed, Err: err}
	}

	now := time.Now().UTC()
	tags := domain.NormalizeTags(req.Meta.Tags)

	if tpl == nil {
		// Unbound -> Bound: first save for this templateId.
		tpl = &domain.Template{
			TemplateID:  req.TemplateID,
			OwnerID:     userID,
			FrameworkID: req.Framework.ID,
			Title:       req.Meta.Title,
			Tags:        tags,
			PageCount:   len(req.Pages),
			UpdatedAt:   now,
		}
		if err := s.templateRepo.Create(ctx, tpl); err != nil {
			logCtx.WithError(err).Error("Failed to create template metadata")
			return SaveOutcome{Status: SaveStatusFailed, Err: err}
		}
		logCtx.Info("Template metadata created on first save")
	} else {
		if tpl.OwnerID != 0 && tpl.OwnerID != userID {
			logCtx.WithField("owner_id", tpl.OwnerID).Warn("Save rejected: actor does not own template")
			return SaveOutcome{Status: SaveStatusRejected, Template: tpl}
		}

		changed := tpl.PageCount != len(req.Pages) ||
			tpl.Title != req.Meta.Title ||
			tpl.Tags != tags
		refresh := tpl.UpdatedAt.IsZero() || now.Sub(tpl.UpdatedAt) >= metadataRefreshWindow
		if changed || refresh {
			tpl.PageCount = len(req.Pages)
			tpl.Title = req.Meta.Title
			tpl.Tags = tags
			tpl.FrameworkID = req.Framework.ID
			if refresh {
				tpl.UpdatedAt = now
			}
			if err := s.templateRepo.Save(ctx, tpl); err != nil {
				logCtx.WithError(err).Error("Failed to update template metadata")
				return SaveOutcome{Status: SaveStatusFailed, Err: err}
			}
		}
	}

	doc := domain.CompileDocument(req.TemplateID, req.Pages, req.CSSFiles, req.Palette, req.Framework, req.Meta)
	if err := s.blobStore.PutTemplate(ctx, req.TemplateID, doc); err != nil {
		logCtx.WithError(err).Error("Failed to write template blob")
		return SaveOutcome{Status: SaveStatusFailed, Err: err}
	}

	s.broadcastSaved(room.RoomID, tpl, logCtx)
	return SaveOutcome{Status: SaveStatusSaved, Template: tpl}
}

func (s *SessionService) broadcastSaved(roomID string, tpl *domain.Template, logCtx *logrus.Entry) {
	payload := map[string]interface{}{
		"type":     "templateSaved",
		"template": tpl,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		logCtx.WithError(err).Error("Failed to marshal templateSaved payload")
		return
	}
	s.broadcaster.BroadcastToRoom(roomID, data)
	logCtx.Debug("templateSaved broadcast to room")
}
