package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	catalog "io.winapps.myspot/internal/models/catalog"
)

// Reconciler applies optimistic local mutations against the
// authoritative remote record. All writes are read-modify-write with
// last-writer-wins semantics on the counters: two clients liking the
// same record concurrently can lose an increment. That weakness is
// accepted, not fixed, because the rest of the app is built around it.
//
// The view cache is only ever updated after the remote call resolves
// successfully, so a failed mutation leaves the feed exactly as it was.
type Reconciler struct {
	backend Backend
	cache   *ViewCache
}

func NewReconciler(backend Backend, cache *ViewCache) *Reconciler {
	return &Reconciler{backend: backend, cache: cache}
}

// Draft is the input to Publish: the user content of a new spot plus
// its image payloads (1 to 3).
type Draft struct {
	Name        string
	FoundedBy   string
	Description string
	DateFounded string
	Location    catalog.GeoPoint
	SpotType    string
	PlaceName   string
	OwnerUID    string
	CreatedAt   time.Time
	Images      []ImagePayload
}

// Edit is the input to Update. Images are only replaced when
// ImagesChanged is set, so an edit that never touched the photos cannot
// clobber them.
type Edit struct {
	Name          string
	Description   string
	SpotType      string
	Images        []ImagePayload
	ImagesChanged bool
}

// ImagePayload is one out-of-band binary attachment.
type ImagePayload struct {
	Filename string
	Data     []byte
}

// Like applies a like (like=true) or unlike to the record the caller
// holds. The new count is computed from that record's cached count, not
// a fresh read. Unlike at zero is rejected locally, returning false
// without any remote write, so stale state can never push the counter
// negative.
func (r *Reconciler) Like(ctx context.Context, rec *catalog.Record, like bool) (bool, error) {
	if !like && rec.Likes <= 0 {
		return false, nil
	}
	updated := *rec
	if like {
		updated.Likes = rec.Likes + 1
	} else {
		updated.Likes = rec.Likes - 1
	}
	if err := r.backend.Save(ctx, &updated); err != nil {
		return false, err
	}
	r.cache.Apply(rec.ID, func(c *catalog.Record) {
		c.Likes = updated.Likes
	})
	return true, nil
}

// Report increments one named moderation counter on the current remote
// record. Unknown counter names return false without a write, guarding
// against schema drift between client and catalog.
func (r *Reconciler) Report(ctx context.Context, id string, reason string) (bool, error) {
	current, err := r.backend.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if !current.BumpReport(reason) {
		return false, nil
	}
	if err := r.backend.Save(ctx, current); err != nil {
		return false, err
	}
	r.cache.Apply(id, func(c *catalog.Record) {
		c.BumpReport(reason)
	})
	return true, nil
}

// Publish creates a new catalog record with a client-generated
// identifier and zeroed counters, uploading image payloads first so the
// saved record can reference them. On any failure the partial work is
// abandoned: nothing is retried and no record is left behind.
func (r *Reconciler) Publish(ctx context.Context, draft Draft) (string, error) {
	id := uuid.New().String()

	refs := make([]string, 0, len(draft.Images))
	for _, img := range draft.Images {
		ref, err := r.backend.UploadAttachment(ctx, img.Filename, img.Data)
		if err != nil {
			return "", fmt.Errorf("upload %q: %v: %w", img.Filename, err, ErrPublishFailed)
		}
		refs = append(refs, ref)
	}

	createdAt := draft.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	rec := &catalog.Record{
		ID:                id,
		Name:              draft.Name,
		FoundedBy:         draft.FoundedBy,
		Description:       draft.Description,
		DateFounded:       draft.DateFounded,
		Location:          draft.Location,
		SpotType:          draft.SpotType,
		PlaceName:         draft.PlaceName,
		OwnerUID:          draft.OwnerUID,
		ImageRefs:         refs,
		HasMultipleImages: len(refs) > 1,
		CreatedAt:         createdAt,
	}
	if err := r.backend.Save(ctx, rec); err != nil {
		return "", fmt.Errorf("save record: %v: %w", err, ErrPublishFailed)
	}
	return id, nil
}

// Update overlays the edited fields onto the current remote record and
// saves it back. Fetching first keeps fields the edit form never showed
// (images, counters) intact. A target already deleted remotely surfaces
// ErrRecordNotFound.
func (r *Reconciler) Update(ctx context.Context, id string, edit Edit) error {
	current, err := r.backend.Get(ctx, id)
	if err != nil {
		return err
	}
	current.Name = edit.Name
	current.Description = edit.Description
	current.SpotType = edit.SpotType
	if edit.ImagesChanged {
		refs := make([]string, 0, len(edit.Images))
		for _, img := range edit.Images {
			ref, err := r.backend.UploadAttachment(ctx, img.Filename, img.Data)
			if err != nil {
				return err
			}
			refs = append(refs, ref)
		}
		current.ImageRefs = refs
		current.HasMultipleImages = len(refs) > 1
	}
	if err := r.backend.Save(ctx, current); err != nil {
		return err
	}
	r.cache.Apply(id, func(c *catalog.Record) {
		c.Name = current.Name
		c.Description = current.Description
		c.SpotType = current.SpotType
		c.ImageRefs = current.ImageRefs
		c.HasMultipleImages = current.HasMultipleImages
	})
	return nil
}

// Delete removes the record from the catalog unconditionally. Removing
// it from the view cache is the caller's responsibility, matching the
// UI flow where the confirmation sheet owns the cache row.
func (r *Reconciler) Delete(ctx context.Context, id string) error {
	return r.backend.Delete(ctx, id)
}
