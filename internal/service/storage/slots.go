package storage

import (
	"context"
	"fmt"

	"locallink/internal/domain"
)

// BatchLimitError rejects an append upload with more files than the slot allows.
type BatchLimitError struct {
	Limit int
}

func (e *BatchLimitError) Error() string {
	return fmt.Sprintf("You can only upload a maximum of %d images at once", e.Limit)
}

// ReplaceSingle uploads file into a single-asset slot. The previous asset is
// destroyed before persist writes the new reference. If anything after the
// upload fails, the new object is removed again.
func ReplaceSingle(ctx context.Context, s Store, folder domain.AssetFolder, previous *domain.Asset, file Upload, persist func(*domain.Asset) error) (*domain.Asset, error) {
	asset, err := s.Upload(ctx, folder, file)
	if err != nil {
		return nil, err
	}

	if previous != nil && previous.PublicID != "" {
		if err := s.Destroy(ctx, previous.PublicID); err != nil {
			_ = s.Destroy(ctx, asset.PublicID)
			return nil, err
		}
	}

	if err := persist(asset); err != nil {
		_ = s.Destroy(ctx, asset.PublicID)
		return nil, err
	}
	return asset, nil
}

// AppendBatch uploads files and hands the new assets to persist, which appends
// them atomically and returns the stored list. The batch is rejected before
// any upload when it is empty or larger than limit.
func AppendBatch(ctx context.Context, s Store, folder domain.AssetFolder, files []Upload, limit int, persist func(added domain.Assets) (domain.Assets, error)) (domain.Assets, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if len(files) > limit {
		return nil, &BatchLimitError{Limit: limit}
	}

	uploaded := make(domain.Assets, 0, len(files))
	rollback := func() {
		for _, a := range uploaded {
			_ = s.Destroy(ctx, a.PublicID)
		}
	}

	for _, f := range files {
		asset, err := s.Upload(ctx, folder, f)
		if err != nil {
			rollback()
			return nil, err
		}
		uploaded = append(uploaded, *asset)
	}

	stored, err := persist(uploaded)
	if err != nil {
		rollback()
		return nil, err
	}
	return stored, nil
}

// RemoveFromList destroys publicID remotely once list shows it is present,
// then lets persist drop it atomically. persist returns nil when another
// request removed the asset first.
func RemoveFromList(ctx context.Context, s Store, list domain.Assets, publicID string, persist func(publicID string) (domain.Assets, error)) (domain.Assets, error) {
	if list.IndexOf(publicID) < 0 {
		return nil, ErrAssetNotFound
	}

	if err := s.Destroy(ctx, publicID); err != nil {
		return nil, err
	}

	stored, err := persist(publicID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, ErrAssetNotFound
	}
	return stored, nil
}
