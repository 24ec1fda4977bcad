package project

import (
	"context"

	"homeforge/internal/global/database"
	"homeforge/internal/global/pictureBed"
	"homeforge/internal/model"

	"github.com/pkg/errors"
)

// PruneOrphans finds stored files that no project photo or board item refers to, which is
// what an upload interrupted between writing the file and inserting its row leaves behind.
// Unless dryRun is set the files are removed. It returns the orphaned keys.
func PruneOrphans(ctx context.Context, dryRun bool) ([]string, error) {
	stored, err := pictureBed.Default.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list uploads")
	}

	db := database.DB.WithContext(ctx)
	var photoKeys, boardKeys []string
	if err := db.Model(&model.ProjectPhoto{}).Pluck("file_path", &photoKeys).Error; err != nil {
		return nil, errors.Wrap(err, "load photo keys")
	}
	if err := db.Model(&model.DesignBoardItem{}).Where("file_path <> ''").Pluck("file_path", &boardKeys).Error; err != nil {
		return nil, errors.Wrap(err, "load board keys")
	}
	referenced := make(map[string]struct{}, len(photoKeys)+len(boardKeys))
	for _, k := range append(photoKeys, boardKeys...) {
		referenced[k] = struct{}{}
	}

	orphans := make([]string, 0)
	for _, key := range stored {
		if _, ok := referenced[key]; ok {
			continue
		}
		orphans = append(orphans, key)
		if dryRun {
			continue
		}
		if err := pictureBed.Default.Remove(ctx, key); err != nil {
			return orphans, errors.Wrapf(err, "remove %s", key)
		}
	}
	return orphans, nil
}
