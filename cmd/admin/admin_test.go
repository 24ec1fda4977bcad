package admin

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"homeforge/internal/global/logger"
	"homeforge/internal/global/session"
	"homeforge/internal/module/project"
	"homeforge/internal/module/user"
	"homeforge/test"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) *gorm.DB {
	t.Helper()
	db := test.Setup(t)
	log = logger.New("Admin")
	(&user.ModuleUser{}).Init()
	(&project.ModuleProject{}).Init()
	return db
}

func TestResetPassword(t *testing.T) {
	db := setup(t)
	u := test.CreateUser(t, db, "alice", true)
	ctx := context.Background()
	s, err := session.Default.Create(ctx, u.ID, session.MaxAge())
	require.NoError(t, err)

	require.Error(t, ResetPassword(ctx, "nobody", "new-pass"))
	require.Error(t, ResetPassword(ctx, "alice", "abc"))
	require.NoError(t, ResetPassword(ctx, "alice", "new-pass"))

	_, err = user.Authenticate(ctx, "alice", "new-pass")
	require.NoError(t, err)
	_, err = user.Authenticate(ctx, "alice", test.Password)
	require.Error(t, err)
	_, err = session.Default.Get(ctx, s.ID)
	require.ErrorIs(t, err, session.ErrNotFound)
}

func TestPruneUploads(t *testing.T) {
	setup(t)
	require.NoError(t, os.MkdirAll(test.UploadDir(), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(test.UploadDir(), "stray.png"), []byte("x"), 0o644))

	var out bytes.Buffer
	require.NoError(t, PruneUploads(context.Background(), true, &out))
	require.Equal(t, "stray.png\nfound 1 orphaned file(s)\n", out.String())
	require.FileExists(t, filepath.Join(test.UploadDir(), "stray.png"))

	out.Reset()
	require.NoError(t, PruneUploads(context.Background(), false, &out))
	require.Equal(t, "stray.png\nremoved 1 orphaned file(s)\n", out.String())
	require.NoFileExists(t, filepath.Join(test.UploadDir(), "stray.png"))
}
