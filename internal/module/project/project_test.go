package project

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"homeforge/internal/model"
	"homeforge/test"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *test.Client, model.User) {
	db := test.Setup(t)
	(&ModuleProject{}).Init()
	user := test.CreateUser(t, db, "alice", true)
	client := test.NewClient(t, test.NewEngine(t, (&ModuleProject{}).InitRouter)).LoginAs(user)
	return db, client, user
}

func create(t *testing.T, client *test.Client, body map[string]any) string {
	t.Helper()
	w := client.Do(http.MethodPost, "/api/projects", body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return test.Decode[map[string]string](t, w)["id"]
}

func get(t *testing.T, client *test.Client, id string) Detail {
	t.Helper()
	w := client.Do(http.MethodGet, "/api/projects/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return test.Decode[Detail](t, w)
}

func activityDetails(t *testing.T, db *gorm.DB, projectID string) []string {
	t.Helper()
	var details []string
	require.NoError(t, db.Model(&model.ActivityLog{}).Where("project_id = ?", projectID).
		Order("created_at").Pluck("details", &details).Error)
	return details
}

func TestCreateDefaults(t *testing.T) {
	db, client, user := setup(t)

	w := client.Do(http.MethodPost, "/api/projects", map[string]any{"title": "  "})
	test.RequireError(t, w, http.StatusBadRequest, "Title is required")
	w = client.Do(http.MethodPost, "/api/projects", map[string]any{"title": "x", "priority": "someday"})
	test.RequireError(t, w, http.StatusBadRequest, "Invalid priority")
	w = client.Do(http.MethodPost, "/api/projects", map[string]any{"title": "x", "status": "done"})
	test.RequireError(t, w, http.StatusBadRequest, "Invalid status")
	w = client.Do(http.MethodPost, "/api/projects", map[string]any{"title": "x", "estimatedBudget": -1})
	test.RequireError(t, w, http.StatusBadRequest, "Budget cannot be negative")
	w = client.Do(http.MethodPost, "/api/projects", map[string]any{"title": "x", "dueDate": "next week"})
	test.RequireError(t, w, http.StatusBadRequest, "Due date must be YYYY-MM-DD")
	w = client.Do(http.MethodPost, "/api/projects", map[string]any{"title": "x", "spaceId": "sp_moon"})
	test.RequireError(t, w, http.StatusBadRequest, "Unknown space")

	w = client.Do(http.MethodPost, "/api/projects", map[string]any{
		"title":   "Fix sink",
		"spaceId": "sp_kitchen",
		"tags":    []string{"plumbing", "urgent-ish"},
	})
	require.Equal(t, http.StatusCreated, w.Code)
	created := test.Decode[map[string]string](t, w)
	require.Equal(t, "Fix sink", created["title"])

	d := get(t, client, created["id"])
	require.Equal(t, model.PriorityMedium, d.Priority)
	require.Equal(t, model.StatusNotStarted, d.Status)
	require.Zero(t, d.EstimatedBudget)
	require.Equal(t, "Kitchen", *d.SpaceName)
	require.Equal(t, "cooking-pot", *d.SpaceIcon)
	require.Equal(t, user.DisplayName, *d.CreatorName)
	require.Equal(t, []string{"plumbing", "urgent-ish"}, d.Tags)
	require.Empty(t, d.Photos)
	require.Empty(t, d.Comments)

	require.Equal(t, []string{`Created project "Fix sink"`}, activityDetails(t, db, d.ID))
}

func TestListFiltersAndOrder(t *testing.T) {
	db, client, _ := setup(t)
	bob := test.CreateUser(t, db, "bob", false)

	first := create(t, client, map[string]any{"title": "Paint hall", "spaceId": "sp_hallway", "priority": "low"})
	second := create(t, client, map[string]any{"title": "Tile kitchen", "spaceId": "sp_kitchen", "priority": "high", "assignedTo": bob.ID})
	third := create(t, client, map[string]any{"title": "New oven", "spaceId": "sp_kitchen", "status": "complete"})

	w := client.Do(http.MethodPut, "/api/projects/"+first, map[string]any{"description": "two coats"})
	require.Equal(t, http.StatusOK, w.Code)

	all := test.Decode[[]Summary](t, client.Do(http.MethodGet, "/api/projects", nil))
	require.Len(t, all, 3)
	require.Equal(t, []string{first, third, second}, []string{all[0].ID, all[1].ID, all[2].ID})

	kitchen := test.Decode[[]Summary](t, client.Do(http.MethodGet, "/api/projects?space_id=sp_kitchen", nil))
	require.Len(t, kitchen, 2)

	active := test.Decode[[]Summary](t, client.Do(http.MethodGet, "/api/projects?space_id=sp_kitchen&status=not_started", nil))
	require.Len(t, active, 1)
	require.Equal(t, second, active[0].ID)

	mine := test.Decode[[]Summary](t, client.Do(http.MethodGet, "/api/projects?assigned_to="+bob.ID+"&priority=high", nil))
	require.Len(t, mine, 1)
	require.Equal(t, "bob display", *mine[0].AssigneeName)

	none := test.Decode[[]Summary](t, client.Do(http.MethodGet, "/api/projects?priority=urgent", nil))
	require.Empty(t, none)
}

func TestUpdatePartial(t *testing.T) {
	db, client, _ := setup(t)
	bob := test.CreateUser(t, db, "bob", false)
	id := create(t, client, map[string]any{
		"title":           "Deck",
		"spaceId":         "sp_outdoor",
		"assignedTo":      bob.ID,
		"dueDate":         "2026-05-01",
		"estimatedBudget": 1200.5,
		"tags":            []string{"wood"},
	})

	// empty title and absent fields keep their values
	w := client.Do(http.MethodPut, "/api/projects/"+id, map[string]any{"title": "", "spentBudget": 300})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"ok":true}`, w.Body.String())
	d := get(t, client, id)
	require.Equal(t, "Deck", d.Title)
	require.Equal(t, "sp_outdoor", *d.SpaceID)
	require.Equal(t, bob.ID, *d.AssignedTo)
	require.Equal(t, "2026-05-01", *d.DueDate)
	require.Equal(t, 1200.5, d.EstimatedBudget)
	require.Equal(t, 300.0, d.SpentBudget)
	require.Equal(t, []string{"wood"}, d.Tags)

	// null clears the tri-state fields, a present tags list replaces the set
	w = client.Do(http.MethodPut, "/api/projects/"+id, map[string]any{
		"spaceId":    nil,
		"assignedTo": nil,
		"dueDate":    nil,
		"tags":       []string{"stain", "rails"},
	})
	require.Equal(t, http.StatusOK, w.Code)
	d = get(t, client, id)
	require.Nil(t, d.SpaceID)
	require.Nil(t, d.AssignedTo)
	require.Nil(t, d.DueDate)
	require.ElementsMatch(t, []string{"stain", "rails"}, d.Tags)

	w = client.Do(http.MethodPut, "/api/projects/"+id, map[string]any{"status": "complete", "priority": "high", "assignedTo": bob.ID})
	require.Equal(t, http.StatusOK, w.Code)
	w = client.Do(http.MethodPut, "/api/projects/"+id, map[string]any{"status": "complete"})
	require.Equal(t, http.StatusOK, w.Code)

	require.Equal(t, []string{
		`Created project "Deck"`,
		`Changed assignment`,
		`Changed status to "complete", priority to "high", assignment`,
	}, activityDetails(t, db, id))

	w = client.Do(http.MethodPut, "/api/projects/"+id, map[string]any{"status": "finished"})
	test.RequireError(t, w, http.StatusBadRequest, "Invalid status")
	w = client.Do(http.MethodPut, "/api/projects/missing", map[string]any{"title": "x"})
	test.RequireError(t, w, http.StatusNotFound, "Project not found")
}

func TestUpdateBumpsUpdatedAt(t *testing.T) {
	_, client, _ := setup(t)
	id := create(t, client, map[string]any{"title": "Shelves"})
	before := get(t, client, id).UpdatedAt

	w := client.Do(http.MethodPost, "/api/projects/"+id+"/comments", CommentReq{Text: "measure twice"})
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, get(t, client, id).UpdatedAt.After(before))
}

func TestPhotos(t *testing.T) {
	_, client, user := setup(t)
	id := create(t, client, map[string]any{"title": "Bathroom refresh"})
	path := "/api/projects/" + id + "/photos"
	img := test.File{Name: "Tub.JPG", Content: []byte("jpeg bytes")}

	w := client.Upload(path, "photos", nil, nil)
	test.RequireError(t, w, http.StatusBadRequest, "No files uploaded")
	w = client.Upload(path, "photos", []test.File{{Name: "notes.txt", Content: []byte("x")}}, nil)
	test.RequireError(t, w, http.StatusBadRequest, "Only image files are allowed")
	w = client.Upload(path, "photos", []test.File{img}, map[string]string{"photoType": "selfie"})
	test.RequireError(t, w, http.StatusBadRequest, "Invalid photo type")
	many := make([]test.File, 11)
	for i := range many {
		many[i] = img
	}
	w = client.Upload(path, "photos", many, nil)
	test.RequireError(t, w, http.StatusBadRequest, "Too many files (max 10)")
	w = client.Upload("/api/projects/missing/photos", "photos", []test.File{img}, nil)
	test.RequireError(t, w, http.StatusNotFound, "Project not found")

	entries, err := os.ReadDir(test.UploadDir())
	if err == nil {
		require.Empty(t, entries)
	}

	w = client.Upload(path, "photos", []test.File{img, {Name: "sink.png", Content: []byte("png")}},
		map[string]string{"photoType": "before", "caption": "old tiles"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	uploaded := test.Decode[[]Photo](t, w)
	require.Len(t, uploaded, 2)
	for _, p := range uploaded {
		require.Equal(t, model.PhotoBefore, p.PhotoType)
		require.Equal(t, "old tiles", p.Caption)
		require.True(t, strings.HasPrefix(p.FilePath, "/uploads/"))
		require.NotContains(t, p.FilePath, "Tub")
		require.FileExists(t, filepath.Join(test.UploadDir(), filepath.Base(p.FilePath)))
	}
	require.True(t, strings.HasSuffix(uploaded[0].FilePath, ".jpg"))

	w = client.Upload(path, "photos", []test.File{{Name: "after.webp", Content: []byte("webp")}}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	latest := test.Decode[[]Photo](t, w)[0]
	require.Equal(t, model.PhotoGeneral, latest.PhotoType)

	d := get(t, client, id)
	require.Len(t, d.Photos, 3)
	require.Equal(t, latest.ID, d.Photos[0].ID)
	require.Equal(t, user.DisplayName, *d.Photos[0].UploaderName)
	require.EqualValues(t, 3, d.PhotoCount)

	w = client.Do(http.MethodDelete, path+"/missing", nil)
	test.RequireError(t, w, http.StatusNotFound, "Photo not found")
	other := create(t, client, map[string]any{"title": "Other"})
	w = client.Do(http.MethodDelete, "/api/projects/"+other+"/photos/"+latest.ID, nil)
	test.RequireError(t, w, http.StatusNotFound, "Photo not found")

	w = client.Do(http.MethodDelete, path+"/"+latest.ID, nil)
	require.JSONEq(t, `{"ok":true}`, w.Body.String())
	require.NoFileExists(t, filepath.Join(test.UploadDir(), filepath.Base(latest.FilePath)))
	require.Len(t, get(t, client, id).Photos, 2)
}

func TestComments(t *testing.T) {
	_, client, user := setup(t)
	id := create(t, client, map[string]any{"title": "Garage shelving"})

	w := client.Do(http.MethodPost, "/api/projects/"+id+"/comments", CommentReq{Text: " "})
	test.RequireError(t, w, http.StatusBadRequest, "Comment text is required")
	w = client.Do(http.MethodPost, "/api/projects/missing/comments", CommentReq{Text: "hello"})
	test.RequireError(t, w, http.StatusNotFound, "Project not found")

	w = client.Do(http.MethodPost, "/api/projects/"+id+"/comments", CommentReq{Text: "first"})
	require.Equal(t, http.StatusCreated, w.Code)
	c := test.Decode[Comment](t, w)
	require.Equal(t, "first", c.Text)
	require.Equal(t, user.ID, c.UserID)
	require.Equal(t, user.DisplayName, c.UserName)
	require.Equal(t, user.AvatarColor, c.AvatarColor)

	client.Do(http.MethodPost, "/api/projects/"+id+"/comments", CommentReq{Text: "second"})
	d := get(t, client, id)
	require.Len(t, d.Comments, 2)
	require.Equal(t, "first", d.Comments[0].Text)
	require.Equal(t, "second", d.Comments[1].Text)
}

func TestDeleteRemovesFilesAndRows(t *testing.T) {
	db, client, user := setup(t)
	id := create(t, client, map[string]any{"title": "Demo wall", "tags": []string{"demo"}})

	w := client.Upload("/api/projects/"+id+"/photos", "photos", []test.File{{Name: "wall.jpg", Content: []byte("x")}}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	photo := test.Decode[[]Photo](t, w)[0]

	boardKey := "board_test.png"
	require.NoError(t, os.WriteFile(filepath.Join(test.UploadDir(), boardKey), []byte("png"), 0o644))
	item := model.DesignBoardItem{ProjectID: id, ItemType: model.BoardPhoto, FilePath: boardKey, AddedBy: &user.ID}
	require.NoError(t, db.Create(&item).Error)
	require.NoError(t, db.Create(&model.DesignBoardComment{BoardItemID: item.ID, UserID: user.ID, CommentText: "nice"}).Error)
	client.Do(http.MethodPost, "/api/projects/"+id+"/comments", CommentReq{Text: "bye"})

	w = client.Do(http.MethodDelete, "/api/projects/"+id, nil)
	require.JSONEq(t, `{"ok":true}`, w.Body.String())

	require.NoFileExists(t, filepath.Join(test.UploadDir(), filepath.Base(photo.FilePath)))
	require.NoFileExists(t, filepath.Join(test.UploadDir(), boardKey))
	for _, m := range []any{&model.ProjectTag{}, &model.ProjectPhoto{}, &model.ProjectComment{},
		&model.DesignBoardItem{}, &model.DesignBoardComment{}, &model.ActivityLog{}} {
		var n int64
		require.NoError(t, db.Model(m).Count(&n).Error)
		require.Zero(t, n, "%T", m)
	}

	w = client.Do(http.MethodDelete, "/api/projects/"+id, nil)
	test.RequireError(t, w, http.StatusNotFound, "Project not found")
}

func TestPruneOrphans(t *testing.T) {
	_, client, _ := setup(t)
	id := create(t, client, map[string]any{"title": "Porch"})
	w := client.Upload("/api/projects/"+id+"/photos", "photos", []test.File{{Name: "porch.jpg", Content: []byte("x")}}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	kept := filepath.Base(test.Decode[[]Photo](t, w)[0].FilePath)

	// a file written by an upload that never got its row
	orphan := "0b1f4d0e-orphan.jpg"
	require.NoError(t, os.WriteFile(filepath.Join(test.UploadDir(), orphan), []byte("x"), 0o644))
	for _, p := range get(t, client, id).Photos {
		require.NotContains(t, p.FilePath, orphan)
	}

	found, err := PruneOrphans(t.Context(), true)
	require.NoError(t, err)
	require.Equal(t, []string{orphan}, found)
	require.FileExists(t, filepath.Join(test.UploadDir(), orphan))

	found, err = PruneOrphans(t.Context(), false)
	require.NoError(t, err)
	require.Equal(t, []string{orphan}, found)
	require.NoFileExists(t, filepath.Join(test.UploadDir(), orphan))
	require.FileExists(t, filepath.Join(test.UploadDir(), kept))
}

func TestRequiresAuth(t *testing.T) {
	test.Setup(t)
	(&ModuleProject{}).Init()
	client := test.NewClient(t, test.NewEngine(t, (&ModuleProject{}).InitRouter))
	w := client.Do(http.MethodGet, "/api/projects", nil)
	test.RequireError(t, w, http.StatusUnauthorized, "Authentication required")
}
