package stats

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"homeforge/internal/model"
	"homeforge/test"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *test.Client) {
	db := test.Setup(t)
	(&ModuleStats{}).Init()
	user := test.CreateUser(t, db, "alice", true)
	client := test.NewClient(t, test.NewEngine(t, (&ModuleStats{}).InitRouter)).LoginAs(user)
	return db, client
}

func seed(t *testing.T, db *gorm.DB) {
	t.Helper()
	kitchen, garage := "sp_kitchen", "sp_garage"
	for _, p := range []model.Project{
		{Title: "Backsplash", SpaceID: &kitchen, Priority: model.PriorityHigh, Status: model.StatusInProgress, EstimatedBudget: 500, SpentBudget: 120},
		{Title: "Faucet", SpaceID: &kitchen, Priority: model.PriorityHigh, Status: model.StatusComplete, EstimatedBudget: 200, SpentBudget: 180},
		{Title: "Cabinets", SpaceID: &kitchen, Priority: model.PriorityLow, Status: model.StatusPlanning, EstimatedBudget: 3000},
		{Title: "Workbench", SpaceID: &garage, Priority: model.PriorityMedium, Status: model.StatusNotStarted, EstimatedBudget: 150.5},
		{Title: "Smoke alarms", Priority: model.PriorityUrgent, Status: model.StatusComplete, SpentBudget: 60},
	} {
		require.NoError(t, db.Create(&p).Error)
	}
}

func TestSummaryEmpty(t *testing.T) {
	_, client := setup(t)
	w := client.Do(http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"totalProjects":0,"activeProjects":0,"completedProjects":0,"totalBudget":0,"totalSpent":0,"bySpace":[],"byPriority":[]}`, w.Body.String())
}

func TestSummary(t *testing.T) {
	db, client := setup(t)
	seed(t, db)

	w := client.Do(http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	s := test.Decode[Summary](t, w)

	require.EqualValues(t, 5, s.TotalProjects)
	require.EqualValues(t, 3, s.ActiveProjects)
	require.EqualValues(t, 2, s.CompletedProjects)
	require.InDelta(t, 3850.5, s.TotalBudget, 0.001)
	require.InDelta(t, 360, s.TotalSpent, 0.001)

	require.Equal(t, []SpaceCount{
		{Name: "Kitchen", Icon: "cooking-pot", Count: 3, Completed: 1},
		{Name: "Garage", Icon: "warehouse", Count: 1, Completed: 0},
	}, s.BySpace)

	require.ElementsMatch(t, []PriorityCount{
		{Priority: model.PriorityHigh, Count: 1},
		{Priority: model.PriorityLow, Count: 1},
		{Priority: model.PriorityMedium, Count: 1},
	}, s.ByPriority)
}

func TestExport(t *testing.T) {
	db, client := setup(t)
	seed(t, db)

	w := client.Do(http.MethodGet, "/api/stats/export?space_id=sp_kitchen", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	require.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="homeforge-projects-`))

	book, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer book.Close()
	require.Equal(t, []string{"Projects", "Summary", "By Space", "By Priority"}, book.GetSheetList())

	rows, err := book.GetRows("Projects")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, []string{"ID", "Title", "Description", "Space", "Priority", "Status", "Assignee"}, rows[0][:7])
	titles := []string{rows[1][1], rows[2][1], rows[3][1]}
	require.ElementsMatch(t, []string{"Backsplash", "Faucet", "Cabinets"}, titles)
	require.Equal(t, "Kitchen", rows[1][3])

	summary, err := book.GetRows("Summary")
	require.NoError(t, err)
	require.Equal(t, []string{"Metric", "Value"}, summary[0])
	require.Equal(t, []string{"Total Projects", "5"}, summary[1])
}
