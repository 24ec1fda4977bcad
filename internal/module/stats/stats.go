package stats

import (
	"context"

	"homeforge/internal/global/database"
	"homeforge/internal/global/response"
	"homeforge/internal/model"

	"github.com/gin-gonic/gin"
)

type SpaceCount struct {
	Name      string `json:"name" excel:"Space"`
	Icon      string `json:"icon" excel:"-"`
	Count     int64  `json:"count" excel:"Projects"`
	Completed int64  `json:"completed" excel:"Completed"`
}

type PriorityCount struct {
	Priority model.Priority `json:"priority" excel:"Priority"`
	Count    int64          `json:"count" excel:"Active Projects"`
}

type Totals struct {
	TotalProjects     int64   `json:"totalProjects"`
	ActiveProjects    int64   `json:"activeProjects"`
	CompletedProjects int64   `json:"completedProjects"`
	TotalBudget       float64 `json:"totalBudget"`
	TotalSpent        float64 `json:"totalSpent"`
}

type Summary struct {
	Totals
	BySpace    []SpaceCount    `json:"bySpace"`
	ByPriority []PriorityCount `json:"byPriority"`
}

// Compute aggregates over every project. Only spaces holding a project appear in BySpace,
// and ByPriority counts projects that are not complete.
func Compute(ctx context.Context) (*Summary, error) {
	db := database.DB.WithContext(ctx)
	s := &Summary{BySpace: []SpaceCount{}, ByPriority: []PriorityCount{}}

	err := db.Model(&model.Project{}).
		Select(`COUNT(*) AS total_projects,
			COALESCE(SUM(CASE WHEN status <> ? THEN 1 ELSE 0 END), 0) AS active_projects,
			COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed_projects,
			COALESCE(SUM(estimated_budget), 0) AS total_budget,
			COALESCE(SUM(spent_budget), 0) AS total_spent`, model.StatusComplete, model.StatusComplete).
		Scan(&s.Totals).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	err = db.Table("spaces AS s").
		Select("s.name, s.icon, COUNT(p.id) AS count, SUM(CASE WHEN p.status = ? THEN 1 ELSE 0 END) AS completed", model.StatusComplete).
		Joins("LEFT JOIN projects p ON p.space_id = s.id").
		Group("s.id, s.name, s.icon").
		Having("COUNT(p.id) > 0").
		Order("count DESC, s.name").
		Scan(&s.BySpace).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}

	err = db.Model(&model.Project{}).
		Select("priority, COUNT(*) AS count").
		Where("status <> ?", model.StatusComplete).
		Group("priority").
		Order("count DESC, priority").
		Scan(&s.ByPriority).Error
	if err != nil {
		return nil, response.ErrDatabase.WithOrigin(err)
	}
	return s, nil
}

func GetSummary(c *gin.Context) {
	s, err := Compute(c.Request.Context())
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, s)
}
