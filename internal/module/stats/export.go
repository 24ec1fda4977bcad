package stats

import (
	"context"
	"time"

	"homeforge/internal/global/jwt"
	"homeforge/internal/global/response"
	"homeforge/internal/module/project"
	"homeforge/tools"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

type metric struct {
	Metric string `excel:"Metric"`
	Value  any    `excel:"Value"`
}

// Workbook builds the export: the filtered project list, the totals and both breakdowns.
func Workbook(ctx context.Context, f project.Filters) (*excelize.File, error) {
	projects, err := project.List(ctx, f)
	if err != nil {
		return nil, err
	}
	s, err := Compute(ctx)
	if err != nil {
		return nil, err
	}

	book := excelize.NewFile()
	if err := tools.WriteSheet(book, "Projects", projects); err != nil {
		return nil, err
	}
	totals := []metric{
		{"Total Projects", s.TotalProjects},
		{"Active Projects", s.ActiveProjects},
		{"Completed Projects", s.CompletedProjects},
		{"Total Budget", s.TotalBudget},
		{"Total Spent", s.TotalSpent},
	}
	if err := tools.WriteSheet(book, "Summary", totals); err != nil {
		return nil, err
	}
	if err := tools.WriteSheet(book, "By Space", s.BySpace); err != nil {
		return nil, err
	}
	if err := tools.WriteSheet(book, "By Priority", s.ByPriority); err != nil {
		return nil, err
	}

	idx, err := book.GetSheetIndex("Projects")
	if err != nil {
		return nil, err
	}
	book.SetActiveSheet(idx)
	if err := book.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}
	return book, nil
}

// Export handles GET /stats/export. It accepts the same filters as the project list.
func Export(c *gin.Context) {
	var f project.Filters
	if err := c.ShouldBindQuery(&f); err != nil {
		response.Fail(c, response.BindError(err, nil))
		return
	}
	book, err := Workbook(c.Request.Context(), f)
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer book.Close()

	buf, err := book.WriteToBuffer()
	if err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	caller, _ := jwt.GetUserPayload(c)
	log.Info("projects exported", "user", caller.Username, "bytes", buf.Len())
	name := "homeforge-projects-" + time.Now().Format("2006-01-02") + ".xlsx"
	tools.SendAttachment(c, buf.Bytes(), name, tools.ExcelContentType)
}
