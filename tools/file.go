package tools

import (
	"fmt"
	"net/url"
	"os"

	"github.com/gin-gonic/gin"
)

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

func PanicOnErr(err error) {
	if err != nil {
		panic(err)
	}
}

func FileExist(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// SendAttachment writes data as a download named displayName.
func SendAttachment(c *gin.Context, data []byte, displayName, contentType string) {
	escaped := url.PathEscape(displayName)
	c.Header(
		"Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, escaped, escaped),
	)
	c.Data(200, contentType, data)
}
