package adminController

import (
	"net/http"
	"strconv"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// parseTimeField accepts RFC3339 or YYYY-MM-DD. Empty input yields nil.
func parseTimeField(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// queryRange reads ?from=&to= as dates; to is inclusive. Defaults to the last 30 days.
func queryRange(c *gin.Context, now time.Time) (time.Time, time.Time, bool) {
	to := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	from := to.AddDate(0, 0, -30)
	if v := c.Query("from"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, now.Location())
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid from date")
			return from, to, false
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.ParseInLocation(dateLayout, v, now.Location())
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid to date")
			return from, to, false
		}
		to = t.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		response.Error(c, http.StatusBadRequest, "from must be before to")
		return from, to, false
	}
	return from, to, true
}
