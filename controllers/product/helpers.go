package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/auth"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/cache"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/controllers/response"
	"github.com/InfinityZero3000/John-Henry-Website-sub003/models"
	"github.com/gin-gonic/gin"
)

func currentUser(c *gin.Context) string {
	return auth.UserID(c)
}

func isSeller(c *gin.Context) bool {
	return auth.Role(c) == string(models.RoleSeller)
}

// paramID parses the :name path parameter, aborting with 400 when it is not a positive integer.
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func parseIDList(raw string) ([]uint, bool) {
	var ids []uint
	for _, tok := range strings.Split(raw, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		id, err := strconv.ParseUint(tok, 10, 64)
		if err != nil {
			return nil, false
		}
		ids = append(ids, uint(id))
	}
	return ids, true
}

// invalidateCatalog drops every cached listing after a catalog write.
func invalidateCatalog(c *gin.Context, store cache.Cache) {
	if err := store.DeletePrefix(c.Request.Context(), cache.PrefixProducts); err != nil {
		_ = c.Error(err)
	}
}
