// Package exports implements the export HTTP handlers. Exports stream the
// responsables listing in CSV, JSON, or XLSX.
package exports

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/db/repositories"
	"github.com/univ-annuaire/univ-annuaire/internal/export"
)

// ResponsablesHandler streams the responsables export.
// Implements: GET /api/v1/exports/responsables?yearId=&format=
//
// format defaults to csv. Rows carry the role and entity labels with id
// fallbacks, so the file stays readable even when reference rows are missing.
func ResponsablesHandler(db *sql.DB) gin.HandlerFunc {
	affectationRepo := repositories.NewAffectationRepository(db)

	return func(c *gin.Context) {
		var yearID *int64
		if s := c.Query("yearId"); s != "" {
			id, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid yearId"})
				return
			}
			yearID = &id
		}

		format := c.DefaultQuery("format", export.FormatCSV)
		contentType := export.ContentType(format)
		if contentType == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "format must be csv, json or xlsx",
			})
			return
		}

		rows, err := affectationRepo.ListExportRows(c.Request.Context(), yearID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to load export rows",
			})
			return
		}

		filename := "responsables." + format
		c.Header("Content-Type", contentType)
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		c.Status(http.StatusOK)

		if err := export.Write(c.Writer, format, rows); err != nil {
			// Headers are already out; all we can do is drop the connection.
			c.Abort()
		}
	}
}
