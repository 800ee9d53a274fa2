// audit.go provides Gin middleware that records authenticated operations to
// the journal through the async audit recorder.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/univ-annuaire/univ-annuaire/internal/audit"
	"github.com/univ-annuaire/univ-annuaire/internal/config"
)

// auditTargets maps a path fragment to the cible_type recorded in the journal.
// First match wins, so more specific fragments come first.
var auditTargets = []struct {
	fragment string
	cible    string
}{
	{"/organigrammes", "organigramme"},
	{"/delegations", "delegation"},
	{"/signalements", "signalement"},
	{"/affectations", "affectation"},
	{"/annees", "annee"},
	{"/users", "utilisateur"},
	{"/exports", "export"},
}

// AuditMiddleware records write operations (and, depending on config, reads
// and failures) after the handler runs. Recording is fire-and-forget through
// the recorder; the response never waits on the journal.
func AuditMiddleware(recorder *audit.Recorder, auditCfg *config.AuditConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Request.Method == "OPTIONS" {
			return
		}

		isReadOp := c.Request.Method == "GET"
		isFailed := c.Writer.Status() >= 400

		logReadOps := auditCfg != nil && auditCfg.LogReadOperations
		logFailedReqs := auditCfg != nil && auditCfg.LogFailedRequests

		if isReadOp && !logReadOps {
			return
		}
		if isFailed && !logFailedReqs {
			return
		}

		// Only operations with a resolved author land in the journal; the
		// table requires one, and an unauthenticated request was rejected
		// before doing anything worth recording.
		userID, ok := c.Get(UserIDKey)
		if !ok {
			return
		}
		authorID, ok := userID.(int64)
		if !ok {
			return
		}

		path := c.Request.URL.Path
		cibleType := "api"
		for _, t := range auditTargets {
			if strings.Contains(path, t.fragment) {
				cibleType = t.cible
				break
			}
		}

		action := c.Request.Method + " " + path
		var cibleID *string
		if id := c.Param("id"); id != "" {
			cibleID = &id
		}

		recorder.Record(authorID, action, cibleType, cibleID, nil, nil)
	}
}
