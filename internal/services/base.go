package services

import (
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/dmitrijs2005/budgetkeeper/internal/logging"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/repomanager"
)

// base carries the dependencies shared by every service.
type base struct {
	db          *sqlx.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
	now         func() time.Time
}

func newBase(db *sqlx.DB, m repomanager.RepositoryManager, log logging.Logger, component string) base {
	if log == nil {
		log = logging.Nop()
	}
	return base{
		db:          db,
		repomanager: m,
		log:         log.With("component", component),
		now:         time.Now,
	}
}

// stamp is the timestamp written to created_at/updated_at.
func (b base) stamp() time.Time {
	return b.now().UTC()
}
