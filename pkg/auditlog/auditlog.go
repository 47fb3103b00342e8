package auditlog

import (
	"github.com/doug-martin/goqu/v9"
	"go.uber.org/zap"

	"armory/pkg/models"
)

// LogRepository persists audit entries. Writes take the caller's open
// transaction so an entry commits together with the mutation it describes.
type LogRepository interface {
	PersistLog(tx *goqu.TxDatabase, entry models.AuditLog, oldData, newData interface{}) error
}

type Auditlog struct {
	r   LogRepository
	log *zap.Logger
}

// Auditable is implemented by models that know their own audit projection.
type Auditable interface {
	CreateLogView() models.AuditLog
}

// RecordChange writes an audit entry for a mutation on an auditable
// resource.
func (a *Auditlog) RecordChange(tx *goqu.TxDatabase, userID int, item Auditable, oldData, newData interface{}) error {
	entry := item.CreateLogView()
	entry.UserID = userID

	if err := a.r.PersistLog(tx, entry, oldData, newData); err != nil {
		a.log.Error("Unable to create audit log entry", zap.Error(err))
		return err
	}

	return nil
}

// RecordAction writes an audit entry for an action without a resource row,
// such as a login.
func (a *Auditlog) RecordAction(tx *goqu.TxDatabase, userID int, actionType string, newData interface{}) error {
	entry := models.AuditLog{
		UserID:     userID,
		ActionType: actionType,
	}

	if err := a.r.PersistLog(tx, entry, nil, newData); err != nil {
		a.log.Error("Unable to create audit log entry", zap.Error(err))
		return err
	}

	return nil
}

func NewAuditLog(r LogRepository, log *zap.Logger) *Auditlog {
	return &Auditlog{r: r, log: log}
}
