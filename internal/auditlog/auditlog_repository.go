package auditlog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/doug-martin/goqu/v9"

	"armory/internal/repository"
	"armory/pkg/models"
)

type AuditLogRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *AuditLogRepository {
	return &AuditLogRepository{repository: r}
}

func (r *AuditLogRepository) PersistLog(tx *goqu.TxDatabase, entry models.AuditLog, oldData, newData interface{}) error {
	record := goqu.Record{
		"user_id":     entry.UserID,
		"action_type": entry.ActionType,
		"resource_id": entry.ResourceID,
	}

	if oldData != nil {
		oldJSON, err := json.Marshal(oldData)
		if err != nil {
			return fmt.Errorf("failed to marshal audit log old data: %w", err)
		}
		record["old_data"] = oldJSON
	}

	if newData != nil {
		newJSON, err := json.Marshal(newData)
		if err != nil {
			return fmt.Errorf("failed to marshal audit log new data: %w", err)
		}
		record["new_data"] = newJSON
	}

	query := tx.Insert("logs").Rows(record)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

// LogFilter narrows the audit trail listing. Nil fields are ignored.
type LogFilter struct {
	UserID     *int
	ActionType *string
	StartDate  *time.Time
	EndDate    *time.Time
}

func (r *AuditLogRepository) GetLogs(filter LogFilter) ([]models.AuditLog, error) {
	query := r.repository.GoquDBWrapper.
		From(goqu.T("logs").As("l")).
		Select(
			goqu.I("l.id").As("id"),
			goqu.I("l.user_id").As("user_id"),
			goqu.I("l.action_type").As("action_type"),
			goqu.I("l.resource_id").As("resource_id"),
			goqu.I("l.old_data").As("old_data"),
			goqu.I("l.new_data").As("new_data"),
			goqu.I("l.timestamp").As("timestamp"),
		).
		Order(goqu.I("l.timestamp").Desc())

	if filter.UserID != nil {
		query = query.Where(goqu.Ex{"l.user_id": *filter.UserID})
	}
	if filter.ActionType != nil {
		query = query.Where(goqu.Ex{"l.action_type": *filter.ActionType})
	}
	if filter.StartDate != nil {
		query = query.Where(goqu.I("l.timestamp").Gte(*filter.StartDate))
	}
	if filter.EndDate != nil {
		query = query.Where(goqu.I("l.timestamp").Lte(*filter.EndDate))
	}

	var logs []models.AuditLog
	if err := query.Executor().ScanStructs(&logs); err != nil {
		return nil, fmt.Errorf("error executing SQL statement: %w", err)
	}

	for i := range logs {
		logs[i].LoadFromDB()
	}

	return logs, nil
}
