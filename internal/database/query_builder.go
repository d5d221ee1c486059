package database

import (
	"fmt"
	"strings"
)

const blobInfoColumns = "id, COALESCE(project_id, ''), name, COALESCE(mime, ''), size, created_at"

type BlobQuery struct {
	columns string
	filters []string
	args    []interface{}
	orderBy string
	limit   int
}

func NewBlobQuery() *BlobQuery {
	return &BlobQuery{columns: blobInfoColumns}
}

func (q *BlobQuery) Where(filter string, args ...interface{}) *BlobQuery {
	q.filters = append(q.filters, filter)
	q.args = append(q.args, args...)
	return q
}

func (q *BlobQuery) WhereProject(projectID string) *BlobQuery {
	if projectID == "" {
		return q
	}
	return q.Where("project_id = ?", projectID)
}

func (q *BlobQuery) WhereIDs(ids []string) *BlobQuery {
	if len(ids) == 0 {
		return q.Where("1 = 0")
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return q.Where("id IN ("+placeholders+")", args...)
}

func (q *BlobQuery) OrderBy(orderBy string) *BlobQuery {
	q.orderBy = orderBy
	return q
}

func (q *BlobQuery) Limit(limit int) *BlobQuery {
	q.limit = limit
	return q
}

func (q *BlobQuery) Build() (string, []interface{}) {
	query := fmt.Sprintf("SELECT %s FROM blobs", q.columns)
	if len(q.filters) > 0 {
		query += " WHERE " + strings.Join(q.filters, " AND ")
	}
	if q.orderBy != "" {
		query += " ORDER BY " + q.orderBy
	}
	if q.limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.limit)
	}
	return query, q.args
}
