package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// BlobInfo is blob metadata without the payload.
type BlobInfo struct {
	ID        string
	ProjectID string
	Name      string
	MimeType  string
	Size      int64
	CreatedAt time.Time
}

// Blob is a stored file body keyed by the owning file's ID.
type Blob struct {
	BlobInfo
	Data []byte
}

// PutBlob inserts or replaces a blob.
func (d *Database) PutBlob(ctx context.Context, blob Blob) error {
	return d.withDBContext(ctx, func(ctx context.Context) error {
		size := blob.Size
		if size == 0 {
			size = int64(len(blob.Data))
		}
		data := blob.Data
		if data == nil {
			data = []byte{}
		}
		_, err := d.DB.ExecContext(ctx, `INSERT INTO blobs (id, project_id, name, mime, size, data)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET project_id = excluded.project_id, name = excluded.name,
				mime = excluded.mime, size = excluded.size, data = excluded.data`,
			blob.ID, nullableString(blob.ProjectID), blob.Name, nullableString(blob.MimeType), size, data)
		return opErr("put", "blob", blob.ID, err)
	})
}

// GetBlob loads a blob including its data. Missing blobs yield ErrNotFound.
func (d *Database) GetBlob(ctx context.Context, id string) (*Blob, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) (*Blob, error) {
		var (
			b       Blob
			created sql.NullTime
		)
		err := d.DB.QueryRowContext(ctx,
			"SELECT "+blobInfoColumns+", data FROM blobs WHERE id = ?", id,
		).Scan(&b.ID, &b.ProjectID, &b.Name, &b.MimeType, &b.Size, &created, &b.Data)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, opErr("get", "blob", id, ErrNotFound)
		}
		if err != nil {
			return nil, opErr("get", "blob", id, err)
		}
		b.CreatedAt = nullTime(created)
		return &b, nil
	})
}

// HasBlob reports whether a blob exists without loading it.
func (d *Database) HasBlob(ctx context.Context, id string) (bool, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) (bool, error) {
		var count int
		if err := d.DB.QueryRowContext(ctx, "SELECT COUNT(1) FROM blobs WHERE id = ?", id).Scan(&count); err != nil {
			return false, opErr("check", "blob", id, err)
		}
		return count > 0, nil
	})
}

// DeleteBlob removes a blob; missing blobs are ignored.
func (d *Database) DeleteBlob(ctx context.Context, id string) error {
	return d.withDBContext(ctx, func(ctx context.Context) error {
		_, err := d.DB.ExecContext(ctx, "DELETE FROM blobs WHERE id = ?", id)
		return opErr("delete", "blob", id, err)
	})
}

// DeleteProjectBlobs removes every blob owned by a project and returns the count.
func (d *Database) DeleteProjectBlobs(ctx context.Context, projectID string) (int64, error) {
	return withDBContextResult(d, ctx, func(ctx context.Context) (int64, error) {
		res, err := d.DB.ExecContext(ctx, "DELETE FROM blobs WHERE project_id = ?", projectID)
		if err != nil {
			return 0, opErr("delete", "project blobs", projectID, err)
		}
		return res.RowsAffected()
	})
}

// ListBlobs returns metadata for the blobs selected by q, or all blobs when q is nil.
func (d *Database) ListBlobs(ctx context.Context, q *BlobQuery) ([]BlobInfo, error) {
	if q == nil {
		q = NewBlobQuery()
	}
	if q.orderBy == "" {
		q.OrderBy("created_at ASC, id ASC")
	}
	query, args := q.Build()
	return withDBContextResult(d, ctx, func(ctx context.Context) ([]BlobInfo, error) {
		rows, err := d.DB.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("list blobs: %w", err)
		}
		defer rows.Close()
		var out []BlobInfo
		for rows.Next() {
			var (
				info    BlobInfo
				created sql.NullTime
			)
			if err := rows.Scan(&info.ID, &info.ProjectID, &info.Name, &info.MimeType, &info.Size, &created); err != nil {
				return nil, fmt.Errorf("scan blob: %w", err)
			}
			info.CreatedAt = nullTime(created)
			out = append(out, info)
		}
		return out, rows.Err()
	})
}

// ListBlobIDs returns the IDs of all blobs owned by projectID (all blobs when empty).
func (d *Database) ListBlobIDs(ctx context.Context, projectID string) ([]string, error) {
	infos, err := d.ListBlobs(ctx, NewBlobQuery().WhereProject(projectID))
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}
	return ids, nil
}

func nullableString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}

func nullTime(v sql.NullTime) time.Time {
	if !v.Valid {
		return time.Time{}
	}
	return v.Time
}
