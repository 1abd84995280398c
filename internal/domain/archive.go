package domain

import "time"

// ArchiveInfo carries soft-delete metadata shared by archivable records.
type ArchiveInfo struct {
	Archived   bool
	ArchivedBy *string
	ArchivedAt *time.Time
}

// Archivable is implemented by records that support archive and restore.
type Archivable interface {
	IsArchived() bool
}

// IsArchived reports whether the record is hidden from active views.
func (a ArchiveInfo) IsArchived() bool {
	return a.Archived
}

// MarkArchived flags the record as archived by actor at the given time.
func (a *ArchiveInfo) MarkArchived(actor string, at time.Time) {
	a.Archived = true
	a.ArchivedBy = &actor
	a.ArchivedAt = &at
}

// Clear returns the record to the active set.
func (a *ArchiveInfo) Clear() {
	a.Archived = false
	a.ArchivedBy = nil
	a.ArchivedAt = nil
}
