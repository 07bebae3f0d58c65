package domain

import "time"

// BackupSlots is the number of rotated backup files kept on disk.
const BackupSlots = 3

// BackupFile describes one rotation slot. Slot 0 is the most recent backup.
type BackupFile struct {
	Slot       int       `json:"slot"`
	Name       string    `json:"name"`
	SizeBytes  int64     `json:"sizeBytes"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Exists     bool      `json:"exists"`
	Path       string    `json:"-"`
}

// Snapshot is the full set of bookkeeping rows carried by a backup.
// Users are deliberately not part of it so a restore never changes who can log in.
type Snapshot struct {
	FormatVersion int             `json:"formatVersion"`
	CreatedAt     time.Time       `json:"createdAt"`
	Profile       *CompanyProfile `json:"profile,omitempty"`
	Currencies    []Currency      `json:"currencies"`
	ExchangeRates []ExchangeRate  `json:"exchangeRates"`
	Clients       []Client        `json:"clients"`
	Loans         []Loan          `json:"loans"`
	Installments  []Installment   `json:"installments"`
}

// SnapshotFormatVersion is written into every backup's metadata.
const SnapshotFormatVersion = 1
