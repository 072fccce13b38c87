package db

import (
	"time"
)

// Sex is the profile sex enum. Stored as a plain string column.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// User table. The primary key is an opaque UUID string, assigned by the
// repository at creation time.
type User struct {
	ID           string `gorm:"primaryKey;size:36"`
	Email        string `gorm:"uniqueIndex;size:150;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	FirstName    string `gorm:"size:50;not null"`
	LastName     string `gorm:"size:50;not null"`
	Sex          Sex    `gorm:"size:16;not null"`
	BirthDate    time.Time
	Photo        string `gorm:"size:255"`
	Active       bool   `gorm:"default:true"`
	LastOnline   time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Location *Location `gorm:"constraint:OnDelete:CASCADE"`
	Tags     []Tag     `gorm:"many2many:user_tags;constraint:OnDelete:CASCADE"`
}

// Location is the user's one and only coordinate pair. A row exists for
// every user from signup on (0,0 until the first update); the unique
// index keeps the relation one-to-one.
type Location struct {
	ID        uint64  `gorm:"primaryKey;autoIncrement"`
	UserID    string  `gorm:"uniqueIndex;size:36;not null"`
	Latitude  float64 `gorm:"not null;default:0"`
	Longitude float64 `gorm:"not null;default:0"`
}

// Tag is a read-mostly label attached to users via the user_tags join
// table.
type Tag struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:50;not null;uniqueIndex:idx_tag_name_slug,priority:1"`
	Slug string `gorm:"size:50;uniqueIndex:idx_tag_name_slug,priority:2"`
}

// Match represents a directed like edge from UserID to MatchedUserID.
//
// The unique index on (user_id, matched_user_id) makes a duplicate edge
// a storage-level conflict, so two racing likes for the same ordered
// pair cannot both insert; the loser surfaces as a duplicate error.
//
// idx_match_reverse serves the reverse-edge probe on every like.
type Match struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	UserID        string `gorm:"size:36;not null;uniqueIndex:idx_match_pair,priority:1"`
	MatchedUserID string `gorm:"size:36;not null;uniqueIndex:idx_match_pair,priority:2;index:idx_match_reverse"`
	IsMutual      bool   `gorm:"not null;default:false"`
	MatchedAt     time.Time
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`
}
