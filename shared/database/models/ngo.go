package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Document states of an NGO record. Only Approved NGOs show up in the
// public listing.
const (
	DocumentStatePending  = "Pending"
	DocumentStateApproved = "Approved"
	DocumentStateRejected = "Rejected"
)

// Contact holds the nested contact block of an NGO record.
type Contact struct {
	Address      string `json:"address" gorm:"size:255"`
	Phone        string `json:"phone" gorm:"size:50"`
	ContactHours string `json:"contactHours" gorm:"size:100"`
}

// DocumentRef points at a verification document held in the blob store.
// The bytes live in object storage; the NGO record only references them.
type DocumentRef struct {
	ObjectKey    string    `json:"object_key"`
	FileName     string    `json:"file_name"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

// DocumentRefs is the ordered document list, stored as a JSONB column.
type DocumentRefs []DocumentRef

func (d DocumentRefs) Value() (driver.Value, error) {
	if d == nil {
		d = DocumentRefs{}
	}
	return json.Marshal(d)
}

func (d *DocumentRefs) Scan(value interface{}) error {
	if value == nil {
		*d = DocumentRefs{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return fmt.Errorf("unsupported type for DocumentRefs: %T", value)
		}
	}
	return json.Unmarshal(bytes, d)
}

// StringList is a JSONB-backed list of strings (NGO affinities).
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		if s, ok := value.(string); ok {
			bytes = []byte(s)
		} else {
			return fmt.Errorf("unsupported type for StringList: %T", value)
		}
	}
	return json.Unmarshal(bytes, l)
}

type NGO struct {
	ID                 uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name               string     `json:"name" gorm:"size:200;not null"`
	Image              string     `json:"image"`
	Webpage            string     `json:"webpage"`
	Description        string     `json:"description" gorm:"type:text"`
	MainRepresentative string     `json:"mainRepresentative" gorm:"size:200"`
	Affinities         StringList `json:"affinities" gorm:"type:jsonb;default:'[]'"`
	Contact            Contact    `json:"contact" gorm:"embedded;embeddedPrefix:contact_"`
	DocumentState      string     `json:"document_state" gorm:"size:20;not null;default:'Pending'"`

	// Documents is append-only through the upload pipeline. DocumentsVersion
	// guards the read-modify-write: the append only commits when the version
	// it read is still current.
	Documents        DocumentRefs `json:"documents" gorm:"type:jsonb;default:'[]'"`
	DocumentsVersion int64        `json:"-" gorm:"not null;default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
