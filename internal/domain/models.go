// Package domain defines the persistence models for facilities and their
// monthly schedules. These types are mapped with GORM and form the core data
// layer of the directory application.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// ScheduleStatusPublished marks a schedule row visible on the public site.
// Rows created through the admin flow are always published; there is no
// draft state in this application.
const ScheduleStatusPublished = "published"

// Facility represents one childcare support spot in the directory.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: facility name as published by the municipality.
//   - WardName: the ward (区) the facility belongs to; indexed for the
//     public list filter.
//   - InstagramURL: canonical profile URL once discovered. The value is
//     authoritative after it has been set: discovery never re-searches a
//     facility that already has one.
//   - DetailPageURL: the municipal detail page the record was imported
//     from; unique, and used as the importer's natural key.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type Facility struct {
	ID            string         `json:"id"              gorm:"type:char(36);primaryKey"`
	Name          string         `json:"name"            gorm:"type:varchar(255);not null"`
	WardName      string         `json:"ward_name"       gorm:"type:varchar(64);index:idx_facility_ward"`
	Address       string         `json:"address"         gorm:"type:varchar(255)"`
	Phone         string         `json:"phone"           gorm:"type:varchar(32)"`
	InstagramURL  string         `json:"instagram_url"   gorm:"type:varchar(255)"`
	WebsiteURL    string         `json:"website_url"     gorm:"type:varchar(255)"`
	FacilityType  string         `json:"facility_type"   gorm:"type:varchar(64)"`
	DetailPageURL string         `json:"detail_page_url" gorm:"type:varchar(255);uniqueIndex:ux_facility_detail_url"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"               gorm:"index"`
}

// TableName returns the database table name for Facility.
func (Facility) TableName() string { return "facilities" }

// Schedule represents one facility's monthly schedule post. A facility has
// at most one schedule per month (enforced by unique index); rows are
// created or replaced by the admin form and the batch scripts.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - FacilityID: foreign key to the owning facility (part of the natural key).
//   - PublishedMonth: first day of the month, UTC midnight (the other part
//     of the natural key).
//   - InstagramPostURL: canonical post permalink (/p/ or /reel/).
//   - ImageURL: the image shown on the public site. The admin flow stores
//     the normalized permalink here as well; the frontend resolves it.
//   - Status: "published" for rows visible on the site.
//   - Notes: free-form operator notes.
//   - Facility: FK association, ensures cascade delete/update.
type Schedule struct {
	ID               string         `json:"id"                 gorm:"type:char(36);primaryKey"`
	FacilityID       string         `json:"facility_id"        gorm:"type:char(36);not null;uniqueIndex:ux_schedule_facility_month,priority:1"`
	PublishedMonth   time.Time      `json:"published_month"    gorm:"not null;uniqueIndex:ux_schedule_facility_month,priority:2"`
	InstagramPostURL string         `json:"instagram_post_url" gorm:"type:varchar(255);not null"`
	ImageURL         string         `json:"image_url"          gorm:"type:varchar(255)"`
	Status           string         `json:"status"             gorm:"type:varchar(16);not null;default:'published'"`
	Notes            string         `json:"notes"              gorm:"type:text"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `json:"-"                  gorm:"index"`

	// Facility is the parent record. Schedules are cascade-deleted if
	// their facility is removed.
	Facility Facility `json:"-" gorm:"foreignKey:FacilityID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Schedule.
func (Schedule) TableName() string { return "schedules" }

// MonthStart converts a calendar year/month into the canonical
// PublishedMonth value: the first of the month at UTC midnight.
func MonthStart(year, month int) time.Time {
	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
}
