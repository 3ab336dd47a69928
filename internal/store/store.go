package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User is a portal account.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	JobTitle     string
	Department   string
	Role         string
	CreatedAt    time.Time
}

// Roles assignable to users.
const (
	RoleEmployee = "employee"
	RoleAdmin    = "admin"
)

// Asset is an IT asset that may be allocated to a user.
type Asset struct {
	ID         int64
	Name       string
	Type       string
	LicenseKey string
	Status     string
	AssignedTo *int64
	CreatedAt  time.Time
}

// Asset statuses.
const (
	AssetStatusAvailable = "Available"
	AssetStatusAssigned  = "Assigned"
)

// Announcement is a company-wide notice.
type Announcement struct {
	ID        int64
	Title     string
	Body      string
	CreatedBy int64
	CreatedAt time.Time
}

// Publication is a research output listed on the portal.
type Publication struct {
	ID        int64
	Title     string
	Authors   string
	Link      string
	Year      int
	CreatedAt time.Time
}

// Grievance is an employee complaint tracked by HR.
type Grievance struct {
	ID          int64
	UserID      int64
	Subject     string
	Details     string
	Status      string
	SubmittedAt time.Time
}

// Grievance statuses.
const (
	GrievanceStatusOpen     = "Open"
	GrievanceStatusResolved = "Resolved"
)

// KeyMoment is a milestone highlighted on the home page.
type KeyMoment struct {
	ID          int64
	Title       string
	Description string
	OccurredOn  time.Time
	CreatedAt   time.Time
}

// UserStore manages portal accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *User) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// AssetStore manages IT assets and their allocations.
type AssetStore interface {
	CreateAsset(ctx context.Context, a *Asset) (*Asset, error)
	ListAssets(ctx context.Context) ([]Asset, error)
	ListAssetsByUser(ctx context.Context, userID int64) ([]Asset, error)
	AssignAsset(ctx context.Context, assetID, userID int64) error
	DeleteAsset(ctx context.Context, id int64) error
}

// AnnouncementStore manages announcements.
type AnnouncementStore interface {
	CreateAnnouncement(ctx context.Context, a *Announcement) (*Announcement, error)
	ListAnnouncements(ctx context.Context) ([]Announcement, error)
	DeleteAnnouncement(ctx context.Context, id int64) error
}

// PublicationStore manages publications.
type PublicationStore interface {
	CreatePublication(ctx context.Context, p *Publication) (*Publication, error)
	ListPublications(ctx context.Context) ([]Publication, error)
	DeletePublication(ctx context.Context, id int64) error
}

// GrievanceStore manages grievances.
type GrievanceStore interface {
	CreateGrievance(ctx context.Context, g *Grievance) (*Grievance, error)
	ListGrievances(ctx context.Context) ([]Grievance, error)
	UpdateGrievanceStatus(ctx context.Context, id int64, status string) error
}

// KeyMomentStore manages key moments.
type KeyMomentStore interface {
	CreateKeyMoment(ctx context.Context, k *KeyMoment) (*KeyMoment, error)
	ListKeyMoments(ctx context.Context) ([]KeyMoment, error)
	DeleteKeyMoment(ctx context.Context, id int64) error
}

// Store aggregates all persistence interfaces.
type Store interface {
	UserStore
	AssetStore
	AnnouncementStore
	PublicationStore
	GrievanceStore
	KeyMomentStore
	Close() error
}
