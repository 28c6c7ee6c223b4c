// Package domain defines the persistence models for users, stories, chapters,
// reviews, genres, and contact messages. These types are mapped with GORM and
// form the core data layer of the story-publishing application.
package domain

import "time"

// User represents a registered account. Authentication mechanics (sessions,
// tokens) live outside this service; the identity middleware resolves the
// caller to one of these rows and exposes the staff flag for authorization.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Username: unique handle, used for profile lookups.
//   - Email: contact address, not required to be unique.
//   - PasswordHash: bcrypt hash; empty for accounts provisioned externally.
//   - IsStaff: elevated privilege, bypasses ownership checks.
type User struct {
	ID           string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username"   gorm:"type:varchar(150);not null;uniqueIndex:ux_users_username"`
	Email        string    `json:"email"      gorm:"type:varchar(254)"`
	PasswordHash string    `json:"-"          gorm:"type:varchar(128)"`
	IsStaff      bool      `json:"is_staff"   gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Genre is a browsing category. Name and slug are both unique; the slug is
// derived from the name at creation when not supplied. Genres are created by
// staff only and are otherwise immutable.
type Genre struct {
	ID        string    `json:"id"   gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(50);not null;uniqueIndex:ux_genres_name"`
	Slug      string    `json:"slug" gorm:"type:varchar(60);not null;uniqueIndex:ux_genres_slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Genre.
func (Genre) TableName() string { return "genres" }

// Story represents a serialized work owned by a single author. The slug is
// globally unique and computed exactly once at creation (title-derived, with
// an incrementing numeric suffix on collision); edits never recompute it.
//
// UpdatedAt refreshes on every save, including chapter appends, so the
// "newest updates" rail reflects chapter activity.
type Story struct {
	ID          string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Title       string    `json:"title"       gorm:"type:varchar(200);not null"`
	AuthorID    string    `json:"author_id"   gorm:"type:char(36);not null;index:idx_stories_author"`
	Description string    `json:"description" gorm:"type:text;not null"`
	CoverImage  string    `json:"cover_image,omitempty" gorm:"type:varchar(512)"`
	Slug        string    `json:"slug"        gorm:"type:varchar(220);not null;uniqueIndex:ux_stories_slug"`
	CreatedAt   time.Time `json:"created_at"  gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"  gorm:"index"`

	// Author owns the story; stories are cascade-deleted with the account.
	Author User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// Genres is a many-to-many association through story_genres.
	Genres []Genre `json:"genres,omitempty" gorm:"many2many:story_genres"`
}

// TableName returns the database table name for Story.
func (Story) TableName() string { return "stories" }

// Chapter is one ordered unit of content within a story. The relation to
// Story is declared statically here; nothing discovers it at runtime.
//
// Position is the 1-based ordinal within the story. It is unique per story
// (composite index) and append-only: a new chapter always receives
// max(position)+1, and the edit flow never exposes it.
type Chapter struct {
	ID        string    `json:"id"       gorm:"type:char(36);primaryKey"`
	StoryID   string    `json:"story_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_chapter_story_position,priority:1"`
	Title     string    `json:"title"    gorm:"type:varchar(200);not null"`
	Content   string    `json:"content"  gorm:"type:text;not null"`
	Position  int       `json:"order"    gorm:"column:position;not null;check:position > 0;uniqueIndex:ux_chapter_story_position,priority:2"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Story is the parent work. Chapters are cascade-deleted with it.
	Story Story `json:"-" gorm:"foreignKey:StoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Chapter.
func (Chapter) TableName() string { return "chapters" }

// Review is a rating-plus-comment contributed by one user to one story.
// A user can leave at most one review per story; the composite unique index
// on (story_id, author_id) closes the race between concurrent submissions.
type Review struct {
	ID        string    `json:"id"        gorm:"type:char(36);primaryKey"`
	StoryID   string    `json:"story_id"  gorm:"type:char(36);not null;index;uniqueIndex:ux_review_story_author,priority:1"`
	AuthorID  string    `json:"author_id" gorm:"type:char(36);not null;index;uniqueIndex:ux_review_story_author,priority:2"`
	Rating    int       `json:"rating"    gorm:"not null;check:rating BETWEEN 1 AND 5"`
	Comment   string    `json:"comment"   gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Story is the reviewed work. Reviews are cascade-deleted with it.
	Story Story `json:"-" gorm:"foreignKey:StoryID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	// Author wrote the review. Reviews are cascade-deleted with the account.
	Author User `json:"-" gorm:"foreignKey:AuthorID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Review.
func (Review) TableName() string { return "reviews" }

// ContactMessage is a free-text message a registered user sends to site
// staff. Owners can edit or delete their own messages; staff see all.
type ContactMessage struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;index:idx_contact_user"`
	Message   string    `json:"message" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// User is the sender. Messages are cascade-deleted with the account.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for ContactMessage.
func (ContactMessage) TableName() string { return "contact_messages" }
