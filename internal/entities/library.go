package entities

import "time"

type UserRole string

const (
	UserRoleMember    UserRole = "MEMBER"
	UserRoleLibrarian UserRole = "LIBRARIAN"
	UserRoleAdmin     UserRole = "ADMIN"
)

// User is a library member or staff account. Articles reference users by
// UserID (the public identifier), never by embedding the row.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       string    `gorm:"uniqueIndex;size:64" json:"user_id"`
	DisplayName  string    `gorm:"size:128" json:"display_name,omitempty"`
	EmailAddress string    `gorm:"uniqueIndex;size:255" json:"email_address"`
	Role         UserRole  `gorm:"size:20;default:'MEMBER'" json:"role"`
	PasswordHash string    `gorm:"size:128" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Article is a member-authored post. Image holds the zlib-compressed
// thumbnail bytes; it is compressed exactly once, at the HTTP boundary.
type Article struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	AuthorID  string    `gorm:"index;size:64" json:"author_id"`
	Title     string    `gorm:"index;size:512" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	Image     []byte    `gorm:"type:blob" json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ArticleComment references exactly one article. Rows are removed by the
// service-level cascade before their article is deleted.
type ArticleComment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ArticleID   uint      `gorm:"index" json:"article_id"`
	CommenterID string    `gorm:"index;size:64" json:"commenter_id"`
	Body        string    `gorm:"type:text" json:"body"`
	CreatedAt   time.Time `json:"created_at"`
}

// ArticleRating is a 1-5 score attached to an article.
type ArticleRating struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"index" json:"article_id"`
	RaterID   string    `gorm:"index;size:64" json:"rater_id"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// Resource is a physical library item (book).
type Resource struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"index;size:512" json:"title"`
	Author    string    `gorm:"index;size:256" json:"author"`
	ISBN      string    `gorm:"index;size:20" json:"isbn,omitempty"`
	Copies    int       `gorm:"default:1" json:"copies"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ResourceComment is a member comment on a resource.
type ResourceComment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ResourceID uint      `gorm:"index" json:"resource_id"`
	MemberID   string    `gorm:"index;size:64" json:"member_id"`
	Body       string    `gorm:"type:text" json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

func (User) TableName() string {
	return "users"
}

func (Article) TableName() string {
	return "articles"
}

func (ArticleComment) TableName() string {
	return "article_comments"
}

func (ArticleRating) TableName() string {
	return "article_ratings"
}

func (Resource) TableName() string {
	return "resources"
}

func (ResourceComment) TableName() string {
	return "resource_comments"
}
