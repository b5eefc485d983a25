package domain

import "time"

// Artist is the public profile owned by exactly one User.
// UserID is set on creation and never changes afterwards.
type Artist struct {
	ID         int64     `gorm:"column:id;primaryKey" json:"id"`
	UserID     int64     `gorm:"column:user_id;uniqueIndex;not null" json:"user_id"`
	Name       string    `gorm:"column:name;size:255;not null" json:"name"`
	Bio        *string   `gorm:"column:bio;type:text" json:"bio"`
	City       *string   `gorm:"column:city;size:255" json:"city"`
	Genre      *string   `gorm:"column:genre;size:255" json:"genre"`
	Image      *string   `gorm:"column:image" json:"image"`
	CoverPhoto *string   `gorm:"column:cover_photo" json:"cover_photo"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`

	User   *User   `gorm:"foreignKey:UserID" json:"-"`
	Photos []Photo `gorm:"foreignKey:ArtistID" json:"photos,omitempty"`
	Songs  []Song  `gorm:"foreignKey:ArtistID" json:"songs,omitempty"`
	Genres []Genre `gorm:"foreignKey:ArtistID" json:"genres,omitempty"`
}

func (Artist) TableName() string { return "artists" }

// Photo is a gallery image attached to an artist.
type Photo struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	ArtistID  int64     `gorm:"column:artist_id;index;not null" json:"artist_id"`
	Path      string    `gorm:"column:path;not null" json:"path"`
	Caption   *string   `gorm:"column:caption;size:255" json:"caption"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Photo) TableName() string { return "artist_photos" }

// Song is an uploaded audio track.
type Song struct {
	ID        int64     `gorm:"column:id;primaryKey" json:"id"`
	ArtistID  int64     `gorm:"column:artist_id;index;not null" json:"artist_id"`
	Title     string    `gorm:"column:title;size:255;not null" json:"title"`
	Genre     *string   `gorm:"column:genre;size:255" json:"genre"`
	Path      string    `gorm:"column:path;not null" json:"path"`
	MimeType  string    `gorm:"column:mime_type;size:64" json:"mime_type"`
	Size      int64     `gorm:"column:size" json:"size"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (Song) TableName() string { return "artist_songs" }

// Genre is a tag attached to an artist. Read-joined only.
type Genre struct {
	ID       int64  `gorm:"column:id;primaryKey" json:"id"`
	ArtistID int64  `gorm:"column:artist_id;index;not null" json:"artist_id"`
	Name     string `gorm:"column:name;size:100;not null" json:"name"`
}

func (Genre) TableName() string { return "artist_genres" }
