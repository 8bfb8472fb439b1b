package domain

// Post is a catalog item. Every post has exactly one author.
type Post struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	Title     string  `gorm:"type:varchar(255);not null" json:"title"`
	Content   *string `gorm:"type:text" json:"content"`
	Published bool    `gorm:"not null;default:false" json:"published"`
	AuthorID  uint    `gorm:"column:authorId;not null;index" json:"authorId"`

	// Author is only populated when preloaded.
	Author *User `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT" json:"author,omitempty"`
}

func (Post) TableName() string {
	return "Post"
}

// PostPatch describes a partial update. Unset fields are left untouched;
// a set Content holding nil clears the stored content.
type PostPatch struct {
	Title   Optional[string]
	Content Optional[*string]
}

// Empty reports whether the patch would write nothing.
func (p PostPatch) Empty() bool {
	return !p.Title.IsSet() && !p.Content.IsSet()
}
