package model

import "time"

type ReactionType string

const (
	ReactionFire  ReactionType = "fire"
	ReactionHeart ReactionType = "heart"
	ReactionIdea  ReactionType = "idea"
)

// ReactionTypes lists the reactions in display order.
var ReactionTypes = []ReactionType{ReactionFire, ReactionHeart, ReactionIdea}

func (t ReactionType) Valid() bool {
	switch t {
	case ReactionFire, ReactionHeart, ReactionIdea:
		return true
	}
	return false
}

func (t ReactionType) Emoji() string {
	switch t {
	case ReactionFire:
		return "🔥"
	case ReactionHeart:
		return "❤️"
	case ReactionIdea:
		return "💡"
	}
	return ""
}

func (t ReactionType) Label() string {
	switch t {
	case ReactionFire:
		return "Fire"
	case ReactionHeart:
		return "Love"
	case ReactionIdea:
		return "Idea"
	}
	return ""
}

// Reaction is one viewer's sentiment on one post. (post_id, user_id) is unique.
type Reaction struct {
	ID           string       `db:"id"`
	PostID       string       `db:"post_id"`
	UserID       string       `db:"user_id"`
	ReactionType ReactionType `db:"reaction_type"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

type ReactionCount struct {
	PostID       string       `db:"post_id"`
	ReactionType ReactionType `db:"reaction_type"`
	Count        int          `db:"count"`
}
