package model

// FeedItem is a post with everything a card needs to render.
type FeedItem struct {
	Post     *Post
	Author   *Profile // nil when the author profile is missing
	Counts   map[ReactionType]int
	Selected ReactionType // the viewer's reaction, empty if none
}
