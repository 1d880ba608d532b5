package model

import "time"

// MaxContentLength is the server-enforced length limit for tweet and
// comment bodies, mirrored client-side so invalid input never hits the
// network.
const MaxContentLength = 280

// Tweet is a single post as served by the API. Comments is populated only
// by the detail endpoint; list endpoints omit it.
type Tweet struct {
	ID            int64     `json:"id"`
	Poster        string    `json:"poster"`
	Tweet         string    `json:"tweet"`
	DatePosted    time.Time `json:"date_posted"`
	LikesCount    int       `json:"likes_count"`
	CommentsCount int       `json:"comments_count"`
	IsLiked       bool      `json:"is_liked"`
	Edited        bool      `json:"edited"`
	Comments      []Comment `json:"comments,omitempty"`
}

// Comment is a reply attached to a tweet.
type Comment struct {
	ID        int64     `json:"id"`
	MainPost  int64     `json:"main_post"`
	Commenter string    `json:"commenter"`
	Comment   string    `json:"comment"`
	Commented time.Time `json:"commented"`
}

// ProfileUser is the header block of a profile response.
type ProfileUser struct {
	Username       string `json:"username"`
	FollowersCount int    `json:"followers_count"`
	FollowingCount int    `json:"following_count"`
	IsFollowing    bool   `json:"is_following"`
	IsSelfProfile  bool   `json:"is_self_profile"`
}

// Profile is a user page: header plus their tweets, liked tweets and
// comments.
type Profile struct {
	User        ProfileUser `json:"user"`
	Tweets      []Tweet     `json:"tweets"`
	LikedTweets []Tweet     `json:"liked_tweets"`
	Comments    []Comment   `json:"comments"`
}

// TokenPair is the credential pair returned by login and refresh. Refresh
// may be empty in a refresh response when the server does not rotate it.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LikeResult is the body of a like-unlike response.
type LikeResult struct {
	Success    bool `json:"success"`
	Liked      bool `json:"liked"`
	LikesCount int  `json:"likes_count"`
}

// HomePage is one page of the main feed plus the two fixed side lists.
type HomePage struct {
	RecentTweets        []Tweet `json:"recent_tweets"`
	MostLikedTweets     []Tweet `json:"most_liked_tweets"`
	MostCommentedTweets []Tweet `json:"most_commented_tweets"`
	TotalPages          int     `json:"total_pages"`
}

// FeedPage is one page of the following feed.
type FeedPage struct {
	Tweets     []Tweet `json:"tweets"`
	TotalPages int     `json:"total_pages"`
}
