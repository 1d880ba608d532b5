package model

import "sort"

// Merge reducers. Each server response updates only the fields that
// response kind is allowed to touch; everything else carries over from the
// prior local value. Views never re-fetch an entity after mutating it.

// ApplyLikeResult merges a like-unlike response into a local tweet.
// Only IsLiked and LikesCount may change.
func ApplyLikeResult(t Tweet, res LikeResult) Tweet {
	t.IsLiked = res.Liked
	t.LikesCount = res.LikesCount
	return t
}

// ApplyCommentAdded merges a freshly created comment into a local tweet:
// the comment is prepended (newest first, matching server ordering) and
// CommentsCount grows by exactly one.
func ApplyCommentAdded(t Tweet, c Comment) Tweet {
	t.Comments = append([]Comment{c}, t.Comments...)
	t.CommentsCount++
	return t
}

// ApplyEdit merges an edit response into a local tweet. The server returns
// the full updated record but without comments, which carry over.
func ApplyEdit(t Tweet, updated Tweet) Tweet {
	t.Tweet = updated.Tweet
	t.Edited = updated.Edited
	return t
}

// Reconcile replaces a locally held tweet with a broadcast value. Lists
// broadcast tweets without comments; a detail view holding the comment
// thread must not lose it to such a broadcast.
func Reconcile(local, incoming Tweet) Tweet {
	if incoming.Comments == nil {
		incoming.Comments = local.Comments
	}
	return incoming
}

// ReplaceByID swaps any element of ts whose id matches t. Unknown ids are
// ignored; lists never grow from reconciliation.
func ReplaceByID(ts []Tweet, t Tweet) []Tweet {
	for i := range ts {
		if ts[i].ID == t.ID {
			ts[i] = Reconcile(ts[i], t)
		}
	}
	return ts
}

// SortByLikes orders ts by likes descending, breaking ties by most recent
// date posted.
func SortByLikes(ts []Tweet) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].LikesCount == ts[j].LikesCount {
			return ts[i].DatePosted.After(ts[j].DatePosted)
		}
		return ts[i].LikesCount > ts[j].LikesCount
	})
}

// SortByComments orders ts by comment count descending, breaking ties by
// most recent date posted.
func SortByComments(ts []Tweet) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].CommentsCount == ts[j].CommentsCount {
			return ts[i].DatePosted.After(ts[j].DatePosted)
		}
		return ts[i].CommentsCount > ts[j].CommentsCount
	})
}
