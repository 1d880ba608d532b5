package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"chirp/internal/model"
)

func (m Model) View() string {
	if m.width == 0 {
		return "loading..."
	}
	var body string
	switch {
	case m.seeMore != nil:
		body = m.renderSeeMore()
	case m.scr == screenHome:
		body = m.renderHome()
	case m.scr == screenFollowing:
		body = m.renderFollowing()
	case m.scr == screenDetail:
		body = m.renderDetail()
	case m.scr == screenProfile:
		body = m.renderProfile()
	}

	sections := []string{m.renderHeader(), body}
	if m.form != nil {
		sections = append(sections, renderForm(m.form, m.width))
	}
	sections = append(sections, m.renderFooter())
	return strings.Join(sections, "\n")
}

func (m Model) renderHeader() string {
	who := "anonymous"
	if user, ok := m.sess.User(); ok {
		who = "@" + user.Username
	}
	left := brandStyle.Render("chirp") + dimStyle.Render("  ·  "+who)
	return headerStyle.Width(m.width).Render(left)
}

func (m Model) renderFooter() string {
	if m.errMsg != "" {
		return errStyle.Render(" " + m.errMsg)
	}
	help := "1 home · 2 following · ↑↓ move · enter open · l like · n new · p profile · q quit"
	if !m.sess.Authenticated() {
		help = "L log in · R register · " + help
	}
	out := helpStyle.Render(help)
	if m.status != "" {
		out = statusStyle.Render(" "+m.status) + "\n" + out
	}
	return out
}

func (m Model) renderSeeMore() string {
	lines := []string{titleStyle.Render(m.seeTtl)}
	for i, t := range m.seeMore {
		lines = append(lines, m.renderCard(t, i == m.cursor))
	}
	lines = append(lines, helpStyle.Render("esc close"))
	return strings.Join(lines, "\n")
}

// renderCard draws one tweet row, the equivalent of the web client's card.
func (m Model) renderCard(t model.Tweet, selected bool) string {
	heart := "♡"
	if t.IsLiked {
		heart = likedStyle.Render("♥")
	}
	meta := fmt.Sprintf("%s %d  · %d comments", heart, t.LikesCount, t.CommentsCount)
	if t.Edited {
		meta += "  " + editedStyle.Render("(edited)")
	}
	head := posterStyle.Render(t.Poster) + "  " + dimStyle.Render(formatDate(t.DatePosted))
	text := truncate(t.Tweet, m.width-8)
	card := head + "\n" + text + "\n" + mutedStyle.Render(meta)
	if selected {
		return selectedStyle.Width(m.width - 2).Render(cardStyle.Render(card))
	}
	return cardStyle.Width(m.width - 2).Render(card)
}

func (m Model) renderHome() string {
	mainW := m.width * 2 / 3
	var left []string
	left = append(left, titleStyle.Render("Recent Tweets"))
	for i, t := range m.home.Recent() {
		left = append(left, m.renderCard(t, i == m.cursor))
	}
	left = append(left, m.renderPagination())

	var right []string
	right = append(right, titleStyle.Render("Most Liked"))
	for _, t := range m.home.SideLiked() {
		right = append(right, m.renderSideCard(t, fmt.Sprintf("Likes · %d", t.LikesCount)))
	}
	if m.home.HasMoreLiked() {
		right = append(right, dimStyle.Render("  See More (m) →"))
	}
	right = append(right, titleStyle.Render("Most Commented"))
	for _, t := range m.home.SideCommented() {
		right = append(right, m.renderSideCard(t, fmt.Sprintf("Comments · %d", t.CommentsCount)))
	}
	if m.home.HasMoreCommented() {
		right = append(right, dimStyle.Render("  See More (M) →"))
	}

	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(mainW).Render(strings.Join(left, "\n")),
		lipgloss.NewStyle().Width(m.width-mainW).Render(strings.Join(right, "\n")),
	)
}

func (m Model) renderSideCard(t model.Tweet, metric string) string {
	return posterStyle.Render(t.Poster) + "\n" +
		dimStyle.Render(metric) + "  " + truncate(t.Tweet, 32) + "\n"
}

func (m Model) renderPagination() string {
	var parts []string
	if m.home.HasPrev() {
		parts = append(parts, dimStyle.Render("« prev"))
	} else {
		parts = append(parts, mutedStyle.Render("« prev"))
	}
	for _, n := range m.home.Pages() {
		label := fmt.Sprintf(" %d ", n)
		if n == m.home.Page() {
			parts = append(parts, activePageStyle.Render(label))
		} else {
			parts = append(parts, dimStyle.Render(label))
		}
	}
	if m.home.HasNext() {
		parts = append(parts, dimStyle.Render("next »"))
	} else {
		parts = append(parts, mutedStyle.Render("next »"))
	}
	return strings.Join(parts, " ")
}

func (m Model) renderFollowing() string {
	lines := []string{titleStyle.Render("Following")}
	tweets := m.follow.Tweets()
	if len(tweets) == 0 {
		lines = append(lines, dimStyle.Render(
			"No tweets from people you follow yet. Start following people to see their tweets here!"))
	}
	for i, t := range tweets {
		lines = append(lines, m.renderCard(t, i == m.cursor))
	}
	if m.follow.HasMore() {
		lines = append(lines, mutedStyle.Render("  scroll for more..."))
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderDetail() string {
	t, ok := m.detail.Tweet()
	if !ok {
		return dimStyle.Render("Loading...")
	}
	lines := []string{m.renderCard(t, false)}
	lines = append(lines, titleStyle.Render(fmt.Sprintf("Comments (%d)", t.CommentsCount)))
	if len(t.Comments) == 0 {
		lines = append(lines, dimStyle.Render("No comments yet."))
	}
	for _, c := range t.Comments {
		lines = append(lines,
			posterStyle.Render(c.Commenter)+"  "+dimStyle.Render(formatDate(c.Commented)),
			"  "+c.Comment,
			"")
	}
	lines = append(lines, helpStyle.Render("c comment · l like · e edit · esc back"))
	return strings.Join(lines, "\n")
}

func (m Model) renderProfile() string {
	data, ok := m.profile.Data()
	if !ok {
		return dimStyle.Render("Loading...")
	}
	u := data.User
	head := posterStyle.Render("@"+u.Username) + "\n" +
		dimStyle.Render(fmt.Sprintf("%d followers · %d following", u.FollowersCount, u.FollowingCount))
	if u.IsSelfProfile {
		head += dimStyle.Render("  (you)")
	} else if u.IsFollowing {
		head += statusStyle.Render("  following (f to unfollow)")
	} else if m.sess.Authenticated() {
		head += mutedStyle.Render("  (f to follow)")
	}
	lines := []string{head, titleStyle.Render("Tweets")}
	if len(data.Tweets) == 0 {
		lines = append(lines, dimStyle.Render("No tweets yet"))
	}
	for i, t := range data.Tweets {
		lines = append(lines, m.renderCard(t, i == m.cursor))
	}
	return strings.Join(lines, "\n")
}
