package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"chirp/internal/feed"
	"chirp/internal/model"
	"chirp/internal/session"
)

// screen is the main pane currently shown.
type screen int

const (
	screenHome screen = iota
	screenFollowing
	screenDetail
	screenProfile
)

// Model is the root bubbletea model. All feed state lives in the
// view-models; the TUI holds only navigation, cursor and form state, and
// re-renders whenever a command reports completion.
type Model struct {
	ctx      context.Context
	sess     *session.Manager
	home     *feed.Home
	follow   *feed.Following
	detail   *feed.Detail
	profile  *feed.Profile
	composer *feed.Composer

	scr     screen
	cursor  int
	form    *form
	seeMore []model.Tweet
	seeTtl  string

	width  int
	height int
	status string
	errMsg string
}

// Deps bundles everything the TUI needs.
type Deps struct {
	Session  *session.Manager
	Home     *feed.Home
	Follow   *feed.Following
	Detail   *feed.Detail
	Profile  *feed.Profile
	Composer *feed.Composer
}

func NewModel(ctx context.Context, d Deps) Model {
	return Model{
		ctx:      ctx,
		sess:     d.Session,
		home:     d.Home,
		follow:   d.Follow,
		detail:   d.Detail,
		profile:  d.Profile,
		composer: d.Composer,
		status:   "Loading feed...",
	}
}

type refreshMsg struct{ status string }
type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

func (m Model) Init() tea.Cmd {
	return m.loadHome(1)
}

func (m Model) loadHome(page int) tea.Cmd {
	return func() tea.Msg {
		if err := m.home.LoadPage(m.ctx, page); err != nil {
			return errMsg{err}
		}
		return refreshMsg{fmt.Sprintf("page %d of %d", m.home.Page(), m.home.TotalPages())}
	}
}

func (m Model) loadFollowing() tea.Cmd {
	return func() tea.Msg {
		if err := m.follow.Load(m.ctx); err != nil {
			return errMsg{err}
		}
		return refreshMsg{"following feed loaded"}
	}
}

func (m Model) loadMoreFollowing() tea.Cmd {
	return func() tea.Msg {
		ran, err := m.follow.LoadMore(m.ctx)
		if err != nil {
			return errMsg{err}
		}
		if !ran {
			return refreshMsg{""}
		}
		return refreshMsg{fmt.Sprintf("page %d loaded", m.follow.Page())}
	}
}

func (m Model) loadDetail(id int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.detail.Load(m.ctx, id); err != nil {
			return errMsg{err}
		}
		return refreshMsg{""}
	}
}

func (m Model) loadProfile(username string) tea.Cmd {
	return func() tea.Msg {
		if err := m.profile.Load(m.ctx, username); err != nil {
			return errMsg{err}
		}
		return refreshMsg{""}
	}
}

func (m Model) likeSelected() tea.Cmd {
	var run func() error
	switch m.scr {
	case screenHome:
		t, ok := m.selectedTweet()
		if !ok {
			return nil
		}
		run = func() error { return m.home.ToggleLike(m.ctx, t.ID) }
	case screenFollowing:
		t, ok := m.selectedTweet()
		if !ok {
			return nil
		}
		run = func() error { return m.follow.ToggleLike(m.ctx, t.ID) }
	case screenDetail:
		run = func() error { return m.detail.ToggleLike(m.ctx) }
	case screenProfile:
		t, ok := m.selectedTweet()
		if !ok {
			return nil
		}
		run = func() error { return m.profile.ToggleLike(m.ctx, t.ID) }
	}
	return func() tea.Msg {
		if err := run(); err != nil {
			return errMsg{err}
		}
		return refreshMsg{""}
	}
}

func (m Model) toggleFollow() tea.Cmd {
	return func() tea.Msg {
		if err := m.profile.ToggleFollow(m.ctx); err != nil {
			return errMsg{err}
		}
		return refreshMsg{"follow state updated"}
	}
}

// selectedTweet resolves the cursor on the current screen.
func (m Model) selectedTweet() (model.Tweet, bool) {
	list := m.currentList()
	if m.cursor < 0 || m.cursor >= len(list) {
		return model.Tweet{}, false
	}
	return list[m.cursor], true
}

func (m Model) currentList() []model.Tweet {
	if m.seeMore != nil {
		return m.seeMore
	}
	switch m.scr {
	case screenHome:
		return m.home.Recent()
	case screenFollowing:
		return m.follow.Tweets()
	case screenProfile:
		if data, ok := m.profile.Data(); ok {
			return data.Tweets
		}
	}
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if m.form != nil {
			return m.handleFormKey(msg)
		}
		return m.handleKey(msg)

	case refreshMsg:
		if msg.status != "" {
			m.status = msg.status
		}
		m.errMsg = ""
		m.clampCursor()
		return m, nil

	case errMsg:
		// errors stay local to the triggering view, shown inline
		m.errMsg = msg.err.Error()
		return m, nil
	}
	return m, nil
}

func (m *Model) clampCursor() {
	n := len(m.currentList())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit

	case "esc":
		if m.seeMore != nil {
			m.seeMore = nil
			m.seeTtl = ""
			m.clampCursor()
			return m, nil
		}
		if m.scr != screenHome {
			m.scr = screenHome
			m.cursor = 0
		}
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		list := m.currentList()
		if m.cursor < len(list)-1 {
			m.cursor++
		}
		// reaching the end of the following feed loads the next page,
		// standing in for the scroll observer
		if m.scr == screenFollowing && m.seeMore == nil &&
			m.cursor == len(list)-1 && m.follow.HasMore() {
			return m, m.loadMoreFollowing()
		}
		return m, nil

	case "1":
		m.scr = screenHome
		m.cursor = 0
		m.seeMore = nil
		return m, nil

	case "2":
		if !m.sess.Authenticated() {
			m.errMsg = "log in to see your following feed"
			return m, nil
		}
		m.scr = screenFollowing
		m.cursor = 0
		m.seeMore = nil
		return m, m.loadFollowing()

	case "left", "[":
		if m.scr == screenHome && m.home.HasPrev() {
			return m, m.loadHome(m.home.Page() - 1)
		}
		return m, nil

	case "right", "]":
		if m.scr == screenHome && m.home.HasNext() {
			return m, m.loadHome(m.home.Page() + 1)
		}
		return m, nil

	case "enter":
		if t, ok := m.selectedTweet(); ok {
			m.scr = screenDetail
			m.seeMore = nil
			return m, m.loadDetail(t.ID)
		}
		return m, nil

	case "l":
		if !m.sess.Authenticated() {
			m.errMsg = "log in to like tweets"
			return m, nil
		}
		return m, m.likeSelected()

	case "m":
		if m.scr == screenHome && m.home.HasMoreLiked() {
			m.seeMore = m.home.SeeMoreLiked()
			m.seeTtl = "Most Liked Tweets"
			m.cursor = 0
		}
		return m, nil

	case "M":
		if m.scr == screenHome && m.home.HasMoreCommented() {
			m.seeMore = m.home.SeeMoreCommented()
			m.seeTtl = "Most Commented Tweets"
			m.cursor = 0
		}
		return m, nil

	case "n":
		if !m.sess.Authenticated() {
			m.errMsg = "log in to tweet"
			return m, nil
		}
		m.form = newComposeForm()
		return m, nil

	case "e":
		t, ok := m.selectedTweet()
		if m.scr == screenDetail {
			t, ok = m.detail.Tweet()
		}
		if !ok {
			return m, nil
		}
		user, logged := m.sess.User()
		if !logged || user.Username != t.Poster {
			m.errMsg = "you can only edit your own tweets"
			return m, nil
		}
		m.form = newEditForm(t)
		return m, nil

	case "c":
		if m.scr != screenDetail {
			return m, nil
		}
		if !m.sess.Authenticated() {
			m.errMsg = "log in to comment"
			return m, nil
		}
		m.form = newCommentForm()
		return m, nil

	case "p":
		if t, ok := m.selectedTweet(); ok {
			m.scr = screenProfile
			m.seeMore = nil
			m.cursor = 0
			return m, m.loadProfile(t.Poster)
		}
		return m, nil

	case "P":
		if user, ok := m.sess.User(); ok {
			m.scr = screenProfile
			m.seeMore = nil
			m.cursor = 0
			return m, m.loadProfile(user.Username)
		}
		m.errMsg = "log in to see your profile"
		return m, nil

	case "f":
		if m.scr == screenProfile && m.sess.Authenticated() {
			return m, m.toggleFollow()
		}
		return m, nil

	case "L":
		if !m.sess.Authenticated() {
			m.form = newLoginForm()
		}
		return m, nil

	case "R":
		if !m.sess.Authenticated() {
			m.form = newRegisterForm()
		}
		return m, nil

	case "O":
		if m.sess.Authenticated() {
			return m, func() tea.Msg {
				m.sess.Logout(m.ctx)
				return refreshMsg{"logged out"}
			}
		}
		return m, nil
	}
	return m, nil
}
