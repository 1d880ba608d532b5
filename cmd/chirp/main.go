package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"chirp/internal/apiclient"
	"chirp/internal/cmdlog"
	"chirp/internal/config"
	"chirp/internal/events"
	"chirp/internal/feed"
	"chirp/internal/logging"
	"chirp/internal/metrics"
	"chirp/internal/model"
	"chirp/internal/session"
	"chirp/internal/theme"
	"chirp/internal/tui"
)

func main() {
	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}
	switch cmd {
	case "init":
		cmdInit()
	case "login":
		cmdLogin()
	case "register":
		cmdRegister()
	case "logout":
		cmdLogout()
	case "whoami":
		cmdWhoami()
	case "home":
		cmdHome()
	case "following":
		cmdFollowing()
	case "tweet":
		cmdTweet()
	case "edit":
		cmdEdit()
	case "like":
		cmdLike()
	case "comment":
		cmdComment()
	case "profile":
		cmdProfile()
	case "follow":
		cmdFollow()
	case "tui":
		cmdTUI()
	default:
		printHelp()
	}
}

func printHelp() {
	theme.PrintBanner()
	fmt.Println("Usage: chirp <command> [options]")
	fmt.Println("Commands:")
	fmt.Println("  init        Create a config file at ./chirp.yaml")
	fmt.Println("  login       Log in and store tokens")
	fmt.Println("  register    Create an account, then log in")
	fmt.Println("  logout      Clear stored tokens")
	fmt.Println("  whoami      Show the logged-in user")
	fmt.Println("  home        Print a page of the home feed")
	fmt.Println("  following   Print the following feed")
	fmt.Println("  tweet       Post a new tweet")
	fmt.Println("  edit        Edit one of your tweets")
	fmt.Println("  like        Like or unlike a tweet")
	fmt.Println("  comment     Comment on a tweet")
	fmt.Println("  profile     Show a user's profile")
	fmt.Println("  follow      Follow or unfollow a user")
	fmt.Println("  tui         Run the interactive terminal client")
}

// app is the wired-up client stack shared by every command.
type app struct {
	cfg config.Config
	api *apiclient.Client
	mgr *session.Manager
	bus *events.Bus
}

func mustLoadApp(cfgPath string) *app {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	store := session.NewStore(cfg.Session.StoragePath)
	api := apiclient.New(cfg)
	mgr := session.NewManager(store, api, cfg.RefreshPeriod())
	api.UseSession(mgr)
	if cfg.Metrics.Addr != "" {
		metrics.StartServer(cfg.Metrics.Addr)
	}
	return &app{cfg: cfg, api: api, mgr: mgr, bus: events.NewBus()}
}

func cmdInit() {
	out := flag.NewFlagSet("init", flag.ExitOnError)
	path := out.String("path", "./chirp.yaml", "path to write config")
	_ = out.Parse(os.Args[2:])
	cfg := config.Default()
	if err := config.Save(*path, cfg); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
	abs, _ := filepath.Abs(*path)
	theme.PrintBanner()
	fmt.Println("Config written to:", abs)
}

func cmdLogin() {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	user := fs.String("user", "", "username")
	_ = fs.Parse(os.Args[2:])
	run("login", func() error {
		a := mustLoadApp(*cfgPath)
		username := *user
		if username == "" {
			username = prompt("Username: ")
		}
		password := promptSecret("Password: ")
		if err := a.mgr.Login(context.Background(), username, password); err != nil {
			return err
		}
		id, _ := a.mgr.User()
		fmt.Printf("Logged in as @%s\n", id.Username)
		return nil
	})
}

func cmdRegister() {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	user := fs.String("user", "", "username")
	_ = fs.Parse(os.Args[2:])
	run("register", func() error {
		a := mustLoadApp(*cfgPath)
		username := *user
		if username == "" {
			username = prompt("Username: ")
		}
		password := promptSecret("Password: ")
		confirm := promptSecret("Confirm password: ")
		ctx := context.Background()
		if err := a.mgr.Register(ctx, username, password, confirm); err != nil {
			return err
		}
		fmt.Println("Account created.")
		if err := a.mgr.Login(ctx, username, password); err != nil {
			return err
		}
		fmt.Printf("Logged in as @%s\n", username)
		return nil
	})
}

func cmdLogout() {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	run("logout", func() error {
		a := mustLoadApp(*cfgPath)
		a.mgr.Logout(context.Background())
		fmt.Println("Logged out.")
		return nil
	})
}

func cmdWhoami() {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	run("whoami", func() error {
		a := mustLoadApp(*cfgPath)
		id, ok := a.mgr.User()
		if !ok {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("@%s (id %d)\n", id.Username, id.ID)
		return nil
	})
}

func cmdHome() {
	fs := flag.NewFlagSet("home", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	page := fs.Int("page", 1, "page number")
	_ = fs.Parse(os.Args[2:])
	run("home", func() error {
		a := mustLoadApp(*cfgPath)
		h := feed.NewHome(a.api, a.bus, a.cfg.Feed.SideListLimit)
		defer h.Close()
		if err := h.LoadPage(context.Background(), *page); err != nil {
			return err
		}
		fmt.Printf("Home feed, page %d of %d\n\n", h.Page(), h.TotalPages())
		printTweets(h.Recent())
		fmt.Println("Most liked:")
		printTweets(h.SeeMoreLiked())
		fmt.Println("Most commented:")
		printTweets(h.SeeMoreCommented())
		return nil
	})
}

func cmdFollowing() {
	fs := flag.NewFlagSet("following", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	pages := fs.Int("pages", 1, "number of pages to fetch")
	_ = fs.Parse(os.Args[2:])
	run("following", func() error {
		a := mustLoadApp(*cfgPath)
		f := feed.NewFollowing(a.api, a.bus)
		defer f.Close()
		ctx := context.Background()
		if err := f.Load(ctx); err != nil {
			return err
		}
		for i := 1; i < *pages && f.HasMore(); i++ {
			if _, err := f.LoadMore(ctx); err != nil {
				return err
			}
		}
		printTweets(f.Tweets())
		if f.HasMore() {
			fmt.Println("(more available)")
		}
		return nil
	})
}

func cmdTweet() {
	fs := flag.NewFlagSet("tweet", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	text := fs.String("text", "", "tweet body")
	_ = fs.Parse(os.Args[2:])
	run("tweet", func() error {
		a := mustLoadApp(*cfgPath)
		c := feed.NewComposer(a.api, a.bus)
		t, err := c.Create(context.Background(), *text)
		if err != nil {
			return err
		}
		fmt.Printf("Posted tweet %d\n", t.ID)
		return nil
	})
}

func cmdEdit() {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	id := fs.Int64("id", 0, "tweet id")
	text := fs.String("text", "", "replacement body")
	_ = fs.Parse(os.Args[2:])
	run("edit", func() error {
		a := mustLoadApp(*cfgPath)
		ctx := context.Background()
		prior, err := a.api.FetchTweet(ctx, *id)
		if err != nil {
			return err
		}
		c := feed.NewComposer(a.api, a.bus)
		t, err := c.Edit(ctx, prior, *text)
		if err != nil {
			return err
		}
		fmt.Printf("Edited tweet %d\n", t.ID)
		return nil
	})
}

func cmdLike() {
	fs := flag.NewFlagSet("like", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	id := fs.Int64("id", 0, "tweet id")
	_ = fs.Parse(os.Args[2:])
	run("like", func() error {
		a := mustLoadApp(*cfgPath)
		res, err := a.api.ToggleLike(context.Background(), *id)
		if err != nil {
			return err
		}
		if res.Liked {
			fmt.Printf("Liked tweet %d (%d likes)\n", *id, res.LikesCount)
		} else {
			fmt.Printf("Unliked tweet %d (%d likes)\n", *id, res.LikesCount)
		}
		return nil
	})
}

func cmdComment() {
	fs := flag.NewFlagSet("comment", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	id := fs.Int64("id", 0, "tweet id")
	text := fs.String("text", "", "comment body")
	_ = fs.Parse(os.Args[2:])
	run("comment", func() error {
		a := mustLoadApp(*cfgPath)
		d := feed.NewDetail(a.api, a.bus)
		defer d.Close()
		ctx := context.Background()
		if err := d.Load(ctx, *id); err != nil {
			return err
		}
		if err := d.AddComment(ctx, *text); err != nil {
			return err
		}
		t, _ := d.Tweet()
		fmt.Printf("Commented on tweet %d (%d comments)\n", t.ID, t.CommentsCount)
		return nil
	})
}

func cmdProfile() {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	user := fs.String("user", "", "username")
	_ = fs.Parse(os.Args[2:])
	run("profile", func() error {
		a := mustLoadApp(*cfgPath)
		p := feed.NewProfile(a.api, a.bus)
		defer p.Close()
		if err := p.Load(context.Background(), *user); err != nil {
			return err
		}
		prof, _ := p.Data()
		fmt.Printf("@%s  followers=%d following=%d\n",
			prof.User.Username, prof.User.FollowersCount, prof.User.FollowingCount)
		if prof.User.IsFollowing {
			fmt.Println("You follow this user.")
		}
		fmt.Printf("\nTweets (%d):\n", len(prof.Tweets))
		printTweets(prof.Tweets)
		return nil
	})
}

func cmdFollow() {
	fs := flag.NewFlagSet("follow", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	user := fs.String("user", "", "username")
	_ = fs.Parse(os.Args[2:])
	run("follow", func() error {
		a := mustLoadApp(*cfgPath)
		p := feed.NewProfile(a.api, a.bus)
		defer p.Close()
		ctx := context.Background()
		if err := p.Load(ctx, *user); err != nil {
			return err
		}
		if err := p.ToggleFollow(ctx); err != nil {
			return err
		}
		prof, _ := p.Data()
		if prof.User.IsFollowing {
			fmt.Printf("Now following @%s (%d followers)\n", prof.User.Username, prof.User.FollowersCount)
		} else {
			fmt.Printf("Unfollowed @%s (%d followers)\n", prof.User.Username, prof.User.FollowersCount)
		}
		return nil
	})
}

func cmdTUI() {
	fs := flag.NewFlagSet("tui", flag.ExitOnError)
	cfgPath := fs.String("config", "./chirp.yaml", "config path")
	_ = fs.Parse(os.Args[2:])
	run("tui", func() error {
		a := mustLoadApp(*cfgPath)
		// JSON log lines would corrupt the alt screen; send them to a file.
		logPath := filepath.Join(filepath.Dir(a.cfg.Session.StoragePath), "tui.log")
		if lf, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
			defer lf.Close()
			logging.SetOutput(lf)
		} else {
			logging.SetOutput(io.Discard)
		}
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go a.mgr.Run(ctx)

		deps := tui.Deps{
			Session:  a.mgr,
			Home:     feed.NewHome(a.api, a.bus, a.cfg.Feed.SideListLimit),
			Follow:   feed.NewFollowing(a.api, a.bus),
			Detail:   feed.NewDetail(a.api, a.bus),
			Profile:  feed.NewProfile(a.api, a.bus),
			Composer: feed.NewComposer(a.api, a.bus),
		}
		p := tea.NewProgram(tui.NewModel(ctx, deps), tea.WithAltScreen())
		_, err := p.Run()
		return err
	})
}

func run(cmd string, f func() error) {
	if err := cmdlog.Run(cmd, f); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func printTweets(tweets []model.Tweet) {
	for _, t := range tweets {
		edited := ""
		if t.Edited {
			edited = " (edited)"
		}
		fmt.Printf("[%d] @%s: %s%s\n      %s  ♥ %d  💬 %d\n",
			t.ID, t.Poster, t.Tweet, edited,
			t.DatePosted.Local().Format("Jan 2, 2006 15:04"), t.LikesCount, t.CommentsCount)
	}
	fmt.Println()
}

func prompt(label string) string {
	fmt.Print(label)
	r := bufio.NewReader(os.Stdin)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

func promptSecret(label string) string {
	fmt.Print(label)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return prompt("")
	}
	return strings.TrimSpace(string(b))
}
