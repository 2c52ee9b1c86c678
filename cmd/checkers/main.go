package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/park285/cheese-checkers/internal/adapter/textview"
	"github.com/park285/cheese-checkers/internal/checkers"
	appcfg "github.com/park285/cheese-checkers/internal/config"
	"github.com/park285/cheese-checkers/internal/game"
	"github.com/park285/cheese-checkers/internal/msgcat"
	"github.com/park285/cheese-checkers/internal/obslog"
	"github.com/park285/cheese-checkers/internal/results"
	"github.com/park285/cheese-checkers/internal/session"
	"github.com/park285/cheese-checkers/internal/snapshot"
	"go.uber.org/zap"
)

func main() {
	resumeID := flag.String("resume", "", "game id to resume from the snapshot store")
	flag.Parse()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = obslog.L().Sync() }()

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		log.Fatalf("messages error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var store *snapshot.Store
	if cfg.RedisURL != "" {
		dctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		store, err = snapshot.Dial(dctx, cfg.RedisURL, cfg.SnapshotTTL)
		cancel()
		if err != nil {
			log.Fatalf("snapshot store init error: %v", err)
		}
	}
	repo := results.NewMemoryRepository()
	if cfg.DatabaseURL != "" {
		pg, err := results.NewPostgresRepository(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("results repo init error: %v", err)
		}
		repo = pg
	}

	mgr := session.NewManager(session.Config{
		Rules:      cfg.Rules,
		TurnBudget: cfg.TurnBudget,
		Store:      store,
		Results:    repo,
	})
	defer func() { _ = mgr.Close() }()

	var id string
	if *resumeID != "" {
		if err := mgr.Resume(ctx, *resumeID); err != nil {
			log.Fatalf("resume %s: %v", *resumeID, err)
		}
		id = *resumeID
	} else if id, err = mgr.Create(ctx, cfg.Player1Name, cfg.Player2Name); err != nil {
		log.Fatalf("create game: %v", err)
	}
	obslog.L().Info("checkers_console_start",
		zap.String("game_id", id),
		zap.Bool("snapshots", store != nil),
		zap.Bool("postgres", cfg.DatabaseURL != ""),
	)

	c := &console{ctx: ctx, mgr: mgr, repo: repo, id: id, view: textview.NewFormatter(cat)}
	fmt.Println(c.view.Help())
	fmt.Printf("game %s\n", id)
	c.show()

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			notices, err := mgr.Tick(ctx, id)
			c.handle(notices, err)
		case line, ok := <-lines:
			if !ok || !c.command(line) {
				return
			}
		}
	}
}

type console struct {
	ctx  context.Context
	mgr  *session.Manager
	repo results.Repository
	id   string
	view *textview.Formatter
}

// command runs one input line and reports whether to keep going.
func (c *console) command(line string) bool {
	parts := strings.Fields(strings.ToLower(line))
	if len(parts) == 0 {
		return true
	}
	switch parts[0] {
	case "p", "piece", "t", "tile":
		at, err := parseCoord(parts[1:])
		if err != nil {
			fmt.Println(err)
			return true
		}
		var ev game.Event = game.SelectTile{At: at}
		if parts[0] == "p" || parts[0] == "piece" {
			ev = game.SelectPiece{At: at}
		}
		notices, err := c.mgr.Dispatch(c.ctx, c.id, ev)
		if errors.Is(err, game.ErrInvalidCoordinate) {
			fmt.Println(c.view.Invalid(at))
			return true
		}
		c.handle(notices, err)
	case "forfeit":
		var who checkers.PlayerID
		_ = c.mgr.View(c.id, func(m *game.Model) { who = m.State().CurrentPlayer() })
		if !who.Valid() {
			fmt.Println("nobody to forfeit")
			return true
		}
		c.handle(c.mgr.Dispatch(c.ctx, c.id, game.Forfeit{Player: who}))
	case "reset":
		c.handle(c.mgr.Reset(c.ctx, c.id))
	case "board":
		c.show()
	case "results":
		c.recent()
	case "help":
		fmt.Println(c.view.Help())
	case "quit", "exit":
		return false
	default:
		fmt.Println(c.view.Help())
	}
	return true
}

// handle prints notices. The console has no animation, so a committed move is
// completed straight away and both batches are printed as one frame.
func (c *console) handle(notices []game.Notice, err error) {
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(notices) == 0 {
		return
	}
	for _, n := range notices {
		if mc, ok := n.(game.MoveCommitted); ok {
			more, err := c.mgr.Dispatch(c.ctx, c.id, game.AnimationDone{Seq: mc.Seq})
			if err != nil {
				fmt.Println("error:", err)
			}
			notices = append(notices, more...)
			break
		}
	}
	_ = c.mgr.View(c.id, func(m *game.Model) {
		if s := c.view.Frame(m, notices); s != "" {
			fmt.Println(s)
		}
	})
}

func (c *console) show() {
	_ = c.mgr.View(c.id, func(m *game.Model) {
		fmt.Println(c.view.Board(m))
		if s := c.view.Status(m); s != "" {
			fmt.Println(s)
		}
	})
}

func (c *console) recent() {
	list, err := c.repo.Recent(c.ctx, "", 5)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	if len(list) == 0 {
		fmt.Println("no finished games yet")
		return
	}
	for _, r := range list {
		fmt.Printf("%s  %s vs %s  %s  %s\n", r.EndedAt.Format("2006-01-02 15:04"), r.Player1, r.Player2, r.PDNResult(), strings.Join(r.Moves, " "))
	}
}

func parseCoord(args []string) (checkers.Coord, error) {
	if len(args) != 2 {
		return checkers.Coord{}, fmt.Errorf("usage: <p|t> <x> <y>")
	}
	x, err := strconv.Atoi(args[0])
	if err != nil {
		return checkers.Coord{}, fmt.Errorf("bad x %q", args[0])
	}
	y, err := strconv.Atoi(args[1])
	if err != nil {
		return checkers.Coord{}, fmt.Errorf("bad y %q", args[1])
	}
	return checkers.Coord{X: x, Y: y}, nil
}
