// Command substrate is the interactive first-principles reasoning shell.
// It is pure I/O plumbing around the engine: banner, key loading, REPL
// loop, spinner, and verdict rendering.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	anthropicsdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/substratehq/substrate/critic"
	"github.com/substratehq/substrate/engine"
	"github.com/substratehq/substrate/memory"
	"github.com/substratehq/substrate/memory/embedder/cached"
	"github.com/substratehq/substrate/memory/index/chromem"
	sqlitelog "github.com/substratehq/substrate/memory/log/sqlite"
	"github.com/substratehq/substrate/model/anthropic"
)

const banner = `
███████╗██╗   ██╗██████╗ ███████╗████████╗██████╗  █████╗ ████████╗███████╗
██╔════╝██║   ██║██╔══██╗██╔════╝╚══██╔══╝██╔══██╗██╔══██╗╚══██╔══╝██╔════╝
███████╗██║   ██║██████╔╝███████╗   ██║   ██████╔╝███████║   ██║   █████╗
╚════██║██║   ██║██╔══██╗╚════██║   ██║   ██╔══██╗██╔══██║   ██║   ██╔══╝
███████║╚██████╔╝██████╔╝███████║   ██║   ██║  ██║██║  ██║   ██║   ███████╗
╚══════╝ ╚═════╝ ╚═════╝ ╚══════╝   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝   ╚═╝   ╚══════╝
`

var (
	bannerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	subtitle     = lipgloss.NewStyle().Foreground(lipgloss.Color("7")).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
)

const farewell = "Session terminated. Think clearly."

func main() {
	modelFlag := flag.String("model", string(anthropic.DefaultModel), "Claude model to use")
	flag.Parse()

	_ = godotenv.Load()

	log.SetLevel(log.WarnLevel)
	if os.Getenv("SUBSTRATE_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	apiKey := os.Getenv("ANTHROPIC_API_KEY")
	if apiKey == "" {
		fmt.Println(errStyle.Render("Error:") + " ANTHROPIC_API_KEY not found. " +
			"Add it to a .env file or export it as an environment variable.")
		os.Exit(1)
	}

	fmt.Print(bannerStyle.Render(banner))
	fmt.Println()
	fmt.Println(subtitle.Render("First-Principles Reasoning Agent") +
		dimStyle.Render("  ·  Recursive Deconstruction  ·  Highest Leverage  ·  Zero Jargon"))
	fmt.Println()

	store, err := openStore()
	if err != nil {
		fmt.Println(errStyle.Render("Error:") + " " + err.Error())
		os.Exit(1)
	}

	// Close exactly once, whichever exit path wins.
	var closeOnce sync.Once
	shutdown := func() {
		closeOnce.Do(func() {
			if err := store.Close(); err != nil {
				log.Warnf("[CLI] Store close: %v", err)
			}
		})
	}
	defer shutdown()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		shutdown()
		fmt.Println("\n" + bannerStyle.Render(farewell))
		os.Exit(0)
	}()

	llm := anthropic.New(func(o *anthropic.Options) {
		o.Model = anthropicsdk.Model(*modelFlag)
		o.APIKey = apiKey
	})

	sp := newSpinner()
	eng := engine.New(llm, store, critic.New(llm), engine.WithHooks(engine.Hooks{
		OnAuditStart: func() { sp.setMessage("Substrate is auditing its own logic...") },
		OnAuditEnd:   func() {},
	}))

	sessionID := uuid.New().String()
	fmt.Println(dimStyle.Render(fmt.Sprintf(
		"Session %s started  ·  Model: %s  ·  %d insight(s) in long-term memory",
		sessionID[:8], *modelFlag, store.TotalInsights())))
	fmt.Println()

	repl(eng, sp, sessionID)
	shutdown()
	fmt.Println(bannerStyle.Render(farewell))
}

// openStore wires the dual memory store under ~/.substrate: a sqlite
// chronological log, a persistent chromem semantic index, and the
// build-selected embedder behind a ristretto cache.
func openStore() (*memory.Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home dir: %w", err)
	}
	dir := filepath.Join(home, ".substrate")

	chronLog, err := sqlitelog.Open(filepath.Join(dir, "substrate.db"))
	if err != nil {
		return nil, err
	}

	index, err := chromem.NewPersistent(filepath.Join(dir, "chromem"))
	if err != nil {
		chronLog.Close()
		return nil, err
	}

	emb, err := newEmbedder()
	if err != nil {
		chronLog.Close()
		index.Close()
		return nil, err
	}
	cachedEmb, err := cached.New(emb, 0)
	if err != nil {
		chronLog.Close()
		index.Close()
		return nil, err
	}

	return memory.NewStore(chronLog, index, cachedEmb), nil
}

// repl reads inputs until exit/quit or EOF, running each through the
// engine and rendering the verdict and response.
func repl(eng *engine.Engine, sp *spinner, sessionID string) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		fmt.Print(promptStyle.Render("[Substrate]") + " Enter your idea or constraint (or type 'exit'): ")
		if !scanner.Scan() {
			fmt.Println()
			return
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		switch strings.ToLower(input) {
		case "exit", "quit":
			return
		}

		sp.start("Deconstructing to atoms...")
		text, info, err := eng.RunTurn(context.Background(), sessionID, input)
		sp.stop()

		if err != nil {
			fmt.Println(errStyle.Render("API Error:") + " " + err.Error())
			continue
		}

		if info.Regenerated {
			fmt.Println(warnStyle.Render("⚠ Critic flagged:") + " " + dimStyle.Render(info.Reason))
			fmt.Println(okStyle.Render("✓ Re-generated with fix applied."))
		} else {
			fmt.Println(okStyle.Render("✓ Audit passed."))
		}

		fmt.Println()
		fmt.Println(text)
		fmt.Println()
	}
}
