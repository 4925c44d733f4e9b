/*
Package main wires together a dictionary, a keyboard geometry, and the
best-first decoder into a runnable binary.

gboard-decode loads a single binary dictionary file built by this
project's own format (see pkg/dict), builds a proximity table approximating
a standard QWERTY layout, and either drops into an interactive CLI for
manual decode/predict testing or serves management and decode requests as
a MessagePack IPC server over stdin/stdout.

# Usage

Interactive CLI against a dictionary file:

	decodecli -dict words.bin

MessagePack IPC server, for driving from another process:

	decodecli -dict words.bin -serve

With no -dict, the binary starts with an empty dictionary, useful for
exercising addUnigramWord/addBigramWords by hand before flushing.
*/
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/gboard-decode/internal/cli"
	gblog "github.com/bastiangx/gboard-decode/internal/logger"
	"github.com/bastiangx/gboard-decode/internal/proximity"
	"github.com/bastiangx/gboard-decode/internal/ptrie"
	"github.com/bastiangx/gboard-decode/internal/utils"
	"github.com/bastiangx/gboard-decode/pkg/config"
	"github.com/bastiangx/gboard-decode/pkg/dict"
	"github.com/bastiangx/gboard-decode/pkg/ipc"
	"github.com/bastiangx/gboard-decode/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "gboard-decode"
	gh      = "https://github.com/bastiangx/gboard-decode"
)

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

// main wires the dictionary, proximity table, and decoder together and
// dispatches to either the interactive CLI or the IPC server. It does not
// itself implement decode or protocol logic.
func main() {
	sigHandler()
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	dictPath := flag.String("dict", "", "Path to a binary dictionary file (empty starts with an empty dictionary)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	serveMode := flag.Bool("serve", false, "Run the MessagePack IPC server over stdin/stdout instead of the interactive CLI")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultMaxResults, "Number of suggestions to return")
	configPath := flag.String("config", "", "Path to a config.toml override")

	flag.Parse()

	if *showVersion {
		versionLogger := log.NewWithOptions(os.Stderr, log.Options{
			ReportCaller:    false,
			ReportTimestamp: false,
			Prefix:          "",
		})

		styles := log.DefaultStyles()
		styles.Values["version"] = lipgloss.NewStyle().Bold(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
			Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
		styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
			Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
		versionLogger.SetStyles(styles)

		versionLogger.Print("")
		versionLogger.Print("[ gboard-decode ] On-device keyboard decode core")
		versionLogger.Print("", "version", Version)
		versionLogger.Print("")
		versionLogger.Print("use -h or --help to see available options")
		versionLogger.Print("Github Repo", "gh", gh)

		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Fatalf("failed to initialize path resolver: %v", err)
		os.Exit(1)
	}

	appConfig, activeConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
		os.Exit(1)
	}
	log.Debugf("using config: %s", activeConfigPath)

	trie, header := loadOrCreateDictionary(pathResolver, *dictPath)
	prox := proximity.NewGridInfo(defaultQwertyLayout(), defaultProximityRadius)
	suggester := suggest.New(trie, prox, appConfig.Decoder)

	if *serveMode {
		srv := ipc.NewServer(trie, suggester, header, gblog.New("ipc"))
		showStartupInfo(*dictPath)
		if err := srv.Serve(os.Stdin, os.Stdout); err != nil {
			log.Fatalf("ipc server error: %v", err)
			os.Exit(1)
		}
		return
	}

	log.SetReportTimestamp(false)
	mirror := ptrie.Build(trie)
	inputHandler := cli.NewInputHandler(suggester, trie, mirror, *limit)
	if err := inputHandler.Start(); err != nil {
		log.Fatalf("CLI error: %v", err)
		os.Exit(1)
	}
}

// loadOrCreateDictionary loads userSpecifiedPath through pathResolver if
// one was given, or starts an empty in-memory trie otherwise.
func loadOrCreateDictionary(pathResolver *utils.PathResolver, userSpecifiedPath string) (*dict.Trie, dict.Header) {
	if userSpecifiedPath == "" {
		log.Warn("no dictionary path specified, starting with an empty dictionary")
		return dict.NewTrie(gblog.New("dict")), dict.NewHeader(nil)
	}

	resolvedPath, err := pathResolver.GetDictionaryPath(userSpecifiedPath)
	if err != nil {
		log.Fatalf("failed to resolve dictionary path: %v", err)
		os.Exit(1)
	}

	trie, header, err := dict.LoadFile(resolvedPath, func() *log.Logger { return gblog.New("dict") })
	if err != nil {
		log.Fatalf("failed to load dictionary from %s: %v", resolvedPath, err)
		os.Exit(1)
	}
	log.Debugf("loaded dictionary from %s", resolvedPath)
	return trie, header
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(dictPath string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	println("================")
	println(" gboard-decode  ")
	println("================")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Info("init: OK")
	if dictPath != "" {
		log.Infof("dictionary: ( %s )", dictPath)
	} else {
		log.Info("dictionary: (empty)")
	}
	log.Info("status: ready, serving on stdin/stdout")
	println("================")
	println("Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}

// defaultProximityRadius is tuned for the unit spacing used by
// defaultQwertyLayout, wide enough to catch the immediate neighbors of a
// key without pulling in keys two rows away.
const defaultProximityRadius = 1.5

// defaultQwertyLayout approximates a standard QWERTY keyboard's key
// centers, staggered row to row the way physical keyboards are, so
// GridInfo's Euclidean neighbor search lines up with what a user would
// actually mistype. Bottom-row letters flanking the space bar are marked
// NearSpace. Production proximity tables are supplied by the host
// platform; this is only the CLI harness's stand-in.
func defaultQwertyLayout() []struct {
	CodePoint rune
	X, Y      float64
	NearSpace bool
} {
	type row struct {
		letters  string
		y        float64
		xOffset  float64
		nearSpace bool
	}
	rows := []row{
		{"qwertyuiop", 0, 0.0, false},
		{"asdfghjkl", 1, 0.5, false},
		{"zxcvbnm", 2, 1.0, true},
	}

	var layout []struct {
		CodePoint rune
		X, Y      float64
		NearSpace bool
	}
	for _, r := range rows {
		for i, ch := range r.letters {
			layout = append(layout, struct {
				CodePoint rune
				X, Y      float64
				NearSpace bool
			}{CodePoint: ch, X: r.xOffset + float64(i), Y: r.y, NearSpace: r.nearSpace})
		}
	}
	return layout
}
